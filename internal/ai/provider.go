package ai

import (
	"context"
	"net/http"
	"time"
)

// Provider is a single external answer-generation integration. Adapters are
// tried in sequence by the Bridge; an error or empty answer moves the chain
// to the next one.
type Provider interface {
	Name() string
	Ask(ctx context.Context, prompt string) (string, error)
}

// newHTTPClient bounds every provider call so a hanging upstream cannot pin
// a request goroutine indefinitely.
func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}
