package ai

import (
	"context"
	"errors"
	"log"
	"strings"

	"groupchat-backend/internal/models"
	"groupchat-backend/internal/observability"
)

// ErrAllProvidersFailed is returned when no provider in the chain produced a
// non-empty answer.
var ErrAllProvidersFailed = errors.New("all AI providers failed to generate a response")

// Bridge tries an ordered list of providers until one answers. No retry or
// backoff across adapters; the first non-empty answer wins.
type Bridge struct {
	providers []Provider
}

func NewBridge(providers ...Provider) *Bridge {
	return &Bridge{providers: providers}
}

// BuildPrompt concatenates the full transcript as "<sender>: <message>" lines
// followed by the question. No truncation; unbounded history is an accepted
// limitation.
func BuildPrompt(messages []models.ChatMessage, question string) string {
	var b strings.Builder
	for i, msg := range messages {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(msg.Sender)
		b.WriteString(": ")
		b.WriteString(msg.Message)
	}
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\nAnswer:")
	return b.String()
}

// Answer runs the provider chain over the prompt.
func (b *Bridge) Answer(ctx context.Context, prompt string) (string, error) {
	for _, p := range b.providers {
		answer, err := p.Ask(ctx, prompt)
		if err != nil {
			log.Printf("%s failed: %v", p.Name(), err)
			observability.IncAIProviderFailure(p.Name())
			continue
		}
		if answer == "" {
			observability.IncAIProviderFailure(p.Name())
			continue
		}
		observability.IncAIAnswer(p.Name())
		return answer, nil
	}
	return "", ErrAllProvidersFailed
}
