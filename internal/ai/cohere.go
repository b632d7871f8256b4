package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const cohereChatURL = "https://api.cohere.com/v1/chat"

// CohereProvider answers through Cohere's chat API.
type CohereProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewCohereProvider(apiKey string) *CohereProvider {
	return &CohereProvider{apiKey: apiKey, baseURL: cohereChatURL, client: newHTTPClient()}
}

func (p *CohereProvider) Name() string { return "cohere" }

type cohereChatRequest struct {
	Model       string  `json:"model"`
	Message     string  `json:"message"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

type cohereChatResponse struct {
	Text string `json:"text"`
}

func (p *CohereProvider) Ask(ctx context.Context, prompt string) (string, error) {
	if p.apiKey == "" {
		return "", fmt.Errorf("cohere: API key not configured")
	}

	body, err := json.Marshal(cohereChatRequest{
		Model:       "command-xlarge-nightly",
		Message:     prompt,
		MaxTokens:   150,
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("cohere: unexpected status %d", resp.StatusCode)
	}

	var out cohereChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.Text), nil
}
