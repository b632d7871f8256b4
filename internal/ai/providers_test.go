package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCohereProviderParsesAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req cohereChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "command-xlarge-nightly", req.Model)
		require.Equal(t, "the prompt", req.Message)
		require.Equal(t, 150, req.MaxTokens)

		json.NewEncoder(w).Encode(cohereChatResponse{Text: "  the answer  "})
	}))
	defer srv.Close()

	p := &CohereProvider{apiKey: "test-key", baseURL: srv.URL, client: srv.Client()}
	answer, err := p.Ask(context.Background(), "the prompt")
	require.NoError(t, err)
	require.Equal(t, "the answer", answer)
}

func TestCohereProviderNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := &CohereProvider{apiKey: "test-key", baseURL: srv.URL, client: srv.Client()}
	_, err := p.Ask(context.Background(), "the prompt")
	require.Error(t, err)
}

func TestCohereProviderMissingKey(t *testing.T) {
	_, err := NewCohereProvider("").Ask(context.Background(), "the prompt")
	require.Error(t, err)
}

func TestGeminiProviderParsesAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "test-key", r.URL.Query().Get("key"))

		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		require.Equal(t, "the prompt", req.Contents[0].Parts[0].Text)

		json.NewEncoder(w).Encode(geminiResponse{
			Candidates: []struct {
				Content geminiContent `json:"content"`
			}{
				{Content: geminiContent{Parts: []geminiPart{{Text: "gemini answer"}}}},
			},
		})
	}))
	defer srv.Close()

	p := &GeminiProvider{apiKey: "test-key", urlFormat: srv.URL + "?key=%s", client: srv.Client()}
	answer, err := p.Ask(context.Background(), "the prompt")
	require.NoError(t, err)
	require.Equal(t, "gemini answer", answer)
}

func TestGeminiProviderNoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(geminiResponse{})
	}))
	defer srv.Close()

	p := &GeminiProvider{apiKey: "test-key", urlFormat: srv.URL + "?key=%s", client: srv.Client()}
	answer, err := p.Ask(context.Background(), "the prompt")
	require.NoError(t, err)
	require.Empty(t, answer)
}

func TestOpenAIProviderParsesAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openAIChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "gpt-3.5-turbo", req.Model)
		require.Len(t, req.Messages, 2)
		require.Equal(t, "the prompt", req.Messages[1].Content)

		json.NewEncoder(w).Encode(openAIChatResponse{
			Choices: []struct {
				Message openAIMessage `json:"message"`
			}{
				{Message: openAIMessage{Role: "assistant", Content: "openai answer"}},
			},
		})
	}))
	defer srv.Close()

	p := &OpenAIProvider{apiKey: "test-key", baseURL: srv.URL, client: srv.Client()}
	answer, err := p.Ask(context.Background(), "the prompt")
	require.NoError(t, err)
	require.Equal(t, "openai answer", answer)
}
