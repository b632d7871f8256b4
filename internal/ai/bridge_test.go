package ai_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"groupchat-backend/internal/ai"
	"groupchat-backend/internal/mocks"
	"groupchat-backend/internal/models"
)

func TestBridgeFirstAnswerWins(t *testing.T) {
	first := &mocks.ProviderMock{ProviderName: "cohere"}
	first.On("Ask", mock.Anything, "prompt").Return("answer from cohere", nil)
	second := &mocks.ProviderMock{ProviderName: "gemini"}

	bridge := ai.NewBridge(first, second)
	answer, err := bridge.Answer(context.Background(), "prompt")
	require.NoError(t, err)
	require.Equal(t, "answer from cohere", answer)

	// The chain stops at the first non-empty answer.
	second.AssertNotCalled(t, "Ask", mock.Anything, mock.Anything)
}

func TestBridgeFallsThroughOnError(t *testing.T) {
	first := &mocks.ProviderMock{ProviderName: "cohere"}
	first.On("Ask", mock.Anything, "prompt").Return("", errors.New("rate limited"))
	second := &mocks.ProviderMock{ProviderName: "gemini"}
	second.On("Ask", mock.Anything, "prompt").Return("gemini answer", nil)

	bridge := ai.NewBridge(first, second)
	answer, err := bridge.Answer(context.Background(), "prompt")
	require.NoError(t, err)
	require.Equal(t, "gemini answer", answer)
}

func TestBridgeEmptyAnswerCountsAsFailure(t *testing.T) {
	first := &mocks.ProviderMock{ProviderName: "cohere"}
	first.On("Ask", mock.Anything, "prompt").Return("", nil)
	second := &mocks.ProviderMock{ProviderName: "openai"}
	second.On("Ask", mock.Anything, "prompt").Return("real answer", nil)

	bridge := ai.NewBridge(first, second)
	answer, err := bridge.Answer(context.Background(), "prompt")
	require.NoError(t, err)
	require.Equal(t, "real answer", answer)
}

func TestBridgeAllProvidersFailed(t *testing.T) {
	first := &mocks.ProviderMock{ProviderName: "cohere"}
	first.On("Ask", mock.Anything, "prompt").Return("", errors.New("down"))
	second := &mocks.ProviderMock{ProviderName: "gemini"}
	second.On("Ask", mock.Anything, "prompt").Return("", nil)

	bridge := ai.NewBridge(first, second)
	_, err := bridge.Answer(context.Background(), "prompt")
	require.ErrorIs(t, err, ai.ErrAllProvidersFailed)
}

func TestBridgeNoProviders(t *testing.T) {
	_, err := ai.NewBridge().Answer(context.Background(), "prompt")
	require.ErrorIs(t, err, ai.ErrAllProvidersFailed)
}

func TestBuildPrompt(t *testing.T) {
	messages := []models.ChatMessage{
		{Sender: "alice", Message: "standup at 10"},
		{Sender: "bob", Message: "works for me"},
	}
	prompt := ai.BuildPrompt(messages, "when is standup?")
	require.Equal(t, "alice: standup at 10\nbob: works for me\n\nQuestion: when is standup?\nAnswer:", prompt)
}

func TestBuildPromptEmptyTranscript(t *testing.T) {
	prompt := ai.BuildPrompt(nil, "hello?")
	require.Equal(t, "\n\nQuestion: hello?\nAnswer:", prompt)
}
