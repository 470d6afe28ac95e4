package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/helpdesk-api/internal/models"
)

func newFakeOpenAI(t *testing.T, reply string) *AIService {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)

		var req openai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			ID: "chatcmpl-test",
			Choices: []openai.ChatCompletionChoice{{
				Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: reply},
			}},
		})
	}))
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	return NewAIServiceWithConfig(cfg, "test-model")
}

func TestAIService_SuggestTriage(t *testing.T) {
	svc := newFakeOpenAI(t, "```json\n{\"priority\": \"high\", \"category\": \"Billing\", \"reason\": \"Payment blocked\"}\n```")

	got, err := svc.SuggestTriage(context.Background(), "Card declined", "Cannot pay my invoice", []string{"Technical", "Billing"})
	require.NoError(t, err)
	assert.Equal(t, models.TicketPriorityHigh, got.Priority)
	assert.Equal(t, "Billing", got.Category)
	assert.Equal(t, "Payment blocked", got.Reason)
}

func TestAIService_SuggestTriageNormalisesUnknownValues(t *testing.T) {
	svc := newFakeOpenAI(t, `{"priority": "urgent", "category": "Hardware", "reason": "?"}`)

	got, err := svc.SuggestTriage(context.Background(), "s", "d", []string{"Technical"})
	require.NoError(t, err)
	assert.Equal(t, models.TicketPriorityMedium, got.Priority)
	assert.Empty(t, got.Category)
}

func TestAIService_SuggestTriageBadJSON(t *testing.T) {
	svc := newFakeOpenAI(t, "not json")

	_, err := svc.SuggestTriage(context.Background(), "s", "d", nil)
	assert.Error(t, err)
}

func TestAIService_NilIsNotConfigured(t *testing.T) {
	var svc *AIService
	_, err := svc.SuggestTriage(context.Background(), "s", "d", nil)
	assert.ErrorIs(t, err, ErrAIServiceNotConfigured)
}
