package services

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/yukikurage/helpdesk-api/internal/models"
)

// AIService suggests triage for draft tickets using an OpenAI chat model.
type AIService struct {
	client *openai.Client
	model  string
}

// TriageSuggestion is the model's proposal for a draft ticket.
type TriageSuggestion struct {
	Priority models.TicketPriority `json:"priority"`
	Category string                `json:"category"`
	Reason   string                `json:"reason"`
}

func NewAIService(apiKey, model string) *AIService {
	return NewAIServiceWithConfig(openai.DefaultConfig(apiKey), model)
}

// NewAIServiceWithConfig lets callers point the client at another base URL.
func NewAIServiceWithConfig(cfg openai.ClientConfig, model string) *AIService {
	if model == "" {
		model = openai.GPT4o
	}
	return &AIService{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// SuggestTriage asks the model for a priority and one of categories for the
// draft. Answers outside the known values are normalised: an unknown priority
// becomes medium and an unknown category becomes empty.
func (s *AIService) SuggestTriage(ctx context.Context, subject, description string, categories []string) (*TriageSuggestion, error) {
	if s == nil || s.client == nil {
		return nil, ErrAIServiceNotConfigured
	}

	prompt := fmt.Sprintf(`You triage customer support tickets.

Subject: %s

Description:
%s

Available categories: %s

Reply with JSON only, in this shape:
{"priority": "low" | "medium" | "high", "category": "<one of the available categories, or empty>", "reason": "<one sentence>"}`,
		subject, description, strings.Join(categories, ", "))

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.2,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var suggestion TriageSuggestion
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &suggestion); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	if !suggestion.Priority.Valid() {
		suggestion.Priority = models.TicketPriorityMedium
	}
	if !slices.Contains(categories, suggestion.Category) {
		suggestion.Category = ""
	}
	return &suggestion, nil
}
