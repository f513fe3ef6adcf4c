package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sashabaranov/go-openai"
)

type ICoach interface {
	GenerateSessionSummary(ctx context.Context, metrics SessionMetrics) (*SessionSummary, error)
}

type SessionMetrics struct {
	Title                string `json:"title"`
	Duration             int    `json:"duration"`
	WordsPerMinute       int    `json:"words_per_minute"`
	EyeContactPercentage int    `json:"eye_contact_percentage"`
	FillerWordsCount     int    `json:"filler_words_count"`
	ConfidenceScore      int    `json:"confidence_score"`
	Transcript           string `json:"transcript"`
}

type SessionSummary struct {
	Summary          string `json:"summary"`
	KeyInsight       string `json:"key_insight"`
	RecommendedDrill string `json:"recommended_drill"`
}

type coachService struct {
	client *openai.Client
	model  string
}

func NewCoach() ICoach {
	apiKey := os.Getenv("OPENAI_API_KEY")
	model := os.Getenv("OPENAI_CHAT_MODEL")

	if model == "" {
		model = openai.GPT4
	}

	return &coachService{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

const summarySystemPrompt = `You are a public speaking coach reviewing one practice session.

IMPORTANT: Return ONLY valid JSON, nothing else.

Format:
{
  "summary": "two or three sentences describing how the session went",
  "key_insight": "the single most impactful observation",
  "recommended_drill": "one concrete exercise for the next session"
}

Rules:
- Be specific: reference the actual pace, eye contact, and filler word numbers
- Keep an encouraging tone; lead with what went well
- The drill must be something the speaker can do alone in under ten minutes`

func (c *coachService) GenerateSessionSummary(ctx context.Context, metrics SessionMetrics) (*SessionSummary, error) {
	payload, err := json.Marshal(metrics)
	if err != nil {
		return nil, err
	}

	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: summarySystemPrompt,
		},
		{
			Role:    openai.ChatMessageRoleUser,
			Content: string(payload),
		},
	}

	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:       c.model,
			Messages:    messages,
			Temperature: 0.7,
			MaxTokens:   300,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
		},
	)

	if err != nil {
		return nil, fmt.Errorf("coach API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from coach model")
	}

	var summary SessionSummary
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &summary); err != nil {
		return nil, fmt.Errorf("failed to parse session summary: %w", err)
	}

	return &summary, nil
}
