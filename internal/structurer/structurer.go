// Package structurer recovers line-item descriptions from the parser's
// candidate lines using a chat completion. The heuristic engine leaves
// description recovery unsolved by design; this is the optional LLM-based
// downstream step that turns its unstructured superset into named items.
// Best-effort only: callers fall back to positional conversion when the
// model is unavailable or returns garbage.
package structurer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"invoicebridge/internal/gemini"
	"invoicebridge/pkg/models"
)

// ErrMissingAPIKey is returned when no OpenAI API key is configured.
var ErrMissingAPIKey = errors.New("openai API key is not configured")

// Config configures the line-item structurer.
type Config struct {
	Model       string  // e.g. "gpt-4o-mini"
	Temperature float32 // kept low; this is transcription, not generation
}

// Service structures candidate lines via chat completion.
type Service struct {
	client *openai.Client
	cfg    Config
	log    zerolog.Logger
}

// NewService creates a structurer from an API key.
func NewService(apiKey string, cfg Config, log zerolog.Logger) (*Service, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	return NewServiceWithClient(openai.NewClient(apiKey), cfg, log), nil
}

// NewServiceWithClient creates a structurer with an injected client,
// which tests use to point at a local server.
func NewServiceWithClient(client *openai.Client, cfg Config, log zerolog.Logger) *Service {
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}
	return &Service{client: client, cfg: cfg, log: log}
}

// structuredResponse is the strict JSON shape requested from the model.
// Numeric fields are accepted as strings and normalized later.
type structuredResponse struct {
	LineItems []struct {
		Description string `json:"description"`
		Quantity    string `json:"quantity"`
		UnitPrice   string `json:"unit_price"`
	} `json:"line_items"`
}

// StructureLineItems asks the model to align the candidate rows with item
// descriptions from the surrounding document lines.
func (s *Service) StructureLineItems(ctx context.Context, candidates []models.LineItemCandidate, allLines []string) ([]models.LineItem, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	start := time.Now()
	prompt := buildPrompt(candidates, allLines)

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.cfg.Model,
		Temperature: s.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: "You align invoice table rows with their item descriptions. " +
					"Respond with JSON only: {\"line_items\":[{\"description\",\"quantity\",\"unit_price\"}]}. " +
					"Quantity and unit_price are strings copied from the row values.",
			},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("structure line items: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("structure line items: empty completion")
	}

	var parsed structuredResponse
	content := gemini.StripFences(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("decode structured items: %w", err)
	}

	items := make([]models.LineItem, 0, len(parsed.LineItems))
	for _, it := range parsed.LineItems {
		items = append(items, models.LineItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}

	s.log.Info().
		Int("candidates", len(candidates)).
		Int("items", len(items)).
		Dur("duration", time.Since(start)).
		Msg("Line items structured")
	return items, nil
}

func buildPrompt(candidates []models.LineItemCandidate, allLines []string) string {
	var b strings.Builder
	b.WriteString("Candidate table rows (raw line followed by the decimal values found on it):\n")
	for _, cand := range candidates {
		fmt.Fprintf(&b, "- %q values=%s\n", cand.RawLine, strings.Join(cand.Values, " "))
	}
	b.WriteString("\nFull document lines for context:\n")
	for _, line := range allLines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString("\nRows that are totals or tax breakdowns must be omitted from line_items.")
	return b.String()
}
