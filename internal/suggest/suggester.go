package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/drdscore/internal/llm"
	"github.com/abhisek/drdscore/internal/scoring"
)

// Suggester proposes levels using an LLM provider.
type Suggester struct {
	provider llm.Provider
	config   Config
}

// New creates a Suggester with the given provider and config.
func New(provider llm.Provider, cfg Config) *Suggester {
	return &Suggester{provider: provider, config: cfg}
}

// levelOutput is the raw LLM response before validation.
type levelOutput struct {
	Level      int     `json:"level"`
	Confidence float64 `json:"confidence"`
	Rationale  string  `json:"rationale"`
}

// Suggest asks the model for a single level for the item described by in.
func (s *Suggester) Suggest(ctx context.Context, in Input) (*Suggestion, error) {
	if err := checkInput(in); err != nil {
		return nil, err
	}

	ctx = llm.WithPurpose(ctx, Purpose)

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(in, s.config)},
		},
		Schema:      LevelSchema(in.Scale()),
		MaxTokens:   s.config.MaxTokens,
		Temperature: s.config.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM suggestion failed: %w", err)
	}

	var raw levelOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	// Providers without native structured output may skip the schema bounds.
	if raw.Level < 1 || raw.Level > in.Scale() {
		return nil, &ValidationError{Field: "level", Message: fmt.Sprintf("%d outside 1..%d", raw.Level, in.Scale())}
	}
	if raw.Confidence < 0 || raw.Confidence > 1 {
		return nil, &ValidationError{Field: "confidence", Message: fmt.Sprintf("%g outside 0..1", raw.Confidence)}
	}
	rationale := strings.TrimSpace(raw.Rationale)
	if rationale == "" {
		return nil, &ValidationError{Field: "rationale", Message: "empty"}
	}

	sug := &Suggestion{
		AxisID:     in.Axis.ID,
		Kind:       in.Kind,
		Level:      scoring.Level(raw.Level),
		Confidence: raw.Confidence,
		Rationale:  rationale,
		Model:      resp.Model,
	}
	if in.Area != nil {
		sug.AreaID = in.Area.ID
	}
	return sug, nil
}

func checkInput(in Input) error {
	if in.Axis == nil {
		return errors.New("suggest: axis is required")
	}
	if in.Axis.Scale < 1 || in.Axis.Scale > scoring.MaxScale {
		return fmt.Errorf("suggest: axis %d has invalid scale %d", in.Axis.ID, in.Axis.Scale)
	}
	if _, err := scoring.ParseKind(string(in.Kind)); err != nil {
		return fmt.Errorf("suggest: %w", err)
	}
	return nil
}
