package suggest

import (
	"fmt"

	"github.com/abhisek/drdscore/internal/llm"
)

// Purpose labels suggestion requests in the LLM event log.
const Purpose = "level-suggestion"

// LevelSchema returns the response schema for a scale of maxLevel rungs.
// The name carries the scale since compiled schemas are cached by name.
func LevelSchema(maxLevel int) *llm.Schema {
	return &llm.Schema{
		Name:        fmt.Sprintf("%s-%d", Purpose, maxLevel),
		Description: "A proposed digital maturity level with confidence and justification",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"level": map[string]any{
					"type":        "integer",
					"minimum":     1,
					"maximum":     maxLevel,
					"description": "The proposed maturity level",
				},
				"confidence": map[string]any{
					"type":        "number",
					"minimum":     0,
					"maximum":     1,
					"description": "How well the notes support the level, from 0 (guess) to 1 (certain)",
				},
				"rationale": map[string]any{
					"type":        "string",
					"description": "Two or three sentences tying the notes to the level description",
				},
			},
			"required":             []any{"level", "confidence", "rationale"},
			"additionalProperties": false,
		},
	}
}
