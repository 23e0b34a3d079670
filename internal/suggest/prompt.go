package suggest

import (
	"fmt"
	"strings"

	"github.com/abhisek/drdscore/internal/drd"
	"github.com/abhisek/drdscore/internal/scoring"
)

const systemPrompt = `You are a digital transformation consultant rating organisations against the DRD digital maturity model.

Rules:
- Rate exactly one axis or area on the level scale you are given.
- Only choose a level that appears in the scale.
- For an "actual" rating, pick the level the organisation demonstrably operates at today. Do not reward plans.
- For a "target" rating, pick an ambitious but reachable level for the next two to three years.
- Base the rating on the assessor notes. When the notes are thin, say so and lower your confidence.
- Keep the rationale short and specific to the notes. Plain text only.`

// buildUserMessage renders the rated item, its scale and the current state.
func buildUserMessage(in Input, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Axis: %d %s\n", in.Axis.ID, in.Axis.Name)
	if in.Area != nil {
		fmt.Fprintf(&b, "Area: %s %s\n", in.Area.ID, in.Area.Name)
	}
	fmt.Fprintf(&b, "Rating: %s\n", in.Kind)

	b.WriteString("\nScale:\n")
	b.WriteString(buildScale(in))

	b.WriteString("\n\nCurrent state:\n")
	b.WriteString(buildCurrent(in))

	b.WriteString("\n\nAssessor notes:\n")
	notes := strings.TrimSpace(in.Notes)
	if cfg.MaxNotes > 0 && len(notes) > cfg.MaxNotes {
		notes = notes[:cfg.MaxNotes]
	}
	if notes == "" {
		notes = "None"
	}
	b.WriteString(notes)

	return b.String()
}

// buildScale lists every rung with the most specific description available.
func buildScale(in Input) string {
	var b strings.Builder
	for _, l := range levelsFor(in.Axis, in.Area) {
		if l.Level > in.Scale() {
			continue
		}
		fmt.Fprintf(&b, "%d. %s", l.Level, l.Title)
		if l.Description != "" {
			fmt.Fprintf(&b, ": %s", l.Description)
		}
		b.WriteString("\n")
	}
	if b.Len() == 0 {
		fmt.Fprintf(&b, "Levels 1 to %d\n", in.Scale())
	}
	return strings.TrimRight(b.String(), "\n")
}

func buildCurrent(in Input) string {
	if in.Area == nil {
		return fmt.Sprintf("actual=%s target=%s", in.CurrentAxis.Actual, in.CurrentAxis.Target)
	}
	return fmt.Sprintf("actual levels=%s target levels=%s",
		formatLevels(in.Current.Actual), formatLevels(in.Current.Target))
}

func formatLevels(m scoring.Mask) string {
	levels := m.Levels()
	if len(levels) == 0 {
		return "none"
	}
	parts := make([]string, len(levels))
	for i, l := range levels {
		parts[i] = l.String()
	}
	return strings.Join(parts, ",")
}

// levelsFor prefers the area's own level descriptions.
func levelsFor(axis *drd.Axis, area *drd.Area) []drd.LevelInfo {
	if area != nil && len(area.Levels) > 0 {
		return area.Levels
	}
	return axis.Levels
}
