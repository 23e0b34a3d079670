package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/drdscore/internal/scoring"
	"github.com/abhisek/drdscore/internal/ui/theme"
)

// Level cell glyphs. They stay readable when colors are stripped.
const (
	GlyphActual = "●"
	GlyphTarget = "◎"
	GlyphEmpty  = "·"
)

// LevelBar renders an area's two masks as one cell per level.
type LevelBar struct {
	Label string
	Pair  scoring.AreaScorePair
	Scale int

	// LabelWidth pads the label so bars line up.
	LabelWidth int
}

// NewLevelBar creates a level bar for a scale of the given size.
func NewLevelBar(label string, pair scoring.AreaScorePair, scale int) LevelBar {
	return LevelBar{
		Label: label,
		Pair:  pair,
		Scale: scale,
	}
}

// View renders the bar, e.g. "1A  ● ● ◎ · · · ·".
func (b LevelBar) View() string {
	var out strings.Builder

	if b.Label != "" {
		label := b.Label
		if pad := b.LabelWidth - lipgloss.Width(label); pad > 0 {
			label += strings.Repeat(" ", pad)
		}
		out.WriteString(theme.Body.Render(label) + "  ")
	}

	cells := make([]string, 0, b.Scale)
	for l := scoring.Level(1); int(l) <= b.Scale; l++ {
		switch {
		case b.Pair.Actual.Has(l):
			cells = append(cells, theme.ActualCell.Render(GlyphActual))
		case b.Pair.Target.Has(l):
			cells = append(cells, theme.TargetCell.Render(GlyphTarget))
		default:
			cells = append(cells, theme.EmptyCell.Render(GlyphEmpty))
		}
	}
	out.WriteString(strings.Join(cells, " "))

	return out.String()
}

// Scale renders the level numbers aligned with a LevelBar's cells.
func Scale(labelWidth, scale int) string {
	var out strings.Builder
	if labelWidth > 0 {
		out.WriteString(strings.Repeat(" ", labelWidth+2))
	}
	nums := make([]string, 0, scale)
	for l := 1; l <= scale; l++ {
		nums = append(nums, string(rune('0'+l%10)))
	}
	out.WriteString(theme.Subtitle.Render(strings.Join(nums, " ")))
	return out.String()
}
