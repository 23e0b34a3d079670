package layout

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/drdscore/internal/ui/components"
	"github.com/abhisek/drdscore/internal/ui/theme"
)

const (
	// DefaultWidth is used when the output is not a terminal.
	DefaultWidth = 80
	MinWidth     = 48
)

// KeyHint is one entry of the legend shown under a scorecard.
type KeyHint struct {
	Key         string
	Description string
}

// Legend explains the level cell glyphs.
var Legend = []KeyHint{
	{Key: theme.ActualCell.Render(components.GlyphActual), Description: "actual"},
	{Key: theme.TargetCell.Render(components.GlyphTarget), Description: "target"},
	{Key: theme.EmptyCell.Render(components.GlyphEmpty), Description: "not set / not applicable"},
}

// ClampWidth keeps width within [MinWidth, ∞), using DefaultWidth for 0.
func ClampWidth(width int) int {
	switch {
	case width <= 0:
		return DefaultWidth
	case width < MinWidth:
		return MinWidth
	}
	return width
}

// RenderHeader renders a title bar with left and right aligned parts.
func RenderHeader(title, right string, width int) string {
	left := theme.Title.Render(title)
	r := theme.Subtitle.Render(right)

	innerWidth := width - 4 // account for border padding
	gap := innerWidth - lipgloss.Width(left) - lipgloss.Width(r)
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1).
		Render(left + strings.Repeat(" ", gap) + r)
}

// RenderFooter renders key hints on one line.
func RenderFooter(hints []KeyHint) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, h.Key+" "+theme.Subtitle.Render(h.Description))
	}
	return "  " + strings.Join(parts, "   ")
}

// RenderRule renders a horizontal separator.
func RenderRule(width int) string {
	return theme.Rule.Render(strings.Repeat("─", width))
}
