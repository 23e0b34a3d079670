package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/drdscore/internal/assessment"
	"github.com/abhisek/drdscore/internal/drd"
	"github.com/abhisek/drdscore/internal/scoring"
	"github.com/abhisek/drdscore/internal/ui/components"
	"github.com/abhisek/drdscore/internal/ui/theme"
)

// RenderScorecard renders every axis of a with its areas, sense-check
// findings and transformation pathway.
func RenderScorecard(cat *drd.Catalog, a *assessment.Assessment, width int) string {
	width = ClampWidth(width)

	var b strings.Builder
	b.WriteString(RenderHeader(a.Name, "updated "+a.UpdatedAt.Local().Format("2006-01-02 15:04"), width))
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render("  " + a.ID))
	b.WriteString("\n\n")

	for _, id := range a.AxisIDs() {
		axis, err := cat.Axis(id)
		if err != nil {
			continue
		}
		b.WriteString(RenderAxis(axis, a.Axes[id], a.Rationale[id], width))
		b.WriteString("\n")
	}

	b.WriteString(RenderFooter(Legend))
	b.WriteString("\n")
	return b.String()
}

// RenderAxis renders one axis card.
func RenderAxis(axis *drd.Axis, score scoring.AxisScore, rationale string, width int) string {
	s := score.Scores()

	var body strings.Builder
	fmt.Fprintf(&body, "%s  %s  %s\n",
		theme.Title.Render(fmt.Sprintf("%d. %s", axis.ID, axis.Name)),
		theme.ActualLabel.Render("actual "+levelLabel(axis, s.Actual)),
		theme.TargetLabel.Render("target "+levelLabel(axis, s.Target)),
	)

	if d, ok := score.(scoring.DetailedAxis); ok {
		labelWidth := 0
		for _, ar := range axis.Areas {
			labelWidth = max(labelWidth, lipgloss.Width(areaLabel(ar)))
		}
		body.WriteString(components.Scale(labelWidth, axis.Scale))
		body.WriteString("\n")
		for _, ar := range axis.Areas {
			bar := components.NewLevelBar(areaLabel(ar), d.Pair(ar.ID), axis.Scale)
			bar.LabelWidth = labelWidth
			body.WriteString(bar.View())
			if top := scoring.HighestSetLevel(d.Pair(ar.ID).Actual); top > 0 {
				body.WriteString(theme.Hint.Render(fmt.Sprintf("  up to %d", top)))
			}
			body.WriteString("\n")
		}
	}

	for _, f := range assessment.SenseCheck(axis.ID, s) {
		body.WriteString(RenderFinding(f))
		body.WriteString("\n")
	}

	if phases := assessment.Pathway(axis, s); len(phases) > 0 {
		body.WriteString(theme.Subtitle.Render(fmt.Sprintf("Pathway %d → %d", s.Actual, s.Target)))
		body.WriteString("\n")
		for _, p := range phases {
			fmt.Fprintf(&body, "  %d. %d → %d %s\n", p.Number, p.From, p.To, p.Title)
		}
	}

	if rationale != "" {
		body.WriteString(theme.Hint.Render("Rationale: " + rationale))
		body.WriteString("\n")
	}

	return theme.Card.Width(width).Render(strings.TrimRight(body.String(), "\n"))
}

// RenderFinding renders one sense-check finding.
func RenderFinding(f assessment.Finding) string {
	if f.Severity == assessment.SeverityWarning {
		return theme.WarningText.Render("! " + f.Message)
	}
	return theme.InfoText.Render("i " + f.Message)
}

func areaLabel(ar drd.Area) string {
	return ar.ID + " " + ar.Name
}

func levelLabel(axis *drd.Axis, l scoring.Level) string {
	if !l.IsSet() {
		return "-"
	}
	if t := axis.LevelTitle(int(l)); t != "" {
		return fmt.Sprintf("%d (%s)", l, t)
	}
	return l.String()
}
