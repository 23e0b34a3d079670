// Package assessment manages stored DRD assessments: creating them from the
// catalog, applying score mutations through the scoring engine, and
// deriving sense-check findings and transformation pathways.
package assessment

import (
	"maps"
	"slices"
	"time"

	"github.com/abhisek/drdscore/internal/scoring"
)

// Assessment is the scored state of one organisation against the catalog.
type Assessment struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Axes holds one score per catalog axis, keyed by axis ID.
	Axes map[int]scoring.AxisScore

	// Rationale holds the strategic rationale text per axis.
	Rationale map[int]string
}

// AxisIDs returns the scored axis IDs in ascending order.
func (a *Assessment) AxisIDs() []int {
	return slices.Sorted(maps.Keys(a.Axes))
}

// Scores returns the axis-level actual and target, Unset for unknown axes.
func (a *Assessment) Scores(axisID int) scoring.Aggregate {
	if ax, ok := a.Axes[axisID]; ok {
		return ax.Scores()
	}
	return scoring.Aggregate{}
}

// SenseCheck runs the consistency checks over every axis.
func (a *Assessment) SenseCheck() []Finding {
	var out []Finding
	for _, id := range a.AxisIDs() {
		out = append(out, SenseCheck(id, a.Axes[id].Scores())...)
	}
	return out
}
