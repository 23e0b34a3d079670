package assessment

import (
	"github.com/abhisek/drdscore/internal/drd"
	"github.com/abhisek/drdscore/internal/scoring"
)

// Phase is one step of a transformation pathway.
type Phase struct {
	Number int
	From   scoring.Level
	To     scoring.Level

	// Title and Description describe the level reached, when the catalog
	// has them.
	Title       string
	Description string
}

// Pathway lists the single-level steps from actual to target. It is empty
// unless both are set and target is above actual. A nil axis yields phases
// without titles.
func Pathway(axis *drd.Axis, s scoring.Aggregate) []Phase {
	if !s.Actual.IsSet() || !s.Target.IsSet() || s.Target <= s.Actual {
		return nil
	}

	phases := make([]Phase, 0, int(s.Target-s.Actual))
	for l := s.Actual; l < s.Target; l++ {
		p := Phase{Number: len(phases) + 1, From: l, To: l + 1}
		if axis != nil {
			for _, info := range axis.Levels {
				if info.Level == int(l+1) {
					p.Title, p.Description = info.Title, info.Description
				}
			}
		}
		phases = append(phases, p)
	}
	return phases
}
