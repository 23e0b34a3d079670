// Package suggest asks an LLM to propose a maturity level for one axis or
// area of a DRD assessment.
package suggest

import (
	"fmt"

	"github.com/abhisek/drdscore/internal/drd"
	"github.com/abhisek/drdscore/internal/scoring"
)

// Input is everything the model sees about the rated item.
type Input struct {
	Axis *drd.Axis

	// Area is nil when rating a simple axis.
	Area *drd.Area

	// Kind selects whether the current state or the goal is rated.
	Kind scoring.Kind

	// Current is the area's present pair. Ignored for simple axes.
	Current scoring.AreaScorePair

	// CurrentAxis holds a simple axis' scalars.
	CurrentAxis scoring.Aggregate

	// Notes is free text from the assessor describing the organisation.
	Notes string
}

// ItemID returns the area ID, or "axis<N>" for a simple axis.
func (in Input) ItemID() string {
	if in.Area != nil {
		return in.Area.ID
	}
	return fmt.Sprintf("axis%d", in.Axis.ID)
}

// Scale is the number of levels the rated item is scored on.
func (in Input) Scale() int {
	if in.Area != nil {
		return in.Axis.AreaScale(in.Area)
	}
	return in.Axis.Scale
}

// Suggestion is a validated level proposal.
type Suggestion struct {
	AxisID     int
	AreaID     string
	Kind       scoring.Kind
	Level      scoring.Level
	Confidence float64
	Rationale  string
	Model      string
}

// ValidationError describes why a model response was rejected.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("suggestion %s: %s", e.Field, e.Message)
}
