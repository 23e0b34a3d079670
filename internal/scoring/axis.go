package scoring

import "maps"

// AxisScore is the score of one assessment axis: either a SimpleAxis with
// scalars entered directly, or a DetailedAxis derived from its areas.
type AxisScore interface {
	// Scores returns the axis-level actual and target.
	Scores() Aggregate
	isAxisScore()
}

// SimpleAxis is an axis without areas. Its scalars are the source of truth.
type SimpleAxis struct {
	Actual Level
	Target Level
}

func (a SimpleAxis) Scores() Aggregate { return Aggregate{Actual: a.Actual, Target: a.Target} }
func (SimpleAxis) isAxisScore()        {}

// DetailedAxis is an axis scored per area. Actual and Target are derived by
// the engine and must not be set by hand.
type DetailedAxis struct {
	Areas  map[string]AreaScorePair
	Actual Level
	Target Level
}

func (a DetailedAxis) Scores() Aggregate { return Aggregate{Actual: a.Actual, Target: a.Target} }
func (DetailedAxis) isAxisScore()        {}

// NewDetailedAxis returns an axis with every listed area open and empty.
func NewDetailedAxis(areaIDs ...string) DetailedAxis {
	areas := make(map[string]AreaScorePair, len(areaIDs))
	for _, id := range areaIDs {
		areas[id] = AreaScorePair{}
	}
	return DetailedAxis{Areas: areas}
}

// Pair returns the score of an area. Areas never opened score (0, 0).
func (a DetailedAxis) Pair(areaID string) AreaScorePair {
	return a.Areas[areaID]
}

// Open returns a copy of a with areaID present. Existing scores are kept.
func (a DetailedAxis) Open(areaID string) DetailedAxis {
	out := a.clone()
	if _, ok := out.Areas[areaID]; !ok {
		out.Areas[areaID] = AreaScorePair{}
	}
	return out
}

func (a DetailedAxis) clone() DetailedAxis {
	out := a
	out.Areas = make(map[string]AreaScorePair, len(a.Areas)+1)
	maps.Copy(out.Areas, a.Areas)
	return out
}

// Recompute returns axis with derived scalars refreshed. Simple axes are
// returned unchanged.
func (e *Engine) Recompute(axis AxisScore) (AxisScore, error) {
	switch a := axis.(type) {
	case DetailedAxis:
		out, err := e.recomputeDetailed(a.clone())
		if err != nil {
			return axis, err
		}
		return out, nil
	case SimpleAxis:
		return a, nil
	default:
		return axis, &InvalidArgumentError{Arg: "axis", Value: axis, Reason: "unknown axis variant"}
	}
}

func (e *Engine) recomputeDetailed(a DetailedAxis) (DetailedAxis, error) {
	agg, err := e.Aggregate(a.Areas)
	if err != nil {
		return a, err
	}
	a.Actual, a.Target = agg.Actual, agg.Target
	return a, nil
}

// ToggleArea toggles level for kind in one area and returns the updated axis.
func (e *Engine) ToggleArea(a DetailedAxis, areaID string, level Level, kind Kind) (DetailedAxis, error) {
	return e.updateArea(a, areaID, func(p AreaScorePair) (AreaScorePair, error) {
		return e.Toggle(p, level, kind)
	})
}

// ClearArea marks level not applicable in one area and returns the updated axis.
func (e *Engine) ClearArea(a DetailedAxis, areaID string, level Level) (DetailedAxis, error) {
	return e.updateArea(a, areaID, func(p AreaScorePair) (AreaScorePair, error) {
		return e.ClearLevel(p, level)
	})
}

// SuggestArea folds a suggested level into one area and returns the updated axis.
func (e *Engine) SuggestArea(a DetailedAxis, areaID string, level Level, kind Kind) (DetailedAxis, error) {
	return e.updateArea(a, areaID, func(p AreaScorePair) (AreaScorePair, error) {
		return e.ApplySuggestedScalar(p, level, kind)
	})
}

func (e *Engine) updateArea(a DetailedAxis, areaID string, op func(AreaScorePair) (AreaScorePair, error)) (DetailedAxis, error) {
	if areaID == "" {
		return a, &InvalidArgumentError{Arg: "area", Value: areaID, Reason: "must not be empty"}
	}
	p, err := op(a.Areas[areaID])
	if err != nil {
		return a, err
	}
	out := a.clone()
	out.Areas[areaID] = p
	out, err = e.recomputeDetailed(out)
	if err != nil {
		return a, err
	}
	return out, nil
}

// SetSimple sets kind's scalar on a simple axis. Level 0 unsets it.
func (e *Engine) SetSimple(a SimpleAxis, level Level, kind Kind) (SimpleAxis, error) {
	if kind != KindActual && kind != KindTarget {
		return a, &InvalidArgumentError{Arg: "kind", Value: string(kind), Reason: "must be actual or target"}
	}
	if level != Unset {
		if err := e.CheckLevel(level); err != nil {
			return a, err
		}
	}
	if kind == KindActual {
		a.Actual = level
	} else {
		a.Target = level
	}
	return a, nil
}
