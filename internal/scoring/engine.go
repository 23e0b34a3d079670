package scoring

import (
	"fmt"
	"math/bits"
)

// Engine applies maturity operations on a scale of levels 1..MaxLevel.
// It holds no state besides the scale size and is safe for concurrent use.
type Engine struct {
	maxLevel Level
}

// NewEngine creates an engine for levels 1..maxLevel.
func NewEngine(maxLevel int) (*Engine, error) {
	if maxLevel < 1 || maxLevel > MaxScale {
		return nil, &InvalidArgumentError{
			Arg:    "scale",
			Value:  maxLevel,
			Reason: fmt.Sprintf("must be within [1, %d]", MaxScale),
		}
	}
	return &Engine{maxLevel: Level(maxLevel)}, nil
}

// MustEngine is like NewEngine but panics on an invalid scale.
func MustEngine(maxLevel int) *Engine {
	e, err := NewEngine(maxLevel)
	if err != nil {
		panic(err)
	}
	return e
}

// MaxLevel returns the top of the scale.
func (e *Engine) MaxLevel() Level {
	return e.maxLevel
}

// scaleMask has a bit for every level on the scale.
func (e *Engine) scaleMask() Mask {
	return Mask(uint64(1)<<uint(e.maxLevel) - 1)
}

// CheckLevel returns an error if level is outside [1, MaxLevel].
func (e *Engine) CheckLevel(level Level) error {
	if level < 1 || level > e.maxLevel {
		return &InvalidArgumentError{
			Arg:    "level",
			Value:  int(level),
			Reason: fmt.Sprintf("must be within [1, %d]", e.maxLevel),
		}
	}
	return nil
}

// Validate checks that p has no level flagged in both masks and no bit
// above the scale.
func (e *Engine) Validate(p AreaScorePair) error {
	if err := checkDisjoint(p); err != nil {
		return err
	}
	if extra := (p.Actual | p.Target) &^ e.scaleMask(); extra != 0 {
		return &InvalidArgumentError{
			Arg:    "score pair",
			Value:  fmt.Sprintf("[%d, %d]", p.Actual, p.Target),
			Reason: fmt.Sprintf("levels %v exceed scale %d", extra.Levels(), e.maxLevel),
		}
	}
	return nil
}

func checkDisjoint(p AreaScorePair) error {
	if overlap := p.Actual & p.Target; overlap != 0 {
		return &InvalidArgumentError{
			Arg:    "score pair",
			Value:  fmt.Sprintf("[%d, %d]", p.Actual, p.Target),
			Reason: fmt.Sprintf("levels %v flagged as both actual and target", overlap.Levels()),
		}
	}
	return nil
}

// ToggleActual flips level in the actual mask. Setting it clears the same
// level in the target mask; no other bit changes.
func (e *Engine) ToggleActual(p AreaScorePair, level Level) (AreaScorePair, error) {
	return e.Toggle(p, level, KindActual)
}

// ToggleTarget flips level in the target mask. Setting it clears the same
// level in the actual mask; no other bit changes.
func (e *Engine) ToggleTarget(p AreaScorePair, level Level) (AreaScorePair, error) {
	return e.Toggle(p, level, KindTarget)
}

// Toggle flips level in kind's mask, keeping the two masks disjoint.
func (e *Engine) Toggle(p AreaScorePair, level Level, kind Kind) (AreaScorePair, error) {
	if err := e.checkArgs(p, level, kind); err != nil {
		return p, err
	}
	bit := Bit(level)
	own := p.Mask(kind)
	if own&bit != 0 {
		return p.withMask(kind, own&^bit), nil
	}
	return e.set(p, bit, kind), nil
}

// ClearLevel marks level as not applicable: the bit is cleared in both masks.
func (e *Engine) ClearLevel(p AreaScorePair, level Level) (AreaScorePair, error) {
	if err := e.CheckLevel(level); err != nil {
		return p, err
	}
	if err := checkDisjoint(p); err != nil {
		return p, err
	}
	bit := Bit(level)
	return AreaScorePair{Actual: p.Actual &^ bit, Target: p.Target &^ bit}, nil
}

// ApplySuggestedScalar folds a suggested level into kind's mask by setting
// that single bit. Bits already set in the same mask are kept.
func (e *Engine) ApplySuggestedScalar(p AreaScorePair, level Level, kind Kind) (AreaScorePair, error) {
	if err := e.checkArgs(p, level, kind); err != nil {
		return p, err
	}
	return e.set(p, Bit(level), kind), nil
}

func (e *Engine) set(p AreaScorePair, bit Mask, kind Kind) AreaScorePair {
	p = p.withMask(kind, p.Mask(kind)|bit)
	opp := kind.Opposite()
	return p.withMask(opp, p.Mask(opp)&^bit)
}

func (e *Engine) checkArgs(p AreaScorePair, level Level, kind Kind) error {
	if kind != KindActual && kind != KindTarget {
		return &InvalidArgumentError{Arg: "kind", Value: string(kind), Reason: "must be actual or target"}
	}
	if err := e.CheckLevel(level); err != nil {
		return err
	}
	return checkDisjoint(p)
}

// Popcount returns how many levels are flagged in m.
func Popcount(m Mask) int {
	return bits.OnesCount32(uint32(m))
}

// HighestSetLevel returns the topmost flagged level, or 0 for an empty mask.
// It is a display helper; aggregation counts flags with Popcount.
func HighestSetLevel(m Mask) int {
	return bits.Len32(uint32(m))
}

// Aggregate is the pair of axis-level scalars derived from area scores.
type Aggregate struct {
	Actual Level `json:"actual"`
	Target Level `json:"target"`
}

// Aggregate averages the flag counts of all areas into axis scalars. Areas
// with an empty mask are left out of that mask's average; a mask that is
// empty in every area yields Unset. Results are clamped to the scale.
func (e *Engine) Aggregate(areas map[string]AreaScorePair) (Aggregate, error) {
	var sumA, cntA, sumT, cntT int
	for id, p := range areas {
		if err := checkDisjoint(p); err != nil {
			return Aggregate{}, fmt.Errorf("area %q: %w", id, err)
		}
		if p.Actual > 0 {
			sumA += Popcount(p.Actual)
			cntA++
		}
		if p.Target > 0 {
			sumT += Popcount(p.Target)
			cntT++
		}
	}
	return Aggregate{
		Actual: e.roundMean(sumA, cntA),
		Target: e.roundMean(sumT, cntT),
	}, nil
}

// roundMean rounds sum/count half up and clamps the result to the scale.
func (e *Engine) roundMean(sum, count int) Level {
	if count == 0 {
		return Unset
	}
	l := Level((2*sum + count) / (2 * count))
	switch {
	case l < 1:
		return 1
	case l > e.maxLevel:
		return e.maxLevel
	}
	return l
}
