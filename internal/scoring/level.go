package scoring

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Scale sizes observed in the DRD model.
const (
	AxisLevels = 7 // axis-level maturity scale
	AreaLevels = 5 // area-level scale used by some flows

	// MaxScale is the widest scale a Mask can represent.
	MaxScale = 32
)

// Level is a 1-based maturity rung. The zero value means "unset".
type Level int

// Unset is the Level reported when no area contributes to an aggregate.
const Unset Level = 0

// IsSet reports whether l holds a level rather than the unset marker.
func (l Level) IsSet() bool {
	return l > 0
}

func (l Level) String() string {
	if !l.IsSet() {
		return "-"
	}
	return strconv.Itoa(int(l))
}

// MarshalJSON encodes an unset level as null.
func (l Level) MarshalJSON() ([]byte, error) {
	if !l.IsSet() {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(int(l))), nil
}

// UnmarshalJSON accepts null or a non-negative integer.
func (l *Level) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*l = Unset
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return &InvalidArgumentError{Arg: "level", Value: string(b), Reason: "not a number"}
	}
	v, err := strconv.ParseUint(n.String(), 10, 8)
	if err != nil {
		return &InvalidArgumentError{Arg: "level", Value: n.String(), Reason: "must be a non-negative integer"}
	}
	*l = Level(v)
	return nil
}

// Mask is a set of flagged levels: bit n-1 stands for level n.
type Mask uint32

// Bit returns the mask with only level's bit set. level must be >= 1.
func Bit(level Level) Mask {
	return Mask(1) << uint(level-1)
}

// Has reports whether level's bit is set.
func (m Mask) Has(level Level) bool {
	return level >= 1 && level <= MaxScale && m&Bit(level) != 0
}

// Levels lists the flagged levels in ascending order.
func (m Mask) Levels() []Level {
	var out []Level
	for l := Level(1); l <= MaxScale; l++ {
		if m.Has(l) {
			out = append(out, l)
		}
	}
	return out
}

// Kind selects which of the two masks an operation targets.
type Kind string

const (
	KindActual Kind = "actual"
	KindTarget Kind = "target"
)

// ParseKind converts user input into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindActual, KindTarget:
		return Kind(s), nil
	}
	return "", &InvalidArgumentError{Arg: "kind", Value: s, Reason: fmt.Sprintf("must be %q or %q", KindActual, KindTarget)}
}

// Opposite returns the other kind.
func (k Kind) Opposite() Kind {
	if k == KindActual {
		return KindTarget
	}
	return KindActual
}
