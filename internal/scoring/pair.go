package scoring

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// AreaScorePair holds the actual and target flags for one area.
// For every level, at most one of the two masks has the bit set.
type AreaScorePair struct {
	Actual Mask
	Target Mask
}

// Mask returns the mask selected by kind.
func (p AreaScorePair) Mask(kind Kind) Mask {
	if kind == KindTarget {
		return p.Target
	}
	return p.Actual
}

// IsEmpty reports whether no level is flagged in either mask.
func (p AreaScorePair) IsEmpty() bool {
	return p.Actual == 0 && p.Target == 0
}

// withMask returns a copy of p with kind's mask replaced.
func (p AreaScorePair) withMask(kind Kind, m Mask) AreaScorePair {
	if kind == KindTarget {
		p.Target = m
	} else {
		p.Actual = m
	}
	return p
}

// MarshalJSON encodes the pair as [actualMask, targetMask].
func (p AreaScorePair) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]uint32{uint32(p.Actual), uint32(p.Target)})
}

// legacyPair is the record shape written by older clients.
type legacyPair struct {
	Actual json.RawMessage `json:"actual"`
	Target json.RawMessage `json:"target"`
}

// UnmarshalJSON accepts [actualMask, targetMask] and, for older records,
// {"actual": a, "target": t}. Negative, fractional or quoted masks are
// rejected.
func (p *AreaScorePair) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)

	var raw []json.RawMessage
	switch {
	case len(b) > 0 && b[0] == '{':
		var lp legacyPair
		if err := json.Unmarshal(b, &lp); err != nil {
			return &InvalidArgumentError{Arg: "score pair", Value: string(b), Reason: err.Error()}
		}
		raw = []json.RawMessage{lp.Actual, lp.Target}
	default:
		if err := json.Unmarshal(b, &raw); err != nil {
			return &InvalidArgumentError{Arg: "score pair", Value: string(b), Reason: err.Error()}
		}
		if len(raw) != 2 {
			return &InvalidArgumentError{Arg: "score pair", Value: string(b), Reason: "want exactly two masks"}
		}
	}

	actual, err := parseMask(raw[0])
	if err != nil {
		return err
	}
	target, err := parseMask(raw[1])
	if err != nil {
		return err
	}
	*p = AreaScorePair{Actual: actual, Target: target}
	return nil
}

// parseMask decodes one mask token. An absent or null token is an empty
// mask.
func parseMask(raw json.RawMessage) (Mask, error) {
	tok := string(bytes.TrimSpace(raw))
	if tok == "" || tok == "null" {
		return 0, nil
	}
	v, err := strconv.ParseUint(tok, 10, 32)
	if err != nil {
		return 0, &InvalidArgumentError{Arg: "mask", Value: tok, Reason: "must be a non-negative integer"}
	}
	return Mask(v), nil
}
