package assessment

import "errors"

var (
	// ErrNotFound is returned for an assessment ID with no stored state.
	ErrNotFound = errors.New("assessment not found")

	// ErrUnknownAxis is returned for an axis absent from the catalog.
	ErrUnknownAxis = errors.New("unknown axis")

	// ErrUnknownArea is returned for an area absent from its axis.
	ErrUnknownArea = errors.New("unknown area")

	// ErrModeMismatch is returned when an area operation targets a simple
	// axis, or a scalar operation targets an axis scored per area.
	ErrModeMismatch = errors.New("axis mode mismatch")
)
