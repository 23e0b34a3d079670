package scoring

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is matched by every validation failure in this package.
var ErrInvalidArgument = errors.New("invalid argument")

// InvalidArgumentError describes a rejected input. No value is produced
// when one is returned.
type InvalidArgumentError struct {
	Arg    string
	Value  any
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Arg, e.Value, e.Reason)
}

func (e *InvalidArgumentError) Unwrap() error { return ErrInvalidArgument }
