package schedule

import (
	"errors"
	"fmt"
)

var (
	// ErrUnresolvable is wrapped by every resolution failure.
	ErrUnresolvable = errors.New("contingency cannot be resolved")

	ErrInvalidAnchor    = fmt.Errorf("%w: mutual or closing date is missing or malformed", ErrUnresolvable)
	ErrMissingDays      = fmt.Errorf("%w: days is required for this contingency type", ErrUnresolvable)
	ErrInvalidDays      = fmt.Errorf("%w: days must not be negative", ErrUnresolvable)
	ErrInvalidFixedDate = fmt.Errorf("%w: fixed date is missing or malformed", ErrUnresolvable)
	ErrUnknownType      = fmt.Errorf("%w: unknown contingency type", ErrUnresolvable)
)
