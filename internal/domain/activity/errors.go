package activity

import "errors"

// ErrInvalidInput indicates a malformed activity entry or filter.
var ErrInvalidInput = errors.New("invalid activity input")
