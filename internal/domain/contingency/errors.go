package contingency

import "errors"

var (
	// ErrContingencyNotFound indicates no contingency has the requested ID.
	ErrContingencyNotFound = errors.New("contingency not found")
	// ErrInvalidInput indicates an invalid contingency definition.
	ErrInvalidInput = errors.New("invalid contingency input")
	// ErrDuplicateID indicates two contingencies in one list share an ID.
	ErrDuplicateID = errors.New("duplicate contingency id")
)
