package instance

import (
	"errors"

	"github.com/rpggio/closing-timeline/internal/domain/contingency"
)

var (
	// ErrInstanceNotFound indicates the saved timeline doesn't exist.
	ErrInstanceNotFound = errors.New("timeline not found")
	// ErrInvalidInput indicates invalid timeline input.
	ErrInvalidInput = errors.New("invalid timeline input")
	// ErrContingencyNotFound indicates the timeline has no contingency with the given ID.
	ErrContingencyNotFound = contingency.ErrContingencyNotFound
)
