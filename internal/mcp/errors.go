package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/closing-timeline/internal/dates"
	"github.com/rpggio/closing-timeline/internal/domain/activity"
	"github.com/rpggio/closing-timeline/internal/domain/contingency"
	"github.com/rpggio/closing-timeline/internal/domain/instance"
	"github.com/rpggio/closing-timeline/internal/repository"
	"github.com/rpggio/closing-timeline/internal/schedule"
)

// APIError represents an MCP tool error. Handlers return it as their error,
// so clients receive a tool result with isError set and Error() as text.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
}

// MapError maps domain errors to MCP error codes. It returns nil for errors
// it does not recognize.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	switch {
	case errors.Is(err, instance.ErrInstanceNotFound):
		return &APIError{Code: "TIMELINE_NOT_FOUND", Message: err.Error(), RecoveryHint: "Call list_timelines for valid ids"}
	case errors.Is(err, contingency.ErrContingencyNotFound):
		return &APIError{Code: "CONTINGENCY_NOT_FOUND", Message: err.Error(), RecoveryHint: "Call get_timeline for valid contingency ids"}
	case errors.Is(err, schedule.ErrInvalidAnchor), errors.Is(err, dates.ErrInvalidDate):
		return &APIError{Code: "INVALID_DATE", Message: err.Error(), RecoveryHint: "Dates use YYYY-MM-DD"}
	case errors.Is(err, contingency.ErrDuplicateID):
		return &APIError{Code: "DUPLICATE_ID", Message: err.Error()}
	case errors.Is(err, instance.ErrInvalidInput),
		errors.Is(err, contingency.ErrInvalidInput),
		errors.Is(err, activity.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	case errors.Is(err, schedule.ErrUnresolvable):
		return &APIError{Code: "UNRESOLVABLE", Message: err.Error()}
	case errors.Is(err, repository.ErrConflict):
		return &APIError{Code: "CONFLICT", Message: err.Error()}
	default:
		return nil
	}
}

func invalidInput(format string, args ...any) *APIError {
	return &APIError{Code: "INVALID_INPUT", Message: fmt.Sprintf(format, args...)}
}
