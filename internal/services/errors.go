package services

import (
	"errors"
	"fmt"

	"ai-interviewer/internal/models"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrUnauthorized     = errors.New("admin access required")
	ErrCapacityExceeded = errors.New("maximum interview capacity reached")
	ErrSessionConflict  = errors.New("conflicting session state")
	ErrCorruptedSession = errors.New("session state is corrupted")
	ErrNoActiveQuestion = errors.New("no active question")
	ErrNotComplete      = errors.New("interview not complete")
	ErrTokenExpired     = errors.New("verification token expired")
)

// ValidationError marks input that fails shape or content checks. It is
// never retried and maps to a 400 at the HTTP boundary.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IllegalTransitionError carries the attempted from/to pair of a rejected
// session status transition.
type IllegalTransitionError struct {
	From models.SessionStatus
	To   models.SessionStatus
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("cannot transition from %s to %s", e.From, e.To)
}
