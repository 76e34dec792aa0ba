package ledger

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels for errors.Is checks against the typed errors below.
var (
	ErrValidation           = errors.New("validation failed")
	ErrNotFound             = errors.New("not found")
	ErrReferentialIntegrity = errors.New("referential integrity violation")
)

// ValidationError reports malformed or missing command input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFoundError reports a command that referenced an unknown id.
type NotFoundError struct {
	Kind string // "participant" or "expense"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ReferentialIntegrityError reports an attempt to remove a participant that
// expenses still reference.
type ReferentialIntegrityError struct {
	ParticipantID string
	ExpenseIDs    []string
}

func (e *ReferentialIntegrityError) Error() string {
	return fmt.Sprintf("participant %q is referenced by %d expense(s): %s",
		e.ParticipantID, len(e.ExpenseIDs), strings.Join(e.ExpenseIDs, ", "))
}

func (e *ReferentialIntegrityError) Is(target error) bool {
	return target == ErrReferentialIntegrity
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
