package core

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed command input (e.g. empty name).
// The command is rejected and state is unchanged.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports a reference to a non-existent agent or team id.
// The command is rejected and state is unchanged.
type NotFoundError struct {
	Kind string // "agent" or "team"
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}

func errField(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func errAgentNotFound(id int64) error {
	return &NotFoundError{Kind: "agent", ID: id}
}

func errTeamNotFound(id int64) error {
	return &NotFoundError{Kind: "team", ID: id}
}
