package domain

import (
	"errors"
	"fmt"
)

// Error is a domain error carrying a stable code used to look up the
// user-facing message. Kind is the taxonomy bucket it belongs to.
type Error struct {
	Code    string
	Message string
	Kind    error
}

func (e *Error) Error() string { return e.Message }

// Unwrap exposes the kind so that errors.Is(err, ErrValidation) works for
// every specific validation error.
func (e *Error) Unwrap() error { return e.Kind }

func newKind(code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

func newError(kind *Error, code, msg string) *Error {
	return &Error{Code: code, Message: msg, Kind: kind}
}

// Error kinds.
var (
	ErrValidation        = newKind("validation", "invalid input")
	ErrNoActiveCard      = newKind("no_active_card", "no active rise up")
	ErrOwnershipConflict = newKind("ownership_conflict", "the target already owns an active rise up")
	ErrStaleCard         = newKind("stale_card", "the rise up is already closed")
	ErrCollaborator      = newKind("collaborator_failure", "an external service failed")
)

// Specific errors.
var (
	ErrInvalidTime        = newError(ErrValidation, "invalid_time", "the time is not valid (expected e.g. 5pm or 9:01am)")
	ErrTimeNotInFuture    = newError(ErrValidation, "time_not_in_future", "the time must be in the future")
	ErrInvalidSlots       = newError(ErrValidation, "invalid_slots", "the number of slots must be positive")
	ErrMissingActivity    = newError(ErrValidation, "missing_activity", "a game name is required")
	ErrMissingOwner       = newError(ErrValidation, "missing_owner", "a rise up needs an owner")
	ErrSameOwner          = newError(ErrValidation, "same_owner", "the rise up already belongs to that user")
	ErrTargetHasNoCard    = newError(ErrNoActiveCard, "target_has_no_card", "the targeted user does not have a rise up")
	ErrGuildNotConfigured = newKind("guild_not_configured", "the server has no rise-up channel configured")
)

// Collaborator wraps an I/O failure of an external collaborator.
func Collaborator(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrCollaborator, op, err)
}

// Code returns the code of the most specific domain error in err's chain,
// or "" if err carries none.
func Code(err error) string {
	var derr *Error
	if errors.As(err, &derr) {
		return derr.Code
	}
	return ""
}
