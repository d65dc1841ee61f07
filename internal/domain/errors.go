package domain

import (
	"errors"
	"fmt"
)

// Workflow failures surfaced to callers. Use errors.Is to classify; FieldError and
// StateError carry detail and unwrap to ErrValidation and ErrInvalidState.
var (
	ErrValidation             = errors.New("Validation failed")
	ErrAuthorization          = errors.New("You are not allowed to perform this action")
	ErrRoleMismatch           = errors.New("Your account role cannot perform this action")
	ErrSelfApplication        = errors.New("You cannot apply to your own demand")
	ErrSelfRental             = errors.New("You cannot rent your own service")
	ErrListingNotOpen         = errors.New("Listing is not open")
	ErrInvalidState           = errors.New("Transition is not allowed from the current status")
	ErrNotEligible            = errors.New("Not eligible to review this rental")
	ErrConcurrentModification = errors.New("Record was modified concurrently, reload and retry")
	ErrDuplicateRequest       = errors.New("A matching request already exists")
	ErrNotFound               = errors.New("Record not found")
)

// FieldError reports a single invalid input field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error { return ErrValidation }

// Invalid builds a FieldError.
func Invalid(field, message string) error {
	return &FieldError{Field: field, Message: message}
}

// StateError reports a transition attempted from an ineligible status.
type StateError struct {
	Entity string
	From   string
	Action string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s cannot %s from status %q", e.Entity, e.Action, e.From)
}

func (e *StateError) Unwrap() error { return ErrInvalidState }

func stateError(entity, from, action string) error {
	return &StateError{Entity: entity, From: from, Action: action}
}

// Code returns a short machine-readable code for a workflow error, "internal" otherwise.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrAuthorization):
		return "authorization"
	case errors.Is(err, ErrRoleMismatch):
		return "role_mismatch"
	case errors.Is(err, ErrSelfApplication):
		return "self_application"
	case errors.Is(err, ErrSelfRental):
		return "self_rental"
	case errors.Is(err, ErrListingNotOpen):
		return "listing_not_open"
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, ErrNotEligible):
		return "not_eligible"
	case errors.Is(err, ErrConcurrentModification):
		return "concurrent_modification"
	case errors.Is(err, ErrDuplicateRequest):
		return "duplicate_request"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "internal"
	}
}
