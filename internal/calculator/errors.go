package calculator

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("invalid transaction")

	ErrNegativeAmount   = errors.New("amount must not be negative")
	ErrUnknownSplitType = errors.New("unknown split type")
	ErrSplitMismatch    = errors.New("split does not add up to the amount")
	ErrTwoPartyOnly     = errors.New("split type requires exactly two participants")
	ErrHostGuestPair    = errors.New("split type requires one host and one guest")
	ErrNotParticipant   = errors.New("not a project participant")
)

// ValidationError reports a transaction rejected at the write boundary.
type ValidationError struct {
	Field  string
	Reason error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Reason)
}

// Is lets errors.Is match both ErrValidation and the underlying reason.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) Unwrap() error {
	return e.Reason
}

func invalid(field string, reason error) error {
	return &ValidationError{Field: field, Reason: reason}
}
