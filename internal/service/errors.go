package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/duoledger/internal/auth"
	"github.com/mmynk/duoledger/internal/calculator"
	"github.com/mmynk/duoledger/internal/storage"
)

var (
	errNotMember       = errors.New("not a member of this project")
	errNothingToSettle = errors.New("nothing to settle")
)

// toConnectError maps domain errors onto Connect codes. Errors that are
// already *connect.Error pass through.
func toConnectError(err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return err
	}

	switch {
	case errors.Is(err, calculator.ErrValidation):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, errNotMember):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.Is(err, calculator.ErrTwoPartyOnly),
		errors.Is(err, calculator.ErrNotParticipant),
		errors.Is(err, errNothingToSettle):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, auth.ErrMissingToken), errors.Is(err, auth.ErrInvalidToken):
		return connect.NewError(connect.CodeUnauthenticated, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func invalidArgument(field string, reason error) error {
	return connect.NewError(connect.CodeInvalidArgument, &calculator.ValidationError{Field: field, Reason: reason})
}
