package stratagrpc

import (
	"strings"

	"github.com/pkg/errors"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/256dpi/strata"
)

// toStatus converts a store error into a status error.
func toStatus(err error) error {
	if err == nil {
		return nil
	}

	// select code
	code := codes.Internal
	switch {
	case errors.Is(err, strata.ErrDuplicateKey):
		code = codes.AlreadyExists
	case errors.Is(err, strata.ErrNotFound):
		code = codes.NotFound
	case errors.Is(err, strata.ErrMissingReference), errors.Is(err, strata.ErrCorrupted):
		code = codes.DataLoss
	case errors.Is(err, strata.ErrUnsupportedOrigin):
		code = codes.Unimplemented
	case errors.Is(err, strata.ErrInvalidTransaction), errors.Is(err, strata.ErrInvalidDeployment):
		code = codes.InvalidArgument
	}

	return status.Error(code, err.Error())
}

// fromStatus converts a status error back into an error that wraps the
// matching store error.
func fromStatus(err error) error {
	// get status
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	// select sentinel
	var sentinel error
	msg := st.Message()
	switch st.Code() {
	case codes.AlreadyExists:
		sentinel = strata.ErrDuplicateKey
	case codes.NotFound:
		sentinel = strata.ErrNotFound
	case codes.DataLoss:
		sentinel = strata.ErrMissingReference
		if strings.Contains(msg, strata.ErrCorrupted.Error()) {
			sentinel = strata.ErrCorrupted
		}
	case codes.Unimplemented:
		sentinel = strata.ErrUnsupportedOrigin
	case codes.InvalidArgument:
		sentinel = strata.ErrInvalidTransaction
		if strings.Contains(msg, strata.ErrInvalidDeployment.Error()) {
			sentinel = strata.ErrInvalidDeployment
		}
	default:
		return err
	}

	return errors.Wrap(sentinel, msg)
}
