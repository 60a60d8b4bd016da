package rpc

import (
	"errors"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"xdao.co/warden/account"
	"xdao.co/warden/model"
	"xdao.co/warden/storage"
)

// ErrorDomain tags every ErrorInfo detail this service attaches, so clients
// can tell warden reasons from other services' details.
const ErrorDomain = "warden.xdao.co"

// Reasons carried for storage sentinels, which have no account-layer Reason.
const (
	reasonNotFound        = string(model.ErrNotFound)
	reasonAlreadyExists   = string(model.ErrAlreadyExists)
	reasonVersionConflict = string(model.ErrVersionConflict)
)

// toStatus maps a domain error onto a gRPC status carrying an ErrorInfo
// detail with the stable reason, so the exact taxonomy entry survives the
// wire.
func toStatus(err error) error {
	if err == nil {
		return nil
	}

	var ae *account.Error
	if errors.As(err, &ae) {
		return statusWithReason(codeForKind(ae.Kind), string(ae.Reason), ae.Message)
	}
	var ce *model.CodedError
	if errors.As(err, &ce) {
		return statusWithReason(codes.InvalidArgument, string(ce.Code), ce.Message)
	}
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return statusWithReason(codes.NotFound, reasonNotFound, err.Error())
	case errors.Is(err, storage.ErrExists):
		return statusWithReason(codes.AlreadyExists, reasonAlreadyExists, err.Error())
	case errors.Is(err, storage.ErrVersionConflict):
		return statusWithReason(codes.Aborted, reasonVersionConflict, err.Error())
	case errors.Is(err, storage.ErrCorrupted):
		return status.Error(codes.DataLoss, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

func codeForKind(kind account.Kind) codes.Code {
	switch kind {
	case account.KindValidation:
		return codes.InvalidArgument
	case account.KindAuthorization:
		return codes.PermissionDenied
	case account.KindRecovery:
		return codes.FailedPrecondition
	case account.KindOwnership:
		return codes.InvalidArgument
	default:
		return codes.Internal
	}
}

func statusWithReason(code codes.Code, reason, msg string) error {
	st := status.New(code, msg)
	withDetails, err := st.WithDetails(&errdetails.ErrorInfo{
		Reason: reason,
		Domain: ErrorDomain,
	})
	if err != nil {
		return st.Err()
	}
	return withDetails.Err()
}

// fromStatus reverses toStatus on the client: a status carrying a warden
// ErrorInfo becomes the original structured error, storage sentinels come
// back as themselves, and anything else passes through unchanged.
func fromStatus(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	for _, d := range st.Details() {
		info, ok := d.(*errdetails.ErrorInfo)
		if !ok || info.GetDomain() != ErrorDomain {
			continue
		}
		switch reason := info.GetReason(); reason {
		case reasonNotFound:
			return storage.ErrNotFound
		case reasonAlreadyExists:
			return storage.ErrExists
		case reasonVersionConflict:
			return storage.ErrVersionConflict
		case string(model.ErrInvalidRequest), string(model.ErrInvalidIdentity):
			return model.NewError(model.ErrorCode(reason), st.Message())
		default:
			if kind, known := kindForReason(account.Reason(reason)); known {
				return account.NewError(kind, account.Reason(reason), st.Message())
			}
		}
	}

	switch st.Code() {
	case codes.NotFound:
		return storage.ErrNotFound
	case codes.AlreadyExists:
		return storage.ErrExists
	case codes.Aborted:
		return storage.ErrVersionConflict
	default:
		return err
	}
}

func kindForReason(reason account.Reason) (account.Kind, bool) {
	switch reason {
	case account.ReasonDuplicateGuardian,
		account.ReasonNullGuardian,
		account.ReasonSelfGuardian,
		account.ReasonUnregisteredGuardian,
		account.ReasonArrayLengthMismatch:
		return account.KindValidation, true
	case account.ReasonNotOwner,
		account.ReasonNotPendingOwner,
		account.ReasonNotEntryPoint:
		return account.KindAuthorization, true
	case account.ReasonRecoveryFailed:
		return account.KindRecovery, true
	case account.ReasonInvalidOwner:
		return account.KindOwnership, true
	case account.ReasonInternal:
		return account.KindInternal, true
	}
	return "", false
}
