package account

import "errors"

// Kind is a stable error category for programmatic handling.
//
// Callers branch on Kind/Reason rather than matching error strings; Error()
// text is for humans and may evolve.
type Kind string

const (
	KindValidation    Kind = "Validation"
	KindAuthorization Kind = "Authorization"
	KindRecovery      Kind = "Recovery"
	KindOwnership     Kind = "Ownership"
	KindInternal      Kind = "Internal"
)

// Reason names the exact rejected condition within a Kind. Reasons are stable
// identifiers and cross the RPC boundary unchanged.
type Reason string

const (
	// KindValidation
	ReasonDuplicateGuardian    Reason = "DuplicateGuardian"
	ReasonNullGuardian         Reason = "NullGuardian"
	ReasonSelfGuardian         Reason = "SelfGuardian"
	ReasonUnregisteredGuardian Reason = "UnregisteredGuardian"
	ReasonArrayLengthMismatch  Reason = "ArrayLengthMismatch"

	// KindAuthorization
	ReasonNotOwner        Reason = "NotOwner"
	ReasonNotPendingOwner Reason = "NotPendingOwner"
	ReasonNotEntryPoint   Reason = "NotEntryPoint"

	// KindRecovery
	ReasonRecoveryFailed Reason = "RecoveryFailed"

	// KindOwnership
	ReasonInvalidOwner Reason = "InvalidOwner"

	// KindInternal
	ReasonInternal Reason = "Internal"
)

// Error is the structured error type for account operations.
//
// Every mutating operation fails fast with one of these: the whole call
// aborts, nothing commits, and the caller resubmits corrected input.
type Error struct {
	Kind    Kind
	Reason  Reason
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func newError(kind Kind, reason Reason, msg string) error {
	return &Error{Kind: kind, Reason: reason, Message: msg}
}

// NewError builds a structured error. Packages that extend the account
// surface (recovery, the service layer) use it to stay within the one
// taxonomy.
func NewError(kind Kind, reason Reason, msg string) error {
	return newError(kind, reason, msg)
}

// WrapInternal wraps an infrastructure failure (storage, collaborator) as a
// KindInternal error.
func WrapInternal(msg string, cause error) error {
	return &Error{Kind: KindInternal, Reason: ReasonInternal, Message: msg, Cause: cause}
}

// IsKind reports whether err is (or wraps) an *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// ReasonOf returns the stable Reason for a structured error, or "" if err is
// not one.
func ReasonOf(err error) Reason {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Reason
}
