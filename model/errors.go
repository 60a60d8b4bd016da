package model

import "fmt"

type ErrorCode string

const (
	ErrInvalidRequest   ErrorCode = "INVALID_REQUEST"
	ErrInvalidIdentity  ErrorCode = "INVALID_IDENTITY"
	ErrNotFound         ErrorCode = "NOT_FOUND"
	ErrAlreadyExists    ErrorCode = "ALREADY_EXISTS"
	ErrVersionConflict  ErrorCode = "VERSION_CONFLICT"
	ErrNotAuthorized    ErrorCode = "NOT_AUTHORIZED"
	ErrValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrRecoveryFailed   ErrorCode = "RECOVERY_FAILED"
	ErrInvalidOwner     ErrorCode = "INVALID_OWNER"
	ErrInternal         ErrorCode = "INTERNAL"
)

// CodedError is a stable error with a machine-readable code, a human message,
// and the account-layer reason when one applies.
type CodedError struct {
	Code    ErrorCode `json:"code"`
	Reason  string    `json:"reason,omitempty"`
	Message string    `json:"message"`
}

func (e *CodedError) Error() string {
	if e == nil {
		return ""
	}
	if e.Reason != "" {
		return fmt.Sprintf("%s (%s): %s", e.Code, e.Reason, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewError(code ErrorCode, message string) *CodedError {
	return &CodedError{Code: code, Message: message}
}
