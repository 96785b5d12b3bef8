package program

import (
	"errors"
	"fmt"

	"github.com/roach88/clockstate/internal/pubkey"
)

// ErrorCode categorizes clock program failures.
type ErrorCode string

const (
	// ErrCodeAddressMismatch indicates the storage handle is not the derived
	// address. Fatal: raised as a panic, never returned.
	ErrCodeAddressMismatch ErrorCode = "ADDRESS_MISMATCH"

	// ErrCodeInvalidPayload indicates the payload failed length or decoding
	// checks.
	ErrCodeInvalidPayload ErrorCode = "INVALID_PAYLOAD"

	// ErrCodeCreationFailure indicates the system program rejected account
	// creation. Cause holds the system program's error.
	ErrCodeCreationFailure ErrorCode = "CREATION_FAILURE"

	// ErrCodeStorageWriteFailure indicates the final overwrite failed.
	ErrCodeStorageWriteFailure ErrorCode = "STORAGE_WRITE_FAILURE"

	// ErrCodeNotEnoughAccounts indicates fewer than three accounts were passed.
	ErrCodeNotEnoughAccounts ErrorCode = "NOT_ENOUGH_ACCOUNTS"
)

// Error is a clock program failure.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Details contains additional context.
	Details map[string]string

	// Cause is the wrapped underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Fatal reports whether the error signals a deployment or caller
// misconfiguration rather than a bad request.
func (e *Error) Fatal() bool {
	return e.Code == ErrCodeAddressMismatch
}

// CodeOf returns the program error code in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// IsAddressMismatch returns true if err is an address mismatch.
// Uses errors.As to handle wrapped errors.
func IsAddressMismatch(err error) bool { return CodeOf(err) == ErrCodeAddressMismatch }

// IsInvalidPayload returns true if err is an invalid payload error.
func IsInvalidPayload(err error) bool { return CodeOf(err) == ErrCodeInvalidPayload }

// IsCreationFailure returns true if err is a creation failure.
func IsCreationFailure(err error) bool { return CodeOf(err) == ErrCodeCreationFailure }

// IsStorageWriteFailure returns true if err is a storage write failure.
func IsStorageWriteFailure(err error) bool { return CodeOf(err) == ErrCodeStorageWriteFailure }

// NewAddressMismatchError creates the error raised when the storage handle
// is not the derived address.
func NewAddressMismatchError(got, want pubkey.Pubkey) *Error {
	return &Error{
		Code:    ErrCodeAddressMismatch,
		Message: "storage account does not match derived address",
		Details: map[string]string{
			"got":  got.String(),
			"want": want.String(),
		},
	}
}

// NewInvalidPayloadError wraps a payload decoding failure.
func NewInvalidPayloadError(variant Variant, size int, cause error) *Error {
	return &Error{
		Code:    ErrCodeInvalidPayload,
		Message: fmt.Sprintf("payload of %d bytes is not a valid %s record", size, variant),
		Details: map[string]string{
			"variant": string(variant),
			"size":    fmt.Sprintf("%d", size),
		},
		Cause: cause,
	}
}

// NewCreationFailureError wraps a system program error.
func NewCreationFailureError(address pubkey.Pubkey, cause error) *Error {
	return &Error{
		Code:    ErrCodeCreationFailure,
		Message: fmt.Sprintf("create storage account %s", address),
		Cause:   cause,
	}
}

// NewStorageWriteFailureError wraps a failed overwrite.
func NewStorageWriteFailureError(address pubkey.Pubkey, cause error) *Error {
	return &Error{
		Code:    ErrCodeStorageWriteFailure,
		Message: fmt.Sprintf("write storage account %s", address),
		Cause:   cause,
	}
}
