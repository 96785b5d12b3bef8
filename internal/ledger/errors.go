package ledger

import (
	"errors"
	"fmt"

	"github.com/roach88/clockstate/internal/pubkey"
)

// Sentinel errors raised by the runtime and the system program.
var (
	ErrInsufficientFunds           = errors.New("insufficient funds")
	ErrAccountAlreadyInUse         = errors.New("account already in use")
	ErrMissingRequiredSignature    = errors.New("missing required signature")
	ErrInvalidAccountDataLength    = errors.New("invalid account data length")
	ErrReadonlyDataModified        = errors.New("instruction modified data of a read-only account")
	ErrExternalAccountDataModified = errors.New("instruction modified data of an account it does not own")
	ErrAccountDataSizeChanged      = errors.New("instruction changed the size of account data")
	ErrPrivilegeEscalation         = errors.New("cross-program invocation escalated account privilege")
	ErrNotEnoughAccountKeys        = errors.New("insufficient account keys for instruction")
	ErrInvalidInstructionData      = errors.New("invalid instruction data")
	ErrUnknownProgram              = errors.New("unknown program")
	ErrMissingAccount              = errors.New("account required by instruction is missing")
	ErrCallDepth                   = errors.New("cross-program invocation call depth too deep")
	ErrInsufficientFundsForRent    = errors.New("account has insufficient funds for rent")
	ErrSignatureVerification       = errors.New("transaction signature verification failed")
	ErrAlreadyProcessed            = errors.New("transaction already processed")
	ErrEmptyTransaction            = errors.New("transaction has no instructions")
	ErrTransactionExpired          = errors.New("transaction nonce outside the processing window")

	// ErrConflict is returned by AccountStore.Commit when another writer
	// changed an account or used the slot since the batch was prepared.
	ErrConflict = errors.New("concurrent ledger write")
)

// ErrorCode categorizes instruction failures.
type ErrorCode string

const (
	// ErrCodeProgramFailed indicates the program returned an error.
	ErrCodeProgramFailed ErrorCode = "PROGRAM_FAILED"

	// ErrCodeProgramPanicked indicates the program aborted with a panic.
	ErrCodeProgramPanicked ErrorCode = "PROGRAM_PANICKED"

	// ErrCodeUnknownProgram indicates no program is deployed at the address.
	ErrCodeUnknownProgram ErrorCode = "UNKNOWN_PROGRAM"

	// ErrCodeRentState indicates an account was left below its rent minimum.
	ErrCodeRentState ErrorCode = "RENT_STATE"
)

// InstructionError reports which instruction of a transaction failed and why.
type InstructionError struct {
	// Index is the position of the failing instruction in the transaction.
	Index int

	// ProgramID is the program that was executing.
	ProgramID pubkey.Pubkey

	// Code identifies the failure category.
	Code ErrorCode

	// Err is the underlying cause. For panics it is the panic value when that
	// value is an error.
	Err error
}

// Error implements the error interface.
func (e *InstructionError) Error() string {
	return fmt.Sprintf("%s: instruction %d (program=%s): %v", e.Code, e.Index, e.ProgramID, e.Err)
}

// Unwrap returns the underlying cause.
func (e *InstructionError) Unwrap() error {
	return e.Err
}

// IsPanic returns true if the error came from a recovered program panic.
// Uses errors.As to handle wrapped errors.
func IsPanic(err error) bool {
	var ie *InstructionError
	if errors.As(err, &ie) {
		return ie.Code == ErrCodeProgramPanicked
	}
	return false
}

// panicError converts a recovered panic value into an error.
func panicError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("panic: %v", r)
}
