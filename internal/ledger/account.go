package ledger

import (
	"fmt"

	"github.com/roach88/clockstate/internal/pubkey"
)

// MaxPermittedDataLength is the largest data size an account may hold.
const MaxPermittedDataLength = 10 * 1024 * 1024

// Account is the stored state of one address.
//
// An address that has never been funded reads as the zero Account owned by
// the system program.
type Account struct {
	Lamports   uint64
	Data       []byte
	Owner      pubkey.Pubkey
	Executable bool
}

// Clone returns a deep copy.
func (a Account) Clone() Account {
	a.Data = append([]byte(nil), a.Data...)
	return a
}

// IsEmpty reports whether the account holds nothing and is system owned.
func (a Account) IsEmpty() bool {
	return a.Lamports == 0 && len(a.Data) == 0 && a.Owner == pubkey.SystemProgramID
}

// AccountMeta describes how an instruction uses an account.
type AccountMeta struct {
	Pubkey     pubkey.Pubkey
	IsSigner   bool
	IsWritable bool
}

// NewAccountMeta returns a writable meta.
func NewAccountMeta(key pubkey.Pubkey, isSigner bool) AccountMeta {
	return AccountMeta{Pubkey: key, IsSigner: isSigner, IsWritable: true}
}

// NewReadonlyAccountMeta returns a read-only meta.
func NewReadonlyAccountMeta(key pubkey.Pubkey, isSigner bool) AccountMeta {
	return AccountMeta{Pubkey: key, IsSigner: isSigner}
}

// Instruction is a single program call.
type Instruction struct {
	ProgramID pubkey.Pubkey
	Accounts  []AccountMeta
	Data      []byte
}

// AccountInfo is the handle a program receives for one account.
//
// Handles for the same address within one transaction share the underlying
// working copy, so a change made by a sub-call is visible to its caller.
type AccountInfo struct {
	Key        pubkey.Pubkey
	IsSigner   bool
	IsWritable bool

	account *Account
	// program is the program currently holding this handle.
	program pubkey.Pubkey
}

// NewAccountInfo builds a detached handle over acc. Used by tests that call
// programs without a Bank.
func NewAccountInfo(key pubkey.Pubkey, isSigner, isWritable bool, acc *Account, program pubkey.Pubkey) *AccountInfo {
	return &AccountInfo{Key: key, IsSigner: isSigner, IsWritable: isWritable, account: acc, program: program}
}

func (a *AccountInfo) Lamports() uint64 { return a.account.Lamports }

func (a *AccountInfo) Owner() pubkey.Pubkey { return a.account.Owner }

func (a *AccountInfo) Executable() bool { return a.account.Executable }

// DataLen returns the allocated data length. Zero means the account has no
// storage yet.
func (a *AccountInfo) DataLen() int { return len(a.account.Data) }

// Data returns a copy of the account data.
func (a *AccountInfo) Data() []byte {
	return append([]byte(nil), a.account.Data...)
}

// SetData overwrites the whole account payload.
//
// The handle must be writable, the account must be owned by the calling
// program, and data must match the allocated length exactly.
func (a *AccountInfo) SetData(data []byte) error {
	if !a.IsWritable {
		return fmt.Errorf("%w: %s", ErrReadonlyDataModified, a.Key)
	}
	if a.account.Owner != a.program {
		return fmt.Errorf("%w: %s owned by %s", ErrExternalAccountDataModified, a.Key, a.account.Owner)
	}
	if len(data) != len(a.account.Data) {
		return fmt.Errorf("%w: %s has %d bytes, got %d", ErrAccountDataSizeChanged, a.Key, len(a.account.Data), len(data))
	}
	copy(a.account.Data, data)
	return nil
}

func (a *AccountInfo) debit(lamports uint64) error {
	if a.account.Lamports < lamports {
		return fmt.Errorf("%w: %s has %d, needs %d", ErrInsufficientFunds, a.Key, a.account.Lamports, lamports)
	}
	a.account.Lamports -= lamports
	return nil
}

func (a *AccountInfo) credit(lamports uint64) {
	a.account.Lamports += lamports
}

func (a *AccountInfo) allocate(space uint64) {
	a.account.Data = make([]byte, space)
}

func (a *AccountInfo) assign(owner pubkey.Pubkey) {
	a.account.Owner = owner
}

// reborrow returns a handle over the same account for a callee program.
func (a *AccountInfo) reborrow(meta AccountMeta, program pubkey.Pubkey) *AccountInfo {
	return &AccountInfo{
		Key:        a.Key,
		IsSigner:   meta.IsSigner,
		IsWritable: meta.IsWritable,
		account:    a.account,
		program:    program,
	}
}
