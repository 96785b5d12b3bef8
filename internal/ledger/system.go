package ledger

import (
	"encoding/binary"
	"fmt"

	"github.com/roach88/clockstate/internal/pubkey"
)

// System instruction discriminants (u32 little-endian prefix).
const (
	systemCreateAccount uint32 = 0
	systemTransfer      uint32 = 2
)

const (
	createAccountDataLen = 4 + 8 + 8 + pubkey.Size
	transferDataLen      = 4 + 8
)

// NewCreateAccountInstruction builds a system instruction that funds `to`
// with lamports, allocates space bytes and assigns it to owner.
// Both from and to must sign.
func NewCreateAccountInstruction(from, to pubkey.Pubkey, lamports, space uint64, owner pubkey.Pubkey) Instruction {
	data := make([]byte, createAccountDataLen)
	binary.LittleEndian.PutUint32(data[0:4], systemCreateAccount)
	binary.LittleEndian.PutUint64(data[4:12], lamports)
	binary.LittleEndian.PutUint64(data[12:20], space)
	copy(data[20:], owner[:])
	return Instruction{
		ProgramID: pubkey.SystemProgramID,
		Accounts: []AccountMeta{
			NewAccountMeta(from, true),
			NewAccountMeta(to, true),
		},
		Data: data,
	}
}

// NewTransferInstruction builds a system instruction moving lamports.
func NewTransferInstruction(from, to pubkey.Pubkey, lamports uint64) Instruction {
	data := make([]byte, transferDataLen)
	binary.LittleEndian.PutUint32(data[0:4], systemTransfer)
	binary.LittleEndian.PutUint64(data[4:12], lamports)
	return Instruction{
		ProgramID: pubkey.SystemProgramID,
		Accounts: []AccountMeta{
			NewAccountMeta(from, true),
			NewAccountMeta(to, false),
		},
		Data: data,
	}
}

// systemProgram implements account creation and lamport transfers.
type systemProgram struct{}

func (systemProgram) Process(ctx *InvokeContext, accounts []*AccountInfo, data []byte) error {
	if len(data) < 4 {
		return fmt.Errorf("%w: %d bytes", ErrInvalidInstructionData, len(data))
	}
	switch binary.LittleEndian.Uint32(data[0:4]) {
	case systemCreateAccount:
		if len(data) != createAccountDataLen {
			return fmt.Errorf("%w: create account wants %d bytes, got %d", ErrInvalidInstructionData, createAccountDataLen, len(data))
		}
		var owner pubkey.Pubkey
		copy(owner[:], data[20:])
		return createAccount(ctx, accounts,
			binary.LittleEndian.Uint64(data[4:12]),
			binary.LittleEndian.Uint64(data[12:20]),
			owner,
		)
	case systemTransfer:
		if len(data) != transferDataLen {
			return fmt.Errorf("%w: transfer wants %d bytes, got %d", ErrInvalidInstructionData, transferDataLen, len(data))
		}
		return transfer(accounts, binary.LittleEndian.Uint64(data[4:12]))
	default:
		return fmt.Errorf("%w: unknown system instruction %d", ErrInvalidInstructionData, binary.LittleEndian.Uint32(data[0:4]))
	}
}

func createAccount(ctx *InvokeContext, accounts []*AccountInfo, lamports, space uint64, owner pubkey.Pubkey) error {
	if len(accounts) < 2 {
		return ErrNotEnoughAccountKeys
	}
	from, to := accounts[0], accounts[1]

	if !from.IsSigner {
		return fmt.Errorf("create account: funding %w: %s", ErrMissingRequiredSignature, from.Key)
	}
	if !to.IsSigner {
		return fmt.Errorf("create account: new account %w: %s", ErrMissingRequiredSignature, to.Key)
	}
	if !from.IsWritable || !to.IsWritable {
		return fmt.Errorf("create account: %w", ErrReadonlyDataModified)
	}
	if to.Lamports() > 0 || to.DataLen() > 0 || to.Owner() != pubkey.SystemProgramID {
		return fmt.Errorf("create account: %w: %s", ErrAccountAlreadyInUse, to.Key)
	}
	if space > MaxPermittedDataLength {
		return fmt.Errorf("create account: %w: %d", ErrInvalidAccountDataLength, space)
	}
	if err := from.debit(lamports); err != nil {
		return fmt.Errorf("create account: %w", err)
	}

	to.allocate(space)
	to.assign(owner)
	to.credit(lamports)
	ctx.tx.created++
	return nil
}

func transfer(accounts []*AccountInfo, lamports uint64) error {
	if len(accounts) < 2 {
		return ErrNotEnoughAccountKeys
	}
	from, to := accounts[0], accounts[1]

	if !from.IsSigner {
		return fmt.Errorf("transfer: %w: %s", ErrMissingRequiredSignature, from.Key)
	}
	if !from.IsWritable || !to.IsWritable {
		return fmt.Errorf("transfer: %w", ErrReadonlyDataModified)
	}
	if from.DataLen() > 0 {
		return fmt.Errorf("transfer: from account carries data: %w", ErrInvalidAccountDataLength)
	}
	if err := from.debit(lamports); err != nil {
		return fmt.Errorf("transfer: %w", err)
	}
	to.credit(lamports)
	return nil
}
