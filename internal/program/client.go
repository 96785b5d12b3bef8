package program

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/clockstate/internal/clockcodec"
	"github.com/roach88/clockstate/internal/ledger"
	"github.com/roach88/clockstate/internal/pubkey"
)

// ErrStorageNotFound is returned by readers when the storage account has not
// been created yet.
var ErrStorageNotFound = errors.New("storage account not found")

// AccountReader reads committed accounts. *ledger.Bank satisfies it.
type AccountReader interface {
	GetAccount(ctx context.Context, key pubkey.Pubkey) (ledger.Account, bool, error)
}

// NewSetInstruction builds the instruction that writes payload, paid for by
// payer.
func NewSetInstruction(programID, payer pubkey.Pubkey, payload []byte) ledger.Instruction {
	return NewSetInstructionWithStorage(programID, DeriveStorageAddress(programID).Address, payer, payload)
}

// NewSetInstructionWithStorage is NewSetInstruction with an explicit storage
// account. The program rejects any storage other than the derived address.
func NewSetInstructionWithStorage(programID, storage, payer pubkey.Pubkey, payload []byte) ledger.Instruction {
	return ledger.Instruction{
		ProgramID: programID,
		Accounts: []ledger.AccountMeta{
			ledger.NewAccountMeta(storage, false),
			ledger.NewAccountMeta(payer, true),
			ledger.NewReadonlyAccountMeta(pubkey.SystemProgramID, false),
		},
		Data: append([]byte(nil), payload...),
	}
}

// ReadStorage returns the raw content of the storage account.
func ReadStorage(ctx context.Context, r AccountReader, programID pubkey.Pubkey) ([]byte, error) {
	addr := DeriveStorageAddress(programID).Address
	acc, ok, err := r.GetAccount(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("read storage %s: %w", addr, err)
	}
	if !ok || len(acc.Data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrStorageNotFound, addr)
	}
	return acc.Data, nil
}

// ReadTimestamp decodes storage written by a VariantTimestamp deployment.
func ReadTimestamp(ctx context.Context, r AccountReader, programID pubkey.Pubkey) (uint64, error) {
	data, err := ReadStorage(ctx, r, programID)
	if err != nil {
		return 0, err
	}
	return clockcodec.DecodeTimestamp(data)
}

// ReadClock decodes storage written by a VariantClock deployment.
func ReadClock(ctx context.Context, r AccountReader, programID pubkey.Pubkey) (clockcodec.Clock, error) {
	data, err := ReadStorage(ctx, r, programID)
	if err != nil {
		return clockcodec.Clock{}, err
	}
	return clockcodec.DecodeClock(data)
}
