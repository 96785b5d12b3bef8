package program

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/clockstate/internal/ledger"
	"github.com/roach88/clockstate/internal/pubkey"
)

// Account positions in every call.
const (
	storageIndex = iota
	payerIndex
	systemIndex
	accountCount
)

// Processor is the clock program entry point. The program id is fixed at
// construction and never changes.
type Processor struct {
	programID pubkey.Pubkey
	variant   Variant
	logger    *slog.Logger
}

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets the structured logger used for diagnostics in addition to
// the transaction's program log. Defaults to the invocation's logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Processor) { p.logger = l }
}

// New creates the processor for programID accepting variant payloads.
func New(programID pubkey.Pubkey, variant Variant, opts ...Option) *Processor {
	p := &Processor{programID: programID, variant: variant}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProgramID returns the program identity the processor derives from.
func (p *Processor) ProgramID() pubkey.Pubkey { return p.programID }

// Variant returns the payload layout the processor accepts.
func (p *Processor) Variant() Variant { return p.variant }

// Process validates payload and writes it into the storage account,
// creating the account on first use.
//
// Panics with an ADDRESS_MISMATCH *Error if accounts[0] is not the derived
// storage address. Every other failure is returned and leaves no effect.
func (p *Processor) Process(ctx *ledger.InvokeContext, accounts []*ledger.AccountInfo, payload []byte) error {
	if len(accounts) < accountCount {
		return &Error{
			Code:    ErrCodeNotEnoughAccounts,
			Message: fmt.Sprintf("need %d accounts, got %d", accountCount, len(accounts)),
		}
	}
	storage := accounts[storageIndex]
	payer := accounts[payerIndex]

	proof := DeriveStorageAddress(p.programID)
	if storage.Key != proof.Address {
		panic(NewAddressMismatchError(storage.Key, proof.Address))
	}

	fields, err := p.variant.validate(payload)
	if err != nil {
		return NewInvalidPayloadError(p.variant, len(payload), err)
	}

	logger := p.logger
	if logger == nil {
		logger = ctx.Logger()
	}

	if storage.DataLen() == 0 {
		lamports := ctx.Rent().MinimumBalance(len(payload))
		create := ledger.NewCreateAccountInstruction(payer.Key, storage.Key, lamports, uint64(len(payload)), p.programID)
		if err := ctx.InvokeSigned(create, accounts, proof.SignerSeeds()); err != nil {
			return NewCreationFailureError(storage.Key, err)
		}
		logger.Info("storage account created",
			"address", storage.Key.String(),
			"bump", proof.Bump,
			"lamports", lamports,
			"size", len(payload),
		)
	}

	if err := storage.SetData(payload); err != nil {
		return NewStorageWriteFailureError(storage.Key, err)
	}

	ctx.Log("New %s - %s", p.variant, formatFields(fields))
	logger.Info("storage account written", append([]any{"variant", string(p.variant)}, fields...)...)
	return nil
}

// formatFields renders alternating key/value pairs as "k: v, k: v".
func formatFields(fields []any) string {
	parts := make([]string, 0, len(fields)/2)
	for i := 0; i+1 < len(fields); i += 2 {
		parts = append(parts, fmt.Sprintf("%v: %v", fields[i], fields[i+1]))
	}
	return strings.Join(parts, ", ")
}
