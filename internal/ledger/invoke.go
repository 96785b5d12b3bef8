package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/clockstate/internal/pubkey"
)

// MaxInvokeDepth bounds nested cross-program invocations.
const MaxInvokeDepth = 4

// Program is an on-ledger program.
type Program interface {
	Process(ctx *InvokeContext, accounts []*AccountInfo, data []byte) error
}

// ProgramFunc adapts a function to Program.
type ProgramFunc func(ctx *InvokeContext, accounts []*AccountInfo, data []byte) error

// Process calls f.
func (f ProgramFunc) Process(ctx *InvokeContext, accounts []*AccountInfo, data []byte) error {
	return f(ctx, accounts, data)
}

// SignerSeeds are the derivation seeds (bump included) that let a program
// sign for one of its program-derived addresses.
type SignerSeeds [][]byte

// txState is the working state of one transaction.
type txState struct {
	ctx      context.Context
	bank     *Bank
	slot     uint64
	logger   *slog.Logger
	accounts map[pubkey.Pubkey]*Account
	versions map[pubkey.Pubkey]uint64
	logs     []string
	created  int
}

func (st *txState) logf(format string, args ...any) {
	st.logs = append(st.logs, fmt.Sprintf(format, args...))
}

// InvokeContext is what the host exposes to a running program.
type InvokeContext struct {
	tx        *txState
	programID pubkey.Pubkey
	depth     int
}

// Context returns the context of the enclosing transaction.
func (c *InvokeContext) Context() context.Context { return c.tx.ctx }

// ProgramID returns the address of the executing program.
func (c *InvokeContext) ProgramID() pubkey.Pubkey { return c.programID }

// Rent returns the host's rent parameters.
func (c *InvokeContext) Rent() Rent { return c.tx.bank.rent }

// Slot returns the slot the transaction executes in.
func (c *InvokeContext) Slot() uint64 { return c.tx.slot }

// Logger returns a structured logger scoped to this invocation.
func (c *InvokeContext) Logger() *slog.Logger {
	return c.tx.logger.With("program", c.programID.String(), "depth", c.depth)
}

// Log appends a program log line to the transaction's log messages.
func (c *InvokeContext) Log(format string, args ...any) {
	c.tx.logf("Program log: "+format, args...)
}

// Invoke calls another program with the caller's own privileges.
func (c *InvokeContext) Invoke(ix Instruction, accounts []*AccountInfo) error {
	return c.InvokeSigned(ix, accounts)
}

// InvokeSigned calls another program. Each entry in signers is checked
// against the calling program's id; the derived address it yields is
// treated as a signer for this call only.
//
// Every account in ix must be present in accounts, and the call may not
// request writable or signer privileges the caller does not hold.
func (c *InvokeContext) InvokeSigned(ix Instruction, accounts []*AccountInfo, signers ...SignerSeeds) error {
	derived := make(map[pubkey.Pubkey]bool, len(signers))
	for _, seeds := range signers {
		addr, err := pubkey.CreateProgramAddress(seeds, c.programID)
		if err != nil {
			return fmt.Errorf("invoke signed: %w", err)
		}
		derived[addr] = true
	}

	callee := make([]*AccountInfo, 0, len(ix.Accounts))
	for _, meta := range ix.Accounts {
		info := findAccount(accounts, meta.Pubkey)
		if info == nil {
			return fmt.Errorf("%w: %s", ErrMissingAccount, meta.Pubkey)
		}
		if meta.IsWritable && !info.IsWritable {
			return fmt.Errorf("%w: %s is not writable", ErrPrivilegeEscalation, meta.Pubkey)
		}
		if meta.IsSigner && !info.IsSigner && !derived[meta.Pubkey] {
			return fmt.Errorf("%w: %s did not sign", ErrPrivilegeEscalation, meta.Pubkey)
		}
		callee = append(callee, info.reborrow(meta, ix.ProgramID))
	}

	return c.tx.bank.execute(c.tx, ix.ProgramID, callee, ix.Data, c.depth+1)
}

func findAccount(accounts []*AccountInfo, key pubkey.Pubkey) *AccountInfo {
	for _, a := range accounts {
		if a.Key == key {
			return a
		}
	}
	return nil
}
