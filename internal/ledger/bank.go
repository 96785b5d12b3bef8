package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/roach88/clockstate/internal/pubkey"
)

// TransactionResult is the outcome of ProcessTransaction.
type TransactionResult struct {
	Signature string
	Slot      uint64
	Logs      []string
	Err       error
}

// maxCommitAttempts bounds re-execution after ErrConflict.
const maxCommitAttempts = 3

// Bank executes transactions against an AccountStore.
//
// Account locks serialize transactions within one Bank. Banks in other
// processes sharing a durable store are detected at commit through account
// versions, and the losing transaction is re-executed.
type Bank struct {
	store   AccountStore
	rent    Rent
	logger  *slog.Logger
	metrics *Metrics
	slots   *SlotClock
	locks   *accountLocks
	recent  *recentTransactions
	now     func() time.Time

	mu       sync.RWMutex
	programs map[pubkey.Pubkey]Program
}

// Option configures a Bank.
type Option func(*Bank)

// WithRent overrides the default rent parameters.
func WithRent(r Rent) Option {
	return func(b *Bank) { b.rent = r }
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(b *Bank) { b.logger = l }
}

// WithMetrics sets the prometheus collectors.
func WithMetrics(m *Metrics) Option {
	return func(b *Bank) { b.metrics = m }
}

// WithStartSlot resumes the slot counter after start.
func WithStartSlot(start uint64) Option {
	return func(b *Bank) { b.slots = NewSlotClockAt(start) }
}

// WithNow sets the wall clock used to check transaction nonce times.
func WithNow(now func() time.Time) Option {
	return func(b *Bank) { b.now = now }
}

// NewBank creates a bank over store with the system program deployed.
func NewBank(store AccountStore, opts ...Option) *Bank {
	b := &Bank{
		store:    store,
		rent:     DefaultRent(),
		logger:   slog.Default(),
		slots:    NewSlotClockAt(0),
		locks:    newAccountLocks(),
		recent:   newRecentTransactions(),
		now:      time.Now,
		programs: map[pubkey.Pubkey]Program{pubkey.SystemProgramID: systemProgram{}},
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.metrics == nil {
		b.metrics = NewMetrics(nil)
	}
	return b
}

// Deploy registers program at programID, replacing any previous program.
func (b *Bank) Deploy(programID pubkey.Pubkey, program Program) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.programs[programID] = program
}

// Rent returns the bank's rent parameters.
func (b *Bank) Rent() Rent { return b.rent }

// Slot returns the last issued slot.
func (b *Bank) Slot() uint64 { return b.slots.Current() }

// GetAccount reads committed state for key.
func (b *Bank) GetAccount(ctx context.Context, key pubkey.Pubkey) (Account, bool, error) {
	return b.store.GetAccount(ctx, key)
}

// Airdrop credits lamports to key outside any transaction.
func (b *Bank) Airdrop(ctx context.Context, key pubkey.Pubkey, lamports uint64) error {
	release := b.locks.acquire(map[pubkey.Pubkey]bool{key: true})
	defer release()

	for attempt := 1; ; attempt++ {
		acc, version, err := b.store.LoadAccount(ctx, key)
		if err != nil {
			return fmt.Errorf("airdrop: %w", err)
		}
		acc.Lamports += lamports

		batch := Batch{
			Slot:     b.slots.Next(),
			Accounts: map[pubkey.Pubkey]Account{key: acc},
			Versions: map[pubkey.Pubkey]uint64{key: version},
		}
		err = b.store.Commit(ctx, batch)
		if errors.Is(err, ErrConflict) && attempt < maxCommitAttempts {
			continue
		}
		if err != nil {
			return fmt.Errorf("airdrop: %w", err)
		}
		b.logger.Debug("airdrop", "account", key.String(), "lamports", lamports)
		return nil
	}
}

// ProcessTransaction verifies, executes and commits tx.
//
// The returned error equals result.Err. On any failure no account change is
// committed; a failed transaction record is still stored. When another writer
// commits to the same store first (ErrConflict), the transaction is executed
// again against the fresh state, up to maxCommitAttempts times.
func (b *Bank) ProcessTransaction(ctx context.Context, tx *Transaction) (*TransactionResult, error) {
	start := time.Now()
	result := &TransactionResult{Signature: tx.ID()}

	if err := b.checkTransaction(tx); err != nil {
		result.Err = err
		b.metrics.Transactions.WithLabelValues("rejected").Inc()
		return result, err
	}

	writable := transactionAccounts(&tx.Message)
	release := b.locks.acquire(writable)
	defer release()

	var (
		st  *txState
		err error
	)
	for attempt := 1; ; attempt++ {
		var runErr, commitErr error
		st, runErr, commitErr = b.attempt(ctx, tx, writable, result.Signature)
		if errors.Is(commitErr, ErrConflict) && attempt < maxCommitAttempts {
			st.logger.Debug("commit conflict, retrying", "attempt", attempt, "error", commitErr)
			b.resyncSlot(ctx)
			continue
		}

		err = runErr
		if commitErr != nil {
			if runErr == nil {
				err = fmt.Errorf("commit transaction: %w", commitErr)
			} else {
				st.logger.Error("failed to record failed transaction", "error", commitErr)
			}
		}
		break
	}

	result.Slot = st.slot
	result.Logs = st.logs
	result.Err = err
	if errors.Is(err, ErrConflict) {
		// Nothing was stored, so the same transaction may be submitted again.
		b.recent.forget(result.Signature)
	}

	b.metrics.Duration.Observe(time.Since(start).Seconds())
	if err != nil {
		b.metrics.Transactions.WithLabelValues(StatusFailed).Inc()
		st.logger.Warn("transaction failed", "error", err)
		return result, err
	}
	b.metrics.Transactions.WithLabelValues(StatusOK).Inc()
	b.metrics.AccountsCreated.Add(float64(st.created))
	st.logger.Info("transaction committed", "instructions", len(tx.Message.Instructions))
	return result, nil
}

// attempt executes tx once in a new slot and commits the outcome.
// runErr is the execution failure, commitErr the store failure.
func (b *Bank) attempt(ctx context.Context, tx *Transaction, writable map[pubkey.Pubkey]bool, signature string) (st *txState, runErr, commitErr error) {
	st = &txState{
		ctx:      ctx,
		bank:     b,
		slot:     b.slots.Next(),
		accounts: make(map[pubkey.Pubkey]*Account, len(writable)),
		versions: make(map[pubkey.Pubkey]uint64, len(writable)),
	}
	st.logger = b.logger.With("tx", signature, "slot", st.slot)

	runErr = b.run(st, tx, writable)

	record := &TransactionRecord{
		Signature: signature,
		Slot:      st.slot,
		FeePayer:  tx.Message.FeePayer,
		Status:    StatusOK,
		Logs:      st.logs,
	}
	batch := Batch{Slot: st.slot, Record: record}
	if runErr == nil {
		batch.Versions = st.versions
		batch.Accounts = make(map[pubkey.Pubkey]Account, len(writable))
		for key, isWritable := range writable {
			if isWritable {
				batch.Accounts[key] = st.accounts[key].Clone()
			}
		}
	} else {
		record.Status = StatusFailed
		record.Error = runErr.Error()
	}

	commitErr = b.store.Commit(ctx, batch)
	return st, runErr, commitErr
}

// resyncSlot moves the slot clock past slots committed by other writers.
func (b *Bank) resyncSlot(ctx context.Context) {
	src, ok := b.store.(slotSource)
	if !ok {
		return
	}
	last, err := src.LastSlot(ctx)
	if err != nil {
		b.logger.Warn("failed to read last slot", "error", err)
		return
	}
	b.slots.AdvanceTo(last)
}

// checkTransaction performs signature, expiry and replay checks.
func (b *Bank) checkTransaction(tx *Transaction) error {
	if len(tx.Message.Instructions) == 0 {
		return ErrEmptyTransaction
	}
	if err := tx.Verify(); err != nil {
		return err
	}

	id := tx.ID()
	now := b.now()
	issued, ok := nonceTime(tx.Message.Nonce)
	if !ok || !withinWindow(issued, now) {
		return fmt.Errorf("%w: %s", ErrTransactionExpired, id)
	}
	if !b.recent.add(id, issued, now) {
		return fmt.Errorf("%w: %s", ErrAlreadyProcessed, id)
	}
	return nil
}

// run loads accounts and executes every instruction in order.
func (b *Bank) run(st *txState, tx *Transaction, writable map[pubkey.Pubkey]bool) error {
	for key := range writable {
		acc, version, err := b.store.LoadAccount(st.ctx, key)
		if err != nil {
			return fmt.Errorf("load account %s: %w", key, err)
		}
		st.accounts[key] = &acc
		st.versions[key] = version
	}

	signers := make(map[pubkey.Pubkey]bool)
	for _, key := range tx.Message.RequiredSigners() {
		signers[key] = true
	}

	for i, ix := range tx.Message.Instructions {
		infos := make([]*AccountInfo, len(ix.Accounts))
		for j, meta := range ix.Accounts {
			infos[j] = &AccountInfo{
				Key:        meta.Pubkey,
				IsSigner:   meta.IsSigner && signers[meta.Pubkey],
				IsWritable: meta.IsWritable,
				account:    st.accounts[meta.Pubkey],
				program:    ix.ProgramID,
			}
		}

		if err := b.execute(st, ix.ProgramID, infos, ix.Data, 1); err != nil {
			if ie, ok := err.(*InstructionError); ok {
				ie.Index = i
				return ie
			}
			return &InstructionError{Index: i, ProgramID: ix.ProgramID, Code: ErrCodeProgramFailed, Err: err}
		}
	}

	for key, isWritable := range writable {
		acc := st.accounts[key]
		if isWritable && len(acc.Data) > 0 && !b.rent.IsExempt(acc.Lamports, len(acc.Data)) {
			return &InstructionError{
				Index:     len(tx.Message.Instructions) - 1,
				Code:      ErrCodeRentState,
				ProgramID: acc.Owner,
				Err:       fmt.Errorf("%w: %s", ErrInsufficientFundsForRent, key),
			}
		}
	}
	return nil
}

// execute dispatches to a program, recovering panics.
func (b *Bank) execute(st *txState, programID pubkey.Pubkey, accounts []*AccountInfo, data []byte, depth int) (err error) {
	if depth > MaxInvokeDepth {
		return fmt.Errorf("%w: %d", ErrCallDepth, depth)
	}

	b.mu.RLock()
	program, ok := b.programs[programID]
	b.mu.RUnlock()
	if !ok {
		return &InstructionError{
			ProgramID: programID,
			Code:      ErrCodeUnknownProgram,
			Err:       fmt.Errorf("%w: %s", ErrUnknownProgram, programID),
		}
	}

	st.logf("Program %s invoke [%d]", programID, depth)
	defer func() {
		if r := recover(); r != nil {
			err = &InstructionError{ProgramID: programID, Code: ErrCodeProgramPanicked, Err: panicError(r)}
		}
		if err != nil {
			st.logf("Program %s failed: %v", programID, err)
			return
		}
		st.logf("Program %s success", programID)
	}()

	ctx := &InvokeContext{tx: st, programID: programID, depth: depth}
	return program.Process(ctx, accounts, data)
}

// transactionAccounts returns every account the message names, mapped to
// whether any instruction needs it writable. The fee payer is always writable.
func transactionAccounts(m *Message) map[pubkey.Pubkey]bool {
	out := map[pubkey.Pubkey]bool{m.FeePayer: true}
	for _, ix := range m.Instructions {
		for _, meta := range ix.Accounts {
			out[meta.Pubkey] = out[meta.Pubkey] || meta.IsWritable
		}
	}
	return out
}
