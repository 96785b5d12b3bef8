package harness

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/roach88/clockstate/internal/config"
	"github.com/roach88/clockstate/internal/ledger"
	"github.com/roach88/clockstate/internal/program"
	"github.com/roach88/clockstate/internal/pubkey"
)

const (
	payerLabel    = "clockstate/scenario-payer"
	payerLamports = 1_000_000_000
)

// Harness is the scenario execution engine.
// It owns a fresh in-memory ledger with the clock program deployed.
type Harness struct {
	bank      *ledger.Bank
	programID pubkey.Pubkey
	payer     *pubkey.Keypair
	logger    *slog.Logger
}

type options struct {
	programID pubkey.Pubkey
	rent      ledger.Rent
	logger    *slog.Logger
}

// Option configures Run.
type Option func(*options)

// WithProgramID deploys the program at id instead of the default.
func WithProgramID(id pubkey.Pubkey) Option {
	return func(o *options) { o.programID = id }
}

// WithRent overrides the ledger rent parameters.
func WithRent(r ledger.Rent) Option {
	return func(o *options) { o.rent = r }
}

// WithLogger sets the logger for the ledger and program. Logs are discarded
// by default.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Run executes a scenario and returns the result.
//
// Each scenario runs on a fresh in-memory ledger with a single
// deterministic payer. A returned error means the scenario could not be
// executed; failed expectations are reported in Result.Errors.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	o := options{
		programID: config.DefaultProgramID,
		rent:      ledger.DefaultRent(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&o)
	}

	variant, err := scenario.ProgramVariant()
	if err != nil {
		return nil, err
	}

	runID := uuid.Must(uuid.NewV7()).String()
	logger := o.logger.With("run", runID, "scenario", scenario.Name)

	bank := ledger.NewBank(ledger.NewMemoryStore(), ledger.WithLogger(logger), ledger.WithRent(o.rent))
	bank.Deploy(o.programID, program.New(o.programID, variant, program.WithLogger(logger)))

	ctx := context.Background()
	payer := pubkey.NewKeySequence(payerLabel).Next()
	if err := bank.Airdrop(ctx, payer.Public, payerLamports); err != nil {
		return nil, fmt.Errorf("failed to fund payer: %w", err)
	}

	h := &Harness{
		bank:      bank,
		programID: o.programID,
		payer:     payer,
		logger:    logger,
	}

	result := NewResult()
	result.RunID = runID
	result.Variant = string(variant)

	if err := h.executeSteps(ctx, scenario.Steps, result); err != nil {
		return nil, fmt.Errorf("failed to execute steps: %w", err)
	}

	storage, err := h.storageState(ctx)
	if err != nil {
		return nil, err
	}
	result.Storage = storage

	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(errMsg)
	}

	logger.Info("scenario finished", "pass", result.Pass, "steps", len(result.Steps))
	return result, nil
}

// executeSteps submits every step as its own transaction and compares the
// outcome with the step's expectation.
func (h *Harness) executeSteps(ctx context.Context, steps []Step, result *Result) error {
	derived := program.DeriveStorageAddress(h.programID).Address

	for i, step := range steps {
		payload, err := step.Payload()
		if err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}

		storage := derived
		if step.Storage != "" {
			if storage, err = pubkey.ParsePubkey(step.Storage); err != nil {
				return fmt.Errorf("step %d: storage: %w", i, err)
			}
		}

		tx := ledger.NewTransaction(h.payer.Public,
			program.NewSetInstructionWithStorage(h.programID, storage, h.payer.Public, payload))
		if err := tx.Sign(h.payer); err != nil {
			return fmt.Errorf("step %d: sign: %w", i, err)
		}

		res, txErr := h.bank.ProcessTransaction(ctx, tx)
		sr := StepResult{
			Index:     i,
			Action:    step.Action(),
			Payload:   hex.EncodeToString(payload),
			Expect:    step.Expected(),
			Outcome:   Outcome(txErr),
			Signature: res.Signature,
			Logs:      res.Logs,
		}
		if txErr != nil {
			sr.Error = txErr.Error()
		}
		result.AddStep(sr)

		if sr.Outcome != sr.Expect {
			result.AddError(fmt.Sprintf("steps[%d] %s: expected %s, got %s", i, sr.Action, sr.Expect, sr.Outcome))
		}

		h.logger.Debug("step completed",
			"step", i,
			"action", sr.Action,
			"outcome", sr.Outcome,
			"expect", sr.Expect,
		)
	}
	return nil
}

// storageState snapshots the derived storage account.
func (h *Harness) storageState(ctx context.Context) (StorageState, error) {
	addr := program.DeriveStorageAddress(h.programID).Address
	acc, ok, err := h.bank.GetAccount(ctx, addr)
	if err != nil {
		return StorageState{}, fmt.Errorf("read storage: %w", err)
	}
	return StorageState{
		Address: addr.String(),
		Exists:  ok,
		Data:    hex.EncodeToString(acc.Data),
	}, nil
}

// Outcome classifies a transaction error as ExpectOK, a program error code,
// or the ledger error code when the program attached none.
func Outcome(err error) string {
	if err == nil {
		return ExpectOK
	}
	if code := program.CodeOf(err); code != "" {
		return string(code)
	}
	var ie *ledger.InstructionError
	if errors.As(err, &ie) {
		return string(ie.Code)
	}
	return "ERROR"
}
