package cli

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/roach88/clockstate/internal/config"
	"github.com/roach88/clockstate/internal/ledger"
	"github.com/roach88/clockstate/internal/program"
	"github.com/roach88/clockstate/internal/pubkey"
	"github.com/roach88/clockstate/internal/store"
)

// session is a configured ledger with the clock program deployed.
type session struct {
	cfg      config.Config
	variant  program.Variant
	logger   *slog.Logger
	store    *store.Store
	bank     *ledger.Bank
	registry *prometheus.Registry
}

// loadConfig loads settings and resolves the program variant.
func loadConfig(opts *RootOptions) (config.Config, program.Variant, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, "", err
	}
	variant, err := cfg.ProgramVariant()
	if err != nil {
		return config.Config{}, "", err
	}
	return cfg, variant, nil
}

// newLogger writes structured logs to w in verbose mode and discards them
// otherwise.
func newLogger(opts *RootOptions, cfg config.Config, w io.Writer) *slog.Logger {
	if !opts.Verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}

// openSession opens the configured database and resumes its slot counter.
// Errors are reported through f.
func openSession(ctx context.Context, opts *RootOptions, f *OutputFormatter) (*session, error) {
	cfg, variant, err := loadConfig(opts)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeConfig, "failed to load config", err, nil)
	}
	logger := newLogger(opts, cfg, f.GetErrWriter())

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeDatabase, "failed to open database", err, nil)
	}
	lastSlot, err := st.LastSlot(ctx)
	if err != nil {
		st.Close()
		return nil, f.Fail(ExitCommandError, ErrCodeDatabase, "failed to read last slot", err, nil)
	}

	registry := prometheus.NewRegistry()
	bank := ledger.NewBank(st,
		ledger.WithRent(cfg.Rent),
		ledger.WithLogger(logger),
		ledger.WithStartSlot(lastSlot),
		ledger.WithMetrics(ledger.NewMetrics(registry)),
	)
	bank.Deploy(cfg.ProgramID, program.New(cfg.ProgramID, variant, program.WithLogger(logger)))

	logger.Debug("ledger opened",
		"database", cfg.DatabasePath,
		"program", cfg.ProgramID.String(),
		"variant", string(variant),
		"last_slot", lastSlot,
	)

	return &session{
		cfg:      cfg,
		variant:  variant,
		logger:   logger,
		store:    st,
		bank:     bank,
		registry: registry,
	}, nil
}

// Close logs the session's ledger metrics and closes the database.
func (s *session) Close() error {
	s.logMetrics()
	return s.store.Close()
}

// submit writes payload through the program with a freshly funded payer.
func (s *session) submit(ctx context.Context, payload []byte) (*ledger.TransactionResult, error) {
	payer, err := pubkey.NewKeypair(rand.Reader)
	if err != nil {
		return nil, err
	}
	if err := s.bank.Airdrop(ctx, payer.Public, s.cfg.FaucetLamports); err != nil {
		return nil, fmt.Errorf("fund payer: %w", err)
	}

	tx := ledger.NewTransaction(payer.Public, program.NewSetInstruction(s.cfg.ProgramID, payer.Public, payload))
	if err := tx.Sign(payer); err != nil {
		return nil, err
	}
	return s.bank.ProcessTransaction(ctx, tx)
}

func (s *session) logMetrics() {
	families, err := s.registry.Gather()
	if err != nil {
		s.logger.Warn("gather metrics", "error", err)
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			attrs := []any{"metric", mf.GetName()}
			for _, lp := range m.GetLabel() {
				attrs = append(attrs, lp.GetName(), lp.GetValue())
			}
			switch {
			case m.GetCounter() != nil:
				attrs = append(attrs, "value", m.GetCounter().GetValue())
			case m.GetHistogram() != nil:
				attrs = append(attrs, "count", m.GetHistogram().GetSampleCount(), "sum", m.GetHistogram().GetSampleSum())
			}
			s.logger.Debug("ledger metric", attrs...)
		}
	}
}
