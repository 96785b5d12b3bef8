package testutil

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/roach88/clockstate/internal/ledger"
	"github.com/roach88/clockstate/internal/pubkey"
)

// DefaultAirdrop is the balance given to payers by FundedPayer.
const DefaultAirdrop uint64 = 1_000_000_000

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewBank creates an in-memory bank with logs suppressed.
func NewBank(t testing.TB, opts ...ledger.Option) (*ledger.Bank, *ledger.MemoryStore) {
	t.Helper()
	store := ledger.NewMemoryStore()
	opts = append([]ledger.Option{ledger.WithLogger(DiscardLogger())}, opts...)
	return ledger.NewBank(store, opts...), store
}

// FundedPayer returns a deterministic keypair holding lamports.
func FundedPayer(t testing.TB, bank *ledger.Bank, keys *DeterministicKeys, lamports uint64) *pubkey.Keypair {
	t.Helper()
	kp := keys.Next()
	if err := bank.Airdrop(context.Background(), kp.Public, lamports); err != nil {
		t.Fatalf("Airdrop() failed: %v", err)
	}
	return kp
}

// Submit signs and processes a transaction paid for by payer.
func Submit(t testing.TB, bank *ledger.Bank, payer *pubkey.Keypair, ixs ...ledger.Instruction) (*ledger.TransactionResult, error) {
	t.Helper()
	tx := ledger.NewTransaction(payer.Public, ixs...)
	if err := tx.Sign(payer); err != nil {
		t.Fatalf("Sign() failed: %v", err)
	}
	return bank.ProcessTransaction(context.Background(), tx)
}
