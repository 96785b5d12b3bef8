package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/clockstate/internal/ledger"
	"github.com/roach88/clockstate/internal/pubkey"
)

// createTestStore creates a new on-disk store in a temp dir for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestAccount creates an account owned by owner with the given data.
func createTestAccount(owner pubkey.Pubkey, lamports uint64, data []byte) ledger.Account {
	return ledger.Account{
		Lamports: lamports,
		Data:     data,
		Owner:    owner,
	}
}

// createTestRecord creates a transaction record with minimal required fields.
func createTestRecord(signature string, slot uint64, status string) *ledger.TransactionRecord {
	return &ledger.TransactionRecord{
		Signature: signature,
		Slot:      slot,
		FeePayer:  pubkey.Pubkey{1},
		Status:    status,
		Logs:      []string{"Program log: test <&>"},
	}
}
