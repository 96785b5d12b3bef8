package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/roach88/clockstate/internal/pubkey"
)

// Transaction status values recorded in TransactionRecord.Status.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// TransactionRecord is the durable outcome of one processed transaction.
type TransactionRecord struct {
	Signature string
	Slot      uint64
	FeePayer  pubkey.Pubkey
	Status    string
	Error     string
	Logs      []string
}

// Batch is the set of writes produced by one transaction or airdrop.
// Accounts is empty for failed transactions.
type Batch struct {
	Slot     uint64
	Accounts map[pubkey.Pubkey]Account

	// Versions holds the version each account had when it was loaded.
	// Commit fails with ErrConflict if any stored version differs.
	Versions map[pubkey.Pubkey]uint64

	// Record is nil for writes that are not transactions (airdrops).
	Record *TransactionRecord
}

// AccountStore persists accounts. Commit must apply the whole batch or none
// of it.
//
// Every written account's version increases by one, including deletions, so
// a version never repeats for the same key. A key that was never written has
// version 0. Commit also rejects a Record whose slot is already recorded.
type AccountStore interface {
	GetAccount(ctx context.Context, key pubkey.Pubkey) (Account, bool, error)
	LoadAccount(ctx context.Context, key pubkey.Pubkey) (Account, uint64, error)
	Commit(ctx context.Context, batch Batch) error
}

// slotSource is implemented by stores that know their highest slot.
type slotSource interface {
	LastSlot(ctx context.Context) (uint64, error)
}

// MemoryStore is an in-process AccountStore.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[pubkey.Pubkey]Account
	versions map[pubkey.Pubkey]uint64
	slots    map[uint64]bool
	records  []TransactionRecord
	lastSlot uint64
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[pubkey.Pubkey]Account),
		versions: make(map[pubkey.Pubkey]uint64),
		slots:    make(map[uint64]bool),
	}
}

// GetAccount returns a copy of the stored account.
func (s *MemoryStore) GetAccount(_ context.Context, key pubkey.Pubkey) (Account, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[key]
	if !ok {
		return Account{}, false, nil
	}
	return acc.Clone(), true, nil
}

// LoadAccount returns a copy of the stored account and its version.
func (s *MemoryStore) LoadAccount(_ context.Context, key pubkey.Pubkey) (Account, uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accounts[key].Clone(), s.versions[key], nil
}

// Commit applies the batch. Empty accounts are removed.
func (s *MemoryStore) Commit(_ context.Context, batch Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, want := range batch.Versions {
		if got := s.versions[key]; got != want {
			return fmt.Errorf("%w: account %s at version %d, expected %d", ErrConflict, key, got, want)
		}
	}
	if batch.Record != nil && s.slots[batch.Record.Slot] {
		return fmt.Errorf("%w: slot %d already recorded", ErrConflict, batch.Record.Slot)
	}

	for key, acc := range batch.Accounts {
		s.versions[key]++
		if acc.IsEmpty() {
			delete(s.accounts, key)
			continue
		}
		s.accounts[key] = acc.Clone()
	}
	if batch.Record != nil {
		s.records = append(s.records, *batch.Record)
		s.slots[batch.Record.Slot] = true
	}
	if batch.Slot > s.lastSlot {
		s.lastSlot = batch.Slot
	}
	return nil
}

// Records returns the transaction records in commit order.
func (s *MemoryStore) Records() []TransactionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]TransactionRecord(nil), s.records...)
}

// LastSlot returns the highest committed slot.
func (s *MemoryStore) LastSlot(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSlot, nil
}
