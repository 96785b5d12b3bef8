package ledger

import (
	"slices"
	"sync"

	"github.com/roach88/clockstate/internal/pubkey"
)

// accountLocks serializes transactions that name the same account.
// Writers hold the exclusive lock, readers the shared lock.
type accountLocks struct {
	mu    sync.Mutex
	locks map[pubkey.Pubkey]*sync.RWMutex
}

func newAccountLocks() *accountLocks {
	return &accountLocks{locks: make(map[pubkey.Pubkey]*sync.RWMutex)}
}

func (l *accountLocks) get(key pubkey.Pubkey) *sync.RWMutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.RWMutex{}
		l.locks[key] = m
	}
	return m
}

// acquire locks every key and returns the matching release function.
// Keys are locked in byte order so concurrent callers cannot deadlock.
func (l *accountLocks) acquire(writable map[pubkey.Pubkey]bool) func() {
	keys := make([]pubkey.Pubkey, 0, len(writable))
	for key := range writable {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, pubkey.Pubkey.Compare)

	held := make([]func(), 0, len(keys))
	for _, key := range keys {
		m := l.get(key)
		if writable[key] {
			m.Lock()
			held = append(held, m.Unlock)
		} else {
			m.RLock()
			held = append(held, m.RUnlock)
		}
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i]()
		}
	}
}
