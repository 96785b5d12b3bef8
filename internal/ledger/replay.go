package ledger

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MaxTransactionAge is how far a transaction's nonce time may lie from the
// bank's clock, in either direction, for the transaction to be processed.
const MaxTransactionAge = 2 * time.Minute

// recentTransactions remembers processed transaction IDs for as long as
// their nonces are inside the processing window. Older IDs are dropped, which
// keeps the set bounded; expiry rejects their replays instead.
type recentTransactions struct {
	mu        sync.Mutex
	seen      map[string]time.Time
	lastSweep time.Time
}

func newRecentTransactions() *recentTransactions {
	return &recentTransactions{seen: make(map[string]time.Time)}
}

// add records id issued at issued. It returns false if id is already known.
func (r *recentTransactions) add(id string, issued, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if now.Sub(r.lastSweep) >= MaxTransactionAge/2 {
		r.sweep(now)
	}
	if _, ok := r.seen[id]; ok {
		return false
	}
	r.seen[id] = issued
	return true
}

// forget removes id so the same transaction can be submitted again.
func (r *recentTransactions) forget(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.seen, id)
}

func (r *recentTransactions) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seen)
}

func (r *recentTransactions) sweep(now time.Time) {
	cutoff := now.Add(-MaxTransactionAge)
	for id, issued := range r.seen {
		if issued.Before(cutoff) {
			delete(r.seen, id)
		}
	}
	r.lastSweep = now
}

// nonceTime returns the creation time embedded in a version 7 nonce.
func nonceTime(nonce uuid.UUID) (time.Time, bool) {
	if nonce.Version() != 7 {
		return time.Time{}, false
	}
	ms := binary.BigEndian.Uint64(nonce[:8]) >> 16
	return time.UnixMilli(int64(ms)), true
}

// withinWindow reports whether issued is inside the processing window
// around now.
func withinWindow(issued, now time.Time) bool {
	d := now.Sub(issued)
	return d <= MaxTransactionAge && d >= -MaxTransactionAge
}
