package pubkey

import (
	"crypto/sha256"
	"fmt"
	"sync"
)

// KeySequence hands out reproducible keypairs.
//
// The n-th keypair is derived from SHA256("<label>/<n>"), so the same label
// always yields the same addresses in the same order.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type KeySequence struct {
	label string

	mu sync.Mutex
	n  int
}

// NewKeySequence creates a sequence whose first key has index 1.
func NewKeySequence(label string) *KeySequence {
	return &KeySequence{label: label}
}

// Next returns the next keypair.
func (k *KeySequence) Next() *Keypair {
	k.mu.Lock()
	k.n++
	n := k.n
	k.mu.Unlock()
	return k.At(n)
}

// Reset restarts the sequence. After Reset(), Next() returns At(1).
func (k *KeySequence) Reset() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.n = 0
}

// At returns the keypair with index n without advancing the sequence.
func (k *KeySequence) At(n int) *Keypair {
	seed := sha256.Sum256([]byte(fmt.Sprintf("%s/%d", k.label, n)))
	kp, err := KeypairFromSeed(seed[:])
	if err != nil {
		panic(err)
	}
	return kp
}
