package testutil

import "github.com/roach88/clockstate/internal/pubkey"

// DeterministicKeys hands out reproducible keypairs for tests, so the same
// test always sees the same addresses.
type DeterministicKeys = pubkey.KeySequence

const testKeyLabel = "clockstate/test-key"

// NewDeterministicKeys creates a generator whose first key has index 1.
func NewDeterministicKeys() *DeterministicKeys {
	return pubkey.NewKeySequence(testKeyLabel)
}

// KeypairAt returns the test keypair with index n.
func KeypairAt(n int) *pubkey.Keypair {
	return NewDeterministicKeys().At(n)
}
