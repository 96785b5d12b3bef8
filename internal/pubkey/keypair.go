package pubkey

import (
	"crypto/ed25519"
	"fmt"
	"io"
)

// Keypair is an ed25519 signing key and its address.
type Keypair struct {
	Public  Pubkey
	private ed25519.PrivateKey
}

// NewKeypair generates a keypair from rand.
func NewKeypair(rand io.Reader) (*Keypair, error) {
	pub, priv, err := ed25519.GenerateKey(rand)
	if err != nil {
		return nil, fmt.Errorf("generate keypair: %w", err)
	}
	pk, _ := FromBytes(pub)
	return &Keypair{Public: pk, private: priv}, nil
}

// KeypairFromSeed builds a deterministic keypair from a 32-byte seed.
func KeypairFromSeed(seed []byte) (*Keypair, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("invalid seed length: %d", len(seed))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	pk, _ := FromBytes(priv.Public().(ed25519.PublicKey))
	return &Keypair{Public: pk, private: priv}, nil
}

// Sign signs message with the private key.
func (k *Keypair) Sign(message []byte) []byte {
	return ed25519.Sign(k.private, message)
}

// Verify checks an ed25519 signature made by key over message.
func Verify(key Pubkey, message, sig []byte) bool {
	if len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(key[:]), message, sig)
}
