package pubkey

import (
	"bytes"
	"fmt"

	"github.com/mr-tron/base58/base58"
)

// Size is the byte length of an address.
const Size = 32

// Pubkey is a ledger address.
type Pubkey [Size]byte

// SystemProgramID is the address of the system program (all zero bytes).
var SystemProgramID = Pubkey{}

// ParsePubkey decodes a base58 address.
func ParsePubkey(s string) (Pubkey, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return Pubkey{}, fmt.Errorf("parse pubkey %q: %w", s, err)
	}
	return FromBytes(raw)
}

// MustParsePubkey is like ParsePubkey but panics on error.
// Use only for constants and tests.
func MustParsePubkey(s string) Pubkey {
	pk, err := ParsePubkey(s)
	if err != nil {
		panic(err)
	}
	return pk
}

// FromBytes copies a 32-byte slice into a Pubkey.
func FromBytes(b []byte) (Pubkey, error) {
	var pk Pubkey
	if len(b) != Size {
		return pk, fmt.Errorf("invalid pubkey length: %d", len(b))
	}
	copy(pk[:], b)
	return pk, nil
}

// String returns the base58 form.
func (p Pubkey) String() string {
	return base58.Encode(p[:])
}

// Bytes returns a copy of the raw key bytes.
func (p Pubkey) Bytes() []byte {
	return append([]byte(nil), p[:]...)
}

// IsZero reports whether p is the all-zero key.
func (p Pubkey) IsZero() bool {
	return p == Pubkey{}
}

// Equals reports whether p and o are the same address.
func (p Pubkey) Equals(o Pubkey) bool {
	return p == o
}

// Compare orders keys bytewise. Used for deterministic lock ordering.
func (p Pubkey) Compare(o Pubkey) int {
	return bytes.Compare(p[:], o[:])
}

// MarshalText implements encoding.TextMarshaler.
func (p Pubkey) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Pubkey) UnmarshalText(text []byte) error {
	pk, err := ParsePubkey(string(text))
	if err != nil {
		return err
	}
	*p = pk
	return nil
}
