package pubkey

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"filippo.io/edwards25519"
)

const (
	// MaxSeedLength is the maximum length of a single derivation seed.
	MaxSeedLength = 32

	// MaxSeeds is the maximum number of seeds, bump included.
	MaxSeeds = 16

	pdaMarker = "ProgramDerivedAddress"
)

var (
	ErrMaxSeedLength = errors.New("seed exceeds maximum length")
	ErrMaxSeeds      = errors.New("too many seeds")
	ErrInvalidSeeds  = errors.New("derived address lands on the ed25519 curve")
)

// CreateProgramAddress derives an address from seeds and an owning program.
// Returns ErrInvalidSeeds if the result is a valid curve point.
func CreateProgramAddress(seeds [][]byte, programID Pubkey) (Pubkey, error) {
	if len(seeds) > MaxSeeds {
		return Pubkey{}, fmt.Errorf("%w: %d > %d", ErrMaxSeeds, len(seeds), MaxSeeds)
	}

	h := sha256.New()
	for i, seed := range seeds {
		if len(seed) > MaxSeedLength {
			return Pubkey{}, fmt.Errorf("%w: seed %d is %d bytes", ErrMaxSeedLength, i, len(seed))
		}
		h.Write(seed)
	}
	h.Write(programID[:])
	h.Write([]byte(pdaMarker))

	var out Pubkey
	copy(out[:], h.Sum(nil))
	if IsOnCurve(out[:]) {
		return Pubkey{}, ErrInvalidSeeds
	}
	return out, nil
}

// FindProgramAddress searches bump seeds from 255 down to 0 and returns the
// first off-curve address together with its bump.
//
// The search is deterministic: the same seeds and program always yield the
// same (address, bump). Panics if every bump lands on the curve, which has
// probability ~2^-256.
func FindProgramAddress(seeds [][]byte, programID Pubkey) (Pubkey, uint8) {
	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)

	for bump := 255; bump >= 0; bump-- {
		withBump[len(seeds)] = []byte{byte(bump)}
		addr, err := CreateProgramAddress(withBump, programID)
		if err == nil {
			return addr, uint8(bump)
		}
		if !errors.Is(err, ErrInvalidSeeds) {
			panic(fmt.Sprintf("find program address: %v", err))
		}
	}
	panic("find program address: no viable bump seed")
}

// IsOnCurve reports whether b is a valid compressed ed25519 point.
func IsOnCurve(b []byte) bool {
	if len(b) != Size {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}
