package program

import (
	"github.com/roach88/clockstate/internal/ledger"
	"github.com/roach88/clockstate/internal/pubkey"
)

// Seed is the fixed label the storage address is derived from.
const Seed = "clock"

// AuthorityProof is the derived storage address together with the bump seed
// that lets the program sign for it. It is recomputed per call and never
// stored.
type AuthorityProof struct {
	Address pubkey.Pubkey
	Bump    uint8
}

// DeriveStorageAddress computes the storage address for programID.
// Pure and deterministic.
func DeriveStorageAddress(programID pubkey.Pubkey) AuthorityProof {
	addr, bump := pubkey.FindProgramAddress([][]byte{[]byte(Seed)}, programID)
	return AuthorityProof{Address: addr, Bump: bump}
}

// SignerSeeds returns the seeds the host checks when the program signs for
// Address.
func (p AuthorityProof) SignerSeeds() ledger.SignerSeeds {
	return ledger.SignerSeeds{[]byte(Seed), {p.Bump}}
}
