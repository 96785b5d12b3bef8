// Package pubkey provides ledger addresses and program-derived address
// computation.
//
// A Pubkey is a 32-byte ed25519 public key or program-derived address, printed
// in base58. Program-derived addresses are computed as
//
//	SHA256(seed_0 || ... || seed_n || program_id || "ProgramDerivedAddress")
//
// and are only valid when the hash does NOT decode to a point on the ed25519
// curve, so no private key can ever sign for them. The owning program proves
// authority by presenting the same seeds to the host instead of a signature.
package pubkey
