package ledger

import (
	"math"
	"math/bits"
)

// Rent holds the parameters for rent-exempt minimum balances.
type Rent struct {
	LamportsPerByteYear    uint64  `yaml:"lamports_per_byte_year" json:"lamports_per_byte_year" env:"LAMPORTS_PER_BYTE_YEAR"`
	ExemptionThreshold     float64 `yaml:"exemption_threshold" json:"exemption_threshold" env:"EXEMPTION_THRESHOLD"`
	AccountStorageOverhead uint64  `yaml:"account_storage_overhead" json:"account_storage_overhead" env:"ACCOUNT_STORAGE_OVERHEAD"`
}

// DefaultRent returns the mainnet rent parameters.
func DefaultRent() Rent {
	return Rent{
		LamportsPerByteYear:    3480,
		ExemptionThreshold:     2.0,
		AccountStorageOverhead: 128,
	}
}

// MinimumBalance returns the lamports an account with dataLen bytes must
// hold to be exempt from rent. Fractions of a lamport are truncated; results
// beyond the u64 range saturate at math.MaxUint64, which no account can hold.
func (r Rent) MinimumBalance(dataLen int) uint64 {
	bytes, carry := bits.Add64(r.AccountStorageOverhead, uint64(dataLen), 0)
	hi, perYear := bits.Mul64(bytes, r.LamportsPerByteYear)
	if carry != 0 || hi != 0 {
		return math.MaxUint64
	}

	balance := float64(perYear) * r.ExemptionThreshold
	switch {
	case balance >= 0x1p64:
		return math.MaxUint64
	case balance <= 0:
		return 0
	}
	return uint64(balance)
}

// IsExempt reports whether lamports covers the minimum balance for dataLen.
func (r Rent) IsExempt(lamports uint64, dataLen int) bool {
	return lamports >= r.MinimumBalance(dataLen)
}
