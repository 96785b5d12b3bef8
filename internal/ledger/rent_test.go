package ledger

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRent_MinimumBalance(t *testing.T) {
	r := DefaultRent()
	assert.Equal(t, uint64(890880), r.MinimumBalance(0))
	assert.Equal(t, uint64(946560), r.MinimumBalance(8))
	assert.Equal(t, uint64(1169280), r.MinimumBalance(40))
}

func TestRent_MinimumBalanceSaturates(t *testing.T) {
	tests := []struct {
		name string
		rent Rent
	}{
		{"product overflows", Rent{LamportsPerByteYear: math.MaxUint64 / 2, ExemptionThreshold: 1, AccountStorageOverhead: 128}},
		{"threshold overflows", Rent{LamportsPerByteYear: 1 << 60, ExemptionThreshold: 1000, AccountStorageOverhead: 1}},
		{"overhead overflows", Rent{LamportsPerByteYear: 1, ExemptionThreshold: 1, AccountStorageOverhead: math.MaxUint64}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, uint64(math.MaxUint64), tt.rent.MinimumBalance(8))
			assert.False(t, tt.rent.IsExempt(math.MaxUint64-1, 8))
		})
	}
}

func TestRent_MinimumBalanceTruncates(t *testing.T) {
	r := Rent{LamportsPerByteYear: 1, ExemptionThreshold: 1.5, AccountStorageOverhead: 0}
	assert.Equal(t, uint64(4), r.MinimumBalance(3))
}

func TestRent_IsExempt(t *testing.T) {
	r := DefaultRent()
	assert.True(t, r.IsExempt(946560, 8))
	assert.False(t, r.IsExempt(946559, 8))
}

func TestAccount_IsEmpty(t *testing.T) {
	assert.True(t, Account{}.IsEmpty())
	assert.False(t, Account{Lamports: 1}.IsEmpty())
	assert.False(t, Account{Data: []byte{0}}.IsEmpty())
}

func TestTransactionAccounts_WritableWins(t *testing.T) {
	a, b := [32]byte{1}, [32]byte{2}
	m := &Message{
		FeePayer: a,
		Instructions: []Instruction{
			{Accounts: []AccountMeta{NewReadonlyAccountMeta(b, false)}},
			{Accounts: []AccountMeta{NewAccountMeta(b, false)}},
		},
	}
	got := transactionAccounts(m)
	assert.True(t, got[a])
	assert.True(t, got[b])
}
