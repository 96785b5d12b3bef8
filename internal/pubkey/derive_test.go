package pubkey

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindProgramAddress_Deterministic(t *testing.T) {
	programID := MustParsePubkey(testProgramID)
	seeds := [][]byte{[]byte("clock")}

	addr1, bump1 := FindProgramAddress(seeds, programID)
	for i := 0; i < 5; i++ {
		addr, bump := FindProgramAddress(seeds, programID)
		assert.Equal(t, addr1, addr)
		assert.Equal(t, bump1, bump)
	}
}

func TestFindProgramAddress_MatchesCreateWithBump(t *testing.T) {
	programID := MustParsePubkey(testProgramID)

	addr, bump := FindProgramAddress([][]byte{[]byte("clock")}, programID)

	created, err := CreateProgramAddress([][]byte{[]byte("clock"), {bump}}, programID)
	require.NoError(t, err)
	assert.Equal(t, addr, created)
	assert.False(t, IsOnCurve(addr[:]), "derived address must be off curve")
}

func TestFindProgramAddress_DependsOnProgram(t *testing.T) {
	a, _ := FindProgramAddress([][]byte{[]byte("clock")}, MustParsePubkey(testProgramID))
	b, _ := FindProgramAddress([][]byte{[]byte("clock")}, Pubkey{9})
	assert.NotEqual(t, a, b)
}

func TestFindProgramAddress_DependsOnSeed(t *testing.T) {
	programID := MustParsePubkey(testProgramID)
	a, _ := FindProgramAddress([][]byte{[]byte("clock")}, programID)
	b, _ := FindProgramAddress([][]byte{[]byte("clocks")}, programID)
	assert.NotEqual(t, a, b)
}

func TestCreateProgramAddress_SeedTooLong(t *testing.T) {
	_, err := CreateProgramAddress([][]byte{bytes.Repeat([]byte{1}, MaxSeedLength+1)}, Pubkey{})
	assert.ErrorIs(t, err, ErrMaxSeedLength)
}

func TestCreateProgramAddress_TooManySeeds(t *testing.T) {
	seeds := make([][]byte, MaxSeeds+1)
	for i := range seeds {
		seeds[i] = []byte{byte(i)}
	}
	_, err := CreateProgramAddress(seeds, Pubkey{})
	assert.ErrorIs(t, err, ErrMaxSeeds)
}

func TestIsOnCurve_Ed25519PublicKey(t *testing.T) {
	kp, err := NewKeypair(rand.Reader)
	require.NoError(t, err)
	assert.True(t, IsOnCurve(kp.Public[:]))
}

func TestIsOnCurve_WrongLength(t *testing.T) {
	assert.False(t, IsOnCurve([]byte{1, 2, 3}))
}

func TestFindProgramAddress_KnownStorageAddress(t *testing.T) {
	addr, bump := FindProgramAddress([][]byte{[]byte("clock")}, MustParsePubkey("6o2E5vCAzGhKh3Dq6eqy5Cqxy4Eo4nPjjGHw8tou1M82"))
	assert.Equal(t, "2b2XYVzANY1kKMdbiQxRkXviAEpVsfJ1hzBnWAP79evp", addr.String())
	assert.Equal(t, uint8(255), bump)
}

func TestCreateProgramAddress_KnownVectors(t *testing.T) {
	programID := MustParsePubkey("BPFLoaderUpgradeab1e11111111111111111111111")
	tests := []struct {
		name  string
		seeds [][]byte
		want  string
	}{
		{"empty seed and one", [][]byte{{}, {1}}, "BwqrghZA2htAcqq8dzP1WDAhTXYTYWj7CHxF5j7TDBAe"},
		{"multibyte rune and zero", [][]byte{[]byte("☉"), {0}}, "13yWmRpaTR4r5nAktwLqMpRNr28tnVUZw26rTvPSSB19"},
		{"two words", [][]byte{[]byte("Talking"), []byte("Squirrels")}, "2fnQrngrQT4SeLcdToJAD96phoEjNL2man2kfRLCASVk"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, err := CreateProgramAddress(tt.seeds, programID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, addr.String())
		})
	}
}
