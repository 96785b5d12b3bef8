package pubkey

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testProgramID = "6o2E5vCAzGhKh3Dq6eqy5Cqxy4Eo4nPjjGHw8tou1M82"

func TestParsePubkey_RoundTrip(t *testing.T) {
	pk, err := ParsePubkey(testProgramID)
	require.NoError(t, err)
	assert.Equal(t, testProgramID, pk.String())
}

func TestParsePubkey_Invalid(t *testing.T) {
	_, err := ParsePubkey("0OIl") // not base58
	assert.Error(t, err)

	_, err = ParsePubkey("1111") // decodes to 4 bytes
	assert.Error(t, err)
}

func TestSystemProgramID(t *testing.T) {
	assert.Equal(t, "11111111111111111111111111111111", SystemProgramID.String())
	assert.True(t, SystemProgramID.IsZero())
}

func TestPubkey_TextMarshaling(t *testing.T) {
	pk := MustParsePubkey(testProgramID)

	data, err := json.Marshal(map[string]Pubkey{"id": pk})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"`+testProgramID+`"}`, string(data))

	var out map[string]Pubkey
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, pk, out["id"])
}

func TestPubkey_Compare(t *testing.T) {
	a := Pubkey{1}
	b := Pubkey{2}
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(a))
}

func TestKeypair_SignVerify(t *testing.T) {
	kp, err := KeypairFromSeed(bytes.Repeat([]byte{7}, 32))
	require.NoError(t, err)

	msg := []byte("hello ledger")
	sig := kp.Sign(msg)
	assert.True(t, Verify(kp.Public, msg, sig))
	assert.False(t, Verify(kp.Public, []byte("tampered"), sig))
	assert.False(t, Verify(kp.Public, msg, sig[:10]))
}

func TestKeypairFromSeed_Deterministic(t *testing.T) {
	seed := bytes.Repeat([]byte{3}, 32)
	a, err := KeypairFromSeed(seed)
	require.NoError(t, err)
	b, err := KeypairFromSeed(seed)
	require.NoError(t, err)
	assert.Equal(t, a.Public, b.Public)

	_, err = KeypairFromSeed([]byte{1, 2, 3})
	assert.Error(t, err)
}
