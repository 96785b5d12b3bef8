package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecentTransactions_RejectsDuplicate(t *testing.T) {
	r := newRecentTransactions()
	now := time.Unix(1_700_000_000, 0)

	assert.True(t, r.add("a", now, now))
	assert.False(t, r.add("a", now, now))
	assert.True(t, r.add("b", now, now))
}

func TestRecentTransactions_DropsExpiredIDs(t *testing.T) {
	r := newRecentTransactions()
	start := time.Unix(1_700_000_000, 0)

	for i, id := range []string{"a", "b", "c"} {
		require.True(t, r.add(id, start, start.Add(time.Duration(i)*time.Second)))
	}
	assert.Equal(t, 3, r.len())

	later := start.Add(MaxTransactionAge + time.Minute)
	require.True(t, r.add("d", later, later))
	assert.Equal(t, 1, r.len(), "IDs outside the window are swept")
}

func TestRecentTransactions_Forget(t *testing.T) {
	r := newRecentTransactions()
	now := time.Unix(1_700_000_000, 0)

	require.True(t, r.add("a", now, now))
	r.forget("a")
	assert.True(t, r.add("a", now, now))
}

func TestNonceTime(t *testing.T) {
	nonce := uuid.Must(uuid.NewV7())
	issued, ok := nonceTime(nonce)
	require.True(t, ok)
	assert.WithinDuration(t, time.Now(), issued, time.Minute)

	_, ok = nonceTime(uuid.New())
	assert.False(t, ok, "version 4 nonces carry no time")
}

func TestWithinWindow(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	assert.True(t, withinWindow(now, now))
	assert.True(t, withinWindow(now.Add(-MaxTransactionAge), now))
	assert.False(t, withinWindow(now.Add(-MaxTransactionAge-time.Millisecond), now))
	assert.False(t, withinWindow(now.Add(MaxTransactionAge+time.Millisecond), now))
}
