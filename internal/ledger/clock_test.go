package ledger

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/clockstate/internal/pubkey"
)

func TestSlotClock_NewSlotClockAt(t *testing.T) {
	c := NewSlotClockAt(100)
	assert.Equal(t, uint64(100), c.Current(), "clock should start at specified value")
	assert.Equal(t, uint64(101), c.Next(), "next slot follows the start")
}

func TestSlotClock_Next_Incrementing(t *testing.T) {
	c := NewSlotClockAt(0)

	assert.Equal(t, uint64(1), c.Next())
	assert.Equal(t, uint64(2), c.Next())
	assert.Equal(t, uint64(3), c.Next())
	assert.Equal(t, uint64(3), c.Current())
}

func TestSlotClock_ThreadSafe(t *testing.T) {
	c := NewSlotClockAt(0)
	const goroutines = 50
	const callsPerGoroutine = 100

	var wg sync.WaitGroup
	slots := make(chan uint64, goroutines*callsPerGoroutine)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < callsPerGoroutine; j++ {
				slots <- c.Next()
			}
		}()
	}

	wg.Wait()
	close(slots)

	seen := make(map[uint64]bool)
	for slot := range slots {
		assert.False(t, seen[slot], "slot %d issued twice", slot)
		seen[slot] = true
	}
	assert.Len(t, seen, goroutines*callsPerGoroutine)
	assert.Equal(t, uint64(goroutines*callsPerGoroutine), c.Current())
}

func TestAccountLocks_WritersExclusive(t *testing.T) {
	locks := newAccountLocks()
	a, b := pubkey.Pubkey{1}, pubkey.Pubkey{2}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := locks.acquire(map[pubkey.Pubkey]bool{a: true, b: true})
			defer release()

			mu.Lock()
			inside++
			maxSeen = max(maxSeen, inside)
			mu.Unlock()

			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxSeen, "writers of the same accounts never overlap")
}

func TestAccountLocks_ReadersShare(t *testing.T) {
	locks := newAccountLocks()
	key := pubkey.Pubkey{7}

	first := locks.acquire(map[pubkey.Pubkey]bool{key: false})
	done := make(chan struct{})
	go func() {
		second := locks.acquire(map[pubkey.Pubkey]bool{key: false})
		second()
		close(done)
	}()
	<-done
	first()
}

func TestSlotClock_AdvanceTo(t *testing.T) {
	c := NewSlotClockAt(5)

	c.AdvanceTo(9)
	assert.Equal(t, uint64(9), c.Current())
	assert.Equal(t, uint64(10), c.Next())

	c.AdvanceTo(3)
	assert.Equal(t, uint64(10), c.Current(), "AdvanceTo never moves backwards")
}
