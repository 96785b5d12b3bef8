package ledger

import "sync/atomic"

// SlotClock is the monotonic slot counter of a Bank.
//
// Every processed transaction advances the slot by one, so stored account
// versions and transaction records are ordered without wall-clock time.
//
// Thread-safety: SlotClock is safe for concurrent use (atomic operations).
type SlotClock struct {
	slot atomic.Uint64
}

// NewSlotClockAt creates a clock whose next slot is start+1.
// Used to resume from the last committed slot of a durable store.
func NewSlotClockAt(start uint64) *SlotClock {
	c := &SlotClock{}
	c.slot.Store(start)
	return c
}

// Next advances and returns the new slot.
func (c *SlotClock) Next() uint64 {
	return c.slot.Add(1)
}

// Current returns the last issued slot without advancing.
func (c *SlotClock) Current() uint64 {
	return c.slot.Load()
}

// AdvanceTo moves the clock forward so the next slot is at least slot+1.
// It never moves the clock backwards.
func (c *SlotClock) AdvanceTo(slot uint64) {
	for {
		cur := c.slot.Load()
		if cur >= slot || c.slot.CompareAndSwap(cur, slot) {
			return
		}
	}
}
