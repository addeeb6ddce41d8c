package state

import "sync/atomic"

// Sequencer hands out snapshot sequence numbers.
type Sequencer interface {
	Next() int64
	Current() int64
}

// Clock is a monotonic logical clock. Every accepted dispatch stamps the new
// snapshot with the next value, so subscribers can tell snapshots apart and
// detect ones they have already rendered.
//
// Thread-safety: Clock is safe for concurrent use.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock whose next value is start+1.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
