// Package testutil holds deterministic clocks and fixtures shared by tests
// and the scenario harness.
package testutil

import (
	"sync"
	"time"
)

// DeterministicClock is a resettable sequence source for snapshot stamping.
// It satisfies state.Sequencer, so the same scenario run twice produces the
// same Seq values.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type DeterministicClock struct {
	mu  sync.Mutex
	seq int64
}

// NewDeterministicClock creates a clock whose first Next() returns 1.
func NewDeterministicClock() *DeterministicClock {
	return &DeterministicClock{}
}

// Next increments and returns the sequence number.
func (c *DeterministicClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

// Current returns the sequence number without incrementing.
func (c *DeterministicClock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Reset rewinds the clock to 0.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq = 0
}

// Epoch is the wall-clock instant fixtures and scenarios treat as "now"
// unless told otherwise.
var Epoch = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

// ManualTime is a wall clock that only moves when told to.
type ManualTime struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualTime creates a clock reading t.
func NewManualTime(t time.Time) *ManualTime {
	return &ManualTime{now: t}
}

// Now returns the current reading.
func (m *ManualTime) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward by d.
func (m *ManualTime) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}
