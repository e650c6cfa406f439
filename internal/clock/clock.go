// Package clock abstracts wall-clock time so that id generation and
// calendar export can be tested deterministically.
package clock

import (
	"sync"
	"time"
)

// Clock provides an abstraction for time operations.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system time.
type RealClock struct{}

// Now returns the current system time.
func (c *RealClock) Now() time.Time {
	return time.Now()
}

// FakeClock implements Clock with a settable time for testing.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
}

// NewFakeClock creates a new FakeClock with the given time.
func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{current: t}
}

// Now returns the fixed time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Set updates the fixed time.
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = t
}

// Advance moves the fixed time forward by the given duration.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}

// IDSource hands out time-derived performance ids: the current Unix time in
// milliseconds, bumped past the last id issued so that ids stay unique even
// when several are requested within the same millisecond.
type IDSource struct {
	mu    sync.Mutex
	clock Clock
	last  int64
}

// NewIDSource creates an IDSource reading time from clk.
func NewIDSource(clk Clock) *IDSource {
	return &IDSource{clock: clk}
}

// Next returns a fresh id, strictly greater than every id returned before.
func (s *IDSource) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.clock.Now().UnixMilli()
	if id <= s.last {
		id = s.last + 1
	}
	s.last = id
	return id
}

// NextN returns n fresh ids in ascending order.
func (s *IDSource) NextN(n int) []int64 {
	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, s.Next())
	}
	return ids
}
