package clock

import "time"

// Clock is the only source of wall-clock time for occupancy tracking.
type Clock interface {
	Now() time.Time
}

// System reads the real wall clock.
type System struct{}

// Now returns the current local time.
func (System) Now() time.Time { return time.Now() }

// Mock is a manually driven clock for tests and replays.
type Mock struct {
	now time.Time
}

// NewMock creates a clock frozen at start.
func NewMock(start time.Time) *Mock {
	return &Mock{now: start}
}

// Now returns the frozen time.
func (m *Mock) Now() time.Time { return m.now }

// Set moves the clock to t.
func (m *Mock) Set(t time.Time) { m.now = t }

// Advance moves the clock forward by d.
func (m *Mock) Advance(d time.Duration) { m.now = m.now.Add(d) }
