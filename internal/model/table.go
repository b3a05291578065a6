package model

import "time"

// TableState defines the recognized occupancy states of a table.
type TableState string

const (
	TableStateFree     TableState = "free"
	TableStateOccupied TableState = "occupied"
)

// Table tracks the occupancy of one billable table.
// The start time is set if and only if the table is occupied.
type Table struct {
	number    int
	occupied  bool
	startTime time.Time
}

// NewTable creates a free table with the given number.
func NewTable(number int) *Table {
	return &Table{number: number}
}

// Number returns the table's immutable number.
func (t *Table) Number() int { return t.number }

// IsOccupied reports whether guests are seated at the table.
func (t *Table) IsOccupied() bool { return t.occupied }

// State returns the current occupancy state.
func (t *Table) State() TableState {
	if t.occupied {
		return TableStateOccupied
	}
	return TableStateFree
}

// StartTime returns the moment the table was occupied. ok is false for a free table.
func (t *Table) StartTime() (start time.Time, ok bool) {
	return t.startTime, t.occupied
}

// Occupy seats guests at now. It returns false and changes nothing if the table is already occupied.
func (t *Table) Occupy(now time.Time) bool {
	if t.occupied {
		return false
	}
	t.occupied = true
	t.startTime = now
	return true
}

// Release frees the table. It returns false if the table was already free.
func (t *Table) Release() bool {
	if !t.occupied {
		return false
	}
	t.occupied = false
	t.startTime = time.Time{}
	return true
}

// Elapsed returns how long the table has been occupied as of now, or zero when free.
func (t *Table) Elapsed(now time.Time) time.Duration {
	if !t.occupied {
		return 0
	}
	d := now.Sub(t.startTime)
	if d < 0 {
		return 0
	}
	return d
}

// OccupiedMinutes returns the whole minutes elapsed since occupation, truncated.
func (t *Table) OccupiedMinutes(now time.Time) int64 {
	return int64(t.Elapsed(now) / time.Minute)
}

// OccupiedSeconds returns the whole seconds elapsed since occupation, truncated.
func (t *Table) OccupiedSeconds(now time.Time) int64 {
	return int64(t.Elapsed(now) / time.Second)
}
