package roster

import (
	"errors"
	"fmt"

	"anticafe-backend/internal/model"
)

// ErrInvalidTableNumber is returned for a table number outside [1, N].
var ErrInvalidTableNumber = errors.New("invalid table number")

// Roster is the fixed, ordered set of tables in the venue, indexed by number.
type Roster struct {
	tables []*model.Table
}

// New creates count free tables numbered 1..count.
func New(count int) (*Roster, error) {
	if count < 1 {
		return nil, fmt.Errorf("roster needs at least one table, got %d", count)
	}
	tables := make([]*model.Table, count)
	for i := range tables {
		tables[i] = model.NewTable(i + 1)
	}
	return &Roster{tables: tables}, nil
}

// Len returns the number of tables.
func (r *Roster) Len() int { return len(r.tables) }

// Validate checks that n names a table in the roster.
func (r *Roster) Validate(n int) error {
	if n < 1 || n > len(r.tables) {
		return fmt.Errorf("%w: table number must be between 1 and %d, got %d", ErrInvalidTableNumber, len(r.tables), n)
	}
	return nil
}

// Get returns table n.
func (r *Roster) Get(n int) (*model.Table, error) {
	if err := r.Validate(n); err != nil {
		return nil, err
	}
	return r.tables[n-1], nil
}

// All returns the tables ordered by number.
func (r *Roster) All() []*model.Table {
	out := make([]*model.Table, len(r.tables))
	copy(out, r.tables)
	return out
}

// Free returns the numbers of free tables in ascending order.
func (r *Roster) Free() []int {
	return r.numbers(func(t *model.Table) bool { return !t.IsOccupied() })
}

// Occupied returns the numbers of occupied tables in ascending order.
func (r *Roster) Occupied() []int {
	return r.numbers((*model.Table).IsOccupied)
}

func (r *Roster) numbers(keep func(*model.Table) bool) []int {
	var out []int
	for _, t := range r.tables {
		if keep(t) {
			out = append(out, t.Number())
		}
	}
	return out
}
