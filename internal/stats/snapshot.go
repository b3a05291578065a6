package stats

import (
	"context"

	"github.com/shopspring/decimal"

	"anticafe-backend/internal/model"
)

// RecentVisitsShown is how many visits the archive snapshot lists.
const RecentVisitsShown = 5

// TableStatus describes one table as of now.
type TableStatus struct {
	Number        int
	Occupied      bool
	BilledMinutes int64 // at least 1 for an occupied table
	Seconds       int64 // seconds past the last whole elapsed minute
	Cost          decimal.Decimal
}

// Current is the live view of the venue.
type Current struct {
	PricePerMinute decimal.Decimal
	OccupiedCount  int
	TotalTables    int
	Occupied       []TableStatus
	ProjectedTotal decimal.Decimal
}

// Archive summarizes the visit history.
type Archive struct {
	TotalEarnings       decimal.Decimal
	AverageMinutes      float64
	MostPopularTable    int
	MostPopularVisits   int
	MostProfitableTable int
	MostProfitableTotal decimal.Decimal
	TotalVisits         int
	Recent              []model.VisitRecord
}

// Statuses returns the status of every table ordered by number.
func (s *Service) Statuses() []TableStatus {
	now := s.venue.Clock().Now()
	tables := s.venue.Tables()
	out := make([]TableStatus, 0, len(tables))
	for _, t := range tables {
		st := TableStatus{Number: t.Number(), Occupied: t.IsOccupied()}
		if st.Occupied {
			st.BilledMinutes = s.venue.BilledMinutes(t)
			st.Seconds = t.OccupiedSeconds(now) % 60
			st.Cost = s.venue.CalculateCost(st.BilledMinutes)
		}
		out = append(out, st)
	}
	return out
}

// Current builds the live snapshot.
func (s *Service) Current() Current {
	c := Current{
		PricePerMinute: s.venue.PricePerMinute(),
		OccupiedCount:  s.OccupiedTablesCount(),
		TotalTables:    s.venue.TotalTables(),
		ProjectedTotal: s.CurrentTotalCost(),
	}
	for _, st := range s.Statuses() {
		if st.Occupied {
			c.Occupied = append(c.Occupied, st)
		}
	}
	return c
}

// Archive builds the history snapshot.
func (s *Service) Archive(ctx context.Context) (Archive, error) {
	var a Archive
	var err error

	if a.TotalEarnings, err = s.TotalEarnings(ctx); err != nil {
		return Archive{}, err
	}
	if a.AverageMinutes, err = s.AverageOccupationTime(ctx); err != nil {
		return Archive{}, err
	}
	if a.MostPopularTable, err = s.MostPopularTable(ctx); err != nil {
		return Archive{}, err
	}
	if a.MostPopularTable != NoTable {
		if a.MostPopularVisits, err = s.TableVisitCount(ctx, a.MostPopularTable); err != nil {
			return Archive{}, err
		}
	}
	if a.MostProfitableTable, err = s.MostProfitableTable(ctx); err != nil {
		return Archive{}, err
	}
	if a.MostProfitableTable != NoTable {
		if a.MostProfitableTotal, err = s.TableTotalEarnings(ctx, a.MostProfitableTable); err != nil {
			return Archive{}, err
		}
	}

	history, err := s.venue.History(ctx)
	if err != nil {
		return Archive{}, err
	}
	a.TotalVisits = len(history)
	if a.Recent, err = s.RecentVisits(ctx, RecentVisitsShown); err != nil {
		return Archive{}, err
	}
	return a, nil
}
