package stats

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"anticafe-backend/internal/billing"
	"anticafe-backend/internal/model"
)

// NoTable is returned by MostPopularTable and MostProfitableTable when there is no history.
const NoTable = -1

// Service computes current and archive statistics. Nothing is cached: every call
// reads the roster and the ledger again.
type Service struct {
	venue *billing.Service
	log   *zap.Logger
}

// NewService creates a statistics service over the given venue.
func NewService(venue *billing.Service, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{venue: venue, log: logger.Named("stats")}
}

// OccupiedTablesCount returns how many tables are occupied right now.
func (s *Service) OccupiedTablesCount() int {
	return len(s.venue.OccupiedTables())
}

// CurrentTotalCost is what all current guests would pay if they left now.
func (s *Service) CurrentTotalCost() decimal.Decimal {
	total := decimal.Zero
	for _, t := range s.venue.Tables() {
		if t.IsOccupied() {
			total = total.Add(s.venue.CalculateCost(s.venue.BilledMinutes(t)))
		}
	}
	s.log.Debug("current total cost", zap.Stringer("total", total))
	return total
}

// TotalEarnings sums the cost of every completed visit.
func (s *Service) TotalEarnings(ctx context.Context) (decimal.Decimal, error) {
	records, err := s.venue.History(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.TotalCost)
	}
	s.log.Debug("total earnings", zap.Stringer("total", total))
	return total, nil
}

// AverageOccupationTime returns the mean visit length in minutes, or 0 without history.
func (s *Service) AverageOccupationTime(ctx context.Context) (float64, error) {
	records, err := s.venue.History(ctx)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}
	var sum int64
	for _, r := range records {
		sum += r.DurationMinutes
	}
	avg := float64(sum) / float64(len(records))
	s.log.Debug("average occupation time", zap.Float64("minutes", avg))
	return avg, nil
}

// TableVisitCounts maps table number to the number of completed visits.
func (s *Service) TableVisitCounts(ctx context.Context) (map[int]int, error) {
	records, err := s.venue.History(ctx)
	if err != nil {
		return nil, err
	}
	return visitCounts(records), nil
}

// TableEarnings maps table number to the summed cost of its visits.
func (s *Service) TableEarnings(ctx context.Context) (map[int]decimal.Decimal, error) {
	records, err := s.venue.History(ctx)
	if err != nil {
		return nil, err
	}
	return earnings(records), nil
}

// TableVisitCount returns the visits of table n, 0 if it has none.
func (s *Service) TableVisitCount(ctx context.Context, n int) (int, error) {
	counts, err := s.TableVisitCounts(ctx)
	if err != nil {
		return 0, err
	}
	return counts[n], nil
}

// TableTotalEarnings returns the earnings of table n, 0 if it has none.
func (s *Service) TableTotalEarnings(ctx context.Context, n int) (decimal.Decimal, error) {
	e, err := s.TableEarnings(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return e[n], nil
}

// MostPopularTable returns the table with the most visits. Ties go to the lowest
// table number. NoTable is returned when the ledger is empty.
func (s *Service) MostPopularTable(ctx context.Context) (int, error) {
	counts, err := s.TableVisitCounts(ctx)
	if err != nil {
		return NoTable, err
	}
	best, bestCount := NoTable, 0
	for _, n := range sortedKeys(counts) {
		if counts[n] > bestCount {
			best, bestCount = n, counts[n]
		}
	}
	s.log.Debug("most popular table", zap.Int("table", best))
	return best, nil
}

// MostProfitableTable returns the table with the highest earnings. Ties go to the
// lowest table number. NoTable is returned when the ledger is empty.
func (s *Service) MostProfitableTable(ctx context.Context) (int, error) {
	e, err := s.TableEarnings(ctx)
	if err != nil {
		return NoTable, err
	}
	best := NoTable
	var bestEarned decimal.Decimal
	for _, n := range sortedKeys(e) {
		if best == NoTable || e[n].GreaterThan(bestEarned) {
			best, bestEarned = n, e[n]
		}
	}
	s.log.Debug("most profitable table", zap.Int("table", best))
	return best, nil
}

// RecentVisits returns up to limit of the latest visits, oldest first.
func (s *Service) RecentVisits(ctx context.Context, limit int) ([]model.VisitRecord, error) {
	records, err := s.venue.History(ctx)
	if err != nil {
		return nil, err
	}
	if limit < 0 {
		limit = 0
	}
	if len(records) > limit {
		records = records[len(records)-limit:]
	}
	return records, nil
}

func visitCounts(records []model.VisitRecord) map[int]int {
	counts := make(map[int]int)
	for _, r := range records {
		counts[r.TableNumber]++
	}
	return counts
}

func earnings(records []model.VisitRecord) map[int]decimal.Decimal {
	e := make(map[int]decimal.Decimal)
	for _, r := range records {
		e[r.TableNumber] = e[r.TableNumber].Add(r.TotalCost)
	}
	return e
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
