package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"anticafe-backend/internal/clock"
	"anticafe-backend/internal/model"
	"anticafe-backend/internal/roster"
	"anticafe-backend/internal/store"
)

// Options wires a Service.
type Options struct {
	Roster         *roster.Roster
	Ledger         store.Ledger
	PricePerMinute decimal.Decimal
	Clock          clock.Clock
	Logger         *zap.Logger
}

// Service seats and releases guests and bills them by the minute.
// It owns the current price; callers are expected to use it from a single goroutine.
type Service struct {
	roster *roster.Roster
	ledger store.Ledger
	price  decimal.Decimal
	clock  clock.Clock
	log    *zap.Logger
}

// NewService validates the options and creates a Service.
func NewService(opts Options) (*Service, error) {
	if opts.Roster == nil {
		return nil, errors.New("billing: roster is required")
	}
	if opts.Ledger == nil {
		return nil, errors.New("billing: ledger is required")
	}
	if opts.PricePerMinute.IsNegative() {
		return nil, fmt.Errorf("billing: %w: %s", ErrNegativePrice, opts.PricePerMinute)
	}
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	s := &Service{
		roster: opts.Roster,
		ledger: opts.Ledger,
		price:  opts.PricePerMinute,
		clock:  opts.Clock,
		log:    opts.Logger.Named("billing"),
	}
	s.log.Info("venue initialized",
		zap.Int("tables", s.roster.Len()),
		zap.Stringer("price_per_minute", s.price))
	return s, nil
}

// OccupyTable seats guests at table n. It returns false without changing anything
// when the table is already occupied.
func (s *Service) OccupyTable(n int) (bool, error) {
	table, err := s.table(n)
	if err != nil {
		return false, err
	}

	if !table.Occupy(s.clock.Now()) {
		s.log.Warn("table already occupied", zap.Int("table", n))
		return false, nil
	}
	s.log.Info("table occupied", zap.Int("table", n))
	return true, nil
}

// ReleaseTable frees table n, archives the visit and returns its cost.
// For a table that is already free it returns NotOccupied and records nothing.
func (s *Service) ReleaseTable(ctx context.Context, n int) (decimal.Decimal, error) {
	table, err := s.table(n)
	if err != nil {
		return decimal.Zero, err
	}

	start, occupied := table.StartTime()
	if !occupied {
		s.log.Warn("table already free", zap.Int("table", n))
		return NotOccupied, nil
	}

	now := s.clock.Now()
	minutes := billedMinutes(table.OccupiedMinutes(now))
	cost := s.CalculateCost(minutes)

	record := model.NewVisitRecord(n, start, now, minutes, cost)
	if err := s.ledger.Append(ctx, record); err != nil {
		// The table stays occupied so the visit can be released again.
		return decimal.Zero, fmt.Errorf("failed to release table %d: %w", n, err)
	}
	table.Release()

	s.log.Info("table released",
		zap.Int("table", n),
		zap.Int64("minutes", minutes),
		zap.Stringer("cost", cost))
	return cost, nil
}

// CalculateCost prices the given number of minutes at the current rate.
func (s *Service) CalculateCost(minutes int64) decimal.Decimal {
	return decimal.NewFromInt(minutes).Mul(s.price)
}

// BilledMinutes is what an occupied table would be charged for if released now.
// Every visit pays for at least one minute. Free tables bill zero.
func (s *Service) BilledMinutes(t *model.Table) int64 {
	if !t.IsOccupied() {
		return 0
	}
	return billedMinutes(t.OccupiedMinutes(s.clock.Now()))
}

// PricePerMinute returns the current rate.
func (s *Service) PricePerMinute() decimal.Decimal { return s.price }

// SetPricePerMinute changes the rate for all later cost calculations.
// Visits already in the ledger keep their cost.
func (s *Service) SetPricePerMinute(p decimal.Decimal) error {
	if p.IsNegative() {
		s.log.Error("rejected negative price", zap.Stringer("price", p))
		return fmt.Errorf("%w: %s", ErrNegativePrice, p)
	}
	s.price = p
	s.log.Info("price per minute changed", zap.Stringer("price", p))
	return nil
}

// Table returns table n.
func (s *Service) Table(n int) (*model.Table, error) {
	return s.table(n)
}

// Tables returns all tables ordered by number.
func (s *Service) Tables() []*model.Table { return s.roster.All() }

// FreeTables returns the numbers of free tables.
func (s *Service) FreeTables() []int { return s.roster.Free() }

// OccupiedTables returns the numbers of occupied tables.
func (s *Service) OccupiedTables() []int { return s.roster.Occupied() }

// TotalTables returns the size of the roster.
func (s *Service) TotalTables() int { return s.roster.Len() }

// History returns every completed visit in release order.
func (s *Service) History(ctx context.Context) ([]model.VisitRecord, error) {
	return s.ledger.Records(ctx)
}

// Clock returns the time source used for occupancy.
func (s *Service) Clock() clock.Clock { return s.clock }

func (s *Service) table(n int) (*model.Table, error) {
	table, err := s.roster.Get(n)
	if err != nil {
		s.log.Error("invalid table number", zap.Int("table", n), zap.Int("tables", s.roster.Len()))
		return nil, err
	}
	return table, nil
}

func billedMinutes(elapsed int64) int64 {
	if elapsed < 1 {
		return 1
	}
	return elapsed
}
