package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anticafe-backend/internal/clock"
	"anticafe-backend/internal/model"
	"anticafe-backend/internal/roster"
	"anticafe-backend/internal/store"
)

var testStart = time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, ledger store.Ledger) (*Service, *clock.Mock) {
	t.Helper()
	r, err := roster.New(10)
	require.NoError(t, err)
	clk := clock.NewMock(testStart)
	svc, err := NewService(Options{
		Roster:         r,
		Ledger:         ledger,
		PricePerMinute: decimal.NewFromInt(2),
		Clock:          clk,
	})
	require.NoError(t, err)
	return svc, clk
}

func history(t *testing.T, svc *Service) []model.VisitRecord {
	t.Helper()
	records, err := svc.History(context.Background())
	require.NoError(t, err)
	return records
}

func TestService_InvalidTableNumbers(t *testing.T) {
	svc, _ := newTestService(t, store.NewMemoryLedger())
	ctx := context.Background()

	for _, n := range []int{0, -1, 11, 100} {
		ok, err := svc.OccupyTable(n)
		assert.False(t, ok)
		assert.ErrorIs(t, err, ErrInvalidTableNumber)

		cost, err := svc.ReleaseTable(ctx, n)
		assert.ErrorIs(t, err, ErrInvalidTableNumber)
		assert.True(t, cost.IsZero())

		_, err = svc.Table(n)
		assert.ErrorIs(t, err, ErrInvalidTableNumber)
	}

	assert.Empty(t, svc.OccupiedTables())
	assert.Empty(t, history(t, svc))
}

func TestService_OccupyTable(t *testing.T) {
	svc, clk := newTestService(t, store.NewMemoryLedger())

	ok, err := svc.OccupyTable(5)
	require.NoError(t, err)
	assert.True(t, ok)

	table, err := svc.Table(5)
	require.NoError(t, err)
	start, occupied := table.StartTime()
	assert.True(t, occupied)
	assert.Equal(t, testStart, start)

	clk.Advance(3 * time.Minute)
	ok, err = svc.OccupyTable(5)
	require.NoError(t, err)
	assert.False(t, ok, "occupying an occupied table is a no-op")
	start, _ = table.StartTime()
	assert.Equal(t, testStart, start, "start time must not move")
}

func TestService_ReleaseTable(t *testing.T) {
	testCases := []struct {
		name            string
		elapsed         time.Duration
		expectedMinutes int64
		expectedCost    string
	}{
		{name: "Immediate release bills one minute", elapsed: 0, expectedMinutes: 1, expectedCost: "2"},
		{name: "Under a minute", elapsed: 59 * time.Second, expectedMinutes: 1, expectedCost: "2"},
		{name: "Ninety seconds floors to one", elapsed: 90 * time.Second, expectedMinutes: 1, expectedCost: "2"},
		{name: "125 seconds", elapsed: 125 * time.Second, expectedMinutes: 2, expectedCost: "4"},
		{name: "One hour", elapsed: time.Hour, expectedMinutes: 60, expectedCost: "120"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc, clk := newTestService(t, store.NewMemoryLedger())
			ctx := context.Background()

			_, err := svc.OccupyTable(3)
			require.NoError(t, err)
			clk.Advance(tc.elapsed)

			cost, err := svc.ReleaseTable(ctx, 3)
			require.NoError(t, err)
			assert.Equal(t, tc.expectedCost, cost.String())

			records := history(t, svc)
			require.Len(t, records, 1)
			rec := records[0]
			assert.Equal(t, 3, rec.TableNumber)
			assert.Equal(t, tc.expectedMinutes, rec.DurationMinutes)
			assert.True(t, rec.TotalCost.Equal(cost))
			assert.Equal(t, testStart, rec.StartTime)
			assert.Equal(t, testStart.Add(tc.elapsed), rec.EndTime)

			table, err := svc.Table(3)
			require.NoError(t, err)
			assert.False(t, table.IsOccupied())
		})
	}
}

func TestService_ReleaseTwiceIsNoOp(t *testing.T) {
	svc, clk := newTestService(t, store.NewMemoryLedger())
	ctx := context.Background()

	_, err := svc.OccupyTable(7)
	require.NoError(t, err)
	clk.Advance(5 * time.Minute)

	first, err := svc.ReleaseTable(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "10", first.String())

	second, err := svc.ReleaseTable(ctx, 7)
	require.NoError(t, err)
	assert.True(t, second.Equal(NotOccupied))
	assert.True(t, second.IsNegative())
	assert.Len(t, history(t, svc), 1)
}

type failingLedger struct {
	store.Ledger
}

func (failingLedger) Append(context.Context, model.VisitRecord) error {
	return errors.New("ledger unavailable")
}

func TestService_ReleaseKeepsTableWhenLedgerFails(t *testing.T) {
	svc, _ := newTestService(t, failingLedger{Ledger: store.NewMemoryLedger()})

	_, err := svc.OccupyTable(2)
	require.NoError(t, err)

	_, err = svc.ReleaseTable(context.Background(), 2)
	assert.ErrorContains(t, err, "ledger unavailable")

	table, err := svc.Table(2)
	require.NoError(t, err)
	assert.True(t, table.IsOccupied())
}

func TestService_Price(t *testing.T) {
	svc, clk := newTestService(t, store.NewMemoryLedger())
	ctx := context.Background()

	for _, m := range []int64{0, 1, 7, 90} {
		assert.True(t, svc.CalculateCost(m).Equal(decimal.NewFromInt(2*m)))
	}

	_, err := svc.OccupyTable(1)
	require.NoError(t, err)
	clk.Advance(2 * time.Minute)
	_, err = svc.ReleaseTable(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, svc.SetPricePerMinute(decimal.RequireFromString("3.5")))
	assert.Equal(t, "10.5", svc.CalculateCost(3).String())
	assert.True(t, history(t, svc)[0].TotalCost.Equal(decimal.NewFromInt(4)), "archived cost is not repriced")

	err = svc.SetPricePerMinute(decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, ErrNegativePrice)
	assert.Equal(t, "3.5", svc.PricePerMinute().String())

	require.NoError(t, svc.SetPricePerMinute(decimal.Zero))
	assert.True(t, svc.CalculateCost(15).IsZero())
}

func TestService_BilledMinutes(t *testing.T) {
	svc, clk := newTestService(t, store.NewMemoryLedger())

	table, err := svc.Table(4)
	require.NoError(t, err)
	assert.Equal(t, int64(0), svc.BilledMinutes(table))

	_, err = svc.OccupyTable(4)
	require.NoError(t, err)
	assert.Equal(t, int64(1), svc.BilledMinutes(table))

	clk.Advance(4*time.Minute + 30*time.Second)
	assert.Equal(t, int64(4), svc.BilledMinutes(table))
}

func TestNewService_Validation(t *testing.T) {
	r, err := roster.New(1)
	require.NoError(t, err)

	_, err = NewService(Options{Roster: r, Ledger: store.NewMemoryLedger(), PricePerMinute: decimal.NewFromInt(-2)})
	assert.ErrorIs(t, err, ErrNegativePrice)

	_, err = NewService(Options{Ledger: store.NewMemoryLedger()})
	assert.Error(t, err)

	_, err = NewService(Options{Roster: r})
	assert.Error(t, err)

	svc, err := NewService(Options{Roster: r, Ledger: store.NewMemoryLedger()})
	require.NoError(t, err)
	assert.IsType(t, clock.System{}, svc.Clock())
	assert.Equal(t, 1, svc.TotalTables())
}
