package internal

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"anticafe-backend/config"
	"anticafe-backend/internal/billing"
	"anticafe-backend/internal/clock"
	"anticafe-backend/internal/db"
	"anticafe-backend/internal/model"
	"anticafe-backend/internal/roster"
	"anticafe-backend/internal/stats"
	"anticafe-backend/internal/store"
)

// TestVisitLifecycle runs visits through the sqlite ledger the way the console does
// and checks the database and the statistics at each step.
func TestVisitLifecycle(t *testing.T) {
	// --- Test Setup ---

	// 1. In-memory sqlite ledger, same path as production startup.
	testDB, err := db.Init(&config.LedgerConfig{DSN: "file::memory:", LogLevel: "silent"}, zap.NewNop())
	require.NoError(t, err)
	sqlDB, _ := testDB.DB()
	defer sqlDB.Close()

	// 2. Venue with ten tables at 2 per minute and a manual clock.
	tables, err := roster.New(config.DefaultTableCount)
	require.NoError(t, err)
	clk := clock.NewMock(time.Date(2025, 3, 1, 18, 0, 0, 0, time.Local))
	venue, err := billing.NewService(billing.Options{
		Roster:         tables,
		Ledger:         store.NewGormLedger(testDB),
		PricePerMinute: decimal.NewFromFloat(config.DefaultPricePerMinute),
		Clock:          clk,
	})
	require.NoError(t, err)
	statistics := stats.NewService(venue, nil)
	ctx := context.Background()

	// --- Visit 1: 90 seconds bills one minute ---
	t.Run("Visit 1: short visit floors to one minute", func(t *testing.T) {
		ok, err := venue.OccupyTable(3)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 1, statistics.OccupiedTablesCount())

		clk.Advance(90 * time.Second)
		cost, err := venue.ReleaseTable(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, "2", cost.String())

		var rows []model.VisitRecord
		require.NoError(t, testDB.Find(&rows).Error)
		require.Len(t, rows, 1)
		assert.Equal(t, 3, rows[0].TableNumber)
		assert.Equal(t, int64(1), rows[0].DurationMinutes)
		assert.True(t, rows[0].TotalCost.Equal(decimal.NewFromInt(2)))
	})

	// --- Visit 2: 125 seconds bills two minutes ---
	t.Run("Visit 2: second visit on the same table", func(t *testing.T) {
		_, err := venue.OccupyTable(3)
		require.NoError(t, err)
		clk.Advance(125 * time.Second)
		cost, err := venue.ReleaseTable(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, "4", cost.String())

		again, err := venue.ReleaseTable(ctx, 3)
		require.NoError(t, err)
		assert.True(t, again.Equal(billing.NotOccupied))

		var count int64
		testDB.Model(&model.VisitRecord{}).Count(&count)
		assert.Equal(t, int64(2), count, "no-op release must not write a record")
	})

	// --- Price change does not reprice history ---
	t.Run("Price change keeps archived costs", func(t *testing.T) {
		require.NoError(t, venue.SetPricePerMinute(decimal.NewFromInt(5)))
		assert.ErrorIs(t, venue.SetPricePerMinute(decimal.NewFromInt(-1)), billing.ErrNegativePrice)

		archive, err := statistics.Archive(ctx)
		require.NoError(t, err)
		assert.Equal(t, "6", archive.TotalEarnings.String())
		assert.Equal(t, 1.5, archive.AverageMinutes)
		assert.Equal(t, 3, archive.MostPopularTable)
		assert.Equal(t, 2, archive.MostPopularVisits)
		assert.Equal(t, 3, archive.MostProfitableTable)
		assert.Equal(t, "6", archive.MostProfitableTotal.String())
		assert.Equal(t, 2, archive.TotalVisits)
		require.Len(t, archive.Recent, 2)
		assert.True(t, archive.Recent[0].EndTime.Before(archive.Recent[1].EndTime))

		_, err = venue.OccupyTable(1)
		require.NoError(t, err)
		clk.Advance(3 * time.Minute)
		assert.Equal(t, "15", statistics.CurrentTotalCost().String())

		cost, err := venue.ReleaseTable(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "15", cost.String())
	})

	// --- Fine-grained price survives the database round trip ---
	t.Run("High precision cost matches earnings", func(t *testing.T) {
		before, err := statistics.TotalEarnings(ctx)
		require.NoError(t, err)

		require.NoError(t, venue.SetPricePerMinute(decimal.RequireFromString("0.1234567890123456789")))
		_, err = venue.OccupyTable(7)
		require.NoError(t, err)
		clk.Advance(7 * time.Minute)
		cost, err := venue.ReleaseTable(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, "0.8641975230864197523", cost.String())

		total, err := statistics.TotalEarnings(ctx)
		require.NoError(t, err)
		assert.True(t, total.Sub(before).Equal(cost), "earnings grew by %s, billed %s", total.Sub(before), cost)

		earned, err := statistics.TableTotalEarnings(ctx, 7)
		require.NoError(t, err)
		assert.True(t, earned.Equal(cost))
	})
}
