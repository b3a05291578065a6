package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"anticafe-backend/config"
	"anticafe-backend/internal/billing"
	"anticafe-backend/internal/clock"
	"anticafe-backend/internal/console"
	"anticafe-backend/internal/db"
	"anticafe-backend/internal/logging"
	"anticafe-backend/internal/roster"
	"anticafe-backend/internal/stats"
	"anticafe-backend/internal/store"
)

func main() {
	// A .env file is optional; it only seeds CONFIG_PATH for local runs.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to read .env: %v", err)
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		log.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()
	logger.Info("starting anticafe", zap.String("config", configPath))

	ledger, closeLedger, err := openLedger(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize ledger", zap.Error(err))
	}
	defer closeLedger()

	tables, err := roster.New(cfg.Tables.Count)
	if err != nil {
		logger.Fatal("failed to create table roster", zap.Error(err))
	}

	venue, err := billing.NewService(billing.Options{
		Roster:         tables,
		Ledger:         ledger,
		PricePerMinute: decimal.NewFromFloat(*cfg.Billing.PricePerMinute),
		Clock:          clock.System{},
		Logger:         logger,
	})
	if err != nil {
		logger.Fatal("failed to create billing service", zap.Error(err))
	}
	statistics := stats.NewService(venue, logger)

	ui := console.New(os.Stdin, os.Stdout, venue, statistics, cfg.Billing.Currency, logger)
	if err := ui.Run(context.Background()); err != nil {
		logger.Error("console terminated", zap.Error(err))
	}
	logger.Info("anticafe stopped")
}

func openLedger(cfg *config.Config, logger *zap.Logger) (store.Ledger, func(), error) {
	if cfg.Ledger.Driver == "memory" {
		logger.Info("using memory ledger")
		return store.NewMemoryLedger(), func() {}, nil
	}

	gormDB, err := db.Init(&cfg.Ledger, logger)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, nil, err
	}
	return store.NewGormLedger(gormDB), func() { sqlDB.Close() }, nil
}
