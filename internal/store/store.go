package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"anticafe-backend/internal/model"
)

// Ledger is the append-only log of completed visits. There is no way to edit or remove a record.
type Ledger interface {
	Append(ctx context.Context, record model.VisitRecord) error
	// Records returns every visit in release order.
	Records(ctx context.Context) ([]model.VisitRecord, error)
	Count(ctx context.Context) (int64, error)
}

// gormLedger implements the Ledger interface using GORM.
type gormLedger struct {
	db *gorm.DB
}

// NewGormLedger creates a new GORM-backed ledger.
func NewGormLedger(db *gorm.DB) Ledger {
	return &gormLedger{db: db}
}

// Append archives one completed visit.
func (l *gormLedger) Append(ctx context.Context, record model.VisitRecord) error {
	if err := l.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to append visit record for table %d: %w", record.TableNumber, err)
	}
	return nil
}

func (l *gormLedger) Records(ctx context.Context) ([]model.VisitRecord, error) {
	var records []model.VisitRecord
	if err := l.db.WithContext(ctx).Order("seq ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch visit records: %w", err)
	}
	return records, nil
}

func (l *gormLedger) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := l.db.WithContext(ctx).Model(&model.VisitRecord{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count visit records: %w", err)
	}
	return n, nil
}

// memoryLedger keeps visits in a slice; used when no database is configured.
type memoryLedger struct {
	records []model.VisitRecord
}

// NewMemoryLedger creates an empty slice-backed ledger.
func NewMemoryLedger() Ledger {
	return &memoryLedger{}
}

func (l *memoryLedger) Append(_ context.Context, record model.VisitRecord) error {
	record.Seq = uint64(len(l.records) + 1)
	l.records = append(l.records, record)
	return nil
}

// Records returns a copy so callers cannot rewrite history.
func (l *memoryLedger) Records(_ context.Context) ([]model.VisitRecord, error) {
	out := make([]model.VisitRecord, len(l.records))
	copy(out, l.records)
	return out, nil
}

func (l *memoryLedger) Count(_ context.Context) (int64, error) {
	return int64(len(l.records)), nil
}
