package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VisitRecord is the archived, immutable log entry of one completed occupancy.
type VisitRecord struct {
	Seq             uint64          `gorm:"primaryKey;autoIncrement"` // Ledger position, assigned on append
	ID              string          `gorm:"uniqueIndex;size:36;not null"`
	TableNumber     int             `gorm:"index;not null"`
	StartTime       time.Time       `gorm:"not null"`
	EndTime         time.Time       `gorm:"not null"`
	DurationMinutes int64           `gorm:"not null"`
	TotalCost       decimal.Decimal `gorm:"type:text;not null"` // Stored as the exact decimal string
}

// NewVisitRecord builds the record for a visit released at end.
func NewVisitRecord(tableNumber int, start, end time.Time, minutes int64, cost decimal.Decimal) VisitRecord {
	return VisitRecord{
		ID:              uuid.NewString(),
		TableNumber:     tableNumber,
		StartTime:       start,
		EndTime:         end,
		DurationMinutes: minutes,
		TotalCost:       cost,
	}
}
