package billing

import (
	"errors"

	"github.com/shopspring/decimal"

	"anticafe-backend/internal/roster"
)

// ErrInvalidTableNumber is returned when a table number is outside the roster.
var ErrInvalidTableNumber = roster.ErrInvalidTableNumber

// ErrNegativePrice is returned when a price below zero is requested.
var ErrNegativePrice = errors.New("price per minute must not be negative")

// NotOccupied is the cost ReleaseTable reports for a table that was already free.
// A real visit can never cost less than zero.
var NotOccupied = decimal.NewFromInt(-1)
