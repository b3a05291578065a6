package parse

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNotANumber is returned for input that is not a number at all.
var ErrNotANumber = errors.New("not a number")

var (
	intRe   = regexp.MustCompile(`^[+-]?\d+$`)
	priceRe = regexp.MustCompile(`^[+-]?(\d+([.,]\d*)?|[.,]\d+)$`)
)

// Int parses a whole number typed at a menu prompt. Surrounding spaces are ignored.
func Int(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if !intRe.MatchString(s) {
		return 0, fmt.Errorf("%w: %q", ErrNotANumber, raw)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotANumber, raw)
	}
	return n, nil
}

// TableNumber parses a table number. Range checks are left to the roster.
func TableNumber(raw string) (int, error) {
	return Int(raw)
}

// MenuChoice parses a menu selection.
func MenuChoice(raw string) (int, error) {
	return Int(raw)
}

// Price parses a price per minute. Both "2.5" and "2,5" are accepted.
// Sign checks are left to the billing service.
func Price(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if !priceRe.MatchString(s) {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrNotANumber, raw)
	}
	d, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrNotANumber, raw)
	}
	return d, nil
}
