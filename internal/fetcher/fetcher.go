package fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RateTable is a snapshot of rates quoted against a single base currency,
// expressed as units of each currency per one base unit.
type RateTable struct {
	Base       string
	Rates      map[string]decimal.Decimal
	CapturedAt time.Time
}

// Rate returns the rate for code, if present.
func (t RateTable) Rate(code string) (decimal.Decimal, bool) {
	rate, ok := t.Rates[code]
	return rate, ok
}

// RateFetcher retrieves a base-currency rate table.
type RateFetcher interface {
	FetchRates(ctx context.Context) (RateTable, error)
}

// FetchError reports that the rate provider could not deliver a usable table.
type FetchError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch rates: %s (status %d): %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch rates: %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Static serves a fixed table. Used for simulations.
type Static struct {
	Table RateTable
}

// FetchRates returns a copy of the configured table.
func (s *Static) FetchRates(ctx context.Context) (RateTable, error) {
	rates := make(map[string]decimal.Decimal, len(s.Table.Rates))
	for code, rate := range s.Table.Rates {
		rates[code] = rate
	}
	captured := s.Table.CapturedAt
	if captured.IsZero() {
		captured = time.Now().UTC()
	}
	return RateTable{Base: s.Table.Base, Rates: rates, CapturedAt: captured}, nil
}

var _ RateFetcher = (*Static)(nil)
