// Package pricing applies markup and currency conversion to hotel offers
// using exact decimal arithmetic.
package pricing

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// ErrMissingRate is returned when a currency has no entry in the rate table.
// Its text is reported to clients verbatim.
var ErrMissingRate = errors.New("Missing exchange rate")

// RateTable maps ISO 4217 codes to rates against a common base. It is
// immutable once built.
type RateTable struct {
	rates map[string]decimal.Decimal
}

// DefaultRates is used when no table is configured.
func DefaultRates() RateTable {
	return RateTable{rates: map[string]decimal.Decimal{"USD": decimal.NewFromInt(1)}}
}

// NewRateTable validates codes and rates and copies them into a table.
func NewRateTable(rates map[string]decimal.Decimal) (RateTable, error) {
	t := RateTable{rates: make(map[string]decimal.Decimal, len(rates))}
	for code, rate := range rates {
		code = strings.ToUpper(strings.TrimSpace(code))
		if _, err := currency.ParseISO(code); err != nil {
			return RateTable{}, fmt.Errorf("invalid currency code %q: %w", code, err)
		}
		if !rate.IsPositive() {
			return RateTable{}, fmt.Errorf("rate for %s must be positive, got %s", code, rate)
		}
		t.rates[code] = rate
	}
	return t, nil
}

// ParseRates parses "USD:1.0,EUR:0.85" style lists.
func ParseRates(spec string) (RateTable, error) {
	rates := make(map[string]decimal.Decimal)
	for _, pair := range strings.Split(spec, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		code, value, ok := strings.Cut(pair, ":")
		if !ok {
			return RateTable{}, fmt.Errorf("invalid rate %q, expected CODE:RATE", pair)
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			return RateTable{}, fmt.Errorf("invalid rate for %s: %w", code, err)
		}
		rates[code] = rate
	}
	return NewRateTable(rates)
}

// Rate returns the rate for code.
func (t RateTable) Rate(code string) (decimal.Decimal, bool) {
	r, ok := t.rates[strings.ToUpper(code)]
	return r, ok
}

func (t RateTable) Len() int { return len(t.rates) }

// Codes returns the currencies in the table, sorted.
func (t RateTable) Codes() []string {
	codes := make([]string, 0, len(t.rates))
	for c := range t.rates {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// String renders the table in the ParseRates format.
func (t RateTable) String() string {
	parts := make([]string, 0, len(t.rates))
	for _, c := range t.Codes() {
		parts = append(parts, c+":"+t.rates[c].String())
	}
	return strings.Join(parts, ",")
}
