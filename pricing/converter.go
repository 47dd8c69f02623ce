package pricing

import (
	"fmt"
	"strings"

	"github.com/gilby125/hotel-availability/hotels"
	"github.com/shopspring/decimal"
)

// DefaultSourceCurrency is assumed for prices that do not name a currency.
const DefaultSourceCurrency = "USD"

// Places is the number of decimal places of emitted prices and rates.
const Places = 2

// Converter computes selling prices in a single target currency.
type Converter struct {
	target string
	rates  RateTable
}

// NewConverter fails with ErrMissingRate when target has no rate. An empty
// table is replaced by DefaultRates.
func NewConverter(target string, rates RateTable) (*Converter, error) {
	target = strings.ToUpper(strings.TrimSpace(target))
	if rates.Len() == 0 {
		rates = DefaultRates()
	}
	if _, ok := rates.Rate(target); !ok {
		return nil, fmt.Errorf("%w for target currency: %s", ErrMissingRate, target)
	}
	return &Converter{target: target, rates: rates}, nil
}

// Target returns the selling currency.
func (c *Converter) Target() string { return c.target }

// ExchangeRate returns the factor converting source amounts into the target
// currency, unrounded.
func (c *Converter) ExchangeRate(source string) (decimal.Decimal, error) {
	source = strings.ToUpper(source)
	if source == c.target {
		return decimal.NewFromInt(1), nil
	}
	from, ok := c.rates.Rate(source)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w for: %s", ErrMissingRate, source)
	}
	to, _ := c.rates.Rate(c.target)
	return to.DivRound(from, 28), nil
}

// PriceHotel returns h with its selling fields set. Hotels without a price
// are returned unchanged.
func (c *Converter) PriceHotel(h hotels.Hotel) (hotels.Hotel, error) {
	if h.Price == nil {
		return h, nil
	}
	price := *h.Price

	source := strings.ToUpper(strings.TrimSpace(price.Currency))
	if source == "" {
		source = DefaultSourceCurrency
	}
	rate, err := c.ExchangeRate(source)
	if err != nil {
		return hotels.Hotel{}, err
	}

	selling := SellingPrice(ToDecimal(price.Net), ToDecimal(price.Markup), rate)
	sellingAmount := hotels.Amount(selling.StringFixed(Places))
	rateAmount := hotels.Amount(Round(rate).StringFixed(Places))

	price.SellingPrice = &sellingAmount
	price.SellingCurrency = c.target
	price.ExchangeRateApplied = &rateAmount
	h.Price = &price
	return h, nil
}

// Convert prices every hotel of resp. The input is left untouched and the
// whole batch fails on the first hotel that cannot be priced.
func (c *Converter) Convert(resp hotels.SearchResponse) (hotels.SearchResponse, error) {
	if resp.Data == nil {
		return resp, nil
	}
	priced := make([]hotels.Hotel, len(resp.Data.Hotels))
	for i, h := range resp.Data.Hotels {
		p, err := c.PriceHotel(h)
		if err != nil {
			return hotels.SearchResponse{}, fmt.Errorf("hotel %s: %w", h.ID, err)
		}
		priced[i] = p
	}
	data := *resp.Data
	data.Hotels = priced
	resp.Data = &data
	return resp, nil
}

// SellingPrice computes net * (1 + markup/100) * rate rounded half-up to
// Places.
func SellingPrice(net, markupPercent, rate decimal.Decimal) decimal.Decimal {
	beforeFX := net.Mul(decimal.NewFromInt(1).Add(markupPercent.Shift(-2)))
	return Round(beforeFX.Mul(rate))
}

// Round rounds half away from zero to Places, which is half-up for prices.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// ToDecimal parses a supplier amount. Empty or invalid text is zero.
func ToDecimal(a hotels.Amount) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(string(a)))
	if err != nil {
		return decimal.Zero
	}
	return d
}
