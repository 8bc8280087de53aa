// Package currency converts canonical point balances to display currencies and back.
//
// Rates are expressed as canonical units per one unit of the target currency, so
// with a USD rate of 80 a balance of 8000 points displays as 100 USD.
package currency

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DisplayPlaces is the number of decimal places shown to users.
const DisplayPlaces = 2

type Rate struct {
	Code  string
	Value decimal.Decimal
}

// Rates is an ordered rate table. It implements encoding.TextUnmarshaler so it can be
// read from configuration in the form "usd:80,gbp:100".
type Rates []Rate

func (r *Rates) UnmarshalText(text []byte) error {
	parsed, err := ParseRates(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func ParseRates(s string) (Rates, error) {
	var rates Rates
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		code, value, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("rate %q: expected code:value", part)
		}
		v, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("rate %q: %w", part, err)
		}
		rates = append(rates, Rate{Code: strings.ToLower(strings.TrimSpace(code)), Value: v})
	}
	return rates, nil
}

type Converter struct {
	order []string
	rates map[string]decimal.Decimal
}

func NewConverter(rates Rates) (*Converter, error) {
	if len(rates) == 0 {
		return nil, fmt.Errorf("empty rate table")
	}
	c := &Converter{rates: make(map[string]decimal.Decimal, len(rates))}
	for _, r := range rates {
		if !r.Value.IsPositive() {
			return nil, fmt.Errorf("rate for %s must be positive", r.Code)
		}
		if _, dup := c.rates[r.Code]; dup {
			return nil, fmt.Errorf("duplicate rate for %s", r.Code)
		}
		c.rates[r.Code] = r.Value
		c.order = append(c.order, r.Code)
	}
	return c, nil
}

// Codes returns the supported currency codes in configuration order.
func (c *Converter) Codes() []string {
	return append([]string(nil), c.order...)
}

func (c *Converter) Supported(code string) bool {
	_, ok := c.rates[code]
	return ok
}

func (c *Converter) Rate(code string) (decimal.Decimal, bool) {
	r, ok := c.rates[code]
	return r, ok
}

// ToDisplay converts a canonical balance into code, rounded to DisplayPlaces.
func (c *Converter) ToDisplay(points decimal.Decimal, code string) (decimal.Decimal, error) {
	r, ok := c.rates[code]
	if !ok {
		return decimal.Zero, fmt.Errorf("currency %q: %w", code, ErrUnsupported)
	}
	return points.Div(r).Round(DisplayPlaces), nil
}

// ToCanonical converts an amount expressed in code into canonical units.
func (c *Converter) ToCanonical(amount decimal.Decimal, code string) (decimal.Decimal, error) {
	r, ok := c.rates[code]
	if !ok {
		return decimal.Zero, fmt.Errorf("currency %q: %w", code, ErrUnsupported)
	}
	return amount.Mul(r), nil
}
