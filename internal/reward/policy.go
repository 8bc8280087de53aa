// Package reward maps an entity's creation year to a point award.
package reward

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Table holds per-year awards. It reads from configuration as "2023:300,2024:200".
type Table map[int]decimal.Decimal

func (t *Table) UnmarshalText(text []byte) error {
	parsed := make(Table)
	for _, part := range strings.Split(string(text), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		y, v, ok := strings.Cut(part, ":")
		if !ok {
			return fmt.Errorf("reward %q: expected year:points", part)
		}
		year, err := strconv.Atoi(strings.TrimSpace(y))
		if err != nil {
			return fmt.Errorf("reward %q: %w", part, err)
		}
		points, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("reward %q: %w", part, err)
		}
		if points.IsNegative() {
			return fmt.Errorf("reward %q: negative award", part)
		}
		parsed[year] = points
	}
	*t = parsed
	return nil
}

type Policy struct {
	table Table
	older decimal.Decimal
}

func NewPolicy(table Table, older decimal.Decimal) *Policy {
	t := make(Table, len(table))
	for y, p := range table {
		t[y] = p
	}
	return &Policy{table: t, older: older}
}

// Award returns the configured award for year, or the default award for any
// year outside the table, whether older or newer.
func (p *Policy) Award(year int) decimal.Decimal {
	if points, ok := p.table[year]; ok {
		return points
	}
	return p.older
}

// Years returns the table years in ascending order.
func (p *Policy) Years() []int {
	years := make([]int, 0, len(p.table))
	for y := range p.table {
		years = append(years, y)
	}
	slices.Sort(years)
	return years
}

func (p *Policy) Older() decimal.Decimal {
	return p.older
}
