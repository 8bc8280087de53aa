package reward

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy(t *testing.T) *Policy {
	t.Helper()
	var table Table
	require.NoError(t, table.UnmarshalText([]byte("2022:400, 2023:300,2024:200")))
	return NewPolicy(table, decimal.NewFromInt(500))
}

func TestPolicy_AwardInsideTable(t *testing.T) {
	p := testPolicy(t)
	assert.Equal(t, "400", p.Award(2022).String())
	assert.Equal(t, "300", p.Award(2023).String())
	assert.Equal(t, "200", p.Award(2024).String())
}

func TestPolicy_AwardOutsideTableUsesOlder(t *testing.T) {
	p := testPolicy(t)
	for _, year := range []int{-1, 0, 2006, 2013, 2021, 2025, 2030, 1 << 30} {
		assert.True(t, p.Award(year).Equal(p.Older()), "year %d", year)
	}
}

func TestPolicy_Years(t *testing.T) {
	assert.Equal(t, []int{2022, 2023, 2024}, testPolicy(t).Years())
}

func TestTable_UnmarshalTextErrors(t *testing.T) {
	var table Table
	assert.Error(t, table.UnmarshalText([]byte("2024=1")))
	assert.Error(t, table.UnmarshalText([]byte("year:1")))
	assert.Error(t, table.UnmarshalText([]byte("2024:x")))
	assert.Error(t, table.UnmarshalText([]byte("2024:-5")))
}

func TestNewPolicyCopiesTable(t *testing.T) {
	table := Table{2024: decimal.NewFromInt(10)}
	p := NewPolicy(table, decimal.NewFromInt(1))
	table[2024] = decimal.NewFromInt(99)
	assert.Equal(t, "10", p.Award(2024).String())
}
