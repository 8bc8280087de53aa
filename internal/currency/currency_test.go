package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConverter(t *testing.T) *Converter {
	t.Helper()
	rates, err := ParseRates("usd:80, gbp:100,rub:0.9,inr:1")
	require.NoError(t, err)
	c, err := NewConverter(rates)
	require.NoError(t, err)
	return c
}

func TestParseRates(t *testing.T) {
	rates, err := ParseRates("USD:80,inr:1,")
	require.NoError(t, err)
	require.Len(t, rates, 2)
	assert.Equal(t, "usd", rates[0].Code)
	assert.True(t, rates[0].Value.Equal(decimal.NewFromInt(80)))

	_, err = ParseRates("usd=80")
	assert.Error(t, err)

	_, err = ParseRates("usd:eighty")
	assert.Error(t, err)
}

func TestNewConverterRejectsBadTables(t *testing.T) {
	_, err := NewConverter(nil)
	assert.Error(t, err)

	_, err = NewConverter(Rates{{Code: "usd", Value: decimal.Zero}})
	assert.Error(t, err)

	_, err = NewConverter(Rates{{Code: "usd", Value: decimal.NewFromInt(1)}, {Code: "usd", Value: decimal.NewFromInt(2)}})
	assert.Error(t, err)
}

func TestConverter_ToDisplay(t *testing.T) {
	c := testConverter(t)

	got, err := c.ToDisplay(decimal.NewFromInt(8000), "usd")
	require.NoError(t, err)
	assert.Equal(t, "100", got.String())

	got, err = c.ToDisplay(decimal.NewFromInt(1000), "rub")
	require.NoError(t, err)
	assert.Equal(t, "1111.11", got.String())

	_, err = c.ToDisplay(decimal.NewFromInt(1), "jpy")
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestConverter_ToCanonical(t *testing.T) {
	c := testConverter(t)

	got, err := c.ToCanonical(decimal.NewFromInt(50), "usd")
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(4000)))
}

func TestConverter_RoundTripWithinRounding(t *testing.T) {
	c := testConverter(t)
	balances := []int64{0, 1, 7, 650, 700, 8000, 123457}

	for _, code := range c.Codes() {
		rate, _ := c.Rate(code)
		// Display rounding loses at most half a cent, i.e. half a cent times the rate.
		tolerance := rate.Mul(decimal.RequireFromString("0.005"))
		for _, b := range balances {
			points := decimal.NewFromInt(b)
			shown, err := c.ToDisplay(points, code)
			require.NoError(t, err)
			back, err := c.ToCanonical(shown, code)
			require.NoError(t, err)
			assert.True(t, back.Sub(points).Abs().LessThanOrEqual(tolerance),
				"%s: %s -> %s -> %s", code, points, shown, back)
		}
	}
}

func TestConverter_CodesKeepOrder(t *testing.T) {
	c := testConverter(t)
	assert.Equal(t, []string{"usd", "gbp", "rub", "inr"}, c.Codes())
	assert.True(t, c.Supported("inr"))
	assert.False(t, c.Supported("eur"))
}

func TestName(t *testing.T) {
	assert.Equal(t, "🇺🇸 USD", Name("usd"))
	assert.Equal(t, "JPY", Name("jpy"))
}
