package currency

import (
	"errors"
	"strings"
)

var ErrUnsupported = errors.New("unsupported currency")

var names = map[string]string{
	"usd": "🇺🇸 USD",
	"gbp": "🇬🇧 GBP",
	"rub": "🇷🇺 RUB",
	"inr": "🇮🇳 INR",
	"eur": "🇪🇺 EUR",
}

// Name returns the human-readable label for a currency code.
func Name(code string) string {
	if n, ok := names[code]; ok {
		return n
	}
	return strings.ToUpper(code)
}
