package i18n

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCataloguesAreComplete(t *testing.T) {
	for lang, catalog := range catalogs {
		for key, en := range english {
			msg, ok := catalog[key]
			if assert.True(t, ok, "%s is missing %s", lang, key) {
				assert.Equal(t, strings.Count(en, "%"), strings.Count(msg, "%"), "%s/%s verbs differ", lang, key)
			}
		}
		assert.Contains(t, LanguageNames, lang)
	}
}

func TestT(t *testing.T) {
	assert.Equal(t, "💰 Your balance: 100 🇺🇸 USD", T("en", PointsBalance, "100", "🇺🇸 USD"))
	assert.Equal(t, "💰 Ваш баланс: 5 🇺🇸 USD", T("ru", PointsBalance, "5", "🇺🇸 USD"))
	assert.Equal(t, english[NoLogs], T("xx", NoLogs))
	assert.Equal(t, "nope", T("en", Key("nope")))
	assert.True(t, Supported("hi"))
	assert.False(t, Supported("de"))
}
