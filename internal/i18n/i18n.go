// Package i18n holds the bot's user-facing text in every supported language.
package i18n

import (
	"fmt"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

const Fallback = "en"

type Key string

const (
	Welcome              Key = "welcome"
	SelectCurrency       Key = "select_currency"
	CurrencySelected     Key = "currency_selected"
	SubmitPrompt         Key = "submit_prompt"
	LanguageRequired     Key = "language_required"
	InvalidLink          Key = "invalid_link"
	AlreadySubmitted     Key = "already_submitted"
	VerificationInFlight Key = "verification_in_flight"
	Checking             Key = "checking"
	PublicNotJoinable    Key = "public_not_joinable"
	InviteExpired        Key = "invite_expired"
	InviteInvalid        Key = "invite_invalid"
	UsernameNotFound     Key = "username_not_found"
	JoinFailed           Key = "join_failed"
	GenericError         Key = "error"
	Eligible             Key = "eligible"
	DoneOwnershipButton  Key = "done_ownership_button"
	OwnershipDone        Key = "ownership_done"
	OwnershipFailed      Key = "ownership_failed"
	NoPending            Key = "no_pending"
	PointsBalance        Key = "points_balance"
	Portfolio            Key = "portfolio"
	WithdrawInsufficient Key = "withdraw_insufficient"
	WithdrawPrompt       Key = "withdraw_prompt"
	WithdrawSuccess      Key = "withdraw_success"
	WithdrawInvalid      Key = "withdraw_invalid"
	WithdrawMinimum      Key = "withdraw_minimum"
	WithdrawNoFunds      Key = "withdraw_no_funds"
	WithdrawPending      Key = "withdraw_pending"
	MyGroups             Key = "my_groups"
	NoGroups             Key = "no_groups"
	Stats                Key = "stats"
	Leaderboard          Key = "leaderboard"
	LeaderboardEmpty     Key = "leaderboard_empty"
	AdminOnly            Key = "admin_only"
	NoLogs               Key = "no_logs"
	Logs                 Key = "logs"
	TooManyRequests      Key = "too_many_requests"
)

// LanguageNames are shown on the language picker.
var LanguageNames = map[string]string{
	"en": "🇬🇧 English",
	"ru": "🇷🇺 Русский",
	"hi": "🇮🇳 हिन्दी",
}

var catalogs = map[string]map[Key]string{
	"en": english,
	"ru": russian,
	"hi": hindi,
}

var (
	bundle     = newBundle()
	localizers = newLocalizers(bundle)
)

func newBundle() *goi18n.Bundle {
	b := goi18n.NewBundle(language.MustParse(Fallback))
	for lang, catalog := range catalogs {
		tag := language.MustParse(lang)
		for key, text := range catalog {
			b.MustAddMessages(tag, &goi18n.Message{ID: string(key), Other: text})
		}
	}
	return b
}

func newLocalizers(b *goi18n.Bundle) map[string]*goi18n.Localizer {
	out := make(map[string]*goi18n.Localizer, len(catalogs))
	for lang := range catalogs {
		out[lang] = goi18n.NewLocalizer(b, lang, Fallback)
	}
	return out
}

// T renders key in lang, falling back to English for unknown languages or
// missing keys. Arguments are applied with fmt verbs.
func T(lang string, key Key, args ...any) string {
	loc, ok := localizers[lang]
	if !ok {
		loc = localizers[Fallback]
	}
	// A message missing in lang comes back in English together with a
	// not-found error, so only an empty result means the key is unknown.
	msg, _ := loc.Localize(&goi18n.LocalizeConfig{MessageID: string(key)})
	if msg == "" {
		return string(key)
	}
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

// Supported reports whether lang has a catalogue.
func Supported(lang string) bool {
	_, ok := catalogs[lang]
	return ok
}
