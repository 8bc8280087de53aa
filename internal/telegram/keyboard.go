package telegram

import (
	"github.com/go-telegram/bot/models"

	"github.com/set-night/groupbuyer/internal/callback"
	"github.com/set-night/groupbuyer/internal/currency"
	"github.com/set-night/groupbuyer/internal/i18n"
)

// InlineButton creates a single inline keyboard button.
func InlineButton(text, callbackData string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{
		Text:         text,
		CallbackData: callbackData,
	}
}

// InlineKeyboard creates an inline keyboard from rows of buttons.
func InlineKeyboard(rows ...[]models.InlineKeyboardButton) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: rows,
	}
}

// ButtonRow creates a row of inline buttons.
func ButtonRow(buttons ...models.InlineKeyboardButton) []models.InlineKeyboardButton {
	return buttons
}

// LanguageKeyboard lists one language per row.
func LanguageKeyboard(codes []string) *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(codes))
	for _, code := range codes {
		name, ok := i18n.LanguageNames[code]
		if !ok {
			name = code
		}
		rows = append(rows, ButtonRow(InlineButton(name, callback.SelectLanguage{Code: code}.Data())))
	}
	return InlineKeyboard(rows...)
}

// CurrencyKeyboard lays out currencies two per row.
func CurrencyKeyboard(codes []string) *models.InlineKeyboardMarkup {
	var rows [][]models.InlineKeyboardButton
	for i := 0; i < len(codes); i += 2 {
		row := ButtonRow(InlineButton(currency.Name(codes[i]), callback.SelectCurrency{Code: codes[i]}.Data()))
		if i+1 < len(codes) {
			row = append(row, InlineButton(currency.Name(codes[i+1]), callback.SelectCurrency{Code: codes[i+1]}.Data()))
		}
		rows = append(rows, row)
	}
	return InlineKeyboard(rows...)
}

// ConfirmKeyboard carries the single "done ownership" button.
func ConfirmKeyboard(lang string, action callback.ConfirmOwnership) *models.InlineKeyboardMarkup {
	return InlineKeyboard(ButtonRow(InlineButton(i18n.T(lang, i18n.DoneOwnershipButton), action.Data())))
}
