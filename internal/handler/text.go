package handler

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/groupbuyer/internal/currency"
	"github.com/set-night/groupbuyer/internal/domain"
	"github.com/set-night/groupbuyer/internal/i18n"
	"github.com/set-night/groupbuyer/internal/middleware"
	"github.com/set-night/groupbuyer/internal/service"
	"github.com/set-night/groupbuyer/internal/telegram"
)

func (h *Handler) handleText(ctx context.Context, b *bot.Bot, update *models.Update) {
	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}
	msg := update.Message
	chatID := msg.Chat.ID

	if user.Language == "" {
		h.send(ctx, b, chatID, reply{text: i18n.T(i18n.Fallback, i18n.LanguageRequired)})
		return
	}

	switch service.Classify(user, msg.Text) {
	case service.TextSubmission:
		h.send(ctx, b, chatID, reply{text: i18n.T(user.Language, i18n.Checking)})
		stop := telegram.StartTyping(ctx, b, chatID)
		r := h.submit(ctx, user, msg.Text)
		stop()
		h.send(ctx, b, chatID, r)
	case service.TextWithdrawal:
		h.send(ctx, b, chatID, h.withdrawInput(ctx, user, msg.Text))
	default:
		h.send(ctx, b, chatID, reply{text: i18n.T(user.Language, i18n.InvalidLink)})
	}
}

func (h *Handler) submit(ctx context.Context, user *domain.User, text string) reply {
	prompt, err := h.verification.Submit(ctx, user.TelegramID, text)
	if err != nil {
		return reply{text: h.errorText(user.Language, err, "submit link")}
	}
	return reply{
		text:   i18n.T(user.Language, i18n.Eligible, prompt.Year, prompt.Award.String(), prompt.Owner),
		markup: telegram.ConfirmKeyboard(user.Language, prompt.Action),
	}
}

func (h *Handler) withdrawInput(ctx context.Context, user *domain.User, text string) reply {
	w, bal, err := h.ledger.ExecuteWithdrawal(ctx, user.TelegramID, text)
	if err != nil {
		return reply{text: h.errorText(user.Language, err, "execute withdrawal")}
	}
	return reply{text: i18n.T(user.Language, i18n.WithdrawSuccess,
		w.RequestAmount.StringFixed(currency.DisplayPlaces), currency.Name(w.RequestCurrency),
		bal.Display.StringFixed(currency.DisplayPlaces), currency.Name(bal.Currency))}
}
