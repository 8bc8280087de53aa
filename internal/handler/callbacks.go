package handler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/groupbuyer/internal/callback"
	"github.com/set-night/groupbuyer/internal/currency"
	"github.com/set-night/groupbuyer/internal/domain"
	"github.com/set-night/groupbuyer/internal/i18n"
	"github.com/set-night/groupbuyer/internal/middleware"
	"github.com/set-night/groupbuyer/internal/telegram"
)

func (h *Handler) handleCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cq.ID})

	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}

	action, err := callback.Parse(cq.Data)
	if err != nil {
		slog.Debug("ignoring callback", "error", err, "data", cq.Data, "user_id", user.TelegramID)
		return
	}

	if confirm, ok := action.(callback.ConfirmOwnership); ok {
		// Drop the button first so a second press cannot race the check
		if msg := cq.Message.Message; msg != nil {
			b.EditMessageReplyMarkup(ctx, &bot.EditMessageReplyMarkupParams{
				ChatID:    msg.Chat.ID,
				MessageID: msg.ID,
			})
		}
		r, fresh := h.confirm(ctx, user, confirm)
		if !fresh {
			// Keep the earlier outcome on screen
			h.send(ctx, b, user.TelegramID, r)
			return
		}
		h.respond(ctx, b, cq, r)
		return
	}
	h.respond(ctx, b, cq, h.callback(ctx, user, action))
}

func (h *Handler) callback(ctx context.Context, user *domain.User, action callback.Action) reply {
	switch a := action.(type) {
	case callback.SelectLanguage:
		if _, err := h.users.SelectLanguage(ctx, user.TelegramID, a.Code); err != nil {
			return reply{text: h.errorText(user.Language, err, "select language")}
		}
		return reply{
			text:   i18n.T(a.Code, i18n.SelectCurrency),
			markup: telegram.CurrencyKeyboard(h.currencies),
		}
	case callback.SelectCurrency:
		if _, err := h.users.SelectCurrency(ctx, user.TelegramID, a.Code); err != nil {
			return reply{text: h.errorText(user.Language, err, "select currency")}
		}
		return reply{text: i18n.T(user.Language, i18n.CurrencySelected, currency.Name(a.Code)) +
			"\n" + i18n.T(user.Language, i18n.SubmitPrompt)}
	case callback.ConfirmOwnership:
		r, _ := h.confirm(ctx, user, a)
		return r
	default:
		return reply{text: i18n.T(user.Language, i18n.GenericError)}
	}
}

// confirm runs the ownership check. fresh is false when the button belonged
// to a verification that is already settled.
func (h *Handler) confirm(ctx context.Context, user *domain.User, action callback.ConfirmOwnership) (r reply, fresh bool) {
	res, err := h.verification.Confirm(ctx, user.TelegramID, action)
	if err != nil {
		stale := errors.Is(err, domain.ErrNoPendingVerification) || errors.Is(err, domain.ErrStaleConfirmation)
		return reply{text: h.errorText(user.Language, err, "confirm ownership")}, !stale
	}
	if !res.Owned {
		return reply{text: i18n.T(user.Language, i18n.OwnershipFailed)}, true
	}
	return reply{text: i18n.T(user.Language, i18n.OwnershipDone, res.Award.String())}, true
}
