package handler

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/groupbuyer/internal/config"
	"github.com/set-night/groupbuyer/internal/domain"
	"github.com/set-night/groupbuyer/internal/i18n"
	"github.com/set-night/groupbuyer/internal/middleware"
	"github.com/set-night/groupbuyer/internal/telegram"
)

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	user := middleware.GetUser(ctx)
	if update.Message == nil || user == nil {
		return
	}
	h.send(ctx, b, update.Message.Chat.ID, h.start(ctx, user))
}

func (h *Handler) start(ctx context.Context, user *domain.User) reply {
	h.users.Start(ctx, user.TelegramID)
	return reply{
		text:   i18n.T(user.Language, i18n.Welcome),
		markup: telegram.LanguageKeyboard(config.Languages),
	}
}
