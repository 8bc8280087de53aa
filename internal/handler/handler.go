package handler

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/groupbuyer/internal/config"
	"github.com/set-night/groupbuyer/internal/service"
	"github.com/set-night/groupbuyer/internal/telegram"
)

// Handler holds all dependencies needed by command and callback handlers.
type Handler struct {
	bot          *bot.Bot
	cfg          *config.Config
	users        *service.UserService
	verification *service.Verification
	ledger       *service.LedgerService
	stats        *service.StatsService
	audit        *service.AuditService
	currencies   []string
	tgLogger     *telegram.TelegramLogger
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot          *bot.Bot
	Cfg          *config.Config
	Users        *service.UserService
	Verification *service.Verification
	Ledger       *service.LedgerService
	Stats        *service.StatsService
	Audit        *service.AuditService
	// Currencies offered on the currency keyboard, in order.
	Currencies []string
	TgLogger   *telegram.TelegramLogger
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot:          deps.Bot,
		cfg:          deps.Cfg,
		users:        deps.Users,
		verification: deps.Verification,
		ledger:       deps.Ledger,
		stats:        deps.Stats,
		audit:        deps.Audit,
		currencies:   deps.Currencies,
		tgLogger:     deps.TgLogger,
	}
}

// reply is the text and optional keyboard a handler answers with.
type reply struct {
	text   string
	markup models.ReplyMarkup
}

func (h *Handler) send(ctx context.Context, b *bot.Bot, chatID int64, r reply) {
	if err := telegram.SendLongMessage(ctx, b, chatID, r.text, r.markup); err != nil {
		slog.Error("failed to send reply", "error", err, "chat_id", chatID)
	}
}

// respond edits the message carrying the pressed button, falling back to a
// new message when it is gone.
func (h *Handler) respond(ctx context.Context, b *bot.Bot, cq *models.CallbackQuery, r reply) {
	if msg := cq.Message.Message; msg != nil {
		err := telegram.EditMessage(ctx, b, msg.Chat.ID, msg.ID, r.text, r.markup)
		if err == nil {
			return
		}
		slog.Warn("edit callback message failed, sending new one", "error", err, "user_id", cq.From.ID)
	}
	h.send(ctx, b, cq.From.ID, r)
}
