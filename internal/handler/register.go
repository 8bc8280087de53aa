package handler

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/groupbuyer/internal/callback"
)

// Register registers all command and callback handlers on the bot instance.
// Free text reaches HandleText through the bot's default handler.
func (h *Handler) Register() {
	// Commands
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, h.handleStart)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/points", bot.MatchTypePrefix, h.handlePoints)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/portfolio", bot.MatchTypePrefix, h.handlePortfolio)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/withdraw", bot.MatchTypePrefix, h.handleWithdraw)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/mygroups", bot.MatchTypePrefix, h.handleMyGroups)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/stats", bot.MatchTypePrefix, h.handleStats)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/leaderboard", bot.MatchTypePrefix, h.handleLeaderboard)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/viewlogs", bot.MatchTypePrefix, h.handleViewLogs)

	// Callbacks
	for _, prefix := range callback.Prefixes() {
		h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, prefix, bot.MatchTypePrefix, h.handleCallback)
	}
}

// HandleText routes private free text: links become submissions, anything
// else is withdrawal input when one is armed.
func (h *Handler) HandleText(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.Text == "" || strings.HasPrefix(msg.Text, "/") {
		return
	}
	h.handleText(ctx, b, update)
}
