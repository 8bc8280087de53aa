package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/groupbuyer/internal/config"
	"github.com/set-night/groupbuyer/internal/currency"
	"github.com/set-night/groupbuyer/internal/domain"
	"github.com/set-night/groupbuyer/internal/i18n"
	"github.com/set-night/groupbuyer/internal/middleware"
)

// command adapts a reply builder to a message handler.
func (h *Handler) command(build func(ctx context.Context, user *domain.User) reply) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		user := middleware.GetUser(ctx)
		if update.Message == nil || user == nil {
			return
		}
		h.send(ctx, b, update.Message.Chat.ID, build(ctx, user))
	}
}

func (h *Handler) handlePoints(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.command(h.points)(ctx, b, update)
}

func (h *Handler) handlePortfolio(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.command(h.portfolio)(ctx, b, update)
}

func (h *Handler) handleWithdraw(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.command(h.withdraw)(ctx, b, update)
}

func (h *Handler) handleMyGroups(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.command(h.myGroups)(ctx, b, update)
}

func (h *Handler) handleStats(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.command(h.botStats)(ctx, b, update)
}

func (h *Handler) handleLeaderboard(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.command(h.leaderboard)(ctx, b, update)
}

func (h *Handler) handleViewLogs(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.command(h.viewLogs)(ctx, b, update)
}

func (h *Handler) points(ctx context.Context, user *domain.User) reply {
	bal, err := h.ledger.Balance(ctx, user.TelegramID, domain.ActionPoints)
	if err != nil {
		return reply{text: h.errorText(user.Language, err, "points")}
	}
	return reply{text: i18n.T(user.Language, i18n.PointsBalance,
		bal.Display.StringFixed(currency.DisplayPlaces), currency.Name(bal.Currency))}
}

func (h *Handler) portfolio(ctx context.Context, user *domain.User) reply {
	bal, err := h.ledger.Balance(ctx, user.TelegramID, domain.ActionPortfolio)
	if err != nil {
		return reply{text: h.errorText(user.Language, err, "portfolio")}
	}
	return reply{text: i18n.T(user.Language, i18n.Portfolio,
		bal.Display.StringFixed(currency.DisplayPlaces), currency.Name(bal.Currency), len(user.SubmittedEntities))}
}

func (h *Handler) withdraw(ctx context.Context, user *domain.User) reply {
	err := h.ledger.RequestWithdrawal(ctx, user.TelegramID)
	switch {
	case errors.Is(err, domain.ErrBelowWithdrawalThreshold):
		return reply{text: i18n.T(user.Language, i18n.WithdrawInsufficient, h.cfg.MinWithdrawBalance.String())}
	case errors.Is(err, domain.ErrVerificationInFlight):
		return reply{text: i18n.T(user.Language, i18n.WithdrawPending)}
	case err != nil:
		return reply{text: h.errorText(user.Language, err, "request withdrawal")}
	}
	return reply{text: i18n.T(user.Language, i18n.WithdrawPrompt, currency.Name(h.cfg.WithdrawCurrency))}
}

func (h *Handler) myGroups(ctx context.Context, user *domain.User) reply {
	groups, err := h.users.Groups(ctx, user.TelegramID)
	if err != nil {
		return reply{text: h.errorText(user.Language, err, "my groups")}
	}
	if len(groups) == 0 {
		return reply{text: i18n.T(user.Language, i18n.NoGroups)}
	}
	return reply{text: i18n.T(user.Language, i18n.MyGroups, strings.Join(groups, "\n"))}
}

func (h *Handler) botStats(ctx context.Context, user *domain.User) reply {
	h.audit.Record(ctx, user.TelegramID, domain.ActionStats, "")
	st, err := h.stats.Stats(ctx)
	if err != nil {
		return reply{text: h.errorText(user.Language, err, "stats")}
	}
	return reply{text: i18n.T(user.Language, i18n.Stats,
		st.TotalUsers, st.ActiveUsers, st.TotalPoints.String(), st.AveragePoints.StringFixed(currency.DisplayPlaces), st.TotalWithdrawn.String())}
}

func (h *Handler) leaderboard(ctx context.Context, user *domain.User) reply {
	h.audit.Record(ctx, user.TelegramID, domain.ActionLeaderboard, "")
	entries, err := h.stats.Leaderboard(ctx, config.LeaderboardSize)
	if err != nil {
		return reply{text: h.errorText(user.Language, err, "leaderboard")}
	}
	if len(entries) == 0 {
		return reply{text: i18n.T(user.Language, i18n.LeaderboardEmpty)}
	}

	var sb strings.Builder
	for _, e := range entries {
		name := fmt.Sprint(e.UserID)
		if e.Username != "" {
			name = "@" + e.Username
		}
		fmt.Fprintf(&sb, "%d. %s - %s %s\n", e.Rank, name, e.Points.StringFixed(currency.DisplayPlaces), currency.Name(e.Currency))
	}
	return reply{text: i18n.T(user.Language, i18n.Leaderboard, sb.String())}
}

func (h *Handler) viewLogs(ctx context.Context, user *domain.User) reply {
	if !h.cfg.IsAdmin(user.TelegramID) {
		return reply{text: i18n.T(user.Language, i18n.AdminOnly)}
	}
	h.audit.Record(ctx, user.TelegramID, domain.ActionViewLogs, "")

	logs, err := h.audit.Recent(ctx, config.AdminLogLimit)
	if err != nil {
		return reply{text: h.errorText(user.Language, err, "view logs")}
	}
	if len(logs) == 0 {
		return reply{text: i18n.T(user.Language, i18n.NoLogs)}
	}

	var sb strings.Builder
	for _, e := range logs {
		fmt.Fprintf(&sb, "%s - %d - %s\n", e.Timestamp.Format(time.DateTime), e.UserID, e.Action)
	}
	return reply{text: i18n.T(user.Language, i18n.Logs, sb.String())}
}
