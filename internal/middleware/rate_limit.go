package middleware

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"golang.org/x/time/rate"

	"github.com/set-night/groupbuyer/internal/i18n"
	"github.com/set-night/groupbuyer/internal/metrics"
)

// Limiter keeps a token bucket per chat refilling perMinute tokens a minute.
type Limiter struct {
	limit int
	every rate.Limit
	now   func() time.Time

	mu     sync.Mutex
	pruned time.Time
	chats  map[int64]*rate.Limiter
}

func NewLimiter(perMinute int) *Limiter {
	var every rate.Limit
	if perMinute > 0 {
		every = rate.Every(time.Minute / time.Duration(perMinute))
	}
	return &Limiter{
		limit: perMinute,
		every: every,
		now:   time.Now,
		chats: make(map[int64]*rate.Limiter),
	}
}

// Allow takes one token from chatID's bucket and reports whether one was
// available.
func (l *Limiter) Allow(chatID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.pruned) >= time.Minute {
		l.prune(now)
	}
	lim, ok := l.chats[chatID]
	if !ok {
		lim = rate.NewLimiter(l.every, l.limit)
		l.chats[chatID] = lim
	}
	return lim.AllowN(now, 1)
}

// prune drops buckets that have refilled completely, which behave exactly
// like new ones.
func (l *Limiter) prune(now time.Time) {
	l.pruned = now
	for id, lim := range l.chats {
		if lim.TokensAt(now) >= float64(l.limit) {
			delete(l.chats, id)
		}
	}
}

// RateLimit returns middleware that enforces per-minute rate limits.
func RateLimit(limiter *Limiter) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			// Only messages are limited; callbacks finish flows already started
			if update.Message == nil {
				next(ctx, b, update)
				return
			}

			chatID := update.Message.Chat.ID
			if !limiter.Allow(chatID) {
				metrics.UpdatesRateLimitedTotal.Inc()
				slog.Debug("rate limited", "chat_id", chatID, "limit", limiter.limit)
				lang := ""
				if u := GetUser(ctx); u != nil {
					lang = u.Language
				}
				b.SendMessage(ctx, &bot.SendMessageParams{
					ChatID: chatID,
					Text:   i18n.T(lang, i18n.TooManyRequests),
				})
				return
			}

			next(ctx, b, update)
		}
	}
}
