package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/groupbuyer/internal/config"
	"github.com/set-night/groupbuyer/internal/domain"
)

type messageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// TelegramLogger mirrors selected audit entries and errors into topics of a
// log chat. It implements service.Forwarder.
type TelegramLogger struct {
	bot messageSender
	cfg *config.Config
}

func NewTelegramLogger(b *bot.Bot, cfg *config.Config) *TelegramLogger {
	return &TelegramLogger{bot: b, cfg: cfg}
}

type LogType string

const (
	LogTypeError        LogType = "error"
	LogTypeRegistration LogType = "registration"
	LogTypeReward       LogType = "reward"
	LogTypeWithdrawal   LogType = "withdrawal"
)

func (l *TelegramLogger) Log(logType LogType, message string) {
	if l.cfg.LogTelegramChatID == 0 {
		return
	}

	topicID := l.getTopicID(logType)
	if topicID == 0 {
		return
	}

	message = Truncate(message, config.MaxTelegramMessageLen, "\n\n... (truncated)")

	ctx, cancel := context.WithTimeout(context.Background(), config.TelegramLogTimeout)
	defer cancel()

	_, err := l.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          l.cfg.LogTelegramChatID,
		Text:            message,
		MessageThreadID: topicID,
	})
	if err != nil {
		slog.Error("failed to send telegram log", "type", logType, "error", err)
	}
}

func (l *TelegramLogger) LogError(err error, context string) {
	msg := fmt.Sprintf("❌ Error\n\nContext: %s\nError: %s\nTime: %s",
		context, err.Error(), time.Now().Format(time.DateTime))
	l.Log(LogTypeError, msg)
}

// Forward posts audit entries that have a topic in the background.
func (l *TelegramLogger) Forward(e domain.LogEntry) {
	logType, title, ok := forwardedAction(e.Action)
	if !ok {
		return
	}
	msg := fmt.Sprintf("%s\n\nUser: %d\nDetails: %s\nTime: %s",
		title, e.UserID, e.Details, e.Timestamp.Format(time.DateTime))
	go l.Log(logType, msg)
}

func forwardedAction(a domain.AuditAction) (LogType, string, bool) {
	switch a {
	case domain.ActionStart:
		return LogTypeRegistration, "👤 Start", true
	case domain.ActionRewarded:
		return LogTypeReward, "🎉 Reward", true
	case domain.ActionWithdrawn:
		return LogTypeWithdrawal, "💸 Withdrawal", true
	case domain.ActionJoinFailed:
		return LogTypeError, "⚠️ Join failed", true
	default:
		return "", "", false
	}
}

func (l *TelegramLogger) getTopicID(logType LogType) int {
	switch logType {
	case LogTypeError:
		return l.cfg.LogTopicError
	case LogTypeRegistration:
		return l.cfg.LogTopicRegistration
	case LogTypeReward:
		return l.cfg.LogTopicReward
	case LogTypeWithdrawal:
		return l.cfg.LogTopicWithdrawal
	default:
		return 0
	}
}
