package telegram

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/set-night/groupbuyer/internal/callback"
	"github.com/set-night/groupbuyer/internal/config"
	"github.com/set-night/groupbuyer/internal/domain"
)

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"short"}, SplitMessage("short", 10))

	parts := SplitMessage("aaaa\nbbbb\ncccc", 10)
	assert.Equal(t, []string{"aaaa\nbbbb\n", "cccc"}, parts)

	long := strings.Repeat("я", 25)
	parts = SplitMessage(long, 10)
	require.Len(t, parts, 3)
	assert.Equal(t, long, strings.Join(parts, ""))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5, "..."))
	assert.Equal(t, "ab...", Truncate("abcdefgh", 5, "..."))
	assert.Equal(t, "...", Truncate("abcdefgh", 2, "..."))
}

func TestKeyboards(t *testing.T) {
	lang := LanguageKeyboard([]string{"en", "ru", "hi"})
	require.Len(t, lang.InlineKeyboard, 3)
	assert.Equal(t, "lang:ru", lang.InlineKeyboard[1][0].CallbackData)

	curr := CurrencyKeyboard([]string{"usd", "gbp", "rub"})
	require.Len(t, curr.InlineKeyboard, 2)
	assert.Len(t, curr.InlineKeyboard[0], 2)
	assert.Equal(t, "curr:rub", curr.InlineKeyboard[1][0].CallbackData)

	confirm := ConfirmKeyboard("en", callback.ConfirmOwnership{EntityID: 42, Year: 2023})
	assert.Equal(t, "done:42:2023", confirm.InlineKeyboard[0][0].CallbackData)
}

type recordingSender struct {
	mu   sync.Mutex
	sent []*bot.SendMessageParams
	done chan struct{}
}

func (r *recordingSender) SendMessage(_ context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	r.mu.Lock()
	r.sent = append(r.sent, params)
	r.mu.Unlock()
	r.done <- struct{}{}
	return &models.Message{}, nil
}

func TestTelegramLogger_Forward(t *testing.T) {
	sender := &recordingSender{done: make(chan struct{}, 4)}
	l := &TelegramLogger{bot: sender, cfg: &config.Config{
		LogTelegramChatID: -100,
		LogTopicReward:    7,
	}}

	l.Forward(domain.LogEntry{Timestamp: time.Now(), UserID: 1, Action: domain.ActionPoints})
	l.Forward(domain.LogEntry{Timestamp: time.Now(), UserID: 1, Action: domain.ActionWithdrawn})
	l.Forward(domain.LogEntry{Timestamp: time.Now(), UserID: 1, Action: domain.ActionRewarded, Details: "t.me/+abc"})

	select {
	case <-sender.done:
	case <-time.After(time.Second):
		t.Fatal("reward entry was not forwarded")
	}

	sender.mu.Lock()
	defer sender.mu.Unlock()
	require.Len(t, sender.sent, 1)
	assert.Equal(t, int64(-100), sender.sent[0].ChatID)
	assert.Equal(t, 7, sender.sent[0].MessageThreadID)
	assert.Contains(t, sender.sent[0].Text, "t.me/+abc")
}

func TestTelegramLogger_DisabledWithoutChat(t *testing.T) {
	sender := &recordingSender{done: make(chan struct{}, 1)}
	l := &TelegramLogger{bot: sender, cfg: &config.Config{LogTopicError: 3}}
	l.Log(LogTypeError, "boom")
	assert.Empty(t, sender.sent)
}
