package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/set-night/groupbuyer/internal/currency"
	"github.com/set-night/groupbuyer/internal/domain"
	"github.com/set-night/groupbuyer/internal/repository"
	"github.com/set-night/groupbuyer/internal/service"
)

func privateMessage(userID int64, text string) *models.Update {
	return &models.Update{Message: &models.Message{
		Chat: models.Chat{ID: userID, Type: models.ChatTypePrivate},
		From: &models.User{ID: userID, FirstName: "Asha", Username: "asha"},
		Text: text,
	}}
}

func TestLimiter(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewLimiter(2)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow(1))
	assert.True(t, l.Allow(1))
	assert.False(t, l.Allow(1))
	assert.True(t, l.Allow(2), "limits are per chat")

	now = now.Add(31 * time.Second)
	assert.True(t, l.Allow(1), "one token refills every 30s")
	assert.False(t, l.Allow(1))

	now = now.Add(2 * time.Minute)
	assert.True(t, l.Allow(1))
	assert.True(t, l.Allow(1))
	assert.False(t, l.Allow(1), "an idle chat refills up to the limit only")
}

func TestLimiter_NoBurstAcrossMinuteBoundary(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewLimiter(2)
	l.now = func() time.Time { return now }
	assert.True(t, l.Allow(9))

	now = now.Add(59 * time.Second)
	assert.True(t, l.Allow(1))
	assert.True(t, l.Allow(1))

	now = now.Add(2 * time.Second)
	assert.False(t, l.Allow(1), "a minute boundary does not hand out a fresh allowance")
}

func TestLimiter_PrunesIdleChats(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewLimiter(3)
	l.now = func() time.Time { return now }
	l.Allow(1)
	l.Allow(2)

	now = now.Add(2 * time.Minute)
	l.Allow(3)
	assert.Len(t, l.chats, 1)
}

func TestLimiter_ZeroBlocksEverything(t *testing.T) {
	l := NewLimiter(0)
	assert.False(t, l.Allow(1))
}

func TestRateLimit_PassesCallbacks(t *testing.T) {
	l := NewLimiter(0)
	calls := 0
	h := RateLimit(l)(func(context.Context, *bot.Bot, *models.Update) { calls++ })

	h(context.Background(), nil, &models.Update{CallbackQuery: &models.CallbackQuery{ID: "1"}})
	assert.Equal(t, 1, calls)
}

func TestRecover(t *testing.T) {
	h := Recover()(func(context.Context, *bot.Bot, *models.Update) { panic("boom") })
	assert.NotPanics(t, func() { h(context.Background(), nil, &models.Update{}) })
}

func TestLogging_CallsNext(t *testing.T) {
	called := false
	h := Logging()(func(context.Context, *bot.Bot, *models.Update) { called = true })
	h(context.Background(), nil, privateMessage(1, "hi"))
	assert.True(t, called)
}

func TestDescribe(t *testing.T) {
	kind, chatID, userID := describe(privateMessage(5, "x"))
	assert.Equal(t, "message", kind)
	assert.Equal(t, int64(5), chatID)
	assert.Equal(t, int64(5), userID)

	kind, _, userID = describe(&models.Update{CallbackQuery: &models.CallbackQuery{From: models.User{ID: 9}}})
	assert.Equal(t, "callback_query", kind)
	assert.Equal(t, int64(9), userID)
}

func newUserService(t *testing.T) (*service.UserService, *repository.MemoryStore) {
	t.Helper()
	rates, err := currency.ParseRates("usd:80,inr:1")
	require.NoError(t, err)
	conv, err := currency.NewConverter(rates)
	require.NoError(t, err)
	store := repository.NewMemoryStore()
	audit := service.NewAuditService(store, nil)
	return service.NewUserService(store, service.NewUserLocks(), conv, []string{"en"}, audit), store
}

func TestUserLoader(t *testing.T) {
	users, store := newUserService(t)

	var got *domain.User
	h := UserLoader(users)(func(ctx context.Context, _ *bot.Bot, _ *models.Update) { got = GetUser(ctx) })

	h(context.Background(), nil, privateMessage(42, "/start"))
	require.NotNil(t, got)
	assert.Equal(t, int64(42), got.TelegramID)
	assert.Equal(t, "asha", got.Username)

	stored, err := store.GetUser(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "Asha", stored.FirstName)
}

func TestUserLoader_IgnoresGroupChats(t *testing.T) {
	users, _ := newUserService(t)

	called := false
	h := UserLoader(users)(func(context.Context, *bot.Bot, *models.Update) { called = true })

	upd := privateMessage(42, "t.me/+abc")
	upd.Message.Chat = models.Chat{ID: -100, Type: models.ChatTypeSupergroup}
	h(context.Background(), nil, upd)
	assert.False(t, called)
}
