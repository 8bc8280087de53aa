package handler

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/set-night/groupbuyer/internal/callback"
	"github.com/set-night/groupbuyer/internal/config"
	"github.com/set-night/groupbuyer/internal/currency"
	"github.com/set-night/groupbuyer/internal/domain"
	"github.com/set-night/groupbuyer/internal/link"
	"github.com/set-night/groupbuyer/internal/probe"
	"github.com/set-night/groupbuyer/internal/repository"
	"github.com/set-night/groupbuyer/internal/reward"
	"github.com/set-night/groupbuyer/internal/service"
)

// stubProbe joins everything as entity 77 created in 2023 unless told
// otherwise.
type stubProbe struct {
	joinErr error
	owned   bool
	left    []int64
}

var stubHandle = domain.EntityHandle{ID: 77, AccessHash: 1, Kind: domain.EntityChannel, Title: "Club"}

func (p *stubProbe) Snapshot(context.Context) (probe.EntitySet, error) {
	return probe.NewEntitySet(), nil
}

func (p *stubProbe) Join(context.Context, link.Link) (probe.Joined, error) {
	if p.joinErr != nil {
		return probe.Joined{}, p.joinErr
	}
	return probe.Joined{Entities: []domain.EntityHandle{stubHandle}}, nil
}

func (p *stubProbe) ResolveHandle(context.Context, link.Link, probe.EntitySet, probe.EntitySet, probe.Joined) (domain.EntityHandle, bool) {
	return stubHandle, true
}

func (p *stubProbe) CreationYear(context.Context, domain.EntityHandle) (int, bool) {
	return 2023, true
}

func (p *stubProbe) CheckOwnership(context.Context, domain.EntityHandle, string) bool {
	return p.owned
}

func (p *stubProbe) Leave(_ context.Context, h domain.EntityHandle) {
	p.left = append(p.left, h.ID)
}

type fixture struct {
	h     *Handler
	store *repository.MemoryStore
	probe *stubProbe
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	rates, err := currency.ParseRates("usd:80,gbp:100,rub:0.9,inr:1")
	require.NoError(t, err)
	conv, err := currency.NewConverter(rates)
	require.NoError(t, err)

	var table reward.Table
	require.NoError(t, table.UnmarshalText([]byte("2022:400,2023:300,2024:200")))

	cfg := &config.Config{
		OwnerUsername:      "owner_account",
		AdminIDs:           []int64{1},
		DefaultCurrency:    "usd",
		WithdrawCurrency:   "usd",
		MinWithdrawBalance: decimal.NewFromInt(700),
		MinWithdrawAmount:  decimal.NewFromInt(10),
	}

	store := repository.NewMemoryStore()
	p := &stubProbe{}
	locks := service.NewUserLocks()
	audit := service.NewAuditService(store, nil)

	h := New(Deps{
		Cfg:   cfg,
		Users: service.NewUserService(store, locks, conv, config.Languages, audit),
		Verification: service.NewVerification(store, p, reward.NewPolicy(table, decimal.NewFromInt(500)), locks, audit, service.VerificationConfig{
			OwnerUsername: cfg.OwnerUsername,
			StepTimeout:   time.Second,
			PendingTTL:    time.Hour,
		}),
		Ledger: service.NewLedgerService(store, locks, conv, audit, service.LedgerConfig{
			DefaultCurrency:  cfg.DefaultCurrency,
			WithdrawCurrency: cfg.WithdrawCurrency,
			MinBalance:       cfg.MinWithdrawBalance,
			MinAmount:        cfg.MinWithdrawAmount,
		}),
		Stats:      service.NewStatsService(store, conv, cfg.DefaultCurrency),
		Audit:      audit,
		Currencies: conv.Codes(),
	})
	return &fixture{h: h, store: store, probe: p}
}

func (f *fixture) user(t *testing.T, id int64) *domain.User {
	t.Helper()
	u, err := f.store.GetUser(context.Background(), id)
	require.NoError(t, err)
	return u
}

func TestOnboarding(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.Seed(&domain.User{TelegramID: 5})

	r := f.h.start(ctx, f.user(t, 5))
	assert.Contains(t, r.text, "Select your language")
	kb, ok := r.markup.(*models.InlineKeyboardMarkup)
	require.True(t, ok)
	assert.Len(t, kb.InlineKeyboard, 3)

	r = f.h.callback(ctx, f.user(t, 5), callback.SelectLanguage{Code: "ru"})
	assert.Equal(t, "💱 Выберите валюту:", r.text)
	require.NotNil(t, r.markup)

	r = f.h.callback(ctx, f.user(t, 5), callback.SelectCurrency{Code: "gbp"})
	assert.Contains(t, r.text, "🇬🇧 GBP")
	assert.Equal(t, "gbp", f.user(t, 5).Currency)
}

func TestSubmitAndConfirm(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.probe.owned = true
	f.store.Seed(&domain.User{TelegramID: 5, Language: "en"})

	r := f.h.submit(ctx, f.user(t, 5), "my group https://t.me/+AbCdEf123")
	assert.Contains(t, r.text, "Created in 2023, eligible for 300 points")
	assert.Contains(t, r.text, "@owner_account")
	kb, ok := r.markup.(*models.InlineKeyboardMarkup)
	require.True(t, ok)
	assert.Equal(t, "done:77:2023", kb.InlineKeyboard[0][0].CallbackData)

	r, fresh := f.h.confirm(ctx, f.user(t, 5), callback.ConfirmOwnership{EntityID: 77, Year: 2023})
	assert.True(t, fresh)
	assert.Equal(t, "🎉 Ownership confirmed! 300 points added to your balance.", r.text)
	assert.Equal(t, []int64{77}, f.probe.left)
	assert.True(t, decimal.NewFromInt(300).Equal(f.user(t, 5).Points))

	r, fresh = f.h.confirm(ctx, f.user(t, 5), callback.ConfirmOwnership{EntityID: 77, Year: 2023})
	assert.False(t, fresh, "a second press finds nothing pending")
	assert.Contains(t, r.text, "no pending verification")

	r = f.h.submit(ctx, f.user(t, 5), "https://t.me/+AbCdEf123")
	assert.Equal(t, "⚠️ You have already submitted this group.", r.text)
}

func TestSubmit_JoinErrors(t *testing.T) {
	cases := []struct {
		kind probe.JoinErrorKind
		want string
	}{
		{probe.JoinChannelPrivate, "private or restricted"},
		{probe.JoinNotJoinable, "private or restricted"},
		{probe.JoinInviteExpired, "expired"},
		{probe.JoinInviteInvalid, "invite link is invalid"},
		{probe.JoinUsernameNotFound, "No group or channel"},
		{probe.JoinOther, "Could not join"},
	}
	for _, tc := range cases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			f := newFixture(t)
			f.probe.joinErr = &probe.JoinError{Kind: tc.kind, Err: errors.New("rpc")}
			f.store.Seed(&domain.User{TelegramID: 5, Language: "en"})

			r := f.h.submit(context.Background(), f.user(t, 5), "t.me/some_group")
			assert.Contains(t, r.text, tc.want)
			assert.Nil(t, f.user(t, 5).Pending)
		})
	}
}

func TestWithdrawFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.Seed(&domain.User{TelegramID: 5, Language: "en", Points: decimal.NewFromInt(600)})

	r := f.h.withdraw(ctx, f.user(t, 5))
	assert.Equal(t, "❌ You need at least 700 points to withdraw.", r.text)
	assert.False(t, f.user(t, 5).AwaitingWithdrawal)

	f.store.Seed(&domain.User{TelegramID: 5, Language: "en", Points: decimal.NewFromInt(5000)})
	r = f.h.withdraw(ctx, f.user(t, 5))
	assert.Contains(t, r.text, "🇺🇸 USD")
	assert.True(t, f.user(t, 5).AwaitingWithdrawal)

	r = f.h.withdrawInput(ctx, f.user(t, 5), "50 name@upi")
	assert.Equal(t, "✅ Withdrawal of 50.00 🇺🇸 USD requested. Remaining balance: 12.50 🇺🇸 USD", r.text)
	assert.False(t, f.user(t, 5).AwaitingWithdrawal)
	assert.True(t, decimal.NewFromInt(1000).Equal(f.user(t, 5).Points))
}

func TestWithdraw_WhileVerificationPending(t *testing.T) {
	f := newFixture(t)
	f.store.Seed(&domain.User{
		TelegramID: 5,
		Language:   "en",
		Points:     decimal.NewFromInt(5000),
		Pending:    &domain.PendingVerification{Link: "t.me/some_group", Handle: domain.EntityHandle{ID: 77, Kind: domain.EntityChannel}},
	})

	r := f.h.withdraw(context.Background(), f.user(t, 5))
	assert.Equal(t, "⏳ Finish the current verification before withdrawing.", r.text)

	u := f.user(t, 5)
	assert.False(t, u.AwaitingWithdrawal)
	assert.NotNil(t, u.Pending)
}

func TestWithdrawInputErrors(t *testing.T) {
	cases := map[string]string{
		"fifty upi":  "Invalid format",
		"5 name@upi": "Minimum withdrawal is 10 🇺🇸 USD",
		"90 upi":     "Insufficient points",
	}
	for input, want := range cases {
		t.Run(input, func(t *testing.T) {
			f := newFixture(t)
			f.store.Seed(&domain.User{TelegramID: 5, Language: "en", Points: decimal.NewFromInt(7000), AwaitingWithdrawal: true})

			r := f.h.withdrawInput(context.Background(), f.user(t, 5), input)
			assert.Contains(t, r.text, want)
			assert.False(t, f.user(t, 5).AwaitingWithdrawal)
		})
	}
}

func TestBalanceCommands(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.Seed(&domain.User{TelegramID: 5, Language: "en", Currency: "gbp", Points: decimal.NewFromInt(1000), SubmittedEntities: []string{"t.me/+a", "t.me/b"}})

	assert.Equal(t, "💰 Your balance: 10.00 🇬🇧 GBP", f.h.points(ctx, f.user(t, 5)).text)
	assert.Contains(t, f.h.portfolio(ctx, f.user(t, 5)).text, "Groups sold: 2")
	assert.Equal(t, "📋 Your submitted groups:\nt.me/+a\nt.me/b", f.h.myGroups(ctx, f.user(t, 5)).text)

	f.store.Seed(&domain.User{TelegramID: 6, Language: "en"})
	assert.Equal(t, "❌ No groups submitted yet.", f.h.myGroups(ctx, f.user(t, 6)).text)
}

func TestStatsAndLeaderboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.Seed(&domain.User{TelegramID: 5, Username: "asha", Language: "en", Points: decimal.NewFromInt(800)})
	f.store.Seed(&domain.User{TelegramID: 6, Language: "en", Currency: "inr", Points: decimal.NewFromInt(400)})

	r := f.h.botStats(ctx, f.user(t, 5))
	assert.Contains(t, r.text, "Users: 2")
	assert.Contains(t, r.text, "Average points: 600.00")

	r = f.h.leaderboard(ctx, f.user(t, 5))
	assert.Equal(t, "🏆 Leaderboard\n\n1. @asha - 10.00 🇺🇸 USD\n2. 6 - 400.00 🇮🇳 INR\n", r.text)
}

func TestViewLogs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.Seed(&domain.User{TelegramID: 1, Language: "en"})
	f.store.Seed(&domain.User{TelegramID: 2, Language: "en"})

	assert.Equal(t, "⛔ This command is for admins only.", f.h.viewLogs(ctx, f.user(t, 2)).text)

	for i := range 15 {
		f.h.audit.Record(ctx, 2, domain.ActionPoints, fmt.Sprint(i))
	}
	r := f.h.viewLogs(ctx, f.user(t, 1))
	assert.Contains(t, r.text, "Recent logs")
	assert.Contains(t, r.text, "- 1 - viewlogs")
}
