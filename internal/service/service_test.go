package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/set-night/groupbuyer/internal/currency"
	"github.com/set-night/groupbuyer/internal/domain"
	"github.com/set-night/groupbuyer/internal/repository"
	"github.com/set-night/groupbuyer/internal/reward"
)

const owner = "owner_account"

type fixture struct {
	store  *repository.MemoryStore
	probe  *mockProbe
	verify *Verification
	ledger *LedgerService
	users  *UserService
	stats  *StatsService
	audit  *AuditService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	rates, err := currency.ParseRates("usd:80,gbp:100,rub:0.9,inr:1")
	require.NoError(t, err)
	conv, err := currency.NewConverter(rates)
	require.NoError(t, err)

	var table reward.Table
	require.NoError(t, table.UnmarshalText([]byte("2022:400,2023:300,2024:200")))
	policy := reward.NewPolicy(table, decimal.NewFromInt(500))

	store := repository.NewMemoryStore()
	p := &mockProbe{}
	locks := NewUserLocks()
	audit := NewAuditService(store, nil)

	return &fixture{
		store: store,
		probe: p,
		verify: NewVerification(store, p, policy, locks, audit, VerificationConfig{
			OwnerUsername: owner,
			StepTimeout:   time.Second,
			PendingTTL:    time.Hour,
		}),
		ledger: NewLedgerService(store, locks, conv, audit, LedgerConfig{
			DefaultCurrency:  "usd",
			WithdrawCurrency: "usd",
			MinBalance:       decimal.NewFromInt(700),
			MinAmount:        decimal.NewFromInt(10),
		}),
		users: NewUserService(store, locks, conv, []string{"en", "ru", "hi"}, audit),
		stats: NewStatsService(store, conv, "usd"),
		audit: audit,
	}
}

func (f *fixture) seed(u *domain.User) {
	f.store.Seed(u)
}

func (f *fixture) user(t *testing.T, id int64) *domain.User {
	t.Helper()
	u, err := f.store.GetUser(context.Background(), id)
	require.NoError(t, err)
	return u
}
