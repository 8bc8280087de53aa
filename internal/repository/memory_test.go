package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/set-night/groupbuyer/internal/domain"
)

func pending(link string, entityID int64, award int64) *domain.PendingVerification {
	return &domain.PendingVerification{
		Link:   link,
		Handle: domain.EntityHandle{ID: entityID, Kind: domain.EntityChannel},
		Year:   2024,
		Award:  decimal.NewFromInt(award),
	}
}

func TestMemoryStore_GetOrCreateUser(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.GetUser(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	u, err := s.GetOrCreateUser(ctx, 1, "alice", "Alice")
	require.NoError(t, err)
	assert.True(t, u.Points.IsZero())
	assert.Empty(t, u.Language)

	u, err = s.GetOrCreateUser(ctx, 1, "alice2", "Alice")
	require.NoError(t, err)
	assert.Equal(t, "alice2", u.Username)
}

func TestMemoryStore_UpdateUser(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_, err := s.GetOrCreateUser(ctx, 1, "", "")
	require.NoError(t, err)

	u, err := s.UpdateUser(ctx, 1, func(u *domain.User) error {
		u.Language = "ru"
		u.Points = decimal.NewFromInt(1_000_000)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ru", u.Language)
	assert.True(t, u.Points.IsZero(), "points are not writable through UpdateUser")

	boom := fmt.Errorf("boom")
	_, err = s.UpdateUser(ctx, 1, func(u *domain.User) error {
		u.Language = "hi"
		return boom
	})
	assert.ErrorIs(t, err, boom)
	u, err = s.GetUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "ru", u.Language)

	_, err = s.UpdateUser(ctx, 2, func(*domain.User) error { return nil })
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestMemoryStore_ConfirmReward(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	s.Seed(&domain.User{TelegramID: 1, Points: decimal.NewFromInt(100), Pending: pending("t.me/a_chat", 42, 200)})

	_, _, err := s.ConfirmReward(ctx, 1, 43)
	assert.ErrorIs(t, err, domain.ErrStaleConfirmation)

	u, award, err := s.ConfirmReward(ctx, 1, 42)
	require.NoError(t, err)
	assert.Equal(t, "200", award.String())
	assert.Equal(t, "300", u.Points.String())
	assert.Equal(t, []string{"t.me/a_chat"}, u.SubmittedEntities)
	assert.Nil(t, u.Pending)

	_, _, err = s.ConfirmReward(ctx, 1, 42)
	assert.ErrorIs(t, err, domain.ErrNoPendingVerification)

	s.Seed(&domain.User{
		TelegramID:        2,
		SubmittedEntities: []string{"t.me/a_chat"},
		Pending:           pending("t.me/a_chat", 42, 200),
	})
	u, _, err = s.ConfirmReward(ctx, 2, 42)
	assert.ErrorIs(t, err, domain.ErrAlreadySubmitted)
	assert.Nil(t, u.Pending)
	assert.True(t, u.Points.IsZero())
}

func TestMemoryStore_Withdraw(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	s.Seed(&domain.User{TelegramID: 1, Points: decimal.NewFromInt(8000), AwaitingWithdrawal: true})

	w := &domain.Withdrawal{
		ID:              uuid.New(),
		UserID:          1,
		RequestAmount:   decimal.NewFromInt(50),
		RequestCurrency: "usd",
		Canonical:       decimal.NewFromInt(4000),
		Destination:     "upi-id",
		CreatedAt:       time.Now(),
	}
	u, err := s.Withdraw(ctx, w)
	require.NoError(t, err)
	assert.Equal(t, "4000", u.Points.String())
	assert.False(t, u.AwaitingWithdrawal)

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, "4000", st.TotalWithdrawn.String())
	assert.Len(t, s.Withdrawals(1), 1)

	s.Seed(&domain.User{TelegramID: 2, Points: decimal.NewFromInt(100), AwaitingWithdrawal: true})
	u, err = s.Withdraw(ctx, &domain.Withdrawal{UserID: 2, Canonical: decimal.NewFromInt(800)})
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
	assert.Equal(t, "100", u.Points.String())
	assert.False(t, u.AwaitingWithdrawal)

	st, err = s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, "4000", st.TotalWithdrawn.String())
}

func TestMemoryStore_StatsAndTopUsers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	for i, pts := range []int64{0, 500, 1500, 500} {
		s.Seed(&domain.User{TelegramID: int64(i + 1), Points: decimal.NewFromInt(pts)})
	}

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), st.TotalUsers)
	assert.Equal(t, int64(3), st.ActiveUsers)
	assert.Equal(t, "2500", st.TotalPoints.String())

	top, err := s.TopUsers(ctx, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, []int64{3, 2, 4}, []int64{top[0].TelegramID, top[1].TelegramID, top[2].TelegramID})
}

func TestMemoryStore_PendingEntityIDs(t *testing.T) {
	s := NewMemoryStore()
	s.Seed(&domain.User{TelegramID: 1, Pending: pending("t.me/x_chat", 7, 1)})
	s.Seed(&domain.User{TelegramID: 2})

	ids, err := s.PendingEntityIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, ids)
}

func TestMemoryStore_AuditLogTrim(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	for i := range MaxLogEntries + 5 {
		require.NoError(t, s.AppendLog(ctx, domain.LogEntry{UserID: int64(i), Action: domain.ActionStart}))
	}

	all, err := s.RecentLogs(ctx, 5000)
	require.NoError(t, err)
	require.Len(t, all, MaxLogEntries)
	assert.Equal(t, int64(5), all[0].UserID)

	last, err := s.RecentLogs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, last, 10)
	assert.Equal(t, int64(MaxLogEntries+4), last[9].UserID)
}
