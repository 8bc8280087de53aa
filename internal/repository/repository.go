package repository

import (
	"context"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/set-night/groupbuyer/internal/domain"
)

// MaxLogEntries is how many audit entries a store retains.
const MaxLogEntries = 1000

type UserStore interface {
	GetOrCreateUser(ctx context.Context, id int64, username, firstName string) (*domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	// UpdateUser applies fn to the locked user and saves the result when fn
	// returns nil. SubmittedEntities and Points are not written by this path.
	UpdateUser(ctx context.Context, id int64, fn func(u *domain.User) error) (*domain.User, error)
	// ConfirmReward credits the pending award for entityID, records its link
	// and clears the pending verification in one step.
	ConfirmReward(ctx context.Context, id int64, entityID int64) (*domain.User, decimal.Decimal, error)
	// Withdraw deducts w.Canonical, records w, grows the withdrawn total and
	// clears the awaiting flag. On ErrInsufficientBalance only the flag is cleared.
	Withdraw(ctx context.Context, w *domain.Withdrawal) (*domain.User, error)
	PendingEntityIDs(ctx context.Context) ([]int64, error)
}

type StatsStore interface {
	Stats(ctx context.Context) (domain.Stats, error)
	TopUsers(ctx context.Context, n int) ([]*domain.User, error)
}

type AuditStore interface {
	AppendLog(ctx context.Context, e domain.LogEntry) error
	// RecentLogs returns up to n most recent entries, oldest first.
	RecentLogs(ctx context.Context, n int) ([]domain.LogEntry, error)
}

type Store interface {
	UserStore
	StatsStore
	AuditStore
	Ping(ctx context.Context) error
	Close() error
}

// confirm applies a confirmed reward to u. Shared by both stores.
func confirm(u *domain.User, entityID int64) (decimal.Decimal, error) {
	p := u.Pending
	if p == nil {
		return decimal.Zero, domain.ErrNoPendingVerification
	}
	if p.Handle.ID != entityID {
		return decimal.Zero, domain.ErrStaleConfirmation
	}
	u.Pending = nil
	if u.HasSubmitted(p.Link) {
		return decimal.Zero, domain.ErrAlreadySubmitted
	}
	u.Points = u.Points.Add(p.Award)
	u.SubmittedEntities = append(u.SubmittedEntities, p.Link)
	return p.Award, nil
}

// applyUpdate runs an UpdateUser callback on u and puts back the fields that
// path never writes.
func applyUpdate(u *domain.User, fn func(u *domain.User) error) error {
	points, submitted := u.Points, slices.Clone(u.SubmittedEntities)
	if err := fn(u); err != nil {
		return err
	}
	u.Points, u.SubmittedEntities = points, submitted
	return nil
}
