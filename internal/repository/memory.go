package repository

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/set-night/groupbuyer/internal/domain"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps the ledger in process memory. It has the same
// semantics as PostgresStore and backs development runs and tests.
type MemoryStore struct {
	mu             sync.Mutex
	users          map[int64]*domain.User
	withdrawals    []*domain.Withdrawal
	totalWithdrawn decimal.Decimal
	logs           []domain.LogEntry
	now            func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[int64]*domain.User),
		now:   time.Now,
	}
}

func (s *MemoryStore) Ping(_ context.Context) error { return nil }
func (s *MemoryStore) Close() error                 { return nil }

func (s *MemoryStore) GetOrCreateUser(_ context.Context, id int64, username, firstName string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.users[id]; ok {
		if u.Username != username || u.FirstName != firstName {
			u.Username, u.FirstName = username, firstName
			u.UpdatedAt = s.now()
		}
		return u.Clone(), nil
	}

	now := s.now()
	u := &domain.User{
		TelegramID: id,
		Username:   username,
		FirstName:  firstName,
		Points:     decimal.Zero,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.users[id] = u
	return u.Clone(), nil
}

func (s *MemoryStore) GetUser(_ context.Context, id int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u.Clone(), nil
}

func (s *MemoryStore) UpdateUser(_ context.Context, id int64, fn func(u *domain.User) error) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := stored.Clone()
	if err := applyUpdate(u, fn); err != nil {
		return nil, err
	}

	stored.Language = u.Language
	stored.Currency = u.Currency
	stored.Pending = u.Pending
	stored.AwaitingWithdrawal = u.AwaitingWithdrawal
	stored.UpdatedAt = s.now()
	return stored.Clone(), nil
}

func (s *MemoryStore) ConfirmReward(_ context.Context, id int64, entityID int64) (*domain.User, decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.users[id]
	if !ok {
		return nil, decimal.Zero, domain.ErrUserNotFound
	}
	u := stored.Clone()
	award, err := confirm(u, entityID)
	if err != nil && !errors.Is(err, domain.ErrAlreadySubmitted) {
		return nil, decimal.Zero, err
	}
	u.UpdatedAt = s.now()
	s.users[id] = u
	return u.Clone(), award, err
}

func (s *MemoryStore) Withdraw(_ context.Context, w *domain.Withdrawal) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[w.UserID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.AwaitingWithdrawal = false
	u.UpdatedAt = s.now()
	if u.Points.LessThan(w.Canonical) {
		return u.Clone(), domain.ErrInsufficientBalance
	}

	u.Points = u.Points.Sub(w.Canonical)
	s.totalWithdrawn = s.totalWithdrawn.Add(w.Canonical)
	recorded := *w
	s.withdrawals = append(s.withdrawals, &recorded)
	return u.Clone(), nil
}

func (s *MemoryStore) PendingEntityIDs(_ context.Context) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []int64
	for _, u := range s.users {
		if u.Pending != nil {
			ids = append(ids, u.Pending.Handle.ID)
		}
	}
	return ids, nil
}

func (s *MemoryStore) Stats(_ context.Context) (domain.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := domain.Stats{TotalPoints: decimal.Zero, TotalWithdrawn: s.totalWithdrawn}
	for _, u := range s.users {
		st.TotalUsers++
		if u.Points.IsPositive() {
			st.ActiveUsers++
		}
		st.TotalPoints = st.TotalPoints.Add(u.Points)
	}
	return st, nil
}

func (s *MemoryStore) TopUsers(_ context.Context, n int) ([]*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]*domain.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u.Clone())
	}
	slices.SortFunc(users, func(a, b *domain.User) int {
		if c := b.Points.Cmp(a.Points); c != 0 {
			return c
		}
		switch {
		case a.TelegramID < b.TelegramID:
			return -1
		case a.TelegramID > b.TelegramID:
			return 1
		}
		return 0
	})
	if len(users) > n {
		users = users[:n]
	}
	return users, nil
}

func (s *MemoryStore) AppendLog(_ context.Context, e domain.LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logs = append(s.logs, e)
	if over := len(s.logs) - MaxLogEntries; over > 0 {
		s.logs = slices.Clone(s.logs[over:])
	}
	return nil
}

func (s *MemoryStore) RecentLogs(_ context.Context, n int) ([]domain.LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := max(len(s.logs)-n, 0)
	return slices.Clone(s.logs[start:]), nil
}

// Withdrawals returns the recorded withdrawal intents for a user.
func (s *MemoryStore) Withdrawals(userID int64) []domain.Withdrawal {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Withdrawal
	for _, w := range s.withdrawals {
		if w.UserID == userID {
			out = append(out, *w)
		}
	}
	return out
}

// Seed inserts or replaces a user record as is.
func (s *MemoryStore) Seed(u *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.TelegramID] = u.Clone()
}
