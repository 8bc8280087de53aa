package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/set-night/groupbuyer/internal/currency"
	"github.com/set-night/groupbuyer/internal/domain"
	"github.com/set-night/groupbuyer/internal/repository"
)

type UserService struct {
	store     repository.UserStore
	locks     *UserLocks
	conv      *currency.Converter
	languages []string
	audit     *AuditService
}

func NewUserService(store repository.UserStore, locks *UserLocks, conv *currency.Converter, languages []string, audit *AuditService) *UserService {
	return &UserService{store: store, locks: locks, conv: conv, languages: languages, audit: audit}
}

func (s *UserService) FindOrCreate(ctx context.Context, telegramID int64, firstName, username string) (*domain.User, error) {
	u, err := s.store.GetOrCreateUser(ctx, telegramID, username, firstName)
	if err != nil {
		return nil, fmt.Errorf("find or create user: %w", err)
	}
	return u, nil
}

func (s *UserService) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	return s.store.GetUser(ctx, telegramID)
}

// Start records a /start; the language and currency pickers follow.
func (s *UserService) Start(ctx context.Context, telegramID int64) {
	s.audit.Record(ctx, telegramID, domain.ActionStart, "")
}

func (s *UserService) SelectLanguage(ctx context.Context, telegramID int64, code string) (*domain.User, error) {
	if !slices.Contains(s.languages, code) {
		return nil, fmt.Errorf("unsupported language %q", code)
	}

	unlock := s.locks.Lock(telegramID)
	defer unlock()

	u, err := s.store.UpdateUser(ctx, telegramID, func(u *domain.User) error {
		u.Language = code
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("select language: %w", err)
	}
	s.audit.Record(ctx, telegramID, domain.ActionLanguage, code)
	return u, nil
}

func (s *UserService) SelectCurrency(ctx context.Context, telegramID int64, code string) (*domain.User, error) {
	if !s.conv.Supported(code) {
		return nil, fmt.Errorf("select currency %q: %w", code, currency.ErrUnsupported)
	}

	unlock := s.locks.Lock(telegramID)
	defer unlock()

	u, err := s.store.UpdateUser(ctx, telegramID, func(u *domain.User) error {
		u.Currency = code
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("select currency: %w", err)
	}
	s.audit.Record(ctx, telegramID, domain.ActionCurrency, code)
	return u, nil
}

// Groups lists the links already rewarded for the user.
func (s *UserService) Groups(ctx context.Context, telegramID int64) ([]string, error) {
	u, err := s.store.GetUser(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, telegramID, domain.ActionMyGroups, "")
	return u.SubmittedEntities, nil
}
