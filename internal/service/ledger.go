package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/set-night/groupbuyer/internal/currency"
	"github.com/set-night/groupbuyer/internal/domain"
	"github.com/set-night/groupbuyer/internal/metrics"
	"github.com/set-night/groupbuyer/internal/repository"
)

type LedgerConfig struct {
	DefaultCurrency  string
	WithdrawCurrency string
	// MinBalance is the canonical balance needed to start a withdrawal.
	MinBalance decimal.Decimal
	// MinAmount is the smallest request, in WithdrawCurrency.
	MinAmount decimal.Decimal
}

type LedgerService struct {
	store repository.UserStore
	locks *UserLocks
	conv  *currency.Converter
	audit *AuditService
	cfg   LedgerConfig
	now   func() time.Time
}

func NewLedgerService(store repository.UserStore, locks *UserLocks, conv *currency.Converter, audit *AuditService, cfg LedgerConfig) *LedgerService {
	return &LedgerService{store: store, locks: locks, conv: conv, audit: audit, cfg: cfg, now: time.Now}
}

// Balance is a user's canonical balance alongside its display conversion.
type Balance struct {
	Canonical decimal.Decimal
	Display   decimal.Decimal
	Currency  string
}

func (s *LedgerService) Balance(ctx context.Context, telegramID int64, action domain.AuditAction) (Balance, error) {
	u, err := s.store.GetUser(ctx, telegramID)
	if err != nil {
		return Balance{}, err
	}
	s.audit.Record(ctx, telegramID, action, "")
	return s.balanceOf(u)
}

func (s *LedgerService) balanceOf(u *domain.User) (Balance, error) {
	code := u.DisplayCurrency(s.cfg.DefaultCurrency)
	if !s.conv.Supported(code) {
		code = s.cfg.DefaultCurrency
	}
	display, err := s.conv.ToDisplay(u.Points, code)
	if err != nil {
		return Balance{}, err
	}
	return Balance{Canonical: u.Points, Display: display, Currency: code}, nil
}

// RequestWithdrawal arms the user for withdrawal input when the balance
// reaches the threshold. Arming is refused while a verification is pending.
func (s *LedgerService) RequestWithdrawal(ctx context.Context, telegramID int64) error {
	unlock := s.locks.Lock(telegramID)
	defer unlock()

	_, err := s.store.UpdateUser(ctx, telegramID, func(u *domain.User) error {
		if u.Points.LessThan(s.cfg.MinBalance) {
			return domain.ErrBelowWithdrawalThreshold
		}
		if u.Pending != nil {
			return domain.ErrVerificationInFlight
		}
		u.AwaitingWithdrawal = true
		return nil
	})
	s.audit.Record(ctx, telegramID, domain.ActionWithdraw, errDetail(err))
	return err
}

// ParseWithdrawal splits "<amount> <destination>" input.
func ParseWithdrawal(text string) (decimal.Decimal, string, error) {
	amountText, destination, ok := strings.Cut(strings.TrimSpace(text), " ")
	destination = strings.TrimSpace(destination)
	if !ok || destination == "" {
		return decimal.Zero, "", domain.ErrInvalidWithdrawalInput
	}
	amount, err := decimal.NewFromString(amountText)
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, "", domain.ErrInvalidWithdrawalInput
	}
	return amount, destination, nil
}

// ExecuteWithdrawal processes withdrawal input from an armed user. The
// awaiting flag is cleared whatever the outcome.
func (s *LedgerService) ExecuteWithdrawal(ctx context.Context, telegramID int64, text string) (*domain.Withdrawal, Balance, error) {
	unlock := s.locks.Lock(telegramID)
	defer unlock()

	u, err := s.store.GetUser(ctx, telegramID)
	if err != nil {
		return nil, Balance{}, err
	}
	if !u.AwaitingWithdrawal {
		return nil, Balance{}, domain.ErrInvalidLink
	}

	w, err := s.prepare(telegramID, text)
	if err != nil {
		s.disarm(ctx, telegramID)
		s.audit.Record(ctx, telegramID, domain.ActionWithdrawn, errDetail(err))
		return nil, Balance{}, err
	}

	u, err = s.store.Withdraw(ctx, w)
	if err != nil {
		s.audit.Record(ctx, telegramID, domain.ActionWithdrawn, errDetail(err))
		if errors.Is(err, domain.ErrInsufficientBalance) {
			metrics.WithdrawalsTotal.WithLabelValues("insufficient").Inc()
		}
		return nil, Balance{}, err
	}

	metrics.WithdrawalsTotal.WithLabelValues("ok").Inc()
	amount, _ := w.Canonical.Float64()
	metrics.WithdrawnPoints.Add(amount)
	s.audit.Record(ctx, telegramID, domain.ActionWithdrawn,
		fmt.Sprintf("%s %s to %s (%s points)", w.RequestAmount, w.RequestCurrency, w.Destination, w.Canonical))

	bal, err := s.balanceOf(u)
	return w, bal, err
}

func (s *LedgerService) prepare(telegramID int64, text string) (*domain.Withdrawal, error) {
	amount, destination, err := ParseWithdrawal(text)
	if err != nil {
		return nil, err
	}
	if amount.LessThan(s.cfg.MinAmount) {
		return nil, domain.ErrBelowMinimumWithdrawal
	}
	canonical, err := s.conv.ToCanonical(amount, s.cfg.WithdrawCurrency)
	if err != nil {
		return nil, err
	}
	return &domain.Withdrawal{
		ID:              uuid.New(),
		UserID:          telegramID,
		RequestAmount:   amount,
		RequestCurrency: s.cfg.WithdrawCurrency,
		Canonical:       canonical,
		Destination:     destination,
		CreatedAt:       s.now().UTC(),
	}, nil
}

func (s *LedgerService) disarm(ctx context.Context, telegramID int64) {
	_, err := s.store.UpdateUser(ctx, telegramID, func(u *domain.User) error {
		u.AwaitingWithdrawal = false
		return nil
	})
	if err != nil {
		slog.Error("failed to clear withdrawal flag", "error", err, "user_id", telegramID)
	}
}

func errDetail(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
