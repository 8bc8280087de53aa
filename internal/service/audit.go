package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/set-night/groupbuyer/internal/domain"
	"github.com/set-night/groupbuyer/internal/repository"
)

// Forwarder receives every recorded entry, e.g. to mirror it to a log chat.
type Forwarder interface {
	Forward(e domain.LogEntry)
}

type AuditService struct {
	store     repository.AuditStore
	forwarder Forwarder
	now       func() time.Time
}

func NewAuditService(store repository.AuditStore, forwarder Forwarder) *AuditService {
	return &AuditService{store: store, forwarder: forwarder, now: time.Now}
}

// Record appends an entry. Failures are logged and never reach the caller.
func (s *AuditService) Record(ctx context.Context, userID int64, action domain.AuditAction, details string) {
	e := domain.LogEntry{
		Timestamp: s.now().UTC(),
		UserID:    userID,
		Action:    action,
		Details:   details,
	}
	if err := s.store.AppendLog(ctx, e); err != nil {
		slog.Error("failed to append audit entry", "error", err, "user_id", userID, "action", action)
	}
	if s.forwarder != nil {
		s.forwarder.Forward(e)
	}
}

func (s *AuditService) Recent(ctx context.Context, n int) ([]domain.LogEntry, error) {
	return s.store.RecentLogs(ctx, n)
}
