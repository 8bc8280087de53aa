package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/set-night/groupbuyer/internal/callback"
	"github.com/set-night/groupbuyer/internal/domain"
	"github.com/set-night/groupbuyer/internal/link"
	"github.com/set-night/groupbuyer/internal/metrics"
	"github.com/set-night/groupbuyer/internal/probe"
	"github.com/set-night/groupbuyer/internal/repository"
	"github.com/set-night/groupbuyer/internal/reward"
)

// TextKind is how a free-text message from a user is routed.
type TextKind int

const (
	TextInvalid TextKind = iota
	TextSubmission
	TextWithdrawal
)

// Classify routes text: anything carrying a link marker is a submission even
// while a withdrawal is armed.
func Classify(u *domain.User, text string) TextKind {
	switch {
	case link.IsSubmission(text):
		return TextSubmission
	case u.AwaitingWithdrawal:
		return TextWithdrawal
	default:
		return TextInvalid
	}
}

type VerificationConfig struct {
	OwnerUsername string
	// StepTimeout bounds each call to the automation account.
	StepTimeout time.Duration
	// PendingTTL lets a new submission replace an abandoned one.
	PendingTTL time.Duration
}

type Verification struct {
	store  repository.UserStore
	probe  probe.Probe
	policy *reward.Policy
	locks  *UserLocks
	audit  *AuditService
	cfg    VerificationConfig
	now    func() time.Time

	mu       sync.Mutex
	joining  int
	inFlight map[int64]int
	joinedAt map[int64]time.Time
}

func NewVerification(store repository.UserStore, p probe.Probe, policy *reward.Policy, locks *UserLocks, audit *AuditService, cfg VerificationConfig) *Verification {
	return &Verification{
		store:    store,
		probe:    p,
		policy:   policy,
		locks:    locks,
		audit:    audit,
		cfg:      cfg,
		now:      time.Now,
		inFlight: make(map[int64]int),
		joinedAt: make(map[int64]time.Time),
	}
}

// Prompt asks the user to transfer ownership of Handle to the owner account.
type Prompt struct {
	Link   string
	Handle domain.EntityHandle
	Year   int
	Award  decimal.Decimal
	Owner  string
	Action callback.ConfirmOwnership
}

// Submit runs a submission up to the ownership prompt.
func (v *Verification) Submit(ctx context.Context, telegramID int64, text string) (*Prompt, error) {
	unlock := v.locks.Lock(telegramID)
	defer unlock()

	u, err := v.store.GetUser(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	l, err := link.Parse(text)
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}
	if u.HasSubmitted(l.Raw) {
		metrics.SubmissionsTotal.WithLabelValues("duplicate").Inc()
		v.audit.Record(ctx, telegramID, domain.ActionSubmit, "duplicate "+l.Raw)
		return nil, domain.ErrAlreadySubmitted
	}
	if p := u.Pending; p != nil {
		if v.now().Sub(p.CreatedAt) < v.cfg.PendingTTL {
			metrics.SubmissionsTotal.WithLabelValues("in_flight").Inc()
			return nil, domain.ErrVerificationInFlight
		}
		v.abandon(ctx, telegramID, *p)
	}

	v.audit.Record(ctx, telegramID, domain.ActionSubmit, l.Raw)

	v.beginJoin()
	handle, err := v.joinAndResolve(ctx, telegramID, l)
	v.endJoin(handle.ID, err == nil)
	if err != nil {
		return nil, err
	}
	defer v.release(handle.ID)

	stepCtx, cancel := context.WithTimeout(ctx, v.cfg.StepTimeout)
	year, ok := v.probe.CreationYear(stepCtx, handle)
	cancel()
	if !ok {
		metrics.SubmissionsTotal.WithLabelValues("inspection_failed").Inc()
		v.leave(ctx, handle)
		return nil, domain.ErrInspection
	}

	award := v.policy.Award(year)
	pending := &domain.PendingVerification{
		Link:      l.Raw,
		Handle:    handle,
		Year:      year,
		Award:     award,
		CreatedAt: v.now().UTC(),
	}
	_, err = v.store.UpdateUser(ctx, telegramID, func(u *domain.User) error {
		u.Pending = pending
		u.AwaitingWithdrawal = false
		return nil
	})
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues("error").Inc()
		v.leave(ctx, handle)
		return nil, fmt.Errorf("store pending verification: %w", err)
	}

	metrics.SubmissionsTotal.WithLabelValues("prompted").Inc()
	slog.Info("verification pending", "user_id", telegramID, "entity_id", handle.ID, "year", year, "award", award)
	return &Prompt{
		Link:   l.Raw,
		Handle: handle,
		Year:   year,
		Award:  award,
		Owner:  v.cfg.OwnerUsername,
		Action: callback.ConfirmOwnership{EntityID: handle.ID, Year: year},
	}, nil
}

func (v *Verification) joinAndResolve(ctx context.Context, telegramID int64, l link.Link) (domain.EntityHandle, error) {
	stepCtx, cancel := context.WithTimeout(ctx, v.cfg.StepTimeout)
	defer cancel()

	var before probe.EntitySet
	if l.Kind == link.KindInviteHash {
		set, err := v.probe.Snapshot(stepCtx)
		if err != nil {
			metrics.SubmissionsTotal.WithLabelValues("error").Inc()
			return domain.EntityHandle{}, fmt.Errorf("snapshot entities: %w", err)
		}
		before = set
	}

	joined, err := v.probe.Join(stepCtx, l)
	if err != nil {
		kind := probe.JoinKind(err)
		metrics.SubmissionsTotal.WithLabelValues("join_failed").Inc()
		metrics.JoinFailuresTotal.WithLabelValues(kind.String()).Inc()
		v.audit.Record(ctx, telegramID, domain.ActionJoinFailed, kind.String()+" "+l.Raw)
		return domain.EntityHandle{}, err
	}

	var after probe.EntitySet
	if l.Kind == link.KindInviteHash {
		set, err := v.probe.Snapshot(stepCtx)
		if err != nil {
			slog.Warn("snapshot after join", "error", err, "user_id", telegramID)
		}
		after = set
	}

	handle, ok := v.probe.ResolveHandle(stepCtx, l, before, after, joined)
	if !ok {
		// The entity stays joined; the sweeper leaves it later.
		metrics.SubmissionsTotal.WithLabelValues("unresolved").Inc()
		slog.Warn("entity handle not resolved", "user_id", telegramID, "link", l.Raw, "kind", l.Kind)
		return domain.EntityHandle{}, domain.ErrHandleResolution
	}
	return handle, nil
}

// Confirmation is the result of an ownership check.
type Confirmation struct {
	Owned   bool
	Award   decimal.Decimal
	Balance decimal.Decimal
}

// Confirm checks ownership for the pending verification matching action,
// credits the award exactly once when it holds, and leaves the entity.
func (v *Verification) Confirm(ctx context.Context, telegramID int64, action callback.ConfirmOwnership) (Confirmation, error) {
	unlock := v.locks.Lock(telegramID)
	defer unlock()

	u, err := v.store.GetUser(ctx, telegramID)
	if err != nil {
		return Confirmation{}, err
	}
	p := u.Pending
	if p == nil {
		return Confirmation{}, domain.ErrNoPendingVerification
	}
	if p.Handle.ID != action.EntityID {
		return Confirmation{}, domain.ErrStaleConfirmation
	}

	v.hold(p.Handle.ID)
	defer v.release(p.Handle.ID)
	defer v.leave(ctx, p.Handle)

	stepCtx, cancel := context.WithTimeout(ctx, v.cfg.StepTimeout)
	owned := v.probe.CheckOwnership(stepCtx, p.Handle, v.cfg.OwnerUsername)
	cancel()

	if !owned {
		u, err = v.store.UpdateUser(ctx, telegramID, func(u *domain.User) error {
			if u.Pending == nil || u.Pending.Handle.ID != p.Handle.ID {
				return domain.ErrStaleConfirmation
			}
			u.Pending = nil
			return nil
		})
		if err != nil {
			return Confirmation{}, fmt.Errorf("clear pending verification: %w", err)
		}
		metrics.ConfirmationsTotal.WithLabelValues("rejected").Inc()
		v.audit.Record(ctx, telegramID, domain.ActionRejected, p.Link)
		return Confirmation{Owned: false, Balance: u.Points}, nil
	}

	u, award, err := v.store.ConfirmReward(ctx, telegramID, p.Handle.ID)
	if err != nil {
		return Confirmation{}, err
	}
	metrics.ConfirmationsTotal.WithLabelValues("rewarded").Inc()
	points, _ := award.Float64()
	metrics.RewardedPoints.Add(points)
	v.audit.Record(ctx, telegramID, domain.ActionRewarded, fmt.Sprintf("%s year %d: %s points", p.Link, p.Year, award))
	return Confirmation{Owned: true, Award: award, Balance: u.Points}, nil
}

// abandon drops an expired pending verification before a new submission.
func (v *Verification) abandon(ctx context.Context, telegramID int64, p domain.PendingVerification) {
	_, err := v.store.UpdateUser(ctx, telegramID, func(u *domain.User) error {
		u.Pending = nil
		return nil
	})
	if err != nil {
		slog.Error("failed to drop expired verification", "error", err, "user_id", telegramID)
		return
	}
	v.leave(ctx, p.Handle)
}

func (v *Verification) leave(ctx context.Context, h domain.EntityHandle) {
	leaveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), v.cfg.StepTimeout)
	defer cancel()
	v.probe.Leave(leaveCtx, h)
}

func (v *Verification) beginJoin() {
	v.mu.Lock()
	v.joining++
	v.mu.Unlock()
}

// endJoin closes a join window, keeping the resolved entity held when ok.
func (v *Verification) endJoin(entityID int64, ok bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.joining--
	if !ok {
		return
	}
	v.inFlight[entityID]++

	now := v.now()
	for id, at := range v.joinedAt {
		if now.Sub(at) > v.cfg.PendingTTL {
			delete(v.joinedAt, id)
		}
	}
	v.joinedAt[entityID] = now
}

func (v *Verification) hold(entityID int64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.inFlight[entityID]++
}

func (v *Verification) release(entityID int64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.inFlight[entityID] <= 1 {
		delete(v.inFlight, entityID)
		return
	}
	v.inFlight[entityID]--
}

// Busy reports entities a verification is working on right now. joining is
// true while some join has not resolved to an entity yet.
func (v *Verification) Busy() (entities map[int64]struct{}, joining bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	entities = make(map[int64]struct{}, len(v.inFlight))
	for id := range v.inFlight {
		entities[id] = struct{}{}
	}
	return entities, v.joining > 0
}

// JoinedAt reports when a verification last joined entityID. Joins older
// than the pending TTL are forgotten.
func (v *Verification) JoinedAt(entityID int64) (time.Time, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	at, ok := v.joinedAt[entityID]
	return at, ok
}

// IsJoinError reports whether err came from the platform refusing a join.
func IsJoinError(err error) bool {
	var je *probe.JoinError
	return errors.As(err, &je)
}
