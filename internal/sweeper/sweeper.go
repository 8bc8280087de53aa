// Package sweeper periodically leaves entities the automation account is
// still in but no verification needs, such as joins whose handle was never
// resolved or whose best-effort leave failed.
package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/set-night/groupbuyer/internal/domain"
	"github.com/set-night/groupbuyer/internal/metrics"
	"github.com/set-night/groupbuyer/internal/probe"
)

type PendingLister interface {
	PendingEntityIDs(ctx context.Context) ([]int64, error)
}

// Guard reports entities in active use and whether a join is unresolved.
// JoinedAt is the join time for entities whose snapshot date is not one.
type Guard interface {
	Busy() (entities map[int64]struct{}, joining bool)
	JoinedAt(entityID int64) (time.Time, bool)
}

type Config struct {
	Schedule string
	Grace    time.Duration
	// Keep lists entities the account must never leave.
	Keep []int64
	// Timeout bounds a single sweep.
	Timeout time.Duration
}

type Sweeper struct {
	probe   probe.Probe
	pending PendingLister
	guard   Guard
	cfg     Config
	keep    map[int64]struct{}
	cron    *cron.Cron
	now     func() time.Time
}

func New(p probe.Probe, pending PendingLister, guard Guard, cfg Config) *Sweeper {
	keep := make(map[int64]struct{}, len(cfg.Keep))
	for _, id := range cfg.Keep {
		keep[id] = struct{}{}
	}
	return &Sweeper{
		probe:   p,
		pending: pending,
		guard:   guard,
		cfg:     cfg,
		keep:    keep,
		cron:    cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger))),
		now:     time.Now,
	}
}

func (s *Sweeper) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		runCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
		if _, err := s.Sweep(runCtx); err != nil {
			slog.Error("join sweep failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule sweeper %q: %w", s.cfg.Schedule, err)
	}
	s.cron.Start()
	slog.Info("join sweeper started", "schedule", s.cfg.Schedule, "grace", s.cfg.Grace)
	return nil
}

// Stop waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

// Sweep leaves every stale entity and returns how many it left.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	before, joining := s.guard.Busy()
	if joining {
		slog.Debug("join sweep skipped, a join is resolving")
		return 0, nil
	}

	set, err := s.probe.Snapshot(ctx)
	if err != nil {
		return 0, fmt.Errorf("snapshot entities: %w", err)
	}

	// Joins that started and resolved while the snapshot ran only show up
	// in a second read.
	after, joining := s.guard.Busy()
	if joining {
		slog.Debug("join sweep skipped, a join started during the snapshot")
		return 0, nil
	}
	busy := make(map[int64]struct{}, len(before)+len(after))
	for id := range before {
		busy[id] = struct{}{}
	}
	for id := range after {
		busy[id] = struct{}{}
	}

	ids, err := s.pending.PendingEntityIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list pending entities: %w", err)
	}
	pending := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		pending[id] = struct{}{}
	}

	now := s.now()
	left := 0
	for id, e := range set {
		if _, ok := s.keep[id]; ok {
			continue
		}
		if _, ok := pending[id]; ok {
			continue
		}
		if _, ok := busy[id]; ok {
			continue
		}
		if now.Sub(s.joinedAt(e)) < s.cfg.Grace {
			continue
		}
		s.probe.Leave(ctx, e.Handle)
		left++
	}

	if left > 0 {
		metrics.SweptEntitiesTotal.Add(float64(left))
		slog.Info("join sweep left stale entities", "count", left)
	}
	return left, nil
}

// joinedAt is the snapshot date for channels. A basic group only carries its
// creation date, so its join time comes from the guard and is zero when the
// guard never saw the join.
func (s *Sweeper) joinedAt(e probe.Entity) time.Time {
	if e.Handle.Kind != domain.EntityChat {
		return e.Date
	}
	at, _ := s.guard.JoinedAt(e.Handle.ID)
	return at
}
