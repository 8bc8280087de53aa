// Package mtproto implements probe.Probe on top of a gotd/td user client.
package mtproto

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/tg"

	"github.com/set-night/groupbuyer/internal/domain"
	"github.com/set-night/groupbuyer/internal/metrics"
)

var ErrUnauthorized = errors.New("automation account session is not authorized")

type SupervisorConfig struct {
	AppID       int
	AppHash     string
	SessionFile string

	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	// WaitTimeout bounds how long an operation waits for a live connection.
	WaitTimeout time.Duration
}

// Supervisor keeps the automation account connected. It restarts the client
// after failures with exponential backoff and hands the live API to callers.
type Supervisor struct {
	client *telegram.Client
	cfg    SupervisorConfig
	// connect runs one session, calling connected once the API is live.
	connect func(ctx context.Context, connected func()) error

	mu    sync.Mutex
	api   *tg.Client
	ready chan struct{}
}

func NewSupervisor(cfg SupervisorConfig) *Supervisor {
	client := telegram.NewClient(cfg.AppID, cfg.AppHash, telegram.Options{
		SessionStorage: &session.FileStorage{Path: cfg.SessionFile},
		NoUpdates:      true,
	})
	s := &Supervisor{
		client: client,
		cfg:    cfg,
		ready:  make(chan struct{}),
	}
	s.connect = s.runClient
	return s
}

// sessionBackOff waits the full MaxBackoff after an unauthorized session,
// which only a login outside the process can fix.
type sessionBackOff struct {
	*backoff.ExponentialBackOff
	unauthorized bool
}

func (b *sessionBackOff) NextBackOff() time.Duration {
	next := b.ExponentialBackOff.NextBackOff()
	if b.unauthorized {
		return b.MaxInterval
	}
	return next
}

// Run blocks until ctx is cancelled. An unauthorized session is retried too,
// so a login through cmd/login recovers without a restart.
func (s *Supervisor) Run(ctx context.Context) error {
	b := &sessionBackOff{ExponentialBackOff: backoff.NewExponentialBackOff()}
	b.InitialInterval = s.cfg.InitialBackoff
	b.MaxInterval = s.cfg.MaxBackoff
	b.MaxElapsedTime = 0
	b.Reset()

	op := func() error {
		err := s.connect(ctx, b.Reset)
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		b.unauthorized = errors.Is(err, ErrUnauthorized)
		return err
	}

	notify := func(err error, next time.Duration) {
		metrics.ProbeReconnectsTotal.Inc()
		if errors.Is(err, ErrUnauthorized) {
			slog.Error("automation account is not logged in, run the login command",
				"session_file", s.cfg.SessionFile, "retry_in", next)
			return
		}
		slog.Warn("automation account disconnected", "error", err, "retry_in", next)
	}

	err := backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (s *Supervisor) runClient(ctx context.Context, connected func()) error {
	return s.client.Run(ctx, func(ctx context.Context) error {
		status, err := s.client.Auth().Status(ctx)
		if err != nil {
			return fmt.Errorf("auth status: %w", err)
		}
		if !status.Authorized {
			return ErrUnauthorized
		}
		s.setLive(s.client.API())
		defer s.setDown()
		connected()

		slog.Info("automation account connected")
		<-ctx.Done()
		return ctx.Err()
	})
}

func (s *Supervisor) setLive(api *tg.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.api = api
	close(s.ready)
	metrics.ProbeConnected.Set(1)
}

func (s *Supervisor) setDown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.api = nil
	s.ready = make(chan struct{})
	metrics.ProbeConnected.Set(0)
}

// API returns the live client, waiting up to WaitTimeout for a reconnect.
func (s *Supervisor) API(ctx context.Context) (*tg.Client, error) {
	for {
		s.mu.Lock()
		api, ready := s.api, s.ready
		s.mu.Unlock()
		if api != nil {
			return api, nil
		}

		timer := time.NewTimer(s.cfg.WaitTimeout)
		select {
		case <-ready:
			timer.Stop()
		case <-timer.C:
			return nil, domain.ErrProbeUnavailable
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		}
	}
}
