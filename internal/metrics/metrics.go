// Package metrics holds the service's Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "groupbuyer"

var (
	startTime = time.Now()

	// UptimeSeconds tracks the service uptime in seconds
	UptimeSeconds = promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "uptime_seconds",
		Help:      "Time passed since the service started in seconds",
	}, func() float64 { return time.Since(startTime).Seconds() })

	UpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "bot",
		Name:      "updates_total",
		Help:      "Telegram updates handled (type=message/callback/other)",
	}, []string{"type"})

	UpdatesRateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "bot",
		Name:      "updates_rate_limited_total",
		Help:      "Updates dropped by the per-user rate limiter",
	})

	PanicsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "bot",
		Name:      "panics_total",
		Help:      "Panics recovered in update handlers",
	})

	// Verification workflow
	SubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "verification",
		Name:      "submissions_total",
		Help:      "Link submissions by outcome (prompted/duplicate/in_flight/join_failed/unresolved/inspection_failed/error)",
	}, []string{"outcome"})

	JoinFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "verification",
		Name:      "join_failures_total",
		Help:      "Failed joins by platform reason",
	}, []string{"kind"})

	ConfirmationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "verification",
		Name:      "confirmations_total",
		Help:      "Ownership confirmations by outcome (rewarded/rejected)",
	}, []string{"outcome"})

	RewardedPoints = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "rewarded_points_total",
		Help:      "Canonical points credited for confirmed ownership",
	})

	// Ledger
	WithdrawalsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "withdrawals_total",
		Help:      "Withdrawal executions (status=ok/insufficient)",
	}, []string{"status"})

	WithdrawnPoints = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "withdrawn_points_total",
		Help:      "Canonical points deducted by withdrawals",
	})

	// Automation account
	ProbeConnected = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "probe",
		Name:      "connected",
		Help:      "1 while the automation account connection is live",
	})

	ProbeReconnectsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "probe",
		Name:      "reconnects_total",
		Help:      "Automation account connection restarts",
	})

	SweptEntitiesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "sweeper",
		Name:      "left_entities_total",
		Help:      "Stale entities left by the join sweeper",
	})
)
