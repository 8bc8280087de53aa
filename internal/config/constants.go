package config

import "time"

const (
	// Ownership check page size
	OwnershipPageSize = 100

	// Automation account reconnect backoff
	ProbeInitialBackoff = 1 * time.Second
	ProbeMaxBackoff     = 10 * time.Second
	ProbeWaitTimeout    = 30 * time.Second

	// Upper bound for one verification step against the platform
	ProbeStepTimeout = 45 * time.Second

	// A pending verification older than this may be replaced
	PendingTTL = 24 * time.Hour

	// Upper bound for one sweep run
	SweepTimeout = 5 * time.Minute

	// Audit log read windows
	PublicLogLimit = 100
	AdminLogLimit  = 10

	LeaderboardSize = 10

	// Telegram limits
	MaxTelegramMessageLen = 4096
	TelegramLogTimeout    = 10 * time.Second

	// Rate limits (per minute)
	RateLimitPerMinute = 20

	// Database pool
	DBMaxConns = 20
	DBMinConns = 2

	// HTTP server
	HTTPReadTimeout     = 10 * time.Second
	HTTPShutdownTimeout = 5 * time.Second

	// Preview pre-check
	PreviewTimeout = 5 * time.Second
)

// Languages offered on /start, in keyboard order.
var Languages = []string{"en", "ru", "hi"}
