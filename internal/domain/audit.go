package domain

import "time"

type AuditAction string

const (
	ActionStart       AuditAction = "start"
	ActionLanguage    AuditAction = "language"
	ActionCurrency    AuditAction = "currency"
	ActionSubmit      AuditAction = "submit"
	ActionJoinFailed  AuditAction = "join_failed"
	ActionRewarded    AuditAction = "rewarded"
	ActionRejected    AuditAction = "rejected"
	ActionPoints      AuditAction = "points"
	ActionPortfolio   AuditAction = "portfolio"
	ActionWithdraw    AuditAction = "withdraw"
	ActionWithdrawn   AuditAction = "withdrawn"
	ActionMyGroups    AuditAction = "mygroups"
	ActionStats       AuditAction = "stats"
	ActionLeaderboard AuditAction = "leaderboard"
	ActionViewLogs    AuditAction = "viewlogs"
)

type LogEntry struct {
	Timestamp time.Time   `json:"timestamp"`
	UserID    int64       `json:"user_id"`
	Action    AuditAction `json:"action"`
	Details   string      `json:"details"`
}
