package domain

import "github.com/shopspring/decimal"

type Stats struct {
	TotalUsers     int64           `json:"total_users"`
	ActiveUsers    int64           `json:"active_users"`
	TotalPoints    decimal.Decimal `json:"total_points"`
	AveragePoints  decimal.Decimal `json:"avg_points"`
	TotalWithdrawn decimal.Decimal `json:"total_withdrawn"`
}

type LeaderboardEntry struct {
	Rank     int             `json:"rank"`
	UserID   int64           `json:"user_id"`
	Username string          `json:"username,omitempty"`
	Points   decimal.Decimal `json:"points"`
	Currency string          `json:"currency"`
}
