package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Withdrawal is a recorded payout intent. No funds are moved.
type Withdrawal struct {
	ID              uuid.UUID
	UserID          int64
	RequestAmount   decimal.Decimal
	RequestCurrency string
	Canonical       decimal.Decimal
	Destination     string
	CreatedAt       time.Time
}
