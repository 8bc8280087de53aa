package domain

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	TelegramID         int64
	Username           string
	FirstName          string
	Language           string
	Currency           string
	Points             decimal.Decimal
	SubmittedEntities  []string
	Pending            *PendingVerification
	AwaitingWithdrawal bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// HasSubmitted reports whether link was already rewarded for this user.
func (u *User) HasSubmitted(link string) bool {
	return slices.Contains(u.SubmittedEntities, link)
}

// DisplayCurrency returns the selected currency or fallback when none is set.
func (u *User) DisplayCurrency(fallback string) string {
	if u.Currency == "" {
		return fallback
	}
	return u.Currency
}

func (u *User) Clone() *User {
	c := *u
	c.SubmittedEntities = slices.Clone(u.SubmittedEntities)
	if u.Pending != nil {
		p := *u.Pending
		c.Pending = &p
	}
	return &c
}
