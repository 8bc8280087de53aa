package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type VerificationState string

const (
	StateIdle                     VerificationState = "idle"
	StateLinkSubmitted            VerificationState = "link_submitted"
	StateJoining                  VerificationState = "joining"
	StateInspecting               VerificationState = "inspecting"
	StateAwaitingOwnershipConfirm VerificationState = "awaiting_ownership_confirm"
	StateRewarded                 VerificationState = "rewarded"
	StateRejected                 VerificationState = "rejected"
	StateLeft                     VerificationState = "left"
)

type EntityKind string

const (
	EntityChat    EntityKind = "chat"
	EntityChannel EntityKind = "channel"
)

// EntityHandle identifies a group or channel the automation account can address.
type EntityHandle struct {
	ID         int64
	AccessHash int64
	Kind       EntityKind
	Title      string
}

// PendingVerification is the in-flight submission awaiting ownership confirmation.
type PendingVerification struct {
	Link      string
	Handle    EntityHandle
	Year      int
	Award     decimal.Decimal
	CreatedAt time.Time
}
