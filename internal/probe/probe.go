// Package probe defines what the verification workflow needs from the
// automation account: joining, inspecting and leaving entities.
package probe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/set-night/groupbuyer/internal/domain"
	"github.com/set-night/groupbuyer/internal/link"
)

type Probe interface {
	// Snapshot lists the groups and channels the automation account is in.
	Snapshot(ctx context.Context) (EntitySet, error)
	// Join returns a *JoinError when the platform refuses the join.
	Join(ctx context.Context, l link.Link) (Joined, error)
	ResolveHandle(ctx context.Context, l link.Link, before, after EntitySet, joined Joined) (domain.EntityHandle, bool)
	CreationYear(ctx context.Context, h domain.EntityHandle) (int, bool)
	// CheckOwnership is fail-closed: any lookup error reports false.
	CheckOwnership(ctx context.Context, h domain.EntityHandle, username string) bool
	// Leave is best-effort and only logs failures.
	Leave(ctx context.Context, h domain.EntityHandle)
}

// Entity is a membership of the automation account. Date is the join date
// for channels and the creation date for basic groups.
type Entity struct {
	Handle domain.EntityHandle
	Date   time.Time
}

type EntitySet map[int64]Entity

func NewEntitySet(entities ...Entity) EntitySet {
	set := make(EntitySet, len(entities))
	for _, e := range entities {
		set[e.Handle.ID] = e
	}
	return set
}

// Diff returns the entity present in after but not in before. When several
// appeared at once the most recently dated one wins.
func Diff(before, after EntitySet) (domain.EntityHandle, bool) {
	var (
		found Entity
		ok    bool
	)
	for id, e := range after {
		if _, seen := before[id]; seen {
			continue
		}
		if !ok || e.Date.After(found.Date) {
			found, ok = e, true
		}
	}
	return found.Handle, ok
}

// Joined carries the entities reported back by a successful join.
type Joined struct {
	Entities []domain.EntityHandle
}

type JoinErrorKind int

const (
	JoinOther JoinErrorKind = iota
	JoinInviteExpired
	JoinInviteInvalid
	JoinChannelPrivate
	JoinUsernameNotFound
	JoinNotJoinable
)

func (k JoinErrorKind) String() string {
	switch k {
	case JoinInviteExpired:
		return "invite_expired"
	case JoinInviteInvalid:
		return "invite_invalid"
	case JoinChannelPrivate:
		return "channel_private"
	case JoinUsernameNotFound:
		return "username_not_found"
	case JoinNotJoinable:
		return "not_joinable"
	default:
		return "other"
	}
}

type JoinError struct {
	Kind JoinErrorKind
	Err  error
}

func (e *JoinError) Error() string {
	if e.Err == nil {
		return "join failed: " + e.Kind.String()
	}
	return fmt.Sprintf("join failed: %s: %v", e.Kind, e.Err)
}

func (e *JoinError) Unwrap() error {
	return e.Err
}

// JoinKind extracts the kind of a join failure, JoinOther for foreign errors.
func JoinKind(err error) JoinErrorKind {
	var je *JoinError
	if errors.As(err, &je) {
		return je.Kind
	}
	return JoinOther
}
