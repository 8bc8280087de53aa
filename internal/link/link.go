// Package link classifies the entity links users submit.
package link

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/set-night/groupbuyer/internal/domain"
)

// Marker is the substring that turns any message into a submission.
const Marker = "t.me/"

type Kind int

const (
	KindInviteHash Kind = iota + 1
	KindPrivateID
	KindUsername
)

func (k Kind) String() string {
	switch k {
	case KindInviteHash:
		return "invite_hash"
	case KindPrivateID:
		return "private_id"
	case KindUsername:
		return "username"
	default:
		return "unknown"
	}
}

// Link is a parsed submission. Raw is the exact submitted string and is
// what a user's submitted set is keyed by.
type Link struct {
	Raw       string
	Kind      Kind
	Hash      string
	ChannelID int64
	Username  string
}

var usernameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{3,31}$`)

// IsSubmission reports whether text should be routed to the verification
// workflow rather than treated as withdrawal input.
func IsSubmission(text string) bool {
	return strings.Contains(text, Marker)
}

func Parse(text string) (Link, error) {
	raw := extract(text)
	if raw == "" {
		return Link{}, domain.ErrInvalidLink
	}

	_, rest, _ := strings.Cut(raw, Marker)
	if i := strings.IndexAny(rest, "?#"); i >= 0 {
		rest = rest[:i]
	}
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	head := parts[0]

	l := Link{Raw: raw}
	switch {
	case head == "joinchat":
		if len(parts) < 2 || parts[1] == "" {
			return Link{}, fmt.Errorf("%w: missing invite hash", domain.ErrInvalidLink)
		}
		l.Kind, l.Hash = KindInviteHash, parts[1]
	case strings.HasPrefix(head, "+"):
		hash := strings.TrimPrefix(head, "+")
		if hash == "" {
			return Link{}, fmt.Errorf("%w: missing invite hash", domain.ErrInvalidLink)
		}
		l.Kind, l.Hash = KindInviteHash, hash
	case head == "c":
		if len(parts) < 2 {
			return Link{}, fmt.Errorf("%w: missing channel id", domain.ErrInvalidLink)
		}
		id, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil || id <= 0 {
			return Link{}, fmt.Errorf("%w: bad channel id %q", domain.ErrInvalidLink, parts[1])
		}
		l.Kind, l.ChannelID = KindPrivateID, id
	default:
		name := strings.TrimPrefix(head, "@")
		if !usernameRe.MatchString(name) {
			return Link{}, fmt.Errorf("%w: bad username %q", domain.ErrInvalidLink, head)
		}
		l.Kind, l.Username = KindUsername, name
	}
	return l, nil
}

// extract returns the first whitespace separated token carrying the marker.
func extract(text string) string {
	for _, field := range strings.Fields(text) {
		if strings.Contains(field, Marker) {
			return field
		}
	}
	return ""
}
