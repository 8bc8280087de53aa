package mtproto

import (
	"strings"
	"time"

	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"

	"github.com/set-night/groupbuyer/internal/domain"
	"github.com/set-night/groupbuyer/internal/probe"
)

// entityFromChat converts a chat the account is an active member of.
func entityFromChat(c tg.ChatClass) (probe.Entity, bool) {
	switch c := c.(type) {
	case *tg.Chat:
		if c.Left || c.Deactivated {
			return probe.Entity{}, false
		}
		return probe.Entity{
			Handle: domain.EntityHandle{ID: c.ID, Kind: domain.EntityChat, Title: c.Title},
			Date:   unix(c.Date),
		}, true
	case *tg.Channel:
		if c.Left {
			return probe.Entity{}, false
		}
		return probe.Entity{
			Handle: domain.EntityHandle{ID: c.ID, AccessHash: c.AccessHash, Kind: domain.EntityChannel, Title: c.Title},
			Date:   unix(c.Date),
		}, true
	default:
		return probe.Entity{}, false
	}
}

func handleFromChat(c tg.ChatClass) (domain.EntityHandle, bool) {
	switch c := c.(type) {
	case *tg.Chat:
		return domain.EntityHandle{ID: c.ID, Kind: domain.EntityChat, Title: c.Title}, true
	case *tg.Channel:
		return domain.EntityHandle{ID: c.ID, AccessHash: c.AccessHash, Kind: domain.EntityChannel, Title: c.Title}, true
	default:
		return domain.EntityHandle{}, false
	}
}

func entitySet(chats []tg.ChatClass) probe.EntitySet {
	set := make(probe.EntitySet, len(chats))
	for _, c := range chats {
		if e, ok := entityFromChat(c); ok {
			set[e.Handle.ID] = e
		}
	}
	return set
}

func chatsOf(res tg.MessagesChatsClass) []tg.ChatClass {
	switch r := res.(type) {
	case *tg.MessagesChats:
		return r.Chats
	case *tg.MessagesChatsSlice:
		return r.Chats
	default:
		return nil
	}
}

func joinedFromUpdates(u tg.UpdatesClass) probe.Joined {
	var chats []tg.ChatClass
	switch u := u.(type) {
	case *tg.Updates:
		chats = u.Chats
	case *tg.UpdatesCombined:
		chats = u.Chats
	}
	var joined probe.Joined
	for _, c := range chats {
		if h, ok := handleFromChat(c); ok {
			joined.Entities = append(joined.Entities, h)
		}
	}
	return joined
}

func creationYear(chats []tg.ChatClass, id int64) (int, bool) {
	for _, c := range chats {
		switch c := c.(type) {
		case *tg.Chat:
			if c.ID == id {
				return unix(c.Date).Year(), true
			}
		case *tg.Channel:
			if c.ID == id {
				return unix(c.Date).Year(), true
			}
		}
	}
	return 0, false
}

// creatorIs reports whether creatorID belongs to a user named username.
func creatorIs(users []tg.UserClass, creatorID int64, username string) bool {
	username = strings.TrimPrefix(username, "@")
	for _, u := range users {
		user, ok := u.(*tg.User)
		if !ok || user.ID != creatorID {
			continue
		}
		if strings.EqualFold(user.Username, username) {
			return true
		}
		for _, alt := range user.Usernames {
			if alt.Active && strings.EqualFold(alt.Username, username) {
				return true
			}
		}
	}
	return false
}

func channelCreator(participants []tg.ChannelParticipantClass) (int64, bool) {
	for _, p := range participants {
		if c, ok := p.(*tg.ChannelParticipantCreator); ok {
			return c.UserID, true
		}
	}
	return 0, false
}

func chatCreator(participants tg.ChatParticipantsClass) (int64, bool) {
	list, ok := participants.(*tg.ChatParticipants)
	if !ok {
		return 0, false
	}
	for _, p := range list.Participants {
		if c, ok := p.(*tg.ChatParticipantCreator); ok {
			return c.UserID, true
		}
	}
	return 0, false
}

func joinError(err error) error {
	kind := probe.JoinOther
	switch {
	case tgerr.Is(err, "INVITE_HASH_EXPIRED"):
		kind = probe.JoinInviteExpired
	case tgerr.Is(err, "INVITE_HASH_INVALID", "INVITE_HASH_EMPTY"):
		kind = probe.JoinInviteInvalid
	case tgerr.Is(err, "CHANNEL_PRIVATE", "CHANNEL_INVALID"):
		kind = probe.JoinChannelPrivate
	case tgerr.Is(err, "USERNAME_NOT_OCCUPIED", "USERNAME_INVALID"):
		kind = probe.JoinUsernameNotFound
	case tgerr.Is(err, "USER_BANNED_IN_CHANNEL", "CHAT_ADMIN_REQUIRED", "CHANNELS_TOO_MUCH", "INVITE_REQUEST_SENT", "CHAT_WRITE_FORBIDDEN"):
		kind = probe.JoinNotJoinable
	}
	return &probe.JoinError{Kind: kind, Err: err}
}

func inputChannel(h domain.EntityHandle) *tg.InputChannel {
	return &tg.InputChannel{ChannelID: h.ID, AccessHash: h.AccessHash}
}

func unix(ts int) time.Time {
	return time.Unix(int64(ts), 0).UTC()
}
