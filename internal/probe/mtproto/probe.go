package mtproto

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"

	"github.com/set-night/groupbuyer/internal/config"
	"github.com/set-night/groupbuyer/internal/domain"
	"github.com/set-night/groupbuyer/internal/link"
	"github.com/set-night/groupbuyer/internal/probe"
)

type apiSource interface {
	API(ctx context.Context) (*tg.Client, error)
}

// Probe drives the automation account through the supervisor's live client.
type Probe struct {
	src apiSource
}

var _ probe.Probe = (*Probe)(nil)

func New(src *Supervisor) *Probe {
	return &Probe{src: src}
}

func (p *Probe) Snapshot(ctx context.Context) (probe.EntitySet, error) {
	api, err := p.src.API(ctx)
	if err != nil {
		return nil, err
	}
	res, err := api.MessagesGetAllChats(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("get all chats: %w", err)
	}
	return entitySet(chatsOf(res)), nil
}

func (p *Probe) Join(ctx context.Context, l link.Link) (probe.Joined, error) {
	api, err := p.src.API(ctx)
	if err != nil {
		return probe.Joined{}, &probe.JoinError{Kind: probe.JoinOther, Err: err}
	}

	switch l.Kind {
	case link.KindInviteHash:
		upd, err := api.MessagesImportChatInvite(ctx, l.Hash)
		if tgerr.Is(err, "USER_ALREADY_PARTICIPANT") {
			return probe.Joined{}, nil
		}
		if err != nil {
			return probe.Joined{}, joinError(err)
		}
		return joinedFromUpdates(upd), nil

	case link.KindUsername:
		h, err := p.resolveUsername(ctx, api, l.Username)
		if err != nil {
			return probe.Joined{}, err
		}
		if h.Kind != domain.EntityChannel {
			return probe.Joined{}, &probe.JoinError{Kind: probe.JoinNotJoinable}
		}
		upd, err := api.ChannelsJoinChannel(ctx, inputChannel(h))
		if err != nil {
			return probe.Joined{}, joinError(err)
		}
		joined := joinedFromUpdates(upd)
		if len(joined.Entities) == 0 {
			joined.Entities = []domain.EntityHandle{h}
		}
		return joined, nil

	case link.KindPrivateID:
		// Private channels cannot be joined by id; the account must already be in it.
		set, err := p.Snapshot(ctx)
		if err != nil {
			return probe.Joined{}, &probe.JoinError{Kind: probe.JoinOther, Err: err}
		}
		e, ok := set[l.ChannelID]
		if !ok {
			return probe.Joined{}, &probe.JoinError{Kind: probe.JoinChannelPrivate}
		}
		return probe.Joined{Entities: []domain.EntityHandle{e.Handle}}, nil
	}
	return probe.Joined{}, &probe.JoinError{Kind: probe.JoinOther, Err: domain.ErrInvalidLink}
}

func (p *Probe) resolveUsername(ctx context.Context, api *tg.Client, username string) (domain.EntityHandle, error) {
	res, err := api.ContactsResolveUsername(ctx, &tg.ContactsResolveUsernameRequest{Username: username})
	if err != nil {
		return domain.EntityHandle{}, joinError(err)
	}
	for _, c := range res.Chats {
		if h, ok := handleFromChat(c); ok {
			return h, nil
		}
	}
	return domain.EntityHandle{}, &probe.JoinError{Kind: probe.JoinUsernameNotFound}
}

func (p *Probe) ResolveHandle(ctx context.Context, l link.Link, before, after probe.EntitySet, joined probe.Joined) (domain.EntityHandle, bool) {
	switch l.Kind {
	case link.KindInviteHash:
		if h, ok := probe.Diff(before, after); ok {
			return h, true
		}
		if len(joined.Entities) == 1 {
			return joined.Entities[0], true
		}
		return p.inviteTarget(ctx, l.Hash)

	case link.KindUsername:
		api, err := p.src.API(ctx)
		if err != nil {
			return domain.EntityHandle{}, false
		}
		h, err := p.resolveUsername(ctx, api, l.Username)
		if err != nil {
			slog.Warn("resolve username", "error", err, "username", l.Username)
			return domain.EntityHandle{}, false
		}
		return h, true

	case link.KindPrivateID:
		for _, h := range joined.Entities {
			if h.ID == l.ChannelID {
				return h, true
			}
		}
		set, err := p.Snapshot(ctx)
		if err != nil {
			return domain.EntityHandle{}, false
		}
		e, ok := set[l.ChannelID]
		return e.Handle, ok
	}
	return domain.EntityHandle{}, false
}

// inviteTarget asks the platform which chat an invite points at. It only
// answers once the account is a member.
func (p *Probe) inviteTarget(ctx context.Context, hash string) (domain.EntityHandle, bool) {
	api, err := p.src.API(ctx)
	if err != nil {
		return domain.EntityHandle{}, false
	}
	invite, err := api.MessagesCheckChatInvite(ctx, hash)
	if err != nil {
		slog.Warn("check chat invite", "error", err)
		return domain.EntityHandle{}, false
	}
	already, ok := invite.(*tg.ChatInviteAlready)
	if !ok {
		return domain.EntityHandle{}, false
	}
	return handleFromChat(already.Chat)
}

func (p *Probe) CreationYear(ctx context.Context, h domain.EntityHandle) (int, bool) {
	api, err := p.src.API(ctx)
	if err != nil {
		return 0, false
	}

	var full *tg.MessagesChatFull
	if h.Kind == domain.EntityChannel {
		full, err = api.ChannelsGetFullChannel(ctx, inputChannel(h))
	} else {
		full, err = api.MessagesGetFullChat(ctx, h.ID)
	}
	if err != nil {
		slog.Warn("get full entity", "error", err, "entity_id", h.ID)
		return 0, false
	}
	return creationYear(full.Chats, h.ID)
}

func (p *Probe) CheckOwnership(ctx context.Context, h domain.EntityHandle, username string) bool {
	api, err := p.src.API(ctx)
	if err != nil {
		return false
	}

	if h.Kind == domain.EntityChannel {
		res, err := api.ChannelsGetParticipants(ctx, &tg.ChannelsGetParticipantsRequest{
			Channel: inputChannel(h),
			Filter:  &tg.ChannelParticipantsAdmins{},
			Limit:   config.OwnershipPageSize,
		})
		if err != nil {
			slog.Warn("get channel participants", "error", err, "entity_id", h.ID)
			return false
		}
		page, ok := res.(*tg.ChannelsChannelParticipants)
		if !ok {
			return false
		}
		creator, ok := channelCreator(page.Participants)
		return ok && creatorIs(page.Users, creator, username)
	}

	full, err := api.MessagesGetFullChat(ctx, h.ID)
	if err != nil {
		slog.Warn("get full chat", "error", err, "entity_id", h.ID)
		return false
	}
	chat, ok := full.FullChat.(*tg.ChatFull)
	if !ok {
		return false
	}
	creator, ok := chatCreator(chat.Participants)
	return ok && creatorIs(full.Users, creator, username)
}

func (p *Probe) Leave(ctx context.Context, h domain.EntityHandle) {
	api, err := p.src.API(ctx)
	if err != nil {
		slog.Warn("leave entity", "error", err, "entity_id", h.ID)
		return
	}

	if h.Kind == domain.EntityChannel {
		_, err = api.ChannelsLeaveChannel(ctx, inputChannel(h))
	} else {
		_, err = api.MessagesDeleteChatUser(ctx, &tg.MessagesDeleteChatUserRequest{
			ChatID: h.ID,
			UserID: &tg.InputUserSelf{},
		})
	}
	if err != nil {
		slog.Warn("leave entity", "error", err, "entity_id", h.ID, "kind", h.Kind)
		return
	}
	slog.Debug("left entity", "entity_id", h.ID)
}
