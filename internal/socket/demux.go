package socket

import (
	"encoding/json"
	"log"

	"psocial/client/internal/cache"
	"psocial/client/internal/models"
	"psocial/client/internal/protocol"
)

// The demux fans inbound frames out to the stores and call machines. Every
// sink below is the narrow slice of its package the demux actually touches;
// tests substitute mocks.

type EntityCache interface {
	Upsert(kind cache.Kind, raw json.RawMessage)
	Patch(kind cache.Kind, id string, raw json.RawMessage)
	Remove(kind cache.Kind, id string)
	ReplaceImage(kind cache.Kind, id string)
}

type ConversationSink interface {
	Receive(item models.ConversationItem)
	UpdateMessageContent(authorID, recipientID, msgID, content string)
	RemoveMessage(authorID, recipientID, msgID string)
	SetFriendRequestAccepted(friender, friended string, accepted bool)
	SetInvitationAccepted(inviter, invited, roomID string, accepted bool)
	Block(uid string)
}

type FeedSink interface {
	Append(channelID string, msg models.RoomMessage)
	Update(channelID, msgID, content string)
	Remove(channelID, msgID string)
}

type CallSink interface {
	Acknowledge(caller, called string)
	Response(caller, called string, accept bool)
	OfferFromInitiator(in protocol.CallSignalIn)
	AnswerFromRecipient(in protocol.CallSignalIn)
	RequestedReInit()
	PeerMediaOptions(in protocol.UpdateMediaOptionsIn)
	Left()
}

type ChannelCallSink interface {
	AllUsers(in protocol.ChannelAllUsersIn)
	UserJoined(in protocol.ChannelJoinedIn)
	ReturnedSignal(in protocol.ChannelReturnSignalIn)
	UserLeft(uid string)
	PeerMediaOptions(in protocol.UpdateMediaOptionsIn)
	RosterJoined(channelID, uid string)
	RosterLeft(channelID, uid string)
}

// Demux routes inbound socket frames by event type. Frames that do not
// parse, fail validation, or name an unknown event are dropped without
// disturbing the stream; handlers run on the read pump goroutine so
// delivery order is preserved.
type Demux struct {
	cache        EntityCache
	inbox        ConversationSink
	feed         FeedSink
	calls        CallSink
	channelCalls ChannelCallSink

	inCall func() bool
}

func NewDemux(c EntityCache, inbox ConversationSink, feed FeedSink, calls CallSink, channelCalls ChannelCallSink, inCall func() bool) *Demux {
	return &Demux{
		cache:        c,
		inbox:        inbox,
		feed:         feed,
		calls:        calls,
		channelCalls: channelCalls,
		inCall:       inCall,
	}
}

func (d *Demux) Handle(raw []byte) {
	// Keep-alive replies are bare payloads, not envelopes.
	if string(raw) == "PONG" {
		return
	}

	env, err := protocol.ParseEnvelope(raw)
	if err != nil {
		log.Println("Dropping unreadable socket frame:", err)
		return
	}

	switch env.EventType {
	case protocol.EventChange:
		d.handleChange(env)

	case protocol.EventDirectMessage:
		var in protocol.DirectMessageIn
		if !d.decode(env, &in) {
			return
		}
		d.inbox.Receive(models.ConversationItem{
			Kind: models.ItemDirectMessage,
			Message: &models.DirectMessage{
				ID:            in.ID,
				Content:       in.Content,
				CreatedAt:     in.CreatedAt,
				AuthorID:      in.AuthorID,
				RecipientID:   in.RecipientID,
				HasAttachment: in.HasAttachment,
			},
		})
	case protocol.EventDirectMessageUpdate:
		var in protocol.DirectMessageUpdateIn
		if !d.decode(env, &in) {
			return
		}
		d.inbox.UpdateMessageContent(in.AuthorID, in.RecipientID, in.ID, in.Content)
	case protocol.EventDirectMessageDelete:
		var in protocol.DirectMessageDeleteIn
		if !d.decode(env, &in) {
			return
		}
		d.inbox.RemoveMessage(in.AuthorID, in.RecipientID, in.ID)

	case protocol.EventFriendRequest:
		var in protocol.FriendRequestIn
		if !d.decode(env, &in) {
			return
		}
		d.inbox.Receive(models.ConversationItem{
			Kind: models.ItemFriendRequest,
			FriendRequest: &models.FriendRequest{
				Friender:  in.Friender,
				Friended:  in.Friended,
				CreatedAt: in.CreatedAt,
			},
		})
	case protocol.EventFriendRequestResponse:
		var in protocol.FriendRequestResponseIn
		if !d.decode(env, &in) {
			return
		}
		d.inbox.SetFriendRequestAccepted(in.Friender, in.Friended, in.Accepted)

	case protocol.EventInvitation:
		var in protocol.InvitationIn
		if !d.decode(env, &in) {
			return
		}
		d.inbox.Receive(models.ConversationItem{
			Kind: models.ItemInvitation,
			Invitation: &models.Invitation{
				Inviter:   in.Inviter,
				Invited:   in.Invited,
				RoomID:    in.RoomID,
				CreatedAt: in.CreatedAt,
			},
		})
	case protocol.EventInvitationResponse:
		var in protocol.InvitationResponseIn
		if !d.decode(env, &in) {
			return
		}
		d.inbox.SetInvitationAccepted(in.Inviter, in.Invited, in.RoomID, in.Accepted)

	case protocol.EventBlock:
		var in protocol.BlockIn
		if !d.decode(env, &in) {
			return
		}
		d.inbox.Block(in.Blocker)

	case protocol.EventRoomMessage:
		var in protocol.RoomMessageIn
		if !d.decode(env, &in) {
			return
		}
		d.feed.Append(in.ChannelID, models.RoomMessage{
			ID:            in.ID,
			ChannelID:     in.ChannelID,
			Content:       in.Content,
			CreatedAt:     in.CreatedAt,
			AuthorID:      in.AuthorID,
			HasAttachment: in.HasAttachment,
		})
	case protocol.EventRoomMessageUpdate:
		var in protocol.RoomMessageUpdateIn
		if !d.decode(env, &in) {
			return
		}
		d.feed.Update(in.ChannelID, in.ID, in.Content)
	case protocol.EventRoomMessageDelete:
		var in protocol.RoomMessageDeleteIn
		if !d.decode(env, &in) {
			return
		}
		d.feed.Remove(in.ChannelID, in.ID)

	case protocol.EventCallUserAcknowledge:
		var in protocol.CallAcknowledgeIn
		if !d.decode(env, &in) {
			return
		}
		d.calls.Acknowledge(in.Caller, in.Called)
	case protocol.EventCallUserResponse:
		var in protocol.CallResponseIn
		if !d.decode(env, &in) {
			return
		}
		d.calls.Response(in.Caller, in.Called, in.Accept)
	case protocol.EventCallLeft:
		d.calls.Left()
	case protocol.EventCallWebRTCOfferFromInitiator:
		var in protocol.CallSignalIn
		if !d.decode(env, &in) {
			return
		}
		d.calls.OfferFromInitiator(in)
	case protocol.EventCallWebRTCAnswerFromRecipient:
		var in protocol.CallSignalIn
		if !d.decode(env, &in) {
			return
		}
		d.calls.AnswerFromRecipient(in)
	case protocol.EventCallWebRTCRequestedReInit:
		d.calls.RequestedReInit()

	case protocol.EventUpdateMediaOptionsOut:
		// Shared by 1:1 and channel calls; route on which machine is live.
		var in protocol.UpdateMediaOptionsIn
		if !d.decode(env, &in) {
			return
		}
		if d.inCall != nil && d.inCall() {
			d.calls.PeerMediaOptions(in)
		} else {
			d.channelCalls.PeerMediaOptions(in)
		}

	case protocol.EventChannelWebRTCAllUsers:
		var in protocol.ChannelAllUsersIn
		if !d.decode(env, &in) {
			return
		}
		d.channelCalls.AllUsers(in)
	case protocol.EventChannelWebRTCJoined:
		var in protocol.ChannelJoinedIn
		if !d.decode(env, &in) {
			return
		}
		d.channelCalls.UserJoined(in)
	case protocol.EventChannelWebRTCReturnSignalOut:
		var in protocol.ChannelReturnSignalIn
		if !d.decode(env, &in) {
			return
		}
		d.channelCalls.ReturnedSignal(in)
	case protocol.EventChannelWebRTCLeft:
		var in protocol.ChannelLeftIn
		if !d.decode(env, &in) {
			return
		}
		d.channelCalls.UserLeft(in.Uid)

	case protocol.EventRoomChannelWebRTCUserJoined:
		var in protocol.RoomChannelUserJoinedLeftIn
		if !d.decode(env, &in) {
			return
		}
		d.channelCalls.RosterJoined(in.ChannelID, in.Uid)
	case protocol.EventRoomChannelWebRTCUserLeft:
		var in protocol.RoomChannelUserJoinedLeftIn
		if !d.decode(env, &in) {
			return
		}
		d.channelCalls.RosterLeft(in.ChannelID, in.Uid)

	case protocol.EventAttachmentProgress:
		var in protocol.AttachmentProgressIn
		if !d.decode(env, &in) {
			return
		}
		d.cache.Patch(cache.KindAttachment, in.ID, env.Data)

	default:
		log.Printf("Ignoring unknown event type %q", env.EventType)
	}
}

// handleChange routes an entity mutation by (entity, change type). Unknown
// combinations are ignored; the server may grow new ones.
func (d *Demux) handleChange(env protocol.Envelope) {
	var change protocol.Change
	if !d.decode(env, &change) {
		return
	}
	id := change.EntityID()
	if id == "" {
		log.Println("Dropping change frame with no entity ID")
		return
	}

	kind, ok := changeKind(change.Entity)
	if !ok {
		log.Printf("Ignoring change for unknown entity %q", change.Entity)
		return
	}

	// BIO rides on the owning user's cache entry.
	if change.Entity == protocol.EntityBio {
		switch change.ChangeType {
		case protocol.ChangeInsert, protocol.ChangeUpdate:
			d.cache.Patch(cache.KindUser, id, change.Data)
		case protocol.ChangeDelete:
			d.cache.Patch(cache.KindUser, id, json.RawMessage(`{"content":""}`))
		}
		return
	}

	switch change.ChangeType {
	case protocol.ChangeInsert:
		d.cache.Upsert(kind, change.Data)
	case protocol.ChangeUpdate:
		d.cache.Patch(kind, id, change.Data)
	case protocol.ChangeDelete:
		d.cache.Remove(kind, id)
	case protocol.ChangeUpdateImage:
		d.cache.ReplaceImage(kind, id)
	default:
		log.Printf("Ignoring unknown change type %q for %s %q", change.ChangeType, change.Entity, id)
	}
}

func changeKind(entity string) (cache.Kind, bool) {
	switch entity {
	case protocol.EntityUser, protocol.EntityBio:
		return cache.KindUser, true
	case protocol.EntityRoom:
		return cache.KindRoom, true
	case protocol.EntityAttachment:
		return cache.KindAttachment, true
	}
	return "", false
}

func (d *Demux) decode(env protocol.Envelope, dst interface{}) bool {
	if err := protocol.DecodePayload(env, dst); err != nil {
		log.Printf("Dropping invalid %s frame: %v", env.EventType, err)
		return false
	}
	return true
}
