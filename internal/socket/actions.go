package socket

import "psocial/client/internal/protocol"

// Outbound enqueues one event frame for sending.
type Outbound interface {
	Send(eventType string, data interface{})
}

// Actions is the outbound operation surface exposed to the UI. Each method
// is fire-and-forget: frames are dropped with a warning when the socket is
// down, and the resulting state lands via the server's echo, never locally.
type Actions struct {
	conn Outbound
}

func NewActions(conn Outbound) *Actions {
	return &Actions{conn: conn}
}

func (a *Actions) SendDirectMessage(uid, content string) {
	a.conn.Send(protocol.EventDirectMessage, protocol.DirectMessageOut{Content: content, Uid: uid})
}

func (a *Actions) UpdateDirectMessage(msgID, content string) {
	a.conn.Send(protocol.EventDirectMessageUpdate, protocol.DirectMessageUpdateOut{Content: content, MsgID: msgID})
}

func (a *Actions) DeleteDirectMessage(msgID string) {
	a.conn.Send(protocol.EventDirectMessageDelete, protocol.DirectMessageDeleteOut{MsgID: msgID})
}

func (a *Actions) SendFriendRequest(uid string) {
	a.conn.Send(protocol.EventFriendRequest, protocol.FriendRequestOut{Uid: uid})
}

func (a *Actions) RespondToFriendRequest(friender string, accepted bool) {
	a.conn.Send(protocol.EventFriendRequestResponse, protocol.FriendRequestResponseOut{
		Friender: friender,
		Accepted: accepted,
	})
}

func (a *Actions) SendInvitation(uid, roomID string) {
	a.conn.Send(protocol.EventInvitation, protocol.InvitationOut{Uid: uid, RoomID: roomID})
}

func (a *Actions) RespondToInvitation(inviter, roomID string, accepted bool) {
	a.conn.Send(protocol.EventInvitationResponse, protocol.InvitationResponseOut{
		Inviter:  inviter,
		RoomID:   roomID,
		Accepted: accepted,
	})
}

func (a *Actions) Block(uid string) {
	a.conn.Send(protocol.EventBlock, protocol.BlockUnblockOut{Uid: uid})
}

func (a *Actions) Unblock(uid string) {
	a.conn.Send(protocol.EventUnblock, protocol.BlockUnblockOut{Uid: uid})
}

func (a *Actions) Ban(uid, roomID string) {
	a.conn.Send(protocol.EventBan, protocol.BanUnbanOut{Uid: uid, RoomID: roomID})
}

func (a *Actions) Unban(uid, roomID string) {
	a.conn.Send(protocol.EventUnban, protocol.BanUnbanOut{Uid: uid, RoomID: roomID})
}

func (a *Actions) SendRoomMessage(channelID, content string, hasAttachment bool) {
	a.conn.Send(protocol.EventRoomMessage, protocol.RoomMessageOut{
		Content:       content,
		ChannelID:     channelID,
		HasAttachment: hasAttachment,
	})
}

func (a *Actions) UpdateRoomMessage(msgID, content string) {
	a.conn.Send(protocol.EventRoomMessageUpdate, protocol.RoomMessageUpdateOut{Content: content, MsgID: msgID})
}

func (a *Actions) DeleteRoomMessage(msgID string) {
	a.conn.Send(protocol.EventRoomMessageDelete, protocol.RoomMessageDeleteOut{MsgID: msgID})
}

func (a *Actions) JoinRoom(roomID string) {
	a.conn.Send(protocol.EventJoinRoom, protocol.JoinLeaveRoomOut{RoomID: roomID})
}

func (a *Actions) LeaveRoom(roomID string) {
	a.conn.Send(protocol.EventLeaveRoom, protocol.JoinLeaveRoomOut{RoomID: roomID})
}

func (a *Actions) JoinChannel(channelID string) {
	a.conn.Send(protocol.EventJoinChannel, protocol.JoinLeaveChannelOut{ChannelID: channelID})
}

func (a *Actions) LeaveChannel(channelID string) {
	a.conn.Send(protocol.EventLeaveChannel, protocol.JoinLeaveChannelOut{ChannelID: channelID})
}
