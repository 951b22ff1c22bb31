package protocol

// Payloads for outbound frames. Field names follow the server's validation
// layer exactly.

// START_WATCHING / STOP_WATCHING
type StartStopWatching struct {
	Entity string `json:"entity"`
	ID     string `json:"id"`
}

// DIRECT_MESSAGE
type DirectMessageOut struct {
	Content string `json:"content"`
	Uid     string `json:"uid"`
}

// DIRECT_MESSAGE_UPDATE
type DirectMessageUpdateOut struct {
	Content string `json:"content"`
	MsgID   string `json:"msg_id"`
}

// DIRECT_MESSAGE_DELETE
type DirectMessageDeleteOut struct {
	MsgID string `json:"msg_id"`
}

// FRIEND_REQUEST
type FriendRequestOut struct {
	Uid string `json:"uid"`
}

// FRIEND_REQUEST_RESPONSE
type FriendRequestResponseOut struct {
	Friender string `json:"friender"`
	Accepted bool   `json:"accepted"`
}

// INVITATION
type InvitationOut struct {
	Uid    string `json:"uid"`
	RoomID string `json:"room_id"`
}

// INVITATION_RESPONSE
type InvitationResponseOut struct {
	Inviter  string `json:"inviter"`
	RoomID   string `json:"room_id"`
	Accepted bool   `json:"accepted"`
}

// BLOCK / UNBLOCK
type BlockUnblockOut struct {
	Uid string `json:"uid"`
}

// BAN / UNBAN
type BanUnbanOut struct {
	Uid    string `json:"uid"`
	RoomID string `json:"room_id"`
}

// ROOM_MESSAGE
type RoomMessageOut struct {
	Content       string `json:"content"`
	ChannelID     string `json:"channel_id"`
	HasAttachment bool   `json:"has_attachment,omitempty"`
}

// ROOM_MESSAGE_UPDATE
type RoomMessageUpdateOut struct {
	Content string `json:"content"`
	MsgID   string `json:"msg_id"`
}

// ROOM_MESSAGE_DELETE
type RoomMessageDeleteOut struct {
	MsgID string `json:"msg_id"`
}

// JOIN_ROOM / LEAVE_ROOM
type JoinLeaveRoomOut struct {
	RoomID string `json:"room_id"`
}

// JOIN_CHANNEL / LEAVE_CHANNEL
type JoinLeaveChannelOut struct {
	ChannelID string `json:"channel_id"`
}

// CALL_USER
type CallUserOut struct {
	Uid string `json:"uid"`
}

// CALL_USER_RESPONSE
type CallResponseOut struct {
	Caller string `json:"caller"`
	Called string `json:"called"`
	Accept bool   `json:"accept"`
}

// CALL_WEBRTC_OFFER / CALL_WEBRTC_ANSWER
type CallSignalOut struct {
	Signal            string `json:"signal"`
	UserMediaStreamID string `json:"um_stream_id"`
	UserMediaVid      bool   `json:"um_vid"`
	DisplayMediaVid   bool   `json:"dm_vid"`
}

// CALL_UPDATE_MEDIA_OPTIONS
type CallUpdateMediaOptionsOut struct {
	UserMediaVid      bool   `json:"um_vid"`
	DisplayMediaVid   bool   `json:"dm_vid"`
	UserMediaStreamID string `json:"um_stream_id"`
}

// CHANNEL_WEBRTC_JOIN / CHANNEL_WEBRTC_LEAVE
type ChannelWebRTCJoinLeaveOut struct {
	ChannelID string `json:"channel_id"`

	UserMediaStreamID string `json:"um_stream_id,omitempty"`
	UserMediaVid      bool   `json:"um_vid,omitempty"`
	DisplayMediaVid   bool   `json:"dm_vid,omitempty"`
}

// CHANNEL_WEBRTC_SENDING_SIGNAL
type ChannelSendingSignalOut struct {
	Signal string `json:"signal"`
	ToUid  string `json:"to_uid"`

	UserMediaStreamID string `json:"um_stream_id"`
	UserMediaVid      bool   `json:"um_vid"`
	DisplayMediaVid   bool   `json:"dm_vid"`
}

// CHANNEL_WEBRTC_RETURNING_SIGNAL
type ChannelReturningSignalOut struct {
	Signal   string `json:"signal"`
	CallerID string `json:"caller_id"`

	UserMediaStreamID string `json:"um_stream_id"`
	UserMediaVid      bool   `json:"um_vid"`
	DisplayMediaVid   bool   `json:"dm_vid"`
}

// CHANNEL_WEBRTC_UPDATE_MEDIA_OPTIONS
type ChannelUpdateMediaOptionsOut struct {
	ChannelID         string `json:"channel_id"`
	UserMediaVid      bool   `json:"um_vid"`
	DisplayMediaVid   bool   `json:"dm_vid"`
	UserMediaStreamID string `json:"um_stream_id"`
}
