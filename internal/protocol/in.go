package protocol

import "encoding/json"

// Payloads for inbound frames. Validate tags are enforced at the parse
// boundary; frames failing validation are dropped.

// CHANGE is the generic entity mutation notification. Data holds the entity
// fields; for INSERT it is the full entity, for UPDATE a partial set, and
// for DELETE / UPDATE_IMAGE only the ID matters.
type Change struct {
	ChangeType string          `json:"change_type" validate:"required"`
	Entity     string          `json:"entity" validate:"required"`
	Data       json.RawMessage `json:"data" validate:"required"`
}

// EntityID pulls the ID out of a change payload without decoding the rest.
func (c Change) EntityID() string {
	var idOnly struct {
		ID string `json:"ID"`
	}
	if err := json.Unmarshal(c.Data, &idOnly); err != nil {
		return ""
	}
	return idOnly.ID
}

// DIRECT_MESSAGE
type DirectMessageIn struct {
	ID            string `json:"ID" validate:"required"`
	Content       string `json:"content"`
	CreatedAt     string `json:"created_at"`
	AuthorID      string `json:"author_id" validate:"required"`
	RecipientID   string `json:"recipient_id" validate:"required"`
	HasAttachment bool   `json:"has_attachment"`
}

// DIRECT_MESSAGE_UPDATE
type DirectMessageUpdateIn struct {
	ID          string `json:"ID" validate:"required"`
	Content     string `json:"content"`
	AuthorID    string `json:"author_id" validate:"required"`
	RecipientID string `json:"recipient_id" validate:"required"`
}

// DIRECT_MESSAGE_DELETE
type DirectMessageDeleteIn struct {
	ID          string `json:"ID" validate:"required"`
	AuthorID    string `json:"author_id" validate:"required"`
	RecipientID string `json:"recipient_id" validate:"required"`
}

// FRIEND_REQUEST
type FriendRequestIn struct {
	Friender  string `json:"friender" validate:"required"`
	Friended  string `json:"friended" validate:"required"`
	CreatedAt string `json:"created_at"`
}

// FRIEND_REQUEST_RESPONSE
type FriendRequestResponseIn struct {
	Friender string `json:"friender" validate:"required"`
	Friended string `json:"friended" validate:"required"`
	Accepted bool   `json:"accepted"`
}

// INVITATION
type InvitationIn struct {
	Inviter   string `json:"inviter" validate:"required"`
	Invited   string `json:"invited" validate:"required"`
	RoomID    string `json:"room_id" validate:"required"`
	CreatedAt string `json:"created_at"`
}

// INVITATION_RESPONSE
type InvitationResponseIn struct {
	Inviter  string `json:"inviter" validate:"required"`
	Invited  string `json:"invited" validate:"required"`
	RoomID   string `json:"room_id" validate:"required"`
	Accepted bool   `json:"accepted"`
}

// BLOCK
type BlockIn struct {
	Blocker string `json:"blocker" validate:"required"`
}

// ROOM_MESSAGE
type RoomMessageIn struct {
	ID            string `json:"ID" validate:"required"`
	ChannelID     string `json:"channel_id"`
	Content       string `json:"content"`
	CreatedAt     string `json:"created_at"`
	AuthorID      string `json:"author_id"`
	HasAttachment bool   `json:"has_attachment"`
}

// ROOM_MESSAGE_UPDATE
type RoomMessageUpdateIn struct {
	ID        string `json:"ID" validate:"required"`
	ChannelID string `json:"channel_id"`
	Content   string `json:"content"`
}

// ROOM_MESSAGE_DELETE
type RoomMessageDeleteIn struct {
	ID        string `json:"ID" validate:"required"`
	ChannelID string `json:"channel_id"`
}

// CALL_USER_ACKNOWLEDGE
type CallAcknowledgeIn struct {
	Caller string `json:"caller" validate:"required"`
	Called string `json:"called" validate:"required"`
}

// CALL_USER_RESPONSE
type CallResponseIn struct {
	Caller string `json:"caller" validate:"required"`
	Called string `json:"called" validate:"required"`
	Accept bool   `json:"accept"`
}

// CALL_LEFT
type CallLeftIn struct{}

// CALL_WEBRTC_OFFER_FROM_INITIATOR / CALL_WEBRTC_ANSWER_FROM_RECIPIENT
type CallSignalIn struct {
	Signal string `json:"signal" validate:"required"`

	UserMediaStreamID string `json:"um_stream_id"`
	UserMediaVid      bool   `json:"um_vid"`
	DisplayMediaVid   bool   `json:"dm_vid"`
}

// UPDATE_MEDIA_OPTIONS_OUT
type UpdateMediaOptionsIn struct {
	Uid               string `json:"uid"`
	UserMediaStreamID string `json:"um_stream_id"`
	UserMediaVid      bool   `json:"um_vid"`
	DisplayMediaVid   bool   `json:"dm_vid"`
}

// CHANNEL_WEBRTC_ALL_USERS
type ChannelAllUsersIn struct {
	Users []ChannelUserIn `json:"users"`
}

type ChannelUserIn struct {
	Uid               string `json:"uid" validate:"required"`
	UserMediaStreamID string `json:"um_stream_id"`
	UserMediaVid      bool   `json:"um_vid"`
	DisplayMediaVid   bool   `json:"dm_vid"`
}

// CHANNEL_WEBRTC_JOINED carries the new peer's offer to an existing member.
type ChannelJoinedIn struct {
	CallerID string `json:"caller_id" validate:"required"`
	Signal   string `json:"signal" validate:"required"`

	UserMediaStreamID string `json:"um_stream_id"`
	UserMediaVid      bool   `json:"um_vid"`
	DisplayMediaVid   bool   `json:"dm_vid"`
}

// CHANNEL_WEBRTC_RETURN_SIGNAL_OUT carries an answer back to the joiner.
type ChannelReturnSignalIn struct {
	Uid    string `json:"uid" validate:"required"`
	Signal string `json:"signal" validate:"required"`

	UserMediaStreamID string `json:"um_stream_id"`
	UserMediaVid      bool   `json:"um_vid"`
	DisplayMediaVid   bool   `json:"dm_vid"`
}

// CHANNEL_WEBRTC_LEFT
type ChannelLeftIn struct {
	Uid string `json:"uid" validate:"required"`
}

// ROOM_CHANNEL_WEBRTC_USER_JOINED / ROOM_CHANNEL_WEBRTC_USER_LEFT
type RoomChannelUserJoinedLeftIn struct {
	ChannelID string `json:"channel_id" validate:"required"`
	Uid       string `json:"uid" validate:"required"`
}

// ATTACHMENT_PROGRESS
type AttachmentProgressIn struct {
	ID     string  `json:"ID" validate:"required"`
	Ratio  float32 `json:"ratio"`
	Failed bool    `json:"failed"`
}
