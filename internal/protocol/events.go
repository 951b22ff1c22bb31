package protocol

import "encoding/json"

// Every frame on the socket, both directions, has this shape.
type Envelope struct {
	EventType string          `json:"event_type"`
	Data      json.RawMessage `json:"data"`
}

// Outbound event types.
const (
	EventStartWatching = "START_WATCHING"
	EventStopWatching  = "STOP_WATCHING"

	EventDirectMessage       = "DIRECT_MESSAGE"
	EventDirectMessageUpdate = "DIRECT_MESSAGE_UPDATE"
	EventDirectMessageDelete = "DIRECT_MESSAGE_DELETE"

	EventFriendRequest         = "FRIEND_REQUEST"
	EventFriendRequestResponse = "FRIEND_REQUEST_RESPONSE"

	EventInvitation         = "INVITATION"
	EventInvitationResponse = "INVITATION_RESPONSE"

	EventBlock   = "BLOCK"
	EventUnblock = "UNBLOCK"
	EventBan     = "BAN"
	EventUnban   = "UNBAN"

	EventRoomMessage       = "ROOM_MESSAGE"
	EventRoomMessageUpdate = "ROOM_MESSAGE_UPDATE"
	EventRoomMessageDelete = "ROOM_MESSAGE_DELETE"

	EventJoinRoom     = "JOIN_ROOM"
	EventLeaveRoom    = "LEAVE_ROOM"
	EventJoinChannel  = "JOIN_CHANNEL"
	EventLeaveChannel = "LEAVE_CHANNEL"

	EventCallUser               = "CALL_USER"
	EventCallUserResponse       = "CALL_USER_RESPONSE"
	EventCallLeave              = "CALL_LEAVE"
	EventCallWebRTCOffer        = "CALL_WEBRTC_OFFER"
	EventCallWebRTCAnswer       = "CALL_WEBRTC_ANSWER"
	EventCallUpdateMediaOptions = "CALL_UPDATE_MEDIA_OPTIONS"

	EventChannelWebRTCJoin               = "CHANNEL_WEBRTC_JOIN"
	EventChannelWebRTCLeave              = "CHANNEL_WEBRTC_LEAVE"
	EventChannelWebRTCSendingSignal      = "CHANNEL_WEBRTC_SENDING_SIGNAL"
	EventChannelWebRTCReturningSignal    = "CHANNEL_WEBRTC_RETURNING_SIGNAL"
	EventChannelWebRTCUpdateMediaOptions = "CHANNEL_WEBRTC_UPDATE_MEDIA_OPTIONS"
)

// Inbound event types.
const (
	EventChange = "CHANGE"

	EventCallUserAcknowledge = "CALL_USER_ACKNOWLEDGE"
	EventCallLeft            = "CALL_LEFT"

	EventCallWebRTCOfferFromInitiator  = "CALL_WEBRTC_OFFER_FROM_INITIATOR"
	EventCallWebRTCAnswerFromRecipient = "CALL_WEBRTC_ANSWER_FROM_RECIPIENT"
	EventCallWebRTCRequestedReInit     = "CALL_WEBRTC_REQUESTED_REINITIALIZATION"
	EventUpdateMediaOptionsOut         = "UPDATE_MEDIA_OPTIONS_OUT"

	EventChannelWebRTCAllUsers        = "CHANNEL_WEBRTC_ALL_USERS"
	EventChannelWebRTCJoined          = "CHANNEL_WEBRTC_JOINED"
	EventChannelWebRTCReturnSignalOut = "CHANNEL_WEBRTC_RETURN_SIGNAL_OUT"
	EventChannelWebRTCLeft            = "CHANNEL_WEBRTC_LEFT"

	EventRoomChannelWebRTCUserJoined = "ROOM_CHANNEL_WEBRTC_USER_JOINED"
	EventRoomChannelWebRTCUserLeft   = "ROOM_CHANNEL_WEBRTC_USER_LEFT"

	EventAttachmentProgress = "ATTACHMENT_PROGRESS"
)

// Watchable entity names carried by START_WATCHING / STOP_WATCHING.
const (
	EntityUser       = "USER"
	EntityRoom       = "ROOM"
	EntityBio        = "BIO"
	EntityChannel    = "CHANNEL"
	EntityAttachment = "ATTACHMENT"
)

// Change kinds carried by CHANGE frames.
const (
	ChangeInsert      = "INSERT"
	ChangeUpdate      = "UPDATE"
	ChangeDelete      = "DELETE"
	ChangeUpdateImage = "UPDATE_IMAGE"
)
