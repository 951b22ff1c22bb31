package models

// ConversationItemKind is the explicit discriminant for conversation items.
// Variants are never inferred from which fields happen to be present.
type ConversationItemKind string

const (
	ItemDirectMessage ConversationItemKind = "DIRECT_MESSAGE"
	ItemFriendRequest ConversationItemKind = "FRIEND_REQUEST"
	ItemInvitation    ConversationItemKind = "INVITATION"
)

// DirectMessage is a private message between two users.
type DirectMessage struct {
	ID            string `json:"ID"`
	Content       string `json:"content"`
	CreatedAt     string `json:"created_at"`
	AuthorID      string `json:"author_id"`
	RecipientID   string `json:"recipient_id"`
	HasAttachment bool   `json:"has_attachment"`
}

// FriendRequest is keyed by the (friender, friended) pair. Accepted is nil
// until the friended user responds.
type FriendRequest struct {
	Friender  string `json:"friender"`
	Friended  string `json:"friended"`
	CreatedAt string `json:"created_at"`
	Accepted  *bool  `json:"accepted,omitempty"`
}

// Invitation is keyed by the (inviter, invited, room) tuple.
type Invitation struct {
	Inviter   string `json:"inviter"`
	Invited   string `json:"invited"`
	RoomID    string `json:"room_id"`
	CreatedAt string `json:"created_at"`
	Accepted  *bool  `json:"accepted,omitempty"`
}

// ConversationItem is the tagged union stored in a conversation. Exactly one
// of the pointer fields matching Kind is set.
type ConversationItem struct {
	Kind          ConversationItemKind
	Message       *DirectMessage
	FriendRequest *FriendRequest
	Invitation    *Invitation
}

// RoomMessage is a message in a room channel feed.
type RoomMessage struct {
	ID            string `json:"ID"`
	ChannelID     string `json:"channel_id"`
	Content       string `json:"content"`
	CreatedAt     string `json:"created_at"`
	AuthorID      string `json:"author_id"`
	HasAttachment bool   `json:"has_attachment"`
}
