package inbox

import (
	"log"
	"sync"

	"psocial/client/internal/cache"
	"psocial/client/internal/models"
)

// ProfileCache is the slice of the entity cache the inbox needs: lazily
// pulling the counterparty's profile when a conversation gains an item.
type ProfileCache interface {
	FetchIfAbsent(kind cache.Kind, id string)
}

// Inbox merges direct messages, friend requests and invitations into
// ordered per-counterparty conversations. The counterparty for an item is
// resolved symmetrically against the session's own uid, so both sides of a
// conversation bucket it under the same key.
type Inbox struct {
	mu sync.Mutex

	selfID   func() string
	profiles ProfileCache

	convs map[string][]models.ConversationItem
}

func New(selfID func() string, profiles ProfileCache) *Inbox {
	return &Inbox{
		selfID:   selfID,
		profiles: profiles,
		convs:    make(map[string][]models.ConversationItem),
	}
}

// Counterparty resolves which conversation an item belongs to.
func (i *Inbox) Counterparty(item models.ConversationItem) string {
	self := i.selfID()
	switch item.Kind {
	case models.ItemDirectMessage:
		if item.Message.RecipientID == self {
			return item.Message.AuthorID
		}
		return item.Message.RecipientID
	case models.ItemFriendRequest:
		if item.FriendRequest.Friended == self {
			return item.FriendRequest.Friender
		}
		return item.FriendRequest.Friended
	case models.ItemInvitation:
		if item.Invitation.Invited == self {
			return item.Invitation.Inviter
		}
		return item.Invitation.Invited
	}
	return ""
}

// Receive appends an item to its counterparty's conversation and lazily
// fetches the counterparty's profile.
func (i *Inbox) Receive(item models.ConversationItem) {
	key := i.Counterparty(item)
	if key == "" {
		log.Println("Dropping conversation item with no resolvable counterparty")
		return
	}

	i.mu.Lock()
	i.convs[key] = append(i.convs[key], item)
	i.mu.Unlock()

	if i.profiles != nil {
		i.profiles.FetchIfAbsent(cache.KindUser, key)
	}
}

// Conversation returns a copy of the counterparty's conversation.
func (i *Inbox) Conversation(uid string) []models.ConversationItem {
	i.mu.Lock()
	defer i.mu.Unlock()
	items := make([]models.ConversationItem, len(i.convs[uid]))
	copy(items, i.convs[uid])
	return items
}

// UpdateMessageContent mutates a direct message in place by its ID.
// No match is a no-op; updates for purged conversations are expected.
func (i *Inbox) UpdateMessageContent(authorID, recipientID, msgID, content string) {
	key := i.counterpartyPair(authorID, recipientID)

	i.mu.Lock()
	defer i.mu.Unlock()
	for idx, item := range i.convs[key] {
		if item.Kind == models.ItemDirectMessage && item.Message.ID == msgID {
			msg := *item.Message
			msg.Content = content
			i.convs[key][idx].Message = &msg
			return
		}
	}
	log.Printf("No direct message %q in conversation with %q to update", msgID, key)
}

// RemoveMessage deletes a direct message by its ID.
func (i *Inbox) RemoveMessage(authorID, recipientID, msgID string) {
	key := i.counterpartyPair(authorID, recipientID)

	i.mu.Lock()
	defer i.mu.Unlock()
	conv := i.convs[key]
	for idx, item := range conv {
		if item.Kind == models.ItemDirectMessage && item.Message.ID == msgID {
			i.convs[key] = append(conv[:idx], conv[idx+1:]...)
			return
		}
	}
	log.Printf("No direct message %q in conversation with %q to remove", msgID, key)
}

// SetFriendRequestAccepted records the response on the matching request.
func (i *Inbox) SetFriendRequestAccepted(friender, friended string, accepted bool) {
	key := i.counterpartyPair(friender, friended)

	i.mu.Lock()
	defer i.mu.Unlock()
	for idx, item := range i.convs[key] {
		if item.Kind == models.ItemFriendRequest &&
			item.FriendRequest.Friender == friender &&
			item.FriendRequest.Friended == friended {
			fr := *item.FriendRequest
			fr.Accepted = &accepted
			i.convs[key][idx].FriendRequest = &fr
			return
		}
	}
}

// SetInvitationAccepted records the response on the matching invitation.
func (i *Inbox) SetInvitationAccepted(inviter, invited, roomID string, accepted bool) {
	key := i.counterpartyPair(inviter, invited)

	i.mu.Lock()
	defer i.mu.Unlock()
	for idx, item := range i.convs[key] {
		if item.Kind == models.ItemInvitation &&
			item.Invitation.Inviter == inviter &&
			item.Invitation.Invited == invited &&
			item.Invitation.RoomID == roomID {
			inv := *item.Invitation
			inv.Accepted = &accepted
			i.convs[key][idx].Invitation = &inv
			return
		}
	}
}

// Block discards the blocked counterparty's entire conversation. This is a
// hard reset: history is gone client-side, and messages arriving after an
// UNBLOCK start a fresh bucket.
func (i *Inbox) Block(uid string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.convs, uid)
}

func (i *Inbox) counterpartyPair(a, b string) string {
	if a == i.selfID() {
		return b
	}
	return a
}
