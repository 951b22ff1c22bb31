package inbox

import (
	"log"
	"sync"

	"psocial/client/internal/models"
)

// ChannelFeed holds the message feed for each room channel the client has
// joined. Like the conversation buckets it is memory-only and rebuilt on
// reconnect.
type ChannelFeed struct {
	mu       sync.Mutex
	messages map[string][]models.RoomMessage
}

func NewChannelFeed() *ChannelFeed {
	return &ChannelFeed{messages: make(map[string][]models.RoomMessage)}
}

func (f *ChannelFeed) Append(channelID string, msg models.RoomMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages[channelID] = append(f.messages[channelID], msg)
}

// Update mutates a message's content in place. If the channel is not known
// the message is searched for across all feeds.
func (f *ChannelFeed) Update(channelID, msgID, content string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch, msgs := range f.messages {
		if channelID != "" && ch != channelID {
			continue
		}
		for idx := range msgs {
			if msgs[idx].ID == msgID {
				msgs[idx].Content = content
				return
			}
		}
	}
	log.Printf("No room message %q to update", msgID)
}

func (f *ChannelFeed) Remove(channelID, msgID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch, msgs := range f.messages {
		if channelID != "" && ch != channelID {
			continue
		}
		for idx := range msgs {
			if msgs[idx].ID == msgID {
				f.messages[ch] = append(msgs[:idx], msgs[idx+1:]...)
				return
			}
		}
	}
	log.Printf("No room message %q to remove", msgID)
}

// Messages returns a copy of a channel's feed.
func (f *ChannelFeed) Messages(channelID string) []models.RoomMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.RoomMessage, len(f.messages[channelID]))
	copy(out, f.messages[channelID])
	return out
}

// Clear drops a channel's feed, used when leaving a room.
func (f *ChannelFeed) Clear(channelID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.messages, channelID)
}
