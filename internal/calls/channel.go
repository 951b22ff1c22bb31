package calls

import (
	"log"
	"sync"

	"psocial/client/internal/models"
	"psocial/client/internal/protocol"
)

// ChannelCalls drives multi-party WebRTC sessions in room channels.
// Peering is a star anchored at the joiner: on join the server replies with
// the full roster and the joiner initiates an offer to every existing
// member, who each answer with a return signal. Existing members never
// initiate toward the joiner.
type ChannelCalls struct {
	mu sync.Mutex

	selfID   func() string
	sender   Sender
	signaler PeerSignaler
	media    *MediaController

	channelID string
	peers     map[string]models.ChannelPeer

	// roster tracks who is in each channel's WebRTC session, including
	// channels we have not joined ourselves.
	roster map[string]map[string]struct{}
}

func NewChannelCalls(selfID func() string, sender Sender, signaler PeerSignaler, media *MediaController) *ChannelCalls {
	return &ChannelCalls{
		selfID:   selfID,
		sender:   sender,
		signaler: signaler,
		media:    media,
		peers:    make(map[string]models.ChannelPeer),
		roster:   make(map[string]map[string]struct{}),
	}
}

/* --------------- UI ENTRY POINTS --------------- */

// Join acquires local media and asks to join the channel's WebRTC session.
// Peering starts when the roster arrives.
func (c *ChannelCalls) Join(channelID string) {
	c.media.Acquire()

	c.mu.Lock()
	c.channelID = channelID
	c.peers = make(map[string]models.ChannelPeer)
	c.mu.Unlock()

	opts := c.media.Options()
	c.sender.Send(protocol.EventChannelWebRTCJoin, protocol.ChannelWebRTCJoinLeaveOut{
		ChannelID:         channelID,
		UserMediaStreamID: c.media.StreamID(),
		UserMediaVid:      opts.UserMedia.Video,
		DisplayMediaVid:   opts.DisplayMedia.Video,
	})
}

// Leave exits the session and tears down every peer connection.
func (c *ChannelCalls) Leave() {
	c.mu.Lock()
	channelID := c.channelID
	peers := c.peers
	c.channelID = ""
	c.peers = make(map[string]models.ChannelPeer)
	c.mu.Unlock()

	if channelID == "" {
		return
	}
	c.sender.Send(protocol.EventChannelWebRTCLeave, protocol.ChannelWebRTCJoinLeaveOut{
		ChannelID: channelID,
	})
	for uid := range peers {
		c.signaler.Teardown(uid)
	}
	c.media.Release()
}

// UpdateMediaOptions applies a local constraint change and broadcasts the
// new flags and stream id to the channel.
func (c *ChannelCalls) UpdateMediaOptions(patch models.MediaOptionsPatch) {
	c.mu.Lock()
	channelID := c.channelID
	c.mu.Unlock()
	if channelID == "" {
		return
	}

	c.media.UpdateOptions(patch)
	opts := c.media.Options()
	c.sender.Send(protocol.EventChannelWebRTCUpdateMediaOptions, protocol.ChannelUpdateMediaOptionsOut{
		ChannelID:         channelID,
		UserMediaVid:      opts.UserMedia.Video,
		DisplayMediaVid:   opts.DisplayMedia.Video,
		UserMediaStreamID: c.media.StreamID(),
	})
}

/* --------------- INBOUND FRAME HANDLERS --------------- */

// AllUsers receives the existing roster after a join; the local side
// initiates an offer to each existing member.
func (c *ChannelCalls) AllUsers(in protocol.ChannelAllUsersIn) {
	opts := c.media.Options()
	streamID := c.media.StreamID()

	for _, user := range in.Users {
		if user.Uid == c.selfID() {
			continue
		}
		c.mu.Lock()
		c.peers[user.Uid] = models.ChannelPeer{
			Uid:               user.Uid,
			UserMediaStreamID: user.UserMediaStreamID,
			UserMediaVid:      user.UserMediaVid,
			DisplayMediaVid:   user.DisplayMediaVid,
		}
		c.mu.Unlock()

		signal, err := c.signaler.CreateOffer(user.Uid)
		if err != nil {
			log.Printf("Failed to create offer for channel peer %q: %v", user.Uid, err)
			continue
		}
		c.sender.Send(protocol.EventChannelWebRTCSendingSignal, protocol.ChannelSendingSignalOut{
			Signal:            signal,
			ToUid:             user.Uid,
			UserMediaStreamID: streamID,
			UserMediaVid:      opts.UserMedia.Video,
			DisplayMediaVid:   opts.DisplayMedia.Video,
		})
	}
}

// UserJoined answers a new joiner's offer with a return signal addressed to
// them by id.
func (c *ChannelCalls) UserJoined(in protocol.ChannelJoinedIn) {
	c.mu.Lock()
	c.peers[in.CallerID] = models.ChannelPeer{
		Uid:               in.CallerID,
		UserMediaStreamID: in.UserMediaStreamID,
		UserMediaVid:      in.UserMediaVid,
		DisplayMediaVid:   in.DisplayMediaVid,
	}
	c.mu.Unlock()

	answer, err := c.signaler.AnswerOffer(in.CallerID, in.Signal)
	if err != nil {
		log.Printf("Failed to answer offer from channel peer %q: %v", in.CallerID, err)
		return
	}
	opts := c.media.Options()
	c.sender.Send(protocol.EventChannelWebRTCReturningSignal, protocol.ChannelReturningSignalOut{
		Signal:            answer,
		CallerID:          in.CallerID,
		UserMediaStreamID: c.media.StreamID(),
		UserMediaVid:      opts.UserMedia.Video,
		DisplayMediaVid:   opts.DisplayMedia.Video,
	})
}

// ReturnedSignal completes the handshake with one existing member.
func (c *ChannelCalls) ReturnedSignal(in protocol.ChannelReturnSignalIn) {
	c.mu.Lock()
	c.peers[in.Uid] = models.ChannelPeer{
		Uid:               in.Uid,
		UserMediaStreamID: in.UserMediaStreamID,
		UserMediaVid:      in.UserMediaVid,
		DisplayMediaVid:   in.DisplayMediaVid,
	}
	c.mu.Unlock()

	if err := c.signaler.AcceptAnswer(in.Uid, in.Signal); err != nil {
		log.Printf("Failed to accept answer from channel peer %q: %v", in.Uid, err)
	}
}

// UserLeft tears down the connection to one departed peer.
func (c *ChannelCalls) UserLeft(uid string) {
	c.mu.Lock()
	_, known := c.peers[uid]
	delete(c.peers, uid)
	c.mu.Unlock()

	if known {
		c.signaler.Teardown(uid)
	}
}

// PeerMediaOptions updates a peer's advertised flags and stream id; a new
// stream id means the peer replaced a track.
func (c *ChannelCalls) PeerMediaOptions(in protocol.UpdateMediaOptionsIn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	peer, ok := c.peers[in.Uid]
	if !ok {
		return
	}
	peer.UserMediaStreamID = in.UserMediaStreamID
	peer.UserMediaVid = in.UserMediaVid
	peer.DisplayMediaVid = in.DisplayMediaVid
	c.peers[in.Uid] = peer
}

// RosterJoined and RosterLeft track channel session membership broadcast to
// room subscribers, whether or not the local user is in the session.
func (c *ChannelCalls) RosterJoined(channelID, uid string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.roster[channelID]; !ok {
		c.roster[channelID] = make(map[string]struct{})
	}
	c.roster[channelID][uid] = struct{}{}
}

func (c *ChannelCalls) RosterLeft(channelID, uid string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.roster[channelID], uid)
}

/* --------------- ACCESSORS --------------- */

func (c *ChannelCalls) Peers() []models.ChannelPeer {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.ChannelPeer, 0, len(c.peers))
	for _, p := range c.peers {
		out = append(out, p)
	}
	return out
}

func (c *ChannelCalls) Peer(uid string) (models.ChannelPeer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.peers[uid]
	return p, ok
}

func (c *ChannelCalls) Roster(channelID string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.roster[channelID]))
	for uid := range c.roster[channelID] {
		out = append(out, uid)
	}
	return out
}

func (c *ChannelCalls) ChannelID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.channelID
}
