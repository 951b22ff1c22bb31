package calls

import (
	"log"
	"sync"
	"time"

	"psocial/client/internal/config"
	"psocial/client/internal/models"
	"psocial/client/internal/protocol"
)

// State of the 1:1 call machine.
type State string

const (
	StateIdle        State = "IDLE"
	StateRinging     State = "RINGING"
	StateNegotiating State = "NEGOTIATING"
	StateActive      State = "ACTIVE"
)

// Sender enqueues outbound socket frames.
type Sender interface {
	Send(eventType string, data interface{})
}

// Navigator is the routing collaborator; the machine navigates to the call
// route when a call is accepted.
type Navigator interface {
	Navigate(path string)
}

// PeerSignaler abstracts the platform WebRTC stack. The machine only moves
// opaque SDP/ICE payloads between it and the socket.
type PeerSignaler interface {
	CreateOffer(peer string) (string, error)
	AnswerOffer(peer, signal string) (string, error)
	AcceptAnswer(peer, signal string) error
	Teardown(peer string)
}

// Calls is the 1:1 call signaling state machine:
// IDLE -> RINGING -> NEGOTIATING -> ACTIVE -> IDLE.
type Calls struct {
	mu sync.Mutex

	selfID   func() string
	sender   Sender
	nav      Navigator
	signaler PeerSignaler
	media    *MediaController

	state     State
	peer      string
	initiator bool
	pending   []models.PendingCall
	remote    models.ChannelPeer

	pendingTimeout time.Duration
}

func New(selfID func() string, sender Sender, nav Navigator, signaler PeerSignaler, media *MediaController) *Calls {
	return &Calls{
		selfID:         selfID,
		sender:         sender,
		nav:            nav,
		signaler:       signaler,
		media:          media,
		state:          StateIdle,
		pendingTimeout: config.PendingCallTimeout,
	}
}

// SetPendingTimeout overrides how long an unanswered call rings. Used by
// tests.
func (c *Calls) SetPendingTimeout(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingTimeout = d
}

/* --------------- UI ENTRY POINTS --------------- */

// CallUser rings another user. The pending record is created on the
// server's acknowledge, not here. Dialing someone else while an outbound
// call is still ringing replaces it; the server cancels the previous one.
func (c *Calls) CallUser(uid string) {
	self := c.selfID()
	c.mu.Lock()
	kept := c.pending[:0]
	for _, p := range c.pending {
		if p.Caller != self {
			kept = append(kept, p)
		}
	}
	c.pending = kept
	c.mu.Unlock()

	c.sender.Send(protocol.EventCallUser, protocol.CallUserOut{Uid: uid})
}

// Respond accepts or rejects a pending inbound call.
func (c *Calls) Respond(caller, called string, accept bool) {
	c.sender.Send(protocol.EventCallUserResponse, protocol.CallResponseOut{
		Caller: caller,
		Called: called,
		Accept: accept,
	})
}

// Leave hangs up the current call.
func (c *Calls) Leave() {
	c.sender.Send(protocol.EventCallLeave, struct{}{})
	c.teardown()
}

// UpdateMediaOptions applies a local constraint change and broadcasts the
// new flags with the (possibly new) stream id so the peer can recognize a
// replaced track without a full renegotiation.
func (c *Calls) UpdateMediaOptions(patch models.MediaOptionsPatch) {
	c.media.UpdateOptions(patch)
	opts := c.media.Options()
	c.sender.Send(protocol.EventCallUpdateMediaOptions, protocol.CallUpdateMediaOptionsOut{
		UserMediaVid:      opts.UserMedia.Video,
		DisplayMediaVid:   opts.DisplayMedia.Video,
		UserMediaStreamID: c.media.StreamID(),
	})
}

/* --------------- INBOUND FRAME HANDLERS --------------- */

// Acknowledge records the server-created pending call. Both sides receive
// the acknowledge. RINGING is entered only from IDLE; a ring that arrives
// during a live call is held as a pending record without touching the
// machine state.
func (c *Calls) Acknowledge(caller, called string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.pending {
		if p.Caller == caller && p.Called == called {
			return
		}
	}
	c.pending = append(c.pending, models.PendingCall{Caller: caller, Called: called})
	if c.state == StateIdle {
		c.state = StateRinging
		c.initiator = caller == c.selfID()
	}
	timeout := c.pendingTimeout

	// Unanswered calls do not ring forever.
	go func() {
		time.Sleep(timeout)
		c.expirePending(caller, called)
	}()
}

func (c *Calls) expirePending(caller, called string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, p := range c.pending {
		if p.Caller == caller && p.Called == called {
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			if len(c.pending) == 0 && c.state == StateRinging {
				c.state = StateIdle
			}
			return
		}
	}
}

// Response removes the pending record on both sides. On accept both
// navigate to the call route and the caller starts negotiating. A response
// with no matching pending record is a duplicate (or arrived after expiry)
// and is dropped.
func (c *Calls) Response(caller, called string, accept bool) {
	c.mu.Lock()
	idx := -1
	for i, p := range c.pending {
		if p.Caller == caller && p.Called == called {
			idx = i
			break
		}
	}
	if idx == -1 {
		c.mu.Unlock()
		return
	}
	c.pending = append(c.pending[:idx], c.pending[idx+1:]...)

	if !accept {
		if len(c.pending) == 0 && c.state == StateRinging {
			c.state = StateIdle
		}
		c.mu.Unlock()
		return
	}

	self := c.selfID()
	peer := caller
	if caller == self {
		peer = called
	}
	c.peer = peer
	c.initiator = caller == self
	c.state = StateNegotiating
	initiator := c.initiator
	c.mu.Unlock()

	route := "/call/" + peer
	if initiator {
		route += "?initiator"
	}
	c.nav.Navigate(route)

	if initiator {
		c.media.Acquire()
		c.sendOffer(peer)
	}
}

func (c *Calls) sendOffer(peer string) {
	signal, err := c.signaler.CreateOffer(peer)
	if err != nil {
		log.Println("Failed to create call offer:", err)
		return
	}
	opts := c.media.Options()
	c.sender.Send(protocol.EventCallWebRTCOffer, protocol.CallSignalOut{
		Signal:            signal,
		UserMediaStreamID: c.media.StreamID(),
		UserMediaVid:      opts.UserMedia.Video,
		DisplayMediaVid:   opts.DisplayMedia.Video,
	})
}

// OfferFromInitiator answers the caller's offer and activates the call.
func (c *Calls) OfferFromInitiator(in protocol.CallSignalIn) {
	c.mu.Lock()
	peer := c.peer
	c.remote = models.ChannelPeer{
		Uid:               peer,
		UserMediaStreamID: in.UserMediaStreamID,
		UserMediaVid:      in.UserMediaVid,
		DisplayMediaVid:   in.DisplayMediaVid,
	}
	c.mu.Unlock()

	c.media.Acquire()
	answer, err := c.signaler.AnswerOffer(peer, in.Signal)
	if err != nil {
		log.Println("Failed to answer call offer:", err)
		return
	}
	opts := c.media.Options()
	c.sender.Send(protocol.EventCallWebRTCAnswer, protocol.CallSignalOut{
		Signal:            answer,
		UserMediaStreamID: c.media.StreamID(),
		UserMediaVid:      opts.UserMedia.Video,
		DisplayMediaVid:   opts.DisplayMedia.Video,
	})

	c.mu.Lock()
	c.state = StateActive
	c.mu.Unlock()
}

// AnswerFromRecipient completes negotiation on the caller's side.
func (c *Calls) AnswerFromRecipient(in protocol.CallSignalIn) {
	c.mu.Lock()
	peer := c.peer
	c.remote = models.ChannelPeer{
		Uid:               peer,
		UserMediaStreamID: in.UserMediaStreamID,
		UserMediaVid:      in.UserMediaVid,
		DisplayMediaVid:   in.DisplayMediaVid,
	}
	c.mu.Unlock()

	if err := c.signaler.AcceptAnswer(peer, in.Signal); err != nil {
		log.Println("Failed to accept call answer:", err)
		return
	}

	c.mu.Lock()
	c.state = StateActive
	c.mu.Unlock()
}

// RequestedReInit rebuilds the offer after the recipient's media devices
// changed.
func (c *Calls) RequestedReInit() {
	c.mu.Lock()
	peer := c.peer
	state := c.state
	c.mu.Unlock()
	if state != StateActive && state != StateNegotiating {
		return
	}
	c.signaler.Teardown(peer)
	c.sendOffer(peer)
}

// PeerMediaOptions records the peer's new media flags and stream id.
func (c *Calls) PeerMediaOptions(in protocol.UpdateMediaOptionsIn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remote.UserMediaStreamID = in.UserMediaStreamID
	c.remote.UserMediaVid = in.UserMediaVid
	c.remote.DisplayMediaVid = in.DisplayMediaVid
}

// Left resets both sides to IDLE when either hangs up.
func (c *Calls) Left() {
	c.teardown()
}

func (c *Calls) teardown() {
	c.mu.Lock()
	peer := c.peer
	c.peer = ""
	c.state = StateIdle
	c.remote = models.ChannelPeer{}
	c.mu.Unlock()

	if peer != "" {
		c.signaler.Teardown(peer)
	}
	c.media.Release()
}

/* --------------- ACCESSORS --------------- */

func (c *Calls) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Calls) Pending() []models.PendingCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.PendingCall, len(c.pending))
	copy(out, c.pending)
	return out
}

func (c *Calls) Remote() models.ChannelPeer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remote
}
