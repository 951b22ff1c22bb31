package calls_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"psocial/client/internal/calls"
	"psocial/client/internal/models"
	"psocial/client/internal/protocol"
)

func newChannelMachine() (*calls.ChannelCalls, *fakeSender, *MockSignaler, *fakeDevices) {
	sender := &fakeSender{}
	signaler := new(MockSignaler)
	devices := &fakeDevices{}
	media := calls.NewMediaController(devices)
	machine := calls.NewChannelCalls(func() string { return "self" }, sender, signaler, media)
	return machine, sender, signaler, devices
}

func TestChannelCalls_JoinSendsMediaState(t *testing.T) {
	machine, sender, _, _ := newChannelMachine()

	machine.Join("c1")

	frame, ok := sender.last(protocol.EventChannelWebRTCJoin)
	require.True(t, ok)
	out := frame.data.(protocol.ChannelWebRTCJoinLeaveOut)
	assert.Equal(t, "c1", out.ChannelID)
	assert.NotEmpty(t, out.UserMediaStreamID)
	assert.Equal(t, "c1", machine.ChannelID())
}

func TestChannelCalls_JoinerOffersToEveryExistingMember(t *testing.T) {
	machine, sender, signaler, _ := newChannelMachine()
	signaler.On("CreateOffer", "a").Return("offer-a", nil)
	signaler.On("CreateOffer", "b").Return("offer-b", nil)

	machine.Join("c1")
	machine.AllUsers(protocol.ChannelAllUsersIn{Users: []protocol.ChannelUserIn{
		{Uid: "a", UserMediaStreamID: "sa"},
		{Uid: "b", UserMediaStreamID: "sb", UserMediaVid: true},
		{Uid: "self"},
	}})

	require.Equal(t, 2, sender.count(protocol.EventChannelWebRTCSendingSignal))
	targets := map[string]string{}
	for _, f := range sender.sent() {
		if f.eventType == protocol.EventChannelWebRTCSendingSignal {
			out := f.data.(protocol.ChannelSendingSignalOut)
			targets[out.ToUid] = out.Signal
		}
	}
	assert.Equal(t, map[string]string{"a": "offer-a", "b": "offer-b"}, targets)
	assert.Len(t, machine.Peers(), 2, "the roster never includes the local user")

	peer, ok := machine.Peer("b")
	require.True(t, ok)
	assert.True(t, peer.UserMediaVid)
}

func TestChannelCalls_AnswersNewJoiner(t *testing.T) {
	machine, sender, signaler, _ := newChannelMachine()
	signaler.On("AnswerOffer", "joiner", "their-offer").Return("my-answer", nil)

	machine.Join("c1")
	machine.UserJoined(protocol.ChannelJoinedIn{
		CallerID:          "joiner",
		Signal:            "their-offer",
		UserMediaStreamID: "js",
	})

	frame, ok := sender.last(protocol.EventChannelWebRTCReturningSignal)
	require.True(t, ok)
	out := frame.data.(protocol.ChannelReturningSignalOut)
	assert.Equal(t, "my-answer", out.Signal)
	assert.Equal(t, "joiner", out.CallerID)

	peer, ok := machine.Peer("joiner")
	require.True(t, ok)
	assert.Equal(t, "js", peer.UserMediaStreamID)
}

func TestChannelCalls_ReturnedSignalCompletesHandshake(t *testing.T) {
	machine, _, signaler, _ := newChannelMachine()
	signaler.On("CreateOffer", "a").Return("offer-a", nil)
	signaler.On("AcceptAnswer", "a", "their-answer").Return(nil)

	machine.Join("c1")
	machine.AllUsers(protocol.ChannelAllUsersIn{Users: []protocol.ChannelUserIn{{Uid: "a"}}})
	machine.ReturnedSignal(protocol.ChannelReturnSignalIn{Uid: "a", Signal: "their-answer"})

	signaler.AssertCalled(t, "AcceptAnswer", "a", "their-answer")
}

func TestChannelCalls_UserLeftTearsDownThatPeerOnly(t *testing.T) {
	machine, _, signaler, _ := newChannelMachine()
	signaler.On("CreateOffer", "a").Return("offer-a", nil)
	signaler.On("CreateOffer", "b").Return("offer-b", nil)
	signaler.On("Teardown", "a").Return()

	machine.Join("c1")
	machine.AllUsers(protocol.ChannelAllUsersIn{Users: []protocol.ChannelUserIn{
		{Uid: "a"}, {Uid: "b"},
	}})

	machine.UserLeft("a")

	signaler.AssertCalled(t, "Teardown", "a")
	signaler.AssertNotCalled(t, "Teardown", "b")
	_, ok := machine.Peer("a")
	assert.False(t, ok)
	_, ok = machine.Peer("b")
	assert.True(t, ok)

	// Leaving twice is harmless.
	machine.UserLeft("a")
	signaler.AssertNumberOfCalls(t, "Teardown", 1)
}

func TestChannelCalls_LeaveTearsDownEverything(t *testing.T) {
	machine, sender, signaler, _ := newChannelMachine()
	signaler.On("CreateOffer", "a").Return("offer-a", nil)
	signaler.On("Teardown", "a").Return()

	machine.Join("c1")
	machine.AllUsers(protocol.ChannelAllUsersIn{Users: []protocol.ChannelUserIn{{Uid: "a"}}})
	machine.Leave()

	_, ok := sender.last(protocol.EventChannelWebRTCLeave)
	require.True(t, ok)
	signaler.AssertCalled(t, "Teardown", "a")
	assert.Empty(t, machine.Peers())
	assert.Empty(t, machine.ChannelID())

	// Leaving when not joined sends nothing.
	machine.Leave()
	assert.Equal(t, 1, sender.count(protocol.EventChannelWebRTCLeave))
}

func TestChannelCalls_PeerMediaOptionsUpdateRoster(t *testing.T) {
	machine, _, signaler, _ := newChannelMachine()
	signaler.On("CreateOffer", "a").Return("offer-a", nil)

	machine.Join("c1")
	machine.AllUsers(protocol.ChannelAllUsersIn{Users: []protocol.ChannelUserIn{{Uid: "a"}}})

	machine.PeerMediaOptions(protocol.UpdateMediaOptionsIn{
		Uid:               "a",
		UserMediaStreamID: "replaced",
		UserMediaVid:      true,
	})
	peer, ok := machine.Peer("a")
	require.True(t, ok)
	assert.Equal(t, "replaced", peer.UserMediaStreamID)
	assert.True(t, peer.UserMediaVid)

	// Updates for unknown peers are dropped.
	machine.PeerMediaOptions(protocol.UpdateMediaOptionsIn{Uid: "ghost"})
	_, ok = machine.Peer("ghost")
	assert.False(t, ok)
}

func TestChannelCalls_RosterTracksSessionsNotJoined(t *testing.T) {
	machine, _, _, _ := newChannelMachine()

	machine.RosterJoined("c9", "a")
	machine.RosterJoined("c9", "b")
	machine.RosterLeft("c9", "a")

	assert.ElementsMatch(t, []string{"b"}, machine.Roster("c9"))
	assert.Empty(t, machine.Peers(), "roster bookkeeping opens no peer connections")
}

func TestChannelCalls_UpdateMediaOptionsBroadcast(t *testing.T) {
	machine, sender, _, _ := newChannelMachine()

	// Not joined: nothing to broadcast.
	machine.UpdateMediaOptions(models.MediaOptionsPatch{UserMediaVideo: boolPtr(true)})
	assert.Zero(t, sender.count(protocol.EventChannelWebRTCUpdateMediaOptions))

	machine.Join("c1")
	machine.UpdateMediaOptions(models.MediaOptionsPatch{UserMediaVideo: boolPtr(true)})

	frame, ok := sender.last(protocol.EventChannelWebRTCUpdateMediaOptions)
	require.True(t, ok)
	out := frame.data.(protocol.ChannelUpdateMediaOptionsOut)
	assert.Equal(t, "c1", out.ChannelID)
	assert.True(t, out.UserMediaVid)
}
