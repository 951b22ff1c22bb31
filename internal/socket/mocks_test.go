package socket_test

import (
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"psocial/client/internal/cache"
	"psocial/client/internal/models"
	"psocial/client/internal/protocol"
)

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Upsert(kind cache.Kind, raw json.RawMessage) {
	m.Called(kind, raw)
}

func (m *MockCache) Patch(kind cache.Kind, id string, raw json.RawMessage) {
	m.Called(kind, id, raw)
}

func (m *MockCache) Remove(kind cache.Kind, id string) {
	m.Called(kind, id)
}

func (m *MockCache) ReplaceImage(kind cache.Kind, id string) {
	m.Called(kind, id)
}

type MockInbox struct {
	mock.Mock
}

func (m *MockInbox) Receive(item models.ConversationItem) {
	m.Called(item)
}

func (m *MockInbox) UpdateMessageContent(authorID, recipientID, msgID, content string) {
	m.Called(authorID, recipientID, msgID, content)
}

func (m *MockInbox) RemoveMessage(authorID, recipientID, msgID string) {
	m.Called(authorID, recipientID, msgID)
}

func (m *MockInbox) SetFriendRequestAccepted(friender, friended string, accepted bool) {
	m.Called(friender, friended, accepted)
}

func (m *MockInbox) SetInvitationAccepted(inviter, invited, roomID string, accepted bool) {
	m.Called(inviter, invited, roomID, accepted)
}

func (m *MockInbox) Block(uid string) {
	m.Called(uid)
}

type MockFeed struct {
	mock.Mock
}

func (m *MockFeed) Append(channelID string, msg models.RoomMessage) {
	m.Called(channelID, msg)
}

func (m *MockFeed) Update(channelID, msgID, content string) {
	m.Called(channelID, msgID, content)
}

func (m *MockFeed) Remove(channelID, msgID string) {
	m.Called(channelID, msgID)
}

type MockCalls struct {
	mock.Mock
}

func (m *MockCalls) Acknowledge(caller, called string) {
	m.Called(caller, called)
}

func (m *MockCalls) Response(caller, called string, accept bool) {
	m.Called(caller, called, accept)
}

func (m *MockCalls) OfferFromInitiator(in protocol.CallSignalIn) {
	m.Called(in)
}

func (m *MockCalls) AnswerFromRecipient(in protocol.CallSignalIn) {
	m.Called(in)
}

func (m *MockCalls) RequestedReInit() {
	m.Called()
}

func (m *MockCalls) PeerMediaOptions(in protocol.UpdateMediaOptionsIn) {
	m.Called(in)
}

func (m *MockCalls) Left() {
	m.Called()
}

type MockChannelCalls struct {
	mock.Mock
}

func (m *MockChannelCalls) AllUsers(in protocol.ChannelAllUsersIn) {
	m.Called(in)
}

func (m *MockChannelCalls) UserJoined(in protocol.ChannelJoinedIn) {
	m.Called(in)
}

func (m *MockChannelCalls) ReturnedSignal(in protocol.ChannelReturnSignalIn) {
	m.Called(in)
}

func (m *MockChannelCalls) UserLeft(uid string) {
	m.Called(uid)
}

func (m *MockChannelCalls) PeerMediaOptions(in protocol.UpdateMediaOptionsIn) {
	m.Called(in)
}

func (m *MockChannelCalls) RosterJoined(channelID, uid string) {
	m.Called(channelID, uid)
}

func (m *MockChannelCalls) RosterLeft(channelID, uid string) {
	m.Called(channelID, uid)
}
