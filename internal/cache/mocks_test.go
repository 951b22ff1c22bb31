package cache_test

import (
	"sync"

	"github.com/stretchr/testify/mock"

	"psocial/client/internal/models"
)

// MockAPI is a testify mock of the api.API interface consumed by the store.
type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) GetUser(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAPI) GetUserImage(id string) ([]byte, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockAPI) GetRoom(id string) (*models.Room, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *MockAPI) GetRoomImage(id string) ([]byte, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockAPI) GetRoomChannels(roomID string) ([]models.RoomChannel, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RoomChannel), args.Error(1)
}

func (m *MockAPI) GetAttachmentMetadata(id string) (*models.AttachmentMetadata, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AttachmentMetadata), args.Error(1)
}

func (m *MockAPI) Login(username, password string) (string, string, error) {
	args := m.Called(username, password)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockAPI) Logout() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockAPI) Refresh() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockAPI) UploadAttachment(name, mime string, size int, msgID string, data []byte) error {
	args := m.Called(name, mime, size, msgID, data)
	return args.Error(0)
}

// fakeSender records outbound frames for assertions.
type fakeSender struct {
	mu     sync.Mutex
	frames []sentFrame
}

type sentFrame struct {
	eventType string
	data      interface{}
}

func (s *fakeSender) Send(eventType string, data interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, sentFrame{eventType, data})
}

func (s *fakeSender) sent() []sentFrame {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]sentFrame, len(s.frames))
	copy(out, s.frames)
	return out
}

func (s *fakeSender) count(eventType string) int {
	n := 0
	for _, f := range s.sent() {
		if f.eventType == eventType {
			n++
		}
	}
	return n
}
