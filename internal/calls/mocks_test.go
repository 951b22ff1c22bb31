package calls_test

import (
	"errors"
	"fmt"
	"sync"

	"github.com/stretchr/testify/mock"

	"psocial/client/internal/calls"
)

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

func (s *fakeSender) last(eventType string) (sentFrame, bool) {
	var found sentFrame
	ok := false
	for _, f := range s.sent() {
		if f.eventType == eventType {
			found = f
			ok = true
		}
	}
	return found, ok
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

// fakeNavigator records route changes.
type fakeNavigator struct {
	mu     sync.Mutex
	routes []string
}

func (n *fakeNavigator) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.routes = append(n.routes, path)
}

func (n *fakeNavigator) visited() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.routes))
	copy(out, n.routes)
	return out
}

// MockSignaler is a testify mock of the PeerSignaler interface.
type MockSignaler struct {
	mock.Mock
}

func (m *MockSignaler) CreateOffer(peer string) (string, error) {
	args := m.Called(peer)
	return args.String(0), args.Error(1)
}

func (m *MockSignaler) AnswerOffer(peer, signal string) (string, error) {
	args := m.Called(peer, signal)
	return args.String(0), args.Error(1)
}

func (m *MockSignaler) AcceptAnswer(peer, signal string) error {
	args := m.Called(peer, signal)
	return args.Error(0)
}

func (m *MockSignaler) Teardown(peer string) {
	m.Called(peer)
}

// fakeDevices implements MediaProvider with incrementing stream ids so
// re-acquisition is observable. failUser makes getUserMedia fail.
type fakeDevices struct {
	mu       sync.Mutex
	next     int
	failUser bool
}

func (d *fakeDevices) GetUserMedia(audio, video bool) (*calls.MediaStream, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failUser {
		return nil, errors.New("no capture device")
	}
	d.next++
	stream := &calls.MediaStream{ID: fmt.Sprintf("stream-%d", d.next)}
	if audio {
		stream.Audio = append(stream.Audio, &calls.Track{Enabled: true})
	}
	if video {
		stream.Video = append(stream.Video, &calls.Track{Enabled: true})
	}
	return stream, nil
}

func (d *fakeDevices) GetDisplayMedia() (*calls.MediaStream, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.next++
	return &calls.MediaStream{
		ID:    fmt.Sprintf("stream-%d", d.next),
		Video: []*calls.Track{{Enabled: true}},
	}, nil
}

func boolPtr(b bool) *bool { return &b }
