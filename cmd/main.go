package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"psocial/client/internal/api"
	"psocial/client/internal/background"
	"psocial/client/internal/cache"
	"psocial/client/internal/calls"
	"psocial/client/internal/config"
	"psocial/client/internal/inbox"
	"psocial/client/internal/session"
	"psocial/client/internal/socket"
)

// headlessDevices stands in for the platform media layer when the sync
// client runs without one. Streams get real ids so peers can reference
// them, but carry no actual capture tracks.
type headlessDevices struct{}

func (headlessDevices) GetUserMedia(audio, video bool) (*calls.MediaStream, error) {
	stream := &calls.MediaStream{ID: uuid.NewString()}
	if audio {
		stream.Audio = append(stream.Audio, &calls.Track{Enabled: true})
	}
	if video {
		stream.Video = append(stream.Video, &calls.Track{Enabled: true})
	}
	return stream, nil
}

func (headlessDevices) GetDisplayMedia() (*calls.MediaStream, error) {
	return &calls.MediaStream{
		ID:    uuid.NewString(),
		Video: []*calls.Track{{Enabled: true}},
	}, nil
}

// headlessRTC logs the signaling traffic instead of driving a WebRTC stack.
type headlessRTC struct{}

func (headlessRTC) CreateOffer(peer string) (string, error) {
	log.Printf("Creating offer for peer %q", peer)
	return "offer:" + uuid.NewString(), nil
}

func (headlessRTC) AnswerOffer(peer, signal string) (string, error) {
	log.Printf("Answering offer from peer %q", peer)
	return "answer:" + uuid.NewString(), nil
}

func (headlessRTC) AcceptAnswer(peer, signal string) error {
	log.Printf("Accepted answer from peer %q", peer)
	return nil
}

func (headlessRTC) Teardown(peer string) {
	log.Printf("Tearing down peer connection to %q", peer)
}

// routeLogger is the Navigator for a headless run.
type routeLogger struct{}

func (routeLogger) Navigate(path string) {
	log.Println("Navigating to", path)
}

func main() {
	log.Println("Starting sync client...")

	cfg := config.Load()

	var sess *session.Session
	client := api.NewClient(cfg.APIBaseURL, func() string {
		if sess == nil {
			return ""
		}
		return sess.Token()
	})
	sess = session.New(client)

	store := cache.NewStore(client, sess.Uid)
	conn := socket.NewConn()
	watcher := cache.NewWatcher(store, conn)

	media := calls.NewMediaController(headlessDevices{})
	callMachine := calls.New(sess.Uid, conn, routeLogger{}, headlessRTC{}, media)
	channelCalls := calls.NewChannelCalls(sess.Uid, conn, headlessRTC{}, media)

	feed := inbox.NewChannelFeed()
	box := inbox.New(sess.Uid, store)

	demux := socket.NewDemux(store, box, feed, callMachine, channelCalls, func() bool {
		return callMachine.State() != calls.StateIdle
	})
	conn.SetHandler(demux)

	username := os.Getenv("PSOCIAL_USERNAME")
	password := os.Getenv("PSOCIAL_PASSWORD")
	if username == "" {
		log.Fatal("PSOCIAL_USERNAME is not set")
	}
	uid, token, err := client.Login(username, password)
	if err != nil {
		log.Fatalf("Login failed: %v", err)
	}
	sess.SetAuth(uid, token)

	if err := conn.Connect(cfg.SocketURL, sess.Token()); err != nil {
		log.Fatalf("Failed to connect event socket: %v", err)
	}

	intervals := background.NewIntervals(store, watcher, conn, sess)
	intervals.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Println("Shutting down...")
	case err := <-sess.Errors():
		log.Println("Session lost:", err)
	}

	intervals.Stop()
	conn.Close()
	if err := client.Logout(); err != nil {
		log.Println("Logout failed:", err)
	}
}
