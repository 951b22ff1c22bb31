package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	// Entities that left the viewport stay cached this long before the
	// sweeper purges them. Transient scroll-out/scroll-in must not churn
	// subscriptions, so the grace period is deliberately generous.
	DisappearedGracePeriod = 30 * time.Second
	EvictionSweepInterval  = 30 * time.Second

	// Watch sync runs often; it only sends frames for ids that are
	// visible but not yet watched.
	WatchSyncInterval = 500 * time.Millisecond

	KeepAliveInterval    = 20 * time.Second
	TokenRefreshInterval = 90 * time.Second

	// Delay before refetching a replaced image. The server may still be
	// writing the new blob when the UPDATE_IMAGE event arrives.
	ImageSettleDelay = 80 * time.Millisecond

	// Attachments are uploaded in fixed-size chunks.
	AttachmentChunkSize = 4 * 1024 * 1024

	// Unanswered outbound calls are abandoned after this long.
	PendingCallTimeout = 15 * time.Second
)

// Config holds the endpoints and credentials read from the environment.
type Config struct {
	APIBaseURL string
	SocketURL  string
}

// Load reads .env if present and resolves the config from the environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	cfg := Config{
		APIBaseURL: os.Getenv("API_BASE_URL"),
		SocketURL:  os.Getenv("SOCKET_URL"),
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "http://localhost:8080"
	}
	if cfg.SocketURL == "" {
		cfg.SocketURL = "ws://localhost:8080/api/ws"
	}
	return cfg
}
