package calls

import (
	"log"
	"sync"

	"psocial/client/internal/models"
)

// StreamFailed is the sentinel stream id broadcast when device acquisition
// fails; the call proceeds without local media rather than aborting.
const StreamFailed = "FAILED"

// Track is one audio or video track on a local stream.
type Track struct {
	Enabled bool
	Hint    string
}

// MediaStream is a locally acquired stream handle.
type MediaStream struct {
	ID    string
	Audio []*Track
	Video []*Track
}

// MediaProvider abstracts the platform media APIs (getUserMedia,
// getDisplayMedia). The real implementation lives with the embedding
// application; tests substitute a fake.
type MediaProvider interface {
	GetUserMedia(audio, video bool) (*MediaStream, error)
	GetDisplayMedia() (*MediaStream, error)
}

// MediaController owns the local streams for the current call and applies
// media option changes, re-acquiring devices when a required track does not
// exist yet.
type MediaController struct {
	mu       sync.Mutex
	provider MediaProvider

	opts          models.MediaOptions
	userStream    *MediaStream
	displayStream *MediaStream
	failed        bool
}

func NewMediaController(provider MediaProvider) *MediaController {
	c := &MediaController{provider: provider}
	c.opts.UserMedia.Audio = true
	return c
}

// Acquire (re)acquires local media for the current options. User media
// failure degrades the call instead of failing it; display media failure
// is only logged.
func (c *MediaController) Acquire() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.acquireLocked()
}

func (c *MediaController) acquireLocked() {
	stream, err := c.provider.GetUserMedia(c.opts.UserMedia.Audio, c.opts.UserMedia.Video)
	if err != nil {
		log.Println("Failed to acquire user media:", err)
		c.failed = true
		c.userStream = nil
	} else {
		c.failed = false
		c.userStream = stream
		for _, t := range stream.Video {
			t.Enabled = c.opts.UserMedia.Video
			t.Hint = "motion"
		}
		for _, t := range stream.Audio {
			t.Enabled = c.opts.UserMedia.Audio
			t.Hint = "speech"
		}
	}

	if c.opts.DisplayMedia.Video {
		display, err := c.provider.GetDisplayMedia()
		if err != nil {
			log.Println("Failed to acquire display media:", err)
		} else {
			c.displayStream = display
			for _, t := range display.Video {
				t.Hint = "detail"
			}
		}
	}
}

// UpdateOptions merges the patch onto the current options. If the affected
// track already exists it is toggled in place; otherwise the underlying
// media is re-acquired first.
func (c *MediaController) UpdateOptions(patch models.MediaOptionsPatch) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.opts.Apply(patch)

	if patch.UserMediaAudio != nil {
		if c.userStream != nil && len(c.userStream.Audio) > 0 {
			c.userStream.Audio[0].Enabled = *patch.UserMediaAudio
		} else {
			c.acquireLocked()
			return
		}
	}
	if patch.UserMediaVideo != nil {
		if c.userStream != nil && len(c.userStream.Video) > 0 {
			c.userStream.Video[0].Enabled = *patch.UserMediaVideo
		} else {
			c.acquireLocked()
			return
		}
	}
	if patch.DisplayMediaVideo != nil && *patch.DisplayMediaVideo && c.displayStream == nil {
		c.acquireLocked()
	}
}

// Options snapshots the current media options.
func (c *MediaController) Options() models.MediaOptions {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opts
}

// StreamID is the user media stream id to advertise to peers, or the
// failure sentinel when acquisition failed.
func (c *MediaController) StreamID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failed {
		return StreamFailed
	}
	if c.userStream == nil {
		return ""
	}
	return c.userStream.ID
}

// Release drops the local streams at the end of a call.
func (c *MediaController) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userStream = nil
	c.displayStream = nil
	c.failed = false
	c.opts = models.MediaOptions{}
	c.opts.UserMedia.Audio = true
}
