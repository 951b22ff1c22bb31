package models

// PendingCall is a ring that has been acknowledged by the server but not yet
// answered. Held by both sides until a response, cancel or timeout.
type PendingCall struct {
	Caller string `json:"caller"`
	Called string `json:"called"`
}

// ChannelPeer is one participant in a channel WebRTC session.
type ChannelPeer struct {
	Uid               string `json:"uid"`
	UserMediaStreamID string `json:"um_stream_id"`
	UserMediaVid      bool   `json:"um_vid"`
	DisplayMediaVid   bool   `json:"dm_vid"`
}

// MediaOptions mirrors the local media constraints for a call.
type MediaOptions struct {
	UserMedia struct {
		Audio bool
		Video bool
	}
	DisplayMedia struct {
		Video bool
	}
}

// MediaOptionsPatch is a partial update; nil fields are left untouched.
type MediaOptionsPatch struct {
	UserMediaAudio    *bool
	UserMediaVideo    *bool
	DisplayMediaVideo *bool
}

// Apply merges the patch onto the options.
func (o *MediaOptions) Apply(p MediaOptionsPatch) {
	if p.UserMediaAudio != nil {
		o.UserMedia.Audio = *p.UserMediaAudio
	}
	if p.UserMediaVideo != nil {
		o.UserMedia.Video = *p.UserMediaVideo
	}
	if p.DisplayMediaVideo != nil {
		o.DisplayMedia.Video = *p.DisplayMediaVideo
	}
}
