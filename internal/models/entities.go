package models

// User is a cached profile pushed by the server. Entries live only as long
// as something on screen references them; the sweeper reaps the rest.
type User struct {
	ID       string `json:"ID"`
	Username string `json:"username"`
	// Role is either "USER" or "ADMIN".
	Role   string `json:"role"`
	Online bool   `json:"online"`
	// Bio rides on BIO change frames, which carry it as "content".
	Bio string `json:"content,omitempty"`
	// Image is an exclusively owned handle to the profile picture.
	// It is revoked before being replaced and never reused.
	Image *Blob `json:"-"`
}

// Room is a cached room listing entry.
type Room struct {
	ID       string `json:"ID"`
	Name     string `json:"name"`
	AuthorID string `json:"author_id"`
	Private  bool   `json:"private"`
	Image    *Blob  `json:"-"`
}

// RoomChannel is one text/voice channel inside a room.
type RoomChannel struct {
	ID     string `json:"ID"`
	RoomID string `json:"room_id"`
	Name   string `json:"name"`
	Main   bool   `json:"main"`
}

// AttachmentMetadata describes a file attached to a message. Progress and
// failure updates arrive over the socket while the upload is in flight.
type AttachmentMetadata struct {
	ID     string  `json:"ID"`
	Name   string  `json:"name"`
	Mime   string  `json:"mime"`
	Size   int     `json:"size"`
	Ratio  float32 `json:"ratio"`
	Failed bool    `json:"failed"`
}
