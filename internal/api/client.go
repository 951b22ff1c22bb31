package api

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"

	"psocial/client/internal/config"
	"psocial/client/internal/models"
)

// API is the surface the sync layer needs from the HTTP collaborator.
// The cache and session packages consume this interface; tests substitute it.
type API interface {
	GetUser(id string) (*models.User, error)
	GetUserImage(id string) ([]byte, error)
	GetRoom(id string) (*models.Room, error)
	GetRoomImage(id string) ([]byte, error)
	GetRoomChannels(roomID string) ([]models.RoomChannel, error)
	GetAttachmentMetadata(id string) (*models.AttachmentMetadata, error)
	Login(username, password string) (uid, token string, err error)
	Logout() error
	Refresh() (string, error)
	UploadAttachment(name, mime string, size int, msgID string, data []byte) error
}

// Client talks to the application server over HTTP.
type Client struct {
	base  string
	token func() string
	http  *fasthttp.Client

	timeout time.Duration
}

func NewClient(base string, token func() string) *Client {
	return &Client{
		base:    base,
		token:   token,
		http:    &fasthttp.Client{},
		timeout: 10 * time.Second,
	}
}

func (c *Client) do(method, path, contentType string, body []byte) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	res := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(res)

	req.Header.SetMethod(method)
	req.SetRequestURI(c.base + path)
	if contentType != "" {
		req.Header.SetContentType(contentType)
	}
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	if body != nil {
		req.SetBody(body)
	}

	if err := c.http.DoTimeout(req, res, c.timeout); err != nil {
		return nil, err
	}
	if res.StatusCode() >= 400 {
		return nil, fmt.Errorf("%s %s: status %d", method, path, res.StatusCode())
	}

	out := make([]byte, len(res.Body()))
	copy(out, res.Body())
	return out, nil
}

func (c *Client) getJSON(path string, dst interface{}) error {
	body, err := c.do(fasthttp.MethodGet, path, "", nil)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, dst)
}

func (c *Client) GetUser(id string) (*models.User, error) {
	u := &models.User{}
	if err := c.getJSON("/api/user/"+id, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (c *Client) GetUserImage(id string) ([]byte, error) {
	return c.do(fasthttp.MethodGet, "/api/user/"+id+"/pfp", "", nil)
}

func (c *Client) GetRoom(id string) (*models.Room, error) {
	r := &models.Room{}
	if err := c.getJSON("/api/room/"+id, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (c *Client) GetRoomImage(id string) ([]byte, error) {
	return c.do(fasthttp.MethodGet, "/api/room/"+id+"/img", "", nil)
}

func (c *Client) GetRoomChannels(roomID string) ([]models.RoomChannel, error) {
	var channels []models.RoomChannel
	if err := c.getJSON("/api/room/"+roomID+"/channels", &channels); err != nil {
		return nil, err
	}
	return channels, nil
}

func (c *Client) GetAttachmentMetadata(id string) (*models.AttachmentMetadata, error) {
	a := &models.AttachmentMetadata{}
	if err := c.getJSON("/api/attachment/"+id, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Login authenticates and returns the user's id and access token.
func (c *Client) Login(username, password string) (string, string, error) {
	creds, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return "", "", err
	}
	body, err := c.do(fasthttp.MethodPost, "/api/acc/login", "application/json", creds)
	if err != nil {
		return "", "", err
	}
	var out struct {
		ID    string `json:"ID"`
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", "", err
	}
	return out.ID, out.Token, nil
}

// Logout invalidates the session server-side.
func (c *Client) Logout() error {
	_, err := c.do(fasthttp.MethodPost, "/api/acc/logout", "", nil)
	return err
}

// Refresh exchanges the current token for a fresh one.
func (c *Client) Refresh() (string, error) {
	body, err := c.do(fasthttp.MethodPost, "/api/acc/refresh", "", nil)
	if err != nil {
		return "", err
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

// UploadAttachment posts the metadata, then streams the file up in fixed
// size chunks.
func (c *Client) UploadAttachment(name, mime string, size int, msgID string, data []byte) error {
	meta, err := json.Marshal(map[string]interface{}{
		"name":   name,
		"mime":   mime,
		"size":   size,
		"msg_id": msgID,
	})
	if err != nil {
		return err
	}
	if _, err := c.do(fasthttp.MethodPost, "/api/attachment/metadata", "application/json", meta); err != nil {
		return err
	}

	for start := 0; start < len(data); start += config.AttachmentChunkSize {
		end := start + config.AttachmentChunkSize
		if end > len(data) {
			end = len(data)
		}
		if _, err := c.do(fasthttp.MethodPost, "/api/attachment/chunk/"+msgID, "application/octet-stream", data[start:end]); err != nil {
			return err
		}
	}
	return nil
}
