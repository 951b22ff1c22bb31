package socket

import (
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"psocial/client/internal/protocol"
)

// Handler consumes one raw inbound frame. Frames are delivered in the order
// they arrive on the wire; the handler must not block for long.
type Handler interface {
	Handle(raw []byte)
}

// Conn is the single event socket connection. There is at most one live
// connection per session; calling Connect again closes the previous one.
type Conn struct {
	mu     sync.Mutex
	ws     *websocket.Conn
	closed bool

	handler Handler
	done    chan struct{}
}

func NewConn() *Conn {
	return &Conn{closed: true}
}

// SetHandler installs the frame handler. Must be called before Connect.
func (c *Conn) SetHandler(handler Handler) {
	c.handler = handler
}

// Connect dials the event socket and starts the read pump. The access token
// rides in the Authorization header like the HTTP API.
func (c *Conn) Connect(url, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ws != nil {
		c.ws.Close()
	}

	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}
	ws, _, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		return err
	}

	c.ws = ws
	c.closed = false
	c.done = make(chan struct{})
	go c.readPump(ws, c.done)
	return nil
}

// Send marshals and writes one event frame. Frames sent while the socket is
// down are dropped with a logged warning, never queued; every subscription
// is re-derivable from current UI state after reconnect.
func (c *Conn) Send(eventType string, data interface{}) {
	raw, err := protocol.Marshal(eventType, data)
	if err != nil {
		log.Printf("Failed to marshal %s frame: %v", eventType, err)
		return
	}
	c.write(raw)
}

// SendRaw writes a bare payload, used for the keep-alive "PING" which is not
// an event envelope.
func (c *Conn) SendRaw(payload []byte) {
	c.write(payload)
}

func (c *Conn) write(raw []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.ws == nil {
		log.Println("Dropping outbound frame, socket is closed")
		return
	}
	if err := c.ws.WriteMessage(websocket.TextMessage, raw); err != nil {
		log.Println("Failed to write socket frame:", err)
	}
}

func (c *Conn) readPump(ws *websocket.Conn, done chan struct{}) {
	defer close(done)
	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			if !errors.Is(err, websocket.ErrCloseSent) &&
				!websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Println("Socket read failed:", err)
			}
			c.mu.Lock()
			if c.ws == ws {
				c.closed = true
			}
			c.mu.Unlock()
			return
		}
		if c.handler != nil {
			c.handler.Handle(raw)
		}
	}
}

// Connected reports whether the socket is currently usable.
func (c *Conn) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed && c.ws != nil
}

// Close shuts the connection down and waits for the read pump to exit.
func (c *Conn) Close() {
	c.mu.Lock()
	ws := c.ws
	done := c.done
	c.ws = nil
	c.closed = true
	c.mu.Unlock()

	if ws == nil {
		return
	}
	ws.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	ws.Close()
	if done != nil {
		<-done
	}
}
