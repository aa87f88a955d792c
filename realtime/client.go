package realtime

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second

	// CloseUnauthorized tells the client its token resolved to no identity.
	CloseUnauthorized = 4001
	// CloseForbidden tells the client it is authenticated but not a member
	// of the requested conversation.
	CloseForbidden = 4003
)

// Client wraps one websocket session and serializes outbound writes through a
// buffered channel so broadcasts never write to the socket concurrently.
type Client struct {
	ID             string
	UserID         uint
	ConversationID uint

	ws    *websocket.Conn
	send  chan []byte
	once  sync.Once
	close chan struct{}
}

// NewClient constructs a Client for an authenticated user on one conversation.
func NewClient(userID, conversationID uint, ws *websocket.Conn) *Client {
	return &Client{
		ID:             uuid.NewString(),
		UserID:         userID,
		ConversationID: conversationID,
		ws:             ws,
		send:           make(chan []byte, 128),
		close:          make(chan struct{}),
	}
}

// Start launches the write loop. Call exactly once per client.
func (c *Client) Start() {
	go c.writeLoop()
}

// Send enqueues payload for delivery. A slow client whose buffer fills is
// disconnected so it cannot stall the rest of the group.
func (c *Client) Send(payload []byte) error {
	select {
	case <-c.close:
		return errors.New("client closed")
	case c.send <- payload:
		return nil
	default:
		c.Close(websocket.CloseGoingAway, "send buffer full")
		return errors.New("client buffer exceeded")
	}
}

// Close terminates the session with the given close code. Idempotent.
func (c *Client) Close(code int, reason string) {
	c.once.Do(func() {
		close(c.close)
		if c.ws == nil {
			return
		}
		deadline := time.Now().Add(writeWait)
		_ = c.ws.SetWriteDeadline(deadline)
		_ = c.ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline)
		_ = c.ws.Close()
	})
}

func (c *Client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.close:
			return
		case payload := <-c.send:
			if err := c.write(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) write(messageType int, payload []byte) error {
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.ws.WriteMessage(messageType, payload)
}
