package gateway

import (
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. File payloads arrive on the
	// same connection, so the limit has to fit a base64-encoded upload.
	maxMessageSize = 32 << 20
)

// Envelope is the wire frame for every event in both directions
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type outbound struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

// Client is one live websocket connection. It implements presence.Conn.
// The send channel is never closed: shutdown is signaled through quit, so a
// Send racing a Close can at worst buffer a frame nobody reads, never panic.
type Client struct {
	id     string
	userID string // empty for anonymous connections
	conn   *websocket.Conn
	send   chan []byte
	quit   chan struct{}
	gw     *Gateway

	closeOnce sync.Once
}

func newClient(gw *Gateway, conn *websocket.Conn, userID string) *Client {
	return &Client{
		id:     uuid.NewString(),
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, 64),
		quit:   make(chan struct{}),
		gw:     gw,
	}
}

func (c *Client) UserID() string {
	return c.userID
}

func (c *Client) ID() string {
	return c.id
}

// Send queues an event for the write pump. A full buffer drops the event:
// a slow consumer must not stall the sender's handler.
func (c *Client) Send(event string, payload interface{}) error {
	select {
	case <-c.quit:
		return errors.New("connection closed")
	default:
	}

	raw, err := json.Marshal(outbound{Event: event, Data: payload})
	if err != nil {
		return err
	}
	select {
	case c.send <- raw:
		return nil
	case <-c.quit:
		return errors.New("connection closed")
	default:
		return errors.New("send buffer full")
	}
}

func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		close(c.quit)
	})
	return c.conn.Close()
}

// readPump relays inbound frames to the gateway dispatcher. One goroutine
// per connection; connection loss releases presence like an explicit end.
func (c *Client) readPump() {
	defer c.gw.disconnect(c)

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("gateway: read error on %s: %v", c.id, err)
			}
			return
		}
		c.gw.dispatch(c, raw)
	}
}

// writePump drains the send buffer onto the socket and keeps the
// connection alive with pings
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case raw := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
				return
			}
		case <-c.quit:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
