package chat

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/yuto1106110/plus-chat-api/internal/model"
)

// Client is one connected websocket peer. The hub never touches the
// connection itself; it only pushes events into out, which the write pump
// drains.
type Client struct {
	ID       uuid.UUID
	Username string
	conn     *websocket.Conn
	hub      *Hub
	out      chan model.Event
}

// NewClient returns a client ready for hub registration.
func NewClient(conn *websocket.Conn, username string) *Client {
	return &Client{
		ID:       uuid.New(),
		Username: username,
		conn:     conn,
		out:      make(chan model.Event, 64),
	}
}

// deliver queues an event for the write pump without blocking the hub.
// A client whose buffer is full misses the event.
func (c *Client) deliver(ev model.Event) {
	select {
	case c.out <- ev:
	default:
		log.Printf("skipping event for slow client [%s]", c.Username)
	}
}

// ReadPump reads incoming frames until the connection drops, forwarding
// send_message payloads to the hub. It unregisters the client on exit.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister <- c
		c.conn.CloseNow()
	}()

	for {
		msgType, p, err := c.conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure &&
				status != websocket.StatusGoingAway &&
				status != -1 {
				log.Printf("read error for client [%s]: %v", c.Username, err)
			}
			return
		}

		if msgType != websocket.MessageText {
			continue
		}

		var envelope struct {
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(p, &envelope); err != nil {
			log.Printf("failed to decode frame from client [%s]: %v", c.Username, err)
			continue
		}

		if envelope.Event != model.EventSendMessage {
			continue
		}

		var msg model.Message
		if err := json.Unmarshal(envelope.Data, &msg); err != nil {
			log.Printf("failed to decode message from client [%s]: %v", c.Username, err)
			continue
		}

		// The channel is not gated on login; an authenticated username
		// only serves as the fallback author.
		if msg.Author == "" {
			msg.Author = c.Username
		}

		select {
		case c.hub.Inbound <- msg:
		case <-ctx.Done():
			return
		}
	}
}

// WritePump drains the outbound queue onto the websocket until the hub
// closes it or ctx is cancelled.
func (c *Client) WritePump(ctx context.Context) {
	for {
		select {
		case ev, ok := <-c.out:
			if !ok {
				c.conn.Close(websocket.StatusNormalClosure, "unregistered")
				return
			}

			p, err := json.Marshal(ev)
			if err != nil {
				log.Printf("failed to encode event %q: %v", ev.Event, err)
				continue
			}

			writeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			err = c.conn.Write(writeCtx, websocket.MessageText, p)
			cancel()
			if err != nil {
				log.Printf("write error for client [%s]: %v", c.Username, err)
				continue
			}

		case <-ctx.Done():
			c.conn.Close(websocket.StatusGoingAway, "context cancelled")
			return
		}
	}
}
