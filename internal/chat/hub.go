package chat

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/samber/lo"

	"github.com/yuto1106110/plus-chat-api/internal/model"
)

// utcPlus9 is the single fixed zone every sentAt stamp is rendered in.
var utcPlus9 = time.FixedZone("UTC+9", 9*60*60)

// sentAtLayout renders hour and minute only, no date, no seconds.
const sentAtLayout = "15:04"

// maxBodyLen mirrors the server-side length check of the reference
// implementation; longer messages are dropped.
const maxBodyLen = 300

type sanitizer interface {
	Sanitize(s string) string
	SanitizeBytes(p []byte) []byte
}

// Registration pairs a joining client with a channel the hub closes once
// the client is registered and its history replay has been queued.
type Registration struct {
	Client *Client
	Done   chan struct{}
}

// Hub owns all shared relay state — the client registry and the history
// ring — and serializes every mutation through its run loop. One send is
// processed fully (sanitize, stamp, append, broadcast) before the next.
type Hub struct {
	history    *Ring
	clients    map[uuid.UUID]*Client
	Register   chan Registration
	Unregister chan *Client
	Inbound    chan model.Message
	sanitizer  sanitizer

	// now is swappable in tests.
	now func() time.Time
}

// NewHub returns a hub relaying through the given history ring.
func NewHub(history *Ring) *Hub {
	return &Hub{
		history:    history,
		clients:    make(map[uuid.UUID]*Client),
		Register:   make(chan Registration),
		Unregister: make(chan *Client),
		Inbound:    make(chan model.Message, 64),
		sanitizer:  bluemonday.StrictPolicy(),
		now:        time.Now,
	}
}

// Run manages incoming and outgoing hub traffic until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case reg := <-h.Register:
			client := reg.Client
			h.clients[client.ID] = client
			client.hub = h

			// Replay goes to the joining client only, never broadcast.
			client.deliver(model.Event{
				Event: model.EventLoadHistory,
				Data:  h.history.Snapshot(),
			})
			close(reg.Done)

			h.broadcastPresence()

		case client := <-h.Unregister:
			if _, ok := h.clients[client.ID]; !ok {
				continue
			}
			delete(h.clients, client.ID)
			close(client.out)

			// No chat message goes out on disconnect, only the new count.
			h.broadcastPresence()

		case msg := <-h.Inbound:
			msg.Author = h.sanitizer.Sanitize(msg.Author)
			msg.Body = h.sanitizer.Sanitize(msg.Body)

			if msg.Body == "" || len([]rune(msg.Body)) > maxBodyLen {
				log.Printf("dropping message from [%s]: empty or oversized body", msg.Author)
				continue
			}

			// The server owns sentAt; whatever the client sent is gone.
			msg.SentAt = h.now().In(utcPlus9).Format(sentAtLayout)

			h.history.Append(msg)
			h.broadcast(model.Event{
				Event: model.EventReceiveMessage,
				Data:  msg,
			})

		case <-ctx.Done():
			return
		}
	}
}

// broadcast fans an event out to every registered client, the sender
// included. Fire-and-forget: a client whose buffer is full is skipped.
func (h *Hub) broadcast(ev model.Event) {
	for _, client := range h.clients {
		client.deliver(ev)
	}
}

func (h *Hub) broadcastPresence() {
	users := lo.Uniq(lo.MapToSlice(h.clients, func(_ uuid.UUID, c *Client) string {
		return c.Username
	}))
	sort.Strings(users)

	h.broadcast(model.Event{
		Event: model.EventPresenceCount,
		Data: model.Presence{
			Count: len(h.clients),
			Users: users,
		},
	})
}
