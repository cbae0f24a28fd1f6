package chat

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuto1106110/plus-chat-api/internal/model"
)

func startHub(t *testing.T, capacity int) *Hub {
	t.Helper()

	hub := NewHub(NewRing(capacity))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	return hub
}

func join(t *testing.T, hub *Hub, username string) *Client {
	t.Helper()

	c := NewClient(nil, username)
	reg := Registration{Client: c, Done: make(chan struct{})}
	hub.Register <- reg

	select {
	case <-reg.Done:
	case <-time.After(2 * time.Second):
		t.Fatalf("registration of %q timed out", username)
	}

	return c
}

// nextEvent reads from the client's outbound queue until an event of the
// wanted type arrives, discarding everything else.
func nextEvent(t *testing.T, c *Client, want string) model.Event {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-c.out:
			if !ok {
				t.Fatalf("outbound queue closed while waiting for %q", want)
			}
			if ev.Event == want {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %q", want)
		}
	}
}

// assertNoEvent drains the client's queue for a short window and fails if
// an event of the given type shows up.
func assertNoEvent(t *testing.T, c *Client, unwanted string) {
	t.Helper()

	deadline := time.After(200 * time.Millisecond)
	for {
		select {
		case ev, ok := <-c.out:
			if !ok {
				return
			}
			if ev.Event == unwanted {
				t.Fatalf("received unexpected %q event: %+v", unwanted, ev)
			}
		case <-deadline:
			return
		}
	}
}

func TestHubBroadcastReachesEveryClient(t *testing.T) {
	hub := startHub(t, 50)

	alice := join(t, hub, "alice")
	bob := join(t, hub, "bob")
	carol := join(t, hub, "carol")

	hub.Inbound <- model.Message{Author: "alice", Body: "hello everyone"}

	// Everyone gets the broadcast, the sender included.
	for _, c := range []*Client{alice, bob, carol} {
		ev := nextEvent(t, c, model.EventReceiveMessage)
		msg, ok := ev.Data.(model.Message)
		require.True(t, ok, "receive_message data should be a Message")
		assert.Equal(t, "alice", msg.Author)
		assert.Equal(t, "hello everyone", msg.Body)

		assertNoEvent(t, c, model.EventReceiveMessage)
	}
}

func TestHubHistoryReplayOnJoinOnly(t *testing.T) {
	hub := startHub(t, 50)

	first := join(t, hub, "first")
	ev := nextEvent(t, first, model.EventLoadHistory)
	history, ok := ev.Data.([]model.Message)
	require.True(t, ok)
	assert.Empty(t, history)

	hub.Inbound <- model.Message{Author: "first", Body: "one"}
	hub.Inbound <- model.Message{Author: "first", Body: "two"}
	nextEvent(t, first, model.EventReceiveMessage)
	nextEvent(t, first, model.EventReceiveMessage)

	second := join(t, hub, "second")
	ev = nextEvent(t, second, model.EventLoadHistory)
	history, ok = ev.Data.([]model.Message)
	require.True(t, ok)
	require.Len(t, history, 2)
	assert.Equal(t, "one", history[0].Body)
	assert.Equal(t, "two", history[1].Body)
	assert.NotEmpty(t, history[0].SentAt)

	// The replay goes to the joiner only; the earlier client never sees
	// a load_history again.
	assertNoEvent(t, first, model.EventLoadHistory)
}

func TestHubStampsSentAtInUTCPlus9(t *testing.T) {
	hub := NewHub(NewRing(50))
	// 03:04 UTC is 12:04 in UTC+9.
	hub.now = func() time.Time {
		return time.Date(2024, 1, 2, 3, 4, 56, 0, time.UTC)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	c := join(t, hub, "alice")

	hub.Inbound <- model.Message{Author: "alice", Body: "hi", SentAt: "99:99"}

	ev := nextEvent(t, c, model.EventReceiveMessage)
	msg := ev.Data.(model.Message)
	assert.Equal(t, "12:04", msg.SentAt, "server assigns sentAt, client value discarded")

	snap := hub.history.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "12:04", snap[0].SentAt)
}

func TestHubDisconnectBroadcastsNoMessage(t *testing.T) {
	hub := startHub(t, 50)

	alice := join(t, hub, "alice")
	bob := join(t, hub, "bob")

	// Drain the presence updates from the two joins before disconnecting.
	ev := nextEvent(t, alice, model.EventPresenceCount)
	assert.Equal(t, 1, ev.Data.(model.Presence).Count)
	ev = nextEvent(t, alice, model.EventPresenceCount)
	assert.Equal(t, 2, ev.Data.(model.Presence).Count)

	hub.Unregister <- bob

	// The remaining client sees a presence update but no chat message.
	ev = nextEvent(t, alice, model.EventPresenceCount)
	presence := ev.Data.(model.Presence)
	assert.Equal(t, 1, presence.Count)
	assertNoEvent(t, alice, model.EventReceiveMessage)

	// The departed client's queue is closed by the hub.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-bob.out:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("expected bob's outbound queue to be closed")
		}
	}
}

func TestHubPresenceCounts(t *testing.T) {
	hub := startHub(t, 50)

	bob := join(t, hub, "bob")
	ev := nextEvent(t, bob, model.EventPresenceCount)
	presence := ev.Data.(model.Presence)
	assert.Equal(t, 1, presence.Count)
	assert.Equal(t, []string{"bob"}, presence.Users)

	join(t, hub, "alice")
	ev = nextEvent(t, bob, model.EventPresenceCount)
	presence = ev.Data.(model.Presence)
	assert.Equal(t, 2, presence.Count)
	assert.Equal(t, []string{"alice", "bob"}, presence.Users)
}

func TestHubDropsEmptyAndOversizedBodies(t *testing.T) {
	hub := startHub(t, 50)
	c := join(t, hub, "alice")

	long := make([]rune, 301)
	for i := range long {
		long[i] = 'x'
	}

	hub.Inbound <- model.Message{Author: "alice", Body: ""}
	hub.Inbound <- model.Message{Author: "alice", Body: string(long)}
	hub.Inbound <- model.Message{Author: "alice", Body: "kept"}

	ev := nextEvent(t, c, model.EventReceiveMessage)
	msg := ev.Data.(model.Message)
	assert.Equal(t, "kept", msg.Body)

	assert.Equal(t, 1, hub.history.Len())
}

func TestHubSanitizesAuthorAndBody(t *testing.T) {
	hub := startHub(t, 50)
	c := join(t, hub, "alice")

	hub.Inbound <- model.Message{
		Author: "<b>alice</b>",
		Body:   "hello <i>world</i>",
	}

	ev := nextEvent(t, c, model.EventReceiveMessage)
	msg := ev.Data.(model.Message)
	assert.Equal(t, "alice", msg.Author)
	assert.Equal(t, "hello world", msg.Body)
}
