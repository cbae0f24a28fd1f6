// Package chat contains the relay hub, its clients, and the bounded
// message history.
package chat

import (
	"sync"

	"github.com/yuto1106110/plus-chat-api/internal/model"
)

// DefaultHistoryCapacity matches the reference retention of 50 messages.
const DefaultHistoryCapacity = 50

// Ring is a fixed-capacity FIFO buffer of messages. Once full, appending
// evicts the oldest entry. It is safe for concurrent use, although the hub
// only ever mutates it from its run loop.
type Ring struct {
	mu       sync.RWMutex
	messages []model.Message
	capacity int
}

// NewRing returns a ring holding at most capacity messages. A capacity
// below 1 falls back to DefaultHistoryCapacity.
func NewRing(capacity int) *Ring {
	if capacity < 1 {
		capacity = DefaultHistoryCapacity
	}
	return &Ring{
		messages: make([]model.Message, 0, capacity),
		capacity: capacity,
	}
}

// Append adds msg at the tail, evicting from the head when over capacity.
func (r *Ring) Append(msg model.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.messages = append(r.messages, msg)
	if len(r.messages) > r.capacity {
		// Shift rather than re-slice so the backing array doesn't pin
		// evicted messages.
		n := copy(r.messages, r.messages[len(r.messages)-r.capacity:])
		r.messages = r.messages[:n]
	}
}

// Snapshot returns the current contents oldest-first. The returned slice is
// a copy; later appends never mutate it.
func (r *Ring) Snapshot() []model.Message {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// Len reports the number of messages currently retained.
func (r *Ring) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.messages)
}

// Cap reports the fixed capacity.
func (r *Ring) Cap() int {
	return r.capacity
}
