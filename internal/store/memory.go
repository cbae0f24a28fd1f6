package store

import (
	"context"
	"sync"
	"time"

	"github.com/yuto1106110/plus-chat-api/internal/model"
)

// Memory is a volatile UserStore. Uniqueness checks and inserts happen
// under one lock, so concurrent registrations of the same name cannot
// both succeed.
type Memory struct {
	mu     sync.Mutex
	users  map[string]model.User
	lastID int64
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{users: make(map[string]model.User)}
}

func (m *Memory) Create(_ context.Context, username, hashedPassword string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[username]; ok {
		return model.User{}, ErrUsernameTaken
	}

	m.lastID++
	user := model.User{
		ID:             m.lastID,
		Username:       username,
		HashedPassword: hashedPassword,
		CreatedAt:      time.Now().UTC(),
	}
	m.users[username] = user

	return user, nil
}

func (m *Memory) GetByUsername(_ context.Context, username string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[username]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return user, nil
}
