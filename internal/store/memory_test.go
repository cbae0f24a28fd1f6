package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCreateAndGet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	user, err := m.Create(ctx, "alice", "hash-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "alice", user.Username)

	got, err := m.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user, got)

	_, err = m.GetByUsername(ctx, "bob")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryDuplicateUsername(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, err := m.Create(ctx, "alice", "hash-1")
	require.NoError(t, err)

	_, err = m.Create(ctx, "alice", "hash-2")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

// Concurrent registrations of the same name must produce exactly one
// winner; the uniqueness check and the insert happen under one lock.
func TestMemoryConcurrentRegistrationRace(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	const attempts = 32

	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := range attempts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = m.Create(ctx, "alice", "hash")
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, ErrUsernameTaken)
		}
	}
	assert.Equal(t, 1, winners)
}
