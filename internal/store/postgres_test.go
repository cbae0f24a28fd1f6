package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuto1106110/plus-chat-api/internal/store"
	"github.com/yuto1106110/plus-chat-api/internal/testutil"
)

func TestPostgresStore(t *testing.T) {
	pool := testutil.DBInit(t)
	s := store.NewPostgres(pool)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	t.Run("create and get", func(t *testing.T) {
		user, err := s.Create(ctx, "alice", "hash-1")
		require.NoError(t, err)
		assert.NotZero(t, user.ID)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "hash-1", user.HashedPassword)

		got, err := s.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, user.Username, got.Username)
	})

	t.Run("duplicate username hits the unique constraint", func(t *testing.T) {
		_, err := s.Create(ctx, "alice", "hash-2")
		assert.ErrorIs(t, err, store.ErrUsernameTaken)
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := s.GetByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}
