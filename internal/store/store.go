// Package store persists user credentials. Two implementations exist: a
// durable Postgres store and a volatile in-memory one; durability is a
// deployment choice, not part of the contract.
package store

import (
	"context"
	"errors"

	"github.com/yuto1106110/plus-chat-api/internal/model"
)

var (
	// ErrUsernameTaken is returned by Create when the username already
	// exists. Uniqueness is enforced atomically inside each store, never
	// by a caller-side lookup.
	ErrUsernameTaken = errors.New("store: username already taken")

	// ErrNotFound is returned by GetByUsername for unknown usernames.
	ErrNotFound = errors.New("store: user not found")
)

// UserStore answers existence and verification queries for accounts.
type UserStore interface {
	Create(ctx context.Context, username, hashedPassword string) (model.User, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
}
