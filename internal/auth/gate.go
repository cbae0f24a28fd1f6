package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/yuto1106110/plus-chat-api/internal/model"
	"github.com/yuto1106110/plus-chat-api/internal/store"
)

var validate = validator.New()

// credentials carries the shape constraints: username 2-20 chars,
// password 4-20 chars.
type credentials struct {
	Username string `validate:"required,min=2,max=20"`
	Password string `validate:"required,min=4,max=20"`
}

// Gate validates registration and login attempts against a UserStore and
// issues a session token on success.
type Gate struct {
	store       store.UserStore
	tokenSecret string
	tokenTTL    time.Duration
}

// NewGate returns a gate over the given store.
func NewGate(s store.UserStore, tokenSecret string, tokenTTL time.Duration) *Gate {
	return &Gate{
		store:       s,
		tokenSecret: tokenSecret,
		tokenTTL:    tokenTTL,
	}
}

// Register creates a new account. Shape constraints are checked before the
// store is touched; uniqueness is left to the store so concurrent
// registrations of the same name cannot race past a lookup.
func (g *Gate) Register(ctx context.Context, username, password string) (model.User, string, error) {
	if err := validate.Struct(credentials{Username: username, Password: password}); err != nil {
		return model.User{}, "", fmt.Errorf("%w: %v", ErrValidation, err)
	}

	hashed, err := HashPassword(password)
	if err != nil {
		log.Printf("gate: %v", err)
		return model.User{}, "", ErrStorage
	}

	user, err := g.store.Create(ctx, username, hashed)
	if err != nil {
		if errors.Is(err, store.ErrUsernameTaken) {
			return model.User{}, "", ErrUsernameTaken
		}
		// Opaque failure; the store detail stays in the logs.
		log.Printf("gate: %v", err)
		return model.User{}, "", ErrStorage
	}

	token, err := MakeJWT(user.Username, g.tokenSecret, g.tokenTTL)
	if err != nil {
		log.Printf("gate: %v", err)
		return model.User{}, "", ErrStorage
	}

	return user, token, nil
}

// Login verifies the password for an existing account. Unknown usernames
// and wrong passwords are indistinguishable to the caller.
func (g *Gate) Login(ctx context.Context, username, password string) (model.User, string, error) {
	user, err := g.store.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.User{}, "", ErrUnauthorized
		}
		log.Printf("gate: %v", err)
		return model.User{}, "", ErrStorage
	}

	ok, err := CheckPasswordHash(password, user.HashedPassword)
	if err != nil {
		log.Printf("gate: cannot verify password — hash may be corrupted: %v", err)
		return model.User{}, "", ErrStorage
	}
	if !ok {
		return model.User{}, "", ErrUnauthorized
	}

	token, err := MakeJWT(user.Username, g.tokenSecret, g.tokenTTL)
	if err != nil {
		log.Printf("gate: %v", err)
		return model.User{}, "", ErrStorage
	}

	return user, token, nil
}
