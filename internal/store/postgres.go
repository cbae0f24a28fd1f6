package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yuto1106110/plus-chat-api/internal/model"
)

// uniqueViolation is the Postgres SQLSTATE for a unique constraint breach.
const uniqueViolation = "23505"

// Postgres is a durable UserStore backed by the users table. The UNIQUE
// constraint on username makes Create atomic under concurrent registration.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps an existing connection pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) Create(ctx context.Context, username, hashedPassword string) (model.User, error) {
	var user model.User

	err := p.pool.QueryRow(ctx,
		`INSERT INTO users (username, hashed_password, created_at)
		 VALUES ($1, $2, $3)
		 RETURNING id, username, hashed_password, created_at`,
		username, hashedPassword, time.Now().UTC(),
	).Scan(&user.ID, &user.Username, &user.HashedPassword, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.User{}, ErrUsernameTaken
		}
		return model.User{}, fmt.Errorf("store: failed to create user: %w", err)
	}

	return user, nil
}

func (p *Postgres) GetByUsername(ctx context.Context, username string) (model.User, error) {
	var user model.User

	err := p.pool.QueryRow(ctx,
		`SELECT id, username, hashed_password, created_at
		 FROM users
		 WHERE username = $1`,
		username,
	).Scan(&user.ID, &user.Username, &user.HashedPassword, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, fmt.Errorf("store: failed to query user: %w", err)
	}

	return user, nil
}
