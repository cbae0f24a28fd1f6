package model

import "time"

// User is a registered account. The password never leaves the store layer
// unhashed; HashedPassword is an argon2id encoded hash.
type User struct {
	ID             int64
	Username       string
	HashedPassword string
	CreatedAt      time.Time
}
