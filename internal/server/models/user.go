// Package models holds the server-side domain types persisted by the
// repositories and exchanged between services and the HTTP layer.
package models

import "time"

// User is a registered account. PasswordHash is a bcrypt hash and never
// leaves the server.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
