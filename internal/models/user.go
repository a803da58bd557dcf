package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an admin curator account. Public visitors never authenticate;
// users exist only to gate the content-management surface.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never serialize the hash
	CreatedAt    time.Time `json:"created_at"`
}
