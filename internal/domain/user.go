package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the domain entity for a user account.
type User struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
