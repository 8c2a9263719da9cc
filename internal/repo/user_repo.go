package repo

import (
	"context"
	"errors"

	dom "taskman/internal/domain"
)

// ErrNoUser is returned when a user lookup misses.
var ErrNoUser = errors.New("no such user")

// ErrUsernameTaken is returned when a username is already registered.
var ErrUsernameTaken = errors.New("username already taken")

// UserRepo provides user persistence. Implementations follow the same
// driver switch as TaskRepo.
type UserRepo interface {
	GetByUsername(ctx context.Context, username string) (dom.User, error)
	Create(ctx context.Context, username, passwordHash string) (dom.User, error)
	// First returns the earliest-created user; used as the default owner
	// for the task backfill. ErrNoUser when the store is empty.
	First(ctx context.Context) (dom.User, error)
}
