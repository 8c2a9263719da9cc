package repo

import (
	"context"
	"sync"
	"time"

	dom "taskman/internal/domain"

	"github.com/google/uuid"
)

// MemoryUserRepo keeps user accounts in process memory.
type MemoryUserRepo struct {
	mu    sync.RWMutex
	users map[uuid.UUID]dom.User
}

// NewMemoryUserRepo returns an empty in-memory user repo.
func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{users: make(map[uuid.UUID]dom.User)}
}

func (r *MemoryUserRepo) GetByUsername(ctx context.Context, username string) (dom.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return dom.User{}, ErrNoUser
}

func (r *MemoryUserRepo) Create(ctx context.Context, username, passwordHash string) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return dom.User{}, ErrUsernameTaken
		}
	}
	u := dom.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	r.users[u.ID] = u
	return u, nil
}

func (r *MemoryUserRepo) First(ctx context.Context) (dom.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var first dom.User
	found := false
	for _, u := range r.users {
		if !found || u.CreatedAt.Before(first.CreatedAt) {
			first = u
			found = true
		}
	}
	if !found {
		return dom.User{}, ErrNoUser
	}
	return first, nil
}
