package cache

import (
	"context"
	"encoding/json"
	"time"

	dom "taskman/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "tasks:q:"

// TaskCache caches query pages in Redis, one namespace per owner so a
// write by one user never evicts another user's entries.
type TaskCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTaskCache returns a new TaskCache.
func NewTaskCache(rdb *redis.Client, ttl time.Duration) *TaskCache {
	return &TaskCache{rdb: rdb, ttl: ttl}
}

func ownerKey(ownerID uuid.UUID, fingerprint string) string {
	return keyPrefix + ownerID.String() + ":" + fingerprint
}

// GetPage returns the cached page for the query fingerprint, or nil on miss.
func (c *TaskCache) GetPage(ctx context.Context, ownerID uuid.UUID, fingerprint string) (*dom.Page[dom.Task], error) {
	b, err := c.rdb.Get(ctx, ownerKey(ownerID, fingerprint)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var page dom.Page[dom.Task]
	if err := json.Unmarshal(b, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// SetPage stores the page under the query fingerprint.
func (c *TaskCache) SetPage(ctx context.Context, ownerID uuid.UUID, fingerprint string, page dom.Page[dom.Task]) error {
	b, err := json.Marshal(page)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, ownerKey(ownerID, fingerprint), b, c.ttl).Err()
}

// InvalidateOwner removes every cached page of one owner (cache
// invalidation on write).
func (c *TaskCache) InvalidateOwner(ctx context.Context, ownerID uuid.UUID) error {
	iter := c.rdb.Scan(ctx, 0, keyPrefix+ownerID.String()+":*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
