package repo

import (
	"context"
	"errors"

	dom "taskman/internal/domain"

	"github.com/google/uuid"
)

// ErrNoTask is returned by FindByID on a miss, whether the task is absent
// or owned by someone else; callers cannot tell the two apart.
var ErrNoTask = errors.New("no such task")

// TaskFilter is the set of optional query filters. Zero values mean the
// filter is not applied; all applied filters are ANDed. OwnerID scopes the
// query to one owner; uuid.Nil disables the scope and is reserved for
// internal paths (migrations, seeding) — the service never passes it.
type TaskFilter struct {
	OwnerID  uuid.UUID
	Search   string
	Status   *dom.TaskStatus
	Priority *dom.TaskPriority
	Tag      string
}

// TaskRepo is the storage backend contract. Both implementations (memory,
// mongo) must return identical pages for the same logical dataset.
//
// Ordering is the sort option's field-specific comparator (nulls-last due
// dates, ordinal enums), direction applied to non-null values only, with
// task id (string order) as the tie-break on equal keys.
type TaskRepo interface {
	// Save upserts by id and returns the stored value.
	Save(ctx context.Context, t dom.Task) (dom.Task, error)
	// FindByID returns the task only if it exists and, when ownerID is not
	// uuid.Nil, belongs to that owner. Misses return ErrNoTask.
	FindByID(ctx context.Context, id, ownerID uuid.UUID) (dom.Task, error)
	// DeleteByID removes the task if it exists and ownership matches;
	// otherwise it is a no-op.
	DeleteByID(ctx context.Context, id, ownerID uuid.UUID) error
	// FindTasks applies the filter, orders, and paginates (zero-based page).
	FindTasks(ctx context.Context, f TaskFilter, page, size int, sort dom.SortOption) (dom.Page[dom.Task], error)
}
