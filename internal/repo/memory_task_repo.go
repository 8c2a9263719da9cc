package repo

import (
	"context"
	"sort"
	"sync"

	dom "taskman/internal/domain"

	"github.com/google/uuid"
)

// MemoryTaskRepo holds the canonical task set in a mutex-guarded map.
// Individual calls are atomic with respect to each other, but FindTasks
// does not freeze the set for the whole scan: writes racing a query may or
// may not show up in that query's page. Tasks are copied on the way in and
// out, so callers never hold live references into the map.
type MemoryTaskRepo struct {
	mu    sync.RWMutex
	tasks map[uuid.UUID]dom.Task
}

// NewMemoryTaskRepo returns an empty in-memory task repo.
func NewMemoryTaskRepo() *MemoryTaskRepo {
	return &MemoryTaskRepo{tasks: make(map[uuid.UUID]dom.Task)}
}

func (r *MemoryTaskRepo) Save(ctx context.Context, t dom.Task) (dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[t.ID] = t.Clone()
	return t.Clone(), nil
}

func (r *MemoryTaskRepo) FindByID(ctx context.Context, id, ownerID uuid.UUID) (dom.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tasks[id]
	if !ok || (ownerID != uuid.Nil && t.OwnerID != ownerID) {
		return dom.Task{}, ErrNoTask
	}
	return t.Clone(), nil
}

func (r *MemoryTaskRepo) DeleteByID(ctx context.Context, id, ownerID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if ok && (ownerID == uuid.Nil || t.OwnerID == ownerID) {
		delete(r.tasks, id)
	}
	return nil
}

func (r *MemoryTaskRepo) FindTasks(ctx context.Context, f TaskFilter, page, size int, sortOpt dom.SortOption) (dom.Page[dom.Task], error) {
	r.mu.RLock()
	matched := make([]dom.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		if matchTask(t, f) {
			matched = append(matched, t.Clone())
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return taskLess(matched[i], matched[j], sortOpt)
	})
	return dom.NewPage(matched, page, size), nil
}
