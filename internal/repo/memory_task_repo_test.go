package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	dom "taskman/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTask(owner uuid.UUID, name string, tags ...string) dom.Task {
	if len(tags) == 0 {
		tags = []string{"misc"}
	}
	return dom.NewTask(name, "", nil, dom.PriorityMedium, tags, owner)
}

func TestMemorySaveAndFindByID(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryTaskRepo()
	owner := uuid.New()

	task := newTask(owner, "one")
	saved, err := r.Save(ctx, task)
	require.NoError(t, err)
	assert.Equal(t, task.ID, saved.ID)

	got, err := r.FindByID(ctx, task.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, task.Name, got.Name)
	assert.Equal(t, owner, got.OwnerID)
}

func TestMemoryFindByIDOwnershipIsolation(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryTaskRepo()
	ownerA := uuid.New()
	ownerB := uuid.New()

	task := newTask(ownerA, "private")
	_, err := r.Save(ctx, task)
	require.NoError(t, err)

	_, err = r.FindByID(ctx, task.ID, ownerB)
	assert.True(t, errors.Is(err, ErrNoTask))

	// Nil owner disables the scope for internal paths.
	got, err := r.FindByID(ctx, task.ID, uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, ownerA, got.OwnerID)
}

func TestMemorySaveUpserts(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryTaskRepo()
	owner := uuid.New()

	task := newTask(owner, "before")
	_, err := r.Save(ctx, task)
	require.NoError(t, err)

	task.Name = "after"
	_, err = r.Save(ctx, task)
	require.NoError(t, err)

	got, err := r.FindByID(ctx, task.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Name)

	page, err := r.FindTasks(ctx, TaskFilter{OwnerID: owner}, 0, 10, dom.DefaultSort)
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalElements)
}

func TestMemoryDeleteIsIdempotentAndOwnerScoped(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryTaskRepo()
	ownerA := uuid.New()
	ownerB := uuid.New()

	task := newTask(ownerA, "victim")
	_, err := r.Save(ctx, task)
	require.NoError(t, err)

	// Wrong owner: no-op, the task survives.
	require.NoError(t, r.DeleteByID(ctx, task.ID, ownerB))
	_, err = r.FindByID(ctx, task.ID, ownerA)
	require.NoError(t, err)

	require.NoError(t, r.DeleteByID(ctx, task.ID, ownerA))
	_, err = r.FindByID(ctx, task.ID, ownerA)
	assert.True(t, errors.Is(err, ErrNoTask))

	// Deleting again is still not an error.
	require.NoError(t, r.DeleteByID(ctx, task.ID, ownerA))
}

func TestMemoryFindTasksReturnsCopies(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryTaskRepo()
	owner := uuid.New()
	task := newTask(owner, "shared", "a")
	_, err := r.Save(ctx, task)
	require.NoError(t, err)

	page, err := r.FindTasks(ctx, TaskFilter{OwnerID: owner}, 0, 10, dom.DefaultSort)
	require.NoError(t, err)
	require.Len(t, page.Elements, 1)
	page.Elements[0].Tags[0] = "mutated"

	got, err := r.FindByID(ctx, task.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got.Tags)
}

func TestMemoryFindTasksOwnerPagination(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryTaskRepo()
	ownerA := uuid.New()
	ownerB := uuid.New()

	for _, name := range []string{"a1", "a2", "a3"} {
		_, err := r.Save(ctx, newTask(ownerA, name))
		require.NoError(t, err)
	}
	_, err := r.Save(ctx, newTask(ownerB, "b1"))
	require.NoError(t, err)

	page, err := r.FindTasks(ctx, TaskFilter{OwnerID: ownerA}, 0, 2, dom.DefaultSort)
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Elements, 2)
	for _, e := range page.Elements {
		assert.Equal(t, ownerA, e.OwnerID)
	}

	page, err = r.FindTasks(ctx, TaskFilter{OwnerID: ownerA}, 1, 2, dom.DefaultSort)
	require.NoError(t, err)
	assert.Len(t, page.Elements, 1)
}

func TestMemoryFindTasksTagFilter(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryTaskRepo()
	owner := uuid.New()

	task := dom.NewTask("tagged", "", nil, dom.PriorityHigh, []string{"a", "b"}, owner)
	_, err := r.Save(ctx, task)
	require.NoError(t, err)

	page, err := r.FindTasks(ctx, TaskFilter{OwnerID: owner, Tag: "a"}, 0, 10, dom.DefaultSort)
	require.NoError(t, err)
	require.Len(t, page.Elements, 1)
	assert.Equal(t, task.ID, page.Elements[0].ID)

	page, err = r.FindTasks(ctx, TaskFilter{OwnerID: owner, Tag: "c"}, 0, 10, dom.DefaultSort)
	require.NoError(t, err)
	assert.Empty(t, page.Elements)
	assert.Equal(t, 0, page.TotalElements)
}

func TestMemoryFindTasksNullDueDatePlacement(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryTaskRepo()
	owner := uuid.New()

	t1 := newTask(owner, "no due")
	t2 := newTask(owner, "due tomorrow")
	tomorrow := time.Now().Add(24 * time.Hour).UTC()
	t2.DueDate = &tomorrow
	for _, task := range []dom.Task{t1, t2} {
		_, err := r.Save(ctx, task)
		require.NoError(t, err)
	}

	for _, dir := range []dom.SortDirection{dom.SortAsc, dom.SortDesc} {
		page, err := r.FindTasks(ctx, TaskFilter{OwnerID: owner}, 0, 10,
			dom.SortOption{Field: dom.SortByDueDate, Direction: dir})
		require.NoError(t, err)
		require.Len(t, page.Elements, 2)
		assert.Equal(t, t2.ID, page.Elements[0].ID, "direction %s", dir)
		assert.Equal(t, t1.ID, page.Elements[1].ID, "direction %s", dir)
	}
}

func TestMemoryFindTasksPriorityOrdinalSort(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryTaskRepo()
	owner := uuid.New()

	low := newTask(owner, "low")
	low.Priority = dom.PriorityLow
	urgent := newTask(owner, "urgent")
	urgent.Priority = dom.PriorityUrgent
	medium := newTask(owner, "medium")
	medium.Priority = dom.PriorityMedium
	for _, task := range []dom.Task{low, urgent, medium} {
		_, err := r.Save(ctx, task)
		require.NoError(t, err)
	}

	page, err := r.FindTasks(ctx, TaskFilter{OwnerID: owner}, 0, 10,
		dom.SortOption{Field: dom.SortByPriority, Direction: dom.SortAsc})
	require.NoError(t, err)
	require.Len(t, page.Elements, 3)
	assert.Equal(t, dom.PriorityUrgent, page.Elements[0].Priority)
	assert.Equal(t, dom.PriorityMedium, page.Elements[1].Priority)
	assert.Equal(t, dom.PriorityLow, page.Elements[2].Priority)
}

func TestMemoryFindTasksDeterministicAcrossCalls(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryTaskRepo()
	owner := uuid.New()
	for i := 0; i < 20; i++ {
		task := newTask(owner, "same name")
		_, err := r.Save(ctx, task)
		require.NoError(t, err)
	}

	sortOpt := dom.SortOption{Field: dom.SortByName, Direction: dom.SortAsc}
	first, err := r.FindTasks(ctx, TaskFilter{OwnerID: owner}, 1, 5, sortOpt)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := r.FindTasks(ctx, TaskFilter{OwnerID: owner}, 1, 5, sortOpt)
		require.NoError(t, err)
		assert.Equal(t, first.Elements, again.Elements)
	}
}
