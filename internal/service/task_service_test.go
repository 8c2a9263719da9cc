package service

import (
	"context"
	"errors"
	"testing"
	"time"

	dom "taskman/internal/domain"
	"taskman/internal/repo"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService() *TaskService {
	return NewTaskService(repo.NewMemoryTaskRepo(), nil)
}

func validCreate() CreateTaskInput {
	return CreateTaskInput{
		Name:     "Pay invoices",
		Priority: dom.PriorityHigh,
		Tags:     []string{"finance"},
	}
}

func timePtr(t time.Time) *time.Time { return &t }

func TestCreateAssignsIdentityAndDefaults(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	owner := uuid.New()

	task, err := svc.Create(ctx, owner, validCreate())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, task.ID)
	assert.Equal(t, dom.StatusNotStarted, task.Status)
	assert.Equal(t, owner, task.OwnerID)
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	owner := uuid.New()

	long := make([]byte, 256)
	for i := range long {
		long[i] = 'x'
	}
	cases := []struct {
		name string
		mut  func(*CreateTaskInput)
	}{
		{"empty name", func(in *CreateTaskInput) { in.Name = "   " }},
		{"name too long", func(in *CreateTaskInput) { in.Name = string(long) }},
		{"no tags", func(in *CreateTaskInput) { in.Tags = nil }},
		{"too many tags", func(in *CreateTaskInput) {
			in.Tags = []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11"}
		}},
		{"duplicate tag", func(in *CreateTaskInput) { in.Tags = []string{"a", "a"} }},
		{"blank tag", func(in *CreateTaskInput) { in.Tags = []string{" "} }},
		{"past due date", func(in *CreateTaskInput) { in.DueDate = timePtr(time.Now().Add(-time.Hour)) }},
		{"unknown priority", func(in *CreateTaskInput) { in.Priority = "WHENEVER" }},
	}
	for _, tc := range cases {
		in := validCreate()
		tc.mut(&in)
		_, err := svc.Create(ctx, owner, in)
		var ve *ValidationError
		assert.True(t, errors.As(err, &ve), "%s: got %v", tc.name, err)
	}
}

func TestGetByIDOwnershipIsolation(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	ownerA := uuid.New()
	ownerB := uuid.New()

	task, err := svc.Create(ctx, ownerA, validCreate())
	require.NoError(t, err)

	_, err = svc.GetByID(ctx, ownerB, task.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	got, err := svc.GetByID(ctx, ownerA, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)
}

func TestUpdatePreservesIDAndOwner(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	owner := uuid.New()

	task, err := svc.Create(ctx, owner, validCreate())
	require.NoError(t, err)

	updated, err := svc.Update(ctx, owner, task.ID, UpdateTaskInput{
		Name:     "Pay invoices now",
		Status:   dom.StatusInProgress,
		Priority: dom.PriorityUrgent,
		Tags:     []string{"finance", "urgent"},
	})
	require.NoError(t, err)
	assert.Equal(t, task.ID, updated.ID)
	assert.Equal(t, owner, updated.OwnerID)
	assert.Equal(t, "Pay invoices now", updated.Name)
	assert.Equal(t, dom.StatusInProgress, updated.Status)
}

func TestUpdateOtherOwnersTaskIsNotFound(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	ownerA := uuid.New()
	ownerB := uuid.New()

	task, err := svc.Create(ctx, ownerA, validCreate())
	require.NoError(t, err)

	_, err = svc.Update(ctx, ownerB, task.ID, UpdateTaskInput{
		Name:     "hijack",
		Status:   dom.StatusDone,
		Priority: dom.PriorityLow,
		Tags:     []string{"x"},
	})
	assert.True(t, errors.Is(err, ErrNotFound))

	// Unchanged for the real owner.
	got, err := svc.GetByID(ctx, ownerA, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pay invoices", got.Name)
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	owner := uuid.New()
	task, err := svc.Create(ctx, owner, validCreate())
	require.NoError(t, err)

	_, err = svc.Update(ctx, owner, task.ID, UpdateTaskInput{
		Name:     "x",
		Status:   "PAUSED",
		Priority: dom.PriorityLow,
		Tags:     []string{"x"},
	})
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestDeleteIdempotence(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	owner := uuid.New()

	task, err := svc.Create(ctx, owner, validCreate())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, owner, task.ID))
	err = svc.Delete(ctx, owner, task.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDeleteOtherOwnersTaskIsNotFound(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	ownerA := uuid.New()
	ownerB := uuid.New()

	task, err := svc.Create(ctx, ownerA, validCreate())
	require.NoError(t, err)

	err = svc.Delete(ctx, ownerB, task.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = svc.GetByID(ctx, ownerA, task.ID)
	require.NoError(t, err)
}

func TestFindValidatesPaging(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	owner := uuid.New()

	var ve *ValidationError
	_, err := svc.Find(ctx, owner, FindTasksInput{Page: 0, Size: 0})
	assert.True(t, errors.As(err, &ve))
	_, err = svc.Find(ctx, owner, FindTasksInput{Page: 0, Size: 101})
	assert.True(t, errors.As(err, &ve))
	_, err = svc.Find(ctx, owner, FindTasksInput{Page: -1, Size: 10})
	assert.True(t, errors.As(err, &ve))
}

func TestFindRejectsBadSort(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	owner := uuid.New()

	_, err := svc.Find(ctx, owner, FindTasksInput{Page: 0, Size: 10, Sort: "name,sideways"})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Message, "Unknown sort direction")
}

func TestFindByTagEndToEnd(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	owner := uuid.New()

	_, err := svc.Create(ctx, owner, CreateTaskInput{
		Name:     "tagged",
		Priority: dom.PriorityHigh,
		Tags:     []string{"a", "b"},
	})
	require.NoError(t, err)

	page, err := svc.Find(ctx, owner, FindTasksInput{Tag: "a", Page: 0, Size: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalElements)

	page, err = svc.Find(ctx, owner, FindTasksInput{Tag: "c", Page: 0, Size: 10})
	require.NoError(t, err)
	assert.Equal(t, 0, page.TotalElements)
	assert.Empty(t, page.Elements)
}

func TestFindOwnerScopedPagination(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	ownerA := uuid.New()
	ownerB := uuid.New()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, ownerA, validCreate())
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, ownerB, validCreate())
	require.NoError(t, err)

	page, err := svc.Find(ctx, ownerA, FindTasksInput{Page: 0, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Elements, 2)
	for _, e := range page.Elements {
		assert.Equal(t, ownerA, e.OwnerID)
	}
}
