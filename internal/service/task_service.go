package service

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"taskman/internal/cache"
	dom "taskman/internal/domain"
	"taskman/internal/repo"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const (
	maxNameLen        = 255
	maxDescriptionLen = 1000
	maxTags           = 10
	maxPageSize       = 100
)

// CreateTaskInput carries the caller-supplied fields for a new task.
// Status is not accepted: new tasks always start NOT_STARTED.
type CreateTaskInput struct {
	Name        string
	Description string
	DueDate     *time.Time
	Priority    dom.TaskPriority
	Tags        []string
}

// UpdateTaskInput is a full replacement of the mutable fields. Any id or
// owner the client sends is ignored; both are preserved from the stored
// record.
type UpdateTaskInput struct {
	Name        string
	Description string
	DueDate     *time.Time
	Status      dom.TaskStatus
	Priority    dom.TaskPriority
	Tags        []string
}

// FindTasksInput is a filtered, sorted, paginated query. Sort is the raw
// "field,direction" directive; blank means the default (dueDate,asc).
type FindTasksInput struct {
	Search   string
	Status   *dom.TaskStatus
	Priority *dom.TaskPriority
	Tag      string
	Page     int
	Size     int
	Sort     string
}

// TaskService validates input, stamps identity and ownership, and
// delegates storage to the configured TaskRepo. Every exported method
// requires the resolved owner id; there is no ambient caller identity.
type TaskService struct {
	repo  repo.TaskRepo
	cache *cache.TaskCache
	sf    singleflight.Group
}

// NewTaskService creates a TaskService. If c is nil, caching is disabled.
func NewTaskService(r repo.TaskRepo, c *cache.TaskCache) *TaskService {
	return &TaskService{repo: r, cache: c}
}

// Create validates the request, assigns a fresh id and the default status,
// stamps the owner, and stores the task.
func (s *TaskService) Create(ctx context.Context, ownerID uuid.UUID, in CreateTaskInput) (dom.Task, error) {
	name := strings.TrimSpace(in.Name)
	desc := strings.TrimSpace(in.Description)
	if err := validateTaskFields(name, desc, in.DueDate, in.Priority, in.Tags); err != nil {
		return dom.Task{}, err
	}

	task := dom.NewTask(name, desc, in.DueDate, in.Priority, in.Tags, ownerID)
	saved, err := s.repo.Save(ctx, task)
	if err != nil {
		return dom.Task{}, &StorageError{Err: err}
	}
	s.invalidateCache(ctx, ownerID)
	return saved, nil
}

// GetByID returns the task if it exists and belongs to the caller.
func (s *TaskService) GetByID(ctx context.Context, ownerID, id uuid.UUID) (dom.Task, error) {
	t, err := s.repo.FindByID(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repo.ErrNoTask) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, &StorageError{Err: err}
	}
	return t, nil
}

// Update replaces every mutable field of the task while keeping its id and
// owner from the stored record.
func (s *TaskService) Update(ctx context.Context, ownerID, id uuid.UUID, in UpdateTaskInput) (dom.Task, error) {
	name := strings.TrimSpace(in.Name)
	desc := strings.TrimSpace(in.Description)
	if err := validateTaskFields(name, desc, in.DueDate, in.Priority, in.Tags); err != nil {
		return dom.Task{}, err
	}
	if in.Status.Ordinal() < 0 {
		return dom.Task{}, invalidf("unknown status: %s", in.Status)
	}

	existing, err := s.repo.FindByID(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repo.ErrNoTask) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, &StorageError{Err: err}
	}

	updated := dom.Task{
		ID:          existing.ID,
		Name:        name,
		Description: desc,
		DueDate:     in.DueDate,
		Status:      in.Status,
		Priority:    in.Priority,
		Tags:        append([]string(nil), in.Tags...),
		OwnerID:     existing.OwnerID,
	}
	saved, err := s.repo.Save(ctx, updated)
	if err != nil {
		return dom.Task{}, &StorageError{Err: err}
	}
	s.invalidateCache(ctx, ownerID)
	return saved, nil
}

// Delete removes the task. A second delete of the same id reports
// ErrNotFound, never a failure.
func (s *TaskService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id, ownerID); err != nil {
		if errors.Is(err, repo.ErrNoTask) {
			return ErrNotFound
		}
		return &StorageError{Err: err}
	}
	if err := s.repo.DeleteByID(ctx, id, ownerID); err != nil {
		return &StorageError{Err: err}
	}
	s.invalidateCache(ctx, ownerID)
	return nil
}

// Find answers a filtered, sorted, paginated query scoped to the caller.
func (s *TaskService) Find(ctx context.Context, ownerID uuid.UUID, in FindTasksInput) (dom.Page[dom.Task], error) {
	if in.Size < 1 || in.Size > maxPageSize {
		return dom.Page[dom.Task]{}, invalidf("page size must be between 1 and %d", maxPageSize)
	}
	if in.Page < 0 {
		return dom.Page[dom.Task]{}, invalidf("page number must not be negative")
	}
	sortOpt, err := dom.ParseSortOption(in.Sort)
	if err != nil {
		return dom.Page[dom.Task]{}, &ValidationError{Message: err.Error()}
	}

	filter := repo.TaskFilter{
		OwnerID:  ownerID,
		Search:   strings.TrimSpace(in.Search),
		Status:   in.Status,
		Priority: in.Priority,
		Tag:      strings.TrimSpace(in.Tag),
	}

	if s.cache == nil {
		return s.findTasks(ctx, filter, in.Page, in.Size, sortOpt)
	}

	key := queryFingerprint(filter, in.Page, in.Size, sortOpt)
	v, err, _ := s.sf.Do(ownerID.String()+":"+key, func() (interface{}, error) {
		if p, err := s.cache.GetPage(ctx, ownerID, key); err == nil && p != nil {
			return *p, nil
		}
		page, err := s.findTasks(ctx, filter, in.Page, in.Size, sortOpt)
		if err != nil {
			return nil, err
		}
		_ = s.cache.SetPage(ctx, ownerID, key, page)
		return page, nil
	})
	if err != nil {
		return dom.Page[dom.Task]{}, err
	}
	return v.(dom.Page[dom.Task]), nil
}

func (s *TaskService) findTasks(ctx context.Context, f repo.TaskFilter, page, size int, sortOpt dom.SortOption) (dom.Page[dom.Task], error) {
	p, err := s.repo.FindTasks(ctx, f, page, size, sortOpt)
	if err != nil {
		log.Printf("find tasks: %v", err)
		return dom.Page[dom.Task]{}, &StorageError{Err: err}
	}
	return p, nil
}

func (s *TaskService) invalidateCache(ctx context.Context, ownerID uuid.UUID) {
	if s.cache != nil {
		_ = s.cache.InvalidateOwner(ctx, ownerID)
	}
}

func validateTaskFields(name, desc string, dueDate *time.Time, priority dom.TaskPriority, tags []string) error {
	if name == "" {
		return invalidf("task name must not be empty")
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return invalidf("task name must be at most %d characters", maxNameLen)
	}
	if utf8.RuneCountInString(desc) > maxDescriptionLen {
		return invalidf("description must be at most %d characters", maxDescriptionLen)
	}
	if dueDate != nil && dueDate.Before(time.Now().UTC()) {
		return invalidf("due date must not be in the past")
	}
	if priority.Ordinal() < 0 {
		return invalidf("unknown priority: %s", priority)
	}
	if len(tags) == 0 {
		return invalidf("at least one tag is required")
	}
	if len(tags) > maxTags {
		return invalidf("at most %d tags are allowed", maxTags)
	}
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		if strings.TrimSpace(tag) == "" {
			return invalidf("tags must not be blank")
		}
		if _, dup := seen[tag]; dup {
			return invalidf("duplicate tag: %s", tag)
		}
		seen[tag] = struct{}{}
	}
	return nil
}

// queryFingerprint derives a stable cache key from every parameter that
// shapes the page. Hashed so filter values cannot collide with the key
// separator.
func queryFingerprint(f repo.TaskFilter, page, size int, sortOpt dom.SortOption) string {
	status, priority := "", ""
	if f.Status != nil {
		status = string(*f.Status)
	}
	if f.Priority != nil {
		priority = string(*f.Priority)
	}
	raw := fmt.Sprintf("%s|%s|%s|%s|%d|%d|%s,%s",
		strings.ToLower(f.Search), status, priority, f.Tag, page, size, sortOpt.Field, sortOpt.Direction)
	sum := sha1.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}
