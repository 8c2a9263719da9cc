package repo

import (
	"strings"

	dom "taskman/internal/domain"

	"github.com/google/uuid"
)

// matchTask evaluates the filter against one task. Blank / nil filters
// always pass; applied filters are ANDed.
func matchTask(t dom.Task, f TaskFilter) bool {
	if f.OwnerID != uuid.Nil && t.OwnerID != f.OwnerID {
		return false
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		needle := strings.ToLower(s)
		name := strings.ToLower(t.Name)
		desc := strings.ToLower(t.Description)
		if !strings.Contains(name, needle) && !(t.Description != "" && strings.Contains(desc, needle)) {
			return false
		}
	}
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.Priority != nil && t.Priority != *f.Priority {
		return false
	}
	if strings.TrimSpace(f.Tag) != "" && !t.HasTag(f.Tag) {
		return false
	}
	return true
}

// taskLess is the total order over tasks for the given sort option.
// Due dates sort nulls-last under both directions; status and priority
// compare by declaration order, not alphabetically. Equal keys fall
// through to id string order so pagination is deterministic across
// backends.
func taskLess(a, b dom.Task, sort dom.SortOption) bool {
	if c := compareByField(a, b, sort); c != 0 {
		return c < 0
	}
	return a.ID.String() < b.ID.String()
}

func compareByField(a, b dom.Task, sort dom.SortOption) int {
	dir := 1
	if sort.Direction == dom.SortDesc {
		dir = -1
	}
	switch sort.Field {
	case dom.SortByDueDate:
		// Null placement is fixed before direction applies.
		switch {
		case a.DueDate == nil && b.DueDate == nil:
			return 0
		case a.DueDate == nil:
			return 1
		case b.DueDate == nil:
			return -1
		case a.DueDate.Before(*b.DueDate):
			return -dir
		case a.DueDate.After(*b.DueDate):
			return dir
		}
		return 0
	case dom.SortByName:
		return dir * strings.Compare(a.Name, b.Name)
	case dom.SortByStatus:
		return dir * intCompare(a.Status.Ordinal(), b.Status.Ordinal())
	case dom.SortByPriority:
		return dir * intCompare(a.Priority.Ordinal(), b.Priority.Ordinal())
	}
	return 0
}

func intCompare(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
