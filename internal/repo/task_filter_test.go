package repo

import (
	"testing"
	"time"

	dom "taskman/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func timePtr(t time.Time) *time.Time { return &t }

func sampleTask(owner uuid.UUID) dom.Task {
	return dom.Task{
		ID:          uuid.New(),
		Name:        "Write report",
		Description: "Quarterly numbers",
		Status:      dom.StatusNotStarted,
		Priority:    dom.PriorityHigh,
		Tags:        []string{"work", "q3"},
		OwnerID:     owner,
	}
}

func TestMatchTaskOwner(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()
	task := sampleTask(owner)

	assert.True(t, matchTask(task, TaskFilter{OwnerID: owner}))
	assert.False(t, matchTask(task, TaskFilter{OwnerID: other}))
	// uuid.Nil disables the scope (internal paths only).
	assert.True(t, matchTask(task, TaskFilter{}))
}

func TestMatchTaskSearch(t *testing.T) {
	owner := uuid.New()
	task := sampleTask(owner)

	assert.True(t, matchTask(task, TaskFilter{OwnerID: owner, Search: "REPORT"}))
	assert.True(t, matchTask(task, TaskFilter{OwnerID: owner, Search: "quarterly"}))
	assert.False(t, matchTask(task, TaskFilter{OwnerID: owner, Search: "invoice"}))
	// Blank search is neutral.
	assert.True(t, matchTask(task, TaskFilter{OwnerID: owner, Search: "  "}))

	// A task without a description never matches on description.
	task.Description = ""
	assert.False(t, matchTask(task, TaskFilter{OwnerID: owner, Search: "quarterly"}))
	assert.True(t, matchTask(task, TaskFilter{OwnerID: owner, Search: "report"}))
}

func TestMatchTaskStatusPriorityTag(t *testing.T) {
	owner := uuid.New()
	task := sampleTask(owner)

	st := dom.StatusNotStarted
	wrongSt := dom.StatusDone
	assert.True(t, matchTask(task, TaskFilter{OwnerID: owner, Status: &st}))
	assert.False(t, matchTask(task, TaskFilter{OwnerID: owner, Status: &wrongSt}))

	pr := dom.PriorityHigh
	wrongPr := dom.PriorityLow
	assert.True(t, matchTask(task, TaskFilter{OwnerID: owner, Priority: &pr}))
	assert.False(t, matchTask(task, TaskFilter{OwnerID: owner, Priority: &wrongPr}))

	assert.True(t, matchTask(task, TaskFilter{OwnerID: owner, Tag: "work"}))
	assert.False(t, matchTask(task, TaskFilter{OwnerID: owner, Tag: "WORK"})) // case-sensitive
	assert.False(t, matchTask(task, TaskFilter{OwnerID: owner, Tag: "home"}))
}

func TestMatchTaskFiltersAreANDed(t *testing.T) {
	owner := uuid.New()
	task := sampleTask(owner)
	st := dom.StatusNotStarted
	f := TaskFilter{OwnerID: owner, Search: "report", Status: &st, Tag: "work"}
	assert.True(t, matchTask(task, f))
	f.Tag = "home"
	assert.False(t, matchTask(task, f))
}

func TestTaskLessDueDateNullsLast(t *testing.T) {
	tomorrow := time.Now().Add(24 * time.Hour).UTC()
	withDue := sampleTask(uuid.New())
	withDue.DueDate = timePtr(tomorrow)
	noDue := sampleTask(uuid.New())

	asc := dom.SortOption{Field: dom.SortByDueDate, Direction: dom.SortAsc}
	desc := dom.SortOption{Field: dom.SortByDueDate, Direction: dom.SortDesc}

	// The dated task comes first under both directions.
	assert.True(t, taskLess(withDue, noDue, asc))
	assert.False(t, taskLess(noDue, withDue, asc))
	assert.True(t, taskLess(withDue, noDue, desc))
	assert.False(t, taskLess(noDue, withDue, desc))
}

func TestTaskLessDueDateDirection(t *testing.T) {
	early := sampleTask(uuid.New())
	early.DueDate = timePtr(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	late := sampleTask(uuid.New())
	late.DueDate = timePtr(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))

	asc := dom.SortOption{Field: dom.SortByDueDate, Direction: dom.SortAsc}
	desc := dom.SortOption{Field: dom.SortByDueDate, Direction: dom.SortDesc}
	assert.True(t, taskLess(early, late, asc))
	assert.True(t, taskLess(late, early, desc))
}

func TestTaskLessEnumOrdinalNotAlphabetic(t *testing.T) {
	urgent := sampleTask(uuid.New())
	urgent.Priority = dom.PriorityUrgent
	high := sampleTask(uuid.New())
	high.Priority = dom.PriorityHigh

	asc := dom.SortOption{Field: dom.SortByPriority, Direction: dom.SortAsc}
	// Alphabetically HIGH < URGENT, but URGENT is declared first.
	assert.True(t, taskLess(urgent, high, asc))

	inProgress := sampleTask(uuid.New())
	inProgress.Status = dom.StatusInProgress
	done := sampleTask(uuid.New())
	done.Status = dom.StatusDone
	statusAsc := dom.SortOption{Field: dom.SortByStatus, Direction: dom.SortAsc}
	// Alphabetically DONE < IN_PROGRESS, but IN_PROGRESS is declared first.
	assert.True(t, taskLess(inProgress, done, statusAsc))
}

func TestTaskLessTieBreakByID(t *testing.T) {
	a := sampleTask(uuid.New())
	b := sampleTask(uuid.New())
	a.Name = "same"
	b.Name = "same"

	sortOpt := dom.SortOption{Field: dom.SortByName, Direction: dom.SortAsc}
	aFirst := a.ID.String() < b.ID.String()
	assert.Equal(t, aFirst, taskLess(a, b, sortOpt))
	assert.Equal(t, !aFirst, taskLess(b, a, sortOpt))
}
