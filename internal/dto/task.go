package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DueDate parses due_date from JSON as either date-only ("2006-01-02") or
// RFC3339. Date-only is stored as start of that day in UTC.
type DueDate struct{ t *time.Time }

func (d *DueDate) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		d.t = nil
		return nil
	}
	s := strings.TrimSpace(*raw)
	layouts := []string{
		"2006-01-02", // date only
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			if layout == "2006-01-02" {
				parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
			}
			d.t = &parsed
			return nil
		}
	}
	return fmt.Errorf("due_date: use date (YYYY-MM-DD) or RFC3339 datetime")
}

// Ptr returns *time.Time for use in service/domain.
func (d DueDate) Ptr() *time.Time { return d.t }

type CreateTaskRequest struct {
	Name        string   `json:"name" binding:"required,min=1,max=255"`
	Description string   `json:"description" binding:"max=1000"`
	DueDate     DueDate  `json:"due_date"` // optional: "2026-02-19" or RFC3339
	Priority    string   `json:"priority" binding:"required"`
	Tags        []string `json:"tags" binding:"required,min=1,max=10"`
}

// UpdateTaskRequest is a full replacement; id and owner are taken from the
// path and session, never from the body.
type UpdateTaskRequest struct {
	Name        string   `json:"name" binding:"required,min=1,max=255"`
	Description string   `json:"description" binding:"max=1000"`
	DueDate     DueDate  `json:"due_date"`
	Status      string   `json:"status" binding:"required"`
	Priority    string   `json:"priority" binding:"required"`
	Tags        []string `json:"tags" binding:"required,min=1,max=10"`
}

type TaskResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	Tags        []string   `json:"tags"`
	OwnerID     uuid.UUID  `json:"owner_id"`
}

// PagedTasksResponse is one page of query results plus total-count
// metadata. Page numbering is zero-based.
type PagedTasksResponse struct {
	Elements      []TaskResponse `json:"elements"`
	TotalElements int            `json:"total_elements"`
	TotalPages    int            `json:"total_pages"`
	PageSize      int            `json:"page_size"`
	PageNumber    int            `json:"page_number"`
}
