package domain

import (
	"fmt"
	"strings"
)

// SortField is a task field results can be ordered by.
type SortField string

const (
	SortByDueDate  SortField = "dueDate"
	SortByName     SortField = "name"
	SortByStatus   SortField = "status"
	SortByPriority SortField = "priority"
)

var sortFields = []SortField{SortByDueDate, SortByName, SortByStatus, SortByPriority}

// SortDirection is asc or desc.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortOption is a parsed "field,direction" directive.
type SortOption struct {
	Field     SortField
	Direction SortDirection
}

// DefaultSort is applied when the caller supplies no sort directive.
var DefaultSort = SortOption{Field: SortByDueDate, Direction: SortAsc}

// ParseSortOption parses "field,direction" (e.g. "dueDate,desc"). Field
// and direction match case-insensitively. A blank string is not an error:
// it yields DefaultSort.
func ParseSortOption(raw string) (SortOption, error) {
	if strings.TrimSpace(raw) == "" {
		return DefaultSort, nil
	}
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return SortOption{}, fmt.Errorf("sort must be in format 'field,direction'")
	}
	field, err := parseSortField(strings.TrimSpace(parts[0]))
	if err != nil {
		return SortOption{}, err
	}
	direction, err := parseSortDirection(strings.TrimSpace(parts[1]))
	if err != nil {
		return SortOption{}, err
	}
	return SortOption{Field: field, Direction: direction}, nil
}

func parseSortField(s string) (SortField, error) {
	for _, f := range sortFields {
		if strings.EqualFold(string(f), s) {
			return f, nil
		}
	}
	names := make([]string, len(sortFields))
	for i, f := range sortFields {
		names[i] = string(f)
	}
	return "", fmt.Errorf("Unknown sort field: %s. Valid values are: [%s]", s, strings.Join(names, ", "))
}

func parseSortDirection(s string) (SortDirection, error) {
	switch {
	case strings.EqualFold(s, string(SortAsc)):
		return SortAsc, nil
	case strings.EqualFold(s, string(SortDesc)):
		return SortDesc, nil
	}
	return "", fmt.Errorf("Unknown sort direction: %s", s)
}
