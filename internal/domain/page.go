package domain

// Page is a bounded slice of ordered, filtered results plus total-count
// metadata. PageNumber is zero-based.
type Page[T any] struct {
	Elements      []T
	TotalElements int
	TotalPages    int
	PageSize      int
	PageNumber    int
}

// NewPage slices the full ordered match list down to the requested page.
// start = page*size, end = min(start+size, total); out-of-range pages are
// empty, never an error. TotalPages is ceil(total/size).
func NewPage[T any](ordered []T, page, size int) Page[T] {
	total := len(ordered)
	start := page * size
	end := start + size
	if end > total {
		end = total
	}
	var elements []T
	if start < total {
		elements = append([]T(nil), ordered[start:end]...)
	} else {
		elements = []T{}
	}
	return Page[T]{
		Elements:      elements,
		TotalElements: total,
		TotalPages:    (total + size - 1) / size,
		PageSize:      size,
		PageNumber:    page,
	}
}
