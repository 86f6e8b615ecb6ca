package datatable

import "fmt"

// Direction is a sort direction.
type Direction int

const (
	// Ascending sorts smallest first.
	Ascending Direction = iota
	// Descending sorts largest first.
	Descending
)

// String returns "asc" or "desc".
func (d Direction) String() string {
	switch d {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	default:
		return fmt.Sprintf("unknown(%d)", d)
	}
}

// ParseDirection maps "desc" to Descending and anything else to Ascending.
func ParseDirection(s string) Direction {
	if s == "desc" {
		return Descending
	}
	return Ascending
}

// SortState is the single-column sort configuration.
type SortState struct {
	// Key is the sorted field, empty when unsorted.
	Key string
	// Direction applies only when Key is set.
	Direction Direction
}

// IsSorted reports whether a sort key is set.
func (s SortState) IsSorted() bool {
	return s.Key != ""
}

// Icon returns the header indicator for the given column key.
func (s SortState) Icon(key string) string {
	if s.Key != key {
		return "⇅"
	}
	if s.Direction == Descending {
		return "↓"
	}
	return "↑"
}

// ViewState is the transient state owned by a table instance.
// Callers reset it when the data source changes; the engine never does.
type ViewState struct {
	SearchTerm  string
	CurrentPage int
	Sort        SortState
}

// NewViewState returns the initial state: no search, first page, unsorted.
func NewViewState() ViewState {
	return ViewState{CurrentPage: 1}
}

// WithSearch sets the search term and moves back to the first page.
func (v ViewState) WithSearch(term string) ViewState {
	v.SearchTerm = term
	v.CurrentPage = 1
	return v
}

// ToggleSort flips the direction when key is already sorted and otherwise
// selects key in ascending order.
func (v ViewState) ToggleSort(key string) ViewState {
	if v.Sort.Key == key && v.Sort.Direction == Ascending {
		v.Sort.Direction = Descending
		return v
	}
	v.Sort = SortState{Key: key, Direction: Ascending}
	return v
}

// GoTo moves to page, clamped silently to [1, totalPages].
func (v ViewState) GoTo(page, totalPages int) ViewState {
	v.CurrentPage = ClampPage(page, totalPages)
	return v
}

// TotalPages returns ceil(count/pageSize), floored at 1.
func TotalPages(count, pageSize int) int {
	if pageSize <= 0 || count <= 0 {
		return 1
	}
	return (count + pageSize - 1) / pageSize
}

// ClampPage clamps page to [1, totalPages].
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}
