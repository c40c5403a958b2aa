// Package listview implements the search, sort and paginate pipeline shared by
// every tabular dashboard page. Run is a pure function of its inputs.
package listview

import (
	"cmp"
	"slices"
	"strings"
)

// Direction is the sort direction of a list view
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection returns Asc or Desc, or ok=false for anything else
func ParseDirection(raw string) (Direction, bool) {
	switch Direction(strings.ToLower(strings.TrimSpace(raw))) {
	case Asc:
		return Asc, true
	case Desc:
		return Desc, true
	}
	return "", false
}

// PageSizes are the selectable page sizes
var PageSizes = []int{5, 10, 20}

// DefaultPageSize is used when no valid page size was requested
const DefaultPageSize = 5

// State is the per-page list view state
type State struct {
	Query         string    `json:"query"`
	SortKey       string    `json:"sort"`
	SortDirection Direction `json:"dir"`
	PageSize      int       `json:"page_size"`
	CurrentPage   int       `json:"page"`
}

// Field describes one column of a list view. Text makes the column searchable,
// Compare makes it sortable.
type Field[T any] struct {
	Key     string
	Text    func(T) string
	Compare func(a, b T) int
}

// Schema is the fixed configuration of one page's list view
type Schema[T any] struct {
	Fields           []Field[T]
	DefaultSort      string
	DefaultDirection Direction
}

// Window is one page of a filtered, sorted row set
type Window[T any] struct {
	Rows       []T   `json:"rows"`
	State      State `json:"state"`
	TotalPages int   `json:"total_pages"`
	Matched    int   `json:"matched"`
	Total      int   `json:"total"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

// Defaults returns the initial state of a freshly mounted page
func (s Schema[T]) Defaults() State {
	return State{
		SortKey:       s.DefaultSort,
		SortDirection: s.DefaultDirection,
		PageSize:      DefaultPageSize,
		CurrentPage:   1,
	}
}

// SortKeys lists the keys the schema can sort by
func (s Schema[T]) SortKeys() []string {
	keys := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		if f.Compare != nil {
			keys = append(keys, f.Key)
		}
	}
	return keys
}

func (s Schema[T]) comparator(key string) func(a, b T) int {
	for _, f := range s.Fields {
		if f.Key == key && f.Compare != nil {
			return f.Compare
		}
	}
	return nil
}

// Normalize replaces invalid state values with schema defaults. The current
// page is only lower-bounded here; the upper bound depends on the row count.
func (s Schema[T]) Normalize(st State) State {
	st.Query = strings.TrimSpace(st.Query)
	if s.comparator(st.SortKey) == nil {
		st.SortKey = s.DefaultSort
	}
	if st.SortDirection != Asc && st.SortDirection != Desc {
		st.SortDirection = s.DefaultDirection
	}
	if !slices.Contains(PageSizes, st.PageSize) {
		st.PageSize = DefaultPageSize
	}
	if st.CurrentPage < 1 {
		st.CurrentPage = 1
	}
	return st
}

// Filter keeps rows where any searchable field contains the query, ignoring case
func (s Schema[T]) Filter(rows []T, query string) []T {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return slices.Clone(rows)
	}

	matched := make([]T, 0, len(rows))
	for _, row := range rows {
		for _, f := range s.Fields {
			if f.Text == nil {
				continue
			}
			if strings.Contains(strings.ToLower(f.Text(row)), needle) {
				matched = append(matched, row)
				break
			}
		}
	}
	return matched
}

// Sort stably orders rows in place by key and direction
func (s Schema[T]) Sort(rows []T, key string, dir Direction) {
	compare := s.comparator(key)
	if compare == nil {
		compare = s.comparator(s.DefaultSort)
	}
	if compare == nil {
		return
	}
	if dir == Desc {
		slices.SortStableFunc(rows, func(a, b T) int { return compare(b, a) })
		return
	}
	slices.SortStableFunc(rows, compare)
}

// TotalPages is ceil(n / pageSize), never less than one
func TotalPages(n, pageSize int) int {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	pages := (n + pageSize - 1) / pageSize
	return max(pages, 1)
}

// ClampPage bounds a requested page to [1, totalPages]
func ClampPage(requested, totalPages int) int {
	return min(max(requested, 1), max(totalPages, 1))
}

// Run applies filter, sort and paginate to rows. rows is not modified.
func Run[T any](rows []T, schema Schema[T], st State) Window[T] {
	st = schema.Normalize(st)

	filtered := schema.Filter(rows, st.Query)
	if filtered == nil {
		filtered = []T{}
	}
	schema.Sort(filtered, st.SortKey, st.SortDirection)

	totalPages := TotalPages(len(filtered), st.PageSize)
	st.CurrentPage = ClampPage(st.CurrentPage, totalPages)

	start := (st.CurrentPage - 1) * st.PageSize
	end := min(start+st.PageSize, len(filtered))

	return Window[T]{
		Rows:       filtered[start:end:end],
		State:      st,
		TotalPages: totalPages,
		Matched:    len(filtered),
		Total:      len(rows),
		HasPrev:    st.CurrentPage > 1,
		HasNext:    st.CurrentPage < totalPages,
	}
}

// MapRows converts the rows of a window, keeping its paging state
func MapRows[T, U any](w Window[T], f func(T) U) Window[U] {
	rows := make([]U, 0, len(w.Rows))
	for _, r := range w.Rows {
		rows = append(rows, f(r))
	}
	return Window[U]{
		Rows:       rows,
		State:      w.State,
		TotalPages: w.TotalPages,
		Matched:    w.Matched,
		Total:      w.Total,
		HasPrev:    w.HasPrev,
		HasNext:    w.HasNext,
	}
}

// Ordered builds a comparator from a key extractor
func Ordered[T any, K cmp.Ordered](key func(T) K) func(a, b T) int {
	return func(a, b T) int {
		return cmp.Compare(key(a), key(b))
	}
}
