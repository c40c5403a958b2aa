package pagination

import (
	"strconv"
	"strings"

	"riskdesk/internal/core/listview"

	"github.com/gofiber/fiber/v2"
)

// Query parameter names of a list view
const (
	QueryParam    = "q"
	SortParam     = "sort"
	DirParam      = "dir"
	PageSizeParam = "page_size"
	PageParam     = "page"
)

// Meta represents pagination metadata
type Meta struct {
	Page       int      `json:"page"`
	PageSize   int      `json:"page_size"`
	PageSizes  []int    `json:"page_sizes"`
	Total      int      `json:"total"`
	Matched    int      `json:"matched"`
	TotalPages int      `json:"total_pages"`
	HasNext    bool     `json:"has_next"`
	HasPrev    bool     `json:"has_prev"`
	Query      string   `json:"query"`
	Sort       string   `json:"sort"`
	Dir        string   `json:"dir"`
	SortKeys   []string `json:"sort_keys"`
}

// GetState extracts list view state from request, starting from the page
// defaults. Malformed numbers are passed through as zero and normalized later.
func GetState(c *fiber.Ctx, defaults listview.State) listview.State {
	st := defaults

	st.Query = strings.TrimSpace(c.Query(QueryParam))

	if sort := strings.TrimSpace(c.Query(SortParam)); sort != "" {
		st.SortKey = sort
	}

	if raw := c.Query(DirParam); raw != "" {
		if dir, ok := listview.ParseDirection(raw); ok {
			st.SortDirection = dir
		}
	}

	if raw := c.Query(PageSizeParam); raw != "" {
		st.PageSize, _ = strconv.Atoi(raw)
	}

	if raw := c.Query(PageParam); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			page = 1
		}
		st.CurrentPage = page
	}

	return st
}

// GetMeta builds pagination metadata for a computed window
func GetMeta[T any](w listview.Window[T], sortKeys []string) *Meta {
	return &Meta{
		Page:       w.State.CurrentPage,
		PageSize:   w.State.PageSize,
		PageSizes:  listview.PageSizes,
		Total:      w.Total,
		Matched:    w.Matched,
		TotalPages: w.TotalPages,
		HasNext:    w.HasNext,
		HasPrev:    w.HasPrev,
		Query:      w.State.Query,
		Sort:       w.State.SortKey,
		Dir:        string(w.State.SortDirection),
		SortKeys:   sortKeys,
	}
}

// Response represents paginated response
type Response struct {
	Data interface{} `json:"data"`
	Meta *Meta       `json:"meta"`
}

// NewResponse creates a new paginated response
func NewResponse[T any](w listview.Window[T], sortKeys []string) *Response {
	return &Response{
		Data: w.Rows,
		Meta: GetMeta(w, sortKeys),
	}
}
