package shared

import "strings"

// Filter represents list query options shared by every entity family
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	IsActive *bool
	Status   string
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 200
)

// Normalize clamps paging values into their allowed ranges
func (f Filter) Normalize() Filter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
	if strings.ToLower(f.OrderDir) != "asc" {
		f.OrderDir = "desc"
	} else {
		f.OrderDir = "asc"
	}
	f.Search = strings.TrimSpace(f.Search)
	return f
}

// Offset returns the row offset for the current page
func (f Filter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// Paginated represents a paginated result
type Paginated[T any] struct {
	Items      []T   `json:"Items"`
	Total      int64 `json:"Total"`
	Page       int   `json:"Page"`
	PageSize   int   `json:"PageSize"`
	TotalPages int   `json:"TotalPages"`
}

// NewPaginated creates a new paginated result
func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(total) / pageSize
		if int(total)%pageSize > 0 {
			totalPages++
		}
	}
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// PageInfo locates a page within a result set
type PageInfo struct {
	Total      int64
	Page       int
	PageSize   int
	TotalPages int
}

// Pager is implemented by every Paginated instantiation
type Pager interface {
	Info() PageInfo
	Rows() any
}

// Info returns the position of the page
func (p Paginated[T]) Info() PageInfo {
	return PageInfo{Total: p.Total, Page: p.Page, PageSize: p.PageSize, TotalPages: p.TotalPages}
}

// Rows returns the page items
func (p Paginated[T]) Rows() any {
	return p.Items
}
