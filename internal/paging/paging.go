package paging

import "math"

const (
	DefaultPageNumber = 1
	DefaultPageSize   = 10
	MaxPageSize       = 100
)

// Request carries the common list-endpoint query parameters. Out-of-range
// page values are clamped, never rejected.
type Request struct {
	PageNumber      int    `form:"pageNumber" json:"pageNumber"`
	PageSize        int    `form:"pageSize" json:"pageSize"`
	SearchTerm      string `form:"searchTerm" json:"searchTerm"`
	SortBy          string `form:"sortBy" json:"sortBy"`
	SortDescending  bool   `form:"sortDescending" json:"sortDescending"`
	IsActive        *bool  `form:"isActive" json:"isActive"`
	IncludeInactive bool   `form:"includeInactive" json:"includeInactive"`
}

// Normalize clamps page number and size into their allowed ranges.
func (r *Request) Normalize() {
	if r.PageNumber < 1 {
		r.PageNumber = DefaultPageNumber
	}
	if r.PageSize < 1 {
		r.PageSize = DefaultPageSize
	}
	if r.PageSize > MaxPageSize {
		r.PageSize = MaxPageSize
	}
}

func (r *Request) Offset() int {
	return (r.PageNumber - 1) * r.PageSize
}

type Result[T any] struct {
	Items       []T   `json:"items"`
	TotalCount  int64 `json:"totalCount"`
	PageNumber  int   `json:"pageNumber"`
	PageSize    int   `json:"pageSize"`
	TotalPages  int   `json:"totalPages"`
	HasPrevious bool  `json:"hasPrevious"`
	HasNext     bool  `json:"hasNext"`
}

func NewResult[T any](items []T, total int64, req Request) *Result[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if req.PageSize > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(req.PageSize)))
	}
	return &Result[T]{
		Items:       items,
		TotalCount:  total,
		PageNumber:  req.PageNumber,
		PageSize:    req.PageSize,
		TotalPages:  totalPages,
		HasPrevious: req.PageNumber > 1,
		HasNext:     req.PageNumber < totalPages,
	}
}
