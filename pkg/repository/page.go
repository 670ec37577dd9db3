package repository

import "math"

// Page selects a window of a listing. Page is 1-based.
type Page struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// NewPage applies defaults to the page and limit given by a caller.
func NewPage(page, limit int) Page {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return Page{Page: page, Limit: limit}
}

// Offset is the number of rows skipped before this page.
// It saturates at math.MaxInt instead of overflowing.
func (p Page) Offset() int {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// Window returns the [start, end) bounds of this page within n items.
func (p Page) Window(n int) (int, int) {
	start := p.Offset()
	if start > n {
		start = n
	}
	end := start + p.Limit
	if end > n || end < start {
		end = n
	}
	return start, end
}

// Pagination describes a page within the full result set.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Paginated is the body of every list response.
type Paginated[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// NewPaginated builds a list response. Data is never null in JSON.
func NewPaginated[T any](data []T, page Page, total int) Paginated[T] {
	if data == nil {
		data = []T{}
	}
	totalPages := 0
	if page.Limit > 0 {
		totalPages = (total + page.Limit - 1) / page.Limit
	}
	return Paginated[T]{
		Data: data,
		Pagination: Pagination{
			Page:       page.Page,
			Limit:      page.Limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}
}

// Map converts the items of a paginated result.
func Map[T, U any](p Paginated[T], fn func(T) U) Paginated[U] {
	out := make([]U, len(p.Data))
	for i, item := range p.Data {
		out[i] = fn(item)
	}
	return Paginated[U]{Data: out, Pagination: p.Pagination}
}
