package contracts

import "math"

// Page is one window of an ordered result set plus the metadata the
// dashboard needs for "Showing 11-20 of 57" and prev/next controls.
type Page[T any] struct {
	Items      []T  `json:"items"`
	Page       int  `json:"page"` // zero-based
	PageSize   int  `json:"page_size"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	From       int  `json:"from"` // 1-based, 0 when empty
	To         int  `json:"to"`
	HasPrev    bool `json:"has_prev"`
	HasNext    bool `json:"has_next"`
}

// MaxPage bounds a page number so page*size stays inside an int32 offset
func MaxPage(size int) int {
	if size <= 0 {
		return math.MaxInt32
	}
	return math.MaxInt32 / size
}

// ClampPage maps a requested page into [0, MaxPage(size)]
func ClampPage(page, size int) int {
	if page < 0 {
		return 0
	}
	return min(page, MaxPage(size))
}

// Offset returns the row offset of a zero-based page
func Offset(page, size int) int {
	return ClampPage(page, size) * size
}

// NewPage builds page metadata around items
func NewPage[T any](items []T, page, size, total int) Page[T] {
	page = ClampPage(page, size)
	if items == nil {
		items = []T{}
	}

	p := Page[T]{
		Items:    items,
		Page:     page,
		PageSize: size,
		Total:    total,
		HasPrev:  page > 0,
	}
	if size <= 0 {
		return p
	}

	p.TotalPages = (total + size - 1) / size
	p.HasNext = (page+1)*size < total
	if len(items) > 0 {
		p.From = page*size + 1
		p.To = p.From + len(items) - 1
	}
	return p
}
