package domain

import "streamhub-backend/internal/pkg/constants"

// Page is a 1-based page request.
type Page struct {
	Page  int
	Limit int
}

// Normalize clamps the request: page < 1 becomes 1, limit <= 0 becomes def,
// limit above max becomes max.
func (p Page) Normalize(def, max int) Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = def
	}
	if max > 0 && p.Limit > max {
		p.Limit = max
	}
	return p
}

// PageSizes carries the configured list bounds. Zero fields fall back to the
// built-in defaults.
type PageSizes struct {
	Default int
	Max     int
}

// MaxLimit is the largest page a caller may request.
func (s PageSizes) MaxLimit() int {
	if s.Max <= 0 {
		return constants.MaxPageSize
	}
	return s.Max
}

// Normalize applies the bounds to p.
func (s PageSizes) Normalize(p Page) Page {
	def, max := s.Default, s.MaxLimit()
	if def <= 0 {
		def = constants.DefaultPageSize
	}
	if def > max {
		def = max
	}
	return p.Normalize(def, max)
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pagination is returned alongside every list result.
type Pagination struct {
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	Limit       int   `json:"limit"`
}

// NewPagination derives page metadata from a total count.
func NewPagination(p Page, total int64) Pagination {
	pages := 0
	if p.Limit > 0 {
		pages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return Pagination{TotalItems: total, TotalPages: pages, CurrentPage: p.Page, Limit: p.Limit}
}
