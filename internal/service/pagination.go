package service

import (
	"errors"
	"strconv"
)

var ErrInvalidPagination = errors.New("invalid pagination parameters")

// Pagination selects the window [(Page-1)*Limit, Page*Limit) of a list.
type Pagination struct {
	Limit int
	Page  int
}

// ParsePagination reads the limit and page query values. Pagination applies
// only when both are present; a nil result means the full list.
func ParsePagination(limit, page string) (*Pagination, error) {
	if limit == "" || page == "" {
		return nil, nil
	}

	l, err := strconv.Atoi(limit)
	if err != nil || l < 1 {
		return nil, ErrInvalidPagination
	}
	p, err := strconv.Atoi(page)
	if err != nil || p < 1 {
		return nil, ErrInvalidPagination
	}

	return &Pagination{Limit: l, Page: p}, nil
}

// Bounds returns the slice bounds for a list of length n. Out of range pages
// yield an empty window.
func (p *Pagination) Bounds(n int) (start, end int) {
	if p == nil {
		return 0, n
	}
	// (Page-1)*Limit can overflow for huge inputs; compare by division first.
	if p.Page-1 > n/p.Limit {
		return n, n
	}
	start = (p.Page - 1) * p.Limit
	if start >= n {
		return n, n
	}
	end = start + p.Limit
	if end > n || end < start {
		end = n
	}
	return start, end
}

// Paginate returns the window of items selected by p.
func Paginate[T any](items []T, p *Pagination) []T {
	start, end := p.Bounds(len(items))
	return items[start:end]
}
