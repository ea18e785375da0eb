package db

import "math"

const (
	maxPerPage = 100
	// maxPage keeps (Page-1)*PerPage from overflowing.
	maxPage = math.MaxInt / maxPerPage
)

// PagingParams is the requested page; Normalize clamps it to sane bounds.
type PagingParams struct {
	Page    int
	PerPage int
}

func (p PagingParams) Normalize() PagingParams {
	p.Page = min(max(p.Page, 1), maxPage)
	if p.PerPage < 1 {
		p.PerPage = 10
	}
	p.PerPage = min(p.PerPage, maxPerPage)
	return p
}

func (p PagingParams) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.PerPage
}

func (p PagingParams) Limit() int {
	return p.Normalize().PerPage
}

// PagedResult holds one page of items and the total across all pages.
type PagedResult[T any] struct {
	Items       []T `json:"results"`
	TotalItems  int `json:"count"`
	CurrentPage int `json:"page"`
	PerPage     int `json:"page_size"`
}

func (p PagedResult[T]) TotalPages() int {
	if p.PerPage == 0 {
		return 0
	}
	return (p.TotalItems + p.PerPage - 1) / p.PerPage
}

// Page is the JSON shape of a PagedResult.
type Page[T any] struct {
	PagedResult[T]
	Pages int `json:"total_pages"`
}

func (p PagedResult[T]) Page() Page[T] {
	return Page[T]{PagedResult: p, Pages: p.TotalPages()}
}
