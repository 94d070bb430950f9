package views

import (
	"errors"
	"strconv"
)

// ErrInvalidPagination indicates page or limit parameters that are not
// positive integers.
var ErrInvalidPagination = errors.New("invalid pagination parameters")

const (
	defaultPage  = 1
	defaultLimit = 10
)

// PageRequest carries normalized pagination parameters.
type PageRequest struct {
	Page  int
	Limit int
}

// ParsePageParams normalizes raw query-string pagination values. Empty
// values fall back to page=1, limit=10; anything that is not a positive
// integer is rejected.
func ParsePageParams(pageRaw, limitRaw string) (PageRequest, error) {
	req := PageRequest{Page: defaultPage, Limit: defaultLimit}

	if pageRaw != "" {
		page, err := strconv.Atoi(pageRaw)
		if err != nil || page < 1 {
			return PageRequest{}, ErrInvalidPagination
		}
		req.Page = page
	}

	if limitRaw != "" {
		limit, err := strconv.Atoi(limitRaw)
		if err != nil || limit < 1 {
			return PageRequest{}, ErrInvalidPagination
		}
		req.Limit = limit
	}

	return req, nil
}

// Skip returns the number of documents to skip for this page.
func (r PageRequest) Skip() int64 {
	return int64(r.Page-1) * int64(r.Limit)
}

// Page is the envelope every paginated listing returns.
type Page[T any] struct {
	Items       []T   `json:"items"`
	TotalItems  int64 `json:"totalItems"`
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// NewPage assembles the pagination envelope for a page of items.
func NewPage[T any](items []T, total int64, req PageRequest) Page[T] {
	if items == nil {
		items = []T{}
	}

	totalPages := int(total) / req.Limit
	if int(total)%req.Limit != 0 {
		totalPages++
	}

	return Page[T]{
		Items:       items,
		TotalItems:  total,
		Page:        req.Page,
		Limit:       req.Limit,
		TotalPages:  totalPages,
		HasNextPage: req.Page < totalPages,
		HasPrevPage: req.Page > 1,
	}
}
