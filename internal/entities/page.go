package entities

import "math"

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	// MaxPage keeps (page-1)*limit inside a 32-bit offset for any limit.
	MaxPage = math.MaxInt32 / MaxLimit
)

// Page is the envelope every search endpoint returns.
type Page[T any] struct {
	Data        []T   `json:"data"`
	Total       int64 `json:"total"`
	Page        int   `json:"page"`
	LastPage    int   `json:"lastPage"`
	HasNextPage bool  `json:"hasNextPage"`
}

// NormalizePaging applies the defaults to non-positive values and caps both
// the page and the limit.
func NormalizePaging(page, limit int) (int, int) {
	if page <= 0 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// Offset returns the number of rows to skip for page.
func Offset(page, limit int) int {
	return (page - 1) * limit
}

func NewPage[T any](items []T, total int64, page, limit int) Page[T] {
	if items == nil {
		items = []T{}
	}
	lastPage := int((total + int64(limit) - 1) / int64(limit))
	return Page[T]{
		Data:        items,
		Total:       total,
		Page:        page,
		LastPage:    lastPage,
		HasNextPage: page < lastPage,
	}
}
