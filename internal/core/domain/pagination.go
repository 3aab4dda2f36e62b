package domain

import "math"

const (
	DefaultPage        = 1
	DefaultListLimit   = 10
	DefaultReviewLimit = 5
	MaxLimit           = 100
	// MaxPage keeps (page-1)*MaxLimit inside int64 and page inside a 32-bit int.
	MaxPage = math.MaxInt32
)

// Page is a normalised page request.
type Page struct {
	Number int
	Limit  int
}

// NewPage clamps page into [1, MaxPage]. A limit below 1 becomes
// defaultLimit and one above MaxLimit becomes MaxLimit.
func NewPage(page, limit, defaultLimit int) Page {
	if page < 1 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Page{Number: page, Limit: limit}
}

// Skip returns the number of records preceding this page.
// A Page built by hand with a non-positive number skips nothing.
func (p Page) Skip() int64 {
	if p.Number < 1 || p.Limit < 1 {
		return 0
	}
	return int64(p.Number-1) * int64(p.Limit)
}

// TotalPages returns ceil(total/limit).
func (p Page) TotalPages(total int64) int64 {
	if total <= 0 || p.Limit <= 0 {
		return 0
	}
	limit := int64(p.Limit)
	return (total + limit - 1) / limit
}

// Size returns min(limit, total-skip) clamped at zero.
func (p Page) Size(total int64) int64 {
	remaining := total - p.Skip()
	if remaining <= 0 {
		return 0
	}
	if remaining > int64(p.Limit) {
		return int64(p.Limit)
	}
	return remaining
}
