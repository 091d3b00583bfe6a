package shared

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
)

const (
	// DefaultLimit applies when the caller omits the limit parameter.
	DefaultLimit = 20
	// DefaultMaxLimit caps the page size unless configured otherwise.
	DefaultMaxLimit = 100
)

// Params holds the resolved pagination and ordering parameters of a list
// request.
type Params struct {
	Page  int
	Limit int
	Sort  string
	Desc  bool
}

// Pagination contains metadata for paginated listings.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ParseParams reads page, limit, sort and order from the query string.
// Page and limit floor at 1, limit defaults to DefaultLimit and is capped
// at maxLimit; an explicit limit=0 is rejected since it would make the row
// range undefined. Order defaults to descending.
func ParseParams(q url.Values, maxLimit int) (Params, error) {
	if maxLimit <= 0 {
		maxLimit = DefaultMaxLimit
	}
	p := Params{Page: 1, Limit: DefaultLimit, Desc: true}

	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Params{}, fmt.Errorf("invalid page %q", raw)
		}
		if n > 1 {
			p.Page = n
		}
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n == 0 {
			return Params{}, fmt.Errorf("invalid limit %q", raw)
		}
		if n < 1 {
			n = 1
		}
		if n > maxLimit {
			n = maxLimit
		}
		p.Limit = n
	}
	p.Sort = q.Get("sort")
	switch q.Get("order") {
	case "", "desc":
	case "asc":
		p.Desc = false
	default:
		return Params{}, fmt.Errorf("invalid order %q", q.Get("order"))
	}
	return p, nil
}

// OffsetRange returns the zero-based inclusive row range for the page.
func (p Params) OffsetRange() (from, to int) {
	from = (p.Page - 1) * p.Limit
	return from, from + p.Limit - 1
}

// NewPagination computes pagination metadata. TotalPages is zero when the
// result set is empty.
func NewPagination(page, limit, total int) Pagination {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if page <= 0 {
		page = 1
	}
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}
