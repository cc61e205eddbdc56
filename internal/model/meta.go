package model

// Order is a list sort direction.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// Pagination describes the requested page of a list view. PageCount is
// filled on responses only.
type Pagination struct {
	Page      int  `json:"page"`
	PerPage   int  `json:"per_page"`
	PageCount *int `json:"page_count,omitempty"`
}

// Sort describes list ordering by a named field.
type Sort struct {
	Order Order  `json:"order"`
	Field string `json:"field"`
}

// Filter is an equality filter on a named field.
type Filter struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// Meta combines pagination, sort, and filters for list reads.
type Meta struct {
	Pagination Pagination `json:"pagination"`
	Sort       Sort       `json:"sort"`
	Filter     []Filter   `json:"filter,omitempty"`
}

// DefaultMeta returns list metadata with default pagination and sort.
func DefaultMeta() Meta {
	return Meta{
		Pagination: Pagination{Page: 1, PerPage: 10},
		Sort:       Sort{Order: OrderAsc, Field: "id"},
	}
}

// Normalize clamps pagination into its valid range (page >= 1, per-page
// 1..100) and fills the default sort (ascending by id).
func (m *Meta) Normalize() {
	if m.Pagination.Page < 1 {
		m.Pagination.Page = 1
	}
	if m.Pagination.PerPage < 1 {
		m.Pagination.PerPage = 10
	}
	if m.Pagination.PerPage > 100 {
		m.Pagination.PerPage = 100
	}
	if m.Sort.Order != OrderDesc {
		m.Sort.Order = OrderAsc
	}
	if m.Sort.Field == "" {
		m.Sort.Field = "id"
	}
}

// Bounds returns the slice bounds of the requested page over n items and the
// total page count. A page past the end yields an empty range.
func (p Pagination) Bounds(n int) (lo, hi, pages int) {
	if n < 0 {
		n = 0
	}
	per := p.PerPage
	if per < 1 {
		per = 1
	}
	page := p.Page
	if page < 1 {
		page = 1
	}

	pages = (n + per - 1) / per
	lo = (page - 1) * per
	if lo > n {
		lo = n
	}
	hi = lo + per
	if hi > n {
		hi = n
	}
	return lo, hi, pages
}
