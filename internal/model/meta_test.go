package model

import "testing"

func TestMetaNormalizeDefaults(t *testing.T) {
	var m Meta
	m.Normalize()

	if m.Pagination.Page != 1 || m.Pagination.PerPage != 10 {
		t.Fatalf("pagination defaults mismatch: %+v", m.Pagination)
	}
	if m.Sort.Order != OrderAsc || m.Sort.Field != "id" {
		t.Fatalf("sort defaults mismatch: %+v", m.Sort)
	}
}

func TestMetaNormalizeClamps(t *testing.T) {
	m := Meta{
		Pagination: Pagination{Page: -3, PerPage: 500},
		Sort:       Sort{Order: "sideways", Field: "volume_token_0"},
	}
	m.Normalize()

	if m.Pagination.Page != 1 {
		t.Fatalf("page not clamped: %d", m.Pagination.Page)
	}
	if m.Pagination.PerPage != 100 {
		t.Fatalf("per-page not clamped: %d", m.Pagination.PerPage)
	}
	if m.Sort.Order != OrderAsc {
		t.Fatalf("unknown order should fall back to asc: %s", m.Sort.Order)
	}
	if m.Sort.Field != "volume_token_0" {
		t.Fatalf("field should be preserved: %s", m.Sort.Field)
	}
}

func TestPaginationBounds(t *testing.T) {
	lo, hi, pages := Pagination{Page: 1, PerPage: 10}.Bounds(25)
	if lo != 0 || hi != 10 || pages != 3 {
		t.Fatalf("first page bounds mismatch: %d %d %d", lo, hi, pages)
	}

	lo, hi, pages = Pagination{Page: 3, PerPage: 10}.Bounds(25)
	if lo != 20 || hi != 25 || pages != 3 {
		t.Fatalf("last page bounds mismatch: %d %d %d", lo, hi, pages)
	}

	lo, hi, _ = Pagination{Page: 9, PerPage: 10}.Bounds(25)
	if lo != hi {
		t.Fatalf("page past the end should be empty: %d %d", lo, hi)
	}

	_, _, pages = Pagination{Page: 1, PerPage: 10}.Bounds(0)
	if pages != 0 {
		t.Fatalf("empty list should have zero pages: %d", pages)
	}
}
