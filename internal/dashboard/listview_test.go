package dashboard

import (
	"reflect"
	"testing"

	"dexboard/internal/model"
)

func TestApplyPairsDefaults(t *testing.T) {
	list := []model.PairSummary{
		{ID: 3, DexID: 1, Name: "c"},
		{ID: 1, DexID: 1, Name: "a"},
		{ID: 2, DexID: 1, Name: "b"},
	}

	page, meta := ApplyPairs(list, model.Meta{})
	if got := ids(page); !reflect.DeepEqual(got, []int64{1, 2, 3}) {
		t.Fatalf("page ids = %v, want ascending by id", got)
	}
	if meta.Pagination.Page != 1 || meta.Pagination.PerPage != 10 {
		t.Fatalf("pagination = %+v, want defaults", meta.Pagination)
	}
	if meta.Pagination.PageCount == nil || *meta.Pagination.PageCount != 1 {
		t.Fatalf("page count = %v, want 1", meta.Pagination.PageCount)
	}
	if meta.Sort.Field != "id" || meta.Sort.Order != model.OrderAsc {
		t.Fatalf("sort = %+v, want ascending id", meta.Sort)
	}
}

func TestApplyPairsSortsByFieldDescending(t *testing.T) {
	list := []model.PairSummary{
		{ID: 1, SwapCount: 5},
		{ID: 2, SwapCount: 20},
		{ID: 3, SwapCount: 10},
	}

	page, _ := ApplyPairs(list, model.Meta{
		Sort: model.Sort{Order: model.OrderDesc, Field: "swap_count"},
	})
	if got := ids(page); !reflect.DeepEqual(got, []int64{2, 3, 1}) {
		t.Fatalf("page ids = %v, want sorted by swap_count desc", got)
	}
}

func TestApplyPairsUnknownSortFieldFallsBackToID(t *testing.T) {
	list := []model.PairSummary{{ID: 2}, {ID: 1}}

	page, _ := ApplyPairs(list, model.Meta{Sort: model.Sort{Field: "bogus"}})
	if got := ids(page); !reflect.DeepEqual(got, []int64{1, 2}) {
		t.Fatalf("page ids = %v, want ascending by id", got)
	}
}

func TestApplyPairsFilters(t *testing.T) {
	list := []model.PairSummary{
		{ID: 1, DexID: 1, Name: "USDC/WETH"},
		{ID: 2, DexID: 2, Name: "USDC/WETH"},
		{ID: 3, DexID: 2, Name: "ARB/DAI"},
	}

	page, _ := ApplyPairs(list, model.Meta{
		Filter: []model.Filter{
			{Field: "dex_id", Value: "2"},
			{Field: "name", Value: "USDC/WETH"},
		},
	})
	if got := ids(page); !reflect.DeepEqual(got, []int64{2}) {
		t.Fatalf("page ids = %v, want only pair 2", got)
	}

	page, _ = ApplyPairs(list, model.Meta{
		Filter: []model.Filter{{Field: "nonexistent", Value: "x"}},
	})
	if len(page) != 0 {
		t.Fatalf("unknown filter field matched %d rows, want 0", len(page))
	}
}

func TestApplyPairsPaginates(t *testing.T) {
	var list []model.PairSummary
	for i := int64(1); i <= 25; i++ {
		list = append(list, model.PairSummary{ID: i})
	}

	page, meta := ApplyPairs(list, model.Meta{
		Pagination: model.Pagination{Page: 3, PerPage: 10},
	})
	if got := ids(page); !reflect.DeepEqual(got, []int64{21, 22, 23, 24, 25}) {
		t.Fatalf("page ids = %v, want the last five", got)
	}
	if *meta.Pagination.PageCount != 3 {
		t.Fatalf("page count = %d, want 3", *meta.Pagination.PageCount)
	}

	page, _ = ApplyPairs(list, model.Meta{
		Pagination: model.Pagination{Page: 9, PerPage: 10},
	})
	if len(page) != 0 {
		t.Fatalf("page past the end returned %d rows, want 0", len(page))
	}
}

func TestApplyDexes(t *testing.T) {
	list := []model.DexSummary{
		{ID: 1, Name: "alpha", PoolCount: 3, SwapCount: 7},
		{ID: 2, Name: "beta", PoolCount: 5, SwapCount: 2},
	}

	page, _ := ApplyDexes(list, model.Meta{
		Sort: model.Sort{Order: model.OrderDesc, Field: "pool_count"},
	})
	if len(page) != 2 || page[0].ID != 2 {
		t.Fatalf("page = %v, want beta first", page)
	}

	page, _ = ApplyDexes(list, model.Meta{
		Filter: []model.Filter{{Field: "name", Value: "alpha"}},
	})
	if len(page) != 1 || page[0].ID != 1 {
		t.Fatalf("page = %v, want only alpha", page)
	}
}

func TestApplyPairsStableForEqualKeys(t *testing.T) {
	list := []model.PairSummary{
		{ID: 1, SwapCount: 5},
		{ID: 2, SwapCount: 5},
		{ID: 3, SwapCount: 5},
	}

	page, _ := ApplyPairs(list, model.Meta{
		Sort: model.Sort{Order: model.OrderDesc, Field: "swap_count"},
	})
	if got := ids(page); !reflect.DeepEqual(got, []int64{1, 2, 3}) {
		t.Fatalf("page ids = %v, want input order preserved", got)
	}
}

func ids(list []model.PairSummary) []int64 {
	out := make([]int64, 0, len(list))
	for _, p := range list {
		out = append(out, p.ID)
	}
	return out
}
