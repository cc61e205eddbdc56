package dashboard

import (
	"sort"
	"strconv"

	"dexboard/internal/model"
)

// ApplyPairs filters, sorts and paginates pair summaries. It returns the
// requested page and the normalized meta with the page count filled in.
func ApplyPairs(list []model.PairSummary, meta model.Meta) ([]model.PairSummary, model.Meta) {
	meta.Normalize()

	filtered := make([]model.PairSummary, 0, len(list))
	for _, p := range list {
		if matchesFilters(meta.Filter, func(field string) (string, bool) {
			return pairFieldValue(p, field)
		}) {
			filtered = append(filtered, p)
		}
	}

	less := pairLess(meta.Sort.Field)
	sort.SliceStable(filtered, func(i, j int) bool {
		if meta.Sort.Order == model.OrderDesc {
			return less(filtered[j], filtered[i])
		}
		return less(filtered[i], filtered[j])
	})

	lo, hi, pages := meta.Pagination.Bounds(len(filtered))
	meta.Pagination.PageCount = &pages
	return filtered[lo:hi], meta
}

// ApplyDexes filters, sorts and paginates dex summaries the same way.
func ApplyDexes(list []model.DexSummary, meta model.Meta) ([]model.DexSummary, model.Meta) {
	meta.Normalize()

	filtered := make([]model.DexSummary, 0, len(list))
	for _, d := range list {
		if matchesFilters(meta.Filter, func(field string) (string, bool) {
			return dexFieldValue(d, field)
		}) {
			filtered = append(filtered, d)
		}
	}

	less := dexLess(meta.Sort.Field)
	sort.SliceStable(filtered, func(i, j int) bool {
		if meta.Sort.Order == model.OrderDesc {
			return less(filtered[j], filtered[i])
		}
		return less(filtered[i], filtered[j])
	})

	lo, hi, pages := meta.Pagination.Bounds(len(filtered))
	meta.Pagination.PageCount = &pages
	return filtered[lo:hi], meta
}

// matchesFilters requires every filter to match. A filter on a field the type
// does not have matches nothing.
func matchesFilters(filters []model.Filter, value func(field string) (string, bool)) bool {
	for _, f := range filters {
		v, ok := value(f.Field)
		if !ok || v != f.Value {
			return false
		}
	}
	return true
}

func pairFieldValue(p model.PairSummary, field string) (string, bool) {
	switch field {
	case "id":
		return strconv.FormatInt(p.ID, 10), true
	case "dex_id":
		return strconv.FormatInt(p.DexID, 10), true
	case "name":
		return p.Name, true
	case "swap_count":
		return strconv.FormatInt(p.SwapCount, 10), true
	default:
		return "", false
	}
}

func dexFieldValue(d model.DexSummary, field string) (string, bool) {
	switch field {
	case "id":
		return strconv.FormatInt(d.ID, 10), true
	case "name":
		return d.Name, true
	case "pool_count":
		return strconv.FormatInt(d.PoolCount, 10), true
	case "swap_count":
		return strconv.FormatInt(d.SwapCount, 10), true
	default:
		return "", false
	}
}

// pairLess returns the ascending comparison for a sort field. Unknown fields
// fall back to id.
func pairLess(field string) func(a, b model.PairSummary) bool {
	switch field {
	case "name":
		return func(a, b model.PairSummary) bool { return a.Name < b.Name }
	case "dex_id":
		return func(a, b model.PairSummary) bool { return a.DexID < b.DexID }
	case "swap_count":
		return func(a, b model.PairSummary) bool { return a.SwapCount < b.SwapCount }
	case "volume_token_0":
		return func(a, b model.PairSummary) bool { return a.VolumeToken0 < b.VolumeToken0 }
	case "volume_token_1":
		return func(a, b model.PairSummary) bool { return a.VolumeToken1 < b.VolumeToken1 }
	case "liquidity_token_0":
		return func(a, b model.PairSummary) bool { return a.LiquidityToken0 < b.LiquidityToken0 }
	case "liquidity_token_1":
		return func(a, b model.PairSummary) bool { return a.LiquidityToken1 < b.LiquidityToken1 }
	default:
		return func(a, b model.PairSummary) bool { return a.ID < b.ID }
	}
}

func dexLess(field string) func(a, b model.DexSummary) bool {
	switch field {
	case "name":
		return func(a, b model.DexSummary) bool { return a.Name < b.Name }
	case "pool_count":
		return func(a, b model.DexSummary) bool { return a.PoolCount < b.PoolCount }
	case "swap_count":
		return func(a, b model.DexSummary) bool { return a.SwapCount < b.SwapCount }
	default:
		return func(a, b model.DexSummary) bool { return a.ID < b.ID }
	}
}
