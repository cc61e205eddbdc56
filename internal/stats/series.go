package stats

import "dexboard/internal/model"

// LiquiditySeries reconstructs dense cumulative sequences from sparse
// liquidity change maps. Liquidity is a stock: each bucket from the first
// observed one up to (excluding) now carries the previous bucket's total
// plus that bucket's change. Pools with no buckets produce no sequence.
// interval must be positive.
func LiquiditySeries(changes map[int64]*model.PairSeries, interval, now int64) map[int64]*model.PairSeries {
	sequences := make(map[int64]*model.PairSeries, len(changes))

	for poolID, change := range changes {
		start, ok := firstBucket(change)
		if !ok {
			continue
		}

		seq := model.NewPairSeries()
		var total0, total1 float64
		for bucket := start; bucket < now; bucket += interval {
			total0 += change.Token0[bucket]
			total1 += change.Token1[bucket]
			seq.Token0[bucket] = total0
			seq.Token1[bucket] = total1
		}
		sequences[poolID] = seq
	}

	return sequences
}

// VolumeSeries reconstructs dense per-bucket sequences from sparse volume
// change maps. Volume is a flow: buckets without trades are zero and
// nothing carries forward. Pools with no buckets produce no sequence.
func VolumeSeries(changes map[int64]*model.PairSeries, interval, now int64) map[int64]*model.PairSeries {
	sequences := make(map[int64]*model.PairSeries, len(changes))

	for poolID, change := range changes {
		start, ok := firstBucket(change)
		if !ok {
			continue
		}

		seq := model.NewPairSeries()
		for bucket := start; bucket < now; bucket += interval {
			seq.Token0[bucket] = change.Token0[bucket]
			seq.Token1[bucket] = change.Token1[bucket]
		}
		sequences[poolID] = seq
	}

	return sequences
}

// SwapCountSeries reconstructs dense per-bucket swap counts, zero-filled
// like VolumeSeries. Pools with no buckets produce no sequence.
func SwapCountSeries(changes map[int64]model.CountSeries, interval, now int64) map[int64]model.CountSeries {
	sequences := make(map[int64]model.CountSeries, len(changes))

	for poolID, change := range changes {
		start, ok := firstCountBucket(change)
		if !ok {
			continue
		}

		seq := make(model.CountSeries)
		for bucket := start; bucket < now; bucket += interval {
			seq[bucket] = change[bucket]
		}
		sequences[poolID] = seq
	}

	return sequences
}

func firstBucket(series *model.PairSeries) (int64, bool) {
	var first int64
	found := false
	for _, buckets := range []map[int64]float64{series.Token0, series.Token1} {
		for bucket := range buckets {
			if !found || bucket < first {
				first = bucket
				found = true
			}
		}
	}
	return first, found
}

func firstCountBucket(counts model.CountSeries) (int64, bool) {
	var first int64
	found := false
	for bucket := range counts {
		if !found || bucket < first {
			first = bucket
			found = true
		}
	}
	return first, found
}
