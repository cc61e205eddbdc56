package stats

import (
	"math"

	"dexboard/internal/model"
)

// LiquidityChange accumulates the signed token amounts of liquidity
// operations (adds and removes) into per-pool, per-bucket deltas. Swaps and
// operations without a pool are ignored. interval must be positive.
func LiquidityChange(ops []model.Operation, interval int64) map[int64]*model.PairSeries {
	changes := make(map[int64]*model.PairSeries)

	for _, op := range ops {
		if op.Pool == nil {
			continue
		}
		kind := Classify(op)
		if kind != KindAdd && kind != KindRemove {
			continue
		}

		bucket := Bucket(op.Timestamp, interval)
		series := changes[op.Pool.ID]
		if series == nil {
			series = model.NewPairSeries()
			changes[op.Pool.ID] = series
		}
		series.Token0[bucket] += op.Token0Amount
		series.Token1[bucket] += op.Token1Amount
	}

	return changes
}

// VolumeChange accumulates absolute token amounts of swaps into per-pool,
// per-bucket totals. Non-swaps and operations without a pool are ignored.
func VolumeChange(ops []model.Operation, interval int64) map[int64]*model.PairSeries {
	changes := make(map[int64]*model.PairSeries)

	for _, op := range ops {
		if op.Pool == nil || Classify(op) != KindSwap {
			continue
		}

		bucket := Bucket(op.Timestamp, interval)
		series := changes[op.Pool.ID]
		if series == nil {
			series = model.NewPairSeries()
			changes[op.Pool.ID] = series
		}
		series.Token0[bucket] += math.Abs(op.Token0Amount)
		series.Token1[bucket] += math.Abs(op.Token1Amount)
	}

	return changes
}

// SwapCountChange counts swaps per pool and bucket. Every operation with a
// pool materializes an entry for that pool, so pools that saw only
// liquidity operations still show up, with no buckets.
func SwapCountChange(ops []model.Operation, interval int64) map[int64]model.CountSeries {
	changes := make(map[int64]model.CountSeries)

	for _, op := range ops {
		if op.Pool == nil {
			continue
		}

		counts := changes[op.Pool.ID]
		if counts == nil {
			counts = make(model.CountSeries)
			changes[op.Pool.ID] = counts
		}
		if Classify(op) == KindSwap {
			counts[Bucket(op.Timestamp, interval)]++
		}
	}

	return changes
}
