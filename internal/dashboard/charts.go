package dashboard

import (
	"dexboard/internal/model"
	"dexboard/internal/stats"
)

// buildPairCharts renders the five charts of one pool. Absent series render
// as empty charts.
func buildPairCharts(liquidity, volume *model.PairSeries, counts model.CountSeries, decimals int) model.PairCharts {
	charts := model.PairCharts{
		LiquidityToken0: stats.ChartPoints(nil, decimals),
		LiquidityToken1: stats.ChartPoints(nil, decimals),
		VolumeToken0:    stats.ChartPoints(nil, decimals),
		VolumeToken1:    stats.ChartPoints(nil, decimals),
		SwapCount:       stats.CountChartPoints(counts),
	}
	if liquidity != nil {
		charts.LiquidityToken0 = stats.ChartPoints(liquidity.Token0, decimals)
		charts.LiquidityToken1 = stats.ChartPoints(liquidity.Token1, decimals)
	}
	if volume != nil {
		charts.VolumeToken0 = stats.ChartPoints(volume.Token0, decimals)
		charts.VolumeToken1 = stats.ChartPoints(volume.Token1, decimals)
	}
	return charts
}

// lastValues returns the values of the highest bucket, the current level of a
// cumulative series.
func lastValues(series *model.PairSeries) (float64, float64) {
	if series == nil {
		return 0, 0
	}
	var (
		last  int64
		found bool
	)
	for bucket := range series.Token0 {
		if !found || bucket > last {
			last = bucket
			found = true
		}
	}
	for bucket := range series.Token1 {
		if !found || bucket > last {
			last = bucket
			found = true
		}
	}
	if !found {
		return 0, 0
	}
	return series.Token0[last], series.Token1[last]
}

// sumValues totals both token maps of a change series.
func sumValues(series *model.PairSeries) (float64, float64) {
	if series == nil {
		return 0, 0
	}
	var total0, total1 float64
	for _, v := range series.Token0 {
		total0 += v
	}
	for _, v := range series.Token1 {
		total1 += v
	}
	return total0, total1
}

// sumCounts totals a count series.
func sumCounts(counts model.CountSeries) int64 {
	var total int64
	for _, n := range counts {
		total += n
	}
	return total
}

// mergeCounts sums several count series bucket by bucket.
func mergeCounts(series []model.CountSeries) model.CountSeries {
	merged := make(model.CountSeries)
	for _, s := range series {
		for bucket, n := range s {
			merged[bucket] += n
		}
	}
	return merged
}
