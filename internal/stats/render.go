package stats

import (
	"math"
	"sort"
	"time"

	"dexboard/internal/model"
)

// ChartPoints renders a bucket-keyed series into points ordered by time.
// Values are rounded to the given number of decimal places. Labels are UTC
// dates, so buckets narrower than a day repeat their label.
func ChartPoints(series map[int64]float64, decimals int) []model.ChartPoint {
	buckets := sortedBuckets(series)

	points := make([]model.ChartPoint, 0, len(buckets))
	for _, bucket := range buckets {
		points = append(points, model.ChartPoint{
			Time:  bucketDate(bucket),
			Value: round(series[bucket], decimals),
		})
	}
	return points
}

// CountChartPoints renders integer counters the same way, without rounding.
func CountChartPoints(series model.CountSeries) []model.ChartPoint {
	buckets := make([]int64, 0, len(series))
	for bucket := range series {
		buckets = append(buckets, bucket)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i] < buckets[j] })

	points := make([]model.ChartPoint, 0, len(buckets))
	for _, bucket := range buckets {
		points = append(points, model.ChartPoint{
			Time:  bucketDate(bucket),
			Value: float64(series[bucket]),
		})
	}
	return points
}

func sortedBuckets(series map[int64]float64) []int64 {
	buckets := make([]int64, 0, len(series))
	for bucket := range series {
		buckets = append(buckets, bucket)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i] < buckets[j] })
	return buckets
}

func bucketDate(ts int64) string {
	return time.Unix(ts, 0).UTC().Format("2006-01-02")
}

func round(value float64, decimals int) float64 {
	scale := math.Pow10(decimals)
	return math.Round(value*scale) / scale
}
