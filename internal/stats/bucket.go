// Package stats turns raw pool operations into time-bucketed chart series:
// classification, per-bucket change maps, dense sequence reconstruction, and
// chart point rendering.
package stats

// Bucket truncates a Unix timestamp down to the start of its interval. The
// result is a multiple of interval and never exceeds ts, also for
// timestamps before the epoch. interval must be positive.
func Bucket(ts, interval int64) int64 {
	rem := ts % interval
	if rem < 0 {
		rem += interval
	}
	return ts - rem
}
