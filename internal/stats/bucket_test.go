package stats

import "testing"

func TestBucketTruncates(t *testing.T) {
	if got := Bucket(125, 60); got != 120 {
		t.Fatalf("bucket mismatch: %d", got)
	}
	if got := Bucket(120, 60); got != 120 {
		t.Fatalf("aligned timestamp should stay: %d", got)
	}
	if got := Bucket(0, 86400); got != 0 {
		t.Fatalf("epoch bucket mismatch: %d", got)
	}
}

func TestBucketNegativeTimestamps(t *testing.T) {
	if got := Bucket(-1, 60); got != -60 {
		t.Fatalf("bucket mismatch: %d", got)
	}
	if got := Bucket(-60, 60); got != -60 {
		t.Fatalf("aligned negative timestamp should stay: %d", got)
	}
	if got := Bucket(-61, 60); got != -120 {
		t.Fatalf("bucket mismatch: %d", got)
	}
}

func TestBucketContract(t *testing.T) {
	intervals := []int64{1, 60, 3600, 86400}
	timestamps := []int64{-100000, -86400, -1, 0, 1, 59, 61, 1700000000}

	for _, interval := range intervals {
		for _, ts := range timestamps {
			got := Bucket(ts, interval)
			if got > ts {
				t.Fatalf("Bucket(%d, %d) = %d exceeds timestamp", ts, interval, got)
			}
			if got%interval != 0 {
				t.Fatalf("Bucket(%d, %d) = %d not aligned", ts, interval, got)
			}
			if ts-got >= interval {
				t.Fatalf("Bucket(%d, %d) = %d more than one interval away", ts, interval, got)
			}
		}
	}
}
