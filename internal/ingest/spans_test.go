package ingest

import (
	"reflect"
	"testing"
)

func TestSplitRange(t *testing.T) {
	tests := []struct {
		name string
		from uint64
		to   uint64
		size uint64
		want []Span
	}{
		{
			name: "single span",
			from: 100, to: 150, size: 100,
			want: []Span{{From: 100, To: 150}},
		},
		{
			name: "exact multiple",
			from: 0, to: 199, size: 100,
			want: []Span{{From: 0, To: 99}, {From: 100, To: 199}},
		},
		{
			name: "remainder span",
			from: 10, to: 35, size: 10,
			want: []Span{{From: 10, To: 19}, {From: 20, To: 29}, {From: 30, To: 35}},
		},
		{
			name: "single block",
			from: 42, to: 42, size: 100,
			want: []Span{{From: 42, To: 42}},
		},
		{
			name: "empty range",
			from: 50, to: 40, size: 10,
			want: nil,
		},
		{
			name: "zero size",
			from: 0, to: 10, size: 0,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitRange(tt.from, tt.to, tt.size)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("SplitRange(%d, %d, %d) = %v, want %v", tt.from, tt.to, tt.size, got, tt.want)
			}
		})
	}
}

func TestSplitRangeCoversEveryBlockOnce(t *testing.T) {
	spans := SplitRange(7, 1000, 37)

	next := uint64(7)
	for _, span := range spans {
		if span.From != next {
			t.Fatalf("span %s does not continue from %d", span, next)
		}
		if span.To < span.From {
			t.Fatalf("span %s is inverted", span)
		}
		next = span.To + 1
	}
	if next != 1001 {
		t.Fatalf("spans end at %d, want 1001", next)
	}
}
