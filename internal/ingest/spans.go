// Package ingest pulls pool operations from the chain into storage.
package ingest

import "fmt"

// Span is an inclusive block range.
type Span struct {
	From uint64
	To   uint64
}

func (s Span) String() string {
	return fmt.Sprintf("[%d, %d]", s.From, s.To)
}

// SplitRange cuts [from, to] into spans of at most size blocks. Returns nil
// when the range is empty or size is zero.
func SplitRange(from, to, size uint64) []Span {
	if size == 0 || from > to {
		return nil
	}

	spans := make([]Span, 0, (to-from)/size+1)
	for start := from; start <= to; {
		end := start + size - 1
		if end > to || end < start {
			end = to
		}
		spans = append(spans, Span{From: start, To: end})
		if end == to {
			break
		}
		start = end + 1
	}
	return spans
}
