package model

// PairSeries holds bucket-keyed values for both tokens of a pool. The same
// shape serves sparse change maps and dense reconstructed sequences.
type PairSeries struct {
	Token0 map[int64]float64 `json:"token_0"`
	Token1 map[int64]float64 `json:"token_1"`
}

// NewPairSeries returns a PairSeries with initialized maps.
func NewPairSeries() *PairSeries {
	return &PairSeries{
		Token0: make(map[int64]float64),
		Token1: make(map[int64]float64),
	}
}

// CountSeries holds bucket-keyed integer counters.
type CountSeries map[int64]int64
