package model

// ChartPoint is a single rendered point: a UTC date label and a value.
type ChartPoint struct {
	Time  string  `json:"time"`
	Value float64 `json:"value"`
}

// PairCharts bundles the rendered charts of one pool.
type PairCharts struct {
	LiquidityToken0 []ChartPoint `json:"liquidity_token_0"`
	LiquidityToken1 []ChartPoint `json:"liquidity_token_1"`
	VolumeToken0    []ChartPoint `json:"volume_token_0"`
	VolumeToken1    []ChartPoint `json:"volume_token_1"`
	SwapCount       []ChartPoint `json:"swap_count"`
}
