package model

// PairSummary is the list entry for one pool. Liquidity fields carry the
// latest reconstructed values; volume and swap count are lookback totals.
type PairSummary struct {
	ID              int64   `json:"id"`
	DexID           int64   `json:"dex_id"`
	Name            string  `json:"name"`
	LiquidityToken0 float64 `json:"liquidity_token_0"`
	LiquidityToken1 float64 `json:"liquidity_token_1"`
	VolumeToken0    float64 `json:"volume_token_0"`
	VolumeToken1    float64 `json:"volume_token_1"`
	SwapCount       int64   `json:"swap_count"`
}

// PairView is the full dashboard view of one pool.
type PairView struct {
	PairSummary
	Charts PairCharts `json:"charts"`
}

// DexSummary is the list entry for one dex. Token-denominated metrics are
// never summed across pools of different pairs, so only counts aggregate.
type DexSummary struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	PoolCount int64  `json:"pool_count"`
	SwapCount int64  `json:"swap_count"`
}

// DexView is the full dashboard view of one dex.
type DexView struct {
	DexSummary
	SwapCountChart []ChartPoint `json:"swap_count_chart"`
}

// DexOverview aggregates every tracked dex.
type DexOverview struct {
	DexCount       int64        `json:"dex_count"`
	PoolCount      int64        `json:"pool_count"`
	SwapCount      int64        `json:"swap_count"`
	SwapCountChart []ChartPoint `json:"swap_count_chart"`
}
