package model

// Pool represents a tracked pool and its token pair.
type Pool struct {
	ID             int64  `json:"id"`
	DexID          int64  `json:"dex_id"`
	Address        string `json:"address"`
	Token0         string `json:"token_0"`
	Token1         string `json:"token_1"`
	Token0Symbol   string `json:"token_0_symbol,omitempty"`
	Token1Symbol   string `json:"token_1_symbol,omitempty"`
	Token0Decimals uint8  `json:"token_0_decimals"`
	Token1Decimals uint8  `json:"token_1_decimals"`
	Fee            uint32 `json:"fee"`
	FirstSeenBlock uint64 `json:"first_seen_block"`
}

// Name returns a human-readable pair label, falling back to the address.
func (p Pool) Name() string {
	if p.Token0Symbol != "" && p.Token1Symbol != "" {
		return p.Token0Symbol + "/" + p.Token1Symbol
	}
	return p.Address
}
