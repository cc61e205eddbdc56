package model

// Operation type names recorded by the sync pipeline.
const (
	OperationSwap   = "swap"
	OperationAdd    = "add"
	OperationRemove = "remove"
)

// OperationType tags an operation with its recorded kind. Operations written
// by other tools may carry no tag at all; those are classified from amount
// signs instead.
type OperationType struct {
	Name string `json:"name"`
}

// Operation is a single pool action: a swap or a liquidity add/remove.
// Token amounts are signed and already normalized by token decimals.
type Operation struct {
	ID           int64          `json:"id"`
	Pool         *Pool          `json:"pool,omitempty"`
	Type         *OperationType `json:"operation_type,omitempty"`
	Token0Amount float64        `json:"token_0_amount"`
	Token1Amount float64        `json:"token_1_amount"`
	Timestamp    int64          `json:"timestamp"`
	BlockNumber  uint64         `json:"block_number"`
	TxHash       string         `json:"tx_hash"`
	LogIndex     uint64         `json:"log_index"`
}
