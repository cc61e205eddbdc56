package dex

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"dexboard/internal/model"
)

// Signed amount conventions per event. Swap amounts keep the pool's sign
// (positive into the pool, negative out), mints are positive and burns are
// negated so liquidity changes sum directly.
var eventTags = map[string]string{
	"Swap": model.OperationSwap,
	"Mint": model.OperationAdd,
	"Burn": model.OperationRemove,
}

// topic0 plus the indexed arguments of each event.
var eventTopicCounts = map[string]int{
	"Swap": 3,
	"Mint": 4,
	"Burn": 4,
}

// OperationDecoder turns pool logs into tagged operations.
type OperationDecoder struct {
	contractABI abi.ABI
	topicToName map[common.Hash]string
}

// NewOperationDecoder builds a decoder for the standard Swap, Mint and Burn
// topics. extraTopics maps additional topic0 hashes (hex) onto one of those
// event names, for forks that emit the same layout under a different
// signature.
func NewOperationDecoder(extraTopics map[string]string) (*OperationDecoder, error) {
	contractABI, err := PoolABI()
	if err != nil {
		return nil, fmt.Errorf("parse pool abi: %w", err)
	}

	topicToName := make(map[common.Hash]string, len(eventTags)+len(extraTopics))
	for name := range eventTags {
		event, ok := contractABI.Events[name]
		if !ok {
			return nil, fmt.Errorf("pool abi missing event %s", name)
		}
		topicToName[event.ID] = name
	}
	for topic, name := range extraTopics {
		if _, ok := eventTags[name]; !ok {
			return nil, fmt.Errorf("topic %s maps to unknown event %q", topic, name)
		}
		topicToName[common.HexToHash(topic)] = name
	}

	return &OperationDecoder{
		contractABI: contractABI,
		topicToName: topicToName,
	}, nil
}

// Topics returns every topic0 the decoder recognizes, in a stable order, for
// use in log filters.
func (d *OperationDecoder) Topics() []common.Hash {
	topics := make([]common.Hash, 0, len(d.topicToName))
	for topic := range d.topicToName {
		topics = append(topics, topic)
	}
	sort.Slice(topics, func(i, j int) bool {
		return topics[i].Hex() < topics[j].Hex()
	})
	return topics
}

// CanDecode reports whether the decoder recognizes topic0.
func (d *OperationDecoder) CanDecode(topic0 common.Hash) bool {
	_, ok := d.topicToName[topic0]
	return ok
}

// Decode converts a pool log into an operation, scaling raw amounts by the
// pool's token decimals. The returned operation carries the pool metadata but
// no storage IDs.
func (d *OperationDecoder) Decode(lg types.Log, info PoolInfo, timestamp int64) (model.Operation, error) {
	if len(lg.Topics) == 0 {
		return model.Operation{}, fmt.Errorf("log %s:%d has no topics", lg.TxHash.Hex(), lg.Index)
	}

	name, ok := d.topicToName[lg.Topics[0]]
	if !ok {
		return model.Operation{}, fmt.Errorf("unhandled topic %s", lg.Topics[0].Hex())
	}
	if want := eventTopicCounts[name]; len(lg.Topics) != want {
		return model.Operation{}, fmt.Errorf("%s log has %d topics, want %d", name, len(lg.Topics), want)
	}

	amount0, amount1, err := d.unpackAmounts(name, lg.Data)
	if err != nil {
		return model.Operation{}, fmt.Errorf("decode %s data: %w", name, err)
	}
	if name == "Burn" {
		amount0 = new(big.Int).Neg(amount0)
		amount1 = new(big.Int).Neg(amount1)
	}

	pool := model.Pool{
		Address:        info.Address.Hex(),
		Token0:         info.Token0.Hex(),
		Token1:         info.Token1.Hex(),
		Token0Symbol:   info.Token0Symbol,
		Token1Symbol:   info.Token1Symbol,
		Token0Decimals: info.Token0Decimals,
		Token1Decimals: info.Token1Decimals,
		Fee:            info.Fee,
	}
	return model.Operation{
		Pool:         &pool,
		Type:         &model.OperationType{Name: eventTags[name]},
		Token0Amount: tokenAmount(amount0, info.Token0Decimals),
		Token1Amount: tokenAmount(amount1, info.Token1Decimals),
		Timestamp:    timestamp,
		BlockNumber:  lg.BlockNumber,
		TxHash:       lg.TxHash.Hex(),
		LogIndex:     uint64(lg.Index),
	}, nil
}

// unpackAmounts extracts amount0 and amount1 from the non-indexed data of a
// recognized event. Their position varies per event layout.
func (d *OperationDecoder) unpackAmounts(name string, data []byte) (*big.Int, *big.Int, error) {
	values, err := d.contractABI.Unpack(name, data)
	if err != nil {
		return nil, nil, err
	}

	var idx0, idx1 int
	switch name {
	case "Swap":
		idx0, idx1 = 0, 1
	case "Mint":
		idx0, idx1 = 2, 3
	case "Burn":
		idx0, idx1 = 1, 2
	default:
		return nil, nil, fmt.Errorf("unhandled event %s", name)
	}
	if len(values) <= idx1 {
		return nil, nil, fmt.Errorf("%s unpacked %d values, want at least %d", name, len(values), idx1+1)
	}

	amount0, err := asBigInt(values[idx0])
	if err != nil {
		return nil, nil, fmt.Errorf("amount0: %w", err)
	}
	amount1, err := asBigInt(values[idx1])
	if err != nil {
		return nil, nil, fmt.Errorf("amount1: %w", err)
	}
	return amount0, amount1, nil
}

// tokenAmount scales a raw integer amount down by the token's decimals.
func tokenAmount(value *big.Int, decimals uint8) float64 {
	if value == nil {
		return 0
	}
	amount := new(big.Float).SetInt(value)
	if decimals > 0 {
		exp := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
		amount.Quo(amount, new(big.Float).SetInt(exp))
	}
	f, _ := amount.Float64()
	return f
}
