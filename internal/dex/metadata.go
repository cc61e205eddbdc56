package dex

import (
	"bytes"
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"dexboard/internal/chain"
)

// TokenMeta captures the ERC20 metadata used to label pools and scale raw
// amounts into token units.
type TokenMeta struct {
	Decimals uint8
	Symbol   string
	Name     string
}

// PoolInfo describes a pool contract: its pair, fee tier and the token
// metadata needed to normalize event amounts.
type PoolInfo struct {
	Address        common.Address
	Token0         common.Address
	Token1         common.Address
	Fee            uint32
	Token0Decimals uint8
	Token1Decimals uint8
	Token0Symbol   string
	Token1Symbol   string
}

// PoolInfoCache keeps pool metadata keyed by pool address.
type PoolInfoCache struct {
	mu    sync.RWMutex
	pools map[common.Address]PoolInfo
}

// NewPoolInfoCache returns an empty cache.
func NewPoolInfoCache() *PoolInfoCache {
	return &PoolInfoCache{pools: make(map[common.Address]PoolInfo)}
}

// Get returns cached metadata for addr.
func (c *PoolInfoCache) Get(addr common.Address) (PoolInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	info, ok := c.pools[addr]
	return info, ok
}

// Set stores metadata for addr.
func (c *PoolInfoCache) Set(addr common.Address, info PoolInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pools[addr] = info
}

// TokenMetaCache keeps token metadata keyed by token address.
type TokenMetaCache struct {
	mu     sync.RWMutex
	tokens map[common.Address]TokenMeta
}

// NewTokenMetaCache returns an empty cache.
func NewTokenMetaCache() *TokenMetaCache {
	return &TokenMetaCache{tokens: make(map[common.Address]TokenMeta)}
}

// Get returns cached metadata for addr.
func (c *TokenMetaCache) Get(addr common.Address) (TokenMeta, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	meta, ok := c.tokens[addr]
	return meta, ok
}

// Set stores metadata for addr.
func (c *TokenMetaCache) Set(addr common.Address, meta TokenMeta) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens[addr] = meta
}

// FetchPoolInfo reads token0, token1 and fee from the pool contract and
// resolves both tokens' metadata. Decimals are required for amount scaling,
// so a failed token lookup fails the pool.
func FetchPoolInfo(ctx context.Context, client *chain.Client, pool common.Address, tokens *TokenMetaCache, logger *zap.Logger) (PoolInfo, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	poolABI, err := PoolABI()
	if err != nil {
		return PoolInfo{}, fmt.Errorf("parse pool abi: %w", err)
	}

	info := PoolInfo{Address: pool}

	token0Raw, err := callMethod(ctx, client, poolABI, pool, "token0")
	if err != nil {
		return PoolInfo{}, fmt.Errorf("call token0 on %s: %w", pool.Hex(), err)
	}
	info.Token0, err = asAddress(token0Raw)
	if err != nil {
		return PoolInfo{}, fmt.Errorf("decode token0 on %s: %w", pool.Hex(), err)
	}

	token1Raw, err := callMethod(ctx, client, poolABI, pool, "token1")
	if err != nil {
		return PoolInfo{}, fmt.Errorf("call token1 on %s: %w", pool.Hex(), err)
	}
	info.Token1, err = asAddress(token1Raw)
	if err != nil {
		return PoolInfo{}, fmt.Errorf("decode token1 on %s: %w", pool.Hex(), err)
	}

	feeRaw, err := callMethod(ctx, client, poolABI, pool, "fee")
	if err != nil {
		return PoolInfo{}, fmt.Errorf("call fee on %s: %w", pool.Hex(), err)
	}
	fee, err := asBigInt(feeRaw)
	if err != nil {
		return PoolInfo{}, fmt.Errorf("decode fee on %s: %w", pool.Hex(), err)
	}
	info.Fee = uint32(fee.Uint64())

	meta0, err := fetchTokenMeta(ctx, client, info.Token0, tokens)
	if err != nil {
		return PoolInfo{}, fmt.Errorf("token0 metadata for %s: %w", pool.Hex(), err)
	}
	meta1, err := fetchTokenMeta(ctx, client, info.Token1, tokens)
	if err != nil {
		return PoolInfo{}, fmt.Errorf("token1 metadata for %s: %w", pool.Hex(), err)
	}
	info.Token0Decimals = meta0.Decimals
	info.Token1Decimals = meta1.Decimals
	info.Token0Symbol = meta0.Symbol
	info.Token1Symbol = meta1.Symbol

	logger.Debug("fetched pool info",
		zap.String("pool", pool.Hex()),
		zap.String("token0", info.Token0.Hex()),
		zap.String("token1", info.Token1.Hex()),
		zap.Uint32("fee", info.Fee),
	)
	return info, nil
}

func fetchTokenMeta(ctx context.Context, client *chain.Client, token common.Address, cache *TokenMetaCache) (TokenMeta, error) {
	if cache != nil {
		if meta, ok := cache.Get(token); ok {
			return meta, nil
		}
	}

	stringABI, err := erc20StringABI()
	if err != nil {
		return TokenMeta{}, fmt.Errorf("parse erc20 abi: %w", err)
	}

	meta := TokenMeta{}

	decimalsRaw, err := callMethod(ctx, client, stringABI, token, "decimals")
	if err != nil {
		return TokenMeta{}, fmt.Errorf("call decimals on %s: %w", token.Hex(), err)
	}
	meta.Decimals, err = asUint8(decimalsRaw)
	if err != nil {
		return TokenMeta{}, fmt.Errorf("decode decimals on %s: %w", token.Hex(), err)
	}

	// Symbol and name are cosmetic. Some older tokens return bytes32, so a
	// failed string decode falls through to the bytes32 variant before
	// giving up.
	meta.Symbol = fetchTokenString(ctx, client, token, "symbol")
	meta.Name = fetchTokenString(ctx, client, token, "name")

	if cache != nil {
		cache.Set(token, meta)
	}
	return meta, nil
}

func fetchTokenString(ctx context.Context, client *chain.Client, token common.Address, method string) string {
	if stringABI, err := erc20StringABI(); err == nil {
		if raw, err := callMethod(ctx, client, stringABI, token, method); err == nil {
			if s, ok := raw.(string); ok && s != "" {
				return s
			}
		}
	}
	if bytesABI, err := erc20Bytes32ABI(); err == nil {
		if raw, err := callMethod(ctx, client, bytesABI, token, method); err == nil {
			if b, ok := raw.([32]byte); ok {
				return bytes32ToString(b)
			}
		}
	}
	return ""
}

func callMethod(ctx context.Context, client *chain.Client, contractABI abi.ABI, addr common.Address, method string) (interface{}, error) {
	input, err := contractABI.Pack(method)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	msg := ethereum.CallMsg{To: &addr, Data: input}
	output, err := client.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, err
	}
	values, err := contractABI.Unpack(method, output)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%s returned no values", method)
	}
	return values[0], nil
}

func asAddress(v interface{}) (common.Address, error) {
	addr, ok := v.(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("expected address, got %T", v)
	}
	return addr, nil
}

func asBigInt(v interface{}) (*big.Int, error) {
	n, ok := v.(*big.Int)
	if !ok {
		return nil, fmt.Errorf("expected *big.Int, got %T", v)
	}
	return n, nil
}

func asUint8(v interface{}) (uint8, error) {
	switch n := v.(type) {
	case uint8:
		return n, nil
	case *big.Int:
		return uint8(n.Uint64()), nil
	default:
		return 0, fmt.Errorf("expected uint8, got %T", v)
	}
}

func bytes32ToString(b [32]byte) string {
	trimmed := bytes.TrimRight(b[:], "\x00")
	return string(trimmed)
}
