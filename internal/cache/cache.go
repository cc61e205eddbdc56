// Package cache stores pre-rendered dashboard views in Redis.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"dexboard/internal/model"
)

// Config holds Redis connection settings. A TTL of zero keeps views until
// the next refresh overwrites them.
type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Cache reads and writes dashboard views as JSON values.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a cache client. The connection is not verified; call Ping.
func New(cfg Config) *Cache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &Cache{client: client, ttl: cfg.TTL}
}

// Ping verifies the connection.
func (c *Cache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}

// Close releases the client.
func (c *Cache) Close() error {
	return c.client.Close()
}

// SetOverview stores the cross-dex overview.
func (c *Cache) SetOverview(ctx context.Context, view model.DexOverview) error {
	return c.setJSON(ctx, overviewKey(), view)
}

// Overview returns the cached overview, or nil when absent.
func (c *Cache) Overview(ctx context.Context) (*model.DexOverview, error) {
	var view model.DexOverview
	found, err := c.getJSON(ctx, overviewKey(), &view)
	if err != nil || !found {
		return nil, err
	}
	return &view, nil
}

// SetDexView stores one dex dashboard.
func (c *Cache) SetDexView(ctx context.Context, view model.DexView) error {
	return c.setJSON(ctx, dexKey(view.ID), view)
}

// DexView returns the cached dashboard for a dex, or nil when absent.
func (c *Cache) DexView(ctx context.Context, dexID int64) (*model.DexView, error) {
	var view model.DexView
	found, err := c.getJSON(ctx, dexKey(dexID), &view)
	if err != nil || !found {
		return nil, err
	}
	return &view, nil
}

// SetPairView stores one pair dashboard.
func (c *Cache) SetPairView(ctx context.Context, view model.PairView) error {
	return c.setJSON(ctx, pairKey(view.ID, view.DexID), view)
}

// PairView returns the cached dashboard for a pair, or nil when absent.
func (c *Cache) PairView(ctx context.Context, poolID, dexID int64) (*model.PairView, error) {
	var view model.PairView
	found, err := c.getJSON(ctx, pairKey(poolID, dexID), &view)
	if err != nil || !found {
		return nil, err
	}
	return &view, nil
}

// SetDexList stores the dex summaries.
func (c *Cache) SetDexList(ctx context.Context, list []model.DexSummary) error {
	return c.setJSON(ctx, dexListKey(), list)
}

// DexList returns the cached dex summaries, or nil when absent.
func (c *Cache) DexList(ctx context.Context) ([]model.DexSummary, error) {
	var list []model.DexSummary
	found, err := c.getJSON(ctx, dexListKey(), &list)
	if err != nil || !found {
		return nil, err
	}
	return list, nil
}

// SetPairList stores the pair summaries of one dex.
func (c *Cache) SetPairList(ctx context.Context, dexID int64, list []model.PairSummary) error {
	return c.setJSON(ctx, pairListKey(dexID), list)
}

// PairList returns the cached pair summaries of a dex, or nil when absent.
func (c *Cache) PairList(ctx context.Context, dexID int64) ([]model.PairSummary, error) {
	var list []model.PairSummary
	found, err := c.getJSON(ctx, pairListKey(dexID), &list)
	if err != nil || !found {
		return nil, err
	}
	return list, nil
}

// SetPoolList stores the raw pool registry.
func (c *Cache) SetPoolList(ctx context.Context, pools []model.Pool) error {
	return c.setJSON(ctx, poolListKey(), pools)
}

// PoolList returns the cached pool registry, or nil when absent.
func (c *Cache) PoolList(ctx context.Context) ([]model.Pool, error) {
	var pools []model.Pool
	found, err := c.getJSON(ctx, poolListKey(), &pools)
	if err != nil || !found {
		return nil, err
	}
	return pools, nil
}

func (c *Cache) setJSON(ctx context.Context, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// getJSON reports whether the key existed. A missing key is not an error.
func (c *Cache) getJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func overviewKey() string {
	return "dashboard:dex_overview"
}

func dexKey(dexID int64) string {
	return fmt.Sprintf("dashboard:dex:%d", dexID)
}

func pairKey(poolID, dexID int64) string {
	return fmt.Sprintf("dashboard:pair:%d:%d", poolID, dexID)
}

func dexListKey() string {
	return "dashboard:dex_list"
}

func pairListKey(dexID int64) string {
	return fmt.Sprintf("dashboard:pair_list:%d", dexID)
}

func poolListKey() string {
	return "pool_list"
}
