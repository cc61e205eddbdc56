// Package dashboard assembles pre-rendered views from stored operations and
// publishes them to the cache.
package dashboard

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"dexboard/internal/model"
	"dexboard/internal/stats"
)

// Source provides the persisted data the builder reads.
type Source interface {
	Dexes(ctx context.Context) ([]model.Dex, error)
	Pools(ctx context.Context) ([]model.Pool, error)
	OperationsSince(ctx context.Context, since int64) ([]model.Operation, error)
}

// Sink receives the rendered views.
type Sink interface {
	SetOverview(ctx context.Context, view model.DexOverview) error
	SetDexView(ctx context.Context, view model.DexView) error
	SetPairView(ctx context.Context, view model.PairView) error
	SetDexList(ctx context.Context, list []model.DexSummary) error
	SetPairList(ctx context.Context, dexID int64, list []model.PairSummary) error
	SetPoolList(ctx context.Context, pools []model.Pool) error
}

// Config controls chart construction.
type Config struct {
	// Interval is the bucket width in seconds.
	Interval int64
	// Window limits how far back operations are loaded, in seconds.
	// Zero loads everything.
	Window int64
	// Decimals is the rounding applied to rendered chart values.
	Decimals int
}

// Builder renders every dashboard view in one pass.
type Builder struct {
	source Source
	sink   Sink
	cfg    Config
	logger *zap.Logger
}

// NewBuilder wires a builder.
func NewBuilder(source Source, sink Sink, cfg Config, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{source: source, sink: sink, cfg: cfg, logger: logger}
}

// Build loads operations up to now, reconstructs the per-pool series and
// writes pair, dex and overview dashboards plus the list views. Series end at
// the bucket containing now; now itself is supplied by the caller so runs are
// reproducible.
func (b *Builder) Build(ctx context.Context, now int64) error {
	start := time.Now()

	dexes, err := b.source.Dexes(ctx)
	if err != nil {
		return fmt.Errorf("load dexes: %w", err)
	}
	pools, err := b.source.Pools(ctx)
	if err != nil {
		return fmt.Errorf("load pools: %w", err)
	}

	var since int64
	if b.cfg.Window > 0 {
		since = now - b.cfg.Window
	}
	ops, err := b.source.OperationsSince(ctx, since)
	if err != nil {
		return fmt.Errorf("load operations: %w", err)
	}

	liquidity := stats.LiquiditySeries(stats.LiquidityChange(ops, b.cfg.Interval), b.cfg.Interval, now)
	volumeChanges := stats.VolumeChange(ops, b.cfg.Interval)
	volume := stats.VolumeSeries(volumeChanges, b.cfg.Interval, now)
	countChanges := stats.SwapCountChange(ops, b.cfg.Interval)
	counts := stats.SwapCountSeries(countChanges, b.cfg.Interval, now)

	summaries := make(map[int64]model.PairSummary, len(pools))
	poolsByDex := make(map[int64][]model.Pool, len(dexes))
	for _, pool := range pools {
		poolsByDex[pool.DexID] = append(poolsByDex[pool.DexID], pool)

		summary := model.PairSummary{
			ID:    pool.ID,
			DexID: pool.DexID,
			Name:  pool.Name(),
		}
		if series, ok := liquidity[pool.ID]; ok {
			summary.LiquidityToken0, summary.LiquidityToken1 = lastValues(series)
		}
		if changes, ok := volumeChanges[pool.ID]; ok {
			summary.VolumeToken0, summary.VolumeToken1 = sumValues(changes)
		}
		summary.SwapCount = sumCounts(countChanges[pool.ID])
		summaries[pool.ID] = summary

		view := model.PairView{
			PairSummary: summary,
			Charts:      buildPairCharts(liquidity[pool.ID], volume[pool.ID], counts[pool.ID], b.cfg.Decimals),
		}
		if err := b.sink.SetPairView(ctx, view); err != nil {
			return fmt.Errorf("store pair view %d: %w", pool.ID, err)
		}
	}

	dexSummaries := make([]model.DexSummary, 0, len(dexes))
	var overviewCounts []model.CountSeries
	var totalSwaps int64
	for _, d := range dexes {
		dexPools := poolsByDex[d.ID]

		pairList := make([]model.PairSummary, 0, len(dexPools))
		var dexCountSeries []model.CountSeries
		var dexSwaps int64
		for _, pool := range dexPools {
			pairList = append(pairList, summaries[pool.ID])
			dexSwaps += summaries[pool.ID].SwapCount
			if series, ok := counts[pool.ID]; ok {
				dexCountSeries = append(dexCountSeries, series)
			}
		}
		sort.Slice(pairList, func(i, j int) bool { return pairList[i].ID < pairList[j].ID })
		if err := b.sink.SetPairList(ctx, d.ID, pairList); err != nil {
			return fmt.Errorf("store pair list %d: %w", d.ID, err)
		}

		summary := model.DexSummary{
			ID:        d.ID,
			Name:      d.Name,
			PoolCount: int64(len(dexPools)),
			SwapCount: dexSwaps,
		}
		dexSummaries = append(dexSummaries, summary)
		view := model.DexView{
			DexSummary:     summary,
			SwapCountChart: stats.CountChartPoints(mergeCounts(dexCountSeries)),
		}
		if err := b.sink.SetDexView(ctx, view); err != nil {
			return fmt.Errorf("store dex view %d: %w", d.ID, err)
		}

		overviewCounts = append(overviewCounts, dexCountSeries...)
		totalSwaps += dexSwaps
	}

	sort.Slice(dexSummaries, func(i, j int) bool { return dexSummaries[i].ID < dexSummaries[j].ID })
	if err := b.sink.SetDexList(ctx, dexSummaries); err != nil {
		return fmt.Errorf("store dex list: %w", err)
	}

	overview := model.DexOverview{
		DexCount:       int64(len(dexes)),
		PoolCount:      int64(len(pools)),
		SwapCount:      totalSwaps,
		SwapCountChart: stats.CountChartPoints(mergeCounts(overviewCounts)),
	}
	if err := b.sink.SetOverview(ctx, overview); err != nil {
		return fmt.Errorf("store overview: %w", err)
	}
	if err := b.sink.SetPoolList(ctx, pools); err != nil {
		return fmt.Errorf("store pool list: %w", err)
	}

	b.logger.Info("dashboards rebuilt",
		zap.Int("dexes", len(dexes)),
		zap.Int("pools", len(pools)),
		zap.Int("operations", len(ops)),
		zap.Int64("now", now),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}
