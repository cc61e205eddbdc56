package dashboard

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"dexboard/internal/model"
)

func TestBuildRendersAllViews(t *testing.T) {
	pool1 := model.Pool{ID: 1, DexID: 1, Address: "0xp1", Token0Symbol: "USDC", Token1Symbol: "WETH"}
	pool2 := model.Pool{ID: 2, DexID: 1, Address: "0xp2"}
	pool3 := model.Pool{ID: 3, DexID: 2, Address: "0xp3", Token0Symbol: "ARB", Token1Symbol: "DAI"}

	source := &fakeSource{
		dexes: []model.Dex{{ID: 1, Name: "alpha"}, {ID: 2, Name: "beta"}},
		pools: []model.Pool{pool1, pool2, pool3},
		ops: []model.Operation{
			typedOp(&pool1, "add", 100, 3, 0),
			op(&pool1, 10, -1, 0),
			op(&pool1, -5, 0.5, 70),
			op(&pool3, 30, -40, 65),
		},
	}
	sink := newFakeSink()

	builder := NewBuilder(source, sink, Config{Interval: 60, Decimals: 2}, nil)
	if err := builder.Build(context.Background(), 120); err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if len(sink.pairViews) != 3 {
		t.Fatalf("pair views = %d, want 3", len(sink.pairViews))
	}

	view1 := sink.pairViews[1]
	if view1.Name != "USDC/WETH" {
		t.Errorf("pool 1 name = %q, want USDC/WETH", view1.Name)
	}
	if view1.LiquidityToken0 != 100 || view1.LiquidityToken1 != 3 {
		t.Errorf("pool 1 liquidity = (%v, %v), want (100, 3)", view1.LiquidityToken0, view1.LiquidityToken1)
	}
	if view1.VolumeToken0 != 15 || view1.VolumeToken1 != 1.5 {
		t.Errorf("pool 1 volume = (%v, %v), want (15, 1.5)", view1.VolumeToken0, view1.VolumeToken1)
	}
	if view1.SwapCount != 2 {
		t.Errorf("pool 1 swap count = %d, want 2", view1.SwapCount)
	}
	wantLiquidity := []model.ChartPoint{
		{Time: "1970-01-01", Value: 100},
		{Time: "1970-01-01", Value: 100},
	}
	if !reflect.DeepEqual(view1.Charts.LiquidityToken0, wantLiquidity) {
		t.Errorf("pool 1 liquidity chart = %v, want %v", view1.Charts.LiquidityToken0, wantLiquidity)
	}
	wantVolume := []model.ChartPoint{
		{Time: "1970-01-01", Value: 10},
		{Time: "1970-01-01", Value: 5},
	}
	if !reflect.DeepEqual(view1.Charts.VolumeToken0, wantVolume) {
		t.Errorf("pool 1 volume chart = %v, want %v", view1.Charts.VolumeToken0, wantVolume)
	}

	view2 := sink.pairViews[2]
	if view2.Name != "0xp2" {
		t.Errorf("pool 2 name = %q, want address fallback", view2.Name)
	}
	if view2.SwapCount != 0 || view2.LiquidityToken0 != 0 || view2.VolumeToken0 != 0 {
		t.Errorf("pool 2 summary not zero: %+v", view2.PairSummary)
	}
	if len(view2.Charts.LiquidityToken0) != 0 || len(view2.Charts.VolumeToken0) != 0 || len(view2.Charts.SwapCount) != 0 {
		t.Errorf("pool 2 charts not empty: %+v", view2.Charts)
	}

	view3 := sink.pairViews[3]
	if view3.VolumeToken0 != 30 || view3.VolumeToken1 != 40 {
		t.Errorf("pool 3 volume = (%v, %v), want (30, 40)", view3.VolumeToken0, view3.VolumeToken1)
	}
	if view3.LiquidityToken0 != 0 || len(view3.Charts.LiquidityToken0) != 0 {
		t.Errorf("pool 3 untagged swaps should not produce liquidity")
	}
	if view3.SwapCount != 1 {
		t.Errorf("pool 3 swap count = %d, want 1", view3.SwapCount)
	}

	dex1 := sink.dexViews[1]
	if dex1.PoolCount != 2 || dex1.SwapCount != 2 {
		t.Errorf("dex 1 summary = %+v, want pool_count 2 swap_count 2", dex1.DexSummary)
	}
	wantDex1Chart := []model.ChartPoint{
		{Time: "1970-01-01", Value: 1},
		{Time: "1970-01-01", Value: 1},
	}
	if !reflect.DeepEqual(dex1.SwapCountChart, wantDex1Chart) {
		t.Errorf("dex 1 chart = %v, want %v", dex1.SwapCountChart, wantDex1Chart)
	}

	dex2 := sink.dexViews[2]
	if dex2.PoolCount != 1 || dex2.SwapCount != 1 {
		t.Errorf("dex 2 summary = %+v, want pool_count 1 swap_count 1", dex2.DexSummary)
	}

	if sink.overview == nil {
		t.Fatalf("overview not written")
	}
	if sink.overview.DexCount != 2 || sink.overview.PoolCount != 3 || sink.overview.SwapCount != 3 {
		t.Errorf("overview = %+v, want 2 dexes, 3 pools, 3 swaps", sink.overview)
	}
	wantOverviewChart := []model.ChartPoint{
		{Time: "1970-01-01", Value: 1},
		{Time: "1970-01-01", Value: 2},
	}
	if !reflect.DeepEqual(sink.overview.SwapCountChart, wantOverviewChart) {
		t.Errorf("overview chart = %v, want %v", sink.overview.SwapCountChart, wantOverviewChart)
	}

	wantDexList := []model.DexSummary{dex1.DexSummary, dex2.DexSummary}
	if !reflect.DeepEqual(sink.dexList, wantDexList) {
		t.Errorf("dex list = %v, want %v", sink.dexList, wantDexList)
	}
	pairList := sink.pairLists[1]
	if len(pairList) != 2 || pairList[0].ID != 1 || pairList[1].ID != 2 {
		t.Errorf("pair list for dex 1 = %v, want pools 1 and 2 in order", pairList)
	}
	if len(sink.poolList) != 3 {
		t.Errorf("pool list = %d entries, want 3", len(sink.poolList))
	}
}

func TestBuildAppliesLookbackWindow(t *testing.T) {
	source := &fakeSource{}
	sink := newFakeSink()

	builder := NewBuilder(source, sink, Config{Interval: 60, Window: 3600}, nil)
	if err := builder.Build(context.Background(), 5000); err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if source.since != 1400 {
		t.Fatalf("since = %d, want 1400", source.since)
	}

	builder = NewBuilder(source, sink, Config{Interval: 60}, nil)
	if err := builder.Build(context.Background(), 5000); err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if source.since != 0 {
		t.Fatalf("since without window = %d, want 0", source.since)
	}
}

func TestBuildPropagatesSourceErrors(t *testing.T) {
	wantErr := errors.New("database down")
	builder := NewBuilder(&fakeSource{err: wantErr}, newFakeSink(), Config{Interval: 60}, nil)
	if err := builder.Build(context.Background(), 100); !errors.Is(err, wantErr) {
		t.Fatalf("Build error = %v, want %v", err, wantErr)
	}
}

type fakeSource struct {
	dexes []model.Dex
	pools []model.Pool
	ops   []model.Operation
	err   error

	since int64
}

func (s *fakeSource) Dexes(context.Context) ([]model.Dex, error) {
	return s.dexes, s.err
}

func (s *fakeSource) Pools(context.Context) ([]model.Pool, error) {
	return s.pools, s.err
}

func (s *fakeSource) OperationsSince(_ context.Context, since int64) ([]model.Operation, error) {
	s.since = since
	return s.ops, s.err
}

type fakeSink struct {
	overview  *model.DexOverview
	dexViews  map[int64]model.DexView
	pairViews map[int64]model.PairView
	dexList   []model.DexSummary
	pairLists map[int64][]model.PairSummary
	poolList  []model.Pool
}

func newFakeSink() *fakeSink {
	return &fakeSink{
		dexViews:  make(map[int64]model.DexView),
		pairViews: make(map[int64]model.PairView),
		pairLists: make(map[int64][]model.PairSummary),
	}
}

func (s *fakeSink) SetOverview(_ context.Context, view model.DexOverview) error {
	s.overview = &view
	return nil
}

func (s *fakeSink) SetDexView(_ context.Context, view model.DexView) error {
	s.dexViews[view.ID] = view
	return nil
}

func (s *fakeSink) SetPairView(_ context.Context, view model.PairView) error {
	s.pairViews[view.ID] = view
	return nil
}

func (s *fakeSink) SetDexList(_ context.Context, list []model.DexSummary) error {
	s.dexList = list
	return nil
}

func (s *fakeSink) SetPairList(_ context.Context, dexID int64, list []model.PairSummary) error {
	s.pairLists[dexID] = list
	return nil
}

func (s *fakeSink) SetPoolList(_ context.Context, pools []model.Pool) error {
	s.poolList = pools
	return nil
}

func op(pool *model.Pool, amount0, amount1 float64, ts int64) model.Operation {
	return model.Operation{
		Pool:         pool,
		Token0Amount: amount0,
		Token1Amount: amount1,
		Timestamp:    ts,
	}
}

func typedOp(pool *model.Pool, name string, amount0, amount1 float64, ts int64) model.Operation {
	operation := op(pool, amount0, amount1, ts)
	operation.Type = &model.OperationType{Name: name}
	return operation
}
