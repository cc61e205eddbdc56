package stats

import (
	"reflect"
	"testing"

	"dexboard/internal/model"
)

func TestLiquiditySeriesCarriesForward(t *testing.T) {
	ops := []model.Operation{
		typedOp(1, model.OperationAdd, 100, -50, 0),
		typedOp(1, model.OperationRemove, -20, 10, 50),
	}

	sequences := LiquiditySeries(LiquidityChange(ops, 60), 60, 120)

	seq := sequences[1]
	if seq == nil {
		t.Fatalf("pool 1 missing")
	}
	want0 := map[int64]float64{0: 80, 60: 80}
	want1 := map[int64]float64{0: -40, 60: -40}
	if !reflect.DeepEqual(seq.Token0, want0) {
		t.Fatalf("token0 sequence mismatch: %+v != %+v", seq.Token0, want0)
	}
	if !reflect.DeepEqual(seq.Token1, want1) {
		t.Fatalf("token1 sequence mismatch: %+v != %+v", seq.Token1, want1)
	}
}

func TestLiquiditySeriesRoundTrip(t *testing.T) {
	change := model.NewPairSeries()
	change.Token0[0] = 10
	change.Token0[120] = -4
	change.Token1[0] = 2
	change.Token1[120] = 1

	sequences := LiquiditySeries(map[int64]*model.PairSeries{5: change}, 60, 300)

	seq := sequences[5]
	for bucket := int64(60); bucket < 300; bucket += 60 {
		diff0 := seq.Token0[bucket] - seq.Token0[bucket-60]
		if diff0 != change.Token0[bucket] {
			t.Fatalf("token0 delta at %d: %v != %v", bucket, diff0, change.Token0[bucket])
		}
		diff1 := seq.Token1[bucket] - seq.Token1[bucket-60]
		if diff1 != change.Token1[bucket] {
			t.Fatalf("token1 delta at %d: %v != %v", bucket, diff1, change.Token1[bucket])
		}
	}
}

func TestVolumeSeriesZeroFills(t *testing.T) {
	change := model.NewPairSeries()
	change.Token0[60] = 5
	change.Token1[60] = 7

	sequences := VolumeSeries(map[int64]*model.PairSeries{3: change}, 60, 300)

	seq := sequences[3]
	if seq == nil {
		t.Fatalf("pool 3 missing")
	}
	want0 := map[int64]float64{60: 5, 120: 0, 180: 0, 240: 0}
	want1 := map[int64]float64{60: 7, 120: 0, 180: 0, 240: 0}
	if !reflect.DeepEqual(seq.Token0, want0) {
		t.Fatalf("token0 sequence mismatch: %+v != %+v", seq.Token0, want0)
	}
	if !reflect.DeepEqual(seq.Token1, want1) {
		t.Fatalf("token1 sequence mismatch: %+v != %+v", seq.Token1, want1)
	}
}

func TestSwapCountSeriesZeroFills(t *testing.T) {
	changes := map[int64]model.CountSeries{
		2: {0: 3, 120: 1},
	}

	sequences := SwapCountSeries(changes, 60, 240)

	want := model.CountSeries{0: 3, 60: 0, 120: 1, 180: 0}
	if !reflect.DeepEqual(sequences[2], want) {
		t.Fatalf("count sequence mismatch: %+v != %+v", sequences[2], want)
	}
}

func TestSeriesSkipPoolsWithoutBuckets(t *testing.T) {
	pair := map[int64]*model.PairSeries{4: model.NewPairSeries()}
	if got := LiquiditySeries(pair, 60, 600); len(got) != 0 {
		t.Fatalf("empty change map should produce no sequence: %+v", got)
	}
	if got := VolumeSeries(pair, 60, 600); len(got) != 0 {
		t.Fatalf("empty change map should produce no sequence: %+v", got)
	}

	counts := map[int64]model.CountSeries{9: {}}
	if got := SwapCountSeries(counts, 60, 600); len(got) != 0 {
		t.Fatalf("empty count map should produce no sequence: %+v", got)
	}
}

func TestSeriesEndExclusive(t *testing.T) {
	change := model.NewPairSeries()
	change.Token0[0] = 1
	change.Token1[0] = 1

	sequences := LiquiditySeries(map[int64]*model.PairSeries{1: change}, 60, 60)

	seq := sequences[1]
	if len(seq.Token0) != 1 {
		t.Fatalf("sequence should stop before now: %+v", seq.Token0)
	}
	if _, ok := seq.Token0[60]; ok {
		t.Fatalf("bucket at now should be excluded")
	}
}
