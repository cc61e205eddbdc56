package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"dexboard/internal/chain"
	"dexboard/internal/dex"
	"dexboard/internal/model"
	"dexboard/internal/storage/postgres"
)

// Config controls a sync run over one dex.
type Config struct {
	Dex       model.Dex
	Addresses []common.Address

	StartBlock uint64
	// EndBlock of 0 means the current chain head.
	EndBlock  uint64
	BatchSize uint64
	// ChainID of 0 skips the endpoint check.
	ChainID uint64

	RetryAttempts int
	RetryDelay    time.Duration
}

// Runner pulls pool logs from the chain, decodes them into operations and
// persists them batch by batch, checkpointing after each span.
type Runner struct {
	cfg      Config
	client   *chain.Client
	decoder  *dex.OperationDecoder
	store    *postgres.Store
	state    StateStore
	failures *DecodeFailureLog
	logger   *zap.Logger

	pools  *dex.PoolInfoCache
	tokens *dex.TokenMetaCache
	seen   map[string]struct{}
}

// NewRunner wires a runner. failures may be nil to discard decode failures.
func NewRunner(
	cfg Config,
	client *chain.Client,
	decoder *dex.OperationDecoder,
	store *postgres.Store,
	state StateStore,
	failures *DecodeFailureLog,
	logger *zap.Logger,
) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:      cfg,
		client:   client,
		decoder:  decoder,
		store:    store,
		state:    state,
		failures: failures,
		logger:   logger,
		pools:    dex.NewPoolInfoCache(),
		tokens:   dex.NewTokenMetaCache(),
		seen:     make(map[string]struct{}),
	}
}

type totals struct {
	logs       int
	decoded    int
	inserted   int64
	failed     int
	duplicates int
}

// Run processes the configured block range, resuming from the checkpoint
// when one exists.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.checkChainID(ctx); err != nil {
		return err
	}
	if err := r.store.UpsertDex(ctx, r.cfg.Dex); err != nil {
		return err
	}

	from := r.cfg.StartBlock
	last, found, err := r.state.Load(ctx)
	if err != nil {
		return fmt.Errorf("load checkpoint: %w", err)
	}
	if found && last+1 > from {
		from = last + 1
		r.logger.Info("resuming from checkpoint",
			zap.Uint64("last_block", last),
			zap.Uint64("from_block", from),
		)
	}

	to := r.cfg.EndBlock
	if to == 0 {
		to, err = r.client.LatestBlockNumber(ctx)
		if err != nil {
			return fmt.Errorf("fetch latest block: %w", err)
		}
	}
	if from > to {
		r.logger.Info("nothing to sync",
			zap.Uint64("from_block", from),
			zap.Uint64("to_block", to),
		)
		return nil
	}

	spans := SplitRange(from, to, r.cfg.BatchSize)
	r.logger.Info("starting sync",
		zap.Int64("dex_id", r.cfg.Dex.ID),
		zap.String("dex", r.cfg.Dex.Name),
		zap.Uint64("from_block", from),
		zap.Uint64("to_block", to),
		zap.Int("spans", len(spans)),
		zap.Int("pools", len(r.cfg.Addresses)),
	)

	start := time.Now()
	var run totals
	for _, span := range spans {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		spanStart := time.Now()
		spanTotals, err := r.processSpan(ctx, span)
		if err != nil {
			return fmt.Errorf("process span %s: %w", span, err)
		}
		if err := r.state.Save(ctx, span.To); err != nil {
			return fmt.Errorf("save checkpoint %d: %w", span.To, err)
		}

		run.logs += spanTotals.logs
		run.decoded += spanTotals.decoded
		run.inserted += spanTotals.inserted
		run.failed += spanTotals.failed
		run.duplicates += spanTotals.duplicates
		r.logger.Info("span complete",
			zap.Uint64("from_block", span.From),
			zap.Uint64("to_block", span.To),
			zap.Int("logs", spanTotals.logs),
			zap.Int("decoded", spanTotals.decoded),
			zap.Int64("inserted", spanTotals.inserted),
			zap.Int("failed", spanTotals.failed),
			zap.Duration("elapsed", time.Since(spanStart)),
		)
	}

	r.logger.Info("sync complete",
		zap.Int("logs", run.logs),
		zap.Int("decoded", run.decoded),
		zap.Int64("inserted", run.inserted),
		zap.Int("failed", run.failed),
		zap.Int("duplicates", run.duplicates),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

func (r *Runner) checkChainID(ctx context.Context) error {
	if r.cfg.ChainID == 0 {
		return nil
	}
	chainID, err := r.client.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("fetch chain id: %w", err)
	}
	if !chainID.IsUint64() || chainID.Uint64() != r.cfg.ChainID {
		return fmt.Errorf("endpoint chain id %s does not match configured %d", chainID, r.cfg.ChainID)
	}
	return nil
}

func (r *Runner) processSpan(ctx context.Context, span Span) (totals, error) {
	var t totals

	logs, err := r.filterLogs(ctx, span)
	if err != nil {
		return t, err
	}
	t.logs = len(logs)

	var (
		ops     []model.Operation
		touched = make(map[common.Address]model.Pool)
	)
	for _, lg := range logs {
		if lg.Removed {
			continue
		}
		key := fmt.Sprintf("%d:%s:%d", lg.BlockNumber, lg.TxHash.Hex(), lg.Index)
		if _, ok := r.seen[key]; ok {
			t.duplicates++
			continue
		}
		if len(lg.Topics) == 0 || !r.decoder.CanDecode(lg.Topics[0]) {
			continue
		}

		info, err := r.poolInfo(ctx, lg.Address)
		if err != nil {
			t.failed++
			r.recordFailure(lg, fmt.Errorf("pool info: %w", err))
			continue
		}
		timestamp, err := r.blockTimestamp(ctx, lg.BlockNumber)
		if err != nil {
			return t, fmt.Errorf("timestamp for block %d: %w", lg.BlockNumber, err)
		}

		op, err := r.decoder.Decode(lg, info, timestamp)
		if err != nil {
			t.failed++
			r.recordFailure(lg, err)
			continue
		}

		r.seen[key] = struct{}{}
		t.decoded++
		ops = append(ops, op)

		pool, ok := touched[lg.Address]
		if !ok {
			pool = *op.Pool
			pool.DexID = r.cfg.Dex.ID
			pool.FirstSeenBlock = lg.BlockNumber
		} else if lg.BlockNumber < pool.FirstSeenBlock {
			pool.FirstSeenBlock = lg.BlockNumber
		}
		touched[lg.Address] = pool
	}

	if len(touched) > 0 {
		pools := make([]model.Pool, 0, len(touched))
		for _, pool := range touched {
			pools = append(pools, pool)
		}
		if _, err := r.store.UpsertPools(ctx, r.cfg.Dex.ID, pools); err != nil {
			return t, err
		}
	}
	if len(ops) > 0 {
		inserted, err := r.store.InsertOperations(ctx, r.cfg.Dex.ID, ops)
		if err != nil {
			return t, err
		}
		t.inserted = inserted
	}
	return t, nil
}

func (r *Runner) filterLogs(ctx context.Context, span Span) ([]types.Log, error) {
	var logs []types.Log
	err := withRetry(ctx, r.cfg.RetryAttempts, r.cfg.RetryDelay, func() error {
		var err error
		logs, err = r.client.FilterLogs(ctx, span.From, span.To, r.cfg.Addresses, r.decoder.Topics())
		if err != nil {
			r.logger.Warn("filter logs failed, retrying",
				zap.Uint64("from_block", span.From),
				zap.Uint64("to_block", span.To),
				zap.Error(err),
			)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("filter logs: %w", err)
	}
	return logs, nil
}

func (r *Runner) blockTimestamp(ctx context.Context, block uint64) (int64, error) {
	var timestamp int64
	err := withRetry(ctx, r.cfg.RetryAttempts, r.cfg.RetryDelay, func() error {
		var err error
		timestamp, err = r.client.BlockTimestamp(ctx, block)
		if err != nil {
			r.logger.Warn("block timestamp failed, retrying",
				zap.Uint64("block", block),
				zap.Error(err),
			)
		}
		return err
	})
	return timestamp, err
}

func (r *Runner) poolInfo(ctx context.Context, addr common.Address) (dex.PoolInfo, error) {
	if info, ok := r.pools.Get(addr); ok {
		return info, nil
	}

	var info dex.PoolInfo
	err := withRetry(ctx, r.cfg.RetryAttempts, r.cfg.RetryDelay, func() error {
		var err error
		info, err = dex.FetchPoolInfo(ctx, r.client, addr, r.tokens, r.logger)
		return err
	})
	if err != nil {
		return dex.PoolInfo{}, err
	}
	r.pools.Set(addr, info)
	return info, nil
}

func (r *Runner) recordFailure(lg types.Log, decodeErr error) {
	topic0 := ""
	if len(lg.Topics) > 0 {
		topic0 = lg.Topics[0].Hex()
	}
	failure := model.DecodeFailure{
		BlockNumber: lg.BlockNumber,
		TxHash:      lg.TxHash.Hex(),
		LogIndex:    uint64(lg.Index),
		Address:     lg.Address.Hex(),
		Topic0:      topic0,
		Error:       decodeErr.Error(),
	}
	r.logger.Warn("decode failure",
		zap.Uint64("block", failure.BlockNumber),
		zap.String("tx", failure.TxHash),
		zap.Uint64("log_index", failure.LogIndex),
		zap.String("error", failure.Error),
	)
	if err := r.failures.Append(failure); err != nil {
		r.logger.Warn("record decode failure", zap.Error(err))
	}
}
