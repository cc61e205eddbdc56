// Package postgres persists dexes, pools and their operations.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dexboard/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS dexes (
    id   BIGINT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS pools (
    id               BIGSERIAL PRIMARY KEY,
    dex_id           BIGINT NOT NULL REFERENCES dexes (id),
    address          TEXT NOT NULL,
    token0           TEXT NOT NULL,
    token1           TEXT NOT NULL,
    token0_symbol    TEXT NOT NULL DEFAULT '',
    token1_symbol    TEXT NOT NULL DEFAULT '',
    token0_decimals  SMALLINT NOT NULL DEFAULT 0,
    token1_decimals  SMALLINT NOT NULL DEFAULT 0,
    fee              INTEGER NOT NULL DEFAULT 0,
    first_seen_block BIGINT NOT NULL DEFAULT 0,
    UNIQUE (dex_id, address)
);

CREATE TABLE IF NOT EXISTS operations (
    id             BIGSERIAL PRIMARY KEY,
    pool_id        BIGINT NOT NULL REFERENCES pools (id),
    operation_type TEXT,
    token_0_amount DOUBLE PRECISION NOT NULL,
    token_1_amount DOUBLE PRECISION NOT NULL,
    ts             BIGINT NOT NULL,
    block_number   BIGINT NOT NULL,
    tx_hash        TEXT NOT NULL,
    log_index      BIGINT NOT NULL,
    UNIQUE (tx_hash, log_index)
);

CREATE INDEX IF NOT EXISTS operations_ts_idx ON operations (ts);
CREATE INDEX IF NOT EXISTS operations_pool_ts_idx ON operations (pool_id, ts);

CREATE TABLE IF NOT EXISTS sync_state (
    dex_id     BIGINT PRIMARY KEY REFERENCES dexes (id),
    last_block BIGINT NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Store wraps a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to the database and verifies the connection.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the tables and indexes if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// UpsertDex inserts the dex or refreshes its name.
func (s *Store) UpsertDex(ctx context.Context, d model.Dex) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO dexes (id, name) VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`,
		d.ID, d.Name,
	)
	if err != nil {
		return fmt.Errorf("upsert dex %d: %w", d.ID, err)
	}
	return nil
}

// Dexes returns all registered dexes ordered by id.
func (s *Store) Dexes(ctx context.Context) ([]model.Dex, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name FROM dexes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query dexes: %w", err)
	}
	defer rows.Close()

	var dexes []model.Dex
	for rows.Next() {
		var d model.Dex
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, fmt.Errorf("scan dex: %w", err)
		}
		dexes = append(dexes, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read dexes: %w", err)
	}
	return dexes, nil
}

// UpsertPools inserts or refreshes pools for a dex and returns the storage id
// for each pool address.
func (s *Store) UpsertPools(ctx context.Context, dexID int64, pools []model.Pool) (map[string]int64, error) {
	ids := make(map[string]int64, len(pools))
	if len(pools) == 0 {
		return ids, nil
	}

	batch := &pgx.Batch{}
	for _, p := range pools {
		batch.Queue(
			`INSERT INTO pools (
			     dex_id, address, token0, token1,
			     token0_symbol, token1_symbol, token0_decimals, token1_decimals,
			     fee, first_seen_block
			 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			 ON CONFLICT (dex_id, address) DO UPDATE SET
			     token0 = EXCLUDED.token0,
			     token1 = EXCLUDED.token1,
			     token0_symbol = EXCLUDED.token0_symbol,
			     token1_symbol = EXCLUDED.token1_symbol,
			     token0_decimals = EXCLUDED.token0_decimals,
			     token1_decimals = EXCLUDED.token1_decimals,
			     fee = EXCLUDED.fee,
			     first_seen_block = LEAST(pools.first_seen_block, EXCLUDED.first_seen_block)
			 RETURNING id`,
			dexID, p.Address, p.Token0, p.Token1,
			p.Token0Symbol, p.Token1Symbol, int16(p.Token0Decimals), int16(p.Token1Decimals),
			int32(p.Fee), int64(p.FirstSeenBlock),
		)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()
	for _, p := range pools {
		var id int64
		if err := results.QueryRow().Scan(&id); err != nil {
			return nil, fmt.Errorf("upsert pool %s: %w", p.Address, err)
		}
		ids[p.Address] = id
	}
	return ids, nil
}

// Pools returns all pools ordered by dex and id.
func (s *Store) Pools(ctx context.Context) ([]model.Pool, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, dex_id, address, token0, token1,
		        token0_symbol, token1_symbol, token0_decimals, token1_decimals,
		        fee, first_seen_block
		 FROM pools ORDER BY dex_id, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query pools: %w", err)
	}
	defer rows.Close()

	var pools []model.Pool
	for rows.Next() {
		p, err := scanPool(rows)
		if err != nil {
			return nil, err
		}
		pools = append(pools, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read pools: %w", err)
	}
	return pools, nil
}

// InsertOperations stores decoded operations, resolving each pool by address.
// Duplicate (tx_hash, log_index) pairs are skipped. Returns the number of
// rows actually inserted.
func (s *Store) InsertOperations(ctx context.Context, dexID int64, ops []model.Operation) (int64, error) {
	if len(ops) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, op := range ops {
		if op.Pool == nil {
			return 0, fmt.Errorf("operation %s:%d has no pool", op.TxHash, op.LogIndex)
		}
		var opType *string
		if op.Type != nil {
			name := op.Type.Name
			opType = &name
		}
		batch.Queue(
			`INSERT INTO operations (
			     pool_id, operation_type, token_0_amount, token_1_amount,
			     ts, block_number, tx_hash, log_index
			 ) VALUES (
			     (SELECT id FROM pools WHERE dex_id = $1 AND address = $2),
			     $3, $4, $5, $6, $7, $8, $9
			 )
			 ON CONFLICT (tx_hash, log_index) DO NOTHING`,
			dexID, op.Pool.Address,
			opType, op.Token0Amount, op.Token1Amount,
			op.Timestamp, int64(op.BlockNumber), op.TxHash, int64(op.LogIndex),
		)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()
	var inserted int64
	for i := range ops {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("insert operation %s:%d: %w", ops[i].TxHash, ops[i].LogIndex, err)
		}
		inserted += tag.RowsAffected()
	}
	return inserted, nil
}

// OperationsSince returns operations with ts >= since in chronological order,
// each joined with its pool. Operations of the same pool share one Pool value.
func (s *Store) OperationsSince(ctx context.Context, since int64) ([]model.Operation, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT o.id, o.operation_type, o.token_0_amount, o.token_1_amount,
		        o.ts, o.block_number, o.tx_hash, o.log_index,
		        p.id, p.dex_id, p.address, p.token0, p.token1,
		        p.token0_symbol, p.token1_symbol, p.token0_decimals, p.token1_decimals,
		        p.fee, p.first_seen_block
		 FROM operations o
		 JOIN pools p ON p.id = o.pool_id
		 WHERE o.ts >= $1
		 ORDER BY o.ts, o.id`,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("query operations: %w", err)
	}
	defer rows.Close()

	poolsByID := make(map[int64]*model.Pool)
	var ops []model.Operation
	for rows.Next() {
		var (
			op          model.Operation
			opType      *string
			blockNumber int64
			logIndex    int64
			p           model.Pool
			decimals0   int16
			decimals1   int16
			fee         int32
			firstSeen   int64
		)
		err := rows.Scan(
			&op.ID, &opType, &op.Token0Amount, &op.Token1Amount,
			&op.Timestamp, &blockNumber, &op.TxHash, &logIndex,
			&p.ID, &p.DexID, &p.Address, &p.Token0, &p.Token1,
			&p.Token0Symbol, &p.Token1Symbol, &decimals0, &decimals1,
			&fee, &firstSeen,
		)
		if err != nil {
			return nil, fmt.Errorf("scan operation: %w", err)
		}
		op.BlockNumber = uint64(blockNumber)
		op.LogIndex = uint64(logIndex)
		if opType != nil {
			op.Type = &model.OperationType{Name: *opType}
		}

		pool, ok := poolsByID[p.ID]
		if !ok {
			p.Token0Decimals = uint8(decimals0)
			p.Token1Decimals = uint8(decimals1)
			p.Fee = uint32(fee)
			p.FirstSeenBlock = uint64(firstSeen)
			pool = &p
			poolsByID[p.ID] = pool
		}
		op.Pool = pool
		ops = append(ops, op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read operations: %w", err)
	}
	return ops, nil
}

// LastSyncedBlock returns the checkpoint for a dex, reporting whether one
// exists.
func (s *Store) LastSyncedBlock(ctx context.Context, dexID int64) (uint64, bool, error) {
	var block int64
	err := s.pool.QueryRow(ctx,
		`SELECT last_block FROM sync_state WHERE dex_id = $1`, dexID,
	).Scan(&block)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("load sync state for dex %d: %w", dexID, err)
	}
	return uint64(block), true, nil
}

// SaveSyncedBlock records the last fully processed block for a dex.
func (s *Store) SaveSyncedBlock(ctx context.Context, dexID int64, block uint64) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO sync_state (dex_id, last_block, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (dex_id) DO UPDATE SET
		     last_block = EXCLUDED.last_block,
		     updated_at = now()`,
		dexID, int64(block),
	)
	if err != nil {
		return fmt.Errorf("save sync state for dex %d: %w", dexID, err)
	}
	return nil
}

func scanPool(rows pgx.Rows) (model.Pool, error) {
	var (
		p         model.Pool
		decimals0 int16
		decimals1 int16
		fee       int32
		firstSeen int64
	)
	err := rows.Scan(
		&p.ID, &p.DexID, &p.Address, &p.Token0, &p.Token1,
		&p.Token0Symbol, &p.Token1Symbol, &decimals0, &decimals1,
		&fee, &firstSeen,
	)
	if err != nil {
		return model.Pool{}, fmt.Errorf("scan pool: %w", err)
	}
	p.Token0Decimals = uint8(decimals0)
	p.Token1Decimals = uint8(decimals1)
	p.Fee = uint32(fee)
	p.FirstSeenBlock = uint64(firstSeen)
	return p, nil
}
