package ingest

import (
	"context"

	"dexboard/internal/storage/postgres"
)

// DBStateStore keeps the checkpoint in the sync_state table, alongside the
// data it guards.
type DBStateStore struct {
	store *postgres.Store
	dexID int64
}

// NewDBStateStore returns a store scoped to one dex.
func NewDBStateStore(store *postgres.Store, dexID int64) *DBStateStore {
	return &DBStateStore{store: store, dexID: dexID}
}

func (s *DBStateStore) Load(ctx context.Context) (uint64, bool, error) {
	return s.store.LastSyncedBlock(ctx, s.dexID)
}

func (s *DBStateStore) Save(ctx context.Context, block uint64) error {
	return s.store.SaveSyncedBlock(ctx, s.dexID, block)
}
