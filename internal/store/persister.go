package store

import (
	"context"

	"github.com/typedrift/retype/internal/model"
)

// SnapshotPersister adapts the store to the session's Persister interface.
type SnapshotPersister struct {
	store *Store
}

// NewSnapshotPersister wraps a store for snapshot persistence.
func NewSnapshotPersister(s *Store) *SnapshotPersister {
	return &SnapshotPersister{store: s}
}

// Load returns the persisted snapshot, or nil when none exists.
func (p *SnapshotPersister) Load() (*model.Snapshot, error) {
	return p.store.LoadSnapshot(context.Background())
}

// Save overwrites the persisted snapshot.
func (p *SnapshotPersister) Save(snap model.Snapshot) error {
	return p.store.SaveSnapshot(context.Background(), snap)
}
