package cache

import (
	"context"

	"github.com/puzpuzpuz/xsync/v3"
)

// CreatedAtStore maps user IDs to the epoch-millisecond time this client
// first saw or created them.
type CreatedAtStore interface {
	// Get returns the timestamp recorded for id.
	// ok is false if nothing is recorded.
	Get(ctx context.Context, id int64) (ts int64, ok bool, err error)

	// Put records ts for id, replacing any previous value.
	Put(ctx context.Context, id int64, ts int64) error

	// Remove forgets id. Removing an unknown id is not an error.
	Remove(ctx context.Context, id int64) error
}

// MemoryCreatedAtStore is a process-local CreatedAtStore. Keys are spread
// over independently locked buckets, so unrelated IDs never contend.
type MemoryCreatedAtStore struct {
	m *xsync.MapOf[int64, int64]
}

// NewMemoryCreatedAtStore creates an empty in-memory store.
func NewMemoryCreatedAtStore() *MemoryCreatedAtStore {
	return &MemoryCreatedAtStore{m: xsync.NewMapOf[int64, int64]()}
}

// Get implements CreatedAtStore.
func (s *MemoryCreatedAtStore) Get(_ context.Context, id int64) (int64, bool, error) {
	ts, ok := s.m.Load(id)
	return ts, ok, nil
}

// Put implements CreatedAtStore.
func (s *MemoryCreatedAtStore) Put(_ context.Context, id int64, ts int64) error {
	s.m.Store(id, ts)
	return nil
}

// Remove implements CreatedAtStore.
func (s *MemoryCreatedAtStore) Remove(_ context.Context, id int64) error {
	s.m.Delete(id)
	return nil
}

// Len returns the number of recorded IDs.
func (s *MemoryCreatedAtStore) Len() int {
	return s.m.Size()
}
