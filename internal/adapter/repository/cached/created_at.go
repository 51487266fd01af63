package cached

import (
	"context"
	"fmt"

	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"gorest-users/internal/adapter/cache"
)

// CreatedAtStore implements cache.CreatedAtStore with an in-memory front
// tier over a durable back tier (database or Redis).
type CreatedAtStore struct {
	front cache.CreatedAtStore
	back  cache.CreatedAtStore
	log   *zap.Logger
	group singleflight.Group

	// removed holds ids whose back-tier removal failed. They read as misses
	// until a later Put or a successful back-tier Remove.
	removed *xsync.MapOf[int64, struct{}]
}

// NewCreatedAtStore creates a new tiered store. If back is nil the front
// store is used alone.
func NewCreatedAtStore(front, back cache.CreatedAtStore, log *zap.Logger) *CreatedAtStore {
	return &CreatedAtStore{
		front:   front,
		back:    back,
		log:     log,
		removed: xsync.NewMapOf[int64, struct{}](),
	}
}

type lookup struct {
	ts int64
	ok bool
}

// Get reads the front tier first and falls back to the back tier, populating
// the front tier on a back-tier hit.
func (s *CreatedAtStore) Get(ctx context.Context, id int64) (int64, bool, error) {
	ts, ok, err := s.front.Get(ctx, id)
	if err != nil {
		s.log.Warn("front store get error, falling back to back store", zap.Int64("id", id), zap.Error(err))
	} else if ok {
		return ts, true, nil
	}

	if s.back == nil {
		return 0, false, nil
	}
	if _, gone := s.removed.Load(id); gone {
		return 0, false, nil
	}

	// Front miss - use single-flight so concurrent misses hit the back store once
	key := fmt.Sprintf("created_at:%d", id)
	result, err, _ := s.group.Do(key, func() (any, error) {
		// Double-check front in case another caller populated it while we were waiting
		if ts, ok, err := s.front.Get(ctx, id); err == nil && ok {
			return lookup{ts: ts, ok: true}, nil
		}

		ts, ok, err := s.back.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if _, gone := s.removed.Load(id); gone {
			return lookup{}, nil
		}
		if ok {
			if err := s.front.Put(ctx, id, ts); err != nil {
				s.log.Warn("failed to populate front store", zap.Int64("id", id), zap.Error(err))
			}
		}
		return lookup{ts: ts, ok: ok}, nil
	})
	if err != nil {
		return 0, false, err
	}

	l := result.(lookup)
	return l.ts, l.ok, nil
}

// Put writes both tiers. Back-tier failures are logged and tolerated.
func (s *CreatedAtStore) Put(ctx context.Context, id int64, ts int64) error {
	if err := s.front.Put(ctx, id, ts); err != nil {
		return err
	}
	s.removed.Delete(id)

	if s.back != nil {
		if err := s.back.Put(ctx, id, ts); err != nil {
			s.log.Warn("failed to persist creation time", zap.Int64("id", id), zap.Error(err))
		}
	}
	return nil
}

// Remove deletes from both tiers. A back-tier failure is logged and the id
// is remembered as removed, so the stale back-tier row is never served.
func (s *CreatedAtStore) Remove(ctx context.Context, id int64) error {
	if s.back != nil {
		s.removed.Store(id, struct{}{})
	}
	if err := s.front.Remove(ctx, id); err != nil {
		return err
	}

	if s.back != nil {
		if err := s.back.Remove(ctx, id); err != nil {
			s.log.Warn("failed to remove persisted creation time", zap.Int64("id", id), zap.Error(err))
			return nil
		}
		s.removed.Delete(id)
	}
	return nil
}
