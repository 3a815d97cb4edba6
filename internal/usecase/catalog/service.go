package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/minigallery/internal/domain"
	domcat "github.com/kailas-cloud/minigallery/internal/domain/catalog"
	"github.com/kailas-cloud/minigallery/internal/logger"
)

// Service caches the catalog snapshot and applies edits to it.
//
// A cached snapshot is served without touching the store for up to ttl.
// After that the stored revision is checked and the snapshot reloaded only
// when it moved. Writes made through the Service drop the cache at once.
type Service struct {
	repo Repository
	ttl  time.Duration
	now  func() time.Time

	mu        sync.Mutex
	snap      *domcat.Catalog
	checkedAt time.Time

	// writeMu serializes read-modify-write edits.
	writeMu sync.Mutex
}

// New creates a catalog service with no snapshot TTL.
func New(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithTTL sets how long a snapshot is trusted without a revision check.
func (s *Service) WithTTL(ttl time.Duration) *Service {
	if ttl > 0 {
		s.ttl = ttl
	}
	return s
}

// WithClock replaces the time source (edit dates, TTL).
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// Snapshot returns the current catalog.
func (s *Service) Snapshot(ctx context.Context) (*domcat.Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.snap != nil && s.ttl > 0 && now.Sub(s.checkedAt) < s.ttl {
		return s.snap, nil
	}
	if s.snap != nil {
		rev, err := s.repo.Revision(ctx)
		if err != nil {
			return nil, fmt.Errorf("check revision: %w", err)
		}
		if rev == s.snap.Revision() {
			s.checkedAt = now
			return s.snap, nil
		}
	}

	snap, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if unsafe := snap.Tree().Unsafe(); len(unsafe) > 0 {
		ids := make([]int64, len(unsafe))
		for i, id := range unsafe {
			ids[i] = int64(id)
		}
		logger.FromContext(ctx).Warn("Cyclic categories in catalog",
			zap.Int64s("category_ids", ids),
			zap.Int64("revision", snap.Revision()),
		)
	}
	s.snap = snap
	s.checkedAt = now
	return snap, nil
}

// Invalidate drops the cached snapshot.
func (s *Service) Invalidate() {
	s.mu.Lock()
	s.snap = nil
	s.mu.Unlock()
}

// Batch returns one batch resolved for presentation.
func (s *Service) Batch(ctx context.Context, id domcat.BatchID) (domcat.BatchView, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return domcat.BatchView{}, err
	}
	b, ok := snap.Batch(id)
	if !ok {
		return domcat.BatchView{}, fmt.Errorf("batch %d: %w", id, domain.ErrBatchNotFound)
	}
	return snap.View(b), nil
}
