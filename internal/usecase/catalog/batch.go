package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/minigallery/internal/domain"
	domcat "github.com/kailas-cloud/minigallery/internal/domain/catalog"
	"github.com/kailas-cloud/minigallery/internal/domain/stage"
)

// BatchPatch holds the batch fields a caller may change. Nil fields are kept.
type BatchPatch struct {
	Stage     *stage.Stage
	StorageID *string
	Count     *int
	Note      *string
}

// IsEmpty reports whether the patch changes nothing.
func (p BatchPatch) IsEmpty() bool {
	return p.Stage == nil && p.StorageID == nil && p.Count == nil && p.Note == nil
}

// UpdateBatch applies patch. The edit date is refreshed when the stage,
// storage or count changes.
func (s *Service) UpdateBatch(ctx context.Context, id domcat.BatchID, patch BatchPatch) (domcat.BatchView, error) {
	if patch.IsEmpty() {
		return domcat.BatchView{}, fmt.Errorf("%w: empty patch", domain.ErrInvalidInput)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return domcat.BatchView{}, err
	}
	b, ok := snap.Batch(id)
	if !ok {
		return domcat.BatchView{}, fmt.Errorf("batch %d: %w", id, domain.ErrBatchNotFound)
	}

	before := b
	if patch.Stage != nil {
		if !patch.Stage.IsValid() {
			return domcat.BatchView{}, fmt.Errorf("%w: unknown stage %d", domain.ErrInvalidInput, int(*patch.Stage))
		}
		b.Stage = *patch.Stage
	}
	if patch.Count != nil {
		if *patch.Count < 1 {
			return domcat.BatchView{}, fmt.Errorf("%w: count must be positive", domain.ErrInvalidInput)
		}
		b.Count = *patch.Count
	}
	if patch.StorageID != nil {
		storageID := strings.TrimSpace(*patch.StorageID)
		if storageID != "" {
			if _, ok := snap.Storage(storageID); !ok {
				return domcat.BatchView{}, fmt.Errorf("storage %q: %w", storageID, domain.ErrStorageNotFound)
			}
		}
		b.StorageID = storageID
	}
	if patch.Note != nil {
		b.Note = strings.TrimSpace(*patch.Note)
	}
	// Only work on the models counts as an edit; notes do not.
	if b.Stage != before.Stage || b.Count != before.Count || b.StorageID != before.StorageID {
		b.EditDate = s.now().UTC().Truncate(time.Second)
	}

	if _, err := s.repo.SaveBatch(ctx, b); err != nil {
		return domcat.BatchView{}, fmt.Errorf("save batch: %w", err)
	}
	s.Invalidate()

	fresh, err := s.Snapshot(ctx)
	if err != nil {
		return domcat.BatchView{}, err
	}
	if stored, ok := fresh.Batch(id); ok {
		return fresh.View(stored), nil
	}
	return snap.View(b), nil
}
