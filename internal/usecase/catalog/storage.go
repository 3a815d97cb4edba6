package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/minigallery/internal/domain"
	domcat "github.com/kailas-cloud/minigallery/internal/domain/catalog"
)

// StorageView is a container with its derived figures.
type StorageView struct {
	domcat.Storage
	CapacityName string
	StoredPoints int
	BatchCount   int
}

// StorageDetail is a container and the batches it holds, ordered by unit name.
type StorageDetail struct {
	StorageView
	Batches []domcat.BatchView
}

// Storages lists every container ordered by ID.
func (s *Service) Storages(ctx context.Context) ([]StorageView, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	all := snap.Storages()
	out := make([]StorageView, 0, len(all))
	for _, st := range all {
		out = append(out, viewStorage(snap, st))
	}
	return out, nil
}

// Storage returns one container with its contents.
func (s *Service) Storage(ctx context.Context, id string) (StorageDetail, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return StorageDetail{}, err
	}
	st, ok := snap.Storage(id)
	if !ok {
		return StorageDetail{}, fmt.Errorf("storage %q: %w", id, domain.ErrStorageNotFound)
	}
	return StorageDetail{
		StorageView: viewStorage(snap, st),
		Batches:     snap.Views(snap.BatchesInStorage(id)),
	}, nil
}

// MoveStorage relocates a container and stamps today's date on it.
func (s *Service) MoveStorage(ctx context.Context, id, location string) (StorageView, error) {
	if strings.TrimSpace(location) == "" {
		return StorageView{}, fmt.Errorf("%w: location is required", domain.ErrInvalidInput)
	}
	return s.editStorage(ctx, id, func(st domcat.Storage) (domcat.Storage, error) {
		return st.Move(location, s.now()), nil
	})
}

// AdjustCapacity marks a container one level fuller (+1) or emptier (-1).
// At either limit the container is left as is.
func (s *Service) AdjustCapacity(ctx context.Context, id string, delta int) (StorageView, error) {
	switch delta {
	case 1:
		return s.editStorage(ctx, id, domcat.Storage.Increment)
	case -1:
		return s.editStorage(ctx, id, domcat.Storage.Decrement)
	default:
		return StorageView{}, fmt.Errorf("%w: capacity delta must be +1 or -1, got %d", domain.ErrInvalidInput, delta)
	}
}

func (s *Service) editStorage(
	ctx context.Context, id string, edit func(domcat.Storage) (domcat.Storage, error),
) (StorageView, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return StorageView{}, err
	}
	st, ok := snap.Storage(id)
	if !ok {
		return StorageView{}, fmt.Errorf("storage %q: %w", id, domain.ErrStorageNotFound)
	}
	updated, err := edit(st)
	if err != nil {
		return StorageView{}, err
	}
	if updated == st {
		return viewStorage(snap, st), nil
	}
	if _, err := s.repo.SaveStorage(ctx, updated); err != nil {
		return StorageView{}, fmt.Errorf("save storage: %w", err)
	}
	s.Invalidate()
	return viewStorage(snap, updated), nil
}

func viewStorage(snap *domcat.Catalog, st domcat.Storage) StorageView {
	return StorageView{
		Storage:      st,
		CapacityName: st.Capacity.String(),
		StoredPoints: snap.StoredPoints(st.ID),
		BatchCount:   len(snap.BatchesInStorage(st.ID)),
	}
}
