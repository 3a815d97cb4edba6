package catalog

import (
	"context"
	"time"

	domcat "github.com/kailas-cloud/minigallery/internal/domain/catalog"
	"github.com/kailas-cloud/minigallery/internal/domain/category"
	"github.com/kailas-cloud/minigallery/internal/domain/stage"
	"github.com/kailas-cloud/minigallery/internal/domain/unittype"
)

// mockRepo keeps catalog data in memory and counts store round-trips.
type mockRepo struct {
	data          domcat.Data
	rev           int64
	loads         int
	revisionCalls int
	loadErr       error
	saveErr       error
	saves         int
}

func (m *mockRepo) Load(_ context.Context) (*domcat.Catalog, error) {
	m.loads++
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	d := m.data
	d.Revision = m.rev
	return domcat.New(d), nil
}

func (m *mockRepo) Revision(_ context.Context) (int64, error) {
	m.revisionCalls++
	return m.rev, nil
}

func (m *mockRepo) SaveCategory(_ context.Context, c category.Category) (int64, error) {
	if m.saveErr != nil {
		return 0, m.saveErr
	}
	for i := range m.data.Categories {
		if m.data.Categories[i].ID() == c.ID() {
			m.data.Categories[i] = c
		}
	}
	return m.bump(), nil
}

func (m *mockRepo) SaveBatch(_ context.Context, b domcat.Batch) (int64, error) {
	if m.saveErr != nil {
		return 0, m.saveErr
	}
	for i := range m.data.Batches {
		if m.data.Batches[i].ID == b.ID {
			m.data.Batches[i] = b
		}
	}
	return m.bump(), nil
}

func (m *mockRepo) SaveStorage(_ context.Context, s domcat.Storage) (int64, error) {
	if m.saveErr != nil {
		return 0, m.saveErr
	}
	for i := range m.data.Storage {
		if m.data.Storage[i].ID == s.ID {
			m.data.Storage[i] = s
		}
	}
	return m.bump(), nil
}

func (m *mockRepo) bump() int64 {
	m.saves++
	m.rev++
	return m.rev
}

// fakeClock is a settable time source.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func parentID(id category.ID) *category.ID { return &id }

func newTestRepo() *mockRepo {
	return &mockRepo{
		rev: 1,
		data: domcat.Data{
			Categories: []category.Category{
				category.Reconstruct(1, "Xenos", nil),
				category.Reconstruct(2, "Necrons", parentID(1)),
				category.Reconstruct(3, "Canoptek", parentID(2)),
				category.Reconstruct(4, "Imperium", nil),
			},
			Units: []domcat.Unit{
				{ID: 10, Name: "Necron Warriors", CategoryID: 2, Points: 12, Type: unittype.Infantry},
				{ID: 11, Name: "Scarab Swarms", CategoryID: 3, Points: 15, Type: unittype.Horde},
			},
			Storage: []domcat.Storage{
				{ID: "A1", Location: "Closet", Capacity: domcat.CapacityHalfFull},
				{ID: "B2", Location: "Shelf", Capacity: domcat.CapacityFull},
			},
			Batches: []domcat.Batch{
				{ID: 1, UnitID: 10, StorageID: "A1", Count: 10, Stage: stage.Painting},
				{ID: 2, UnitID: 11, StorageID: "A1", Count: 3, Stage: stage.Unopened},
			},
		},
	}
}
