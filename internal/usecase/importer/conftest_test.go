package importer

import (
	"context"
	"time"

	"go.uber.org/zap"

	domcat "github.com/kailas-cloud/minigallery/internal/domain/catalog"
	"github.com/kailas-cloud/minigallery/internal/domain/category"
	"github.com/kailas-cloud/minigallery/internal/logger"
)

type mockRepo struct {
	stored   domcat.Data
	written  []domcat.Data
	rev      int64
	loads    int
	clears   int
	loadErr  error
	writeErr error
	clearErr error
	// writeLog is the logger found in the context passed to Write.
	writeLog *zap.Logger
}

func (m *mockRepo) Load(_ context.Context) (*domcat.Catalog, error) {
	m.loads++
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	d := m.stored
	d.Revision = m.rev
	return domcat.New(d), nil
}

func (m *mockRepo) Write(ctx context.Context, d domcat.Data) (int64, error) {
	m.writeLog = logger.FromContext(ctx)
	if m.writeErr != nil {
		return 0, m.writeErr
	}
	m.written = append(m.written, d)
	m.rev++
	return m.rev, nil
}

func (m *mockRepo) Clear(_ context.Context) error {
	if m.clearErr != nil {
		return m.clearErr
	}
	m.clears++
	m.stored = domcat.Data{}
	m.rev++
	return nil
}

func (m *mockRepo) last() domcat.Data {
	if len(m.written) == 0 {
		return domcat.Data{}
	}
	return m.written[len(m.written)-1]
}

type mockInvalidator struct{ calls int }

func (m *mockInvalidator) Invalidate() { m.calls++ }

var fixedNow = time.Date(2024, 3, 9, 12, 30, 0, 0, time.UTC)

func newTestService(repo *mockRepo) (*Service, *mockInvalidator) {
	inv := &mockInvalidator{}
	return New(repo).WithInvalidator(inv).WithClock(func() time.Time { return fixedNow }), inv
}

func ptr(id category.ID) *category.ID { return &id }

const collection = `
categories:
  - {id: 1, name: Xenos}
  - {id: 2, name: Necrons, parent: 1}
units:
  - {id: 10, name: Necron Warriors, category: 2, points: 12}
  - {id: 11, name: Monolith, category: 2, points: 400, type: titan}
kits:
  - {id: 100, name: Necron Warriors, count: 2, acquired: 2023-05-01}
storage:
  - {id: B2, location: Shelf, capacity: Half Full, last_moved: 2024-01-02}
batches:
  - {id: 1, unit: 10, kit: 100, storage: B2, count: 20, stage: painting, note: " squad "}
  - {id: 2, unit: 11, edited: "2024-02-01T10:00:00Z"}
tags:
  - {id: 7, name: elite, batches: [1, 2, 1]}
`
