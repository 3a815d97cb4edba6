package search

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/RoaringBitmap/roaring"

	"github.com/kailas-cloud/minigallery/internal/domain/catalog"
	"github.com/kailas-cloud/minigallery/internal/domain/category"
	"github.com/kailas-cloud/minigallery/internal/domain/stage"
	"github.com/kailas-cloud/minigallery/internal/domain/unittype"
)

func day(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

func catID(id category.ID) *category.ID { return &id }

// necronPair is the two-batch collection used by the end-to-end examples:
// batch 1 is painted and tagged elite, batch 2 is unopened and untagged.
func necronPair() *catalog.Catalog {
	return catalog.New(catalog.Data{
		Units: []catalog.Unit{
			{ID: 1, Name: "Necron Warriors", Points: 12, Type: unittype.Infantry},
		},
		Batches: []catalog.Batch{
			{ID: 1, UnitID: 1, Count: 10, Stage: stage.Painting, EditDate: day(2)},
			{ID: 2, UnitID: 1, Count: 20, Stage: stage.Unopened, EditDate: day(1)},
		},
		Tags:        []catalog.Tag{{ID: 1, Name: "elite"}},
		Assignments: []catalog.Assignment{{TagID: 1, BatchID: 1}},
	})
}

// gallery is a broader collection:
//
//	1 Xenos ── 2 Necrons
//	       └── 3 Tyranids
//	4 Imperium ── 5 Space Marines
//	6 Broken (parent 7) ── 7 Loop (parent 6)
func gallery() *catalog.Catalog {
	return catalog.New(catalog.Data{
		Categories: []category.Category{
			category.Reconstruct(1, "Xenos", nil),
			category.Reconstruct(2, "Necrons", catID(1)),
			category.Reconstruct(3, "Tyranids", catID(1)),
			category.Reconstruct(4, "Imperium", nil),
			category.Reconstruct(5, "Space Marines", catID(4)),
			category.Reconstruct(6, "Broken", catID(7)),
			category.Reconstruct(7, "Loop", catID(6)),
		},
		Units: []catalog.Unit{
			{ID: 10, Name: "Necron Warriors", CategoryID: 2, Points: 12, Type: unittype.Infantry},
			{ID: 11, Name: "Overlord", CategoryID: 2, Points: 85, Type: unittype.Character},
			{ID: 12, Name: "Hormagaunts", CategoryID: 3, Points: 7, Type: unittype.Horde},
			{ID: 13, Name: "Land Raider", CategoryID: 5, Points: 240, Type: unittype.Vehicle},
			{ID: 14, Name: "Intercessors", CategoryID: 5, Points: 20, Type: unittype.Infantry},
			{ID: 15, Name: "Glitch", CategoryID: 7, Points: 1, Type: unittype.Display},
			{ID: 16, Name: "Imperial Knight", CategoryID: 4, Points: 400, Type: unittype.Titan},
		},
		Kits: []catalog.Kit{
			{ID: 100, Name: "Indomitus", Count: 1},
			{ID: 101, Name: "Combat Patrol: Necrons", Count: 1},
			{ID: 102, Name: "Combat Patrol: Tyranids", Count: 1},
		},
		Batches: []catalog.Batch{
			{ID: 1, UnitID: 10, KitID: 100, Count: 20, Stage: stage.Painting, EditDate: day(10)},
			{ID: 2, UnitID: 10, KitID: 101, Count: 10, Stage: stage.Unopened, EditDate: day(9)},
			{ID: 3, UnitID: 11, KitID: 101, Count: 1, Stage: stage.Completed, EditDate: day(8)},
			{ID: 4, UnitID: 12, KitID: 102, Count: 10, Stage: stage.Building, EditDate: day(7)},
			{ID: 5, UnitID: 13, Count: 1, Stage: stage.Painting, EditDate: day(6)},
			{ID: 6, UnitID: 14, KitID: 100, Count: 10, Stage: stage.Priming, EditDate: day(5)},
			{ID: 7, UnitID: 15, Count: 1, Stage: stage.Painting, EditDate: day(4)},
		},
		Tags: []catalog.Tag{{ID: 1, Name: "elite"}, {ID: 2, Name: "Xenos"}, {ID: 3, Name: "unused"}},
		Assignments: []catalog.Assignment{
			{TagID: 1, BatchID: 1},
			{TagID: 1, BatchID: 5},
			{TagID: 2, BatchID: 4},
		},
	})
}

func ids(bm *roaring.Bitmap) []uint32 {
	if bm == nil {
		return nil
	}
	return bm.ToArray()
}

func assertIDs(t *testing.T, label string, bm *roaring.Bitmap, want ...uint32) {
	t.Helper()
	got := ids(bm)
	sort.Slice(want, func(i, j int) bool { return want[i] < want[j] })
	if len(got) != len(want) {
		t.Errorf("%s = %v, want %v", label, got, want)
		return
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("%s = %v, want %v", label, got, want)
			return
		}
	}
}

// mockSnapshotter implements Snapshotter for tests.
type mockSnapshotter struct {
	snapshotFn func(ctx context.Context) (*catalog.Catalog, error)
}

func (m *mockSnapshotter) Snapshot(ctx context.Context) (*catalog.Catalog, error) {
	return m.snapshotFn(ctx)
}

func staticSnapshot(c *catalog.Catalog) *mockSnapshotter {
	return &mockSnapshotter{snapshotFn: func(_ context.Context) (*catalog.Catalog, error) { return c, nil }}
}

// mockRecorder implements Recorder for tests.
type mockRecorder struct {
	queries int
	valid   []bool
	tokens  []string
}

func (m *mockRecorder) ObserveQuery(_ time.Duration, valid bool, _ int) {
	m.queries++
	m.valid = append(m.valid, valid)
}

func (m *mockRecorder) ObserveToken(kind, outcome string) {
	m.tokens = append(m.tokens, kind+"/"+outcome)
}
