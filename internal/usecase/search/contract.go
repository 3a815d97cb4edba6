package search

import (
	"context"
	"time"

	"github.com/RoaringBitmap/roaring"

	"github.com/kailas-cloud/minigallery/internal/domain/catalog"
	"github.com/kailas-cloud/minigallery/internal/domain/category"
	"github.com/kailas-cloud/minigallery/internal/domain/stage"
	"github.com/kailas-cloud/minigallery/internal/domain/unittype"
)

// Source is the read surface classifiers resolve tokens against.
// Returned bitmaps are owned by the caller.
type Source interface {
	TagByName(name string) (catalog.Tag, bool)
	TaggedBatches(id catalog.TagID) *roaring.Bitmap
	Tree() *category.Tree
	BatchesInCategory(id category.ID) *roaring.Bitmap
	KitsByName(fragment string) []catalog.Kit
	BatchesOfKit(id catalog.KitID) *roaring.Bitmap
	BatchesOfStage(s stage.Stage) *roaring.Bitmap
	BatchesOfUnitType(t unittype.Type) *roaring.Bitmap
	HasUnitNamed(fragment string) bool
	BatchesWithUnitName(fragment string) *roaring.Bitmap
}

// Snapshotter provides the current catalog snapshot.
type Snapshotter interface {
	Snapshot(ctx context.Context) (*catalog.Catalog, error)
}

// Recorder observes resolved queries.
type Recorder interface {
	ObserveQuery(duration time.Duration, valid bool, hits int)
	ObserveToken(kind, outcome string)
}
