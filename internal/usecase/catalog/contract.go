package catalog

import (
	"context"

	domcat "github.com/kailas-cloud/minigallery/internal/domain/catalog"
	"github.com/kailas-cloud/minigallery/internal/domain/category"
)

// Repository defines the storage contract for the catalog.
type Repository interface {
	Load(ctx context.Context) (*domcat.Catalog, error)
	Revision(ctx context.Context) (int64, error)
	SaveCategory(ctx context.Context, c category.Category) (int64, error)
	SaveBatch(ctx context.Context, b domcat.Batch) (int64, error)
	SaveStorage(ctx context.Context, s domcat.Storage) (int64, error)
}
