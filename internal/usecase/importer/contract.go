package importer

import (
	"context"

	domcat "github.com/kailas-cloud/minigallery/internal/domain/catalog"
)

// Repository is the catalog storage the importer reads references from and writes to.
type Repository interface {
	Load(ctx context.Context) (*domcat.Catalog, error)
	Write(ctx context.Context, d domcat.Data) (int64, error)
	Clear(ctx context.Context) error
}

// Invalidator drops cached snapshots after an import lands.
type Invalidator interface {
	Invalidate()
}
