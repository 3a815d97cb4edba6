package health

import (
	"context"

	domcat "github.com/kailas-cloud/minigallery/internal/domain/catalog"
)

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// Snapshotter loads the catalog snapshot searches run against.
type Snapshotter interface {
	Snapshot(ctx context.Context) (*domcat.Catalog, error)
}
