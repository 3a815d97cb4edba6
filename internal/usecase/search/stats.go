package search

import (
	"fmt"

	"github.com/RoaringBitmap/roaring"

	"github.com/kailas-cloud/minigallery/internal/domain/catalog"
)

// Stats summarizes a result set against the whole collection.
type Stats struct {
	ResultBatches int
	ResultModels  int
	ResultPoints  int
	TotalBatches  int
	TotalModels   int
	BatchRatio    string
	ModelRatio    string
}

// ComputeStats reduces hits over c.
func ComputeStats(c *catalog.Catalog, hits *roaring.Bitmap) Stats {
	batches, models, points := c.Totals(hits)
	totalBatches, totalModels, _ := c.Totals(c.All())
	return Stats{
		ResultBatches: batches,
		ResultModels:  models,
		ResultPoints:  points,
		TotalBatches:  totalBatches,
		TotalModels:   totalModels,
		BatchRatio:    percent(batches, totalBatches),
		ModelRatio:    percent(models, totalModels),
	}
}

// percent formats part/total as "12.50%". A zero total yields "0.00%".
func percent(part, total int) string {
	if total == 0 {
		return "0.00%"
	}
	return fmt.Sprintf("%.2f%%", float64(part)/float64(total)*100)
}
