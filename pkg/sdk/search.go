package gallery

import (
	"context"
	"time"

	domcat "github.com/kailas-cloud/minigallery/internal/domain/catalog"
	searchuc "github.com/kailas-cloud/minigallery/internal/usecase/search"
)

// Batch is one group of identical models with its references resolved.
type Batch struct {
	ID          uint32
	DisplayName string
	Unit        string
	UnitType    string
	Category    string // cascading, e.g. "Warhammer/Xenos/Necrons"
	Kit         string
	Stage       string
	Storage     string
	Count       int
	Points      int // unit points times count
	Note        string
	Edited      time.Time
	Tags        []string
}

// Term is a query token in its canonical form.
type Term struct {
	Kind  string // tag, category, stage, unit_type, unit_name or kit
	Label string
}

// Stats summarizes a result set against the whole collection.
type Stats struct {
	ResultBatches int
	ResultModels  int
	ResultPoints  int
	TotalBatches  int
	TotalModels   int
	BatchRatio    string // "42.50%"
	ModelRatio    string
}

// SearchResult is a resolved query.
type SearchResult struct {
	Query   string
	Valid   bool
	Tokens  []string
	Terms   []Term
	Batches []Batch
	Stats   Stats
}

// Search resolves a free-text query. An empty or punctuation-only query
// returns every batch.
func (c *Client) Search(ctx context.Context, query string) (_ SearchResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	resp, err := c.searchSvc.Search(c.withLogger(ctx), &query)
	if err != nil {
		return SearchResult{}, err
	}
	return fromSearchResponse(resp), nil
}

func fromSearchResponse(resp searchuc.Response) SearchResult {
	out := SearchResult{
		Query:   resp.Query,
		Valid:   resp.Valid,
		Tokens:  resp.Tokens,
		Terms:   make([]Term, len(resp.Terms)),
		Batches: make([]Batch, len(resp.Batches)),
		Stats: Stats{
			ResultBatches: resp.Stats.ResultBatches,
			ResultModels:  resp.Stats.ResultModels,
			ResultPoints:  resp.Stats.ResultPoints,
			TotalBatches:  resp.Stats.TotalBatches,
			TotalModels:   resp.Stats.TotalModels,
			BatchRatio:    resp.Stats.BatchRatio,
			ModelRatio:    resp.Stats.ModelRatio,
		},
	}
	for i, t := range resp.Terms {
		out.Terms[i] = Term{Kind: string(t.Kind), Label: t.Label}
	}
	for i, v := range resp.Batches {
		out.Batches[i] = fromBatchView(v)
	}
	return out
}

func fromBatchView(v domcat.BatchView) Batch {
	return Batch{
		ID:          uint32(v.ID),
		DisplayName: v.DisplayName,
		Unit:        v.UnitName,
		UnitType:    v.UnitType,
		Category:    v.CategoryName,
		Kit:         v.KitName,
		Stage:       v.StageName,
		Storage:     v.StorageID,
		Count:       v.Count,
		Points:      v.TotalPoints,
		Note:        v.Note,
		Edited:      v.EditDate,
		Tags:        v.Tags,
	}
}
