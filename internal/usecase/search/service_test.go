package search

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/minigallery/internal/domain/catalog"
)

func TestComputeStats(t *testing.T) {
	src := necronPair()
	res := Combine(src, []string{"elite"})
	st := ComputeStats(src, res.Hits)
	want := Stats{
		ResultBatches: 1, ResultModels: 10, ResultPoints: 120,
		TotalBatches: 2, TotalModels: 30,
		BatchRatio: "50.00%", ModelRatio: "33.33%",
	}
	if st != want {
		t.Errorf("stats = %+v, want %+v", st, want)
	}

	empty := catalog.New(catalog.Data{})
	st = ComputeStats(empty, empty.All())
	if st.BatchRatio != "0.00%" || st.ModelRatio != "0.00%" {
		t.Errorf("zero totals = %+v", st)
	}
}

func TestService_Search(t *testing.T) {
	rec := &mockRecorder{}
	svc := New(staticSnapshot(necronPair())).WithRecorder(rec)

	q := "necron painting"
	resp, err := svc.Search(context.Background(), &q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Valid || len(resp.Tokens) != 2 {
		t.Errorf("tokens = %v", resp.Tokens)
	}
	if len(resp.Batches) != 1 || resp.Batches[0].ID != 1 {
		t.Fatalf("batches = %+v", resp.Batches)
	}
	if resp.Batches[0].DisplayName != "Necron Warriors 1" || resp.Batches[0].StageName != "Painting" {
		t.Errorf("view = %+v", resp.Batches[0])
	}
	if resp.Stats.ResultModels != 10 {
		t.Errorf("stats = %+v", resp.Stats)
	}
	if rec.queries != 1 || len(rec.tokens) != 2 || rec.tokens[0] != "unit_name/hit" || rec.tokens[1] != "stage/hit" {
		t.Errorf("recorder = %+v", rec)
	}
}

func TestService_InvalidQueryReturnsEverything(t *testing.T) {
	svc := New(staticSnapshot(necronPair()))
	punct := " ?!> "
	for _, q := range []*string{nil, &punct} {
		resp, err := svc.Search(context.Background(), q)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Valid || len(resp.Batches) != 2 {
			t.Errorf("fallback = %+v", resp)
		}
		// Newest edit first.
		if resp.Batches[0].ID != 1 {
			t.Errorf("order = %d, %d", resp.Batches[0].ID, resp.Batches[1].ID)
		}
		if resp.Stats.BatchRatio != "100.00%" {
			t.Errorf("ratio = %s", resp.Stats.BatchRatio)
		}
	}
}

func TestService_MaxQueryLength(t *testing.T) {
	svc := New(staticSnapshot(necronPair())).WithMaxQueryLength(6)
	q := "necron painting"
	resp, err := svc.Search(context.Background(), &q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Tokens) != 1 || len(resp.Batches) != 2 {
		t.Errorf("tokens = %v, batches = %d", resp.Tokens, len(resp.Batches))
	}
}

func TestService_SnapshotError(t *testing.T) {
	svc := New(&mockSnapshotter{snapshotFn: func(_ context.Context) (*catalog.Catalog, error) {
		return nil, errors.New("connection lost")
	}})
	q := "necron"
	if _, err := svc.Search(context.Background(), &q); err == nil {
		t.Fatal("expected error")
	}
}

func TestService_NoMatchIsEmptyNotFallback(t *testing.T) {
	svc := New(staticSnapshot(necronPair()))
	q := "tyranids"
	resp, err := svc.Search(context.Background(), &q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Valid || len(resp.Batches) != 0 || resp.Stats.BatchRatio != "0.00%" {
		t.Errorf("resp = %+v", resp)
	}
}
