package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/minigallery/internal/domain/catalog"
	"github.com/kailas-cloud/minigallery/internal/logger"
)

// Response is a resolved query ready for presentation.
type Response struct {
	Query   string
	Valid   bool
	Tokens  []string
	Terms   []Term
	Batches []catalog.BatchView
	Stats   Stats
}

// Service resolves free-text queries against the current catalog snapshot.
type Service struct {
	snapshots   Snapshotter
	recorder    Recorder
	classifiers []Classifier
	maxLength   int
}

// New creates a search service.
func New(snapshots Snapshotter) *Service {
	return &Service{snapshots: snapshots, classifiers: Classifiers(), maxLength: MaxQueryLength}
}

// WithRecorder attaches a query observer.
func (s *Service) WithRecorder(r Recorder) *Service {
	s.recorder = r
	return s
}

// WithMaxQueryLength overrides how many characters of a query are read.
func (s *Service) WithMaxQueryLength(n int) *Service {
	if n > 0 {
		s.maxLength = n
	}
	return s
}

// Search resolves query into sorted batches. A nil or punctuation-only query
// returns every batch. The only error is a failure to load the snapshot.
func (s *Service) Search(ctx context.Context, query *string) (Response, error) {
	start := time.Now()
	snap, err := s.snapshots.Snapshot(ctx)
	if err != nil {
		return Response{}, fmt.Errorf("load catalog: %w", err)
	}

	resp := Response{Tokens: []string{}, Terms: []Term{}}
	hits := snap.All()

	if IsValid(query) {
		resp.Query = *query
		resp.Valid = true
		resp.Tokens = tokenize(*query, s.maxLength)
		res := combine(snap, s.classifiers, resp.Tokens)
		hits = res.Hits
		resp.Terms = res.Terms
		s.observeSteps(res.Steps)
	}

	resp.Batches = snap.Views(snap.Sorted(hits))
	resp.Stats = ComputeStats(snap, hits)

	elapsed := time.Since(start)
	if s.recorder != nil {
		s.recorder.ObserveQuery(elapsed, resp.Valid, len(resp.Batches))
	}
	logger.FromContext(ctx).Debug("Search resolved",
		zap.String("query", resp.Query),
		zap.Bool("valid", resp.Valid),
		zap.Strings("tokens", resp.Tokens),
		zap.Int("terms", len(resp.Terms)),
		zap.Int("hits", len(resp.Batches)),
		zap.Int64("revision", snap.Revision()),
		zap.Duration("duration", elapsed),
	)
	return resp, nil
}

func (s *Service) observeSteps(steps []Step) {
	if s.recorder == nil {
		return
	}
	for _, st := range steps {
		kind := string(st.Term.Kind)
		if st.Outcome == Miss {
			kind = "none"
		}
		s.recorder.ObserveToken(kind, st.Outcome.String())
	}
}
