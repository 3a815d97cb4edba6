// Package importer loads a YAML collection file into the catalog store.
package importer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domcat "github.com/kailas-cloud/minigallery/internal/domain/catalog"
	"github.com/kailas-cloud/minigallery/internal/domain/imports"
	"github.com/kailas-cloud/minigallery/internal/logger"
)

// Options control a single import run.
type Options struct {
	// Replace clears the stored catalog first. References are then checked
	// against the file alone.
	Replace bool
}

// Report is the outcome of an import run.
type Report struct {
	RunID    string
	Results  []imports.Result
	Revision int64
}

// OK counts items that were written.
func (r Report) OK() int { return r.count(imports.StatusOK) }

// Failed counts items that were rejected or could not be written.
func (r Report) Failed() int { return r.count(imports.StatusError) }

func (r Report) count(st imports.ItemStatus) int {
	n := 0
	for _, res := range r.Results {
		if res.Status() == st {
			n++
		}
	}
	return n
}

// Service validates collection files item by item and writes the valid ones.
type Service struct {
	repo Repository
	inv  Invalidator
	now  func() time.Time
}

// New creates an import service.
func New(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithInvalidator registers the snapshot cache to drop after writing.
func (s *Service) WithInvalidator(inv Invalidator) *Service {
	s.inv = inv
	return s
}

// WithClock replaces the time source used for missing edit dates.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// ImportFile imports the collection stored at path.
func (s *Service) ImportFile(ctx context.Context, path string, opts Options) (Report, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return Report{}, fmt.Errorf("open collection %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return s.Import(ctx, f, opts)
}

// Import parses a collection document and writes every valid item in one
// round-trip. Invalid items are reported and skipped. A write failure marks
// every otherwise valid item as failed; the error return is reserved for
// unreadable documents and store failures before writing.
func (s *Service) Import(ctx context.Context, r io.Reader, opts Options) (Report, error) {
	file, err := Parse(r)
	if err != nil {
		return Report{}, err
	}

	current := domcat.New(domcat.Data{})
	if !opts.Replace {
		if current, err = s.repo.Load(ctx); err != nil {
			return Report{}, fmt.Errorf("load catalog: %w", err)
		}
	}

	p := newPlan(current, s.now().UTC().Truncate(time.Second))
	p.addCategories(file.Categories)
	p.addUnits(file.Units)
	p.addKits(file.Kits)
	p.addStorage(file.Storage)
	p.addBatches(file.Batches)
	p.addTags(file.Tags)

	report := Report{RunID: uuid.NewString(), Results: p.results}
	ctx = logger.With(ctx, zap.String("run_id", report.RunID))
	log := logger.FromContext(ctx)

	if opts.Replace {
		if err := s.repo.Clear(ctx); err != nil {
			return Report{}, fmt.Errorf("clear catalog: %w", err)
		}
		s.invalidate()
	}

	rev, err := s.repo.Write(ctx, p.data)
	if err != nil {
		log.Error("import write failed", zap.Error(err))
		for i, res := range report.Results {
			if res.Status() == imports.StatusOK {
				report.Results[i] = imports.NewError(res.Kind(), res.ID(), fmt.Errorf("write: %w", err))
			}
		}
		return report, nil
	}
	s.invalidate()
	report.Revision = rev

	log.Info("import finished",
		zap.Int("ok", report.OK()),
		zap.Int("failed", report.Failed()),
		zap.Int64("revision", rev),
		zap.Bool("replace", opts.Replace),
	)
	for _, res := range report.Results {
		if res.Status() == imports.StatusError {
			log.Debug("import item rejected", zap.Stringer("item", res))
		}
	}
	return report, nil
}

func (s *Service) invalidate() {
	if s.inv != nil {
		s.inv.Invalidate()
	}
}
