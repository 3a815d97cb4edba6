package gallery

import (
	"context"
	"io"
	"time"

	"github.com/kailas-cloud/minigallery/internal/domain/imports"
	importuc "github.com/kailas-cloud/minigallery/internal/usecase/importer"
)

// ImportItem is the outcome for one record of a collection file.
type ImportItem struct {
	Kind string // category, unit, kit, storage, batch, tag or assignment
	ID   string
	Err  error // nil when the record was written
}

// ImportReport summarizes one import run.
type ImportReport struct {
	RunID    string
	Revision int64
	Items    []ImportItem
}

// OK counts written records.
func (r ImportReport) OK() int {
	n := 0
	for _, it := range r.Items {
		if it.Err == nil {
			n++
		}
	}
	return n
}

// Failed counts rejected records.
func (r ImportReport) Failed() int { return len(r.Items) - r.OK() }

// Import loads a YAML collection document. Invalid records are reported per
// item and skipped; the error is reserved for unreadable documents and
// storage failures. With replace the stored catalog is cleared first.
func (c *Client) Import(ctx context.Context, r io.Reader, replace bool) (_ ImportReport, err error) {
	start := time.Now()
	defer func() { c.obs.observe("import", start, err) }()

	report, err := c.importSvc.Import(c.withLogger(ctx), r, importuc.Options{Replace: replace})
	if err != nil {
		return ImportReport{}, err
	}
	return fromImportReport(report), nil
}

// ImportFile is Import reading from path.
func (c *Client) ImportFile(ctx context.Context, path string, replace bool) (_ ImportReport, err error) {
	start := time.Now()
	defer func() { c.obs.observe("import_file", start, err) }()

	report, err := c.importSvc.ImportFile(c.withLogger(ctx), path, importuc.Options{Replace: replace})
	if err != nil {
		return ImportReport{}, err
	}
	return fromImportReport(report), nil
}

func fromImportReport(r importuc.Report) ImportReport {
	out := ImportReport{
		RunID:    r.RunID,
		Revision: r.Revision,
		Items:    make([]ImportItem, len(r.Results)),
	}
	for i, res := range r.Results {
		item := ImportItem{Kind: string(res.Kind()), ID: res.ID()}
		if res.Status() == imports.StatusError {
			item.Err = res.Err()
		}
		out.Items[i] = item
	}
	return out
}
