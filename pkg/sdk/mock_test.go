package gallery

import (
	"context"
	"io"

	healthuc "github.com/kailas-cloud/minigallery/internal/usecase/health"
	importuc "github.com/kailas-cloud/minigallery/internal/usecase/importer"
	searchuc "github.com/kailas-cloud/minigallery/internal/usecase/search"
)

type mockSearchUC struct {
	searchFn func(ctx context.Context, query *string) (searchuc.Response, error)
}

func (m *mockSearchUC) Search(ctx context.Context, query *string) (searchuc.Response, error) {
	return m.searchFn(ctx, query)
}

type mockImportUC struct {
	importFn     func(ctx context.Context, r io.Reader, opts importuc.Options) (importuc.Report, error)
	importFileFn func(ctx context.Context, path string, opts importuc.Options) (importuc.Report, error)
}

func (m *mockImportUC) Import(ctx context.Context, r io.Reader, opts importuc.Options) (importuc.Report, error) {
	return m.importFn(ctx, r, opts)
}

func (m *mockImportUC) ImportFile(ctx context.Context, path string, opts importuc.Options) (importuc.Report, error) {
	return m.importFileFn(ctx, path, opts)
}

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }
