package gallery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/minigallery/internal/db"
	"github.com/kailas-cloud/minigallery/internal/db/memory"
	dbRedis "github.com/kailas-cloud/minigallery/internal/db/redis"
	logpkg "github.com/kailas-cloud/minigallery/internal/logger"
	"github.com/kailas-cloud/minigallery/internal/metrics"
	catalogrepo "github.com/kailas-cloud/minigallery/internal/repository/catalog"
	cataloguc "github.com/kailas-cloud/minigallery/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/minigallery/internal/usecase/health"
	importuc "github.com/kailas-cloud/minigallery/internal/usecase/importer"
	searchuc "github.com/kailas-cloud/minigallery/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces, substituted in tests.
type searchUseCase interface {
	Search(ctx context.Context, query *string) (searchuc.Response, error)
}

type importUseCase interface {
	Import(ctx context.Context, r io.Reader, opts importuc.Options) (importuc.Report, error)
	ImportFile(ctx context.Context, path string, opts importuc.Options) (importuc.Report, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the minigallery SDK entry point.
type Client struct {
	store     db.Store
	searchSvc searchUseCase
	importSvc importUseCase
	healthSvc healthUseCase
	log       *zap.Logger
	obs       *observer
}

// New creates a Client and connects to the database.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.driver == "" {
		return nil, errors.New("gallery: storage required (use WithValkey, WithRedis or WithMemory)")
	}
	if cfg.driver != "memory" && len(cfg.addrs) == 0 {
		return nil, errors.New("gallery: database address required")
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("gallery: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}
	return wireClient(store, cfg, obs), nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "valkey", "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("gallery: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	case "memory":
		return memory.NewStore(), nil
	default:
		return nil, fmt.Errorf("gallery: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) *Client {
	repo := catalogrepo.New(store, cfg.keyPrefix)
	catalogSvc := cataloguc.New(repo).WithTTL(cfg.snapshotTTL)
	importSvc := importuc.New(repo).WithInvalidator(catalogSvc)

	searchSvc := searchuc.New(catalogSvc).WithMaxQueryLength(cfg.maxQueryLength)
	if cfg.metricsReg != nil {
		searchSvc = searchSvc.WithRecorder(metrics.NewSearch(cfg.metricsReg))
	}

	return &Client{
		store:     store,
		searchSvc: searchSvc,
		importSvc: importSvc,
		healthSvc: healthuc.New(store, catalogSvc),
		log:       cfg.zapLogger,
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// withLogger attaches the configured zap logger for the internal services.
func (c *Client) withLogger(ctx context.Context) context.Context {
	if c.log == nil {
		return ctx
	}
	return logpkg.ContextWithLogger(ctx, c.log)
}
