package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/minigallery/internal/config"
	"github.com/kailas-cloud/minigallery/internal/db"
	"github.com/kailas-cloud/minigallery/internal/db/memory"
	dbRedis "github.com/kailas-cloud/minigallery/internal/db/redis"
	logpkg "github.com/kailas-cloud/minigallery/internal/logger"
	"github.com/kailas-cloud/minigallery/internal/metrics"
	catalogrepo "github.com/kailas-cloud/minigallery/internal/repository/catalog"
	chiTransport "github.com/kailas-cloud/minigallery/internal/transport/chi"
	cataloguc "github.com/kailas-cloud/minigallery/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/minigallery/internal/usecase/health"
	importuc "github.com/kailas-cloud/minigallery/internal/usecase/importer"
	searchuc "github.com/kailas-cloud/minigallery/internal/usecase/search"
	"github.com/kailas-cloud/minigallery/internal/version"
)

func main() {
	seedPath := flag.String("seed", "", "import a YAML collection file before serving")
	replace := flag.Bool("replace", false, "clear the stored catalog before seeding")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting minigallery API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := newStore(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := logpkg.ContextWithLogger(context.Background(), logger)
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Repositories and use cases
	repo := catalogrepo.New(store, cfg.Storage.KeyPrefix)
	catalogSvc := cataloguc.New(repo).WithTTL(cfg.SnapshotTTL())
	importSvc := importuc.New(repo).WithInvalidator(catalogSvc)
	searchSvc := searchuc.New(catalogSvc).
		WithRecorder(metrics.NewSearch(nil)).
		WithMaxQueryLength(cfg.Search.MaxQueryLength)
	healthSvc := healthuc.New(store, catalogSvc)

	// Seed: the flag wins over config.
	path, replaceSeed := cfg.Seed.Path, cfg.Seed.Replace
	if *seedPath != "" {
		path, replaceSeed = *seedPath, *replace
	}
	if path != "" {
		report, err := importSvc.ImportFile(ctx, path, importuc.Options{Replace: replaceSeed})
		if err != nil {
			logger.Fatal("Seed import failed", zap.String("path", path), zap.Error(err))
		}
		logger.Info("Seed imported",
			zap.String("path", path),
			zap.String("run_id", report.RunID),
			zap.Int("ok", report.OK()),
			zap.Int("failed", report.Failed()),
		)
	}

	if snap, err := catalogSvc.Snapshot(ctx); err == nil {
		logger.Info("Catalog loaded",
			zap.Int("batches", snap.Len()),
			zap.Int("categories", snap.Tree().Len()),
			zap.Int64("revision", snap.Revision()),
		)
	} else {
		logger.Warn("Catalog not loaded yet", zap.Error(err))
	}

	// Create chi server
	server := chiTransport.NewServer(searchSvc, catalogSvc, importSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// newStore creates the database store for the configured driver.
func newStore(cfg config.DatabaseConfig) (db.Store, error) {
	switch cfg.Driver {
	case "valkey", "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Password: cfg.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("%s store: %w", cfg.Driver, err)
		}
		return s, nil
	case "memory":
		return memory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.ErrorCodeInternalError,
						Message: "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// One line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("query", r.URL.RawQuery),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
