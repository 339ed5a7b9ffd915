package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"AINewsAggregator/internal/api"
	"AINewsAggregator/internal/config"
	"AINewsAggregator/internal/infrastructure/feed"
	"AINewsAggregator/internal/infrastructure/ml"
	"AINewsAggregator/internal/infrastructure/storage"
	"AINewsAggregator/internal/logging"
	"AINewsAggregator/internal/metrics"
	"AINewsAggregator/internal/ports"
	"AINewsAggregator/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	store    ports.CacheStore
	pipeline *usecase.Pipeline
	server   *echo.Echo
}

// New builds a runnable application. A store that cannot be reached is
// replaced by a no-op one so the service still answers without a cache.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	sources := cfg.DomainSources()
	raw := openStore(ctx, cfg.Store, baseLogger.With("component", "storage"))
	if raw.Available() {
		metrics.StoreConnected.Set(1)
	} else {
		metrics.StoreConnected.Set(0)
	}
	store := storage.NewResilient(raw, sources, baseLogger.With("component", "storage"))

	feeds := feed.NewClient(cfg.Feeds, nil, baseLogger.With("component", "feed"))
	enricher := ml.NewEnricher(ml.NewClient(cfg.ML, nil), baseLogger.With("component", "enricher"))
	if cfg.ML.APIKey == "" {
		baseLogger.Warn("HF_API_KEY not set, inference calls are anonymous")
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Feeds:    feeds,
		Enricher: enricher,
		Store:    store,
		Logger:   baseLogger.With("component", "pipeline"),
	})

	driver := cfg.Store.Driver
	if driver == "" {
		driver = config.DriverMongo
	}
	server := api.NewServer(api.NewHandler(pipeline, store, driver), baseLogger.With("component", "http"))

	application := &Application{
		cfg:      cfg,
		logger:   baseLogger,
		store:    store,
		pipeline: pipeline,
		server:   server,
	}
	if err := application.Seed(ctx); err != nil {
		baseLogger.Warn("seed sources failed", "error", err)
	}
	return application
}

// Handler exposes the HTTP router.
func (a *Application) Handler() http.Handler {
	return a.server
}

// Serve listens on the configured port until ctx is cancelled.
func (a *Application) Serve(ctx context.Context) error {
	address := ":" + strconv.Itoa(a.cfg.Server.Port)
	a.logger.Info("starting http server", "address", address, "store", a.store.Name())

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := a.server.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down http server")
		timeout := a.cfg.Server.ShutdownTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// FetchOnce runs a single pipeline pass over the configured window.
func (a *Application) FetchOnce(ctx context.Context, refresh bool) (usecase.FetchResult, error) {
	return a.pipeline.Fetch(ctx, usecase.FetchRequest{HoursBack: a.cfg.Feeds.HoursBack, Refresh: refresh})
}

// Seed inserts configured sources that the store does not know yet.
func (a *Application) Seed(ctx context.Context) error {
	if !a.store.Available() {
		return nil
	}
	return a.store.SeedSources(ctx, a.cfg.DomainSources())
}

// StoreName reports the active cache backend.
func (a *Application) StoreName() string {
	return a.store.Name()
}

// Close releases the store connection.
func (a *Application) Close(ctx context.Context) error {
	return a.store.Close(ctx)
}

func openStore(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) ports.CacheStore {
	switch cfg.Driver {
	case config.DriverMongo, "":
		store, err := storage.ConnectMongo(ctx, cfg)
		if err != nil {
			logger.Warn("mongo unavailable, caching disabled", "error", err)
			return storage.NoopStore{}
		}
		logger.Info("connected to mongo", "database", cfg.MongoDatabase)
		return store
	case config.DriverPostgres:
		store, err := storage.ConnectPostgres(ctx, cfg.PostgresDSN, cfg.ConnectTimeout)
		if err != nil {
			logger.Warn("postgres unavailable, caching disabled", "error", err)
			return storage.NoopStore{}
		}
		logger.Info("connected to postgres")
		return store
	case config.DriverMemory:
		return storage.NewMemoryStore()
	case config.DriverNone:
		return storage.NoopStore{}
	default:
		logger.Warn("unknown store driver, caching disabled", "driver", cfg.Driver)
		return storage.NoopStore{}
	}
}
