package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/cvrguide"
	"github.com/aretw0/cvrguide/internal/adapters/file"
	"github.com/aretw0/cvrguide/internal/config"
	cvrhttp "github.com/aretw0/cvrguide/pkg/adapters/http"
	"github.com/aretw0/cvrguide/pkg/adapters/memory"
	"github.com/aretw0/cvrguide/pkg/adapters/redis"
	"github.com/aretw0/cvrguide/pkg/catalog"
	"github.com/aretw0/cvrguide/pkg/domain"
	"github.com/aretw0/cvrguide/pkg/observability"
	"github.com/aretw0/cvrguide/pkg/persistence/middleware"
	"github.com/aretw0/cvrguide/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// App bundles an engine with the infrastructure it was built on.
type App struct {
	Engine  *cvrguide.Engine
	Catalog *catalog.Catalog
	Store   ports.SessionStore

	// Metrics and Streams are nil unless requested.
	Metrics *observability.Metrics
	Streams *cvrhttp.StreamManager

	redis *redis.Store
}

type buildOptions struct {
	registry prometheus.Registerer
	streams  bool
	audit    bool
}

// BuildOption selects the optional parts of an App.
type BuildOption func(*buildOptions)

// WithMetrics registers turn and workflow counters on reg.
func WithMetrics(reg prometheus.Registerer) BuildOption {
	return func(o *buildOptions) {
		o.registry = reg
	}
}

// WithStreams publishes state diffs for the HTTP /events endpoint.
func WithStreams() BuildOption {
	return func(o *buildOptions) {
		o.streams = true
	}
}

// WithAuditLog logs every turn at info level.
func WithAuditLog() BuildOption {
	return func(o *buildOptions) {
		o.audit = true
	}
}

// Build creates the engine described by cfg.
func Build(cfg *config.Config, logger *slog.Logger, opts ...BuildOption) (*App, error) {
	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}

	cat, err := loadCatalog(cfg.CatalogFile)
	if err != nil {
		return nil, err
	}

	app := &App{Catalog: cat}
	engineOpts := []cvrguide.Option{
		cvrguide.WithCatalog(cat),
		cvrguide.WithLogger(logger),
		cvrguide.WithMaxInputSize(cfg.MaxInputSize),
	}

	switch cfg.Store {
	case config.StoreRedis:
		app.redis = redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithTTL(cfg.SessionTTL),
			redis.WithPrefix(cfg.Redis.Prefix),
		)
		app.Store = app.redis
		if cfg.DistributedLock {
			locker := redis.NewLocker(app.redis.Client(), cfg.Redis.Prefix)
			engineOpts = append(engineOpts, cvrguide.WithLocker(locker, cfg.LockTTL))
		}
	case config.StoreFile:
		app.Store = file.New(cfg.SessionDir)
	default:
		app.Store = memory.NewStore(memory.WithTTL(cfg.SessionTTL))
	}

	mws := []middleware.Middleware{middleware.NewLoggingMiddleware(logger)}
	if o.registry != nil {
		mws = append(mws, middleware.NewMetricsMiddleware(o.registry))
	}
	app.Store = middleware.Chain(app.Store, mws...)
	engineOpts = append(engineOpts, cvrguide.WithStore(app.Store))

	var hooks domain.LifecycleHooks
	if o.audit {
		hooks = hooks.Merge(observability.LogHooks(logger))
	}
	if o.registry != nil {
		app.Metrics = observability.NewMetrics(o.registry)
		hooks = hooks.Merge(app.Metrics.Hooks())
	}
	if o.streams {
		app.Streams = cvrhttp.NewStreamManager(logger)
		hooks = hooks.Merge(app.Streams.Hooks())
	}
	engineOpts = append(engineOpts, cvrguide.WithLifecycleHooks(hooks))

	engine, err := cvrguide.New(engineOpts...)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	app.Engine = engine

	logger.Debug("Engine ready",
		"store", cfg.Store,
		"catalog", catalogSource(cfg.CatalogFile),
		"services", len(cat.Services()),
		"distributed_lock", cfg.DistributedLock,
	)
	return app, nil
}

// Ping checks the session backend. Only Redis has anything to check.
func (a *App) Ping(ctx context.Context) error {
	if a.redis == nil {
		return nil
	}
	return a.redis.Ping(ctx)
}

func (a *App) Close() error {
	if a.redis == nil {
		return nil
	}
	return a.redis.Close()
}

// OpenStore opens only the session store, for the session maintenance commands.
func OpenStore(cfg *config.Config) (ports.SessionStore, func() error, error) {
	switch cfg.Store {
	case config.StoreRedis:
		s := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithTTL(cfg.SessionTTL),
			redis.WithPrefix(cfg.Redis.Prefix),
		)
		return s, s.Close, nil
	case config.StoreFile:
		return file.New(cfg.SessionDir), noClose, nil
	case config.StoreMemory:
		return nil, nil, errors.New("the memory store does not outlive the process; use --store file or --store redis")
	default:
		return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

func noClose() error { return nil }

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	c, err := catalog.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

func catalogSource(path string) string {
	if path == "" {
		return "embedded"
	}
	return path
}
