package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/newsclip-dev/newsclip/internal/auth"
	"github.com/newsclip-dev/newsclip/internal/catalog"
	"github.com/newsclip-dev/newsclip/internal/config"
	"github.com/newsclip-dev/newsclip/internal/enrich"
	"github.com/newsclip-dev/newsclip/internal/httpserver"
	"github.com/newsclip-dev/newsclip/internal/httpserver/deps"
	"github.com/newsclip-dev/newsclip/internal/logger"
	"github.com/newsclip-dev/newsclip/internal/metrics"
	"github.com/newsclip-dev/newsclip/internal/redis"
	"github.com/newsclip-dev/newsclip/internal/scheduler"
	"github.com/newsclip-dev/newsclip/internal/store"
	"github.com/newsclip-dev/newsclip/internal/store/memory"
	redisstore "github.com/newsclip-dev/newsclip/internal/store/redis"
	"github.com/newsclip-dev/newsclip/internal/version"
	"github.com/newsclip-dev/newsclip/internal/watch"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	reloader    *scheduler.CatalogReloader
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	metrics.Init()

	// Pick the bookmark store backend
	var (
		bookmarks   store.Bookmarks
		redisClient *goredis.Client
	)
	switch cfg.StoreBackend {
	case "memory":
		loggerClient.Info("using in-memory bookmark store")
		bookmarks = memory.New()
	default:
		// Initialize Redis early - fail fast if unavailable
		loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.New(redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			RedisDB:        cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
		}, loggerClient)
		if err != nil {
			loggerClient.Errorf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		loggerClient.Info("Redis initialized successfully")
		redisClient = client
		bookmarks = redisstore.NewStore(client)
	}

	watcher := watch.New(bookmarks, loggerClient)

	// The static provider carries the configured default identity;
	// per-request external ids take precedence over it.
	authProvider := auth.NewStatic(cfg.DefaultUserID)

	// Initialize OpenGraph enrichment (if enabled)
	var enricher *enrich.Fetcher
	if cfg.EnrichEnabled {
		enricher = enrich.NewFetcher(cfg.EnrichTimeout, cfg.EnrichUserAgent, loggerClient)
		loggerClient.Info("metadata enrichment enabled",
			logger.Duration("timeout", cfg.EnrichTimeout))
	}

	// Initialize catalog reloader (if catalog file is configured)
	var (
		catalogIndex  *catalog.Index
		reloader      *scheduler.CatalogReloader
		reloadTrigger chan struct{}
	)
	if cfg.CatalogFile != "" {
		loggerClient.Info("catalog file configured, initializing catalog reloader",
			logger.String("file", cfg.CatalogFile))
		catalogIndex = catalog.NewIndex()
		reloadTrigger = make(chan struct{}, 1)
		reloader = scheduler.NewCatalogReloader(
			cfg.CatalogFile,
			catalogIndex,
			loggerClient,
			cfg.ReloadInterval,
			reloadTrigger,
		)
	} else {
		loggerClient.Info("catalog file not configured, article catalog disabled")
	}

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:          loggerClient,
		StartTime:       time.Now(),
		Version:         version.Version,
		Commit:          version.Commit,
		BuildDate:       version.BuildDate,
		GoVersion:       version.GoVersion,
		TimeNow:         time.Now,
		AllowedHosts:    cfg.AllowedHosts,
		TrustProxy:      cfg.TrustProxy,
		Store:           bookmarks,
		Watcher:         watcher,
		Auth:            authProvider,
		Catalog:         catalogIndex,
		Enricher:        enricher,
		ReloadTrigger:   reloadTrigger,
		RateLimitBurst:  cfg.RateLimitBurst,
		RateLimitPerMin: cfg.RateLimitPerMin,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		reloader:    reloader,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Newsclip v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Newsclip %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start catalog reloader (loads articles and starts periodic refresh)
	if a.reloader != nil {
		if err := a.reloader.Start(ctx); err != nil {
			return fmt.Errorf("failed to start catalog reloader: %w", err)
		}
		a.logger.Info("catalog reloader started",
			logger.Duration("interval", a.cfg.ReloadInterval))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	if a.reloader != nil {
		a.reloader.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ Newsclip stopped cleanly")
	return nil
}
