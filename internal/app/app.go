package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/samijoehayek/opus-oakadmin/internal/catalog"
	"github.com/samijoehayek/opus-oakadmin/internal/config"
	"github.com/samijoehayek/opus-oakadmin/internal/domain"
	"github.com/samijoehayek/opus-oakadmin/internal/event"
	handler "github.com/samijoehayek/opus-oakadmin/internal/handler/http"
	"github.com/samijoehayek/opus-oakadmin/internal/repository"
	"github.com/samijoehayek/opus-oakadmin/internal/repository/memory"
	redisrepo "github.com/samijoehayek/opus-oakadmin/internal/repository/redis"
	"github.com/samijoehayek/opus-oakadmin/internal/service"
	"github.com/samijoehayek/opus-oakadmin/internal/upload"
	"github.com/samijoehayek/opus-oakadmin/pkg/database"
	"github.com/samijoehayek/opus-oakadmin/pkg/health"
	"github.com/samijoehayek/opus-oakadmin/pkg/httpclient"
	pkgkafka "github.com/samijoehayek/opus-oakadmin/pkg/kafka"
	"github.com/samijoehayek/opus-oakadmin/pkg/middleware"
	"github.com/samijoehayek/opus-oakadmin/pkg/tracing"
)

const (
	sweepInterval     = time.Minute
	slowRedisOpCutoff = 100 * time.Millisecond
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

// App wires together all dependencies and runs the admin service.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	rdb        *redis.Client
	sweeper    *memory.SessionRepository
	producer   *pkgkafka.Producer
	httpServer *http.Server

	shutdownTracer func(context.Context) error
	stopBackground context.CancelFunc
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	shutdownTracer, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    handler.ServiceName,
		ServiceVersion: Version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	a := &App{
		cfg:            cfg,
		logger:         logger,
		shutdownTracer: shutdownTracer,
	}
	healthHandler := health.NewHandler()

	// Session store.
	var (
		sessions repository.SessionRepository
		locks    repository.UploadLocks
	)
	switch cfg.SessionStore {
	case config.StoreRedis:
		database.SetSlowOpLogging(slowRedisOpCutoff, logger)
		rdb, err := database.NewRedisClient(ctx, database.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			_ = shutdownTracer(context.Background())
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		logger.Info("connected to Redis",
			slog.String("addr", cfg.RedisAddr),
			slog.Int("db", cfg.RedisDB),
		)
		a.rdb = rdb
		sessions = redisrepo.NewSessionRepository(rdb, cfg.SessionTTL())
		locks = redisrepo.NewUploadLocks(rdb)
		healthHandler.Register("redis", database.RedisChecker(rdb))
	default:
		repo := memory.NewSessionRepository(cfg.SessionTTL())
		a.sweeper = repo
		sessions = repo
		locks = memory.NewUploadLocks()
		logger.Info("using in-memory session store", slog.Duration("ttl", cfg.SessionTTL()))
	}

	// Kafka producer. Publishing is skipped entirely when disabled.
	if cfg.KafkaEnabled {
		a.producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		healthHandler.RegisterOptional("kafka", a.producer.Ping)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}
	eventProducer := event.NewProducer(a.producer, logger)

	// Catalog API client behind a circuit breaker.
	clientCfg := httpclient.DefaultConfig()
	clientCfg.Timeout = cfg.CatalogTimeout()
	breakerCfg := httpclient.DefaultCircuitBreakerConfig("catalog-api")
	breakerCfg.Timeout = time.Duration(cfg.BreakerTimeoutSeconds) * time.Second
	breakerCfg.FailureRatio = cfg.BreakerFailureRatio
	doer := httpclient.NewCircuitBreakerClient(httpclient.New(clientCfg), breakerCfg, logger)
	catalogClient := catalog.NewClient(doer, cfg.CatalogAPIURL, logger)

	options, err := domain.LoadFormOptions()
	if err != nil {
		a.closeResources()
		return nil, fmt.Errorf("load form options: %w", err)
	}

	// Build the dependency graph.
	uploads := upload.NewCoordinator(catalogClient, locks, upload.DefaultLockTTL, logger)
	editor := service.NewEditorService(sessions, catalogClient, uploads, eventProducer, logger)
	products := service.NewProductService(catalogClient, eventProducer, logger)

	sessionHandler := handler.NewSessionHandler(editor, options, cfg.UploadMaxBytes(), logger)
	productHandler := handler.NewProductHandler(products, options, logger)

	bgCtx, stopBackground := context.WithCancel(context.Background())
	a.stopBackground = stopBackground

	router := handler.NewRouter(
		bgCtx,
		sessionHandler,
		productHandler,
		healthHandler,
		middleware.NewHTTPMetrics(prometheus.DefaultRegisterer, handler.ServiceName),
		middleware.NewJWTValidator(cfg.JWTSecret),
		handler.RouterConfig{
			AdminRoles:     cfg.AdminRoles,
			RateLimitRPS:   cfg.RateLimitRPS,
			RateLimitBurst: cfg.RateLimitBurst,
			CORSOrigins:    cfg.CORSAllowedOrigins,
			RequestTimeout: cfg.RequestTimeout(),
		},
		logger,
	)

	// Uploads stream up to UploadMaxBytes, so the write deadline follows the
	// request timeout rather than a short fixed value.
	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.RequestTimeout(),
		WriteTimeout:      cfg.RequestTimeout() + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return a, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if a.sweeper != nil {
		g.Go(func() error {
			return a.sweeper.RunSweeper(gctx, sweepInterval, a.logger)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		if ctx.Err() != nil {
			a.logger.Info("shutdown signal received")
		}
		return a.Shutdown()
	})

	return g.Wait()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout())
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}
	a.stopBackground()

	a.closeResources()

	if err := a.shutdownTracer(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}

func (a *App) closeResources() {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}
}
