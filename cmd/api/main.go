// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/shopfront/storefront-api/internal/app"
	"github.com/shopfront/storefront-api/internal/auth"
	"github.com/shopfront/storefront-api/internal/cart"
	"github.com/shopfront/storefront-api/internal/catalog"
	"github.com/shopfront/storefront-api/internal/config"
	"github.com/shopfront/storefront-api/internal/core"
	"github.com/shopfront/storefront-api/internal/events"
	"github.com/shopfront/storefront-api/internal/health"
	"github.com/shopfront/storefront-api/internal/middleware"
	"github.com/shopfront/storefront-api/internal/migrations"
	"github.com/shopfront/storefront-api/internal/order"
	"github.com/shopfront/storefront-api/internal/server"
	"github.com/shopfront/storefront-api/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

type options struct {
	configPath string
	genKeys    bool
	migrate    bool
	seed       bool
	promote    string
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "config.yaml", "path to config file")
	flag.BoolVar(&opts.genKeys, "genkeys", false, "generate the ES256 key pair and exit")
	flag.BoolVar(&opts.migrate, "migrate", false, "apply database migrations and exit")
	flag.BoolVar(&opts.seed, "seed", false, "insert the starter catalog into an empty store and exit")
	flag.StringVar(&opts.promote, "promote", "", "grant admin to `username` and exit")
	flag.Parse()

	if err := run(opts); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(opts options) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	if opts.genKeys {
		return generateKeys(opts.configPath)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database, cfg.App.Name)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("database close error", "error", err)
		}
	}()
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if opts.migrate || cfg.Database.AutoMigrate {
		if err := migrations.Apply(ctx, db.DB, logger); err != nil {
			return err
		}
		if opts.migrate {
			return nil
		}
	}

	userRepo := user.NewRepository(db.DB)
	productRepo := catalog.NewRepository(db.DB)

	if opts.promote != "" {
		u, err := user.NewService(userRepo).Promote(ctx, opts.promote)
		if err != nil {
			return err
		}
		logger.Info("user promoted to admin", "user_id", u.ID, "username", u.Username)
		return nil
	}

	redis, err := core.NewRedis(ctx, cfg.Redis, cfg.App.Name)
	if err != nil {
		return err
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("redis close error", "error", err)
		}
	}()
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	productCache := catalog.NewRedisListCache(redis.Client, cfg.Cache.ProductListTTL)

	if opts.seed {
		n, err := catalog.NewService(productRepo, productCache).Seed(ctx)
		if err != nil {
			return err
		}
		logger.Info("catalog seeded", "products", n)
		return nil
	}

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.GetKeyID(),
	)

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Kafka.Enabled {
		publisher = events.NewKafkaPublisher(cfg.Kafka)
		logger.Info("kafka publisher enabled",
			"brokers", cfg.Kafka.Brokers,
			"topic", cfg.Kafka.Topic,
		)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}()

	api := app.New(app.Deps{
		Server:      cfg.Server,
		Users:       userRepo,
		Products:    productRepo,
		Carts:       cart.NewRepository(db.DB),
		Orders:      order.NewRepository(db.DB),
		TxManager:   order.NewTxManager(db.DB),
		JWT:         jwtManager,
		Hasher:      core.NewPasswordHasher(core.DefaultArgon2Params),
		Revocations: auth.NewRedisRevocationStore(redis.Client),

		ProductCache: productCache,
		Publisher:    publisher,
		AuthLimiter: middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Scope: "auth",
			Limit: middleware.PerMinute(
				cfg.RateLimit.AuthRequests,
				cfg.RateLimit.AuthBurst,
			),
			FailOpen:          true,
			TrustProxyHeaders: cfg.RateLimit.TrustProxyHeaders,
		}).Handler,

		HealthChecks: []health.Check{
			{Name: "database", Checker: db},
			{Name: "redis", Checker: redis},
		},
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: api.Health,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Tracing)
	router.Use(chimw.Recoverer)
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen:          true,
			TrustProxyHeaders: cfg.RateLimit.TrustProxyHeaders,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.App.Environment == "production"))
	router.Use(middleware.CORS(cfg.CORS))

	api.Mount(router)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	logger.Info("application stopped")
	return nil
}

// generateKeys needs only the key paths, so it runs without database or
// redis settings.
func generateKeys(configPath string) error {
	cfg, err := config.LoadUnvalidated(configPath)
	if err != nil {
		return err
	}
	if err := cfg.JWT.ValidateKeyPaths(); err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	if err := auth.GenerateKeyPair(cfg.JWT.PrivateKeyPath, cfg.JWT.PublicKeyPath); err != nil {
		return err
	}

	logger.Info("key pair written",
		"private", cfg.JWT.PrivateKeyPath,
		"public", cfg.JWT.PublicKeyPath,
	)
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
