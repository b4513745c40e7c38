package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/golinkhq/golinks/internal/config"
	"github.com/golinkhq/golinks/internal/golink"
	"github.com/golinkhq/golinks/internal/idgen"
	"github.com/golinkhq/golinks/internal/server"
)

// App holds the application dependencies and configuration.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	DBPool  *pgxpool.Pool // nil for the memory backend
	Server  *server.Server
	Handler *golink.Handler
}

// New initializes and returns a new App instance with all dependencies wired up.
func New(ctx context.Context) (*App, error) {
	if err := loadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := setupLogger(cfg.App.LogLevel)

	logger.Info("starting application",
		"env", cfg.App.Environment,
		"backend", cfg.Storage.Backend,
	)

	store, dbPool, err := buildStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	pattern, err := buildPattern(cfg)
	if err != nil {
		return nil, err
	}

	svc := golink.NewService(store, &golink.ServiceConfig{
		Pattern:     pattern,
		IDGenerator: idgen.New(idgen.Version(cfg.Storage.IDVersion)),
	})
	handler := golink.NewHandler(golink.HandlerConfig{
		Service: svc,
		Logger:  logger,
	})

	srv := server.New(cfg, logger, handler)

	logger.Info("application initialized",
		"port", cfg.Server.Port,
		"link_pattern", pattern.String(),
	)

	return &App{
		Config:  cfg,
		Logger:  logger,
		DBPool:  dbPool,
		Server:  srv,
		Handler: handler,
	}, nil
}

// Start starts the application server.
func (a *App) Start(ctx context.Context) error {
	a.Logger.Info("server starting", "port", a.Config.Server.Port)

	if err := a.Server.Start(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (a *App) Shutdown() error {
	a.Logger.Info("shutting down application")

	if a.DBPool != nil {
		a.DBPool.Close()
		a.Logger.Info("database connection closed")
	}

	return nil
}

// buildStore instantiates the configured registry backend. The choice
// is driven entirely by the injected config value.
func buildStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (golink.Store, *pgxpool.Pool, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return golink.NewMemoryStore(), nil, nil

	case config.BackendPostgres:
		pool, err := connectDatabase(ctx, cfg, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		store := golink.NewPostgresStore(pool, &golink.PostgresStoreConfig{
			OpTimeout: cfg.Storage.OpTimeout,
		})
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("failed to ensure schema: %w", err)
		}
		return store, pool, nil

	default:
		// Config validation catches this already; guard anyway.
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func buildPattern(cfg *config.Config) (golink.Pattern, error) {
	if cfg.Storage.LinkPattern == "" {
		return golink.DefaultPattern(), nil
	}
	return golink.CompilePattern(cfg.Storage.LinkPattern)
}

// loadEnv loads .env file only in non-production environments.
func loadEnv() error {
	env := os.Getenv("APP_ENV")
	if env == "development" || env == "test" {
		if err := godotenv.Load("../.env"); err != nil {
			log.Println("no .env file found.")
		}
	}
	return nil
}

// setupLogger creates a structured logger based on the log level.
func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}

// connectDatabase establishes a connection to the PostgreSQL database.
func connectDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.Storage.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = cfg.Storage.MaxConns
	poolConfig.MinConns = cfg.Storage.MinConns

	logger.Info("connecting to database",
		"host", cfg.Storage.Host,
		"port", cfg.Storage.Port,
		"database", cfg.Storage.Name,
	)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established")

	return pool, nil
}
