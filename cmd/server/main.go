package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"
	"transit-reachability-service/internal/adapters/cache"
	"transit-reachability-service/internal/adapters/geometry"
	"transit-reachability-service/internal/adapters/repositories"
	"transit-reachability-service/internal/adapters/transport"
	"transit-reachability-service/internal/api"
	"transit-reachability-service/internal/api/handlers"
	"transit-reachability-service/internal/config"
	"transit-reachability-service/internal/logging"
	"transit-reachability-service/internal/platform/db"
	"transit-reachability-service/internal/ports"
	"transit-reachability-service/internal/services"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// main is the application composition root.
// It wires concrete adapters (transport.rest, GeoJSON, response cache) behind ports,
// computes an initial run and starts the HTTP server.
func main() {
	bootLogger := logging.NewStructuredLogger(os.Stderr, slog.LevelInfo, "json")

	if err := godotenv.Load(); err != nil {
		bootLogger.Info("no .env file found, using environment variables")
	}

	if err := run(); err != nil {
		logging.LogError(bootLogger, "server exited", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.Get("SETTINGS_PATH", "settings.yml"))
	if err != nil {
		return err
	}

	logger := logging.NewStructuredLogger(os.Stdout, logging.ParseLevel(cfg.Log.Level), cfg.Log.Format)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithLogger(ctx, logger)

	responseCache, closeCache, err := openCache(ctx, cfg.Cache, logger)
	if err != nil {
		return logging.Fatal(logger, "open response cache", err)
	}
	defer closeCache()

	provider, err := transport.NewBVGTransitProvider(transport.Config{
		BaseURL:      cfg.Transport.BaseURL,
		MaxDuration:  cfg.FetchCeiling(),
		MaxTransfers: cfg.Destination.MaxTransfers,
		Departure:    transport.DepartureTime(cfg.Destination.Time),
		CacheTTL:     cfg.Cache.TTL,
		Timeout:      cfg.Transport.Timeout,
	}, responseCache)
	if err != nil {
		return logging.Fatal(logger, "create transit provider", err)
	}

	reachability := &services.Reachability{
		Provider:  provider,
		Districts: geometry.NewGeoJSONDistrictSource(cfg.Districts.Path),
	}
	defaults := services.RunRequest{
		Destinations: cfg.Destination.Destinations,
		MaxDuration:  cfg.General.MaxDuration,
	}

	results := &handlers.ResultStore{}

	// A failed initial run is not fatal; POST /runs can retry it.
	if result, err := reachability.Run(ctx, defaults); err != nil {
		logging.LogError(logger, "initial reachability run failed", err)
	} else {
		results.Store(result, time.Now())
	}

	runs := handlers.NewRunHandler(reachability, defaults, results)
	router := api.NewRouter(logger, results, runs, cfg.General.CircleRadius)

	// Timeouts are tuned for cold-cache runs (external API latency).
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.LogOperation(logger, "server_listening", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logging.LogOperation(logger, "server_shutting_down")
	return srv.Shutdown(shutdownCtx)
}

// openCache selects the response cache backend. The returned func releases it.
func openCache(ctx context.Context, cfg config.CacheSettings, logger *slog.Logger) (ports.ResponseCache, func(), error) {
	noop := func() {}

	switch cfg.Backend {
	case "postgres":
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		if err := repositories.InitSchema(conn, repositories.Postgres); err != nil {
			logging.SafeCloseWithLogging(conn, logger, "close postgres")
			return nil, noop, err
		}
		return cache.NewSQLResponseCache(conn), closeDB(conn, logger, "close postgres"), nil

	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(cfg.SqlitePath), 0o755); err != nil {
			return nil, noop, fmt.Errorf("create sqlite directory: %w", err)
		}
		conn, err := db.OpenSqlite(cfg.SqlitePath)
		if err != nil {
			return nil, noop, err
		}
		if err := repositories.InitSchema(conn, repositories.Sqlite); err != nil {
			logging.SafeCloseWithLogging(conn, logger, "close sqlite")
			return nil, noop, err
		}
		return cache.NewSqliteResponseCache(conn), closeDB(conn, logger, "close sqlite"), nil

	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			logging.SafeCloseWithLogging(client, logger, "close redis")
			return nil, noop, fmt.Errorf("ping redis %q: %w", cfg.RedisAddr, err)
		}
		return cache.NewRedisResponseCache(client), func() {
			logging.SafeCloseWithLogging(client, logger, "close redis")
		}, nil

	default:
		return nil, noop, nil
	}
}

func closeDB(conn *sql.DB, logger *slog.Logger, op string) func() {
	return func() { logging.SafeCloseWithLogging(conn, logger, op) }
}
