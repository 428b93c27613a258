package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"eprfee/internal/config"
	"eprfee/internal/core"
	"eprfee/internal/logging"
	"eprfee/internal/refdata"
	"eprfee/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"reference_source", cfg.Reference.Source,
		"material_resolution", cfg.Processing.MaterialResolution,
		"upload_max_rows", cfg.Upload.MaxRows,
	)

	ctx := context.Background()

	reload, cleanup, err := buildReloader(ctx, cfg)
	if err != nil {
		slog.Error("failed to set up reference loader", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	registry, err := reload(ctx)
	if err != nil {
		slog.Error("failed to load reference tables", "error", err)
		os.Exit(1)
	}

	materials, fees, vendors, products := registry.Counts()
	slog.Info("reference tables loaded",
		"materials", materials,
		"fees", fees,
		"vendors", vendors,
		"products", products,
	)

	server := web.NewServer(cfg, registry, reload)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}

// buildReloader wires the configured reference source into a reload
// function the server can call at startup and on demand. The cleanup
// closes any pooled resources the loader holds.
func buildReloader(ctx context.Context, cfg *config.Config) (web.ReloadFunc, func(), error) {
	if strings.EqualFold(cfg.Reference.Source, "postgres") {
		poolConfig, err := pgxpool.ParseConfig(cfg.Reference.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		poolConfig.MaxConns = int32(cfg.Reference.MaxConns)

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return nil, nil, err
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}

		if u, err := url.Parse(cfg.Reference.DatabaseURL); err == nil {
			slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
		} else {
			slog.Info("connected to database")
		}

		loader := refdata.NewPGLoader(pool)
		return loader.Load, pool.Close, nil
	}

	dir := cfg.Reference.Dir
	load := func(ctx context.Context) (*core.Registry, error) {
		return refdata.LoadDir(dir)
	}
	return load, func() {}, nil
}
