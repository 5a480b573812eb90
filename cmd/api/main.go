package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/zerobet/api/internal/app/migrate"
	httpx "github.com/zerobet/api/internal/http"
	"github.com/zerobet/api/internal/repository/postgres"
	"github.com/zerobet/api/internal/service/account"
	"github.com/zerobet/api/internal/service/odds"
	"github.com/zerobet/api/pkg/config"
	"github.com/zerobet/api/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg := config.LoadAPIConfig()
	log := logger.New("api", slog.LevelInfo)

	if cfg.JWTSecret == "" {
		log.Error("JWT_SECRET is not set, refusing to start")
		os.Exit(1)
	}
	if cfg.DatabaseURL == "" {
		log.Error("DATABASE_URL is not set, refusing to start")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Error("database ping failed", "error", err)
		os.Exit(1)
	}

	runner, err := migrate.New(cfg.DatabaseURL, cfg.MigrationsDir, log)
	if err != nil {
		log.Error("failed to configure migrations", "error", err)
		os.Exit(1)
	}
	if err := runner.Up(ctx); err != nil {
		log.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	repo := postgres.New(pool)
	accountSvc := account.New(repo, log, cfg)

	var oddsCache odds.Cache
	if addr := strings.TrimSpace(cfg.OddsCacheRedisAddr); addr != "" {
		cache, err := odds.NewRedisCache(addr, cfg.OddsCacheRedisPassword, cfg.OddsCacheRedisDB, log)
		if err != nil {
			log.Warn("odds cache unavailable, serving uncached", "error", err)
		} else {
			oddsCache = cache
		}
	}
	oddsSvc := odds.New(cfg, oddsCache, log)

	router := httpx.NewRouter(log, accountSvc, oddsSvc, accountSvc, cfg.CORSOrigin, pool.Ping)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errorCh := make(chan error, 1)
	go func() {
		log.Info("api server starting", "addr", cfg.Addr)
		errorCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
		log.Info("api server stopped")
	case err := <-errorCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}
}
