package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"kairos-backend/internal/agent"
	"kairos-backend/internal/api"
	"kairos-backend/internal/config"
	"kairos-backend/internal/notify"
	"kairos-backend/internal/session"
	"kairos-backend/internal/store"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// database — optional: without it the agent answers every intent
	// in degraded mode instead of refusing calls
	var st agent.Store
	pool := connect(cfg, logger)
	if pool != nil {
		defer pool.Close()
		migrate(pool, logger)
		st = store.New(pool)
	}

	hub := notify.NewHub(logger)
	a := agent.New(st, hub, logger)
	sessions := session.NewManager()

	srv := api.New(cfg, a, sessions, logger)
	go func() {
		logger.Info("webhook api listening", zap.String("port", cfg.AppPort))
		if err := srv.Listen(":" + cfg.AppPort); err != nil {
			logger.Error("api server", zap.Error(err))
		}
	}()

	// the UI hub runs on its own listener; displays connect directly
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/ui", hub.ServeWS)
	uiSrv := &http.Server{Addr: ":" + cfg.UIPort, Handler: mux}
	go func() {
		logger.Info("ui hub listening", zap.String("port", cfg.UIPort))
		if err := uiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("ui server", zap.Error(err))
		}
	}()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	logger.Info("shutting down")
	_ = srv.Shutdown()
	hub.Close()
	_ = uiSrv.Close()
}

func connect(cfg *config.Config, logger *zap.Logger) *pgxpool.Pool {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, running without appointment store")
		return nil
	}

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Warn("db unavailable, running without appointment store", zap.Error(err))
		return nil
	}
	if err := pool.Ping(context.Background()); err != nil {
		logger.Warn("db ping failed, running without appointment store", zap.Error(err))
		pool.Close()
		return nil
	}
	logger.Info("connected to postgres")
	return pool
}

func migrate(pool *pgxpool.Pool, logger *zap.Logger) {
	migration, err := os.ReadFile("db/migrations/001_init.sql")
	if err != nil {
		logger.Warn("migration file not found, skipping", zap.Error(err))
		return
	}
	if _, err := pool.Exec(context.Background(), string(migration)); err != nil {
		logger.Warn("migration warning", zap.Error(err))
		return
	}
	logger.Info("migration applied")
}
