package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/yac28938-hash/invdash/internal/alerts"
	"github.com/yac28938-hash/invdash/internal/api"
	"github.com/yac28938-hash/invdash/internal/config"
	"github.com/yac28938-hash/invdash/internal/infra/db"
	httpx "github.com/yac28938-hash/invdash/internal/infra/http"
	"github.com/yac28938-hash/invdash/internal/infra/logger"
	"github.com/yac28938-hash/invdash/internal/ledger"
	"github.com/yac28938-hash/invdash/internal/ledger/persist"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/subosito/gotenv"
)

func runMigrations(dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

func main() {
	_ = gotenv.Load()

	cfgPath := flag.String("config", "config/example.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var persister ledger.Persister
	switch cfg.Storage.Driver {
	case "postgres":
		if err := runMigrations(cfg.Postgres.DSN); err != nil {
			log.Error("migrations failed", "err", err)
			return
		}
		log.Info("migrations applied")

		pool, err := db.Connect(ctx, cfg.Postgres.DSN)
		if err != nil {
			log.Error("db connect failed", "err", err)
			return
		}
		defer pool.Close()
		log.Info("db connected")
		persister = persist.NewPostgres(pool, cfg.Storage.Snapshot)
	default:
		persister = persist.NewFile(cfg.Storage.Path)
	}

	store, err := ledger.Open(ctx, persister, log)
	if err != nil {
		log.Error("store open failed", "err", err)
		return
	}

	notifier, err := alerts.New(cfg.Telegram.Token, cfg.Telegram.AdminChatID, log)
	if err != nil {
		log.Error("alerts init failed", "err", err)
		return
	}
	if notifier != nil {
		log.Info("low stock alerts enabled")
	}

	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled, api.New(store, notifier, log).Routes())
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
