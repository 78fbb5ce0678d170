package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fxledger/fxledger/internal/config"
	"github.com/fxledger/fxledger/internal/infra"
	"github.com/fxledger/fxledger/internal/jobs"
	"github.com/fxledger/fxledger/internal/ledger"
	"github.com/fxledger/fxledger/internal/logging"
	"github.com/fxledger/fxledger/internal/notification"
	"github.com/fxledger/fxledger/internal/rates"
	"github.com/fxledger/fxledger/internal/routes"
	"github.com/fxledger/fxledger/internal/server"
	"github.com/fxledger/fxledger/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()

	deps := routes.Deps{Cfg: cfg, Logger: logger}

	var store ledger.Store
	if cfg.DatabaseURL != "" {
		db, err := infra.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("connect postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		deps.DB = db
		store = ledger.NewPostgresStore(db)
	} else {
		store = ledger.NewFileStore(cfg.SnapshotPath)
		logger.Info("using file snapshot store", "path", cfg.SnapshotPath)
	}

	var sessions session.Directory
	if cfg.RedisURL != "" {
		cache, err := infra.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("connect redis", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := cache.Close(); err != nil {
				logger.Warn("close redis", "error", err)
			}
		}()
		deps.Cache = cache
		sessions = session.NewRedisDirectory(cache)
	} else {
		sessions = session.NewMemoryDirectory()
	}

	var source rates.Source
	if cfg.RatesURL != "" {
		source = rates.NewHTTPSource(cfg.RatesURL)
	} else {
		source = rates.DefaultStatic()
		logger.Info("using static rate source")
	}

	svc := ledger.NewService(ledger.NewRegistry(), rates.NewCache(), source, store, sessions, notification.NewLoggerNotifier(logger), logger)
	if err := svc.Load(ctx); err != nil {
		logger.Error("load ledger", "error", err)
		os.Exit(1)
	}
	deps.Service = svc

	refreshCtx, stopRefresher := context.WithCancel(ctx)
	defer stopRefresher()
	go jobs.RunRateRefresher(refreshCtx, svc, cfg.RatesRefresh, logger)

	srv, err := server.New(cfg, deps)
	if err != nil {
		logger.Error("build server", "error", err)
		os.Exit(1)
	}

	srvErrCh := make(chan error, 1)
	go func() {
		srvErrCh <- srv.Listen()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-srvErrCh:
		if err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
		return
	}

	stopRefresher()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownPeriod)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server exited cleanly")
}
