package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"freight/cmd"
	"freight/internal/adapters/out/postgres"
	"freight/internal/config"
	"freight/internal/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Z().Fatal("load config", zap.Error(err))
	}
	log := logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer func() { _ = log.Sync() }()

	if err = run(cfg, log); err != nil {
		log.Error("freight stopped with error", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	db, err := postgres.Open(cfg.Database.Driver, cfg.Database.DSN, cmd.PoolOptions(cfg.Database.Pool), cfg.Database.LogSQL)
	if err != nil {
		return err
	}
	if cfg.Database.AutoMigrate {
		if err = postgres.Migrate(db); err != nil {
			return err
		}
	}

	root, err := cmd.NewCompositionRoot(cfg, db, log)
	if err != nil {
		return err
	}
	defer func() { _ = root.Close() }()

	if err = root.ProvisionTenants(ctx); err != nil {
		return err
	}

	router, err := root.NewHTTPRouter(ctx)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("http server listening", zap.String("addr", cfg.Server.Addr()))
		if err := router.Start(cfg.Server.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return router.Shutdown(shutdownCtx)
	})

	if cfg.Queue.Enabled {
		workerServer, err := root.NewWorkerServer()
		if err != nil {
			return err
		}
		g.Go(func() error {
			return workerServer.Run(gctx)
		})
	}

	if cfg.Jobs.Enabled {
		jobManager := root.NewJobManager()
		if err = jobManager.StartAll(); err != nil {
			cancel()
			_ = g.Wait()
			return err
		}
		defer jobManager.StopAll()
	}

	return g.Wait()
}
