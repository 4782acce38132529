package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"etp/internal/amqp"
	"etp/internal/backend"
	"etp/internal/catalog"
	"etp/internal/cli"
	"etp/internal/engine"
	apphttp "etp/internal/http"
	applog "etp/internal/log"
	"etp/internal/robot"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()

	logger := cli.SetupLogger()
	logger.Info("Starting etp server")

	cfg := cli.LoadAndValidateConfig(logger)

	// Create the sink backend (memory or in-memory sqlite)
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	factory := backend.NewFactory(logger)
	result, err := factory.CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to create sink backend", "error", err, "backend", cfg.SinkBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", "error", err)
			}
		}()
	}

	// Catalog seeded from optional data files, compiled-in defaults otherwise
	cat := catalog.NewFromFiles(cfg.DataDir)
	logger.Info("Catalog loaded", "users", cat.UserCount())

	// Optional AMQP event mirror
	var publisher engine.EventPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without event mirror", "error", err)
		} else {
			defer client.Close()
			publisher = client
			logger.Info("Initialized AMQP event mirror",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}

	eng := engine.New(engine.Config{
		Store:     result.Store,
		Catalog:   cat,
		Generator: robot.NewGenerator(cat, nil, nil),
		Pacing:    cli.PacingFromConfig(cfg),
		Publisher: publisher,
		Logger:    applog.New(applog.Config{Component: applog.ComponentEngine}),
	})

	srv := apphttp.NewServer(":"+cfg.Port, eng)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting etp server", "port", cfg.Port, "backend", cfg.SinkBackend, "pacing", cfg.PacingProfile)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
