package main

import (
	"context"
	"errors"
	"os"
	"time"

	"budgetsheet/internal/amqp"
	"budgetsheet/internal/backend"
	"budgetsheet/internal/cache"
	"budgetsheet/internal/cli"
	"budgetsheet/internal/log"
	"budgetsheet/internal/services"
	"budgetsheet/internal/worker"
)

const (
	cacheSweepInterval = time.Minute
	shutdownTimeout    = 15 * time.Second
)

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		log.Default().Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	logger := cli.SetupLogger(cfg, os.Stdout)

	if err := cfg.RequireAMQP(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Starting budgetsheet-worker",
		log.FieldOperation, log.OpStartup,
		"catalog_backend", cfg.CatalogBackend,
		"value_source", cfg.ValueSource)

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	res, err := backend.NewFactory(logger).Create(context.Background(), bcfg)
	if err != nil {
		logger.Error("Failed to create backend", log.FieldError, err)
		os.Exit(1)
	}
	defer res.Close()

	processor := services.NewBudgetProcessor(res.Catalogs, res.Source,
		services.BudgetProcessorConfig{Concurrency: cfg.BatchConcurrency}, logger)

	amqpClient, err := amqp.NewClient(amqp.Config{
		URL:          cfg.AMQPURL,
		Exchange:     cfg.AMQPExchange,
		RequestQueue: cfg.AMQPRequestQueue,
		ResultQueue:  cfg.AMQPResultQueue,
	}, logger)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	caches := cache.NewManager()
	if cleaner := res.Catalogs.Cleaner(); cleaner != nil {
		caches.Register("catalog", cleaner)
	}
	caches.StartCleanup(cacheSweepInterval)

	runCtx, stop := context.WithCancel(context.Background())
	defer stop()
	ctx, done := cli.GracefulShutdown(runCtx, logger, shutdownTimeout, func(context.Context) {
		caches.Stop()
	})

	reportWorker := worker.NewReportWorker(processor, amqpClient, logger)
	go func() {
		err := amqpClient.ConsumeProcessRequests(ctx, reportWorker.HandleProcessRequest)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Message consumption failed", log.FieldOperation, log.OpConsume, log.FieldError, err)
			stop()
		}
	}()

	logger.Info("Worker started, waiting for process requests", "queue", cfg.AMQPRequestQueue)
	cli.WaitForShutdown(ctx, done)
	logger.Info("budgetsheet-worker stopped")
}
