package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/shot-insights-etl/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/shot-insights-etl/internal/adapter/kafka"
	"github.com/couchcryptid/shot-insights-etl/internal/config"
	"github.com/couchcryptid/shot-insights-etl/internal/insights"
	"github.com/couchcryptid/shot-insights-etl/internal/observability"
	"github.com/couchcryptid/shot-insights-etl/internal/pipeline"
	"github.com/couchcryptid/shot-insights-etl/internal/reference"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	tables, err := reference.Load(cfg.BenchmarkFile, cfg.BenchmarkCSV, cfg.PuttingCSV)
	if err != nil {
		logger.Error("failed to load benchmark", "error", err)
		os.Exit(1)
	}
	model, err := insights.NewBenchmarkModel(tables)
	if err != nil {
		logger.Error("invalid benchmark", "error", err)
		os.Exit(1)
	}
	logger.Info("benchmark loaded",
		"file", cfg.BenchmarkFile,
		"csv", cfg.BenchmarkCSV,
		"last_shot_policy", cfg.LastShotPolicy.String(),
		"workers", cfg.DeriveWorkers,
	)

	engine := insights.NewEngine(model,
		insights.WithWorkers(cfg.DeriveWorkers),
		insights.WithLastShotPolicy(cfg.LastShotPolicy),
		insights.WithLogger(logger),
	)

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer := pipeline.NewTransformer(engine, logger, metrics)

	p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, transformer, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start ETL pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
