package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/salesstack/sales-sentinel/internal/config"
	"github.com/salesstack/sales-sentinel/internal/detectors"
	"github.com/salesstack/sales-sentinel/internal/engine"
	"github.com/salesstack/sales-sentinel/internal/metrics"
	"github.com/salesstack/sales-sentinel/internal/repo"
	"github.com/salesstack/sales-sentinel/internal/services"
	"github.com/salesstack/sales-sentinel/internal/utils"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("path", configPath), slog.Any("error", err))
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Logging.Level, cfg.Logging.JSON)
	logger.Info("starting sales-sentinel scan",
		slog.String("sales_table", cfg.Database.SalesTable),
		slog.String("incidents_table", cfg.Database.IncidentsTable),
	)

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		logger.Error("failed to register metrics", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := repo.Open(cfg.Database.URL, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	salesRepo := repo.NewSalesRepo(db, cfg.Database.SalesTable, cfg.Database.QueryTimeout)
	incidentRepo := repo.NewIncidentRepo(db, cfg.Database.IncidentsTable, cfg.Database.QueryTimeout)

	sinks := []services.IncidentSink{incidentRepo}
	if cfg.Sink.Endpoint != "" {
		sinks = append(sinks, repo.NewWebhookSink(cfg.Sink.Endpoint, cfg.Sink.APIKey, cfg.Sink.Timeout))
	}

	pipeline := engine.NewPipeline(
		logger,
		salesRepo,
		detectors.NewRevenueDropDetector(cfg.Detectors.RevenueDropRatio),
		detectors.NewLowRevenueDetector(cfg.Detectors.RevenueFloor),
		detectors.NewVolumeDropDetector(cfg.Detectors.VolumeDropRatio, cfg.Detectors.VolumeSevereRatio),
		detectors.NewDuplicateChargeDetector(cfg.Detectors.DuplicateRepetitions, logger),
		time.Now,
	)

	scanService := services.NewScanService(logger, pipeline, sinks...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_, writes, err := scanService.Run(ctx)

	if cfg.Metrics.PushGateway != "" {
		if pushErr := metrics.Push(cfg.Metrics.PushGateway, cfg.Metrics.Job, prometheus.DefaultGatherer); pushErr != nil {
			logger.Warn("metrics push failed", slog.Any("error", pushErr))
		}
	}

	if err != nil {
		logger.Error("scan aborted", slog.Any("error", err))
		os.Exit(1)
	}

	failed := 0
	for _, write := range writes {
		if write.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		logger.Error("scan finished with failed incident writes",
			slog.Int("failed", failed),
			slog.Int("attempted", len(writes)),
		)
		os.Exit(1)
	}

	logger.Info("scan complete")
}
