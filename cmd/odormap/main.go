package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/odorlab/odormap/internal/adapter/httpapi"
	kafkaadapter "github.com/odorlab/odormap/internal/adapter/kafka"
	"github.com/odorlab/odormap/internal/config"
	"github.com/odorlab/odormap/internal/domain"
	"github.com/odorlab/odormap/internal/loader"
	"github.com/odorlab/odormap/internal/observability"
	"github.com/odorlab/odormap/internal/view"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	bundle, err := loader.LoadAll(cfg, logger, metrics)
	if err != nil {
		metrics.LoadStatus.Set(0)
		logger.Error("failed to load inputs", "error", err)
		os.Exit(1)
	}
	metrics.LoadStatus.Set(1)

	summary := bundle.Dataset.Summarize()
	logger.Info("dataset loaded",
		"readings", summary.Readings,
		"odor_readings", summary.OdorReadings,
		"wind_readings", summary.WindReadings,
		"regions", summary.Regions,
		"days_with_data", summary.DaysWithData,
		"mean_odor", summary.MeanOdor,
		"max_odor", summary.MaxOdor,
	)

	// The level scale is fixed over the whole dataset so colors stay
	// comparable across selections.
	levels := domain.BuildLevelScale(
		bundle.Dataset.AggregateSpatial(domain.WindowSelector{Mode: domain.ModeAll}),
		domain.DefaultLevelCount,
	)

	coord := view.New(bundle.Dataset, levels, logger, metrics, cfg.SnapshotCacheSize, cfg.DefaultHour)

	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg.KafkaBrokers, cfg.KafkaSnapshotTopic, logger)
		coord.SetSink(writer)
		logger.Info("kafka snapshot export enabled", "topic", cfg.KafkaSnapshotTopic)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start on the earliest day that has data, like the map opens for
	// its users. An empty month falls back to the all-days view.
	if day := bundle.Dataset.FirstDay(); day > 0 {
		if _, err := coord.Apply(ctx, view.SelectDay{Date: cfg.TargetMonth.Date(day)}); err != nil {
			logger.Error("initial selection failed", "error", err)
			os.Exit(1)
		}
	} else {
		logger.Warn("no readings in the target month", "year", cfg.TargetMonth.Year, "month", int(cfg.TargetMonth.Month))
		if _, err := coord.Apply(ctx, view.SelectAll{}); err != nil {
			logger.Error("initial selection failed", "error", err)
			os.Exit(1)
		}
	}

	srv := httpapi.NewServer(cfg.HTTPAddr, coord, bundle, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
