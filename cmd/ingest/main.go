// Package main provides the entry point for the standalone tick ingestion
// service. It runs the trade streams and the resample job without the
// analytics pipeline, for deployments that split ingestion from analysis.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pairwatch/internal/binance"
	"github.com/yourusername/pairwatch/internal/config"
	"github.com/yourusername/pairwatch/internal/database"
	"github.com/yourusername/pairwatch/internal/logger"
	"github.com/yourusername/pairwatch/internal/metrics"
	"github.com/yourusername/pairwatch/internal/models"
	"github.com/yourusername/pairwatch/internal/repository"
	"github.com/yourusername/pairwatch/internal/scheduler"
	"github.com/yourusername/pairwatch/internal/service"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "Path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"symbols":     cfg.Ingestion.Symbols,
	}).Info("Pairwatch ingestion service starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize repositories")
	}

	metrics.InitRegistry()

	interval, err := cfg.Ingestion.Interval()
	if err != nil {
		appLog.WithError(err).Fatal("Invalid resample interval")
	}

	ingestionSvc := service.NewIngestionService(
		repos.Tick,
		appLog,
		cfg.Ingestion.BatchSize,
		time.Duration(cfg.Ingestion.FlushSeconds)*time.Second,
	)
	resampleSvc := service.NewResampleService(
		repos.Tick,
		repos.Bar,
		appLog,
		interval,
		cfg.Ingestion.MinBarVolume,
	)

	if cfg.Ingestion.BackfillBars > 0 {
		httpClient := binance.NewRateLimitedHTTPClient(binanceHTTPConfig(cfg), appLog)
		defer httpClient.Close()
		restClient := binance.NewRESTClient(cfg.Binance.RESTURL, httpClient, appLog)

		appLog.WithField("bars", cfg.Ingestion.BackfillBars).Info("Backfilling bars from REST")
		if err := resampleSvc.Backfill(ctx, restClient, cfg.Ingestion.Symbols, cfg.Ingestion.BackfillBars); err != nil {
			appLog.WithError(err).Warn("Backfill incomplete; continuing with stream data")
		}
	}

	streams := make([]*binance.StreamClient, 0, len(cfg.Ingestion.Symbols))
	for _, symbol := range cfg.Ingestion.Symbols {
		stream := binance.NewStreamClient(cfg.Binance.StreamURL, symbol, appLog)
		stream.AddHandler(func(tick *models.Tick) error {
			return ingestionSvc.HandleTick(ctx, tick)
		})
		if err := stream.Connect(ctx); err != nil {
			appLog.WithError(err).WithField("symbol", symbol).Fatal("Failed to connect trade stream")
		}
		streams = append(streams, stream)
	}
	metrics.UpdateConnectedStreams(float64(len(streams)))

	go func() {
		if err := ingestionSvc.Run(ctx); err != nil && err != context.Canceled {
			appLog.WithError(err).Error("Ingestion loop exited")
		}
	}()

	sched := scheduler.NewScheduler(appLog)
	if err := sched.ScheduleResample(cfg.Ingestion.ResampleCron, resampleSvc, cfg.Ingestion.Symbols); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule resample job")
	}
	if err := sched.Start(); err != nil {
		appLog.WithError(err).Fatal("Failed to start scheduler")
	}

	appLog.WithField("streams", len(streams)).Info("Ingestion service running")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	cancel()
	if err := sched.Stop(); err != nil {
		appLog.WithError(err).Error("Error stopping scheduler")
	}
	for _, stream := range streams {
		if err := stream.Close(); err != nil {
			appLog.WithError(err).WithField("symbol", stream.Symbol()).Error("Error closing stream")
		}
	}

	time.Sleep(2 * time.Second)
	appLog.Info("Ingestion service shut down successfully")
}

func binanceHTTPConfig(cfg *config.Config) binance.HTTPClientConfig {
	httpCfg := binance.DefaultHTTPClientConfig()
	httpCfg.Timeout = time.Duration(cfg.Binance.TimeoutSeconds) * time.Second
	httpCfg.MaxRetries = cfg.Binance.MaxRetries
	httpCfg.RateLimit = cfg.Binance.RequestsPerSecond
	httpCfg.RateBurst = cfg.Binance.RequestBurst
	return httpCfg
}
