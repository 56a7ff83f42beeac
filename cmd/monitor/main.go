// Package main provides the entry point for the pair monitoring service.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pairwatch/internal/analytics"
	"github.com/yourusername/pairwatch/internal/binance"
	"github.com/yourusername/pairwatch/internal/config"
	"github.com/yourusername/pairwatch/internal/database"
	"github.com/yourusername/pairwatch/internal/health"
	"github.com/yourusername/pairwatch/internal/logger"
	"github.com/yourusername/pairwatch/internal/metrics"
	"github.com/yourusername/pairwatch/internal/models"
	"github.com/yourusername/pairwatch/internal/repository"
	"github.com/yourusername/pairwatch/internal/scheduler"
	"github.com/yourusername/pairwatch/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// feedSet adapts the stream clients to the health server's readiness check
type feedSet struct {
	streams []*binance.StreamClient
}

func (f *feedSet) ConnectedFeeds() (connected, expected int) {
	for _, s := range f.streams {
		if s.IsConnected() {
			connected++
		}
	}
	return connected, len(f.streams)
}

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
	if err := config.ValidateEnvironment(cfg); err != nil {
		log.Fatalf("Invalid environment configuration: %v", err)
	}

	// Set up logging
	appLog := logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
		"version":     Version,
	}).Info("Pairwatch monitor starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection and schema
	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	appLog.Info("Database connection established")

	repos, err := repository.NewRepositories(db)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize repositories")
	}

	// Start metrics server
	metrics.InitRegistry()
	if cfg.Metrics.Enabled {
		startMetricsServer(cfg, appLog)
	}

	interval, err := cfg.Ingestion.Interval()
	if err != nil {
		appLog.WithError(err).Fatal("Invalid resample interval")
	}

	// Build services
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

	pairs := make([]models.Pair, 0, len(cfg.Pairs))
	for _, p := range cfg.Pairs {
		pairs = append(pairs, models.Pair{SymbolY: p.SymbolY, SymbolX: p.SymbolX})
	}
	metrics.UpdateMonitoredPairs(float64(len(pairs)))

	cache := service.NewSnapshotCache(time.Duration(cfg.Analytics.CacheTTLSeconds) * time.Second)
	analyzerSvc := service.NewAnalyzerService(
		repos.Bar,
		repos.Snapshot,
		repos.Alert,
		cache,
		service.AnalyzerConfig{
			Window:             cfg.Analytics.Window,
			EstimatorName:      cfg.Analytics.Estimator,
			Interval:           interval.String(),
			LookbackBars:       cfg.Analytics.LookbackBars,
			MaxLag:             cfg.Analytics.MaxLag,
			StationarityPValue: cfg.Analytics.StationarityPValue,
			Alerts:             alertConfig(cfg),
		},
		appLog,
	)

	// Backfill recent bars over REST before the streams take over
	httpClient := binance.NewRateLimitedHTTPClient(binanceHTTPConfig(cfg), appLog)
	defer httpClient.Close()
	restClient := binance.NewRESTClient(cfg.Binance.RESTURL, httpClient, appLog)

	if cfg.Ingestion.BackfillBars > 0 {
		appLog.WithField("bars", cfg.Ingestion.BackfillBars).Info("Backfilling bars from REST")
		if err := resampleSvc.Backfill(ctx, restClient, cfg.Ingestion.Symbols, cfg.Ingestion.BackfillBars); err != nil {
			appLog.WithError(err).Warn("Backfill incomplete; continuing with stream data")
		}
	}

	// Connect one trade stream per ingested symbol
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
	appLog.WithField("streams", len(streams)).Info("Trade streams connected")

	// Flush loop for buffered ticks
	go func() {
		if err := ingestionSvc.Run(ctx); err != nil && err != context.Canceled {
			appLog.WithError(err).Error("Ingestion loop exited")
		}
	}()

	// Schedule the resample and analysis jobs
	sched := scheduler.NewScheduler(appLog)
	if err := sched.ScheduleResample(cfg.Ingestion.ResampleCron, resampleSvc, cfg.Ingestion.Symbols); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule resample job")
	}
	if err := sched.ScheduleAnalysis(cfg.Analytics.AnalysisCron, analyzerSvc, pairs); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule analysis job")
	}
	if err := sched.Start(); err != nil {
		appLog.WithError(err).Fatal("Failed to start scheduler")
	}

	// Health check server
	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Port:        fmt.Sprintf("%d", cfg.App.HealthPort),
		Logger:      appLog,
		DB:          db,
		Feeds:       &feedSet{streams: streams},
	})
	if err := healthServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}
	healthServer.SetReady(true)

	appLog.WithFields(logrus.Fields{
		"pairs":     len(pairs),
		"symbols":   len(cfg.Ingestion.Symbols),
		"estimator": cfg.Analytics.Estimator,
		"window":    cfg.Analytics.Window,
	}).Info("Pairwatch monitor running")

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	healthServer.SetReady(false)
	cancel()

	if err := sched.Stop(); err != nil {
		appLog.WithError(err).Error("Error stopping scheduler")
	}
	for _, stream := range streams {
		if err := stream.Close(); err != nil {
			appLog.WithError(err).WithField("symbol", stream.Symbol()).Error("Error closing stream")
		}
	}

	// Give the ingestion loop time to drain its buffer
	time.Sleep(2 * time.Second)

	appLog.Info("Pairwatch monitor shut down successfully")
}

func startMetricsServer(cfg *config.Config, appLog *logrus.Logger) {
	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, metrics.Handler())

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		appLog.WithFields(logrus.Fields{
			"port": cfg.Metrics.Port,
			"path": cfg.Metrics.Path,
		}).Info("Metrics server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.WithError(err).Error("Metrics server error")
		}
	}()
}

func binanceHTTPConfig(cfg *config.Config) binance.HTTPClientConfig {
	httpCfg := binance.DefaultHTTPClientConfig()
	httpCfg.Timeout = time.Duration(cfg.Binance.TimeoutSeconds) * time.Second
	httpCfg.MaxRetries = cfg.Binance.MaxRetries
	httpCfg.RateLimit = cfg.Binance.RequestsPerSecond
	httpCfg.RateBurst = cfg.Binance.RequestBurst
	return httpCfg
}

func alertConfig(cfg *config.Config) analytics.AlertConfig {
	return analytics.AlertConfig{
		ZScoreThreshold:      cfg.Alerts.ZScoreThreshold,
		SpreadWidth:          cfg.Alerts.SpreadWidthEnabled,
		SpreadWidthThreshold: cfg.Alerts.SpreadWidthThreshold,
		CorrelationDrop:      cfg.Alerts.CorrelationEnabled,
		CorrelationThreshold: cfg.Alerts.CorrelationThreshold,
	}
}
