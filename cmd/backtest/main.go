// Package main provides the entry point for the z-score backtesting CLI tool.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pairwatch/internal/analytics"
	"github.com/yourusername/pairwatch/internal/backtest"
	"github.com/yourusername/pairwatch/internal/config"
	"github.com/yourusername/pairwatch/internal/database"
	"github.com/yourusername/pairwatch/internal/logger"
	"github.com/yourusername/pairwatch/internal/metrics"
	"github.com/yourusername/pairwatch/internal/models"
	"github.com/yourusername/pairwatch/internal/repository"
	"github.com/yourusername/pairwatch/internal/timeseries"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		pairName   = flag.String("pair", "", "Pair to test as SYMBOLY/SYMBOLX (default: first configured pair)")
		entryZ     = flag.Float64("entry", 0, "Override entry z-score threshold")
		exitZ      = flag.Float64("exit", -1, "Override exit z-score threshold")
		window     = flag.Int("window", 0, "Override rolling window size")
		estimator  = flag.String("estimator", "", "Override hedge ratio estimator: huber or filter")
		output     = flag.String("output", "", "Override equity curve output path")
	)
	flag.Parse()

	appLog := newLogger()
	ctx := context.Background()

	cfg := loadConfigWithSecrets(*configPath, appLog)
	metrics.InitRegistry()

	pair := resolvePair(cfg, *pairName, appLog)
	auditLog := logger.NewAuditLogger(appLog)
	btConfig := backtest.Config{EntryZ: cfg.Backtest.EntryZ, ExitZ: cfg.Backtest.ExitZ}
	if *entryZ > 0 {
		auditLog.LogThresholdChange("entry_z", btConfig.EntryZ, *entryZ, "cli")
		btConfig.EntryZ = *entryZ
	}
	if *exitZ >= 0 {
		auditLog.LogThresholdChange("exit_z", btConfig.ExitZ, *exitZ, "cli")
		btConfig.ExitZ = *exitZ
	}
	if err := btConfig.Validate(); err != nil {
		appLog.Fatalf("Invalid backtest thresholds: %v", err)
	}

	win := cfg.Analytics.Window
	if *window > 0 {
		win = *window
	}
	estimatorName := cfg.Analytics.Estimator
	if *estimator != "" {
		estimatorName = *estimator
	}
	outputPath := cfg.Backtest.OutputPath
	if *output != "" {
		outputPath = *output
	}

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		appLog.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		appLog.Fatalf("Failed to initialize repositories: %v", err)
	}

	zscore, observations, err := buildZScoreSeries(ctx, cfg, repos, pair, win, estimatorName)
	if err != nil {
		metrics.RecordBacktestRun("error")
		appLog.Fatalf("Failed to build z-score series for %s: %v", pair.Name(), err)
	}

	appLog.WithFields(logrus.Fields{
		"pair":         pair.Name(),
		"observations": observations,
		"window":       win,
		"entry_z":      btConfig.EntryZ,
		"exit_z":       btConfig.ExitZ,
	}).Info("Starting backtest")

	result, err := backtest.Simulate(zscore, btConfig)
	if err != nil {
		metrics.RecordBacktestRun("error")
		appLog.Fatalf("Simulation failed: %v", err)
	}
	metrics.RecordBacktestRun("success")
	metrics.RecordBacktestResult(pair.Name(), result.TotalPnL, result.Entries)

	summary := backtest.CalculateMetrics(result)
	logger.NewAnalyticsLogger(appLog).LogBacktestRun(pair.Name(),
		btConfig.EntryZ, btConfig.ExitZ, result.TotalPnL, result.Entries, summary.Steps)
	appLog.WithFields(logrus.Fields{
		"total_pnl":    summary.TotalPnL,
		"max_drawdown": summary.MaxDrawdown,
		"sharpe_ratio": summary.SharpeRatio,
		"entries":      summary.Entries,
		"steps":        summary.Steps,
		"win_rate":     summary.WinRate,
	}).Info("Backtest completed")

	if outputPath != "" {
		if err := writeEquityCurve(outputPath, result.EquityCurve); err != nil {
			appLog.Fatalf("Failed to write equity curve: %v", err)
		}
		appLog.WithField("path", outputPath).Info("Equity curve written")
	}

	fmt.Println(summary.ToJSON())
}

func newLogger() *logrus.Logger {
	log := logger.NewLogger("info")
	return log
}

func loadConfigWithSecrets(path string, appLog *logrus.Logger) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		appLog.Fatalf("Failed to load config: %v", err)
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			appLog.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			appLog.Fatalf("Failed to load secrets: %v", err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		appLog.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

func resolvePair(cfg *config.Config, name string, appLog *logrus.Logger) models.Pair {
	if name == "" {
		first := cfg.Pairs[0]
		return models.Pair{SymbolY: first.SymbolY, SymbolX: first.SymbolX}
	}

	legs := strings.Split(name, "/")
	if len(legs) != 2 || legs[0] == "" || legs[1] == "" {
		appLog.Fatalf("Invalid pair %q: expected SYMBOLY/SYMBOLX", name)
	}
	return models.Pair{
		SymbolY: strings.ToUpper(legs[0]),
		SymbolX: strings.ToUpper(legs[1]),
	}
}

// buildZScoreSeries loads both legs, aligns them, and recomputes the rolling
// z-score over the full lookback so the simulator sees the same sequence the
// analyzer produced snapshot by snapshot.
func buildZScoreSeries(
	ctx context.Context,
	cfg *config.Config,
	repos *repository.Repositories,
	pair models.Pair,
	window int,
	estimatorName string,
) (timeseries.Series, int, error) {
	interval, err := cfg.Ingestion.Interval()
	if err != nil {
		return nil, 0, err
	}

	y, err := loadCloses(ctx, repos, pair.SymbolY, interval.String(), cfg.Analytics.LookbackBars)
	if err != nil {
		return nil, 0, err
	}
	x, err := loadCloses(ctx, repos, pair.SymbolX, interval.String(), cfg.Analytics.LookbackBars)
	if err != nil {
		return nil, 0, err
	}

	y, x = timeseries.Intersect(y, x)
	if len(y) <= window {
		return nil, 0, fmt.Errorf("only %d overlapping bars for window %d", len(y), window)
	}

	var est analytics.Estimator
	switch estimatorName {
	case "huber":
		est = analytics.NewHuberEstimator()
	case "filter":
		est = analytics.NewFilterEstimator()
	default:
		return nil, 0, fmt.Errorf("unknown estimator: %q", estimatorName)
	}

	ratio, err := est.Estimate(y, x)
	if err != nil {
		return nil, 0, err
	}

	_, zscore, err := analytics.ComputeSpread(y, x, ratio, window)
	if err != nil {
		return nil, 0, err
	}

	return zscore, len(y), nil
}

func loadCloses(ctx context.Context, repos *repository.Repositories, symbol, interval string, lookback int) (timeseries.Series, error) {
	bars, err := repos.Bar.GetLatest(ctx, symbol, interval, lookback)
	if err != nil {
		return nil, err
	}

	series := make(timeseries.Series, 0, len(bars))
	for _, bar := range bars {
		series = append(series, timeseries.Point{Time: bar.BucketStart, Value: bar.Close})
	}
	return series, nil
}

func writeEquityCurve(path string, curve backtest.EquityCurve) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(curve.ToCSV()), 0o644)
}
