package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yourusername/pairwatch/internal/config"
	"github.com/yourusername/pairwatch/internal/database"
	"github.com/yourusername/pairwatch/internal/models"
	"github.com/yourusername/pairwatch/internal/repository"
	"github.com/yourusername/pairwatch/internal/timeseries"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile  string
	alertLimit  int
	logger      *logrus.Logger
	cfg         *config.Config
	db          *database.DB
	repos       *repository.Repositories
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().IntVarP(&alertLimit, "alerts", "a", 10, "Number of recent alerts to show")
}

var rootCmd = &cobra.Command{
	Use:   "pair-status",
	Short: "Check monitored pair status",
	Long:  `Displays the latest analysis snapshot and recent alerts for every monitored pair.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		displayStatus()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	viper.SetConfigFile(configFile)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()
	viper.SetEnvPrefix("PAIRWATCH")

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	cfg = &config.Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return nil
}

func setupDependencies() error {
	logger = logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var err error
	db, err = database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	repos, err = repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	return nil
}

func displayStatus() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	fmt.Println("\n╔════════════════════════════════════════════════════════════════╗")
	fmt.Println("║                  Pairwatch Monitor Status                      ║")
	fmt.Println("╚════════════════════════════════════════════════════════════════╝")

	for _, p := range cfg.Pairs {
		pair := models.Pair{SymbolY: p.SymbolY, SymbolX: p.SymbolX}
		displayPair(ctx, pair)
	}

	fmt.Printf("\nRecent Alerts (last %d):\n", alertLimit)
	displayRecentAlerts(ctx)
	fmt.Println()
}

func displayPair(ctx context.Context, pair models.Pair) {
	fmt.Printf("\n%s\n", pair.Name())

	snapshot, err := repos.Snapshot.GetLatestByPair(ctx, pair.Name())
	if err == models.ErrNotFound {
		fmt.Println("  No analysis snapshot yet")
		return
	}
	if err != nil {
		fmt.Printf("  Error: %v\n", err)
		return
	}

	fmt.Printf("  As of:        %s\n", snapshot.Time.Format(time.RFC3339))
	fmt.Printf("  Hedge Ratio:  %s\n", formatMetric(snapshot.HedgeRatio))
	fmt.Printf("  Z-Score:      %s\n", formatMetric(snapshot.ZScore))
	fmt.Printf("  Spread:       %s\n", formatMetric(snapshot.Spread))
	fmt.Printf("  Correlation:  %s\n", formatMetric(snapshot.Correlation))
	fmt.Printf("  ADF p-value:  %s\n", formatMetric(snapshot.ADFPValue))
	fmt.Printf("  R-Squared:    %s\n", formatMetric(snapshot.RSquared))
	fmt.Printf("  Observations: %d (window %d)\n", snapshot.Observations, snapshot.Window)
}

func displayRecentAlerts(ctx context.Context) {
	alerts, err := repos.Alert.GetRecent(ctx, alertLimit)
	if err != nil {
		fmt.Printf("  Error: %v\n", err)
		return
	}
	if len(alerts) == 0 {
		fmt.Println("  None")
		return
	}

	for _, alert := range alerts {
		fmt.Printf("  %s  %-16s %-16s observed=%.4f threshold=%.4f\n",
			alert.Time.Format(time.RFC3339), alert.Pair, alert.Rule,
			alert.Observed, alert.Threshold)
	}
}

func formatMetric(v float64) string {
	if !timeseries.Defined(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.6f", v)
}
