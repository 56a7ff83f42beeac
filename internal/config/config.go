// Package config provides configuration management for the Pairwatch application.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Binance   BinanceConfig   `mapstructure:"binance" validate:"required"`
	Ingestion IngestionConfig `mapstructure:"ingestion" validate:"required"`
	Pairs     []PairConfig    `mapstructure:"pairs" validate:"required,min=1,dive"`
	Analytics AnalyticsConfig `mapstructure:"analytics" validate:"required"`
	Alerts    AlertsConfig    `mapstructure:"alerts" validate:"required"`
	Backtest  BacktestConfig  `mapstructure:"backtest" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
	HealthPort  int    `mapstructure:"health_port" validate:"required,min=1,max=65535"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// BinanceConfig represents the exchange feed configuration
type BinanceConfig struct {
	StreamURL         string  `mapstructure:"stream_url" validate:"required"`
	RESTURL           string  `mapstructure:"rest_url" validate:"required,url"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"required,gt=0"`
	RequestBurst      int     `mapstructure:"request_burst" validate:"required,gt=0"`
	MaxRetries        int     `mapstructure:"max_retries" validate:"gte=0"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
}

// IngestionConfig represents tick ingestion and bar resampling configuration
type IngestionConfig struct {
	Symbols          []string `mapstructure:"symbols" validate:"required,min=2,dive,symbol"`
	BatchSize        int      `mapstructure:"batch_size" validate:"required,gt=0"`
	FlushSeconds     int      `mapstructure:"flush_seconds" validate:"required,gt=0"`
	ResampleInterval string   `mapstructure:"resample_interval" validate:"required,interval"`
	ResampleCron     string   `mapstructure:"resample_cron" validate:"required"`
	MinBarVolume     float64  `mapstructure:"min_bar_volume" validate:"gte=0"`
	BackfillBars     int      `mapstructure:"backfill_bars" validate:"gte=0"`
}

// PairConfig identifies one monitored instrument pair
type PairConfig struct {
	SymbolY string `mapstructure:"symbol_y" validate:"required,symbol"`
	SymbolX string `mapstructure:"symbol_x" validate:"required,symbol"`
}

// AnalyticsConfig represents the pair analytics engine configuration
type AnalyticsConfig struct {
	Window             int     `mapstructure:"window" validate:"required,gte=2"`
	Estimator          string  `mapstructure:"estimator" validate:"required,oneof=huber filter"`
	MaxLag             int     `mapstructure:"max_lag" validate:"required,gt=0"`
	StationarityPValue float64 `mapstructure:"stationarity_p_value" validate:"required,gt=0,lt=1"`
	AnalysisCron       string  `mapstructure:"analysis_cron" validate:"required"`
	CacheTTLSeconds    int     `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
	LookbackBars       int     `mapstructure:"lookback_bars" validate:"required,gt=0"`
}

// AlertsConfig represents the alert evaluator thresholds
type AlertsConfig struct {
	ZScoreThreshold      float64 `mapstructure:"z_threshold" validate:"required,gt=0"`
	SpreadWidthEnabled   bool    `mapstructure:"spread_width_enabled"`
	SpreadWidthThreshold float64 `mapstructure:"spread_width_threshold" validate:"gte=0"`
	CorrelationEnabled   bool    `mapstructure:"correlation_drop_enabled"`
	CorrelationThreshold float64 `mapstructure:"correlation_threshold" validate:"gte=-1,lte=1"`
}

// BacktestConfig represents backtesting configuration
type BacktestConfig struct {
	EntryZ     float64 `mapstructure:"entry_z" validate:"required,gt=0"`
	ExitZ      float64 `mapstructure:"exit_z" validate:"gte=0"`
	OutputPath string  `mapstructure:"output_path" validate:"required"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Interval returns the parsed bar interval
func (c *IngestionConfig) Interval() (time.Duration, error) {
	return time.ParseDuration(c.ResampleInterval)
}
