// Package config provides configuration management for the Pairwatch application.
package config

import (
	"fmt"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

var symbolPattern = regexp.MustCompile(`^[A-Z0-9]{2,20}$`)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	// Register custom validation functions
	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("symbol", validateSymbol)
	_ = v.RegisterValidation("interval", validateInterval)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	// Additional cross-field validations
	if err := validateCrossField(cfg); err != nil {
		return err
	}

	return nil
}

// validateEnvironment validates the environment field
func validateEnvironment(fl validator.FieldLevel) bool {
	env := fl.Field().String()
	switch env {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

// validateLogLevel validates the log level field
func validateLogLevel(fl validator.FieldLevel) bool {
	level := fl.Field().String()
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateSymbol validates exchange symbol names
func validateSymbol(fl validator.FieldLevel) bool {
	return symbolPattern.MatchString(fl.Field().String())
}

// validateInterval validates duration strings such as "1m" or "5m"
func validateInterval(fl validator.FieldLevel) bool {
	d, err := time.ParseDuration(fl.Field().String())
	return err == nil && d > 0
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	// Backtest thresholds: entries must be strictly wider than exits
	if cfg.Backtest.ExitZ < 0 {
		return fmt.Errorf("backtest exit_z must be non-negative")
	}
	if cfg.Backtest.EntryZ <= cfg.Backtest.ExitZ {
		return fmt.Errorf("backtest entry_z must be greater than exit_z")
	}

	// Every monitored pair must reference ingested symbols
	ingested := make(map[string]bool, len(cfg.Ingestion.Symbols))
	for _, s := range cfg.Ingestion.Symbols {
		ingested[s] = true
	}
	for _, p := range cfg.Pairs {
		if p.SymbolY == p.SymbolX {
			return fmt.Errorf("pair %s/%s references the same symbol on both legs", p.SymbolY, p.SymbolX)
		}
		if !ingested[p.SymbolY] {
			return fmt.Errorf("pair leg %s is not in ingestion.symbols", p.SymbolY)
		}
		if !ingested[p.SymbolX] {
			return fmt.Errorf("pair leg %s is not in ingestion.symbols", p.SymbolX)
		}
	}

	// The analysis lookback must cover at least one full rolling window
	if cfg.Analytics.LookbackBars < cfg.Analytics.Window {
		return fmt.Errorf("analytics lookback_bars must be at least the rolling window")
	}

	// Spread width alerts need a positive threshold when enabled
	if cfg.Alerts.SpreadWidthEnabled && cfg.Alerts.SpreadWidthThreshold <= 0 {
		return fmt.Errorf("spread_width_threshold must be positive when spread width alerts are enabled")
	}

	// Validate production environment requirements
	if cfg.IsProduction() {
		if cfg.Database.SSLMode == "disable" {
			return fmt.Errorf("production environment requires SSL mode to be 'require' or 'verify-full'")
		}
	}

	// Validate connection pool settings
	if cfg.Database.MaxIdleConnections > cfg.Database.MaxConnections {
		return fmt.Errorf("max_idle_connections cannot exceed max_connections")
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg string
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required":
			errMsg += fmt.Sprintf("- Field '%s' is required\n", field)
		case "url":
			errMsg += fmt.Sprintf("- Field '%s' must be a valid URL, got '%v'\n", field, value)
		case "min", "max":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "symbol":
			errMsg += fmt.Sprintf("- Field '%s' must be an uppercase exchange symbol, got '%v'\n", field, value)
		case "interval":
			errMsg += fmt.Sprintf("- Field '%s' must be a positive duration such as '1m', got '%v'\n", field, value)
		case "oneof":
			errMsg += fmt.Sprintf("- Field '%s' has invalid value '%v'\n", field, value)
		default:
			errMsg += fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", errMsg)
}

// ValidateEnvironment validates environment-specific requirements
func ValidateEnvironment(cfg *Config) error {
	if cfg.IsProduction() {
		// Production must have SSL enabled
		if cfg.Database.SSLMode == "disable" {
			return fmt.Errorf("production environment requires database SSL mode to be 'require' or 'verify-full'")
		}

		// Production should not run against placeholder credentials
		if isTestCredential(cfg.Database.Password) {
			return fmt.Errorf("production environment should not use placeholder database credentials")
		}
	}

	return nil
}

// isTestCredential checks if a credential looks like a test credential
func isTestCredential(credential string) bool {
	testPatterns := []string{
		"test", "demo", "example", "placeholder", "YOUR_",
	}

	for _, pattern := range testPatterns {
		if match, _ := regexp.MatchString("(?i)"+pattern, credential); match {
			return true
		}
	}

	return false
}
