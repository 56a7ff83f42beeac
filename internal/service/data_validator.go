package service

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pairwatch/internal/models"
)

// DataValidator validates tick and bar data before it reaches storage
type DataValidator struct {
	logger *logrus.Logger
}

// NewDataValidator creates a new data validator
func NewDataValidator(logger *logrus.Logger) *DataValidator {
	return &DataValidator{logger: logger}
}

// ValidateTick validates tick data for required fields and constraints
func (v *DataValidator) ValidateTick(tick *models.Tick) []string {
	var errors []string

	// Check required fields
	if tick.Symbol == "" {
		errors = append(errors, "symbol is required")
	}

	if tick.Time.IsZero() {
		errors = append(errors, "time is required")
	}

	if tick.Price <= 0 {
		errors = append(errors, fmt.Sprintf("price must be positive, got %v", tick.Price))
	}

	if tick.Qty <= 0 {
		errors = append(errors, fmt.Sprintf("qty must be positive, got %v", tick.Qty))
	}

	// Check the timestamp is not absurdly far from the clock
	now := time.Now()
	if !tick.Time.IsZero() && tick.Time.After(now.Add(time.Hour)) {
		errors = append(errors, fmt.Sprintf("tick timestamped %v in the future", tick.Time.Sub(now)))
	}

	return errors
}

// ValidateBar validates bar data for internal consistency
func (v *DataValidator) ValidateBar(bar *models.Bar) []string {
	var errors []string

	// Check required fields
	if bar.Symbol == "" {
		errors = append(errors, "symbol is required")
	}

	if bar.BucketStart.IsZero() {
		errors = append(errors, "bucket_start is required")
	}

	if bar.Interval == "" {
		errors = append(errors, "interval is required")
	}

	if bar.Volume < 0 {
		errors = append(errors, fmt.Sprintf("volume cannot be negative, got %v", bar.Volume))
	}

	// OHLC ordering constraints
	if bar.High < bar.Low {
		errors = append(errors, fmt.Sprintf("high %v below low %v", bar.High, bar.Low))
	}

	if bar.Open > bar.High || bar.Open < bar.Low {
		errors = append(errors, fmt.Sprintf("open %v outside [low, high]", bar.Open))
	}

	if bar.Close > bar.High || bar.Close < bar.Low {
		errors = append(errors, fmt.Sprintf("close %v outside [low, high]", bar.Close))
	}

	return errors
}
