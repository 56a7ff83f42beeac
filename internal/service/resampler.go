package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pairwatch/internal/metrics"
	"github.com/yourusername/pairwatch/internal/models"
	"github.com/yourusername/pairwatch/internal/repository"
	"github.com/yourusername/pairwatch/internal/resample"
)

// BarBackfiller fetches historical bars from the exchange REST API
type BarBackfiller interface {
	GetKlines(ctx context.Context, symbol string, interval time.Duration, limit int) ([]*models.Bar, error)
}

// ResampleService turns stored ticks into OHLCV bars on a schedule
type ResampleService struct {
	tickRepo  repository.TickRepository
	barRepo   repository.BarRepository
	logger    *logrus.Logger
	interval  time.Duration
	minVolume float64
	lookback  time.Duration
}

// NewResampleService creates a new resample service. lookback bounds how far
// back each run re-reads ticks; it should cover at least two bar intervals so
// the previously open bucket gets finalized.
func NewResampleService(
	tickRepo repository.TickRepository,
	barRepo repository.BarRepository,
	logger *logrus.Logger,
	interval time.Duration,
	minVolume float64,
) *ResampleService {
	lookback := 3 * interval
	if lookback < 3*time.Minute {
		lookback = 3 * time.Minute
	}

	return &ResampleService{
		tickRepo:  tickRepo,
		barRepo:   barRepo,
		logger:    logger,
		interval:  interval,
		minVolume: minVolume,
		lookback:  lookback,
	}
}

// ResampleSymbol aggregates recent ticks for one symbol into bars and
// upserts them. Returns the number of bars written.
func (s *ResampleService) ResampleSymbol(ctx context.Context, symbol string) (int, error) {
	now := time.Now().UTC()
	start := now.Add(-s.lookback).Truncate(s.interval)

	ticks, err := s.tickRepo.GetBySymbol(ctx, symbol, start, now)
	if err != nil {
		return 0, fmt.Errorf("failed to load ticks for %s: %w", symbol, err)
	}
	if len(ticks) == 0 {
		return 0, nil
	}

	raw := make([]models.Tick, len(ticks))
	for i, t := range ticks {
		raw[i] = *t
	}

	bars, err := resample.Resample(raw, symbol, s.interval)
	if err != nil {
		return 0, fmt.Errorf("failed to resample %s: %w", symbol, err)
	}

	bars = resample.LiquidityFilter(bars, s.minVolume)
	if len(bars) == 0 {
		return 0, nil
	}

	toWrite := make([]*models.Bar, len(bars))
	for i := range bars {
		toWrite[i] = &bars[i]
	}

	if err := s.barRepo.UpsertBatch(ctx, toWrite); err != nil {
		return 0, fmt.Errorf("failed to store bars for %s: %w", symbol, err)
	}

	metrics.RecordBarsResampled(symbol, len(toWrite))
	s.logger.Debugf("Resampled %d bars for %s", len(toWrite), symbol)
	return len(toWrite), nil
}

// ResampleAll runs ResampleSymbol for every symbol, continuing past
// per-symbol failures
func (s *ResampleService) ResampleAll(ctx context.Context, symbols []string) error {
	var firstErr error
	for _, symbol := range symbols {
		if _, err := s.ResampleSymbol(ctx, symbol); err != nil {
			s.logger.Errorf("Resample failed for %s: %v", symbol, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Backfill seeds the bar store from the exchange REST API so analysis can
// start before the live stream has accumulated enough history
func (s *ResampleService) Backfill(ctx context.Context, backfiller BarBackfiller, symbols []string, limit int) error {
	if limit <= 0 {
		return nil
	}

	for _, symbol := range symbols {
		bars, err := backfiller.GetKlines(ctx, symbol, s.interval, limit)
		if err != nil {
			return fmt.Errorf("backfill failed for %s: %w", symbol, err)
		}

		if err := s.barRepo.UpsertBatch(ctx, bars); err != nil {
			return fmt.Errorf("failed to store backfill bars for %s: %w", symbol, err)
		}

		s.logger.Infof("Backfilled %d bars for %s", len(bars), symbol)
	}

	return nil
}
