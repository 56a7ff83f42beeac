// Package resample aggregates raw ticks into fixed-interval OHLCV bars.
package resample

import (
	"fmt"
	"sort"
	"time"

	"github.com/yourusername/pairwatch/internal/models"
)

// Resample buckets ticks for one symbol into OHLCV bars of the given
// interval. Buckets with no ticks produce no bar; gaps are never filled or
// interpolated. Input ticks may arrive unsorted and are ordered by time
// before aggregation.
func Resample(ticks []models.Tick, symbol string, interval time.Duration) ([]models.Bar, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("interval must be positive: got %s", interval)
	}
	if len(ticks) == 0 {
		return nil, nil
	}

	sorted := make([]models.Tick, 0, len(ticks))
	for _, t := range ticks {
		if t.Symbol == symbol {
			sorted = append(sorted, t)
		}
	}
	if len(sorted) == 0 {
		return nil, nil
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	label := interval.String()
	var bars []models.Bar
	var current *models.Bar

	for _, tick := range sorted {
		bucket := tick.Time.Truncate(interval)
		if current == nil || !current.BucketStart.Equal(bucket) {
			if current != nil {
				bars = append(bars, *current)
			}
			current = &models.Bar{
				BucketStart: bucket,
				Symbol:      symbol,
				Interval:    label,
				Open:        tick.Price,
				High:        tick.Price,
				Low:         tick.Price,
				Close:       tick.Price,
				Volume:      tick.Qty,
			}
			continue
		}

		if tick.Price > current.High {
			current.High = tick.Price
		}
		if tick.Price < current.Low {
			current.Low = tick.Price
		}
		current.Close = tick.Price
		current.Volume += tick.Qty
	}
	if current != nil {
		bars = append(bars, *current)
	}

	return bars, nil
}

// LiquidityFilter removes bars whose volume is below the minimum. Thin bars
// distort rolling statistics more than their absence does.
func LiquidityFilter(bars []models.Bar, minVolume float64) []models.Bar {
	if minVolume <= 0 {
		return bars
	}
	out := make([]models.Bar, 0, len(bars))
	for _, b := range bars {
		if b.Volume >= minVolume {
			out = append(out, b)
		}
	}
	return out
}
