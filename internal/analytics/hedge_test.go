package analytics

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/yourusername/pairwatch/internal/timeseries"
)

func makeSeries(values ...float64) timeseries.Series {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	s := make(timeseries.Series, len(values))
	for i, v := range values {
		s[i] = timeseries.Point{Time: base.Add(time.Duration(i) * time.Minute), Value: v}
	}
	return s
}

func TestHuberRecoversSlopeOnCleanData(t *testing.T) {
	x := makeSeries(1, 2, 3, 4, 5, 6, 7, 8)
	y := make(timeseries.Series, len(x))
	for i, p := range x {
		y[i] = timeseries.Point{Time: p.Time, Value: 3*p.Value + 1}
	}

	ratio, err := NewHuberEstimator().Estimate(y, x)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ratio.Static() {
		t.Fatalf("expected static ratio")
	}
	if math.Abs(ratio.Latest()-3) > 1e-9 {
		t.Fatalf("expected slope 3, got %f", ratio.Latest())
	}
}

func TestHuberDownWeightsOutlier(t *testing.T) {
	n := 21
	x := make(timeseries.Series, n)
	y := make(timeseries.Series, n)
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		ts := base.Add(time.Duration(i) * time.Minute)
		xv := 1 + float64(i)*0.5
		x[i] = timeseries.Point{Time: ts, Value: xv}
		y[i] = timeseries.Point{Time: ts, Value: 2 * xv}
	}
	// One wild observation should barely move the fit.
	y[10].Value += 50

	ratio, err := NewHuberEstimator().Estimate(y, x)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(ratio.Latest()-2) > 0.25 {
		t.Fatalf("expected slope near 2 despite outlier, got %f", ratio.Latest())
	}
}

func TestHuberInsufficientData(t *testing.T) {
	_, err := NewHuberEstimator().Estimate(makeSeries(1), makeSeries(2))
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestFilterFirstEstimateIsZero(t *testing.T) {
	for _, n := range []int{1, 2, 10} {
		values := make([]float64, n)
		for i := range values {
			values[i] = float64(i + 1)
		}
		x := makeSeries(values...)
		y := make(timeseries.Series, n)
		for i, p := range x {
			y[i] = timeseries.Point{Time: p.Time, Value: 1.5 * p.Value}
		}

		ratio, err := NewFilterEstimator().Estimate(y, x)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := ratio.Path()[0].Value; got != 0 {
			t.Fatalf("n=%d: expected first estimate exactly 0, got %f", n, got)
		}
		if ratio.Len() != n {
			t.Fatalf("n=%d: expected path of %d entries, got %d", n, n, ratio.Len())
		}
	}
}

func TestFilterConvergesToTrueRatio(t *testing.T) {
	n := 200
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	x := make(timeseries.Series, n)
	y := make(timeseries.Series, n)
	for i := 0; i < n; i++ {
		ts := base.Add(time.Duration(i) * time.Minute)
		xv := 1 + 0.2*math.Sin(float64(i)/7)
		x[i] = timeseries.Point{Time: ts, Value: xv}
		y[i] = timeseries.Point{Time: ts, Value: 2 * xv}
	}

	ratio, err := NewFilterEstimator().Estimate(y, x)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(ratio.Latest()-2) > 0.01 {
		t.Fatalf("expected ratio near 2, got %f", ratio.Latest())
	}
}

func TestFilterAllZeroXNeverUpdates(t *testing.T) {
	x := makeSeries(0, 0, 0, 0, 0)
	y := makeSeries(1, 2, 3, 4, 5)

	ratio, err := NewFilterEstimator().Estimate(y, x)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, p := range ratio.Path() {
		if p.Value != 0 {
			t.Fatalf("expected ratio 0 at index %d, got %f", i, p.Value)
		}
	}
}

func TestEstimateRejectsMisalignedSeries(t *testing.T) {
	y := makeSeries(1, 2, 3)
	x := makeSeries(1, 2, 3)
	x[1].Time = x[1].Time.Add(30 * time.Second)

	_, err := NewFilterEstimator().Estimate(y, x)
	if !errors.Is(err, timeseries.ErrMisaligned) {
		t.Fatalf("expected ErrMisaligned, got %v", err)
	}

	_, err = NewHuberEstimator().Estimate(y, makeSeries(1, 2))
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
}
