package analytics

import (
	"errors"
	"testing"

	"github.com/yourusername/pairwatch/internal/timeseries"
)

func TestComputeSpreadZeroRatioReducesToY(t *testing.T) {
	y := makeSeries(10, 11, 12, 13)
	x := makeSeries(5, 6, 7, 8)

	spread, _, err := ComputeSpread(y, x, StaticRatio(0), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range spread {
		if spread[i].Value != y[i].Value {
			t.Fatalf("expected spread to equal y at %d: %f vs %f", i, spread[i].Value, y[i].Value)
		}
	}
}

func TestZScoreLeadingUndefined(t *testing.T) {
	y := makeSeries(10, 12, 11, 14, 13, 16, 15)
	x := makeSeries(1, 1, 1, 1, 1, 1, 1)
	window := 3

	_, z, err := ComputeSpread(y, x, StaticRatio(1), window)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < window-1; i++ {
		if timeseries.Defined(z[i].Value) {
			t.Fatalf("expected undefined z at leading index %d", i)
		}
	}
	for i := window - 1; i < len(z); i++ {
		if !timeseries.Defined(z[i].Value) {
			t.Fatalf("expected defined z at index %d", i)
		}
	}
}

func TestZScoreUndefinedOnConstantSpread(t *testing.T) {
	y := makeSeries(5, 5, 5, 5, 5)
	x := makeSeries(0, 0, 0, 0, 0)

	_, z, err := ComputeSpread(y, x, StaticRatio(1), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range z {
		if timeseries.Defined(z[i].Value) {
			t.Fatalf("expected undefined z for zero-variance window at index %d", i)
		}
	}
}

func TestComputeSpreadTimeVaryingRatio(t *testing.T) {
	y := makeSeries(10, 20, 30)
	x := makeSeries(2, 4, 5)
	path := makeSeries(1, 2, 3)

	spread, _, err := ComputeSpread(y, x, PathRatio(path), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{8, 12, 15}
	for i := range spread {
		if spread[i].Value != want[i] {
			t.Fatalf("expected spread %f at %d, got %f", want[i], i, spread[i].Value)
		}
	}
}

func TestComputeSpreadRejectsBadWindow(t *testing.T) {
	y := makeSeries(1, 2)
	x := makeSeries(1, 2)
	_, _, err := ComputeSpread(y, x, StaticRatio(1), 1)
	if !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("expected ErrInvalidWindow, got %v", err)
	}
}
