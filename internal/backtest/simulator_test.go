package backtest

import (
	"math"
	"testing"
	"time"

	"github.com/yourusername/pairwatch/internal/timeseries"
)

func zSeries(values ...float64) timeseries.Series {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	s := make(timeseries.Series, len(values))
	for i, v := range values {
		s[i] = timeseries.Point{Time: base.Add(time.Duration(i) * time.Minute), Value: v}
	}
	return s
}

func TestSimulateWorkedSequence(t *testing.T) {
	z := zSeries(0, 2.5, 2.5, 0.05, -2.5)

	result, err := Simulate(z, Config{EntryZ: 2.0, ExitZ: 0.1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(result.TotalPnL-2.45) > 1e-12 {
		t.Fatalf("expected pnl 2.45, got %f", result.TotalPnL)
	}

	// Curve: flat step, short entered but no move, short capturing the
	// reversion, then exited flat.
	want := []float64{0, 0, 2.45, 2.45}
	if len(result.EquityCurve) != len(want) {
		t.Fatalf("expected %d equity points, got %d", len(want), len(result.EquityCurve))
	}
	for i, w := range want {
		if math.Abs(result.EquityCurve[i].PnL-w) > 1e-12 {
			t.Fatalf("equity point %d: expected %f, got %f", i, w, result.EquityCurve[i].PnL)
		}
	}
	if result.Entries != 1 {
		t.Fatalf("expected 1 entry, got %d", result.Entries)
	}
}

func TestSimulateShortSequenceReturnsEmpty(t *testing.T) {
	for _, values := range [][]float64{{}, {1}, {1, 2, 3, 4}} {
		result, err := Simulate(zSeries(values...), Config{EntryZ: 2.0, ExitZ: 0.1})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.TotalPnL != 0 {
			t.Fatalf("expected zero pnl for %d points, got %f", len(values), result.TotalPnL)
		}
		if len(result.EquityCurve) != 0 {
			t.Fatalf("expected empty curve for %d points", len(values))
		}
	}
}

func TestSimulateDropsUndefinedValues(t *testing.T) {
	z := zSeries(0, 2.5)
	base := z[1].Time
	z = append(z, timeseries.Point{Time: base.Add(time.Minute), Value: timeseries.Undefined()})
	z = append(z,
		timeseries.Point{Time: base.Add(2 * time.Minute), Value: 2.5},
		timeseries.Point{Time: base.Add(3 * time.Minute), Value: 0.05},
		timeseries.Point{Time: base.Add(4 * time.Minute), Value: -2.5},
	)

	result, err := Simulate(z, Config{EntryZ: 2.0, ExitZ: 0.1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Identical to the worked sequence once the gap is dropped.
	if math.Abs(result.TotalPnL-2.45) > 1e-12 {
		t.Fatalf("expected pnl 2.45, got %f", result.TotalPnL)
	}
}

func TestSimulateLongSide(t *testing.T) {
	z := zSeries(0, -2.5, -2.5, -0.05, 2.5)

	result, err := Simulate(z, Config{EntryZ: 2.0, ExitZ: 0.1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Long from step 2, captures the move from -2.5 to -0.05, flat after.
	if math.Abs(result.TotalPnL-2.45) > 1e-12 {
		t.Fatalf("expected pnl 2.45, got %f", result.TotalPnL)
	}
}

func TestSimulateExitOverridesEntry(t *testing.T) {
	// Previous z of 0.05 is inside the exit band even though the position
	// was short; the exit wins and the final delta accrues nothing.
	z := zSeries(2.5, 2.5, 2.5, 0.05, -5)

	result, err := Simulate(z, Config{EntryZ: 2.0, ExitZ: 0.1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := result.EquityCurve[len(result.EquityCurve)-1]
	prev := result.EquityCurve[len(result.EquityCurve)-2]
	if last.PnL != prev.PnL {
		t.Fatalf("expected flat final step, got %f -> %f", prev.PnL, last.PnL)
	}
}

func TestSimulateRejectsInvalidThresholds(t *testing.T) {
	if _, err := Simulate(zSeries(1, 2, 3, 4, 5), Config{EntryZ: 0.1, ExitZ: 2.0}); err == nil {
		t.Fatalf("expected error for entry below exit")
	}
	if _, err := Simulate(zSeries(1, 2, 3, 4, 5), Config{EntryZ: 2.0, ExitZ: -0.1}); err == nil {
		t.Fatalf("expected error for negative exit")
	}
}

func TestPositionString(t *testing.T) {
	if Flat.String() != "flat" || Long.String() != "long" || Short.String() != "short" {
		t.Fatalf("unexpected position names")
	}
}
