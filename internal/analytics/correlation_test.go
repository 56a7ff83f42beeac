package analytics

import (
	"math"
	"testing"

	"github.com/yourusername/pairwatch/internal/timeseries"
)

func TestOLSRSquaredPerfectFit(t *testing.T) {
	x := makeSeries(1, 2, 3, 4, 5)
	y := makeSeries(3, 5, 7, 9, 11)

	r2, err := OLSRSquared(y, x)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(r2-1) > 1e-12 {
		t.Fatalf("expected R² of 1, got %f", r2)
	}
}

func TestRollingCorrelationPerfectlyLinear(t *testing.T) {
	x := makeSeries(1, 2, 3, 4, 5, 6)
	y := makeSeries(2, 4, 6, 8, 10, 12)

	corr, err := RollingCorrelation(x, y, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if timeseries.Defined(corr[0].Value) || timeseries.Defined(corr[1].Value) {
		t.Fatalf("expected leading window undefined")
	}
	for i := 2; i < len(corr); i++ {
		if math.Abs(corr[i].Value-1) > 1e-12 {
			t.Fatalf("expected correlation 1 at %d, got %f", i, corr[i].Value)
		}
	}
}

func TestCrossCorrelationLagZeroMatchesPearson(t *testing.T) {
	x := makeSeries(1, 3, 2, 5, 4, 7, 6)
	y := makeSeries(2, 4, 3, 8, 6, 9, 7)

	cc, err := CrossCorrelation(x, y, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := pearson(x.Values(), y.Values())
	if math.Abs(cc[0]-want) > 1e-12 {
		t.Fatalf("lag 0 cross-correlation %f != pearson %f", cc[0], want)
	}
}

func TestCrossCorrelationDetectsLead(t *testing.T) {
	// y leads x by 2 steps: x[t] = y[t-2].
	yv := []float64{1, 4, 2, 8, 3, 9, 5, 10, 6, 11}
	xv := make([]float64, len(yv))
	for i := range xv {
		if i >= 2 {
			xv[i] = yv[i-2]
		} else {
			xv[i] = 0
		}
	}
	x := makeSeries(xv...)
	y := makeSeries(yv...)

	cc, err := CrossCorrelation(x, y, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(cc[2]-1) > 1e-9 {
		t.Fatalf("expected correlation 1 at lag 2, got %f", cc[2])
	}
}

func TestCrossCorrelationUndefinedBeyondOverlap(t *testing.T) {
	x := makeSeries(1, 2, 3)
	y := makeSeries(4, 5, 6)

	cc, err := CrossCorrelation(x, y, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if timeseries.Defined(cc[3]) {
		t.Fatalf("expected undefined correlation at lag beyond overlap, got %f", cc[3])
	}
	if timeseries.Defined(cc[-3]) {
		t.Fatalf("expected undefined correlation at negative lag beyond overlap, got %f", cc[-3])
	}
	if len(cc) != 11 {
		t.Fatalf("expected 11 lags, got %d", len(cc))
	}
}
