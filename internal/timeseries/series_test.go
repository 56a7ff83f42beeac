package timeseries

import (
	"errors"
	"math"
	"testing"
	"time"
)

func makeSeries(start time.Time, step time.Duration, values ...float64) Series {
	s := make(Series, len(values))
	for i, v := range values {
		s[i] = Point{Time: start.Add(time.Duration(i) * step), Value: v}
	}
	return s
}

func TestValidateRejectsNonMonotonic(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s := Series{
		{Time: base, Value: 1},
		{Time: base, Value: 2},
	}
	if err := s.Validate(); !errors.Is(err, ErrMisaligned) {
		t.Fatalf("expected ErrMisaligned, got %v", err)
	}

	ok := makeSeries(base, time.Minute, 1, 2, 3)
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestIntersectKeepsCommonTimestamps(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	a := Series{
		{Time: base, Value: 1},
		{Time: base.Add(time.Minute), Value: 2},
		{Time: base.Add(3 * time.Minute), Value: 4},
	}
	b := Series{
		{Time: base.Add(time.Minute), Value: 20},
		{Time: base.Add(2 * time.Minute), Value: 30},
		{Time: base.Add(3 * time.Minute), Value: 40},
	}

	outA, outB := Intersect(a, b)
	if len(outA) != 2 || len(outB) != 2 {
		t.Fatalf("expected 2 common points, got %d/%d", len(outA), len(outB))
	}
	for i := range outA {
		if !outA[i].Time.Equal(outB[i].Time) {
			t.Fatalf("misaligned point at %d", i)
		}
	}
	if outA[0].Value != 2 || outB[0].Value != 20 {
		t.Fatalf("unexpected first common point: %v / %v", outA[0], outB[0])
	}
}

func TestRollingMeanLeadingUndefined(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	s := makeSeries(base, time.Minute, 1, 2, 3, 4)

	mean := RollingMean(s, 3)
	if Defined(mean[0].Value) || Defined(mean[1].Value) {
		t.Fatalf("expected first window-1 values undefined")
	}
	if mean[2].Value != 2 {
		t.Fatalf("expected mean 2, got %f", mean[2].Value)
	}
	if mean[3].Value != 3 {
		t.Fatalf("expected mean 3, got %f", mean[3].Value)
	}
}

func TestRollingStdSampleConvention(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	s := makeSeries(base, time.Minute, 1, 3, 1, 3)

	std := RollingStd(s, 2)
	if Defined(std[0].Value) {
		t.Fatalf("expected leading undefined value")
	}
	// Sample std of {1,3} is sqrt(2).
	want := math.Sqrt(2)
	if math.Abs(std[1].Value-want) > 1e-12 {
		t.Fatalf("expected %f, got %f", want, std[1].Value)
	}
}

func TestLastDefinedSkipsUndefined(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	s := makeSeries(base, time.Minute, 1, 2)
	s = append(s, Point{Time: base.Add(2 * time.Minute), Value: Undefined()})

	p, ok := s.LastDefined()
	if !ok || p.Value != 2 {
		t.Fatalf("expected last defined value 2, got %v ok=%v", p, ok)
	}

	if got := s.CountDefined(); got != 2 {
		t.Fatalf("expected 2 defined values, got %d", got)
	}
}
