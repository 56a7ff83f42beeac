// Package timeseries provides the ordered (timestamp, value) series type
// shared by the analytics engine, plus alignment and rolling-window helpers.
package timeseries

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Custom errors
var (
	ErrMisaligned = errors.New("series timestamps must be strictly increasing")
	ErrEmpty      = errors.New("series is empty")
)

// Point represents a single observation in a series
type Point struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// Series represents an ordered sequence of observations.
// Timestamps are strictly increasing with no duplicates; undefined values
// are carried as NaN and tested with Defined.
type Series []Point

// Undefined returns the marker used for missing values.
func Undefined() float64 {
	return math.NaN()
}

// Defined reports whether a value is present (not the NaN marker).
func Defined(v float64) bool {
	return !math.IsNaN(v)
}

// Validate checks that timestamps are strictly increasing.
func (s Series) Validate() error {
	for i := 1; i < len(s); i++ {
		if !s[i].Time.After(s[i-1].Time) {
			return fmt.Errorf("%w: index %d (%s) not after index %d (%s)",
				ErrMisaligned, i, s[i].Time.Format(time.RFC3339), i-1, s[i-1].Time.Format(time.RFC3339))
		}
	}
	return nil
}

// Values returns the value column.
func (s Series) Values() []float64 {
	values := make([]float64, len(s))
	for i, p := range s {
		values[i] = p.Value
	}
	return values
}

// Last returns the final point of the series.
func (s Series) Last() (Point, bool) {
	if len(s) == 0 {
		return Point{}, false
	}
	return s[len(s)-1], true
}

// LastDefined returns the most recent point carrying a defined value.
func (s Series) LastDefined() (Point, bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if Defined(s[i].Value) {
			return s[i], true
		}
	}
	return Point{}, false
}

// DropUndefined returns the series with undefined points removed.
func (s Series) DropUndefined() Series {
	out := make(Series, 0, len(s))
	for _, p := range s {
		if Defined(p.Value) {
			out = append(out, p)
		}
	}
	return out
}

// CountDefined returns the number of defined values.
func (s Series) CountDefined() int {
	n := 0
	for _, p := range s {
		if Defined(p.Value) {
			n++
		}
	}
	return n
}

// Intersect aligns two series on their common timestamps, preserving order.
// Points present in only one series are dropped, never interpolated.
func Intersect(a, b Series) (Series, Series) {
	outA := make(Series, 0, len(a))
	outB := make(Series, 0, len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].Time.Before(b[j].Time):
			i++
		case b[j].Time.Before(a[i].Time):
			j++
		default:
			outA = append(outA, a[i])
			outB = append(outB, b[j])
			i++
			j++
		}
	}
	return outA, outB
}

// RollingMean computes the mean over a trailing window. The first window-1
// positions are undefined, not zero.
func RollingMean(s Series, window int) Series {
	out := make(Series, len(s))
	for i, p := range s {
		out[i] = Point{Time: p.Time, Value: Undefined()}
		if i+1 < window {
			continue
		}
		out[i].Value = Mean(s.Values()[i+1-window : i+1])
	}
	return out
}

// RollingStd computes the sample standard deviation over a trailing window.
// The first window-1 positions are undefined.
func RollingStd(s Series, window int) Series {
	out := make(Series, len(s))
	values := s.Values()
	for i, p := range s {
		out[i] = Point{Time: p.Time, Value: Undefined()}
		if i+1 < window {
			continue
		}
		out[i].Value = SampleStd(values[i+1-window : i+1])
	}
	return out
}

// Mean returns the arithmetic mean of values.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return Undefined()
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// SampleStd returns the sample (n-1) standard deviation of values.
func SampleStd(values []float64) float64 {
	if len(values) < 2 {
		return Undefined()
	}
	mean := Mean(values)
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values) - 1)
	return math.Sqrt(variance)
}
