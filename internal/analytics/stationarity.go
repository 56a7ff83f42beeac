package analytics

import (
	"fmt"
	"math"

	"github.com/yourusername/pairwatch/internal/timeseries"
)

// StationarityResult holds the outcome of the augmented unit-root test.
// Interpreting the p-value against a significance level (conventionally
// 0.05) is the caller's decision, not a constant of the engine.
type StationarityResult struct {
	Statistic    float64 `json:"statistic"`
	PValue       float64 `json:"p_value"`
	Lags         int     `json:"lags"`
	Observations int     `json:"observations"`
}

// TestStationarity runs an augmented Dickey-Fuller test with a constant
// term on the series, dropping undefined values first. The lag order comes
// from Schwert's rule, reduced if the sample cannot support it.
func TestStationarity(spread timeseries.Series) (StationarityResult, error) {
	v := spread.DropUndefined().Values()
	n := len(v)
	if n < 6 {
		return StationarityResult{}, fmt.Errorf("%w: unit-root test needs at least 6 defined points, got %d", ErrInsufficientData, n)
	}

	lag := int(12 * math.Pow(float64(n)/100, 0.25))
	for lag > 0 && n-1-lag < lag+3 {
		lag--
	}

	rows := n - 1 - lag
	k := lag + 2
	if rows-k < 1 {
		return StationarityResult{}, fmt.Errorf("%w: %d usable rows for %d regressors", ErrInsufficientData, rows, k)
	}

	// First differences: diff[j] = v[j+1] - v[j].
	diff := make([]float64, n-1)
	for j := range diff {
		diff[j] = v[j+1] - v[j]
	}

	// Regression of diff[j] on [1, level v[j], diff[j-1..j-lag]].
	design := make([][]float64, rows)
	target := make([]float64, rows)
	for i := 0; i < rows; i++ {
		j := i + lag
		row := make([]float64, k)
		row[0] = 1
		row[1] = v[j]
		for l := 1; l <= lag; l++ {
			row[1+l] = diff[j-l]
		}
		design[i] = row
		target[i] = diff[j]
	}

	beta, covDiag, ssr, err := olsWithCovariance(design, target)
	if err != nil {
		return StationarityResult{}, err
	}

	s2 := ssr / float64(rows-k)
	se := math.Sqrt(s2 * covDiag[1])
	if se == 0 {
		return StationarityResult{}, fmt.Errorf("%w: degenerate regression", ErrInsufficientData)
	}

	tau := beta[1] / se
	return StationarityResult{
		Statistic:    tau,
		PValue:       mackinnonPValue(tau),
		Lags:         lag,
		Observations: rows,
	}, nil
}

// olsWithCovariance solves ordinary least squares via the normal equations
// and returns the coefficients, the diagonal of (X'X)^-1, and the residual
// sum of squares.
func olsWithCovariance(design [][]float64, target []float64) (beta, covDiag []float64, ssr float64, err error) {
	rows := len(design)
	k := len(design[0])

	xtx := make([][]float64, k)
	xty := make([]float64, k)
	for a := 0; a < k; a++ {
		xtx[a] = make([]float64, k)
		for b := 0; b < k; b++ {
			sum := 0.0
			for i := 0; i < rows; i++ {
				sum += design[i][a] * design[i][b]
			}
			xtx[a][b] = sum
		}
		sum := 0.0
		for i := 0; i < rows; i++ {
			sum += design[i][a] * target[i]
		}
		xty[a] = sum
	}

	inv, err := invertMatrix(xtx)
	if err != nil {
		return nil, nil, 0, err
	}

	beta = make([]float64, k)
	for a := 0; a < k; a++ {
		for b := 0; b < k; b++ {
			beta[a] += inv[a][b] * xty[b]
		}
	}

	covDiag = make([]float64, k)
	for a := 0; a < k; a++ {
		covDiag[a] = inv[a][a]
	}

	for i := 0; i < rows; i++ {
		fitted := 0.0
		for a := 0; a < k; a++ {
			fitted += design[i][a] * beta[a]
		}
		res := target[i] - fitted
		ssr += res * res
	}
	return beta, covDiag, ssr, nil
}

// invertMatrix performs Gauss-Jordan elimination with partial pivoting.
func invertMatrix(m [][]float64) ([][]float64, error) {
	k := len(m)
	aug := make([][]float64, k)
	for i := 0; i < k; i++ {
		aug[i] = make([]float64, 2*k)
		copy(aug[i], m[i])
		aug[i][k+i] = 1
	}

	for col := 0; col < k; col++ {
		pivot := col
		for r := col + 1; r < k; r++ {
			if math.Abs(aug[r][col]) > math.Abs(aug[pivot][col]) {
				pivot = r
			}
		}
		if aug[pivot][col] == 0 {
			return nil, fmt.Errorf("%w: singular regression matrix", ErrInsufficientData)
		}
		aug[col], aug[pivot] = aug[pivot], aug[col]

		scale := aug[col][col]
		for c := 0; c < 2*k; c++ {
			aug[col][c] /= scale
		}
		for r := 0; r < k; r++ {
			if r == col || aug[r][col] == 0 {
				continue
			}
			factor := aug[r][col]
			for c := 0; c < 2*k; c++ {
				aug[r][c] -= factor * aug[col][c]
			}
		}
	}

	inv := make([][]float64, k)
	for i := 0; i < k; i++ {
		inv[i] = aug[i][k:]
	}
	return inv, nil
}

// Asymptotic quantiles of the Dickey-Fuller tau distribution for the
// constant-only regression (MacKinnon). The p-value interpolates linearly
// between knots and clamps at the extremes.
var (
	tauKnots = []float64{-3.43, -3.12, -2.86, -2.57, -1.57, -0.44, -0.07, 0.23, 0.60}
	pKnots   = []float64{0.01, 0.025, 0.05, 0.10, 0.50, 0.90, 0.95, 0.975, 0.99}
)

func mackinnonPValue(tau float64) float64 {
	if tau <= tauKnots[0] {
		slope := (pKnots[1] - pKnots[0]) / (tauKnots[1] - tauKnots[0])
		return math.Max(0.001, pKnots[0]+(tau-tauKnots[0])*slope)
	}
	last := len(tauKnots) - 1
	if tau >= tauKnots[last] {
		slope := (pKnots[last] - pKnots[last-1]) / (tauKnots[last] - tauKnots[last-1])
		return math.Min(0.999, pKnots[last]+(tau-tauKnots[last])*slope)
	}
	for i := 1; i <= last; i++ {
		if tau <= tauKnots[i] {
			frac := (tau - tauKnots[i-1]) / (tauKnots[i] - tauKnots[i-1])
			return pKnots[i-1] + frac*(pKnots[i]-pKnots[i-1])
		}
	}
	return pKnots[last]
}
