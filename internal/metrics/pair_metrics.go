// Package metrics defines pair-analytics-specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Pair analytics gauge vectors
var (
	PairZScore = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "pairwatch",
		Name:      "pair_zscore",
		Help:      "Latest rolling z-score of the spread for each pair",
	}, []string{"pair"})
	PairHedgeRatio = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "pairwatch",
		Name:      "pair_hedge_ratio",
		Help:      "Latest estimated hedge ratio for each pair",
	}, []string{"pair", "estimator"})
	PairCorrelation = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "pairwatch",
		Name:      "pair_correlation",
		Help:      "Latest rolling correlation between pair legs",
	}, []string{"pair"})
	PairStationarityPValue = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "pairwatch",
		Name:      "pair_stationarity_pvalue",
		Help:      "Latest spread stationarity test p-value for each pair",
	}, []string{"pair"})
)

// UpdatePairZScore updates the z-score gauge for a pair.
func UpdatePairZScore(pair string, z float64) {
	PairZScore.WithLabelValues(pair).Set(z)
}

// UpdatePairHedgeRatio updates the hedge ratio gauge for a pair.
func UpdatePairHedgeRatio(pair, estimator string, ratio float64) {
	PairHedgeRatio.WithLabelValues(pair, estimator).Set(ratio)
}

// UpdatePairCorrelation updates the rolling correlation gauge for a pair.
func UpdatePairCorrelation(pair string, corr float64) {
	PairCorrelation.WithLabelValues(pair).Set(corr)
}

// UpdatePairStationarity updates the stationarity p-value gauge for a pair.
func UpdatePairStationarity(pair string, pvalue float64) {
	PairStationarityPValue.WithLabelValues(pair).Set(pvalue)
}
