package models

import (
	"time"

	"github.com/google/uuid"
)

// PairSnapshot captures the latest analytics values for a pair. Undefined
// metrics are carried as NaN and persisted as NULL.
type PairSnapshot struct {
	ID           uuid.UUID `json:"id"`
	Time         time.Time `json:"time"`
	Pair         string    `json:"pair"`
	HedgeRatio   float64   `json:"hedge_ratio"`
	Spread       float64   `json:"spread"`
	ZScore       float64   `json:"zscore"`
	Correlation  float64   `json:"correlation"`
	ADFStatistic float64   `json:"adf_statistic"`
	ADFPValue    float64   `json:"adf_pvalue"`
	RSquared     float64   `json:"r_squared"`
	Observations int       `json:"observations"`
	Window       int       `json:"window"`
}
