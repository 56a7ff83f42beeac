package models

import (
	"time"

	"github.com/google/uuid"
)

// AlertEvent is a persisted, triggered alert condition
type AlertEvent struct {
	ID        uuid.UUID `json:"id"`
	Time      time.Time `json:"time"`
	Pair      string    `json:"pair"`
	Rule      string    `json:"rule"`
	Observed  float64   `json:"observed"`
	Threshold float64   `json:"threshold"`
}
