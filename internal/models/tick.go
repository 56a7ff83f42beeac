// Package models defines the domain types shared across ingestion, storage,
// and analytics.
package models

import "time"

// Tick represents a single trade observation from the venue feed
type Tick struct {
	Time    time.Time `json:"time"`
	Symbol  string    `json:"symbol"`
	Price   float64   `json:"price"`
	Qty     float64   `json:"qty"`
	TradeID int64     `json:"trade_id"`
}
