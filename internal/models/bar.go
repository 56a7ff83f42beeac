package models

import "time"

// Bar represents an OHLCV bar resampled from ticks
type Bar struct {
	BucketStart time.Time `json:"bucket_start"`
	Symbol      string    `json:"symbol"`
	Interval    string    `json:"interval"`
	Open        float64   `json:"open"`
	High        float64   `json:"high"`
	Low         float64   `json:"low"`
	Close       float64   `json:"close"`
	Volume      float64   `json:"volume"`
}
