// Package binance provides the exchange trade feed and REST backfill client.
package binance

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourusername/pairwatch/internal/models"
)

// TradeEvent represents a trade message from the exchange stream.
// Prices and quantities arrive as decimal strings.
type TradeEvent struct {
	EventType string `json:"e"`
	EventTime int64  `json:"E"`
	Symbol    string `json:"s"`
	TradeID   int64  `json:"t"`
	Price     string `json:"p"`
	Quantity  string `json:"q"`
	TradeTime int64  `json:"T"`
	IsMaker   bool   `json:"m"`
}

// ToTick converts a trade event into a domain tick
func (e *TradeEvent) ToTick() (*models.Tick, error) {
	price, err := decimal.NewFromString(e.Price)
	if err != nil {
		return nil, fmt.Errorf("invalid trade price %q: %w", e.Price, err)
	}

	qty, err := decimal.NewFromString(e.Quantity)
	if err != nil {
		return nil, fmt.Errorf("invalid trade quantity %q: %w", e.Quantity, err)
	}

	priceF, _ := price.Float64()
	qtyF, _ := qty.Float64()

	return &models.Tick{
		Time:    time.UnixMilli(e.TradeTime).UTC(),
		Symbol:  strings.ToUpper(e.Symbol),
		Price:   priceF,
		Qty:     qtyF,
		TradeID: e.TradeID,
	}, nil
}

// Kline represents one candlestick from the REST klines endpoint.
// The wire format is a positional JSON array.
type Kline struct {
	OpenTime time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   float64
}

// UnmarshalJSON decodes the positional kline array
func (k *Kline) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid kline payload: %w", err)
	}
	if len(raw) < 6 {
		return fmt.Errorf("kline payload has %d fields, want at least 6", len(raw))
	}

	var openTimeMs int64
	if err := json.Unmarshal(raw[0], &openTimeMs); err != nil {
		return fmt.Errorf("invalid kline open time: %w", err)
	}
	k.OpenTime = time.UnixMilli(openTimeMs).UTC()

	fields := []*float64{&k.Open, &k.High, &k.Low, &k.Close, &k.Volume}
	for i, dst := range fields {
		var s string
		if err := json.Unmarshal(raw[i+1], &s); err != nil {
			return fmt.Errorf("invalid kline field %d: %w", i+1, err)
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return fmt.Errorf("invalid kline decimal %q: %w", s, err)
		}
		*dst, _ = d.Float64()
	}

	return nil
}

// ToBar converts a kline into a domain bar
func (k *Kline) ToBar(symbol, interval string) *models.Bar {
	return &models.Bar{
		BucketStart: k.OpenTime,
		Symbol:      strings.ToUpper(symbol),
		Interval:    interval,
		Open:        k.Open,
		High:        k.High,
		Low:         k.Low,
		Close:       k.Close,
		Volume:      k.Volume,
	}
}

// StreamName returns the trade stream name for a symbol
func StreamName(symbol string) string {
	return strings.ToLower(symbol) + "@trade"
}
