package binance

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTradeEventToTick(t *testing.T) {
	payload := `{"e":"trade","E":1709294400123,"s":"BTCUSDT","t":987654,"p":"65123.45","q":"0.012","T":1709294400100,"m":false}`

	var event TradeEvent
	require.NoError(t, json.Unmarshal([]byte(payload), &event))

	tick, err := event.ToTick()
	require.NoError(t, err)

	assert.Equal(t, "BTCUSDT", tick.Symbol)
	assert.Equal(t, 65123.45, tick.Price)
	assert.Equal(t, 0.012, tick.Qty)
	assert.Equal(t, int64(987654), tick.TradeID)
	assert.Equal(t, time.UnixMilli(1709294400100).UTC(), tick.Time)
}

func TestTradeEventRejectsBadPrice(t *testing.T) {
	event := TradeEvent{
		EventType: "trade",
		Symbol:    "BTCUSDT",
		Price:     "not-a-number",
		Quantity:  "1",
	}

	_, err := event.ToTick()
	assert.Error(t, err)
}

func TestKlineUnmarshal(t *testing.T) {
	payload := `[1709294400000,"65000.00","65100.50","64900.25","65050.75","12.345",1709294459999,"803000.0",150,"6.0","390000.0","0"]`

	var k Kline
	require.NoError(t, json.Unmarshal([]byte(payload), &k))

	assert.Equal(t, time.UnixMilli(1709294400000).UTC(), k.OpenTime)
	assert.Equal(t, 65000.00, k.Open)
	assert.Equal(t, 65100.50, k.High)
	assert.Equal(t, 64900.25, k.Low)
	assert.Equal(t, 65050.75, k.Close)
	assert.Equal(t, 12.345, k.Volume)
}

func TestKlineUnmarshalRejectsShortArray(t *testing.T) {
	var k Kline
	err := json.Unmarshal([]byte(`[1709294400000,"65000.00"]`), &k)
	assert.Error(t, err)
}

func TestKlineToBar(t *testing.T) {
	k := Kline{
		OpenTime: time.UnixMilli(1709294400000).UTC(),
		Open:     65000, High: 65100, Low: 64900, Close: 65050, Volume: 12.3,
	}

	bar := k.ToBar("btcusdt", "1m0s")
	assert.Equal(t, "BTCUSDT", bar.Symbol)
	assert.Equal(t, "1m0s", bar.Interval)
	assert.Equal(t, k.OpenTime, bar.BucketStart)
	assert.Equal(t, 65050.0, bar.Close)
}

func TestStreamName(t *testing.T) {
	assert.Equal(t, "btcusdt@trade", StreamName("BTCUSDT"))
}
