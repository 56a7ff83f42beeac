package binance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRESTClientGetKlines(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/klines", r.URL.Path)
		assert.Equal(t, "BTCUSDT", r.URL.Query().Get("symbol"))
		assert.Equal(t, "1m", r.URL.Query().Get("interval"))
		assert.Equal(t, "2", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			[1709294400000,"65000.00","65100.00","64900.00","65050.00","12.3",1709294459999,"0",1,"0","0","0"],
			[1709294460000,"65050.00","65200.00","65000.00","65150.00","8.1",1709294519999,"0",1,"0","0","0"]
		]`))
	}))
	defer server.Close()

	httpClient := NewRateLimitedHTTPClient(DefaultHTTPClientConfig(), quietLogger())
	defer httpClient.Close()

	client := NewRESTClient(server.URL, httpClient, quietLogger())

	bars, err := client.GetKlines(context.Background(), "btcusdt", time.Minute, 2)
	require.NoError(t, err)
	require.Len(t, bars, 2)

	assert.Equal(t, "BTCUSDT", bars[0].Symbol)
	assert.Equal(t, "1m0s", bars[0].Interval)
	assert.Equal(t, 65000.0, bars[0].Open)
	assert.Equal(t, 65150.0, bars[1].Close)
}

func TestRESTClientRejectsUnsupportedInterval(t *testing.T) {
	httpClient := NewRateLimitedHTTPClient(DefaultHTTPClientConfig(), quietLogger())
	defer httpClient.Close()

	client := NewRESTClient("http://localhost:0", httpClient, quietLogger())

	_, err := client.GetKlines(context.Background(), "BTCUSDT", 7*time.Second, 10)
	assert.Error(t, err)
}

func TestRESTClientRejectsBadLimit(t *testing.T) {
	httpClient := NewRateLimitedHTTPClient(DefaultHTTPClientConfig(), quietLogger())
	defer httpClient.Close()

	client := NewRESTClient("http://localhost:0", httpClient, quietLogger())

	_, err := client.GetKlines(context.Background(), "BTCUSDT", time.Minute, 0)
	assert.Error(t, err)

	_, err = client.GetKlines(context.Background(), "BTCUSDT", time.Minute, 1001)
	assert.Error(t, err)
}

func TestRESTClientSurfacesHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte(`{"code":-1121,"msg":"Invalid symbol."}`))
	}))
	defer server.Close()

	httpClient := NewRateLimitedHTTPClient(DefaultHTTPClientConfig(), quietLogger())
	defer httpClient.Close()

	client := NewRESTClient(server.URL, httpClient, quietLogger())

	_, err := client.GetKlines(context.Background(), "NOPEUSDT", time.Minute, 10)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "418")
}
