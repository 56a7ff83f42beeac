package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pairwatch/internal/models"
)

// intervalNames maps bar durations to the exchange kline interval labels
var intervalNames = map[time.Duration]string{
	time.Minute:      "1m",
	3 * time.Minute:  "3m",
	5 * time.Minute:  "5m",
	15 * time.Minute: "15m",
	30 * time.Minute: "30m",
	time.Hour:        "1h",
	4 * time.Hour:    "4h",
	24 * time.Hour:   "1d",
}

// RESTClient fetches historical klines from the exchange REST API
type RESTClient struct {
	baseURL string
	http    *RateLimitedHTTPClient
	logger  *logrus.Logger
}

// NewRESTClient creates a new REST backfill client
func NewRESTClient(baseURL string, httpClient *RateLimitedHTTPClient, logger *logrus.Logger) *RESTClient {
	if logger == nil {
		logger = logrus.New()
	}

	return &RESTClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger,
	}
}

// GetKlines fetches up to limit historical bars for a symbol. The returned
// bars carry the Go duration string of the interval so they line up with
// locally resampled bars.
func (c *RESTClient) GetKlines(ctx context.Context, symbol string, interval time.Duration, limit int) ([]*models.Bar, error) {
	name, ok := intervalNames[interval]
	if !ok {
		return nil, fmt.Errorf("unsupported kline interval: %s", interval)
	}
	if limit <= 0 || limit > 1000 {
		return nil, fmt.Errorf("kline limit must be in (0, 1000]: got %d", limit)
	}

	params := url.Values{}
	params.Set("symbol", strings.ToUpper(symbol))
	params.Set("interval", name)
	params.Set("limit", strconv.Itoa(limit))

	endpoint := fmt.Sprintf("%s/api/v3/klines?%s", c.baseURL, params.Encode())

	resp, err := c.http.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("klines request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("klines request returned %d: %s", resp.StatusCode, string(body))
	}

	var klines []Kline
	if err := json.NewDecoder(resp.Body).Decode(&klines); err != nil {
		return nil, fmt.Errorf("failed to decode klines response: %w", err)
	}

	bars := make([]*models.Bar, 0, len(klines))
	for i := range klines {
		bars = append(bars, klines[i].ToBar(symbol, interval.String()))
	}

	c.logger.Debugf("Fetched %d klines for %s %s", len(bars), symbol, name)
	return bars, nil
}
