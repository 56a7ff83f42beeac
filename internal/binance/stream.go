package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/pairwatch/internal/logger"
	"github.com/yourusername/pairwatch/internal/metrics"
	"github.com/yourusername/pairwatch/internal/models"
)

// TickHandler is called for each trade tick received from the stream
type TickHandler func(tick *models.Tick) error

// ReconnectConfig controls reconnection behavior
type ReconnectConfig struct {
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

// DefaultReconnectConfig returns default reconnection configuration
func DefaultReconnectConfig() ReconnectConfig {
	return ReconnectConfig{
		MaxRetries:        10,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 1.5,
	}
}

// StreamClient handles the WebSocket trade stream for one symbol
type StreamClient struct {
	conn            *websocket.Conn
	baseURL         string
	symbol          string
	mu              sync.RWMutex
	isConnected     bool
	handlers        []TickHandler
	reconnectConfig ReconnectConfig
	lastMessageTime time.Time
	logger          *logrus.Logger
	audit           *logger.AuditLogger
}

// NewStreamClient creates a new trade stream client for a symbol
func NewStreamClient(baseURL, symbol string, logger *logrus.Logger) *StreamClient {
	if logger == nil {
		logger = logrus.New()
	}

	return &StreamClient{
		baseURL:         strings.TrimRight(baseURL, "/"),
		symbol:          strings.ToUpper(symbol),
		handlers:        make([]TickHandler, 0),
		reconnectConfig: DefaultReconnectConfig(),
		logger:          logger,
		audit:           newAuditLogger(logger),
	}
}

func newAuditLogger(base *logrus.Logger) *logger.AuditLogger {
	return logger.NewAuditLogger(base)
}

// SetReconnectConfig overrides the default reconnection behavior
func (s *StreamClient) SetReconnectConfig(cfg ReconnectConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reconnectConfig = cfg
}

// Connect establishes the trade stream connection and starts reading
func (s *StreamClient) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isConnected {
		return fmt.Errorf("already connected")
	}

	wsURL := fmt.Sprintf("%s/%s", s.baseURL, StreamName(s.symbol))

	s.logger.Infof("Connecting to trade stream: %s", wsURL)

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to trade stream: %w", err)
	}

	s.conn = conn
	s.isConnected = true
	s.lastMessageTime = time.Now()

	s.logger.Infof("Connected to %s trade stream", s.symbol)

	// Start message reading loop with reconnection
	go s.readMessages(ctx)

	return nil
}

// AddHandler registers a tick handler
func (s *StreamClient) AddHandler(handler TickHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, handler)
}

// readMessages reads messages from the WebSocket connection and reconnects
// with exponential backoff when the connection drops
func (s *StreamClient) readMessages(ctx context.Context) {
	attempt := 0
	for {
		err := s.readLoop()
		if err != nil {
			s.logger.Warnf("Trade stream read error for %s: %v", s.symbol, err)
		}

		attempt++
		reason := "connection closed"
		if err != nil {
			reason = err.Error()
		}
		s.audit.LogFeedDisconnect(s.symbol, reason, attempt)

		s.mu.Lock()
		s.isConnected = false
		if s.conn != nil {
			s.conn.Close()
			s.conn = nil
		}
		s.mu.Unlock()

		if ctx.Err() != nil {
			return
		}

		if !s.reconnect(ctx) {
			s.logger.Errorf("Giving up on %s trade stream after %d reconnect attempts",
				s.symbol, s.reconnectConfig.MaxRetries)
			return
		}
	}
}

// readLoop consumes messages until the connection fails
func (s *StreamClient) readLoop() error {
	for {
		s.mu.RLock()
		conn := s.conn
		s.mu.RUnlock()
		if conn == nil {
			return fmt.Errorf("connection closed")
		}

		var raw json.RawMessage
		if err := conn.ReadJSON(&raw); err != nil {
			return err
		}

		s.mu.Lock()
		s.lastMessageTime = time.Now()
		s.mu.Unlock()

		var event TradeEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			s.logger.Warnf("Skipping malformed stream message: %v", err)
			continue
		}
		if event.EventType != "trade" {
			continue
		}

		tick, err := event.ToTick()
		if err != nil {
			s.logger.Warnf("Skipping unparseable trade: %v", err)
			continue
		}

		s.mu.RLock()
		handlers := s.handlers
		s.mu.RUnlock()

		for _, handler := range handlers {
			if err := handler(tick); err != nil {
				s.logger.Warnf("Tick handler error: %v", err)
			}
		}
	}
}

// reconnect re-establishes the connection with exponential backoff.
// Returns false when retries are exhausted or the context is done.
func (s *StreamClient) reconnect(ctx context.Context) bool {
	backoff := s.reconnectConfig.InitialBackoff

	for attempt := 1; attempt <= s.reconnectConfig.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return false
		case <-time.After(backoff):
		}

		s.logger.Infof("Reconnecting %s trade stream (attempt %d/%d)",
			s.symbol, attempt, s.reconnectConfig.MaxRetries)

		wsURL := fmt.Sprintf("%s/%s", s.baseURL, StreamName(s.symbol))
		dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}

		conn, _, err := dialer.DialContext(ctx, wsURL, nil)
		if err == nil {
			s.mu.Lock()
			s.conn = conn
			s.isConnected = true
			s.lastMessageTime = time.Now()
			s.mu.Unlock()

			metrics.RecordStreamReconnect()
			s.logger.Infof("Reconnected to %s trade stream", s.symbol)
			return true
		}

		s.logger.Warnf("Reconnect attempt %d failed: %v", attempt, err)

		backoff = time.Duration(float64(backoff) * s.reconnectConfig.BackoffMultiplier)
		if backoff > s.reconnectConfig.MaxBackoff {
			backoff = s.reconnectConfig.MaxBackoff
		}
	}

	return false
}

// IsConnected returns whether the stream is connected
func (s *StreamClient) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isConnected
}

// LastMessageTime returns the time of the last received message
func (s *StreamClient) LastMessageTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastMessageTime
}

// Symbol returns the symbol this client streams
func (s *StreamClient) Symbol() string {
	return s.symbol
}

// Close closes the stream connection
func (s *StreamClient) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}

	s.isConnected = false
	return s.conn.Close()
}
