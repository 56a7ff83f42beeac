package binance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pairwatch/internal/models"
)

var upgrader = websocket.Upgrader{}

func newTradeServer(t *testing.T, messages []string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Logf("upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		for _, msg := range messages {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return
			}
		}

		// Hold the connection open until the client disconnects.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestStreamClientReceivesTicks(t *testing.T) {
	trade := `{"e":"trade","E":1709294400123,"s":"BTCUSDT","t":1,"p":"65000.5","q":"0.5","T":1709294400100,"m":true}`
	server := newTradeServer(t, []string{trade})
	defer server.Close()

	wsURL := strings.Replace(server.URL, "http://", "ws://", 1)
	client := NewStreamClient(wsURL, "BTCUSDT", quietLogger())

	received := make(chan *models.Tick, 1)
	client.AddHandler(func(tick *models.Tick) error {
		select {
		case received <- tick:
		default:
		}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, client.Connect(ctx))
	defer client.Close()

	select {
	case tick := <-received:
		assert.Equal(t, "BTCUSDT", tick.Symbol)
		assert.Equal(t, 65000.5, tick.Price)
		assert.Equal(t, 0.5, tick.Qty)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for tick")
	}

	assert.True(t, client.IsConnected())
}

func TestStreamClientIgnoresNonTradeMessages(t *testing.T) {
	messages := []string{
		`{"result":null,"id":1}`,
		`{"e":"aggTrade","s":"BTCUSDT","p":"1","q":"1"}`,
		`{"e":"trade","E":1,"s":"BTCUSDT","t":2,"p":"100","q":"1","T":1,"m":false}`,
	}
	server := newTradeServer(t, messages)
	defer server.Close()

	wsURL := strings.Replace(server.URL, "http://", "ws://", 1)
	client := NewStreamClient(wsURL, "BTCUSDT", quietLogger())

	received := make(chan *models.Tick, 3)
	client.AddHandler(func(tick *models.Tick) error {
		received <- tick
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, client.Connect(ctx))
	defer client.Close()

	select {
	case tick := <-received:
		assert.Equal(t, int64(2), tick.TradeID)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for tick")
	}

	// The two non-trade messages must not produce ticks.
	select {
	case tick := <-received:
		t.Fatalf("unexpected extra tick: %+v", tick)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestStreamClientDoubleConnect(t *testing.T) {
	server := newTradeServer(t, nil)
	defer server.Close()

	wsURL := strings.Replace(server.URL, "http://", "ws://", 1)
	client := NewStreamClient(wsURL, "ETHUSDT", quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, client.Connect(ctx))
	defer client.Close()

	assert.Error(t, client.Connect(ctx))
}
