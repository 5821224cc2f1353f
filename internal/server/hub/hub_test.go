package hub

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/thriftedhq/thrifted/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(url, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestBroadcast_ReachesAllClients(t *testing.T) {
	h := New(testLogger())
	defer h.Close()

	srv := httptest.NewServer(h)
	defer srv.Close()

	c1 := dial(t, srv.URL)
	c2 := dial(t, srv.URL)

	// give the server a moment to register both connections
	require.Eventually(t, func() bool {
		h.mu.Lock()
		defer h.mu.Unlock()
		return len(h.clients) == 2
	}, time.Second, 10*time.Millisecond)

	h.Broadcast(context.Background(), Event{Type: "newProduct", Data: map[string]string{"id": "p-1"}})

	for _, conn := range []*websocket.Conn{c1, c2} {
		conn.SetReadDeadline(time.Now().Add(time.Second))
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)

		var ev struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		}
		require.NoError(t, json.Unmarshal(msg, &ev))
		require.Equal(t, "newProduct", ev.Type)
		require.JSONEq(t, `{"id":"p-1"}`, string(ev.Data))
	}
}

func TestBroadcast_DisconnectedClientIsDropped(t *testing.T) {
	h := New(testLogger())
	defer h.Close()

	srv := httptest.NewServer(h)
	defer srv.Close()

	conn := dial(t, srv.URL)
	require.Eventually(t, func() bool {
		h.mu.Lock()
		defer h.mu.Unlock()
		return len(h.clients) == 1
	}, time.Second, 10*time.Millisecond)

	conn.Close()

	require.Eventually(t, func() bool {
		h.mu.Lock()
		defer h.mu.Unlock()
		return len(h.clients) == 0
	}, time.Second, 10*time.Millisecond)

	// broadcasting with nobody connected must not block or panic
	h.Broadcast(context.Background(), Event{Type: "newProduct", Data: nil})
}
