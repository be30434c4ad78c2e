package progress

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestBroadcastDeliversToConnectedClient(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Give the Hub a moment to register the connection before broadcasting.
	time.Sleep(50 * time.Millisecond)
	hub.Broadcast("progress", map[string]string{"phase": "headers"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	require.Contains(t, string(msg), "headers")
	require.Contains(t, string(msg), "progress")
}

func TestBroadcastWithNoClientDoesNotBlock(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()

	done := make(chan struct{})
	go func() {
		hub.Broadcast("progress", map[string]string{"phase": "headers"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Broadcast blocked with no connected client")
	}
}
