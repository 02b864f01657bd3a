// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/shelfwise/internal/models"
)

func dial(t *testing.T, srv *httptest.Server, origin string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	header := http.Header{}
	if origin != "" {
		header.Set("Origin", origin)
	}
	return websocket.DefaultDialer.Dial(url, header)
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatal(err)
	}
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return msg
}

func TestHandler_StreamsSnapshotAndUpdates(t *testing.T) {
	t.Parallel()
	hub := setupHub(t, func(context.Context) ([]models.VariantMetrics, error) {
		return testSnapshot(), nil
	})
	srv := httptest.NewServer(NewHandler(hub, []string{"http://dashboard.local"}))
	defer srv.Close()

	conn, _, err := dial(t, srv, "http://dashboard.local")
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if msg := readMessage(t, conn); msg.Type != MessageTypeMetricsUpdate {
		t.Fatalf("first message type = %q", msg.Type)
	}

	hub.BroadcastMetrics(testSnapshot())
	if msg := readMessage(t, conn); msg.Type != MessageTypeMetricsUpdate {
		t.Fatalf("broadcast type = %q", msg.Type)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping"}`)); err != nil {
		t.Fatal(err)
	}
	if msg := readMessage(t, conn); msg.Type != MessageTypePong {
		t.Errorf("reply type = %q, want pong", msg.Type)
	}
}

func TestHandler_RejectsForeignOrigin(t *testing.T) {
	t.Parallel()
	hub := setupHub(t, nil)
	srv := httptest.NewServer(NewHandler(hub, []string{"http://dashboard.local"}))
	defer srv.Close()

	conn, resp, err := dial(t, srv, "http://evil.example")
	if err == nil {
		conn.Close()
		t.Fatal("expected handshake failure")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("response = %v, want 403", resp)
	}
}

func TestOriginChecker(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{"no origin header", []string{"http://a"}, "", true},
		{"listed", []string{"http://a"}, "http://a", true},
		{"unlisted", []string{"http://a"}, "http://b", false},
		{"wildcard", []string{"*"}, "http://b", true},
		{"empty list", nil, "http://b", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodGet, "/api/v1/ws/metrics", nil)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			if got := originChecker(tt.allowed)(r); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
