// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package websocket

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/shelfwise/internal/logging"
	"github.com/tomtom215/shelfwise/internal/models"
)

//nolint:gochecknoinits // init ensures consistent logging for tests
func init() {
	logging.Init(logging.Config{
		Level:  "info",
		Format: "console",
		Output: io.Discard,
	})
}

// setupHub creates a hub and runs it until the test ends.
func setupHub(t *testing.T, snapshot SnapshotFunc) *Hub {
	t.Helper()
	hub := NewHub(snapshot)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = hub.RunWithContext(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return hub
}

// createTestClient creates a client without a connection.
func createTestClient(hub *Hub, buffer int) *Client {
	return &Client{id: clientIDCounter.Add(1), hub: hub, send: make(chan Message, buffer)}
}

func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case msg, ok := <-c.send:
		if !ok {
			t.Fatal("send channel closed")
		}
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}
	return Message{}
}

func testSnapshot() []models.VariantMetrics {
	return []models.VariantMetrics{
		{Model: "collaborate_base_recommend", Impressions: 4, Clicks: 1, CTR: 0.25},
		{Model: "content_based_recommend", Impressions: 2, Clicks: 0, CTR: 0},
	}
}

func TestNewHub(t *testing.T) {
	t.Parallel()
	hub := NewHub(nil)
	if hub.clients == nil {
		t.Error("clients map not initialized")
	}
	if cap(hub.broadcast) != 256 {
		t.Errorf("broadcast capacity = %d, want 256", cap(hub.broadcast))
	}
	if hub.GetClientCount() != 0 {
		t.Errorf("client count = %d, want 0", hub.GetClientCount())
	}
}

func TestHub_RegisterUnregister(t *testing.T) {
	t.Parallel()
	hub := setupHub(t, nil)
	client := createTestClient(hub, 4)

	hub.register(client)
	if got := hub.GetClientCount(); got != 1 {
		t.Fatalf("client count = %d, want 1", got)
	}

	hub.unregister(client)
	if got := hub.GetClientCount(); got != 0 {
		t.Fatalf("client count = %d, want 0", got)
	}
	if _, ok := <-client.send; ok {
		t.Error("send channel should be closed after unregister")
	}

	// second unregister must not panic on the closed channel
	hub.unregister(client)
}

func TestHub_RegisterSendsSnapshot(t *testing.T) {
	t.Parallel()
	hub := setupHub(t, func(context.Context) ([]models.VariantMetrics, error) {
		return testSnapshot(), nil
	})
	client := createTestClient(hub, 4)
	hub.register(client)

	msg := receive(t, client)
	if msg.Type != MessageTypeMetricsUpdate {
		t.Fatalf("type = %q, want %q", msg.Type, MessageTypeMetricsUpdate)
	}
	snap, ok := msg.Data.([]models.VariantMetrics)
	if !ok || len(snap) != 2 || snap[0].CTR != 0.25 {
		t.Errorf("data = %#v", msg.Data)
	}
}

func TestHub_RegisterSnapshotError(t *testing.T) {
	t.Parallel()
	hub := setupHub(t, func(context.Context) ([]models.VariantMetrics, error) {
		return nil, errors.New("store down")
	})
	client := createTestClient(hub, 4)
	hub.register(client)

	if got := hub.GetClientCount(); got != 1 {
		t.Errorf("client count = %d, want 1", got)
	}
	if len(client.send) != 0 {
		t.Errorf("unexpected queued message")
	}
}

func TestHub_BroadcastMetrics(t *testing.T) {
	t.Parallel()
	hub := setupHub(t, nil)
	clients := []*Client{createTestClient(hub, 4), createTestClient(hub, 4), createTestClient(hub, 4)}
	for _, c := range clients {
		hub.register(c)
	}

	hub.BroadcastMetrics(testSnapshot())

	for i, c := range clients {
		msg := receive(t, c)
		if msg.Type != MessageTypeMetricsUpdate {
			t.Errorf("client %d type = %q", i, msg.Type)
		}
	}
}

func TestHub_SlowClientDropped(t *testing.T) {
	t.Parallel()
	hub := NewHub(nil)
	slow := createTestClient(hub, 1)
	fast := createTestClient(hub, 8)
	hub.register(slow)
	hub.register(fast)

	hub.broadcastToClients(Message{Type: MessageTypeMetricsUpdate})
	hub.broadcastToClients(Message{Type: MessageTypeMetricsUpdate})

	if got := hub.GetClientCount(); got != 1 {
		t.Fatalf("client count = %d, want 1", got)
	}
	if len(fast.send) != 2 {
		t.Errorf("fast client queued %d, want 2", len(fast.send))
	}
}

func TestHub_BroadcastChannelFull(t *testing.T) {
	t.Parallel()
	hub := NewHub(nil)
	for i := 0; i < cap(hub.broadcast)+10; i++ {
		hub.BroadcastJSON(MessageTypeMetricsUpdate, nil)
	}
	if len(hub.broadcast) != cap(hub.broadcast) {
		t.Errorf("broadcast len = %d, want %d", len(hub.broadcast), cap(hub.broadcast))
	}
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	t.Parallel()
	hub := NewHub(nil)
	client := createTestClient(hub, 4)
	hub.register(client)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- hub.RunWithContext(ctx) }()
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}
	if hub.GetClientCount() != 0 {
		t.Errorf("client count = %d, want 0", hub.GetClientCount())
	}
	if _, ok := <-client.send; ok {
		t.Error("client channel should be closed")
	}
}

func TestGetShutdownReason(t *testing.T) {
	t.Parallel()
	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	expired, cancel2 := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel2()
	<-expired.Done()

	if got := getShutdownReason(canceled); got != ShutdownReasonContextCanceled {
		t.Errorf("canceled = %q", got)
	}
	if got := getShutdownReason(expired); got != ShutdownReasonContextDeadline {
		t.Errorf("deadline = %q", got)
	}
}

func TestHub_ConcurrentRegisterBroadcast(t *testing.T) {
	t.Parallel()
	hub := setupHub(t, nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c := createTestClient(hub, 16)
			hub.register(c)
			hub.unregister(c)
		}()
		go func() {
			defer wg.Done()
			hub.BroadcastMetrics(testSnapshot())
		}()
	}
	wg.Wait()

	if got := hub.GetClientCount(); got != 0 {
		t.Errorf("client count = %d, want 0", got)
	}
}

func TestMarshalMessage(t *testing.T) {
	t.Parallel()
	data, err := MarshalMessage(Message{Type: MessageTypePong})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"type":"pong","data":null}` {
		t.Errorf("got %s", data)
	}
}
