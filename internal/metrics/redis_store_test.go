// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package metrics

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/tomtom215/shelfwise/internal/variant"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, "test:ctr"), mr
}

func TestRedisStore_ClickRecomputesCTR(t *testing.T) {
	t.Parallel()
	store, mr := newTestRedisStore(t)
	ctx := context.Background()
	model := variant.Collaborative.String()

	for i := 0; i < 2; i++ {
		if err := store.IncrImpression(ctx, model); err != nil {
			t.Fatalf("IncrImpression() error = %v", err)
		}
	}
	ratio, err := store.IncrClick(ctx, model)
	if err != nil {
		t.Fatalf("IncrClick() error = %v", err)
	}
	if ratio != 0.5 {
		t.Errorf("IncrClick() = %v, want 0.5", ratio)
	}

	if got := mr.HGet("test:ctr:"+model, "clicks"); got != "1" {
		t.Errorf("stored clicks = %q, want 1", got)
	}

	snap, err := store.Snapshot(ctx, []string{model, variant.ContentBased.String()})
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if c := snap[model]; c.Impressions != 2 || c.Clicks != 1 || c.CTR != 0.5 {
		t.Errorf("snapshot = %+v", c)
	}
	if c := snap[variant.ContentBased.String()]; c != (Counts{}) {
		t.Errorf("untouched variant = %+v, want zeros", c)
	}
}

func TestRedisStore_ClickWithoutImpressions(t *testing.T) {
	t.Parallel()
	store, _ := newTestRedisStore(t)

	ratio, err := store.IncrClick(context.Background(), variant.ContentBased.String())
	if err != nil {
		t.Fatalf("IncrClick() error = %v", err)
	}
	if ratio != 0 {
		t.Errorf("IncrClick() = %v, want 0", ratio)
	}
}

func TestRedisStore_Reset(t *testing.T) {
	t.Parallel()
	store, _ := newTestRedisStore(t)
	ctx := context.Background()
	names := []string{variant.Collaborative.String(), variant.ContentBased.String()}

	for _, m := range names {
		_ = store.IncrImpression(ctx, m)
		_, _ = store.IncrClick(ctx, m)
	}
	if err := store.Reset(ctx, names); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	snap, err := store.Snapshot(ctx, names)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	for _, m := range names {
		if snap[m] != (Counts{}) {
			t.Errorf("%s after reset = %+v, want zeros", m, snap[m])
		}
	}
}

func TestRedisStore_ConcurrentImpressions(t *testing.T) {
	t.Parallel()
	store, _ := newTestRedisStore(t)
	ctx := context.Background()
	model := variant.Collaborative.String()

	const callers = 200
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			_ = store.IncrImpression(ctx, model)
		}()
	}
	wg.Wait()

	snap, err := store.Snapshot(ctx, []string{model})
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if snap[model].Impressions != callers {
		t.Errorf("impressions = %v, want %d", snap[model].Impressions, callers)
	}
}

func TestRedisStore_WithAggregator(t *testing.T) {
	t.Parallel()
	store, _ := newTestRedisStore(t)
	ctx := context.Background()
	agg := NewAggregator(store)

	_ = agg.RecordImpression(ctx, variant.ContentBased)
	_ = agg.RecordClick(ctx, variant.ContentBased)

	text, err := agg.Export(ctx)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	want := `recommendations_ctr{model="content_based_recommend"} 1`
	if !contains(text, want) {
		t.Errorf("export missing %q\n%s", want, text)
	}
	if agg.Backend() != "redis" {
		t.Errorf("Backend() = %q, want redis", agg.Backend())
	}
}

func TestRedisStore_Unavailable(t *testing.T) {
	t.Parallel()
	store, mr := newTestRedisStore(t)
	mr.Close()

	if err := store.IncrImpression(context.Background(), variant.Collaborative.String()); err == nil {
		t.Error("IncrImpression() against a closed server should fail")
	}
}
