// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package metrics

import (
	"context"
	"sync"
)

// Counts is one variant's state at a point in time.
type Counts struct {
	Impressions float64
	Clicks      float64

	// CTR is the value stored on the last click, not a live ratio.
	CTR float64
}

// Store holds per-variant counters. Implementations must make each method
// atomic with respect to the others.
type Store interface {
	// IncrImpression adds one impression.
	IncrImpression(ctx context.Context, model string) error

	// IncrClick adds one click and stores clicks/impressions (0 when there
	// are no impressions) as the new CTR, returning it.
	IncrClick(ctx context.Context, model string) (float64, error)

	// Snapshot reads every requested model in one consistent view.
	Snapshot(ctx context.Context, models []string) (map[string]Counts, error)

	// Reset zeroes every requested model.
	Reset(ctx context.Context, models []string) error

	// Name identifies the backend in logs and health output.
	Name() string
}

func ctr(clicks, impressions float64) float64 {
	if impressions <= 0 {
		return 0
	}
	return clicks / impressions
}

// MemoryStore keeps counters in process memory.
type MemoryStore struct {
	mu     sync.Mutex
	counts map[string]Counts
}

// NewMemoryStore returns an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counts: make(map[string]Counts)}
}

// IncrImpression implements Store.
func (m *MemoryStore) IncrImpression(_ context.Context, model string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.counts[model]
	c.Impressions++
	m.counts[model] = c
	return nil
}

// IncrClick implements Store.
func (m *MemoryStore) IncrClick(_ context.Context, model string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.counts[model]
	c.Clicks++
	c.CTR = ctr(c.Clicks, c.Impressions)
	m.counts[model] = c
	return c.CTR, nil
}

// Snapshot implements Store.
func (m *MemoryStore) Snapshot(_ context.Context, models []string) (map[string]Counts, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]Counts, len(models))
	for _, name := range models {
		out[name] = m.counts[name]
	}
	return out, nil
}

// Reset implements Store.
func (m *MemoryStore) Reset(_ context.Context, models []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, name := range models {
		m.counts[name] = Counts{}
	}
	return nil
}

// Name implements Store.
func (m *MemoryStore) Name() string { return "memory" }
