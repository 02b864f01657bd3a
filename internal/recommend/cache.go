// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package recommend

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// snapshotCache holds built index maps keyed by kind and catalog version.
// A key never outlives its version: any catalog mutation changes the
// version, so stale snapshots are simply never looked up again and age out
// through the TTL.
type snapshotCache struct {
	items *ristretto.Cache[string, ItemIndexMap]
	users *ristretto.Cache[string, UserIndexMap]
	ttl   time.Duration
}

func newSnapshotCache(cfg CacheConfig) (*snapshotCache, error) {
	items, err := ristretto.NewCache(&ristretto.Config[string, ItemIndexMap]{
		NumCounters:        1e4,
		MaxCost:            cfg.MaxEntries,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create item map cache: %w", err)
	}
	users, err := ristretto.NewCache(&ristretto.Config[string, UserIndexMap]{
		NumCounters:        1e4,
		MaxCost:            cfg.MaxEntries,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		items.Close()
		return nil, fmt.Errorf("create user map cache: %w", err)
	}
	return &snapshotCache{items: items, users: users, ttl: cfg.TTL}, nil
}

func snapshotKey(kind string, version uint64) string {
	return kind + ":" + strconv.FormatUint(version, 10)
}

func (c *snapshotCache) getItems(version uint64) (ItemIndexMap, bool) {
	return c.items.Get(snapshotKey(kindItems, version))
}

func (c *snapshotCache) setItems(version uint64, m ItemIndexMap) {
	c.items.SetWithTTL(snapshotKey(kindItems, version), m, cost(len(m)), c.ttl)
	c.items.Wait()
}

func (c *snapshotCache) getUsers(version uint64) (UserIndexMap, bool) {
	return c.users.Get(snapshotKey(kindUsers, version))
}

func (c *snapshotCache) setUsers(version uint64, m UserIndexMap) {
	c.users.SetWithTTL(snapshotKey(kindUsers, version), m, cost(len(m)), c.ttl)
	c.users.Wait()
}

func (c *snapshotCache) close() {
	c.items.Close()
	c.users.Close()
}

// cost charges at least one unit so empty maps are still admitted.
func cost(entries int) int64 {
	if entries < 1 {
		return 1
	}
	return int64(entries)
}
