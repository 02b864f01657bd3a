// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/shelfwise/internal/metrics"
	"github.com/tomtom215/shelfwise/internal/models"
)

const (
	kindItems = "items"
	kindUsers = "users"
)

// Catalog is the read side of the book and user store. List methods must
// return entries in a stable store order.
type Catalog interface {
	ListBooks(ctx context.Context) ([]models.Book, error)
	ListUsers(ctx context.Context) ([]models.User, error)

	// Version increases on every catalog mutation.
	Version(ctx context.Context) (uint64, error)
}

// Mapper builds dense index maps from the catalog.
type Mapper struct {
	catalog Catalog
	cache   *snapshotCache // nil when caching is disabled
	logger  zerolog.Logger
}

// NewMapper creates a mapper. A nil cache config or a disabled cache
// rebuilds the maps on every call.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewMapper(catalog Catalog, cfg *CacheConfig, logger zerolog.Logger) (*Mapper, error) {
	m := &Mapper{
		catalog: catalog,
		logger:  logger.With().Str("component", "mapper").Logger(),
	}
	if cfg != nil && cfg.Enabled {
		cache, err := newSnapshotCache(*cfg)
		if err != nil {
			return nil, err
		}
		m.cache = cache
	}
	return m, nil
}

// Close releases the snapshot cache.
func (m *Mapper) Close() {
	if m.cache != nil {
		m.cache.close()
	}
}

// BuildItemMap enumerates every book and numbers them from 1.
func (m *Mapper) BuildItemMap(ctx context.Context) (ItemIndexMap, error) {
	var version uint64
	if m.cache != nil {
		v, err := m.catalog.Version(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: read version: %w", ErrCatalogUnavailable, err)
		}
		if items, ok := m.cache.getItems(v); ok {
			metrics.RecordIDMapCacheLookup(kindItems, true)
			return items, nil
		}
		metrics.RecordIDMapCacheLookup(kindItems, false)
		version = v
	}

	start := time.Now()
	books, err := m.catalog.ListBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list books: %w", ErrCatalogUnavailable, err)
	}
	items := newItemIndexMap(books)
	metrics.RecordIDMapBuild(kindItems, len(items), time.Since(start))

	if m.cache != nil {
		m.cache.setItems(version, items)
	}
	return items, nil
}

// BuildUserMap enumerates every user and numbers them from 1.
func (m *Mapper) BuildUserMap(ctx context.Context) (UserIndexMap, error) {
	var version uint64
	if m.cache != nil {
		v, err := m.catalog.Version(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: read version: %w", ErrCatalogUnavailable, err)
		}
		if users, ok := m.cache.getUsers(v); ok {
			metrics.RecordIDMapCacheLookup(kindUsers, true)
			return users, nil
		}
		metrics.RecordIDMapCacheLookup(kindUsers, false)
		version = v
	}

	start := time.Now()
	list, err := m.catalog.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list users: %w", ErrCatalogUnavailable, err)
	}
	users := newUserIndexMap(list)
	metrics.RecordIDMapBuild(kindUsers, len(users), time.Since(start))

	if m.cache != nil {
		m.cache.setUsers(version, users)
	}
	return users, nil
}

// BuildMaps builds both maps concurrently. The first failure cancels the
// other build.
func (m *Mapper) BuildMaps(ctx context.Context) (ItemIndexMap, UserIndexMap, error) {
	var (
		items ItemIndexMap
		users UserIndexMap
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = m.BuildItemMap(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		users, err = m.BuildUserMap(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	m.logger.Debug().
		Int("items", len(items)).
		Int("users", len(users)).
		Msg("index maps ready")
	return items, users, nil
}
