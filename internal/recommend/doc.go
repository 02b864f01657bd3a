// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// Package recommend serves A/B tested recommendations on top of two remote
// scoring models.
//
// # Request Flow
//
// A recommendation request passes through four stages:
//
//  1. Router: a seeded uniform draw picks the collaborative (A) or
//     content-based (B) variant and records an impression for it.
//  2. Mapper: the full book and user catalogs are enumerated in store order
//     and turned into dense 1-based index maps. Both maps are built in
//     parallel.
//  3. Scorer: the external user id is resolved to its index and the chosen
//     variant's remote endpoint returns a list of item indices.
//  4. Translate: each index is reduced modulo the catalog size and resolved
//     back to a book id, truncated to the requested count.
//
// Any failure aborts the request. No partial list is returned and a failed
// request never touches click counters.
//
// # Index Maps
//
// Index maps are positional: index i is the i-th book in store order. They
// are rebuilt per request unless the snapshot cache is enabled, in which
// case maps are cached under the catalog version and any catalog mutation
// invalidates them.
//
// # Thread Safety
//
// Service, Router and Mapper are safe for concurrent use. The router's RNG is
// guarded by a mutex so a fixed seed yields a reproducible variant sequence
// for a serial caller.
//
// # Usage
//
//	svc, err := recommend.NewService(recommend.DefaultConfig(), store, gateway, aggregator, logger)
//	if err != nil {
//	    return err
//	}
//	defer svc.Close()
//
//	res, err := svc.Recommend(ctx, userID, 5)
package recommend
