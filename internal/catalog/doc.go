// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// Package catalog stores books and users in BadgerDB.
//
// # Key Layout
//
//	book:doc:<id>       JSON-encoded models.Book
//	book:seq:<%020d>    id, ordered by insertion
//	user:doc:<id>       JSON-encoded models.User
//	user:seq:<%020d>    id, ordered by insertion
//	meta:version        big-endian uint64, bumped on every mutation
//	meta:seq            badger sequence backing the seq keys
//
// Listing walks the seq keys, so enumeration order is insertion order and is
// stable across restarts. The recommendation layer relies on this: dense
// model indices are assigned in list order.
//
// # Thread Safety
//
// All methods are safe for concurrent use. Writers that collide on
// meta:version are retried.
package catalog
