// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package recommend

import "errors"

var (
	// ErrUserNotMapped is returned when the requesting user is absent from
	// the user index map.
	ErrUserNotMapped = errors.New("user not mapped")

	// ErrEmptyCatalog is returned when indices must be translated against a
	// catalog with no books.
	ErrEmptyCatalog = errors.New("catalog is empty")

	// ErrCatalogUnavailable wraps failures enumerating the catalog store.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)
