// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package recommend

import "fmt"

// Translate resolves model output indices to book ids.
//
// The list is first truncated to desired entries, then every index b
// resolves to items[((b mod N)+N) mod N + 1] where N is the catalog size.
// Negative and out-of-range indices therefore always land on a valid key.
// Duplicates are preserved and nothing is padded.
func Translate(indices []int, items ItemIndexMap, desired int) ([]string, error) {
	n := len(items)
	if n == 0 {
		return nil, ErrEmptyCatalog
	}
	if desired < 0 {
		desired = 0
	}
	if len(indices) > desired {
		indices = indices[:desired]
	}

	out := make([]string, 0, len(indices))
	for _, b := range indices {
		key := ((b%n)+n)%n + 1
		id, ok := items[key]
		if !ok {
			return nil, fmt.Errorf("index map has no key %d of %d", key, n)
		}
		out = append(out, id)
	}
	return out, nil
}
