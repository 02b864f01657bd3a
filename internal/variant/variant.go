// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// Package variant enumerates the two recommendation models competing for
// live traffic. The set is fixed at compile time.
package variant

import (
	"errors"
	"fmt"
)

// Variant names one recommendation model.
type Variant string

const (
	// Collaborative is the collaborative-filtering model (variant A).
	Collaborative Variant = "collaborate_base_recommend"

	// ContentBased is the content-based model (variant B).
	ContentBased Variant = "content_based_recommend"
)

// ErrUnknown is returned for any name outside the fixed enumeration.
var ErrUnknown = errors.New("unknown model variant")

// All returns both variants, A first.
func All() []Variant {
	return []Variant{Collaborative, ContentBased}
}

// Parse validates name against the enumeration.
func Parse(name string) (Variant, error) {
	v := Variant(name)
	if !v.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	return v, nil
}

// Valid reports whether v is one of the two known variants.
func (v Variant) Valid() bool {
	return v == Collaborative || v == ContentBased
}

func (v Variant) String() string {
	return string(v)
}
