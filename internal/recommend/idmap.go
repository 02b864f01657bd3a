// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package recommend

import "github.com/tomtom215/shelfwise/internal/models"

// ItemIndexMap maps a 1-based dense index to an external book id. Keys are
// contiguous from 1 to len(m).
type ItemIndexMap map[int]string

// UserIndexMap maps an external user id to its 1-based dense index.
type UserIndexMap map[string]int

// newItemIndexMap numbers books in the order given.
func newItemIndexMap(books []models.Book) ItemIndexMap {
	m := make(ItemIndexMap, len(books))
	for i := range books {
		m[i+1] = books[i].ID
	}
	return m
}

// newUserIndexMap numbers users in the order given.
func newUserIndexMap(users []models.User) UserIndexMap {
	m := make(UserIndexMap, len(users))
	for i := range users {
		m[users[i].ID] = i + 1
	}
	return m
}

// Lookup returns the index for userID.
func (m UserIndexMap) Lookup(userID string) (int, bool) {
	idx, ok := m[userID]
	return idx, ok
}
