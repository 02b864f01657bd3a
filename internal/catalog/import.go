// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/tomtom215/shelfwise/internal/models"
)

// Seed is the on-disk format accepted by shelfctl seed.
type Seed struct {
	Books []models.Book `json:"books"`
	Users []models.User `json:"users"`
}

// ImportResult counts what Import did.
type ImportResult struct {
	Books   int
	Users   int
	Skipped int
}

// LoadSeedFile decodes a seed file.
func LoadSeedFile(path string) (*Seed, error) {
	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied path
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var seed Seed
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	return &seed, nil
}

// Import inserts every book then every user, in file order. Documents
// whose id already exists are skipped.
func (s *Store) Import(ctx context.Context, seed *Seed) (ImportResult, error) {
	var res ImportResult
	for i := range seed.Books {
		err := s.CreateBook(ctx, &seed.Books[i])
		switch {
		case errors.Is(err, ErrDuplicate):
			res.Skipped++
		case err != nil:
			return res, fmt.Errorf("import book %d: %w", i, err)
		default:
			res.Books++
		}
	}
	for i := range seed.Users {
		err := s.CreateUser(ctx, &seed.Users[i])
		switch {
		case errors.Is(err, ErrDuplicate):
			res.Skipped++
		case err != nil:
			return res, fmt.Errorf("import user %d: %w", i, err)
		default:
			res.Users++
		}
	}
	s.logger.Info().
		Int("books", res.Books).
		Int("users", res.Users).
		Int("skipped", res.Skipped).
		Msg("catalog import complete")
	return res, nil
}
