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
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/shelfwise/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Options{InMemory: true}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_BookLifecycle(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	b := &models.Book{Title: "Dune", Author: []string{"Frank Herbert"}, TotalNum: 3}
	if err := s.CreateBook(ctx, b); err != nil {
		t.Fatalf("CreateBook() error = %v", err)
	}
	if b.ID == "" || b.Seq == 0 || b.CreatedAt.IsZero() {
		t.Fatalf("CreateBook did not assign identity fields: %+v", b)
	}

	got, err := s.GetBook(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetBook() error = %v", err)
	}
	if got.Title != "Dune" || got.Author[0] != "Frank Herbert" {
		t.Errorf("GetBook() = %+v", got)
	}

	if err := s.CreateBook(ctx, &models.Book{ID: b.ID, Title: "Again"}); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate CreateBook() error = %v, want ErrDuplicate", err)
	}

	if err := s.DeleteBook(ctx, b.ID); err != nil {
		t.Fatalf("DeleteBook() error = %v", err)
	}
	if _, err := s.GetBook(ctx, b.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetBook after delete error = %v, want ErrNotFound", err)
	}
	if err := s.DeleteBook(ctx, b.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteBook() error = %v, want ErrNotFound", err)
	}
}

func TestStore_ListPreservesInsertionOrder(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	// Ids sort in the opposite order to insertion.
	ids := []string{"z-book", "m-book", "a-book"}
	for _, id := range ids {
		if err := s.CreateBook(ctx, &models.Book{ID: id, Title: id}); err != nil {
			t.Fatalf("CreateBook(%s) error = %v", id, err)
		}
	}

	books, err := s.ListBooks(ctx)
	if err != nil {
		t.Fatalf("ListBooks() error = %v", err)
	}
	if len(books) != len(ids) {
		t.Fatalf("ListBooks() returned %d books, want %d", len(books), len(ids))
	}
	for i, id := range ids {
		if books[i].ID != id {
			t.Errorf("books[%d].ID = %q, want %q", i, books[i].ID, id)
		}
	}

	page, err := s.ListBooksPage(ctx, 1, 1)
	if err != nil {
		t.Fatalf("ListBooksPage() error = %v", err)
	}
	if len(page) != 1 || page[0].ID != "m-book" {
		t.Errorf("ListBooksPage(1,1) = %+v, want [m-book]", page)
	}
}

func TestStore_VersionBumpsOnMutation(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	v0, err := s.Version(ctx)
	if err != nil {
		t.Fatalf("Version() error = %v", err)
	}

	u := &models.User{Username: "reader"}
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if u.Role != models.RoleUser {
		t.Errorf("Role = %q, want default %q", u.Role, models.RoleUser)
	}
	v1, _ := s.Version(ctx)
	if v1 != v0+1 {
		t.Errorf("version after create = %d, want %d", v1, v0+1)
	}

	if err := s.DeleteUser(ctx, u.ID); err != nil {
		t.Fatalf("DeleteUser() error = %v", err)
	}
	v2, _ := s.Version(ctx)
	if v2 != v1+1 {
		t.Errorf("version after delete = %d, want %d", v2, v1+1)
	}

	// A failed mutation leaves the version alone.
	_ = s.DeleteUser(ctx, "missing")
	v3, _ := s.Version(ctx)
	if v3 != v2 {
		t.Errorf("version after failed delete = %d, want %d", v3, v2)
	}
}

func TestStore_ConcurrentCreates(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	const n = 50
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- s.CreateUser(ctx, &models.User{ID: fmt.Sprintf("u%03d", i), Username: fmt.Sprintf("user%03d", i)})
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("CreateUser() error = %v", err)
		}
	}

	_, users, err := s.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts() error = %v", err)
	}
	if users != n {
		t.Errorf("users = %d, want %d", users, n)
	}
	v, _ := s.Version(ctx)
	if v != n {
		t.Errorf("version = %d, want %d", v, n)
	}
}

func TestStore_Import(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "seed.json")
	content := `{
  "books": [{"id": "b1", "title": "One"}, {"id": "b2", "title": "Two"}, {"id": "b1", "title": "Dup"}],
  "users": [{"id": "u1", "username": "alice", "role": "admin"}]
}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	seed, err := LoadSeedFile(path)
	if err != nil {
		t.Fatalf("LoadSeedFile() error = %v", err)
	}
	res, err := s.Import(ctx, seed)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if res.Books != 2 || res.Users != 1 || res.Skipped != 1 {
		t.Errorf("Import() = %+v, want 2 books, 1 user, 1 skipped", res)
	}

	u, err := s.GetUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if u.Role != models.RoleAdmin {
		t.Errorf("Role = %q, want admin", u.Role)
	}
}

func TestStore_CanceledContext(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.ListBooks(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("ListBooks() error = %v, want context.Canceled", err)
	}
}
