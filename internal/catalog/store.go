// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package catalog

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/shelfwise/internal/models"
)

var (
	// ErrNotFound is returned when a document id does not exist.
	ErrNotFound = errors.New("catalog: document not found")

	// ErrDuplicate is returned when creating a document whose id exists.
	ErrDuplicate = errors.New("catalog: duplicate id")
)

type kind string

const (
	kindBook kind = "book"
	kindUser kind = "user"
)

const (
	versionKey      = "meta:version"
	sequenceKey     = "meta:seq"
	sequenceLease   = 100
	maxTxnConflicts = 5
)

func (k kind) docKey(id string) []byte  { return []byte(string(k) + ":doc:" + id) }
func (k kind) seqKey(seq uint64) []byte { return []byte(fmt.Sprintf("%s:seq:%020d", k, seq)) }
func (k kind) seqPrefix() []byte        { return []byte(string(k) + ":seq:") }

// Options configures Open.
type Options struct {
	// Path is the badger directory.
	Path string

	// InMemory keeps everything in RAM. Used by tests and demos.
	InMemory bool
}

// Store is the badger-backed catalog.
type Store struct {
	// writeMu serializes writers; every mutation touches meta:version.
	writeMu sync.Mutex
	db      *badger.DB
	seq     *badger.Sequence
	logger  zerolog.Logger
}

// Open opens (or creates) the catalog at opts.Path.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Open(opts Options, logger zerolog.Logger) (*Store, error) {
	bopts := badger.DefaultOptions(opts.Path)
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	}
	bopts.Logger = nil

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}

	seq, err := db.GetSequence([]byte(sequenceKey), sequenceLease)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("get sequence: %w", err)
	}

	return &Store{
		db:     db,
		seq:    seq,
		logger: logger.With().Str("component", "catalog").Logger(),
	}, nil
}

// Close releases the sequence lease and closes the database.
func (s *Store) Close() error {
	if err := s.seq.Release(); err != nil {
		s.logger.Warn().Err(err).Msg("release sequence")
	}
	return s.db.Close()
}

// update runs fn in a read-write transaction, retrying on conflicts.
func (s *Store) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var err error
	for attempt := 0; attempt < maxTxnConflicts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		err = s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		s.logger.Debug().Int("attempt", attempt+1).Msg("transaction conflict, retrying")
	}
	return err
}

func bumpVersion(txn *badger.Txn) error {
	current, err := readVersion(txn)
	if err != nil {
		return err
	}
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, current+1)
	return txn.Set([]byte(versionKey), buf)
}

func readVersion(txn *badger.Txn) (uint64, error) {
	item, err := txn.Get([]byte(versionKey))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get version: %w", err)
	}
	var v uint64
	err = item.Value(func(val []byte) error {
		if len(val) != 8 {
			return fmt.Errorf("corrupt version value (%d bytes)", len(val))
		}
		v = binary.BigEndian.Uint64(val)
		return nil
	})
	return v, err
}

// Version returns the mutation counter. It changes whenever a book or user
// is created or deleted.
func (s *Store) Version(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var v uint64
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		v, err = readVersion(txn)
		return err
	})
	return v, err
}

func (s *Store) create(ctx context.Context, k kind, id string, seq uint64, doc interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", k, err)
	}

	return s.update(ctx, func(txn *badger.Txn) error {
		_, err := txn.Get(k.docKey(id))
		if err == nil {
			return fmt.Errorf("%w: %s %s", ErrDuplicate, k, id)
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check %s: %w", k, err)
		}
		if err := txn.Set(k.docKey(id), data); err != nil {
			return fmt.Errorf("set %s: %w", k, err)
		}
		if err := txn.Set(k.seqKey(seq), []byte(id)); err != nil {
			return fmt.Errorf("set %s order: %w", k, err)
		}
		return bumpVersion(txn)
	})
}

func getDoc[T any](ctx context.Context, s *Store, k kind, id string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var doc T
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(k.docKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get %s: %w", k, err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &doc)
		})
	})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// listDocs walks the insertion-order index. limit <= 0 means no limit.
func listDocs[T any](ctx context.Context, s *Store, k kind, offset, limit int) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var docs []T
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := k.seqPrefix()
		skipped := 0
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if skipped < offset {
				skipped++
				continue
			}
			if limit > 0 && len(docs) >= limit {
				break
			}
			id, err := it.Item().ValueCopy(nil)
			if err != nil {
				return fmt.Errorf("read %s order: %w", k, err)
			}
			item, err := txn.Get(k.docKey(string(id)))
			if err != nil {
				return fmt.Errorf("get %s %s: %w", k, id, err)
			}
			var doc T
			if err := item.Value(func(val []byte) error { return json.Unmarshal(val, &doc) }); err != nil {
				return fmt.Errorf("decode %s %s: %w", k, id, err)
			}
			docs = append(docs, doc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *Store) delete(ctx context.Context, k kind, id string) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		item, err := txn.Get(k.docKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get %s: %w", k, err)
		}
		var ref struct {
			Seq uint64 `json:"seq"`
		}
		if err := item.Value(func(val []byte) error { return json.Unmarshal(val, &ref) }); err != nil {
			return fmt.Errorf("decode %s: %w", k, err)
		}
		if err := txn.Delete(k.docKey(id)); err != nil {
			return fmt.Errorf("delete %s: %w", k, err)
		}
		if err := txn.Delete(k.seqKey(ref.Seq)); err != nil {
			return fmt.Errorf("delete %s order: %w", k, err)
		}
		return bumpVersion(txn)
	})
}

func (s *Store) count(ctx context.Context, k kind) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		prefix := k.seqPrefix()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

func (s *Store) nextSeq() (uint64, error) {
	n, err := s.seq.Next()
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return n + 1, nil
}

func newID(id string) string {
	if id != "" {
		return id
	}
	return uuid.New().String()
}

// CreateBook stores b, assigning ID, Seq and CreatedAt as needed.
func (s *Store) CreateBook(ctx context.Context, b *models.Book) error {
	seq, err := s.nextSeq()
	if err != nil {
		return err
	}
	b.ID = newID(b.ID)
	b.Seq = seq
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	return s.create(ctx, kindBook, b.ID, seq, b)
}

// GetBook returns the book with id or ErrNotFound.
func (s *Store) GetBook(ctx context.Context, id string) (*models.Book, error) {
	return getDoc[models.Book](ctx, s, kindBook, id)
}

// ListBooks returns every book in insertion order.
func (s *Store) ListBooks(ctx context.Context) ([]models.Book, error) {
	return listDocs[models.Book](ctx, s, kindBook, 0, 0)
}

// ListBooksPage returns up to limit books after skipping offset.
func (s *Store) ListBooksPage(ctx context.Context, offset, limit int) ([]models.Book, error) {
	return listDocs[models.Book](ctx, s, kindBook, offset, limit)
}

// DeleteBook removes the book with id or returns ErrNotFound.
func (s *Store) DeleteBook(ctx context.Context, id string) error {
	return s.delete(ctx, kindBook, id)
}

// CreateUser stores u, defaulting Role to "user".
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	seq, err := s.nextSeq()
	if err != nil {
		return err
	}
	u.ID = newID(u.ID)
	u.Seq = seq
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	return s.create(ctx, kindUser, u.ID, seq, u)
}

// GetUser returns the user with id or ErrNotFound.
func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	return getDoc[models.User](ctx, s, kindUser, id)
}

// ListUsers returns every user in insertion order.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	return listDocs[models.User](ctx, s, kindUser, 0, 0)
}

// ListUsersPage returns up to limit users after skipping offset.
func (s *Store) ListUsersPage(ctx context.Context, offset, limit int) ([]models.User, error) {
	return listDocs[models.User](ctx, s, kindUser, offset, limit)
}

// DeleteUser removes the user with id or returns ErrNotFound.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	return s.delete(ctx, kindUser, id)
}

// Counts returns the number of books and users.
func (s *Store) Counts(ctx context.Context) (books, users int, err error) {
	if books, err = s.count(ctx, kindBook); err != nil {
		return 0, 0, err
	}
	if users, err = s.count(ctx, kindUser); err != nil {
		return 0, 0, err
	}
	return books, users, nil
}
