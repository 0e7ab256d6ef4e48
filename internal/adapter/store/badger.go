// Package store implements the document store on BadgerDB. Documents are
// JSON objects addressed by collection and key, with Firestore-style
// merge-upsert semantics: a merge creates the document if absent or updates
// only the given top-level fields of an existing one.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// Store is a Badger-backed collection/key document store.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) a document store in the given directory.
func Open(dir string) (*Store, error) {
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open document store: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenInMemory opens an ephemeral store, used by tests.
func OpenInMemory() (*Store, error) {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open in-memory document store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get reads a document by collection and key. The second return value is
// false when the document does not exist.
func (s *Store) Get(_ context.Context, collection, key string) (map[string]any, bool, error) {
	var doc map[string]any
	found := false

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(docKey(collection, key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &doc)
		})
	})
	if err != nil {
		return nil, false, fmt.Errorf("get %s/%s: %w", collection, key, err)
	}
	return doc, found, nil
}

// Merge writes the given fields into the document, creating it if absent and
// leaving unspecified fields of an existing document untouched.
func (s *Store) Merge(_ context.Context, collection, key string, fields map[string]any) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		k := docKey(collection, key)

		doc := map[string]any{}
		item, err := txn.Get(k)
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err == nil {
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &doc)
			}); err != nil {
				return err
			}
		}

		for field, value := range fields {
			doc[field] = value
		}

		data, err := json.Marshal(doc)
		if err != nil {
			return err
		}
		return txn.Set(k, data)
	})
	if err != nil {
		return fmt.Errorf("merge %s/%s: %w", collection, key, err)
	}
	return nil
}

func docKey(collection, key string) []byte {
	return []byte(collection + "/" + key)
}
