// Package cache is the local persistent store: transaction history and NFT
// metadata documents, kept in a BadgerDB keyspace under the config dir.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
)

// ErrNotFound is returned when a key has no value.
var ErrNotFound = errors.New("not found")

// Namespaces.
const (
	nsTx   = "tx/"
	nsMeta = "meta/"
)

// Store is a badger-backed key-value store with JSON values.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the store at path.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // badger's own logging is too chatty for a CLI
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening cache at %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// PutJSON stores v under ns+key.
func (s *Store) putJSON(ns, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(ns+key), data)
	})
}

// getJSON loads ns+key into v.
func (s *Store) getJSON(ns, key string, v any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(ns + key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(data []byte) error {
			return json.Unmarshal(data, v)
		})
	})
}

// listJSON returns every raw value under ns.
func (s *Store) listJSON(ns string) ([][]byte, error) {
	var out [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte(ns)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			data, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			out = append(out, data)
		}
		return nil
	})
	return out, err
}

// PutTransaction stores a terminal transaction record keyed by hash.
func (s *Store) PutTransaction(hash string, v any) error {
	return s.putJSON(nsTx, hash, v)
}

// GetTransaction loads a transaction record into v.
func (s *Store) GetTransaction(hash string, v any) error {
	return s.getJSON(nsTx, hash, v)
}

// Transactions returns every stored transaction record as raw JSON.
func (s *Store) Transactions() ([][]byte, error) {
	return s.listJSON(nsTx)
}

// PutMetadata stores an NFT metadata document keyed by its URI.
func (s *Store) PutMetadata(uri string, v any) error {
	return s.putJSON(nsMeta, uri, v)
}

// GetMetadata loads an NFT metadata document into v.
func (s *Store) GetMetadata(uri string, v any) error {
	return s.getJSON(nsMeta, uri, v)
}
