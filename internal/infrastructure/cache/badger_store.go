package cache

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"
)

// BadgerStore implements Store on top of BadgerDB
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens an in-memory BadgerDB; nothing touches disk
func OpenBadgerStore() (*BadgerStore, error) {
	const op = "cache.OpenBadgerStore"

	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, op)
	}

	return NewBadgerStore(db), nil
}

// NewBadgerStore wraps an open database
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// Get retrieves a value; a missing or expired key is a miss
func (s *BadgerStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	const op = "cache.BadgerStore.Get"

	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}

		value, err = item.ValueCopy(nil)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, op)
	}

	return value, true, nil
}

// Set stores a value that badger expires after ttl (second granularity)
func (s *BadgerStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	const op = "cache.BadgerStore.Set"

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry([]byte(key), value).WithTTL(ttl))
	})
	if err != nil {
		return errors.Wrap(err, op)
	}

	return nil
}

// Clear drops every key
func (s *BadgerStore) Clear(_ context.Context) error {
	const op = "cache.BadgerStore.Clear"

	if err := s.db.DropAll(); err != nil {
		return errors.Wrap(err, op)
	}
	return nil
}

// Size counts the live keys
func (s *BadgerStore) Size() (int, error) {
	const op = "cache.BadgerStore.Size"

	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, errors.Wrap(err, op)
	}

	return count, nil
}

// Close closes the database
func (s *BadgerStore) Close() error {
	const op = "cache.BadgerStore.Close"

	if err := s.db.Close(); err != nil {
		return errors.Wrap(err, op)
	}
	return nil
}
