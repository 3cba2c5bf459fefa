package database

import (
	"context"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const kvBucketName = "kv"

// BoltStore is a file-backed key-value store
type BoltStore struct {
	db *bbolt.DB
}

// NewBoltStore opens (or creates) the bolt file at path
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(kvBucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Get returns the stored value for key
func (b *BoltStore) Get(_ context.Context, key string) (string, error) {
	var value string
	err := b.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(kvBucketName)).Get([]byte(key))
		if data == nil {
			return ErrKeyNotFound
		}
		value = string(data)
		return nil
	})
	if err != nil {
		return "", err
	}
	return value, nil
}

// Set writes value under key, replacing any previous value
func (b *BoltStore) Set(_ context.Context, key, value string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(kvBucketName)).Put([]byte(key), []byte(value))
	})
}

// Close closes the bolt file
func (b *BoltStore) Close() error {
	return b.db.Close()
}
