// Package boltdb keeps the one-time code ledger in its own BoltDB keyspace,
// separate from the relational store: one bucket per purpose, one key per
// email, so the "at most one live code" invariant is the data layout itself.
package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/vaultkeep/vaultkeep/internal/models"
)

var (
	// BoltDB bucket names, one per code purpose
	bucketSignup = []byte("otp_signup")
	bucketReset  = []byte("otp_reset")
)

// Storage represents BoltDB storage implementation for the code ledger
type Storage struct {
	db *bbolt.DB
}

// New creates a new BoltDB storage instance
// dbPath is the path to the BoltDB database file
func New(ctx context.Context, dbPath string) (*Storage, error) {
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	storage := &Storage{db: db}

	if err := storage.initBuckets(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return storage, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// initBuckets creates the per-purpose buckets if they do not exist
func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketSignup); err != nil {
			return fmt.Errorf("failed to create signup bucket: %w", err)
		}

		if _, err := tx.CreateBucketIfNotExists(bucketReset); err != nil {
			return fmt.Errorf("failed to create reset bucket: %w", err)
		}

		return nil
	})
}

func bucketFor(purpose models.CodePurpose) ([]byte, error) {
	switch purpose {
	case models.CodeSignup:
		return bucketSignup, nil
	case models.CodeReset:
		return bucketReset, nil
	default:
		return nil, fmt.Errorf("unknown code purpose: %q", purpose)
	}
}
