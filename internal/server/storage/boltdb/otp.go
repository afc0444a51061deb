package boltdb

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/vaultkeep/vaultkeep/internal/models"
	"github.com/vaultkeep/vaultkeep/internal/server/storage"
)

// SaveCode stores a one-time code, replacing any pending code for the same
// purpose and email. The unconditional Put is the replace-on-request rule.
func (s *Storage) SaveCode(ctx context.Context, code *models.OneTimeCode) error {
	bucketName, err := bucketFor(code.Purpose)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketName)
		if bucket == nil {
			return fmt.Errorf("bucket %s not found", bucketName)
		}

		data, err := json.Marshal(code)
		if err != nil {
			return fmt.Errorf("failed to marshal code: %w", err)
		}

		if err := bucket.Put([]byte(code.Email), data); err != nil {
			return fmt.Errorf("failed to save code: %w", err)
		}

		return nil
	})
}

// ConsumeCode checks a submitted code against the pending one for
// (purpose, email) and deletes the pending code in the same transaction.
// A mismatch or a late submission deletes it too: any guess burns the code
// and forces a re-request. Returns storage.ErrCodeNotFound when nothing is
// pending for the pair.
func (s *Storage) ConsumeCode(ctx context.Context, purpose models.CodePurpose, email, submitted string) (bool, error) {
	bucketName, err := bucketFor(purpose)
	if err != nil {
		return false, err
	}

	valid := false

	err = s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketName)
		if bucket == nil {
			return fmt.Errorf("bucket %s not found", bucketName)
		}

		key := []byte(email)
		data := bucket.Get(key)
		if data == nil {
			return storage.ErrCodeNotFound
		}

		var code models.OneTimeCode
		if err := json.Unmarshal(data, &code); err != nil {
			return fmt.Errorf("failed to unmarshal code: %w", err)
		}

		// The stored code is gone after this transaction no matter how
		// the comparison turns out.
		if err := bucket.Delete(key); err != nil {
			return fmt.Errorf("failed to delete code: %w", err)
		}

		match := subtle.ConstantTimeCompare([]byte(code.Code), []byte(submitted)) == 1
		valid = match && !code.Expired(time.Now())

		return nil
	})

	if err != nil {
		return false, err
	}

	return valid, nil
}
