package storage

import (
	"context"

	"github.com/vaultkeep/vaultkeep/internal/models"
)

// CodeStorage defines interface for the one-time code ledger. The ledger
// holds at most one live code per (purpose, email); saving replaces any
// pending code for that pair.
type CodeStorage interface {
	// SaveCode stores the code, replacing any pending code for the same
	// purpose and email
	SaveCode(ctx context.Context, code *models.OneTimeCode) error

	// ConsumeCode checks a submitted code against the pending one and
	// removes the pending code in the same transaction. A wrong or expired
	// submission also removes it: any guess burns the code.
	// Returns ErrCodeNotFound if nothing is pending for the pair;
	// otherwise valid reports whether the submission matched in time.
	ConsumeCode(ctx context.Context, purpose models.CodePurpose, email, submitted string) (valid bool, err error)
}
