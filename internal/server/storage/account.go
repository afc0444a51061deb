package storage

import (
	"context"

	"github.com/vaultkeep/vaultkeep/internal/models"
)

// AccountStorage defines interface for site account persistence. All
// operations are scoped to the owning user: another user's account ID
// behaves as if the account did not exist.
type AccountStorage interface {
	// CreateAccount stores a new site account
	CreateAccount(ctx context.Context, account *models.SiteAccount) error

	// GetUserAccounts retrieves all site accounts of a user
	// Returns empty slice if the user has none
	GetUserAccounts(ctx context.Context, userID string) ([]*models.SiteAccount, error)

	// UpdateAccount updates a site account owned by account.UserID
	// Returns ErrAccountNotFound if it doesn't exist or is owned by
	// someone else
	UpdateAccount(ctx context.Context, account *models.SiteAccount) error

	// DeleteAccount removes a site account owned by userID
	// Returns ErrAccountNotFound if it doesn't exist or is owned by
	// someone else
	DeleteAccount(ctx context.Context, userID, accountID string) error
}
