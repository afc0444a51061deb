package sqlite

import (
	"context"
	"fmt"

	"github.com/vaultkeep/vaultkeep/internal/models"
	"github.com/vaultkeep/vaultkeep/internal/server/storage"
)

// CreateAccount stores a new site account
func (s *Storage) CreateAccount(ctx context.Context, account *models.SiteAccount) error {
	query := `
		INSERT INTO site_accounts (id, user_id, site, username, password, image, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		account.ID,
		account.UserID,
		account.Site,
		account.Username,
		account.Password,
		account.Image,
		account.CreatedAt,
		account.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert site account: %w", err)
	}

	return nil
}

// GetUserAccounts retrieves all site accounts of a user
func (s *Storage) GetUserAccounts(ctx context.Context, userID string) ([]*models.SiteAccount, error) {
	query := `
		SELECT id, user_id, site, username, password, image, created_at, updated_at
		FROM site_accounts
		WHERE user_id = ?
		ORDER BY created_at
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query site accounts: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	accounts := []*models.SiteAccount{}

	for rows.Next() {
		account := &models.SiteAccount{}
		if err := rows.Scan(
			&account.ID,
			&account.UserID,
			&account.Site,
			&account.Username,
			&account.Password,
			&account.Image,
			&account.CreatedAt,
			&account.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan site account: %w", err)
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return accounts, nil
}

// UpdateAccount updates a site account owned by account.UserID. The owner
// check is part of the WHERE clause: someone else's account ID behaves as
// if the account did not exist.
func (s *Storage) UpdateAccount(ctx context.Context, account *models.SiteAccount) error {
	query := `
		UPDATE site_accounts
		SET site = ?, username = ?, password = ?, image = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		account.Site,
		account.Username,
		account.Password,
		account.Image,
		account.UpdatedAt,
		account.ID,
		account.UserID,
	)

	if err != nil {
		return fmt.Errorf("failed to update site account: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrAccountNotFound
	}

	return nil
}

// DeleteAccount removes a site account owned by userID
func (s *Storage) DeleteAccount(ctx context.Context, userID, accountID string) error {
	query := `DELETE FROM site_accounts WHERE id = ? AND user_id = ?`

	result, err := s.db.ExecContext(ctx, query, accountID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete site account: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrAccountNotFound
	}

	return nil
}
