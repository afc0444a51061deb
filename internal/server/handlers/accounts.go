package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vaultkeep/vaultkeep/internal/crypto"
	"github.com/vaultkeep/vaultkeep/internal/models"
	"github.com/vaultkeep/vaultkeep/internal/server/storage"
	"github.com/vaultkeep/vaultkeep/pkg/api"
)

// AccountsHandler serves the site-account vault of the authenticated user.
// Passwords are sealed with the vault key before they reach the database
// and opened again on the way out.
type AccountsHandler struct {
	logger   *slog.Logger
	accounts storage.AccountStorage
	vaultKey []byte
}

// NewAccountsHandler creates a new handler for the vault operations
func NewAccountsHandler(logger *slog.Logger, accounts storage.AccountStorage, vaultKey []byte) *AccountsHandler {
	return &AccountsHandler{
		logger:   logger,
		accounts: accounts,
		vaultKey: vaultKey,
	}
}

// Create handles POST /accounts
func (h *AccountsHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		sendError(h.logger, w, "Access token required.", http.StatusUnauthorized)
		return
	}

	var req api.SiteAccountRequest
	if err := decodeAndValidate(r, &req); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	sealed, err := crypto.EncryptToBase64([]byte(req.Password), h.vaultKey)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to encrypt password", slog.Any("error", err))
		sendError(h.logger, w, "An error occurred while creating account.", http.StatusInternalServerError)
		return
	}

	image := req.Image
	if image == "" {
		image = models.DefaultAccountImage
	}

	now := time.Now()
	account := &models.SiteAccount{
		ID:        uuid.New().String(),
		UserID:    userID,
		Site:      req.Site,
		Username:  req.Username,
		Password:  sealed,
		Image:     image,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.accounts.CreateAccount(ctx, account); err != nil {
		h.logger.ErrorContext(ctx, "failed to create account", slog.Any("error", err))
		sendError(h.logger, w, "An error occurred while creating account.", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "site account created",
		slog.String("user_id", userID),
		slog.String("account_id", account.ID),
	)
	sendJSON(h.logger, w, api.CreateAccountResponse{
		Success:   true,
		Message:   "Account created successfully!",
		AccountID: account.ID,
	}, http.StatusOK)
}

// List handles GET /accounts
// Returns every credential of the caller with passwords opened.
func (h *AccountsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		sendError(h.logger, w, "Access token required.", http.StatusUnauthorized)
		return
	}

	accounts, err := h.accounts.GetUserAccounts(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list accounts", slog.Any("error", err))
		sendError(h.logger, w, "An error occurred while retrieving accounts.", http.StatusInternalServerError)
		return
	}

	out := make([]api.SiteAccount, 0, len(accounts))
	for _, account := range accounts {
		plaintext, err := crypto.DecryptFromBase64(account.Password, h.vaultKey)
		if err != nil {
			h.logger.ErrorContext(ctx, "failed to decrypt password",
				slog.String("account_id", account.ID),
				slog.Any("error", err),
			)
			sendError(h.logger, w, "An error occurred while retrieving accounts.", http.StatusInternalServerError)
			return
		}
		out = append(out, api.SiteAccount{
			ID:       account.ID,
			Site:     account.Site,
			Username: account.Username,
			Password: string(plaintext),
			Image:    account.Image,
		})
	}

	sendJSON(h.logger, w, api.AccountsResponse{
		Success:  true,
		Message:  "Accounts retrieved successfully!",
		Accounts: out,
	}, http.StatusOK)
}

// Update handles PUT /accounts/{id}
func (h *AccountsHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		sendError(h.logger, w, "Access token required.", http.StatusUnauthorized)
		return
	}

	accountID := r.PathValue("id")

	var req api.SiteAccountRequest
	if err := decodeAndValidate(r, &req); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	sealed, err := crypto.EncryptToBase64([]byte(req.Password), h.vaultKey)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to encrypt password", slog.Any("error", err))
		sendError(h.logger, w, "An error occurred while updating account.", http.StatusInternalServerError)
		return
	}

	image := req.Image
	if image == "" {
		image = models.DefaultAccountImage
	}

	account := &models.SiteAccount{
		ID:        accountID,
		UserID:    userID,
		Site:      req.Site,
		Username:  req.Username,
		Password:  sealed,
		Image:     image,
		UpdatedAt: time.Now(),
	}

	if err := h.accounts.UpdateAccount(ctx, account); err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			sendError(h.logger, w, "Account not found or you do not have permission to update it.", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to update account", slog.Any("error", err))
		sendError(h.logger, w, "An error occurred while updating account.", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "site account updated",
		slog.String("user_id", userID),
		slog.String("account_id", accountID),
	)
	sendJSON(h.logger, w, api.Response{Success: true, Message: "Account updated successfully!"}, http.StatusOK)
}

// Delete handles DELETE /accounts/{id}
func (h *AccountsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		sendError(h.logger, w, "Access token required.", http.StatusUnauthorized)
		return
	}

	accountID := r.PathValue("id")

	if err := h.accounts.DeleteAccount(ctx, userID, accountID); err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			sendError(h.logger, w, "Account not found or you do not have permission to delete it.", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete account", slog.Any("error", err))
		sendError(h.logger, w, "An error occurred while deleting account.", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "site account deleted",
		slog.String("user_id", userID),
		slog.String("account_id", accountID),
	)
	sendJSON(h.logger, w, api.Response{Success: true, Message: "Account deleted successfully!"}, http.StatusOK)
}
