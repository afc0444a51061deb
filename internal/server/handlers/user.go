package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/vaultkeep/vaultkeep/internal/server/auth"
	"github.com/vaultkeep/vaultkeep/internal/server/storage"
	"github.com/vaultkeep/vaultkeep/pkg/api"
)

// UserHandler serves the profile and password operations of the
// authenticated user
type UserHandler struct {
	logger   *slog.Logger
	users    storage.UserStorage
	sessions storage.SessionStorage
	tokenCfg auth.Config
}

// NewUserHandler creates a new handler for the profile operations
func NewUserHandler(
	logger *slog.Logger,
	users storage.UserStorage,
	sessions storage.SessionStorage,
	tokenCfg auth.Config,
) *UserHandler {
	return &UserHandler{
		logger:   logger,
		users:    users,
		sessions: sessions,
		tokenCfg: tokenCfg,
	}
}

// GetInfo handles GET /user-info
func (h *UserHandler) GetInfo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		sendError(h.logger, w, "Access token required.", http.StatusUnauthorized)
		return
	}

	user, err := h.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			sendError(h.logger, w, "User not found.", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendError(h.logger, w, "An error occurred.", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, api.UserInfoResponse{
		Success: true,
		User: api.UserInfo{
			ID:             user.ID,
			FirstName:      user.FirstName,
			MiddleName:     user.MiddleName,
			LastName:       user.LastName,
			Email:          user.Email,
			ProfilePicture: user.ProfilePicture,
		},
	}, http.StatusOK)
}

// UpdateProfile handles PUT /users/{id}
// The path ID must be the caller's own: updating anyone else is forbidden.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		sendError(h.logger, w, "Access token required.", http.StatusUnauthorized)
		return
	}

	if r.PathValue("id") != userID {
		sendError(h.logger, w, "Unauthorized to update this user.", http.StatusForbidden)
		return
	}

	var req api.UpdateUserRequest
	if err := decodeAndValidate(r, &req); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			sendError(h.logger, w, "User not found.", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendError(h.logger, w, "An error occurred.", http.StatusInternalServerError)
		return
	}

	user.FirstName = req.FirstName
	user.MiddleName = req.MiddleName
	user.LastName = req.LastName
	user.Email = req.Email

	if err := h.users.UpdateProfile(ctx, user); err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			sendError(h.logger, w, "Email already in use.", http.StatusConflict)
			return
		}
		if errors.Is(err, storage.ErrUserNotFound) {
			sendError(h.logger, w, "User not found.", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to update profile", slog.Any("error", err))
		sendError(h.logger, w, "An error occurred while updating account information.", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "profile updated", slog.String("user_id", userID))
	sendJSON(h.logger, w, api.Response{Success: true, Message: "Account information updated successfully!"}, http.StatusOK)
}

// VerifyPassword handles POST /verify-current-password
// Re-checks the caller's password before sensitive profile changes.
func (h *UserHandler) VerifyPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		sendError(h.logger, w, "Access token required.", http.StatusUnauthorized)
		return
	}

	var req api.VerifyPasswordRequest
	if err := decodeAndValidate(r, &req); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			sendError(h.logger, w, "User not found.", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendError(h.logger, w, "An error occurred.", http.StatusInternalServerError)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		sendError(h.logger, w, "Current password does not match.", http.StatusUnauthorized)
		return
	}

	sendJSON(h.logger, w, api.Response{Success: true, Message: "Current password matches."}, http.StatusOK)
}

// ChangePassword handles POST /change-password
// Verifies the current password, stores the new hash and re-issues the
// session so the old token stops working immediately.
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		sendError(h.logger, w, "Access token required.", http.StatusUnauthorized)
		return
	}

	var req api.ChangePasswordRequest
	if err := decodeAndValidate(r, &req); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			sendError(h.logger, w, "User not found.", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendError(h.logger, w, "An error occurred.", http.StatusInternalServerError)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		sendError(h.logger, w, "Invalid current password.", http.StatusUnauthorized)
		return
	}

	passwordHash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		sendError(h.logger, w, "An error occurred during password hashing.", http.StatusInternalServerError)
		return
	}

	if err := h.users.UpdatePassword(ctx, userID, passwordHash); err != nil {
		h.logger.ErrorContext(ctx, "failed to update password", slog.Any("error", err))
		sendError(h.logger, w, "An error occurred while changing password.", http.StatusInternalServerError)
		return
	}

	token, err := issueSession(ctx, h.sessions, h.tokenCfg, user.ID, user.Email)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue session", slog.Any("error", err))
		sendError(h.logger, w, "An error occurred while changing password.", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "password changed", slog.String("user_id", userID))
	sendJSON(h.logger, w, api.TokenResponse{Success: true, Message: "Password changed successfully!", Token: token}, http.StatusOK)
}
