package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vaultkeep/vaultkeep/internal/models"
	"github.com/vaultkeep/vaultkeep/internal/server/auth"
	"github.com/vaultkeep/vaultkeep/internal/server/mail"
	"github.com/vaultkeep/vaultkeep/internal/server/storage"
	"github.com/vaultkeep/vaultkeep/pkg/api"
)

// AuthHandler implements the registration, login and password-reset flows
type AuthHandler struct {
	logger   *slog.Logger
	users    storage.UserStorage
	codes    storage.CodeStorage
	sessions storage.SessionStorage
	mailer   mail.Sender
	tokenCfg auth.Config
	otpTTL   time.Duration
}

// NewAuthHandler creates a new handler for the auth flows
func NewAuthHandler(
	logger *slog.Logger,
	users storage.UserStorage,
	codes storage.CodeStorage,
	sessions storage.SessionStorage,
	mailer mail.Sender,
	tokenCfg auth.Config,
	otpTTL time.Duration,
) *AuthHandler {
	return &AuthHandler{
		logger:   logger,
		users:    users,
		codes:    codes,
		sessions: sessions,
		mailer:   mailer,
		tokenCfg: tokenCfg,
		otpTTL:   otpTTL,
	}
}

// storeAndMailCode generates a code, persists it in the ledger and mails it.
// The code is persisted before the send: a mail failure leaves it in place
// and is reported as a distinct delivery error.
func (h *AuthHandler) storeAndMailCode(ctx context.Context, purpose models.CodePurpose, email string) error {
	codeValue, err := auth.GenerateOTP()
	if err != nil {
		return err
	}

	now := time.Now()
	code := &models.OneTimeCode{
		Email:     email,
		Purpose:   purpose,
		Code:      codeValue,
		CreatedAt: now,
		ExpiresAt: now.Add(h.otpTTL),
	}

	if err := h.codes.SaveCode(ctx, code); err != nil {
		return err
	}

	if purpose == models.CodeReset {
		err = h.mailer.SendResetCode(ctx, email, codeValue)
	} else {
		err = h.mailer.SendSignupCode(ctx, email, codeValue)
	}
	if err != nil {
		return errDeliveryFailed
	}

	return nil
}

// errDeliveryFailed marks the partial-failure case: the code is in the
// ledger but the user never saw it.
var errDeliveryFailed = errors.New("otp stored but not delivered")

// RequestOTP handles POST /request-otp
// Starts registration: mails a signup code unless the email is taken.
func (h *AuthHandler) RequestOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.RequestOTPRequest
	if err := decodeAndValidate(r, &req); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	exists, err := h.users.EmailExists(ctx, req.Email)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to check email", slog.Any("error", err))
		sendError(h.logger, w, "An error occurred during email check.", http.StatusInternalServerError)
		return
	}
	if exists {
		sendError(h.logger, w, "Email already in use. Please try logging in.", http.StatusConflict)
		return
	}

	if err := h.storeAndMailCode(ctx, models.CodeSignup, req.Email); err != nil {
		if errors.Is(err, errDeliveryFailed) {
			h.logger.ErrorContext(ctx, "failed to deliver signup code", slog.String("email", req.Email))
			sendError(h.logger, w, "OTP was stored but could not be delivered. Please request a new one.", http.StatusInternalServerError)
			return
		}
		h.logger.ErrorContext(ctx, "failed to store signup code", slog.Any("error", err))
		sendError(h.logger, w, "An error occurred while storing OTP.", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "signup code sent", slog.String("email", req.Email))
	sendJSON(h.logger, w, api.Response{Success: true, Message: "OTP sent successfully to " + req.Email}, http.StatusOK)
}

// RequestResetOTP handles POST /forgot-password/request-otp
// Starts a password reset: mails a reset code if the email is registered.
func (h *AuthHandler) RequestResetOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.RequestOTPRequest
	if err := decodeAndValidate(r, &req); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	exists, err := h.users.EmailExists(ctx, req.Email)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to check email", slog.Any("error", err))
		sendError(h.logger, w, "An error occurred.", http.StatusInternalServerError)
		return
	}
	if !exists {
		sendError(h.logger, w, "Email not found.", http.StatusNotFound)
		return
	}

	if err := h.storeAndMailCode(ctx, models.CodeReset, req.Email); err != nil {
		if errors.Is(err, errDeliveryFailed) {
			h.logger.ErrorContext(ctx, "failed to deliver reset code", slog.String("email", req.Email))
			sendError(h.logger, w, "OTP was stored but could not be delivered. Please request a new one.", http.StatusInternalServerError)
			return
		}
		h.logger.ErrorContext(ctx, "failed to store reset code", slog.Any("error", err))
		sendError(h.logger, w, "An error occurred while storing OTP.", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "reset code sent", slog.String("email", req.Email))
	sendJSON(h.logger, w, api.Response{Success: true, Message: "Password reset OTP sent successfully to " + req.Email}, http.StatusOK)
}

// Register handles POST /verify-otp-and-register
// Consumes the signup code and, if it was valid, creates the user and
// opens their first session. An invalid code persists nothing.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.RegisterRequest
	if err := decodeAndValidate(r, &req); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	valid, err := h.codes.ConsumeCode(ctx, models.CodeSignup, req.Email, req.OTP)
	if err != nil {
		if errors.Is(err, storage.ErrCodeNotFound) {
			sendError(h.logger, w, "Invalid or expired OTP.", http.StatusBadRequest)
			return
		}
		h.logger.ErrorContext(ctx, "failed to consume signup code", slog.Any("error", err))
		sendError(h.logger, w, "An error occurred during OTP verification.", http.StatusInternalServerError)
		return
	}
	if !valid {
		sendError(h.logger, w, "Invalid or expired OTP.", http.StatusBadRequest)
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		sendError(h.logger, w, "An error occurred during password hashing.", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	user := &models.User{
		ID:             uuid.New().String(),
		Email:          req.Email,
		PasswordHash:   passwordHash,
		FirstName:      req.FirstName,
		MiddleName:     req.MiddleName,
		LastName:       req.LastName,
		ProfilePicture: models.DefaultProfilePicture,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := h.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			sendError(h.logger, w, "Email already in use.", http.StatusConflict)
			return
		}
		h.logger.ErrorContext(ctx, "failed to create user", slog.Any("error", err))
		sendError(h.logger, w, "An error occurred.", http.StatusInternalServerError)
		return
	}

	token, err := issueSession(ctx, h.sessions, h.tokenCfg, user.ID, user.Email)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue session", slog.Any("error", err))
		sendError(h.logger, w, "An error occurred.", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user registered", slog.String("user_id", user.ID))
	sendJSON(h.logger, w, api.TokenResponse{Success: true, Message: "Registration successful!", Token: token}, http.StatusOK)
}

// VerifyResetOTP handles POST /forgot-password/verify-otp
// Consumes the reset code; a valid submission lets the client proceed to
// the reset endpoint.
func (h *AuthHandler) VerifyResetOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.VerifyResetOTPRequest
	if err := decodeAndValidate(r, &req); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	valid, err := h.codes.ConsumeCode(ctx, models.CodeReset, req.Email, req.OTP)
	if err != nil {
		if errors.Is(err, storage.ErrCodeNotFound) {
			sendError(h.logger, w, "Invalid or expired OTP.", http.StatusBadRequest)
			return
		}
		h.logger.ErrorContext(ctx, "failed to consume reset code", slog.Any("error", err))
		sendError(h.logger, w, "An error occurred during OTP verification.", http.StatusInternalServerError)
		return
	}
	if !valid {
		sendError(h.logger, w, "Invalid or expired OTP.", http.StatusBadRequest)
		return
	}

	sendJSON(h.logger, w, api.Response{Success: true, Message: "OTP verified successfully. You can now reset your password."}, http.StatusOK)
}

// ResetPassword handles POST /forgot-password/reset
// Unconditionally sets a new password for the email and clears the user's
// session, forcing every device to log in again.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.ResetPasswordRequest
	if err := decodeAndValidate(r, &req); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	passwordHash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		sendError(h.logger, w, "An error occurred during password hashing.", http.StatusInternalServerError)
		return
	}

	userID, err := h.users.UpdatePasswordByEmail(ctx, req.Email, passwordHash)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			sendError(h.logger, w, "User not found.", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to reset password", slog.Any("error", err))
		sendError(h.logger, w, "An error occurred while resetting password.", http.StatusInternalServerError)
		return
	}

	if err := h.sessions.DeleteSession(ctx, userID); err != nil && !errors.Is(err, storage.ErrSessionNotFound) {
		h.logger.ErrorContext(ctx, "failed to clear session after reset", slog.Any("error", err))
		sendError(h.logger, w, "An error occurred while resetting password.", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "password reset", slog.String("user_id", userID))
	sendJSON(h.logger, w, api.Response{Success: true, Message: "Password has been reset successfully! Please log in with your new password."}, http.StatusOK)
}

// Login handles POST /login
// Authenticates by email and password and opens the user's session,
// superseding any previous one.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := decodeAndValidate(r, &req); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			sendError(h.logger, w, "Invalid credentials!", http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendError(h.logger, w, "An error occurred.", http.StatusInternalServerError)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		h.logger.WarnContext(ctx, "login failed: wrong password", slog.String("user_id", user.ID))
		sendError(h.logger, w, "Invalid credentials!", http.StatusUnauthorized)
		return
	}

	token, err := issueSession(ctx, h.sessions, h.tokenCfg, user.ID, user.Email)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue session", slog.Any("error", err))
		sendError(h.logger, w, "An error occurred during login.", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user logged in", slog.String("user_id", user.ID))
	sendJSON(h.logger, w, api.TokenResponse{Success: true, Message: "Login successful!", Token: token}, http.StatusOK)
}

// Logout handles POST /logout
// Revokes the caller's session. Logging out twice is not an error.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		sendError(h.logger, w, "Access token required.", http.StatusUnauthorized)
		return
	}

	if err := h.sessions.DeleteSession(ctx, userID); err != nil && !errors.Is(err, storage.ErrSessionNotFound) {
		h.logger.ErrorContext(ctx, "failed to delete session", slog.Any("error", err))
		sendError(h.logger, w, "An error occurred during logout.", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user logged out", slog.String("user_id", userID))
	sendJSON(h.logger, w, api.Response{Success: true, Message: "Logout successful!"}, http.StatusOK)
}
