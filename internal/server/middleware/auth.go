package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vaultkeep/vaultkeep/internal/server/auth"
	"github.com/vaultkeep/vaultkeep/internal/server/handlers"
	"github.com/vaultkeep/vaultkeep/internal/server/storage"
)

// AuthMiddleware guards the protected routes. A request passes only when
// the bearer token carries a valid signature AND its hash matches the
// user's live session row. A missing or malformed header is 401; a token
// that fails either check is 403.
func AuthMiddleware(logger *slog.Logger, cfg auth.Config, sessions storage.SessionStorage) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("missing Authorization header", "path", r.URL.Path)
				writeAuthError(w, "Access token required.", http.StatusUnauthorized)
				return
			}

			// Expected format: "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				logger.Warn("malformed Authorization header", "path", r.URL.Path)
				writeAuthError(w, "Access token required.", http.StatusUnauthorized)
				return
			}

			tokenString := parts[1]

			claims, err := auth.ValidateAccessToken(cfg, tokenString)
			if err != nil {
				logger.Warn("invalid access token", "error", err)
				writeAuthError(w, "Invalid or expired token. Please log in again.", http.StatusForbidden)
				return
			}

			// Cross-check against the session store: a signature-valid token
			// is still dead once the session has been superseded or revoked.
			session, err := sessions.GetSession(r.Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, storage.ErrSessionNotFound) {
					writeAuthError(w, "Invalid token. Please log in again.", http.StatusForbidden)
					return
				}
				logger.Error("failed to load session", "error", err, "user_id", claims.UserID)
				writeAuthError(w, "An error occurred.", http.StatusInternalServerError)
				return
			}

			tokenHash := auth.HashToken(tokenString)
			if subtle.ConstantTimeCompare([]byte(tokenHash), []byte(session.TokenHash)) != 1 {
				writeAuthError(w, "Invalid token. Please log in again.", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), handlers.UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, handlers.EmailKey, claims.Email)

			logger.Debug("user authenticated", "user_id", claims.UserID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// writeAuthError writes the {success:false, message} envelope without
// pulling the handlers package's helpers into the middleware.
func writeAuthError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, _ = w.Write([]byte(`{"success":false,"message":"` + message + `"}`))
}
