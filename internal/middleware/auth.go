package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"taskhub/internal/domain"
)

// UserResolver looks up the account behind a validated token. The account is
// re-read on every request so that deactivation and role changes take effect
// immediately, not when the token expires.
type UserResolver interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Authenticator returns an HTTP middleware that validates the Bearer token,
// resolves the account it names, and stores the principal in the request
// context. Requests without a valid token and active account get 401.
func Authenticator(validator TokenValidator, users UserResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				writeUnauthorized(w, "missing bearer token")
				return
			}

			claims, err := validator.Validate(r.Context(), strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				logger.Debug("token rejected", "error", err)
				writeUnauthorized(w, "invalid or expired token")
				return
			}

			email := claims.Subject
			if claims.Email != nil {
				// External IdPs put an opaque subject in sub; the account
				// is keyed by the email claim instead.
				email = *claims.Email
			}
			if email == "" {
				writeUnauthorized(w, "token has no subject")
				return
			}

			user, err := users.GetByEmail(r.Context(), email)
			if err != nil {
				var notFound *domain.NotFoundError
				if !errors.As(err, &notFound) {
					// A store failure is not a credential problem. Returning
					// 401 here would tell clients to throw away valid tokens.
					logger.Error("principal lookup failed", "email", email, "error", err)
					writeInternalError(w)
					return
				}
				logger.Debug("unknown principal", "email", email)
				writeUnauthorized(w, "unknown principal")
				return
			}
			if !user.IsActive {
				writeUnauthorized(w, "account is deactivated")
				return
			}

			principal := domain.ContextPrincipal{
				ID:      user.ID,
				Email:   user.Email,
				IsAdmin: user.IsAdmin,
			}
			next.ServeHTTP(w, r.WithContext(domain.WithPrincipal(r.Context(), principal)))
		})
	}
}

func writeInternalError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"code":    http.StatusInternalServerError,
		"message": "internal server error",
	})
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="taskhub"`)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"code":    http.StatusUnauthorized,
		"message": "unauthorized: " + message,
	})
}
