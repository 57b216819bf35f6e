package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/dom/media-tracker/internal/domain"
	"github.com/dom/media-tracker/internal/logging"
	"github.com/dom/media-tracker/internal/service"
	"github.com/goccy/go-json"
)

type contextKey string

const (
	IdentityKey contextKey = "identity"

	// SessionCookieName is the cookie carrying the session token.
	SessionCookieName = "token"
)

// Authenticator resolves a session token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// Auth rejects requests without a valid session cookie and attaches the
// authenticated identity to the request context.
func Auth(authenticator Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string
			if cookie, err := r.Cookie(SessionCookieName); err == nil {
				token = cookie.Value
			}

			user, err := authenticator.Authenticate(r.Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, service.ErrNoToken):
					writeMessage(w, http.StatusUnauthorized, "Unauthorized access. (No token)")
				case errors.Is(err, service.ErrInvalidToken):
					writeMessage(w, http.StatusUnauthorized, "Unauthorized access. (Invalid token)")
				case errors.Is(err, service.ErrUserNotFound):
					writeMessage(w, http.StatusNotFound, "User not found.")
				default:
					logging.Report(r.Context(), err, "authenticate session")
					writeMessage(w, http.StatusInternalServerError, "Internal server error.")
				}
				return
			}

			ctx := WithIdentity(r.Context(), user.Identity())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithIdentity returns a copy of ctx carrying identity.
func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(domain.Identity)
	return identity, ok
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"message": message}); err != nil {
		logging.Error().Err(err).Msg("write JSON response")
	}
}
