package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dom/media-tracker/internal/api/middleware"
	"github.com/dom/media-tracker/internal/domain"
	"github.com/dom/media-tracker/internal/service"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthenticator struct {
	user *domain.User
	err  error
	seen string
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, token string) (*domain.User, error) {
	f.seen = token
	if token == "" {
		return nil, service.ErrNoToken
	}
	return f.user, f.err
}

func TestAuth(t *testing.T) {
	user := domain.NewUser("Ann", "ann@example.com", "hash")

	tests := []struct {
		name        string
		cookie      string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{name: "no cookie", wantStatus: http.StatusUnauthorized, wantMessage: "Unauthorized access. (No token)"},
		{name: "invalid token", cookie: "bad", err: service.ErrInvalidToken, wantStatus: http.StatusUnauthorized, wantMessage: "Unauthorized access. (Invalid token)"},
		{name: "user gone", cookie: "tok", err: service.ErrUserNotFound, wantStatus: http.StatusNotFound, wantMessage: "User not found."},
		{name: "store failure", cookie: "tok", err: errors.New("connection refused"), wantStatus: http.StatusInternalServerError, wantMessage: "Internal server error."},
		{name: "authenticated", cookie: "tok", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &fakeAuthenticator{user: user, err: tt.err}

			var got domain.Identity
			var reached bool
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached = true
				identity, ok := middleware.IdentityFromContext(r.Context())
				require.True(t, ok)
				got = identity
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/auth/check", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()

			middleware.Auth(auth)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.cookie, auth.seen)

			if tt.wantMessage != "" {
				assert.False(t, reached)
				var body map[string]string
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.wantMessage, body["message"])
				return
			}

			assert.True(t, reached)
			assert.Equal(t, user.ID, got.ID)
			assert.Equal(t, user.Email, got.Email)
		})
	}
}

func TestIdentityFromContext_Missing(t *testing.T) {
	_, ok := middleware.IdentityFromContext(context.Background())
	assert.False(t, ok)
}
