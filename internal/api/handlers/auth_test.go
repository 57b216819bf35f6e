package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/dom/media-tracker/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthHandler_Signup(t *testing.T) {
	ts := testutil.NewTestServer(t)

	tests := []struct {
		name        string
		body        interface{}
		setup       func()
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "successful signup",
			body:        map[string]string{"name": "Ann", "email": "ann@example.com", "password": "password123"},
			wantStatus:  http.StatusCreated,
			wantMessage: "User created successfully.",
		},
		{
			name:        "missing email",
			body:        map[string]string{"name": "Ann", "password": "password123"},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "All fields are required.",
		},
		{
			name:        "empty body",
			wantStatus:  http.StatusBadRequest,
			wantMessage: "All fields are required.",
		},
		{
			name:        "short password",
			body:        map[string]string{"name": "Ann", "email": "ann@example.com", "password": "1234567"},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Password must be at least 8 characters.",
		},
		{
			name:        "password longer than 72 bytes",
			body:        map[string]string{"name": "Ann", "email": "ann@example.com", "password": strings.Repeat("p", 100)},
			wantStatus:  http.StatusCreated,
			wantMessage: "User created successfully.",
		},
		{
			name: "email in use",
			body: map[string]string{"name": "Bob", "email": "taken@example.com", "password": "password123"},
			setup: func() {
				testutil.NewUserBuilder().WithEmail("taken@example.com").Build(t, ts.Repos.User)
			},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Email is already in use.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts.DB.Truncate(t)
			if tt.setup != nil {
				tt.setup()
			}

			client := testutil.NewClient(t, ts)
			resp := client.Do(t, http.MethodPost, "/auth/signup", tt.body)
			defer resp.Body.Close()

			testutil.AssertStatusCode(t, resp, tt.wantStatus)
			body := testutil.DecodeBody(t, resp)
			assert.Equal(t, tt.wantMessage, body["message"])

			if tt.wantStatus != http.StatusCreated {
				assert.Nil(t, client.SessionCookie(t))
				return
			}

			testutil.AssertNoPasswordHash(t, body)
			assert.NotEmpty(t, body["_id"])
			assert.Equal(t, "Ann", body["name"])
			assert.Equal(t, "ann@example.com", body["email"])
			assert.Equal(t, []interface{}{}, body["movies"])
			assert.Equal(t, []interface{}{}, body["tvShows"])
			assert.Equal(t, []interface{}{}, body["games"])
			assert.NotNil(t, client.SessionCookie(t))
		})
	}
}

func TestAuthHandler_MalformedBody(t *testing.T) {
	ts := testutil.NewTestServer(t)

	req, err := http.NewRequest(http.MethodPost, ts.APIURL("/auth/signup"), strings.NewReader("{not json"))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	testutil.AssertMessageResponse(t, resp, http.StatusBadRequest, "Invalid request body.")
}

func TestAuthHandler_SessionCookie(t *testing.T) {
	ts := testutil.NewTestServer(t)
	client := testutil.NewClient(t, ts)

	resp := client.Do(t, http.MethodPost, "/auth/signup", map[string]string{
		"name": "Ann", "email": "ann@example.com", "password": "password123",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var session *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "token" {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, session.SameSite)
	assert.Equal(t, "/", session.Path)
	assert.Equal(t, int(ts.Config.TokenTTL.Seconds()), session.MaxAge)
	assert.False(t, session.Secure)
}

func TestAuthHandler_Login(t *testing.T) {
	ts := testutil.NewTestServer(t)
	user, password := testutil.NewUserBuilder().
		WithEmail("login@example.com").
		WithPassword("correct-horse").
		Build(t, ts.Repos.User)

	tests := []struct {
		name        string
		body        map[string]string
		wantStatus  int
		wantMessage string
	}{
		{"successful login", map[string]string{"email": user.Email, "password": password}, http.StatusOK, "Login successful."},
		{"missing password", map[string]string{"email": user.Email}, http.StatusBadRequest, "All fields are required."},
		{"short password", map[string]string{"email": user.Email, "password": "short"}, http.StatusBadRequest, "Password must be at least 8 characters."},
		{"wrong password", map[string]string{"email": user.Email, "password": "wrong-password"}, http.StatusBadRequest, "Invalid credentials."},
		{"unknown email", map[string]string{"email": "nobody@example.com", "password": password}, http.StatusBadRequest, "Invalid credentials."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := testutil.NewClient(t, ts)
			resp := client.Do(t, http.MethodPost, "/auth/login", tt.body)
			defer resp.Body.Close()

			testutil.AssertStatusCode(t, resp, tt.wantStatus)
			body := testutil.DecodeBody(t, resp)
			assert.Equal(t, tt.wantMessage, body["message"])

			if tt.wantStatus == http.StatusOK {
				testutil.AssertNoPasswordHash(t, body)
				assert.Equal(t, user.ID.String(), body["_id"])
				assert.NotNil(t, client.SessionCookie(t))
			} else {
				assert.Len(t, body, 1)
			}
		})
	}
}

func TestAuthHandler_CheckAndLogout(t *testing.T) {
	ts := testutil.NewTestServer(t)
	client, auth := testutil.NewUserBuilder().WithName("Ann").BuildAndAuthenticate(t, ts)

	resp := client.Do(t, http.MethodGet, "/auth/check", nil)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	body := testutil.DecodeBody(t, resp)
	resp.Body.Close()
	assert.Equal(t, "Protected route.", body["message"])
	user, ok := body["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, auth.ID, user["_id"])
	assert.Equal(t, "Ann", user["name"])
	testutil.AssertNoPasswordHash(t, user)

	token := client.SessionCookie(t).Value

	resp = client.Do(t, http.MethodPost, "/auth/logout", nil)
	testutil.AssertMessageResponse(t, resp, http.StatusOK, "Logged out successfully.")
	resp.Body.Close()
	assert.Nil(t, client.SessionCookie(t))

	resp = client.Do(t, http.MethodGet, "/auth/check", nil)
	testutil.AssertMessageResponse(t, resp, http.StatusUnauthorized, "Unauthorized access. (No token)")
	resp.Body.Close()

	// The old token is revoked even if a client kept it.
	client.SetSessionCookie(t, token)
	resp = client.Do(t, http.MethodGet, "/auth/check", nil)
	testutil.AssertMessageResponse(t, resp, http.StatusUnauthorized, "Unauthorized access. (Invalid token)")
	resp.Body.Close()
}

func TestAuthHandler_LogoutWithoutSession(t *testing.T) {
	ts := testutil.NewTestServer(t)
	client := testutil.NewClient(t, ts)

	resp := client.Do(t, http.MethodPost, "/auth/logout", nil)
	defer resp.Body.Close()
	testutil.AssertMessageResponse(t, resp, http.StatusOK, "Logged out successfully.")
}

func TestAuthHandler_CheckRejects(t *testing.T) {
	ts := testutil.NewTestServer(t)

	t.Run("garbage token", func(t *testing.T) {
		client := testutil.NewClient(t, ts)
		client.SetSessionCookie(t, "garbage")

		resp := client.Do(t, http.MethodGet, "/auth/check", nil)
		defer resp.Body.Close()
		testutil.AssertMessageResponse(t, resp, http.StatusUnauthorized, "Unauthorized access. (Invalid token)")
	})

	t.Run("deleted user", func(t *testing.T) {
		client, _ := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
		ts.DB.Truncate(t)

		resp := client.Do(t, http.MethodGet, "/auth/check", nil)
		defer resp.Body.Close()
		testutil.AssertMessageResponse(t, resp, http.StatusNotFound, "User not found.")
	})
}

func TestHealth(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp, err := http.Get(ts.APIURL("/health"))
	require.NoError(t, err)
	defer resp.Body.Close()

	testutil.AssertMessageResponse(t, resp, http.StatusOK, "Health OK")
}
