package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"testing"

	"github.com/dom/media-tracker/internal/domain"
	"github.com/dom/media-tracker/internal/repository"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	name     string
	email    string
	password string
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		name:     fmt.Sprintf("testuser_%s", suffix),
		email:    fmt.Sprintf("testuser_%s@example.com", suffix),
		password: "testpassword123",
	}
}

// WithName sets the display name
func (b *UserBuilder) WithName(name string) *UserBuilder {
	b.name = name
	return b
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// Build stores the user through repo and returns it with the raw password
func (b *UserBuilder) Build(t *testing.T, repo repository.UserRepository) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := domain.NewUser(b.name, b.email, string(hashedPassword))
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// AuthResponse matches the signup and login response bodies
type AuthResponse struct {
	Message string      `json:"message"`
	ID      string      `json:"_id"`
	Name    string      `json:"name"`
	Email   string      `json:"email"`
	Movies  []uuid.UUID `json:"movies"`
	TvShows []uuid.UUID `json:"tvShows"`
	Games   []uuid.UUID `json:"games"`
}

// BuildAndAuthenticate signs the user up through the API and returns a client
// holding the session cookie.
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*Client, *AuthResponse) {
	t.Helper()

	client := NewClient(t, ts)
	resp := client.Do(t, http.MethodPost, "/auth/signup", map[string]string{
		"name":     b.name,
		"email":    b.email,
		"password": b.password,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("unexpected signup status %d: %s", resp.StatusCode, body)
	}

	var authResp AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	return client, &authResp
}

// Client is an HTTP client with its own cookie jar, standing in for a browser
type Client struct {
	HTTP *http.Client
	ts   *TestServer
}

func NewClient(t *testing.T, ts *TestServer) *Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("failed to create cookie jar: %v", err)
	}
	return &Client{
		HTTP: &http.Client{Jar: jar},
		ts:   ts,
	}
}

// Do sends a request to the API path with body encoded as JSON when not nil
func (c *Client) Do(t *testing.T, method, path string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, c.ts.APIURL(path), reader)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}
	return resp
}

// SessionCookie returns the session cookie currently held by the jar
func (c *Client) SessionCookie(t *testing.T) *http.Cookie {
	t.Helper()

	u, err := url.Parse(c.ts.BaseURL())
	if err != nil {
		t.Fatalf("failed to parse server url: %v", err)
	}
	for _, cookie := range c.HTTP.Jar.Cookies(u) {
		if cookie.Name == "token" {
			return cookie
		}
	}
	return nil
}

// SetSessionCookie replaces the held session cookie
func (c *Client) SetSessionCookie(t *testing.T, value string) {
	t.Helper()

	u, err := url.Parse(c.ts.BaseURL())
	if err != nil {
		t.Fatalf("failed to parse server url: %v", err)
	}
	c.HTTP.Jar.SetCookies(u, []*http.Cookie{{Name: "token", Value: value, Path: "/"}})
}
