package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"time"

	"github.com/dom/media-tracker/internal/domain"
	"github.com/goccy/go-json"
)

// APIClient handles HTTP communication with the backend. The session cookie
// set by signup or login is kept in the client's jar.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL string) (*APIClient, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &APIClient{
		baseURL: baseURL + "/api",
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
		},
	}, nil
}

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Status, e.Message)
}

// Response types matching backend

type User struct {
	ID      string   `json:"_id"`
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Movies  []string `json:"movies"`
	TvShows []string `json:"tvShows"`
	Games   []string `json:"games"`
}

type Item struct {
	ID        string
	CatalogID string
	Rating    *float64
	Status    *string
	Notes     *string
}

// ItemUpdate is the body of an update. Every field is written; nil clears it.
type ItemUpdate struct {
	Rating *float64 `json:"rating"`
	Status *string  `json:"status"`
	Notes  *string  `json:"notes"`
}

func (c *APIClient) Signup(name, email, password string) (*User, error) {
	var user User
	err := c.do(http.MethodPost, "/auth/signup", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, &user)
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}
	return &user, nil
}

func (c *APIClient) Login(email, password string) (*User, error) {
	var user User
	err := c.do(http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &user)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &user, nil
}

func (c *APIClient) Logout() error {
	if err := c.do(http.MethodPost, "/auth/logout", nil, nil); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Check returns the user behind the current session.
func (c *APIClient) Check() (*User, error) {
	var resp struct {
		User User `json:"user"`
	}
	if err := c.do(http.MethodGet, "/auth/check", nil, &resp); err != nil {
		return nil, fmt.Errorf("check: %w", err)
	}
	return &resp.User, nil
}

// List returns tracked items of the variant. limit and page are sent only
// when both are positive.
func (c *APIClient) List(v domain.Variant, limit, page int) ([]Item, error) {
	path := "/track/" + v.ListPath()
	if limit > 0 && page > 0 {
		q := url.Values{}
		q.Set("limit", strconv.Itoa(limit))
		q.Set("page", strconv.Itoa(page))
		path += "?" + q.Encode()
	}

	var resp map[string]json.RawMessage
	if err := c.do(http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("list %s: %w", v.ListPath(), err)
	}

	var raw []map[string]interface{}
	if err := json.Unmarshal(resp[v.ListKey()], &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", v.ListKey(), err)
	}

	items := make([]Item, 0, len(raw))
	for _, r := range raw {
		items = append(items, decodeItem(v, r))
	}
	return items, nil
}

func (c *APIClient) Track(v domain.Variant, catalogID string) (*Item, error) {
	return c.itemCall(http.MethodPost, v, "/track/add-"+string(v)+"/"+url.PathEscape(catalogID), nil)
}

func (c *APIClient) Get(v domain.Variant, catalogID string) (*Item, error) {
	return c.itemCall(http.MethodGet, v, "/track/"+string(v)+"/"+url.PathEscape(catalogID), nil)
}

func (c *APIClient) Update(v domain.Variant, catalogID string, update ItemUpdate) (*Item, error) {
	return c.itemCall(http.MethodPut, v, "/track/update-"+string(v)+"/"+url.PathEscape(catalogID), update)
}

func (c *APIClient) Untrack(v domain.Variant, catalogID string) error {
	path := "/track/delete-" + string(v) + "/" + url.PathEscape(catalogID)
	if err := c.do(http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("untrack %s %s: %w", v, catalogID, err)
	}
	return nil
}

func (c *APIClient) itemCall(method string, v domain.Variant, path string, body interface{}) (*Item, error) {
	var resp map[string]json.RawMessage
	if err := c.do(method, path, body, &resp); err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(resp[v.ItemKey()], &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", v.ItemKey(), err)
	}
	item := decodeItem(v, raw)
	return &item, nil
}

func decodeItem(v domain.Variant, raw map[string]interface{}) Item {
	item := Item{}
	item.ID, _ = raw["_id"].(string)
	item.CatalogID, _ = raw[v.CatalogIDKey()].(string)
	if rating, ok := raw["rating"].(float64); ok {
		item.Rating = &rating
	}
	if status, ok := raw["status"].(string); ok {
		item.Status = &status
	}
	if notes, ok := raw["notes"].(string); ok {
		item.Notes = &notes
	}
	return item
}

func (c *APIClient) do(method, path string, body, out interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var msg struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(bodyBytes, &msg); err != nil || msg.Message == "" {
			msg.Message = string(bodyBytes)
		}
		return &APIError{Status: resp.StatusCode, Message: msg.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
