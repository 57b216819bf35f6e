package testutil

import (
	"io"
	"net/http"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode verifies the HTTP response status code
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	assert.Equal(t, expected, resp.StatusCode, "unexpected status code")
}

// AssertJSONResponse decodes JSON response into v
func AssertJSONResponse(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	err = json.Unmarshal(body, v)
	require.NoError(t, err, "failed to unmarshal response: %s", string(body))
}

// DecodeBody decodes a JSON object response into a generic map
func DecodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	AssertJSONResponse(t, resp, &body)
	return body
}

// AssertMessageResponse verifies status code and the exact {"message"} body
func AssertMessageResponse(t *testing.T, resp *http.Response, expectedStatus int, expectedMessage string) {
	t.Helper()

	assert.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code")

	var body struct {
		Message string `json:"message"`
	}
	AssertJSONResponse(t, resp, &body)
	assert.Equal(t, expectedMessage, body.Message, "message mismatch")
}

// AssertNoPasswordHash fails when a response body leaks credential fields
func AssertNoPasswordHash(t *testing.T, body map[string]interface{}) {
	t.Helper()

	for _, key := range []string{"password", "passwordHash", "PasswordHash"} {
		assert.NotContains(t, body, key, "response must not expose %s", key)
	}
}
