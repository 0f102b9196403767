//go:build integration

package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

// DecodeBody decodes a JSON response body into v and closes the body.
func DecodeBody(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v), "decode response body")
}

// AssertStatus fails the test if the response status does not match.
func AssertStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		t.Fatalf("expected status %d, got %d: %s", want, resp.StatusCode, string(body))
	}
}

// AssertErrorCode asserts both the HTTP status and the domain error code.
func AssertErrorCode(t *testing.T, resp *http.Response, wantStatus int, wantCode string) {
	t.Helper()
	require.Equal(t, wantStatus, resp.StatusCode, "response status")

	var errBody struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	DecodeBody(t, resp, &errBody)
	require.Equal(t, wantCode, errBody.Code, "error code (message: %s)", errBody.Message)
}
