package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"gamelog/internal/auth"
)

// GenerateTestToken generates a JWT token for testing.
func GenerateTestToken(secret, userID string) string {
	token, _ := auth.GenerateToken(secret, userID, time.Hour)
	return token
}

// NewRequest creates a new HTTP request with a JSON body for testing.
func NewRequest(method, path string, body interface{}) *http.Request {
	if body == nil {
		return httptest.NewRequest(method, path, nil)
	}
	bodyBytes, _ := json.Marshal(body)
	r := httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// NewRequestWithAuth creates a new HTTP request with a bearer token.
func NewRequestWithAuth(method, path string, body interface{}, token string) *http.Request {
	r := NewRequest(method, path, body)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

// RecordedResponse is a decoded HTTP response for assertions.
type RecordedResponse struct {
	Code   int
	Header http.Header
	Body   map[string]interface{}
}

// RecordResponse decodes the recorded response body as JSON.
func RecordResponse(w *httptest.ResponseRecorder) RecordedResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var bodyMap map[string]interface{}
	if len(bodyBytes) > 0 {
		_ = json.Unmarshal(bodyBytes, &bodyMap)
	}

	return RecordedResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Body:   bodyMap,
	}
}
