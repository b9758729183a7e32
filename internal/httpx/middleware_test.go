package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"gamelog/internal/httpx"
	"gamelog/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-secret"

func TestAuthMiddleware(t *testing.T) {
	var gotUserID string
	protected := httpx.AuthMiddleware(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = httpx.UserIDFrom(r)
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid token passes through with user in context", func(t *testing.T) {
		token := testutil.GenerateTestToken(testSecret, "user-42")
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, testutil.NewRequestWithAuth(http.MethodGet, "/me", nil, token))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "user-42", gotUserID)
	})

	t.Run("missing header rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

		resp := testutil.RecordResponse(w)
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
		errBody := resp.Body["error"].(map[string]any)
		assert.Equal(t, "UNAUTHORIZED", errBody["code"])
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, testutil.NewRequestWithAuth(http.MethodGet, "/me", nil, "not-a-jwt"))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token signed with another secret rejected", func(t *testing.T) {
		token := testutil.GenerateTestToken("other-secret", "user-42")
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, testutil.NewRequestWithAuth(http.MethodGet, "/me", nil, token))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	handler := httpx.RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, httpx.RequestIDFrom(r))
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("generated when absent", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
	})

	t.Run("caller-supplied id echoed back", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		r.Header.Set("X-Request-Id", "abc-123")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		assert.Equal(t, "abc-123", w.Header().Get("X-Request-Id"))
	})
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := httpx.RecoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	resp := testutil.RecordResponse(w)
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	errBody := resp.Body["error"].(map[string]any)
	assert.Equal(t, "INTERNAL_ERROR", errBody["code"])
}

func TestRateLimitMiddleware(t *testing.T) {
	handler := httpx.NewRateLimitMiddleware(1, 2).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 4)
	for range 4 {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "10.0.0.1:5000"
		handler.ServeHTTP(w, r)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, http.StatusOK, codes[0])
	assert.Equal(t, http.StatusOK, codes[1])
	assert.Equal(t, http.StatusTooManyRequests, codes[2])
	assert.Equal(t, http.StatusTooManyRequests, codes[3])

	// A different client keeps its own bucket.
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.2:5000"
	handler.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
}
