package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVerifyServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/verify", r.URL.Path)
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func TestVerifyToken(t *testing.T) {
	srv := newVerifyServer(t, http.StatusOK, `{"user":{"id":"user-42"}}`)
	defer srv.Close()

	client := NewClient(&Config{AuthAddr: srv.URL})

	userID, err := client.VerifyToken(context.Background(), "Bearer token")
	require.NoError(t, err)
	assert.Equal(t, "user-42", userID)
}

func TestVerifyToken_EmptyToken(t *testing.T) {
	client := NewClient(&Config{AuthAddr: "http://127.0.0.1:1"})

	_, err := client.VerifyToken(context.Background(), "")
	assert.Error(t, err)
}

func TestVerifyToken_Rejected(t *testing.T) {
	srv := newVerifyServer(t, http.StatusUnauthorized, `{}`)
	defer srv.Close()

	client := NewClient(&Config{AuthAddr: srv.URL})

	_, err := client.VerifyToken(context.Background(), "Bearer bad")
	assert.Error(t, err)
}

func TestMiddleware(t *testing.T) {
	srv := newVerifyServer(t, http.StatusOK, `{"user":{"id":"user-7"}}`)
	defer srv.Close()

	client := NewClient(&Config{AuthAddr: srv.URL})

	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = UserID(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/projects", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()

	client.Middleware(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-7", gotUserID)
}

func TestMiddleware_Unauthorized(t *testing.T) {
	client := NewClient(&Config{AuthAddr: "http://127.0.0.1:1"})

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/projects", nil)
	rec := httptest.NewRecorder()

	client.Middleware(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}
