package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/verify", r.URL.Path)
		if r.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestVerifyTokenOK(t *testing.T) {
	srv := authServer(t, http.StatusOK, `{"userId":"user-42"}`)
	id, err := NewAuthClient(srv.URL).VerifyToken(context.Background(), "good-token")
	require.NoError(t, err)
	assert.Equal(t, "user-42", id)
}

func TestVerifyTokenFailures(t *testing.T) {
	cases := map[string]struct {
		status int
		body   string
		token  string
	}{
		"rejected token": {http.StatusOK, `{"userId":"user-42"}`, "bad-token"},
		"server error":   {http.StatusInternalServerError, `{}`, "good-token"},
		"empty user id":  {http.StatusOK, `{"userId":""}`, "good-token"},
		"garbage body":   {http.StatusOK, `not json`, "good-token"},
		"missing token":  {http.StatusOK, `{"userId":"user-42"}`, ""},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			srv := authServer(t, tc.status, tc.body)
			_, err := NewAuthClient(srv.URL).VerifyToken(context.Background(), tc.token)
			assert.ErrorIs(t, err, ErrUnauthenticated)
		})
	}
}

func TestVerifyTokenNetworkError(t *testing.T) {
	srv := authServer(t, http.StatusOK, `{"userId":"user-42"}`)
	url := srv.URL
	srv.Close()

	_, err := NewAuthClient(url).VerifyToken(context.Background(), "good-token")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
