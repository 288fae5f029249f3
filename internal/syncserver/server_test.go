package syncserver

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spreadpad/spreadpad/internal/logger"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := OpenStorage(filepath.Join(t.TempDir(), "syncd.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	auth := NewAuth("test-secret", time.Hour)
	log := logger.New(io.Discard, logger.LevelError, "syncd-test", nil)
	srv := httptest.NewServer(NewServer(store, auth, log, "test").Router())
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	return resp
}

func register(t *testing.T, srv *httptest.Server, username, password string) {
	t.Helper()
	resp := postJSON(t, srv.URL+"/api/register", map[string]string{
		"username": username,
		"password": password,
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func login(t *testing.T, srv *httptest.Server, username, password string) string {
	t.Helper()
	resp := postJSON(t, srv.URL+"/api/login", map[string]string{
		"username": username,
		"password": password,
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body loginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.Token)
	return body.Token
}

func authedRequest(t *testing.T, method, url, token string, body []byte) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestLoginFlow(t *testing.T) {
	srv := newTestServer(t)
	register(t, srv, "ada", "hunter22")

	t.Run("valid_credentials", func(t *testing.T) {
		token := login(t, srv, "ada", "hunter22")

		resp := authedRequest(t, http.MethodGet, srv.URL+"/api/profile", token, nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var user userResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&user))
		assert.Equal(t, "ada", user.Username)
	})

	t.Run("wrong_password", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/api/login", map[string]string{
			"username": "ada", "password": "wrong",
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("unknown_user", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/api/login", map[string]string{
			"username": "nobody", "password": "hunter22",
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("duplicate_registration", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/api/register", map[string]string{
			"username": "ada", "password": "hunter22",
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})
}

func TestSettingsBlob(t *testing.T) {
	srv := newTestServer(t)
	register(t, srv, "ada", "hunter22")
	token := login(t, srv, "ada", "hunter22")

	t.Run("empty_until_saved", func(t *testing.T) {
		resp := authedRequest(t, http.MethodGet, srv.URL+"/api/settings", token, nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("round_trip", func(t *testing.T) {
		blob := []byte(`{"calculators":[],"activeId":"","theme":"ocean","darkMode":true}`)
		put := authedRequest(t, http.MethodPut, srv.URL+"/api/settings", token, blob)
		put.Body.Close()
		require.Equal(t, http.StatusOK, put.StatusCode)

		get := authedRequest(t, http.MethodGet, srv.URL+"/api/settings", token, nil)
		defer get.Body.Close()
		require.Equal(t, http.StatusOK, get.StatusCode)

		stored, err := io.ReadAll(get.Body)
		require.NoError(t, err)
		assert.JSONEq(t, string(blob), string(stored))
	})

	t.Run("invalid_json_rejected", func(t *testing.T) {
		resp := authedRequest(t, http.MethodPut, srv.URL+"/api/settings", token, []byte("not json"))
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("blobs_are_per_user", func(t *testing.T) {
		register(t, srv, "bob", "hunter22")
		other := login(t, srv, "bob", "hunter22")

		resp := authedRequest(t, http.MethodGet, srv.URL+"/api/settings", other, nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestAuthMiddleware(t *testing.T) {
	srv := newTestServer(t)

	t.Run("missing_token", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/profile")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("garbage_token", func(t *testing.T) {
		resp := authedRequest(t, http.MethodGet, srv.URL+"/api/profile", "garbage", nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("expired_token", func(t *testing.T) {
		expired := NewAuth("test-secret", -time.Hour)
		token, err := expired.GenerateToken("u1", "ghost")
		require.NoError(t, err)

		resp := authedRequest(t, http.MethodGet, srv.URL+"/api/profile", token, nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
