package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoginStoresToken(t *testing.T) {
	var sawAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/login":
			var req map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "student", req["username"])
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status": "OK",
				"data": map[string]any{
					"token": "jwt-token",
					"user": map[string]any{
						"uid":         "uid-1",
						"username":    "student",
						"email":       "student@example.com",
						"role":        "user",
						"is_verified": false,
					},
				},
			})
		case "/api/v1/user":
			sawAuth = r.Header.Get("Authorization")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status": "OK",
				"data": map[string]any{
					"user": map[string]any{"uid": "uid-1", "username": "student"},
				},
			})
		default:
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, testLogger())

	sess, err := client.Login(context.Background(), "student", "password")
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", sess.Token)
	assert.Equal(t, "student", sess.User.Username)
	assert.False(t, sess.User.IsVerified)

	user, err := client.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "uid-1", user.UID)
	assert.Equal(t, "Bearer jwt-token", sawAuth)
}

func TestErrorEnvelopeDecoded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "Error",
			"error":  "invalid credentials",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, testLogger())

	_, err := client.Login(context.Background(), "student", "wrong")
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "invalid credentials", apiErr.Message)
}

func TestGetPassesQueryParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/exams", r.URL.Path)
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "OK",
			"data":   map[string]any{"exams": []any{}},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, testLogger())

	var data struct {
		Exams []any `json:"exams"`
	}
	params := url.Values{}
	params.Set("limit", "10")
	err := client.Get(context.Background(), "/exams", params, &data)
	require.NoError(t, err)
	assert.Empty(t, data.Exams)
}

func TestLogoutClearsTokenEvenOnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "Error",
			"error":  "internal service error",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, testLogger())
	client.SetToken("jwt-token")

	err := client.Logout(context.Background())
	require.Error(t, err)

	client.mu.RLock()
	defer client.mu.RUnlock()
	assert.Empty(t, client.token)
}
