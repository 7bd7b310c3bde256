package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/nexoragaming/phantomid/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestRequireUser(t *testing.T) {
	handler := RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"ok":false,"error":"not_authenticated","message":"you must be logged in"}`, w.Body.String())

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(context.WithValue(r.Context(), UserIDKey, uuid.New()))
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestGetUserIDFromContext(t *testing.T) {
	_, ok := GetUserIDFromContext(context.Background())
	assert.False(t, ok)

	id := uuid.New()
	got, ok := GetUserIDFromContext(context.WithValue(context.Background(), UserIDKey, id))
	assert.True(t, ok)
	assert.Equal(t, id, got)

	assert.Nil(t, GetAuthenticatedUser(context.Background()))
}

func TestInitAuth(t *testing.T) {
	assert.Empty(t, InitAuth(&config.Config{}))

	cfg := &config.Config{Discord: config.OAuthProvider{Key: "k", Secret: "s", CallbackURL: "http://localhost/auth/discord/callback"}}
	assert.Equal(t, []string{"discord"}, InitAuth(cfg))
}
