package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"likes_server/middleware"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGuardedRouter() (*mux.Router, *string) {
	var seen string
	r := mux.NewRouter()
	r.Use(middleware.AuthRequired(middleware.HeaderIdentityResolver{}))
	r.HandleFunc("/ping", func(w http.ResponseWriter, req *http.Request) {
		userID, _ := middleware.IdentityFromContext(req.Context())
		seen = userID
		w.WriteHeader(http.StatusOK)
	})
	return r, &seen
}

func TestAuthRequiredRejectsMissingIdentity(t *testing.T) {
	r, seen := newGuardedRouter()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	recorder := httptest.NewRecorder()
	r.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Empty(t, *seen)
}

func TestAuthRequiredStoresIdentity(t *testing.T) {
	r, seen := newGuardedRouter()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-User-Id", "alice")
	recorder := httptest.NewRecorder()
	r.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "alice", *seen)
}

func TestIdentityFromContextWithoutValue(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	_, ok := middleware.IdentityFromContext(req.Context())
	assert.False(t, ok)
}

func TestHeaderIdentityResolverCustomHeader(t *testing.T) {
	resolver := middleware.HeaderIdentityResolver{Header: "X-Auth-User"}
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Auth-User", "bob")

	userID, err := resolver.Resolve(req)
	require.NoError(t, err)
	assert.Equal(t, "bob", userID)
}
