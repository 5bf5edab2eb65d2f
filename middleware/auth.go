package middleware

import (
	"context"
	"net/http"

	"likes_server/helpers"

	"github.com/gorilla/mux"
)

type contextKey string

const identityKey contextKey = "authenticatedUserID"

// IdentityResolver extracts the authenticated user id from a request.
// Credential validation happens upstream (gateway / auth service); this
// service only consumes its artifact.
type IdentityResolver interface {
	Resolve(r *http.Request) (string, error)
}

// HeaderIdentityResolver trusts the user id injected by the gateway.
type HeaderIdentityResolver struct {
	Header string
}

func (h HeaderIdentityResolver) Resolve(r *http.Request) (string, error) {
	header := h.Header
	if header == "" {
		header = "X-User-Id"
	}
	return r.Header.Get(header), nil
}

// AuthRequired resolves the caller's identity and stores it in the request
// context. Requests with no resolvable identity get 401 before any handler
// or storage call runs.
func AuthRequired(resolver IdentityResolver) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := resolver.Resolve(r)
			if err != nil || userID == "" {
				helpers.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), userID)))
		})
	}
}

// WithIdentity returns ctx carrying the validated user id.
func WithIdentity(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, identityKey, userID)
}

// IdentityFromContext returns the validated user id stored by AuthRequired.
func IdentityFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(identityKey).(string)
	return userID, ok && userID != ""
}
