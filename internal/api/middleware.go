package api

import (
	"context"
	"net/http"
	"strings"

	"roadmate/backend/internal/interfaces"
	"roadmate/backend/internal/model"
)

type contextKey int

const identityKey contextKey = iota

// Identity is the authenticated caller, resolved from the bearer token.
type Identity struct {
	UserID   string
	UserType string
}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func identityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok && id.UserID != ""
}

// Authenticator rejects requests without a valid bearer token before any
// handler logic runs.
func Authenticator(authSvc interfaces.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || strings.TrimSpace(token) == "" {
				respondWithJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Not authorized, no token"})
				return
			}

			claims, err := authSvc.Authenticate(strings.TrimSpace(token))
			if err != nil {
				respondWithJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Not authorized, token failed"})
				return
			}

			ctx := WithIdentity(r.Context(), Identity{UserID: claims.ID, UserType: claims.UserType})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin must run after Authenticator.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := identityFrom(r.Context())
		if !ok || id.UserType != model.UserTypeAdmin {
			respondWithJSON(w, http.StatusForbidden, ErrorResponse{Error: "Admin access required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireIdentity writes a 401 and returns false when the request carries no
// identity, which only happens if a route is mounted outside Authenticator.
func requireIdentity(w http.ResponseWriter, r *http.Request) (Identity, bool) {
	id, ok := identityFrom(r.Context())
	if !ok {
		respondWithJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Not authorized, no token"})
	}
	return id, ok
}
