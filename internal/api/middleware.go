package api

import (
	"net/http"
	"strings"

	"github.com/go-faster/errors"

	"github.com/olxer/electroshop-api/internal/auth"
)

// bearerToken extracts the token from an Authorization: Bearer header.
func bearerToken(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", auth.ErrNoToken
	}
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", auth.ErrInvalidToken
	}
	return token, nil
}

// authed wraps a handler so it only runs for requests carrying a valid bearer
// token. The resolved identity is stored in the request context. A missing
// token yields 401, a malformed or expired one 403.
func (h *Handler) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := bearerToken(r)
		if err != nil {
			if errors.Is(err, auth.ErrNoToken) {
				respondError(w, http.StatusUnauthorized, "authorization required")
				return
			}
			respondError(w, http.StatusForbidden, "invalid token")
			return
		}
		id, err := h.tokens.Verify(token)
		if err != nil {
			respondError(w, http.StatusForbidden, "invalid token")
			return
		}
		next(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
	}
}

// roleOnly wraps an already-authenticated handler so it only runs for callers
// holding one of the given roles.
func (h *Handler) roleOnly(next http.HandlerFunc, roles ...int64) http.HandlerFunc {
	return h.authed(func(w http.ResponseWriter, r *http.Request) {
		id, _ := auth.IdentityFromContext(r.Context())
		for _, role := range roles {
			if id.RoleID == role {
				next(w, r)
				return
			}
		}
		respondError(w, http.StatusForbidden, "insufficient permissions")
	})
}
