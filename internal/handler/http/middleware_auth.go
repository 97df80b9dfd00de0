// SPDX-License-Identifier: Apache-2.0

package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/openlims/labsync/internal/logger"
	"github.com/openlims/labsync/models"
)

// authScheme is the Authorization scheme peers use, matching the outbound
// adapter: "Authorization: Token <opaque-token>".
const authScheme = "Token"

type ctxKey int

const userCtxKey ctxKey = iota

// withTokenAuth enforces opaque-token authentication.
//
// It extracts the token from the "Authorization" header, resolves it via
// [store.UserRepository.FindByToken], and stores the authenticated
// [models.User] in the request context for downstream handlers. Requests
// with a missing or malformed header, or an unknown token, are rejected
// with HTTP 401.
func (h *Handler) withTokenAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		token, err := getTokenFromAuthHeader(r.Header.Get("Authorization"))
		if err != nil {
			log.Err(err).Send()
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		user, err := h.storages.Users.FindByToken(ctx, token)
		if err != nil {
			log.Err(err).Msg("token rejected")
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		ctx = context.WithValue(ctx, userCtxKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userFromContext returns the authenticated user stored by withTokenAuth.
func userFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userCtxKey).(models.User)
	return user, ok
}

// getTokenFromAuthHeader extracts the opaque token from a raw
// "Authorization" header value of the form "Token <token>".
func getTokenFromAuthHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrEmptyAuthorizationHeader
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) < 2 || parts[0] != authScheme || parts[1] == "" {
		return "", ErrInvalidAuthorizationHeader
	}

	return parts[1], nil
}
