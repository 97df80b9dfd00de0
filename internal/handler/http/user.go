// SPDX-License-Identifier: Apache-2.0

package http

import "net/http"

// apiRoot serves GET /api/, the unauthenticated connectivity probe peers
// hit before opening a session.
func (h *Handler) apiRoot(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// whoami serves GET /api/user/: it echoes the identity behind the presented
// token, which is how peers verify their stored credentials.
func (h *Handler) whoami(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"id":       user.ID,
		"username": user.Username,
		"name":     user.Name,
	})
}
