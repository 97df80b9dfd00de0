// SPDX-License-Identifier: Apache-2.0

package http

import (
	"net/http"
	"time"
)

// withLogging attaches a request-scoped logger to the context and emits one
// summary line per request.
func (h *Handler) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := h.logger.With().
			Str("method", r.Method).
			Str("uri", r.RequestURI).
			Logger()

		start := time.Now()

		lw := &responseWriter{
			ResponseWriter: w,
		}

		next.ServeHTTP(lw, r.WithContext(log.WithContext(r.Context())))

		log.Info().
			Int("status", lw.status).
			Dur("duration", time.Since(start)).
			Int("size", lw.size).
			Send()
	})
}
