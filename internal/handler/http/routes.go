// SPDX-License-Identifier: Apache-2.0

package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Init builds the router. The API root stays open so peers can probe
// connectivity before authenticating; everything else requires a token.
func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.RealIP)
	router.Use(h.withLogging)
	router.Use(middleware.Recoverer)

	router.Route("/api", func(r chi.Router) {
		r.Get("/", h.apiRoot)

		r.Group(func(r chi.Router) {
			r.Use(h.withTokenAuth)

			r.Get("/user/", h.whoami)

			r.Route("/{model}", func(r chi.Router) {
				r.Get("/", h.listRecords)
				r.Post("/", h.createRecord)
				r.Get("/{id}/", h.getRecord)
				r.Put("/{id}/", h.updateRecord)
			})
		})
	})

	return router
}
