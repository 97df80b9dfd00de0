// SPDX-License-Identifier: Apache-2.0

// Package http implements the peer-facing HTTP API: the surface other
// labsync nodes pull from and push to. It mirrors the endpoint contract the
// outbound adapter consumes (an API root probe, a whoami endpoint, and
// per-model object collections with trailing-slash paths) so any two nodes
// can sync with each other.
package http

import (
	"github.com/openlims/labsync/internal/logger"
	"github.com/openlims/labsync/internal/service"
	"github.com/openlims/labsync/internal/store"
)

type Handler struct {
	storages *store.Storages
	registry *service.Registry

	logger *logger.Logger
}

func NewHandler(storages *store.Storages, registry *service.Registry, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		storages: storages,
		registry: registry,
		logger:   logger,
	}
}
