// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/openlims/labsync/internal/adapter"
	"github.com/openlims/labsync/internal/config"
	"github.com/openlims/labsync/internal/crypto"
	"github.com/openlims/labsync/internal/logger"
	"github.com/openlims/labsync/internal/service"
	"github.com/openlims/labsync/internal/store"
)

// app bundles the wired dependencies every command needs: configuration,
// logger, object store and the sync orchestrator.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	db       *store.DB
	storages *store.Storages
	registry *service.Registry
	sync     service.SyncService
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.GetConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	log := logger.NewLogger("labsync", cfg.App.LogLevel)

	db, err := store.Open(ctx, cfg.Storage.DB, log)
	if err != nil {
		return nil, err
	}
	storages := store.NewStorages(db, log)

	cipher, err := crypto.NewTokenCipher(cfg.App.SecretKey)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	registry := service.DefaultRegistry()
	factory := adapter.NewFactory(cipher, cfg.Sync, log)

	return &app{
		cfg:      cfg,
		log:      log,
		db:       db,
		storages: storages,
		registry: registry,
		sync:     service.NewSyncService(storages, registry, factory, log),
	}, nil
}

func (a *app) Close() {
	_ = a.db.Close()
}

// parseIDArgs parses the positional <remote-host-id> <user-id> pair shared
// by pull and push.
func parseIDArgs(args []string) (hostID, userID int64, err error) {
	hostID, err = strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("remote-host-id must be an integer, got %q", args[0])
	}

	userID, err = strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("user-id must be an integer, got %q", args[1])
	}

	return hostID, userID, nil
}
