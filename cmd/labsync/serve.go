// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"

	"github.com/spf13/cobra"

	handler "github.com/openlims/labsync/internal/handler/http"
	"github.com/openlims/labsync/internal/server"
	"github.com/openlims/labsync/internal/workers"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the peer-facing HTTP API",
	Long: `Serve exposes this node's records to authenticated peers over HTTP and,
when workers are enabled in the configuration, runs scheduled sync rounds
against the configured peer.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	h := handler.NewHandler(a.storages, a.registry, a.log)
	srv, err := server.NewServer(h.Init(), a.cfg.Server, a.log)
	if err != nil {
		return err
	}

	if a.cfg.Workers.Enabled {
		workerCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		workers.New(
			workers.NewSyncWorker(a.sync, a.cfg.Workers, a.log),
		).Run(workerCtx)
	}

	srv.RunServer()
	return nil
}
