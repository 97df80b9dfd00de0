// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openlims/labsync/internal/service"
)

var pullOpts struct {
	models   []string
	limit    int
	dryRun   bool
	verbose  bool
	testAuth bool
}

var pullCmd = &cobra.Command{
	Use:   "pull <remote-host-id> <user-id>",
	Short: "Import objects from a peer into the local store",
	Long: `Pull fetches objects from the given peer and imports them as vaulted
replicas owned by the given local user. Objects already imported from the
same peer are refreshed only when the remote copy is newer.`,
	Args: cobra.ExactArgs(2),
	RunE: runPull,
}

func init() {
	pullCmd.Flags().StringSliceVar(&pullOpts.models, "models", nil, "models to pull (default: all syncable models)")
	pullCmd.Flags().IntVar(&pullOpts.limit, "limit", 0, "max objects per model (default: config page limit)")
	pullCmd.Flags().BoolVar(&pullOpts.dryRun, "dry-run", false, "preview decisions without writing")
	pullCmd.Flags().BoolVar(&pullOpts.verbose, "verbose", false, "per-model breakdown")
	pullCmd.Flags().BoolVar(&pullOpts.testAuth, "test-auth", false, "only verify connectivity and credentials")
}

func runPull(cmd *cobra.Command, args []string) error {
	hostID, userID, err := parseIDArgs(args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if pullOpts.testAuth {
		return runTestAuth(cmd, a, hostID)
	}

	limit := pullOpts.limit
	if limit == 0 {
		limit = a.cfg.Sync.PageLimit
	}

	result, err := a.sync.PullAll(ctx, service.PullOptions{
		RemoteHostID: hostID,
		UserID:       userID,
		Models:       pullOpts.models,
		Limit:        limit,
		DryRun:       pullOpts.dryRun,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderPullResult(result, pullOpts.verbose))

	if !result.Success {
		return errors.New("pull finished with errors")
	}
	return nil
}
