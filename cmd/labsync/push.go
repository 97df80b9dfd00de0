// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/openlims/labsync/internal/service"
	"github.com/openlims/labsync/models"
)

var pushOpts struct {
	models        []string
	modifiedSince string
	strategy      string
	limit         int
	dryRun        bool
	verbose       bool
	testAuth      bool
}

var pushCmd = &cobra.Command{
	Use:   "push <remote-host-id> <user-id>",
	Short: "Export local objects to a peer",
	Long: `Push sends the given user's local objects to the peer: objects never
pushed before are created remotely, previously pushed ones are updated.
Vaulted replicas are never pushed. When the remote copy is newer, the
conflict strategy decides: timestamp skips (remote wins), force_push
overwrites (local wins), skip skips unconditionally.`,
	Args: cobra.ExactArgs(2),
	RunE: runPush,
}

func init() {
	pushCmd.Flags().StringSliceVar(&pushOpts.models, "models", nil, "models to push (default: all syncable models)")
	pushCmd.Flags().StringVar(&pushOpts.modifiedSince, "modified-since", "", "only push objects modified after this time (RFC3339 or YYYY-MM-DD)")
	pushCmd.Flags().StringVar(&pushOpts.strategy, "conflict-strategy", "timestamp", "conflict strategy: timestamp, force_push or skip")
	pushCmd.Flags().IntVar(&pushOpts.limit, "limit", 0, "max candidates per model")
	pushCmd.Flags().BoolVar(&pushOpts.dryRun, "dry-run", false, "preview decisions without writing on either side")
	pushCmd.Flags().BoolVar(&pushOpts.verbose, "verbose", false, "per-model breakdown")
	pushCmd.Flags().BoolVar(&pushOpts.testAuth, "test-auth", false, "only verify connectivity and credentials")
}

func runPush(cmd *cobra.Command, args []string) error {
	hostID, userID, err := parseIDArgs(args)
	if err != nil {
		return err
	}

	modifiedSince, err := parseModifiedSince(pushOpts.modifiedSince)
	if err != nil {
		return err
	}

	strategy := models.ConflictStrategy(pushOpts.strategy)
	if !strategy.IsValid() {
		return fmt.Errorf("unknown conflict strategy %q (want timestamp, force_push or skip)", pushOpts.strategy)
	}

	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if pushOpts.testAuth {
		return runTestAuth(cmd, a, hostID)
	}

	result, err := a.sync.PushAll(ctx, service.PushOptions{
		RemoteHostID:  hostID,
		UserID:        userID,
		Models:        pushOpts.models,
		ModifiedSince: modifiedSince,
		Strategy:      strategy,
		Limit:         pushOpts.limit,
		DryRun:        pushOpts.dryRun,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderPushResult(result, pushOpts.verbose))

	if !result.Success {
		return errors.New("push finished with errors")
	}
	return nil
}

func parseModifiedSince(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			utc := ts.UTC()
			return &utc, nil
		}
	}
	return nil, fmt.Errorf("cannot parse --modified-since value %q", raw)
}
