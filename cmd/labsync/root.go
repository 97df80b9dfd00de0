// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "labsync",
	Short: "Peer-to-peer replication of lab records",
	Long: `labsync keeps laboratory records in sync across independent nodes.

Each node owns its local object store and exchanges protocols, projects,
annotations, reagents and related records with authenticated peers over
HTTP. Pulled copies are kept as read-only vaulted replicas; pushes resolve
timestamp conflicts per the selected strategy.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Any command error (failed authentication,
// a sync run that finished unsuccessfully, bad arguments) exits with
// status 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a JSON configuration file")

	rootCmd.AddCommand(pullCmd)
	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}
