// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Populated at build time via -ldflags "-X main.buildVersion=...".
var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "Build version: %s\n", orNA(buildVersion))
		fmt.Fprintf(cmd.OutOrStdout(), "Build date: %s\n", orNA(buildDate))
		fmt.Fprintf(cmd.OutOrStdout(), "Build commit: %s\n", orNA(buildCommit))
	},
}

func orNA(v string) string {
	if v == "" {
		return "N/A"
	}
	return v
}
