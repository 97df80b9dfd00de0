// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/openlims/labsync/models"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	subtleStyle = lipgloss.NewStyle().Faint(true)
)

func renderPullResult(res models.PullResult, verbose bool) string {
	var b strings.Builder

	header := "Pull finished"
	if res.DryRun {
		header = "Pull preview (dry run, nothing written)"
	}
	b.WriteString(titleStyle.Render(header))
	b.WriteByte('\n')

	for _, name := range sortedModelNames(res.Models) {
		m := res.Models[name]
		if !verbose && len(m.Errors) == 0 {
			continue
		}

		line := fmt.Sprintf("  %-18s imported %d, updated %d, skipped %d", name, m.Imported, m.Updated, m.Skipped)
		if len(m.Errors) > 0 {
			line += failStyle.Render(fmt.Sprintf(", errors %d", len(m.Errors)))
		}
		b.WriteString(line)
		b.WriteByte('\n')

		for _, e := range m.Errors {
			b.WriteString(subtleStyle.Render("    " + e))
			b.WriteByte('\n')
		}
	}

	summary := fmt.Sprintf("imported %d, updated %d, skipped %d, errors %d",
		res.Summary.TotalPulled, res.Summary.TotalUpdated, res.Summary.TotalSkipped, res.Summary.TotalErrors)
	if res.Success {
		b.WriteString(okStyle.Render(summary))
	} else {
		b.WriteString(failStyle.Render(summary))
	}

	return b.String()
}

func renderPushResult(res models.PushResult, verbose bool) string {
	var b strings.Builder

	header := "Push finished"
	if res.DryRun {
		header = "Push preview (dry run, nothing written)"
	}
	b.WriteString(titleStyle.Render(header))
	b.WriteByte('\n')

	for _, name := range sortedModelNames(res.Models) {
		m := res.Models[name]
		if !verbose && len(m.Errors) == 0 && len(m.Conflicts) == 0 {
			continue
		}

		line := fmt.Sprintf("  %-18s pushed %d, updated %d, skipped %d", name, m.Pushed, m.Updated, m.Skipped)
		if len(m.Errors) > 0 {
			line += failStyle.Render(fmt.Sprintf(", errors %d", len(m.Errors)))
		}
		b.WriteString(line)
		b.WriteByte('\n')

		for _, c := range m.Conflicts {
			b.WriteString(warnStyle.Render(fmt.Sprintf("    conflict: local %d vs remote %d (%s), %s",
				c.LocalID, c.RemoteID, c.Type, c.Resolution)))
			b.WriteByte('\n')
		}
		for _, e := range m.Errors {
			b.WriteString(subtleStyle.Render("    " + e))
			b.WriteByte('\n')
		}
	}

	conflicts := 0
	for _, m := range res.Models {
		conflicts += len(m.Conflicts)
	}

	summary := fmt.Sprintf("pushed %d, updated %d, skipped %d, conflicts %d, errors %d",
		res.Summary.TotalPushed, res.Summary.TotalUpdated, res.Summary.TotalSkipped, conflicts, res.Summary.TotalErrors)
	if res.Success {
		b.WriteString(okStyle.Render(summary))
	} else {
		b.WriteString(failStyle.Render(summary))
	}

	return b.String()
}

// runTestAuth runs the diagnostic sequence and renders its outcome. Any
// failure surfaces as a command error so the process exits non-zero.
func runTestAuth(cmd *cobra.Command, a *app, hostID int64) error {
	out := cmd.OutOrStdout()

	info, err := a.sync.TestAuth(cmd.Context(), hostID)
	if err != nil {
		fmt.Fprintln(out, failStyle.Render("authentication failed: "+err.Error()))
		return err
	}

	if !info.Connection.Success {
		fmt.Fprintln(out, failStyle.Render(fmt.Sprintf("connection failed (%s): %s",
			info.Connection.ErrorKind, info.Connection.Message)))
		return fmt.Errorf("connection failed: %s", info.Connection.ErrorKind)
	}

	fmt.Fprintln(out, okStyle.Render(fmt.Sprintf("connected (%s)", info.Connection.RTT.Round(time.Millisecond))))
	fmt.Fprintln(out, okStyle.Render("authenticated as "+info.Identity.Username))

	paths := make([]string, 0, len(info.Endpoints))
	for p := range info.Endpoints {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		if info.Endpoints[p] {
			fmt.Fprintln(out, "  "+okStyle.Render("ok      ")+p)
		} else {
			fmt.Fprintln(out, "  "+failStyle.Render("denied  ")+p)
		}
	}

	return nil
}

func sortedModelNames[M any](m map[string]M) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
