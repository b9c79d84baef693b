// Bibsync - Library Registry to ILS Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bibsync

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Build metadata, overridden at build time via -ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Printf("bibsync %s (commit %s, built %s)\n", version, commit, date)
	},
}
