// Bibsync - Library Registry to ILS Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bibsync

// Bibsync synchronizes library metadata from a national registry feed
// into an ILS over its REST API. One invocation is one batch run: read
// the key list, fetch each record, convert it to partner and user
// entities, and upsert them idempotently.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagConfigPath string
	flagKeyFile    string
	flagPartners   bool
	flagUsers      bool
	flagDryRun     bool
)

var rootCmd = &cobra.Command{
	Use:   "bibsync",
	Short: "Synchronize library registry records into the ILS",
	Long: `Bibsync reads a list of library numbers, fetches each library's
registry record, converts it to resource-sharing partner and
institutional user entities, and creates or updates them in the ILS.

Each run produces a per-municipality text report of successes and
failures. Failed records are retried on the next scheduled run; there
are no in-run retries.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfigPath, "config", "c", "", "Path to the YAML config file")

	runCmd.Flags().StringVarP(&flagKeyFile, "keys", "k", "", "Newline-delimited library number list (overrides config)")
	runCmd.Flags().BoolVar(&flagPartners, "partners", false, "Run only the partner job")
	runCmd.Flags().BoolVar(&flagUsers, "users", false, "Run only the user job")
	runCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Fetch and convert but skip all ILS writes")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
