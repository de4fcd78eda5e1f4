// Command cockpit is a terminal chat client for the CashPilot assistant.
//
// Usage:
//
//	cockpit            Launch the chat TUI
//	cockpit whoami     Show the signed-in user
//	cockpit logout     Clear the persisted session
//
// Configuration is read from ~/.config/cockpit/config.toml, COCKPIT_*
// environment variables and flags, in increasing order of precedence.
package main

import (
	"fmt"
	"os"
)

// Version information (injected at build time).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
