package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cashpilot/cockpit/session"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the persisted session",
	RunE:  runLogout,
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

// runLogout drops the local session only. Tokens are stateless on the
// server, so there is nothing to revoke remotely.
func runLogout(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store := session.NewStore(cfg.StateDir)
	if _, ok := store.Restore(); !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "No active session.")
		return nil
	}
	if err := store.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
	return nil
}
