package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cashpilot/cockpit/session"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

func runWhoami(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store := session.NewStore(cfg.StateDir)
	sess, ok := store.Restore()
	if !ok {
		return errors.New("not signed in")
	}

	// Ask the server rather than trusting the cached identity; this also
	// verifies the stored token still works.
	client := newClient(cfg, zap.NewNop())
	client.SetToken(sess.Token)
	user, err := client.Profile(cmd.Context())
	if err != nil {
		return fmt.Errorf("profile: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\n", user.Name, user.Email)
	return nil
}
