package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the staff session",
		Long:  "Ends the staff session on the server and removes the stored token from the config file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(cmd.OutOrStdout())
		},
	}
}

func runLogout(w io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if cfg.SessionToken == "" {
		fmt.Fprintln(w, "Not logged in.")
		return nil
	}

	if err := newAPIClient().Logout(); err != nil {
		fmt.Fprintf(w, "warning: server logout failed: %v\n", err)
	}

	cfg.SessionToken = ""
	if err := saveConfig(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(w, "✓ Logged out. Session token removed.")
	return nil
}
