package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evcraddock/smartvisit/internal/client"
)

func newLoginCmd() *cobra.Command {
	var server, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in as staff and store the session token",
		Long:  "Log in with the shared staff password. The session token is saved to the CLI config for later staff commands.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("SV_STAFF_PASSWORD")
			}
			if password == "" {
				var err error
				password, err = promptPassword(cmd.OutOrStdout(), cmd.InOrStdin())
				if err != nil {
					return err
				}
			}
			return runLogin(cmd.OutOrStdout(), server, password)
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "server URL (default: from config or http://localhost:8080)")
	cmd.Flags().StringVar(&password, "password", "", "staff password (default: $SV_STAFF_PASSWORD or prompt)")

	return cmd
}

func promptPassword(w io.Writer, r io.Reader) (string, error) {
	fmt.Fprint(w, "Staff password: ")
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func runLogin(w io.Writer, serverFlag, password string) error {
	if password == "" {
		return fmt.Errorf("no password provided")
	}

	serverURL := serverFlag
	if serverURL == "" {
		serverURL = getServerURL()
	}

	token, err := client.New(serverURL, "").Login(password)
	if err != nil {
		return err
	}

	// Load existing config to preserve other fields
	cfg, err := loadConfig()
	if err != nil {
		cfg = CLIConfig{}
	}

	cfg.SessionToken = token
	if serverFlag != "" {
		cfg.ServerURL = serverFlag
	}

	if err := saveConfig(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(w, "✓ Logged in as staff.")
	return nil
}
