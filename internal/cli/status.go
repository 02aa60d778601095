package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/evcraddock/smartvisit/internal/client"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check connection and login status",
		Long:  "Tests the connection to the server and checks whether the stored staff session is still valid.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.OutOrStdout())
		},
	}
}

func runStatus(w io.Writer) error {
	serverURL := getServerURL()
	token := getSessionToken()

	fmt.Fprintf(w, "Server:  %s\n", serverURL)

	c := client.New(serverURL, token)
	if err := c.Health(); err != nil {
		fmt.Fprintf(w, "Status:  ✗ cannot reach server (%v)\n", err)
		return nil
	}

	if token == "" {
		fmt.Fprintln(w, "Session: not logged in")
		fmt.Fprintln(w, "\nRun 'sv login' to authenticate as staff.")
		return nil
	}

	prefix := token
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	fmt.Fprintf(w, "Session: %s…\n", prefix)

	resp, err := c.ListVisitors(client.ListOptions{})
	switch {
	case err == nil:
		fmt.Fprintf(w, "Status:  ✓ connected as staff (%d pending)\n", resp.PendingCount)
	case client.IsUnauthorized(err):
		fmt.Fprintln(w, "Status:  ✗ session expired or invalid")
		fmt.Fprintln(w, "\nRun 'sv login' to log in again.")
	default:
		fmt.Fprintf(w, "Status:  ✗ unexpected response (%v)\n", err)
	}

	return nil
}
