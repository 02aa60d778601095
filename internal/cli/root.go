// Package cli defines the cobra command tree for smartvisit.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evcraddock/smartvisit/internal/client"
	"github.com/evcraddock/smartvisit/internal/visitor"
)

var (
	flagFormat string
	flagConfig string
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "sv",
		Short:         "Register and approve building visits",
		Long:          "A visitor-management service. Visitors register a visit request, staff approve or reject it, and visitors look up the decision by phone number.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "server config file (default: $SV_CONFIG)")

	root.AddCommand(
		newServeCmd(),
		newRegisterCmd(),
		newLookupCmd(),
		newListCmd(),
		newShowCmd(),
		newDecideCmd("approve", "Approve a pending visit request", visitor.Approved),
		newDecideCmd("reject", "Reject a pending visit request", visitor.Rejected),
		newAnalyzeCmd(),
		newAskCmd(),
		newQRCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newStatusCmd(),
		newVersionCmd(),
	)

	return root
}

// newAPIClient creates an HTTP client for the smartvisit API.
func newAPIClient() *client.Client {
	return client.New(getServerURL(), getSessionToken())
}

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == "json"
}

// staffError turns a 401 into a hint to log in.
func staffError(err error) error {
	if client.IsUnauthorized(err) {
		return fmt.Errorf("%w (run 'sv login' first)", err)
	}
	return err
}
