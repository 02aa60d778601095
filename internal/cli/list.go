package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/evcraddock/smartvisit/internal/client"
)

func newListCmd() *cobra.Command {
	var opts client.ListOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List visit requests (staff)",
		Long:  "List visit requests, newest first. The pending view is the approval queue; history holds decided requests.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.View, "view", "pending", "which requests to show (pending|history|all)")
	cmd.Flags().StringVar(&opts.Search, "search", "", "filter by name (case-insensitive) or phone substring")

	return cmd
}

func runList(w io.Writer, opts client.ListOptions) error {
	switch opts.View {
	case "pending", "history", "all":
	default:
		return fmt.Errorf("invalid view %q (want pending, history or all)", opts.View)
	}

	resp, err := newAPIClient().ListVisitors(opts)
	if err != nil {
		return staffError(err)
	}

	if isJSON() {
		return printJSON(w, resp)
	}

	return printVisitorTable(w, resp.Visitors, resp.PendingCount)
}
