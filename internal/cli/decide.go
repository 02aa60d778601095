package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/evcraddock/smartvisit/internal/visitor"
)

// newDecideCmd builds the approve and reject commands.
func newDecideCmd(use, short string, status visitor.Status) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short + " (staff)",
		Long:  short + ". A decided request can be decided again; the last decision wins.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecide(cmd.OutOrStdout(), args[0], status)
		},
	}
}

func runDecide(w io.Writer, id string, status visitor.Status) error {
	resp, err := newAPIClient().SetStatus(id, status)
	if err != nil {
		return staffError(err)
	}

	if isJSON() {
		return printJSON(w, resp)
	}

	if !resp.Updated {
		return fmt.Errorf("no visit request with id %s", id)
	}

	fmt.Fprintf(w, "✓ Visitor %s: %s\n", id, formatStatus(resp.Status))
	return nil
}
