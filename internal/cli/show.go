package cli

import (
	"fmt"
	"io"

	"github.com/evcraddock/smartvisit/internal/client"
	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one visit request (staff)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd.OutOrStdout(), args[0])
		},
	}
}

func runShow(w io.Writer, id string) error {
	v, err := newAPIClient().GetVisitor(id)
	if client.IsNotFound(err) {
		return fmt.Errorf("no visit request with id %s", id)
	}
	if err != nil {
		return staffError(err)
	}

	if isJSON() {
		return printJSON(w, v)
	}

	printVisitor(w, v)
	return nil
}
