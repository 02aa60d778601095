package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/evcraddock/smartvisit/internal/client"
)

func newLookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <phone>",
		Short: "Look up a visit request by phone number",
		Long:  "Show the most recent visit request registered with the given phone number. The number must match exactly.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd.OutOrStdout(), args[0])
		},
	}
}

func runLookup(w io.Writer, phone string) error {
	v, err := newAPIClient().Lookup(phone)
	if client.IsNotFound(err) {
		return fmt.Errorf("no registration found for %s", phone)
	}
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(w, v)
	}

	printVisitor(w, v)
	return nil
}
