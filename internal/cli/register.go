package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/evcraddock/smartvisit/internal/visitor"
)

func newRegisterCmd() *cobra.Command {
	var in visitor.Input

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a visit request",
		Long:  "Submit a visit request. It starts as pending until staff approve or reject it.",
		Example: `  sv register --name "Nguyen Van A" --phone 0901234567 \
    --host "Mr. Binh" --purpose "Business meeting" --at 2024-06-01T09:00`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(cmd.OutOrStdout(), in)
		},
	}

	cmd.Flags().StringVar(&in.FullName, "name", "", "visitor full name")
	cmd.Flags().StringVar(&in.PhoneNumber, "phone", "", "visitor phone number (used for lookup)")
	cmd.Flags().StringVar(&in.HostName, "host", "", "person being visited")
	cmd.Flags().StringVar(&in.Purpose, "purpose", "", "purpose of the visit")
	cmd.Flags().StringVar(&in.VisitDateTime, "at", "", "visit date and time (e.g. 2024-06-01T09:00)")

	return cmd
}

func runRegister(w io.Writer, in visitor.Input) error {
	if err := in.Validate(); err != nil {
		return err
	}

	v, err := newAPIClient().Register(in)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(w, v)
	}

	fmt.Fprintln(w, "✓ Visit request registered.")
	printVisitor(w, v)
	fmt.Fprintf(w, "\nCheck the decision later with: sv lookup %s\n", v.PhoneNumber)
	return nil
}
