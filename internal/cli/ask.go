package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question...>",
		Short: "Ask the help assistant about the visit procedure",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd.OutOrStdout(), strings.Join(args, " "))
		},
	}
}

func runAsk(w io.Writer, question string) error {
	answer, err := newAPIClient().Ask(question)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(w, map[string]string{"question": question, "answer": answer})
	}

	fmt.Fprintln(w, answer)
	return nil
}
