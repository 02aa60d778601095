package cli

import (
	"io"

	"github.com/spf13/cobra"
)

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <id>",
		Short: "Judge the plausibility of a visit purpose (staff)",
		Long:  "Ask the advisory service how plausible a request's stated purpose is. The result is advisory only and is cached per request.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd.OutOrStdout(), args[0])
		},
	}
}

func runAnalyze(w io.Writer, id string) error {
	c, err := newAPIClient().Analyze(id)
	if err != nil {
		return staffError(err)
	}

	if isJSON() {
		return printJSON(w, c)
	}

	printClassification(w, id, c)
	return nil
}
