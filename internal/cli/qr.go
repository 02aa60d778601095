package cli

import (
	"fmt"
	"io"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"
)

func newQRCmd() *cobra.Command {
	var link string

	cmd := &cobra.Command{
		Use:   "qr",
		Short: "Print the registration QR code",
		Long:  "Print a terminal QR code that opens the registration link. The server serves the same code as a PNG at /api/staff/qr.png.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQR(cmd.OutOrStdout(), link)
		},
	}

	cmd.Flags().StringVar(&link, "url", "", "registration link (default: <server URL>/)")

	return cmd
}

func runQR(w io.Writer, link string) error {
	if link == "" {
		link = strings.TrimRight(getServerURL(), "/") + "/"
	}

	q, err := qrcode.New(link, qrcode.Medium)
	if err != nil {
		return fmt.Errorf("encoding QR code: %w", err)
	}

	fmt.Fprintln(w, q.ToSmallString(false))
	fmt.Fprintf(w, "Scan to register: %s\n", link)
	return nil
}
