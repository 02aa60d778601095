package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/evcraddock/smartvisit/internal/advisor"
	"github.com/evcraddock/smartvisit/internal/visitor"
)

// printJSON marshals v as indented JSON and writes it to w.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printVisitor prints a single visit request in text format.
func printVisitor(w io.Writer, v *visitor.Visitor) {
	fmt.Fprintf(w, "Visitor %s\n", v.ID)
	fmt.Fprintf(w, "  Name:     %s\n", v.FullName)
	fmt.Fprintf(w, "  Phone:    %s\n", v.PhoneNumber)
	fmt.Fprintf(w, "  Host:     %s\n", v.HostName)
	fmt.Fprintf(w, "  Purpose:  %s\n", v.Purpose)
	fmt.Fprintf(w, "  Visit at: %s\n", formatVisitTime(v.VisitDateTime))
	fmt.Fprintf(w, "  Status:   %s\n", formatStatus(v.Status))
	fmt.Fprintf(w, "  Created:  %s\n", formatCreated(v.CreatedAt))
}

// printVisitorTable prints visit requests as a formatted table.
func printVisitorTable(w io.Writer, visitors []visitor.Visitor, pendingCount int) error {
	if len(visitors) == 0 {
		fmt.Fprintln(w, "No visit requests found.")
		fmt.Fprintf(w, "\nPending: %d\n", pendingCount)
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "ID\tNAME\tPHONE\tHOST\tVISIT AT\tSTATUS"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(tw, "--\t----\t-----\t----\t--------\t------"); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}

	for _, v := range visitors {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			v.ID, truncate(v.FullName, 30), v.PhoneNumber, truncate(v.HostName, 20),
			formatVisitTime(v.VisitDateTime), v.Status.Label()); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}

	fmt.Fprintf(w, "\nShown: %d  Pending: %d\n", len(visitors), pendingCount)
	return nil
}

// printClassification prints an advisory classification in text format.
func printClassification(w io.Writer, id string, c *advisor.Classification) {
	fmt.Fprintf(w, "Visitor %s\n", id)
	fmt.Fprintf(w, "  Reliability: %s\n", c.Reliability)
	fmt.Fprintf(w, "  Summary:     %s\n", c.Summary)
}

// formatStatus renders a status with its display label.
func formatStatus(s visitor.Status) string {
	return fmt.Sprintf("%s (%s)", s.Label(), s)
}

// formatCreated renders epoch milliseconds in local time.
func formatCreated(ms int64) string {
	if ms == 0 {
		return "-"
	}
	return time.UnixMilli(ms).Local().Format("2006-01-02 15:04")
}

// formatVisitTime makes an ISO-like local date-time easier to read.
func formatVisitTime(s string) string {
	return strings.Replace(s, "T", " ", 1)
}

// truncate shortens a string to maxLen runes, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
