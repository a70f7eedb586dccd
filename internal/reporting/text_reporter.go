// File: internal/reporting/text_reporter.go
package reporting

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/xkilldash9x/pwsample/internal/targets"
)

// TextReporter prints the line oriented, human readable report.
type TextReporter struct {
	writer io.WriteCloser
}

// Write implements Reporter.
func (r *TextReporter) Write(report *Report) error {
	w := bufio.NewWriter(r.writer)

	fmt.Fprintf(w, "Discovered %d targets:\n", len(report.Targets))
	for _, c := range targets.Categories {
		fmt.Fprintf(w, "  %-14s %s\n", c.String()+":", joinOrNone(report.Buckets.Names(c)))
	}
	if names := report.Buckets.Names(targets.Uncategorized); len(names) > 0 {
		fmt.Fprintf(w, "  %-14s %s (never selected)\n", targets.Uncategorized.String()+":", strings.Join(names, ", "))
	}

	if report.Picks != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Randomly selected targets:")
		picked := make(map[targets.Category]string, len(report.Picks))
		for _, p := range report.Picks {
			picked[p.Category] = p.Target.Name
		}
		for _, c := range targets.Categories {
			name, ok := picked[c]
			if !ok {
				name = "None"
			}
			fmt.Fprintf(w, "  %-14s %s\n", c.String()+":", name)
		}
	}

	if len(report.Files) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Test files (%d):\n", len(report.Files))
		for _, f := range report.Files {
			fmt.Fprintf(w, "  %s\n", f)
		}
	}

	if report.Command != "" {
		fmt.Fprintln(w)
		verb := "Running"
		if report.DryRun {
			verb = "Would run"
		}
		fmt.Fprintf(w, "%s: %s\n", verb, report.Command)
		fmt.Fprintln(w)
	}

	return w.Flush()
}

// Close implements Reporter.
func (r *TextReporter) Close() error {
	return r.writer.Close()
}

func joinOrNone(names []string) string {
	if len(names) == 0 {
		return "None"
	}
	return strings.Join(names, ", ")
}
