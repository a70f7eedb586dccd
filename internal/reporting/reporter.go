// File: internal/reporting/reporter.go
package reporting

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/xkilldash9x/pwsample/internal/selection"
	"github.com/xkilldash9x/pwsample/internal/targets"
)

// Report is what a run announces before handing over to the runner.
type Report struct {
	RunID   string              `json:"run_id,omitempty"`
	Targets []targets.Target    `json:"targets"`
	Buckets targets.Buckets     `json:"-"`
	Groups  map[string][]string `json:"categories"`
	Picks   []selection.Pick    `json:"selected,omitempty"`
	Missing []targets.Category  `json:"missing,omitempty"`
	Files   []string            `json:"test_files,omitempty"`
	Command string              `json:"command,omitempty"`
	DryRun  bool                `json:"dry_run,omitempty"`
}

// FromTargets builds a discovery only report, as printed by `list`.
func FromTargets(ts []targets.Target) *Report {
	r := &Report{Targets: ts, Buckets: targets.Categorize(ts)}
	r.Groups = groups(r.Buckets)
	return r
}

// FromPlan builds the full report for a run.
func FromPlan(runID string, plan *selection.Plan, command string, dryRun bool) *Report {
	return &Report{
		RunID:   runID,
		Targets: plan.Targets,
		Buckets: plan.Buckets,
		Picks:   plan.Picks,
		Missing: plan.Missing,
		Files:   plan.TestFiles,
		Command: command,
		DryRun:  dryRun,
		Groups:  groups(plan.Buckets),
	}
}

// groups flattens buckets to display name -> member names. Every selectable
// category is present, empty ones as an empty list.
func groups(b targets.Buckets) map[string][]string {
	out := make(map[string][]string, len(targets.Categories)+1)
	for _, c := range targets.Categories {
		out[c.String()] = b.Names(c)
	}
	if len(b[targets.Uncategorized]) > 0 {
		out[targets.Uncategorized.String()] = b.Names(targets.Uncategorized)
	}
	return out
}

// Reporter writes a run report to an output.
type Reporter interface {
	Write(report *Report) error
	// Close releases the output, if the reporter owns it.
	Close() error
}

// Formats lists the values New accepts.
var Formats = []string{"text", "json"}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// New creates a reporter for format that writes to outputPath, or to stdout
// when outputPath is empty or "stdout".
func New(format, outputPath string) (Reporter, error) {
	return NewWithStdout(format, outputPath, os.Stdout)
}

// NewWithStdout is New with an explicit stand-in for stdout.
func NewWithStdout(format, outputPath string, stdout io.Writer) (Reporter, error) {
	if !slices.Contains(Formats, format) {
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}

	var writer io.WriteCloser
	if outputPath == "" || outputPath == "stdout" {
		writer = nopWriteCloser{stdout}
	} else {
		f, err := os.Create(outputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create output file %s: %w", outputPath, err)
		}
		writer = f
	}

	if format == "json" {
		return &JSONReporter{writer: writer}, nil
	}
	return &TextReporter{writer: writer}, nil
}
