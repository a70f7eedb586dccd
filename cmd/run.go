// File: cmd/run.go
package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pwsample/internal/config"
	"github.com/xkilldash9x/pwsample/internal/observability"
	"github.com/xkilldash9x/pwsample/internal/reporting"
	"github.com/xkilldash9x/pwsample/internal/runner"
	"github.com/xkilldash9x/pwsample/internal/selection"
	"github.com/xkilldash9x/pwsample/internal/targets"
	"github.com/xkilldash9x/pwsample/internal/testfiles"
)

// newRunCmd creates and configures the `run` command.
func newRunCmd() *cobra.Command {
	var (
		seed   uint64
		dryRun bool
	)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Runs the suite against one random target per category",
		Long: `Selects one random project per category (Desktop, Mobile Safari, Mobile Chrome,
Tablet) and runs every test file except the visual regression suite against
them. The exit status is the test runner's exit status.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromContext(cmd.Context())
			if err != nil {
				return err
			}

			rng := selection.NewRand(seed, cmd.Flags().Changed("seed"))
			streams := runner.Streams{
				Stdin:  cmd.InOrStdin(),
				Stdout: cmd.OutOrStdout(),
				Stderr: cmd.ErrOrStderr(),
			}
			return runSample(cmd.Context(), cfg, rng, dryRun, streams)
		},
	}

	runCmd.Flags().Uint64Var(&seed, "seed", 0, "Seed the selection so the same targets are drawn again.")
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the selection and the runner command without executing it.")
	runCmd.Flags().StringP("format", "f", "", "Report format: text or json. (Overrides config/env)")
	runCmd.Flags().StringP("output", "o", "", "Write the report to this file instead of stdout. (Overrides config/env)")
	return runCmd
}

// runSample discovers, selects and delegates. The report goes to
// streams.Stdout unless the config names an output file.
func runSample(ctx context.Context, cfg *config.Config, rng selection.Rand, dryRun bool, streams runner.Streams) error {
	runID := uuid.New().String()
	logger := observability.GetLogger().With(zap.String("run_id", runID))

	ts, err := loadTargets(cfg)
	if err != nil {
		return err
	}
	logger.Debug("Discovered targets", zap.Int("count", len(ts)))

	files, err := testfiles.Discover(cfg.Root, cfg.Tests.Dir, cfg.Tests.Suffix, cfg.Tests.Exclude)
	if err != nil {
		return err
	}

	plan, err := selection.NewPlan(ts, files, rng)
	if err != nil {
		return err
	}
	for _, c := range plan.Missing {
		logger.Warn("No targets found for category; running with fewer targets", zap.Stringer("category", c))
	}

	inv, err := runner.Build(cfg.Runner, cfg.Root, plan.Names(), plan.TestFiles)
	if err != nil {
		return err
	}

	if err := writeReport(cfg.Report, streams.Stdout, reporting.FromPlan(runID, plan, inv.String(), dryRun)); err != nil {
		return err
	}
	if dryRun {
		return nil
	}

	logger.Info("Delegating to test runner",
		zap.Strings("targets", plan.Names()),
		zap.Int("test_files", len(plan.TestFiles)),
	)
	if err := runner.Run(ctx, inv, streams, cfg.Runner.WaitDelay); err != nil {
		return err
	}
	logger.Info("Test runner finished successfully")
	return nil
}

// loadTargets reads the configured target source, resolved against the root.
func loadTargets(cfg *config.Config) ([]targets.Target, error) {
	source := cfg.Targets.Source
	if !filepath.IsAbs(source) {
		source = filepath.Join(cfg.Root, source)
	}

	reader, err := targets.NewReader(cfg.Targets.Format, source)
	if err != nil {
		return nil, err
	}
	return targets.LoadFile(source, reader)
}

func writeReport(cfg config.ReportConfig, stdout io.Writer, report *reporting.Report) error {
	reporter, err := reporting.NewWithStdout(cfg.Format, cfg.Output, stdout)
	if err != nil {
		return err
	}
	if err := reporter.Write(report); err != nil {
		reporter.Close()
		return err
	}
	if err := reporter.Close(); err != nil {
		return fmt.Errorf("failed to close report: %w", err)
	}
	return nil
}
