// File: cmd/list.go
package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pwsample/internal/observability"
	"github.com/xkilldash9x/pwsample/internal/reporting"
)

// newListCmd creates the `list` command, which shows how the configured
// targets are categorized without selecting or running anything.
func newListCmd() *cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Lists the discovered targets by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromContext(cmd.Context())
			if err != nil {
				return err
			}

			ts, err := loadTargets(cfg)
			if err != nil {
				return err
			}
			if len(ts) == 0 {
				observability.GetLogger().Warn("No targets declared", zap.String("source", cfg.Targets.Source))
			}
			return writeReport(cfg.Report, cmd.OutOrStdout(), reporting.FromTargets(ts))
		},
	}

	listCmd.Flags().StringP("format", "f", "", "Output format: text or json. (Overrides config/env)")
	listCmd.Flags().StringP("output", "o", "", "Write the listing to this file instead of stdout. (Overrides config/env)")
	return listCmd
}
