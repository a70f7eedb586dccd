// -- cmd/root.go --
package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pwsample/internal/config"
	"github.com/xkilldash9x/pwsample/internal/observability"
	"github.com/xkilldash9x/pwsample/internal/runner"
)

type contextKey string

const configKey contextKey = "config"

// flagKeys maps command line flags to the viper keys they override. Flags a
// command does not define are skipped.
var flagKeys = map[string]string{
	"root":      "root",
	"log-level": "logger.level",
	"format":    "report.format",
	"output":    "report.output",
}

// NewRootCommand builds a fresh command tree. Every call returns independent
// state, so tests can execute it repeatedly.
func NewRootCommand() *cobra.Command {
	var cfgFile string
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "pwsample",
		Short: "pwsample runs a random cross-section of Playwright projects.",
		Long: `pwsample reads the project names from a Playwright configuration, picks one
desktop browser, one Mobile Safari device, one Mobile Chrome device and one
tablet at random, and runs the test suite against just those projects.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.SetDefaults(v)

			if err := initializeConfig(cmd.Flags(), v, cfgFile); err != nil {
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}

			cfg, err := config.NewConfigFromViper(v)
			if err != nil {
				return fmt.Errorf("failed to load or validate config: %w", err)
			}

			observability.InitializeLogger(cfg.Logger)
			observability.GetLogger().Debug("Starting pwsample", zap.String("version", Version))

			cmd.SetContext(context.WithValue(cmd.Context(), configKey, cfg))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./pwsample.yaml)")
	rootCmd.PersistentFlags().String("root", "", "Playwright project directory. (Overrides config/env)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error. (Overrides config/env)")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context) int {
	return execute(ctx, NewRootCommand())
}

func execute(ctx context.Context, rootCmd *cobra.Command) int {
	defer observability.Sync()

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var exitErr *runner.ExitError
	if errors.As(err, &exitErr) {
		observability.GetLogger().Warn("Test runner reported failures", zap.Int("exit_code", exitErr.Code))
	} else {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
	}
	return ExitCode(err)
}

// ExitCode maps a command error to a process exit code: the runner's own
// status when it failed, 1 for every other error.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *runner.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

// initializeConfig reads in the config file and ENV variables if set, then
// binds the flags of the executing command over them.
func initializeConfig(flags *pflag.FlagSet, v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("pwsample")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("PWSAMPLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// No config file; defaults and env vars apply.
	}

	for name, key := range flagKeys {
		if f := flags.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// configFromContext returns the configuration loaded by the root command.
func configFromContext(ctx context.Context) (*config.Config, error) {
	cfg, ok := ctx.Value(configKey).(*config.Config)
	if !ok || cfg == nil {
		return nil, errors.New("configuration not loaded")
	}
	return cfg, nil
}
