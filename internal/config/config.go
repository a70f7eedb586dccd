// File: internal/config/config.go
package config

import (
	"fmt"
	"slices"
	"time"

	"github.com/spf13/viper"

	"github.com/xkilldash9x/pwsample/internal/reporting"
	"github.com/xkilldash9x/pwsample/internal/targets"
)

// Config holds the entire application configuration.
type Config struct {
	// Root is the Playwright project directory every relative path is resolved against.
	Root    string        `mapstructure:"root" yaml:"root"`
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Targets TargetsConfig `mapstructure:"targets" yaml:"targets"`
	Tests   TestsConfig   `mapstructure:"tests" yaml:"tests"`
	Runner  RunnerConfig  `mapstructure:"runner" yaml:"runner"`
	Report  ReportConfig  `mapstructure:"report" yaml:"report"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig names the console color of each level pwsample logs at.
type ColorConfig struct {
	Debug string `mapstructure:"debug" yaml:"debug"`
	Info  string `mapstructure:"info" yaml:"info"`
	Warn  string `mapstructure:"warn" yaml:"warn"`
	Error string `mapstructure:"error" yaml:"error"`
}

// TargetsConfig points at the document the target names are read from.
type TargetsConfig struct {
	Source string `mapstructure:"source" yaml:"source"`
	// Format is one of auto, pattern, yaml or jsonc.
	Format string `mapstructure:"format" yaml:"format"`
}

// TestsConfig controls test file discovery.
type TestsConfig struct {
	Dir    string `mapstructure:"dir" yaml:"dir"`
	Suffix string `mapstructure:"suffix" yaml:"suffix"`
	// Exclude names the suite that always runs against every target, so it
	// is never part of a sampled run.
	Exclude string `mapstructure:"exclude" yaml:"exclude"`
}

// RunnerConfig describes the external test runner.
type RunnerConfig struct {
	Command     []string          `mapstructure:"command" yaml:"command"`
	ProjectFlag string            `mapstructure:"project_flag" yaml:"project_flag"`
	Env         map[string]string `mapstructure:"env" yaml:"env"`
	ReportDir   string            `mapstructure:"report_dir" yaml:"report_dir"`
	WaitDelay   time.Duration     `mapstructure:"wait_delay" yaml:"wait_delay"`
}

// ReportConfig controls the status report printed before the runner starts.
type ReportConfig struct {
	Format string `mapstructure:"format" yaml:"format"`
	Output string `mapstructure:"output" yaml:"output"`
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("root", ".")

	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "pwsample")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")

	// -- Targets --
	v.SetDefault("targets.source", "playwright.config.ts")
	v.SetDefault("targets.format", "auto")

	// -- Tests --
	v.SetDefault("tests.dir", "tests")
	v.SetDefault("tests.suffix", ".spec.ts")
	v.SetDefault("tests.exclude", "visual.spec.ts")

	// -- Runner --
	v.SetDefault("runner.command", []string{"npx", "playwright", "test"})
	v.SetDefault("runner.project_flag", "--project")
	v.SetDefault("runner.env", map[string]string{})
	v.SetDefault("runner.report_dir", "")
	v.SetDefault("runner.wait_delay", "10s")

	// -- Report --
	v.SetDefault("report.format", "text")
	v.SetDefault("report.output", "")
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config

	// The Playwright config keys its HTML reporter folder off this variable.
	v.BindEnv("runner.report_dir", "PWSAMPLE_REPORT_DIR", "REPORT_OUTPUT_DIR")

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if c.Targets.Source == "" {
		return fmt.Errorf("targets.source is a required configuration field")
	}
	if !slices.Contains(targets.Formats, c.Targets.Format) {
		return fmt.Errorf("targets.format must be one of %v, got %q", targets.Formats, c.Targets.Format)
	}
	if c.Tests.Dir == "" {
		return fmt.Errorf("tests.dir is a required configuration field")
	}
	if c.Tests.Suffix == "" {
		return fmt.Errorf("tests.suffix is a required configuration field")
	}
	if err := c.Runner.Validate(); err != nil {
		return fmt.Errorf("runner configuration invalid: %w", err)
	}
	if !slices.Contains(reporting.Formats, c.Report.Format) {
		return fmt.Errorf("report.format must be one of %v, got %q", reporting.Formats, c.Report.Format)
	}
	return nil
}

// Validate checks the runner configuration.
func (r *RunnerConfig) Validate() error {
	if len(r.Command) == 0 || r.Command[0] == "" {
		return fmt.Errorf("command must name an executable")
	}
	if r.WaitDelay < 0 {
		return fmt.Errorf("wait_delay must not be negative")
	}
	return nil
}
