// File: internal/runner/invocation.go
package runner

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"github.com/xkilldash9x/pwsample/internal/config"
)

// reportDirEnv is read by the Playwright config to place the HTML report.
const reportDirEnv = "REPORT_OUTPUT_DIR"

// Invocation describes one execution of the external test runner.
type Invocation struct {
	Path string
	Args []string
	// Env holds KEY=VALUE pairs added on top of the inherited environment.
	Env []string
	Dir string
}

// Build assembles the runner command for the selected project names and
// test files: command[1:], one project filter per name, then the files.
func Build(cfg config.RunnerConfig, root string, projects, files []string) (Invocation, error) {
	if len(cfg.Command) == 0 || cfg.Command[0] == "" {
		return Invocation{}, errors.New("runner command is empty")
	}

	flag := cfg.ProjectFlag
	if flag == "" {
		flag = "--project"
	}

	args := make([]string, 0, len(cfg.Command)-1+len(projects)+len(files))
	args = append(args, cfg.Command[1:]...)
	for _, p := range projects {
		args = append(args, fmt.Sprintf("%s=%s", flag, p))
	}
	args = append(args, files...)

	return Invocation{
		Path: cfg.Command[0],
		Args: args,
		Env:  buildEnv(cfg),
		Dir:  root,
	}, nil
}

func buildEnv(cfg config.RunnerConfig) []string {
	keys := make([]string, 0, len(cfg.Env))
	for k := range cfg.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		// viper lowercases map keys on load.
		env = append(env, strings.ToUpper(k)+"="+cfg.Env[k])
	}
	if cfg.ReportDir != "" {
		env = append(env, reportDirEnv+"="+cfg.ReportDir)
	}
	return env
}

// String renders the invocation as a bash command line. Environment
// additions are shown as assignments in front of the command.
func (inv Invocation) String() string {
	words := make([]string, 0, len(inv.Env)+1+len(inv.Args))
	for _, kv := range inv.Env {
		k, v, _ := strings.Cut(kv, "=")
		words = append(words, k+"="+quote(v))
	}
	words = append(words, quote(inv.Path))
	for _, a := range inv.Args {
		words = append(words, quote(a))
	}
	return strings.Join(words, " ")
}

func quote(s string) string {
	q, err := syntax.Quote(s, syntax.LangBash)
	if err != nil {
		// Only strings bash cannot represent, such as ones holding NUL bytes.
		return fmt.Sprintf("%q", s)
	}
	return q
}
