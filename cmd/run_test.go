// File: cmd/run_test.go
package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/xkilldash9x/pwsample/internal/config"
	"github.com/xkilldash9x/pwsample/internal/observability"
)

const wantRunnerArgs = "args: --project=chromium|--project=Mobile Safari - iPhone 14|" +
	"--project=Mobile Chrome - Pixel 7|--project=Tablet - iPad Pro|" +
	"tests/abtest.spec.ts|tests/elements.spec.ts\n"

func TestRunCmd_DelegatesToRunner(t *testing.T) {
	p := newProject(t, projectOptions{
		playwrightConfig: fullConfig,
		testFiles:        []string{"elements.spec.ts", "abtest.spec.ts", "visual.spec.ts"},
	})

	stdout, stderr, code := executeCommand(t, "run", "--config", p.configPath)

	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Discovered 5 targets:")
	assert.Contains(t, stdout, "Uncategorized: Google Chrome (never selected)")
	assert.Contains(t, stdout, "Running: ")
	assert.Contains(t, stdout, wantRunnerArgs)
	assert.Contains(t, stdout, "report_dir: reports\n")
	assert.NotContains(t, stdout, "visual.spec.ts")
}

func TestRunCmd_PropagatesRunnerStatus(t *testing.T) {
	p := newProject(t, projectOptions{
		playwrightConfig: fullConfig,
		testFiles:        []string{"abtest.spec.ts", "elements.spec.ts"},
		exitCode:         2,
	})

	stdout, stderr, code := executeCommand(t, "run", "--config", p.configPath)

	assert.Equal(t, 2, code)
	assert.Contains(t, stdout, wantRunnerArgs)
	assert.NotContains(t, stderr, "Error:")
}

func TestRunCmd_DryRun(t *testing.T) {
	p := newProject(t, projectOptions{
		playwrightConfig: fullConfig,
		testFiles:        []string{"abtest.spec.ts", "elements.spec.ts"},
		exitCode:         2,
	})

	stdout, _, code := executeCommand(t, "run", "--config", p.configPath, "--dry-run")

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Would run: GO_WANT_HELPER_PROCESS=1 HELPER_EXIT_CODE=2 REPORT_OUTPUT_DIR=reports ")
	assert.Contains(t, stdout, "'--project=Mobile Safari - iPhone 14'")
	assert.NotContains(t, stdout, "args:", "the runner must not be started on a dry run")
}

func TestRunCmd_JSONReportToFile(t *testing.T) {
	p := newProject(t, projectOptions{
		playwrightConfig: fullConfig,
		testFiles:        []string{"abtest.spec.ts", "elements.spec.ts"},
	})
	reportPath := filepath.Join(t.TempDir(), "selection.json")

	stdout, stderr, code := executeCommand(t,
		"run", "--config", p.configPath, "--dry-run", "--format", "json", "--output", reportPath)
	require.Equal(t, 0, code, stderr)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)

	var doc struct {
		RunID    string `json:"run_id"`
		Selected []struct {
			Category string `json:"category"`
		} `json:"selected"`
		TestFiles []string `json:"test_files"`
		DryRun    bool     `json:"dry_run"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.NotEmpty(t, doc.RunID)
	require.Len(t, doc.Selected, 4)
	assert.Equal(t, "Desktop", doc.Selected[0].Category)
	assert.Equal(t, "Tablet", doc.Selected[3].Category)
	assert.Equal(t, []string{"tests/abtest.spec.ts", "tests/elements.spec.ts"}, doc.TestFiles)
	assert.True(t, doc.DryRun)
}

func TestRunCmd_SeedIsReproducible(t *testing.T) {
	const manyDesktops = `export default defineConfig({
  projects: [
    { name: 'chromium' }, { name: 'firefox' }, { name: 'webkit' },
    { name: 'edge' }, { name: 'safari' },
  ],
});
`
	p := newProject(t, projectOptions{
		playwrightConfig: manyDesktops,
		testFiles:        []string{"abtest.spec.ts"},
	})

	first, _, code := executeCommand(t, "run", "--config", p.configPath, "--dry-run", "--seed", "42")
	require.Equal(t, 0, code)
	second, _, code := executeCommand(t, "run", "--config", p.configPath, "--dry-run", "--seed", "42")
	require.Equal(t, 0, code)

	selected := func(out string) string {
		return out[strings.Index(out, "Randomly selected targets:"):strings.Index(out, "Test files")]
	}
	assert.Equal(t, selected(first), selected(second))
}

func TestRunCmd_Preconditions(t *testing.T) {
	tests := []struct {
		name    string
		opts    projectOptions
		wantErr string
	}{
		{
			name:    "unreadable config",
			opts:    projectOptions{testFiles: []string{"abtest.spec.ts"}},
			wantErr: "target configuration unreadable",
		},
		{
			name:    "no targets",
			opts:    projectOptions{playwrightConfig: "export default defineConfig({});\n", testFiles: []string{"abtest.spec.ts"}},
			wantErr: "no targets",
		},
		{
			name:    "no desktop target",
			opts:    projectOptions{playwrightConfig: mobileOnlyConfig, testFiles: []string{"abtest.spec.ts"}},
			wantErr: "desktop",
		},
		{
			name:    "only the visual suite",
			opts:    projectOptions{playwrightConfig: fullConfig, testFiles: []string{"visual.spec.ts"}},
			wantErr: "no test files",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newProject(t, tt.opts)

			stdout, stderr, code := executeCommand(t, "run", "--config", p.configPath)

			assert.Equal(t, 1, code)
			assert.Contains(t, strings.ToLower(stderr), tt.wantErr)
			assert.NotContains(t, stdout, "args:", "the runner must not be started")
		})
	}
}

func TestRunCmd_WarnsForEachMissingCategory(t *testing.T) {
	const desktopOnly = "projects: [{ name: 'chromium' }, { name: 'firefox' }]\n"
	p := newProject(t, projectOptions{
		playwrightConfig: desktopOnly,
		testFiles:        []string{"abtest.spec.ts"},
	})

	observability.ResetForTest()
	t.Cleanup(observability.ResetForTest)
	var logs bytes.Buffer
	observability.Initialize(config.LoggerConfig{Level: "warn", Format: "json"}, zapcore.AddSync(&logs))

	_, stderr, code := executeCommand(t, "run", "--config", p.configPath, "--dry-run")
	require.Equal(t, 0, code, stderr)

	var categories []string
	for _, line := range strings.Split(strings.TrimSpace(logs.String()), "\n") {
		var entry struct {
			Level    string `json:"level"`
			Msg      string `json:"msg"`
			Category string `json:"category"`
		}
		require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
		if entry.Level == "WARN" && strings.HasPrefix(entry.Msg, "No targets found for category") {
			categories = append(categories, entry.Category)
		}
	}
	assert.Equal(t, []string{"Mobile Safari", "Mobile Chrome", "Tablet"}, categories)
}
