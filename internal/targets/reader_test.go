// File: internal/targets/reader_test.go
package targets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mixedConfig = `
// Playwright config with surrounding noise.
export default defineConfig({
  testDir: './tests',
  use: { baseURL: 'https://the-internet.herokuapp.com/' },
  projects: [
    {
      name: "chromium",
      use: { ...devices['Desktop Chrome'] },
    },
    /* tablets */
    { name: 'Tablet - iPad', use: { ...devices['iPad'] } },
    {
      name:'Mobile Safari - iPhone 14',
      use: { ...devices['iPhone 14'] },
    },
  ],
});
`

func TestPatternReader_Read(t *testing.T) {
	ts, err := PatternReader{}.Read([]byte(mixedConfig))
	require.NoError(t, err)

	want := []Target{
		{Name: "chromium"},
		{Name: "Tablet - iPad"},
		{Name: "Mobile Safari - iPhone 14"},
	}
	if diff := cmp.Diff(want, ts); diff != "" {
		t.Fatalf("unexpected targets (-want +got):\n%s", diff)
	}

	assert.Equal(t, Desktop, ts[0].Category())
	assert.Equal(t, Tablet, ts[1].Category())
	assert.Equal(t, MobileSafari, ts[2].Category())
}

func TestPatternReader_Read_EdgeCases(t *testing.T) {
	t.Run("duplicates preserved", func(t *testing.T) {
		ts, err := PatternReader{}.Read([]byte(`name: 'edge' name: "edge"`))
		require.NoError(t, err)
		assert.Equal(t, []Target{{Name: "edge"}, {Name: "edge"}}, ts)
	})

	t.Run("commented declarations are still matched", func(t *testing.T) {
		ts, err := PatternReader{}.Read([]byte("// { name: 'Google Chrome' },\n{ name: 'webkit' }"))
		require.NoError(t, err)
		assert.Equal(t, []Target{{Name: "Google Chrome"}, {Name: "webkit"}}, ts)
	})

	t.Run("no declarations", func(t *testing.T) {
		ts, err := PatternReader{}.Read([]byte(`export default defineConfig({ projects: [] })`))
		require.NoError(t, err)
		assert.Empty(t, ts)
	})

	t.Run("other keys ending in name are ignored", func(t *testing.T) {
		ts, err := PatternReader{}.Read([]byte(`projectname: 'x', hostname: "y", name: "firefox"`))
		require.NoError(t, err)
		assert.Equal(t, []Target{{Name: "firefox"}}, ts)
	})

	t.Run("unquoted values are ignored", func(t *testing.T) {
		ts, err := PatternReader{}.Read([]byte(`name: projectName`))
		require.NoError(t, err)
		assert.Empty(t, ts)
	})
}

func TestManifestReader_YAML(t *testing.T) {
	doc := `
# sampled projects
targets:
  - name: chromium
  - name: Pixel 7
    category: mobile-chrome
  - name: Tablet - iPad
`
	ts, err := ManifestReader{Syntax: FormatYAML}.Read([]byte(doc))
	require.NoError(t, err)
	require.Len(t, ts, 3)
	assert.Equal(t, "chromium", ts[0].Name)
	assert.Nil(t, ts[0].Hint)
	assert.Equal(t, MobileChrome, ts[1].Category())
	assert.Equal(t, Tablet, ts[2].Category())
}

func TestManifestReader_UncategorizedHintSticks(t *testing.T) {
	doc := `
targets:
  - name: chromium
    category: uncategorized
  - name: firefox
`
	ts, err := ManifestReader{Syntax: FormatYAML}.Read([]byte(doc))
	require.NoError(t, err)

	b := Categorize(ts)
	assert.Equal(t, []string{"firefox"}, b.Names(Desktop))
	assert.Equal(t, []string{"chromium"}, b.Names(Uncategorized))
}

func TestManifestReader_JSONC(t *testing.T) {
	doc := `{
  // comments and trailing commas are allowed
  "targets": [
    {"name": "firefox"},
    {"name": "iPhone 15", "category": "Mobile Safari"},
  ],
}`
	ts, err := ManifestReader{Syntax: FormatJSONC}.Read([]byte(doc))
	require.NoError(t, err)
	require.Len(t, ts, 2)
	assert.Equal(t, Desktop, ts[0].Category())
	assert.Equal(t, MobileSafari, ts[1].Category())
}

func TestManifestReader_Errors(t *testing.T) {
	_, err := ManifestReader{Syntax: FormatYAML}.Read([]byte("targets:\n  - name: ''\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty name")

	_, err = ManifestReader{Syntax: FormatYAML}.Read([]byte("targets:\n  - name: x\n    category: watch\n"))
	require.Error(t, err)

	_, err = ManifestReader{Syntax: FormatJSONC}.Read([]byte(`{"targets": [`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid jsonc manifest")

	_, err = ManifestReader{Syntax: "toml"}.Read([]byte(""))
	require.Error(t, err)

	ts, err := ManifestReader{Syntax: FormatYAML}.Read([]byte("other: 1\n"))
	require.NoError(t, err)
	assert.NotNil(t, ts)
	assert.Empty(t, ts)
}

func TestNewReader(t *testing.T) {
	tests := []struct {
		format string
		path   string
		want   Reader
	}{
		{FormatAuto, "playwright.config.ts", PatternReader{}},
		{"", "targets.yml", ManifestReader{Syntax: FormatYAML}},
		{FormatAuto, "targets.YAML", ManifestReader{Syntax: FormatYAML}},
		{FormatAuto, "targets.jsonc", ManifestReader{Syntax: FormatJSONC}},
		{FormatAuto, "targets.json", ManifestReader{Syntax: FormatJSONC}},
		{FormatPattern, "targets.yaml", PatternReader{}},
		{FormatYAML, "playwright.config.ts", ManifestReader{Syntax: FormatYAML}},
	}
	for _, tc := range tests {
		r, err := NewReader(tc.format, tc.path)
		require.NoError(t, err)
		assert.Equal(t, tc.want, r, "%s/%s", tc.format, tc.path)
	}

	_, err := NewReader("xml", "a.xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported target configuration format")
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "playwright.config.ts")
	require.NoError(t, os.WriteFile(path, []byte(mixedConfig), 0o644))

	ts, err := LoadFile(path, PatternReader{})
	require.NoError(t, err)
	assert.Len(t, ts, 3)

	missing := filepath.Join(dir, "missing.config.ts")
	_, err = LoadFile(missing, PatternReader{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfigUnreadable))
	assert.Contains(t, err.Error(), missing, "the error should name the unreadable resource")
}
