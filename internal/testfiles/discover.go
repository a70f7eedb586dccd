// File: internal/testfiles/discover.go
package testfiles

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// globEscaper quotes the characters doublestar treats as pattern syntax.
var globEscaper = strings.NewReplacer(
	`\`, `\\`,
	`*`, `\*`,
	`?`, `\?`,
	`[`, `\[`,
	`]`, `\]`,
	`{`, `\{`,
	`}`, `\}`,
)

// Discover lists the test files directly inside dir whose names end in
// suffix, leaving out the file named exclude. Results are sorted and
// prefixed with dir so they can be passed to the runner as is.
//
// root is the directory dir is resolved against when dir is relative; the
// returned paths stay relative to root.
func Discover(root, dir, suffix, exclude string) ([]string, error) {
	abs := dir
	if !filepath.IsAbs(dir) {
		abs = filepath.Join(root, dir)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read test directory %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("test directory %s is not a directory", abs)
	}

	pattern := "*" + globEscaper.Replace(suffix)
	names, err := doublestar.Glob(os.DirFS(abs), pattern, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
	if err != nil {
		return nil, fmt.Errorf("failed to list test directory %s: %w", abs, err)
	}

	files := make([]string, 0, len(names))
	for _, name := range names {
		if path.Base(name) == exclude {
			continue
		}
		files = append(files, filepath.Join(dir, filepath.FromSlash(name)))
	}
	sort.Strings(files)
	return files, nil
}
