// File: internal/targets/reader.go
package targets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrConfigUnreadable is returned when the target configuration cannot be read.
var ErrConfigUnreadable = errors.New("target configuration unreadable")

// Supported configuration formats.
const (
	FormatAuto    = "auto"
	FormatPattern = "pattern"
	FormatYAML    = "yaml"
	FormatJSONC   = "jsonc"
)

// Formats lists every value accepted by NewReader.
var Formats = []string{FormatAuto, FormatPattern, FormatYAML, FormatJSONC}

// Reader extracts target declarations from the raw bytes of a configuration
// source. Implementations must preserve declaration order and duplicates.
type Reader interface {
	Read(data []byte) ([]Target, error)
}

// NewReader returns the reader for a format. FormatAuto picks one from the
// extension of path.
func NewReader(format, path string) (Reader, error) {
	if format == "" || format == FormatAuto {
		format = formatForPath(path)
	}
	switch format {
	case FormatPattern:
		return PatternReader{}, nil
	case FormatYAML:
		return ManifestReader{Syntax: FormatYAML}, nil
	case FormatJSONC:
		return ManifestReader{Syntax: FormatJSONC}, nil
	default:
		return nil, fmt.Errorf("unsupported target configuration format: %s", format)
	}
}

func formatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json", ".jsonc":
		return FormatJSONC
	default:
		return FormatPattern
	}
}

// LoadFile reads path and hands its contents to r.
func LoadFile(path string, r Reader) ([]Target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigUnreadable, path, err)
	}
	ts, err := r.Read(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return ts, nil
}

// namePattern matches a `name` field bound to a single or double quoted
// string literal.
var namePattern = regexp.MustCompile(`\bname\s*:\s*(?:"([^"]*)"|'([^']*)')`)

// PatternReader scans text for `name: "<value>"` declarations anywhere in
// the document. It does not parse the surrounding structure, so it works on
// a playwright.config.ts as is. Declarations inside comments are picked up too.
type PatternReader struct{}

// Read implements Reader.
func (PatternReader) Read(data []byte) ([]Target, error) {
	matches := namePattern.FindAllSubmatch(data, -1)
	ts := make([]Target, 0, len(matches))
	for _, m := range matches {
		name := m[1]
		if m[2] != nil {
			name = m[2]
		}
		ts = append(ts, Target{Name: string(name)})
	}
	return ts, nil
}

// manifest is the explicit schema for structured target files.
type manifest struct {
	Targets []Target `json:"targets" yaml:"targets"`
}

// ManifestReader decodes a structured target manifest:
//
//	targets:
//	  - name: chromium
//	  - name: Tablet - iPad
//	    category: tablet
//
// Syntax selects YAML or JSON with comments and trailing commas.
type ManifestReader struct {
	Syntax string
}

// Read implements Reader.
func (m ManifestReader) Read(data []byte) ([]Target, error) {
	var doc manifest
	switch m.Syntax {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("invalid yaml manifest: %w", err)
		}
	case FormatJSONC:
		std, err := hujson.Standardize(data)
		if err != nil {
			return nil, fmt.Errorf("invalid jsonc manifest: %w", err)
		}
		if err := json.Unmarshal(std, &doc); err != nil {
			return nil, fmt.Errorf("invalid jsonc manifest: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported manifest syntax: %s", m.Syntax)
	}

	for i, t := range doc.Targets {
		if strings.TrimSpace(t.Name) == "" {
			return nil, fmt.Errorf("target %d has an empty name", i)
		}
	}
	if doc.Targets == nil {
		return []Target{}, nil
	}
	return doc.Targets, nil
}
