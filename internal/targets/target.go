// File: internal/targets/target.go
package targets

import (
	"fmt"
	"slices"
	"strings"
)

// Category is the classification bucket of a Target, derived from its name.
type Category int

const (
	// Uncategorized targets are listed in reports but never selected.
	Uncategorized Category = iota
	Desktop
	MobileSafari
	MobileChrome
	Tablet
)

// Categories lists the selectable categories in selection order.
var Categories = []Category{Desktop, MobileSafari, MobileChrome, Tablet}

var categoryNames = map[Category]string{
	Uncategorized: "Uncategorized",
	Desktop:       "Desktop",
	MobileSafari:  "Mobile Safari",
	MobileChrome:  "Mobile Chrome",
	Tablet:        "Tablet",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// MarshalText renders the category with its display name.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText accepts any spelling understood by ParseCategory.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCategory maps a category hint such as "mobile-safari" or "Tablet" to
// a Category. An empty hint is Uncategorized.
func ParseCategory(s string) (Category, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.NewReplacer("-", " ", "_", " ").Replace(normalized)
	switch normalized {
	case "", "uncategorized":
		return Uncategorized, nil
	case "desktop":
		return Desktop, nil
	case "mobile safari":
		return MobileSafari, nil
	case "mobile chrome":
		return MobileChrome, nil
	case "tablet":
		return Tablet, nil
	}
	return Uncategorized, fmt.Errorf("unknown target category %q", s)
}

// desktopEngines are the exact (case-insensitive) names of desktop targets.
var desktopEngines = []string{"chromium", "firefox", "edge", "safari", "webkit"}

// Target is a named browser or device configuration declared in the
// Playwright configuration.
type Target struct {
	Name string `json:"name" yaml:"name"`
	// Hint overrides name based classification when a manifest declares
	// it. An explicit "uncategorized" keeps the target out of selection.
	Hint *Category `json:"category,omitempty" yaml:"category,omitempty"`
}

// Category returns the hint if one was declared, otherwise Classify(Name).
func (t Target) Category() Category {
	if t.Hint != nil {
		return *t.Hint
	}
	return Classify(t.Name)
}

// Classify derives the category from a target name. Rules are applied in
// order and the first match wins.
func Classify(name string) Category {
	switch {
	case strings.HasPrefix(name, "Tablet"):
		return Tablet
	case strings.HasPrefix(name, "Mobile Safari"):
		return MobileSafari
	case strings.HasPrefix(name, "Mobile Chrome"):
		return MobileChrome
	case isDesktop(name):
		return Desktop
	default:
		return Uncategorized
	}
}

func isDesktop(name string) bool {
	lower := strings.ToLower(name)
	if strings.Contains(lower, "mobile") || strings.Contains(lower, "tablet") {
		return false
	}
	return slices.Contains(desktopEngines, lower)
}

// Buckets groups targets by category, preserving discovery order inside
// each bucket.
type Buckets map[Category][]Target

// Categorize sorts targets into buckets. Uncategorized targets are kept
// under the Uncategorized key.
func Categorize(ts []Target) Buckets {
	b := make(Buckets)
	for _, t := range ts {
		c := t.Category()
		b[c] = append(b[c], t)
	}
	return b
}

// Names returns the member names of a category in order.
func (b Buckets) Names(c Category) []string {
	members := b[c]
	names := make([]string, len(members))
	for i, t := range members {
		names[i] = t.Name
	}
	return names
}
