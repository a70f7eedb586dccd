// File: internal/selection/selection.go
package selection

import (
	"errors"
	"math/rand/v2"

	"github.com/xkilldash9x/pwsample/internal/targets"
)

var (
	// ErrNoTargets means the configuration declared no targets at all.
	ErrNoTargets = errors.New("no targets found in configuration")
	// ErrNoDesktop means no target classified as a desktop browser.
	ErrNoDesktop = errors.New("no desktop browser targets found")
	// ErrNoTestFiles means test discovery came back empty after exclusions.
	ErrNoTestFiles = errors.New("no test files found")
)

// Rand is the randomness a selection draws from. *rand.Rand satisfies it.
type Rand interface {
	// IntN returns a uniform value in [0, n). n is always positive.
	IntN(n int) int
}

// NewRand returns a PCG backed source. When seeded is false the seed comes
// from the runtime's random source and runs are not reproducible.
func NewRand(seed uint64, seeded bool) *rand.Rand {
	if !seeded {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed))
}

// Pick is the target drawn for one category.
type Pick struct {
	Category targets.Category `json:"category"`
	Target   targets.Target   `json:"target"`
}

// Select draws one target per non-empty category, in the order of
// targets.Categories. Desktop is mandatory; every other empty category is
// reported in missing instead.
func Select(buckets targets.Buckets, rng Rand) (picks []Pick, missing []targets.Category, err error) {
	if len(buckets[targets.Desktop]) == 0 {
		return nil, nil, ErrNoDesktop
	}

	for _, c := range targets.Categories {
		members := buckets[c]
		if len(members) == 0 {
			missing = append(missing, c)
			continue
		}
		picks = append(picks, Pick{Category: c, Target: members[rng.IntN(len(members))]})
	}
	return picks, missing, nil
}

// Plan is everything a run needs before the runner is invoked.
type Plan struct {
	Targets   []targets.Target   `json:"targets"`
	Buckets   targets.Buckets    `json:"-"`
	Picks     []Pick             `json:"selected"`
	Missing   []targets.Category `json:"missing,omitempty"`
	TestFiles []string           `json:"test_files"`
}

// Names returns the selected target names in selection order.
func (p *Plan) Names() []string {
	names := make([]string, len(p.Picks))
	for i, pick := range p.Picks {
		names[i] = pick.Target.Name
	}
	return names
}

// NewPlan categorizes the discovered targets, draws the selection and pairs
// it with the test files. It performs no I/O.
func NewPlan(ts []targets.Target, testFiles []string, rng Rand) (*Plan, error) {
	if len(ts) == 0 {
		return nil, ErrNoTargets
	}

	buckets := targets.Categorize(ts)
	picks, missing, err := Select(buckets, rng)
	if err != nil {
		return nil, err
	}

	if len(testFiles) == 0 {
		return nil, ErrNoTestFiles
	}

	return &Plan{
		Targets:   ts,
		Buckets:   buckets,
		Picks:     picks,
		Missing:   missing,
		TestFiles: testFiles,
	}, nil
}
