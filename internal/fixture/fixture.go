// Package fixture verifies the check catalog against YAML files of sample
// commands and the check ids each one is expected to trigger.
package fixture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"slices"
	"sync"

	"github.com/hpkotak/shellfirm/internal/checks"
	"github.com/panjf2000/ants/v2"
	"gopkg.in/yaml.v3"
)

// ErrMismatch reports that at least one fixture did not match.
var ErrMismatch = errors.New("fixture mismatch")

// Fixture is one sample command. Expect lists ids in match order
// (descending).
type Fixture struct {
	Test        string   `yaml:"test"`
	Description string   `yaml:"description"`
	Expect      []string `yaml:"expect"`
}

// Report is the verification outcome for one fixture.
type Report struct {
	Fixture Fixture
	Got     []string
}

// Pass reports whether the matched ids equal the expectation.
func (r Report) Pass() bool {
	return slices.Equal(r.Got, r.Fixture.Expect)
}

// Load reads a fixture file.
func Load(path string) ([]Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixtures: %w", err)
	}
	var fs []Fixture
	if err := yaml.Unmarshal(data, &fs); err != nil {
		return nil, fmt.Errorf("parsing fixtures %s: %w", path, err)
	}
	for i, f := range fs {
		if f.Test == "" {
			return nil, fmt.Errorf("parsing fixtures %s: entry %d has no test command", path, i)
		}
	}
	return fs, nil
}

// Verify matches every fixture against active on a pool of workers.
// Reports come back in the order of fixtures. workers <= 0 uses GOMAXPROCS.
func Verify(ctx context.Context, active []checks.Check, fixtures []Fixture, workers int) ([]Report, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("creating worker pool: %w", err)
	}
	defer pool.Release()

	reports := make([]Report, len(fixtures))
	var (
		wg       sync.WaitGroup
		firstErr error
	)
	for i, f := range fixtures {
		if err := ctx.Err(); err != nil {
			firstErr = err
			break
		}
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			got := checks.MatchIDs(active, f.Test)
			if len(got) == 0 {
				got = nil
			}
			reports[i] = Report{Fixture: f, Got: got}
		})
		if err != nil {
			wg.Done()
			firstErr = fmt.Errorf("submitting fixture %d: %w", i, err)
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return reports, nil
}

// Failures returns the reports that did not pass.
func Failures(reports []Report) []Report {
	var out []Report
	for _, r := range reports {
		if !r.Pass() {
			out = append(out, r)
		}
	}
	return out
}
