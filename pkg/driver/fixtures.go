package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/chrlskrt/bisayaplusplus/pkg/interpreter"
)

// FixtureManifestName marks a directory as an exec fixture.
const FixtureManifestName = "manifest.yml"

// DefaultFixtureEntry is the program file used when a fixture omits entry.
const DefaultFixtureEntry = "main" + SourceExt

// FixtureManifest describes one exec fixture: a program, the input lines it
// reads and the output or diagnostics it must produce.
type FixtureManifest struct {
	Description string          `yaml:"description"`
	Entry       string          `yaml:"entry"`
	Input       []string        `yaml:"input"`
	Expect      FixtureExpected `yaml:"expect"`
}

// FixtureExpected holds the expected observable behaviour. Diagnostics are
// compared against Describe output line by line.
type FixtureExpected struct {
	Output      string   `yaml:"output"`
	Diagnostics []string `yaml:"diagnostics"`
}

// FixtureResult records one fixture run.
type FixtureResult struct {
	Name        string
	Dir         string
	Description string
	Output      string
	Diagnostics []string
	Failures    []string
}

// Passed reports whether the run matched the expectations.
func (r *FixtureResult) Passed() bool {
	return len(r.Failures) == 0
}

// CollectFixtures returns every directory under root that holds a fixture
// manifest, in lexical order.
func CollectFixtures(root string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == FixtureManifestName {
			dirs = append(dirs, filepath.Dir(p))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fixtures: walk %s: %w", root, err)
	}
	sort.Strings(dirs)
	return dirs, nil
}

// LoadFixtureManifest parses dir/manifest.yml.
func LoadFixtureManifest(dir string) (*FixtureManifest, error) {
	path := filepath.Join(dir, FixtureManifestName)
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fixture: open %s: %w", path, err)
	}
	defer file.Close()
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	var manifest FixtureManifest
	if err := decoder.Decode(&manifest); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("fixture: parse %s: %w", path, err)
	}
	if manifest.Entry == "" {
		manifest.Entry = DefaultFixtureEntry
	}
	return &manifest, nil
}

// RunFixture compiles and runs the fixture in dir and compares the result
// with its manifest. The returned error is reserved for fixtures that
// cannot be loaded; a mismatch is reported through Failures.
func RunFixture(ctx context.Context, dir string) (*FixtureResult, error) {
	manifest, err := LoadFixtureManifest(dir)
	if err != nil {
		return nil, err
	}
	result := &FixtureResult{
		Name:        filepath.Base(dir),
		Dir:         dir,
		Description: manifest.Description,
	}
	src, err := LoadSource(filepath.Join(dir, manifest.Entry))
	if err != nil {
		return nil, err
	}

	sink := &interpreter.RecordingSink{}
	prog, err := Compile(src)
	if err == nil {
		_, err = Run(ctx, prog, RunOptions{
			Output: sink,
			Input:  interpreter.NewLinesInput(manifest.Input...),
		})
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		for _, d := range Diagnose(err) {
			result.Diagnostics = append(result.Diagnostics, d.String())
		}
	}
	result.Output = sink.String()

	if result.Output != manifest.Expect.Output {
		result.Failures = append(result.Failures,
			fmt.Sprintf("output mismatch: expected %q, got %q", manifest.Expect.Output, result.Output))
	}
	if !equalLines(result.Diagnostics, manifest.Expect.Diagnostics) {
		result.Failures = append(result.Failures,
			fmt.Sprintf("diagnostics mismatch: expected %s, got %s",
				quoteLines(manifest.Expect.Diagnostics), quoteLines(result.Diagnostics)))
	}
	return result, nil
}

// RunFixtures runs dirs with at most limit fixtures in flight; limit <= 0
// means no bound. Results keep the order of dirs.
func RunFixtures(ctx context.Context, dirs []string, limit int) ([]*FixtureResult, error) {
	results := make([]*FixtureResult, len(dirs))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, dir := range dirs {
		i, dir := i, dir
		g.Go(func() error {
			res, err := RunFixture(gctx, dir)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func quoteLines(lines []string) string {
	if len(lines) == 0 {
		return "none"
	}
	quoted := make([]string, len(lines))
	for i, l := range lines {
		quoted[i] = fmt.Sprintf("%q", l)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
