package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestName is the project manifest file name.
const ManifestName = "bisaya.yml"

// Manifest represents the parsed contents of bisaya.yml.
type Manifest struct {
	Path     string
	Name     string
	Entry    string
	Fixtures string
	Sources  map[string]*SourceSpec
	Run      RunSettings
}

// SourceSpec describes a git exercise set listed under sources.
type SourceSpec struct {
	Git    string
	Rev    string
	Tag    string
	Branch string
	// Dir limits fixture discovery to a subdirectory of the checkout.
	Dir string
}

// RunSettings tunes the interactive run command.
type RunSettings struct {
	Prompt    string
	EchoInput bool
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadManifest parses bisaya.yml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest := raw.toManifest(absPath)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

// FindManifest walks up from dir looking for bisaya.yml.
func FindManifest(dir string) (string, error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(current, ManifestName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("manifest: no %s found above %s", ManifestName, dir)
		}
		current = parent
	}
}

// Root is the directory holding the manifest.
func (m *Manifest) Root() string {
	return filepath.Dir(m.Path)
}

// EntryPath resolves the entry program relative to the manifest.
func (m *Manifest) EntryPath() string {
	if m.Entry == "" {
		return ""
	}
	return m.resolve(m.Entry)
}

// FixturesDir resolves the fixture root relative to the manifest.
func (m *Manifest) FixturesDir() string {
	return m.resolve(m.Fixtures)
}

// SourceNames lists the configured sources in sorted order.
func (m *Manifest) SourceNames() []string {
	names := make([]string, 0, len(m.Sources))
	for name := range m.Sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *Manifest) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Root(), filepath.FromSlash(p))
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	if m.Entry != "" && filepath.Ext(m.Entry) != SourceExt {
		errs.Issues = append(errs.Issues, fmt.Sprintf("entry %q must be a %s file", m.Entry, SourceExt))
	}
	for _, name := range m.SourceNames() {
		spec := m.Sources[name]
		if spec == nil {
			errs.Issues = append(errs.Issues, fmt.Sprintf("sources.%s: empty descriptor", name))
			continue
		}
		for _, issue := range spec.validate() {
			errs.Issues = append(errs.Issues, fmt.Sprintf("sources.%s: %s", name, issue))
		}
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

func (s *SourceSpec) validate() []string {
	var issues []string
	if s.Git == "" {
		issues = append(issues, "git URL required")
	}
	pins := 0
	for _, v := range []string{s.Rev, s.Tag, s.Branch} {
		if v != "" {
			pins++
		}
	}
	if pins > 1 {
		issues = append(issues, "only one of rev, tag or branch may be set")
	}
	if strings.Contains(filepath.ToSlash(s.Dir), "..") {
		issues = append(issues, fmt.Sprintf("dir %q must stay inside the checkout", s.Dir))
	}
	return issues
}

type manifestFile struct {
	Name     string                     `yaml:"name"`
	Entry    string                     `yaml:"entry"`
	Fixtures string                     `yaml:"fixtures"`
	Sources  map[string]*sourceSpecFile `yaml:"sources"`
	Run      *runSettingsFile           `yaml:"run"`
}

type sourceSpecFile struct {
	Git    string `yaml:"git"`
	Rev    string `yaml:"rev"`
	Tag    string `yaml:"tag"`
	Branch string `yaml:"branch"`
	Dir    string `yaml:"dir"`
}

type runSettingsFile struct {
	Prompt    *string `yaml:"prompt"`
	EchoInput bool    `yaml:"echo_input"`
}

// DefaultFixturesDir is used when the manifest omits fixtures.
const DefaultFixturesDir = "testdata/exec"

// DefaultPrompt is shown before each DAWAT read on a terminal.
const DefaultPrompt = "> "

func (f manifestFile) toManifest(path string) *Manifest {
	m := &Manifest{
		Path:     path,
		Name:     strings.TrimSpace(f.Name),
		Entry:    strings.TrimSpace(f.Entry),
		Fixtures: strings.TrimSpace(f.Fixtures),
		Sources:  make(map[string]*SourceSpec, len(f.Sources)),
		Run:      RunSettings{Prompt: DefaultPrompt},
	}
	if m.Fixtures == "" {
		m.Fixtures = DefaultFixturesDir
	}
	for name, spec := range f.Sources {
		name = strings.TrimSpace(name)
		if spec == nil {
			m.Sources[name] = nil
			continue
		}
		m.Sources[name] = &SourceSpec{
			Git:    strings.TrimSpace(spec.Git),
			Rev:    strings.TrimSpace(spec.Rev),
			Tag:    strings.TrimSpace(spec.Tag),
			Branch: strings.TrimSpace(spec.Branch),
			Dir:    strings.TrimSpace(spec.Dir),
		}
	}
	if f.Run != nil {
		if f.Run.Prompt != nil {
			m.Run.Prompt = *f.Run.Prompt
		}
		m.Run.EchoInput = f.Run.EchoInput
	}
	return m
}
