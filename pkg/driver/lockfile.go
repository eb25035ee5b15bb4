package driver

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LockfileName is written next to the manifest by the fetch command.
const LockfileName = "bisaya.lock"

// Lockfile models the bisaya.lock contents.
type Lockfile struct {
	Path      string
	Generated string
	Tool      string
	Sources   []*LockedSource
}

// LockedSource pins one fetched exercise set.
type LockedSource struct {
	Name     string
	Git      string
	Version  string
	Commit   string
	Checksum string
}

// NewLockfile constructs an empty lockfile stamped with tool.
func NewLockfile(tool string) *Lockfile {
	return &Lockfile{
		Generated: time.Now().UTC().Format(time.RFC3339),
		Tool:      strings.TrimSpace(tool),
	}
}

// LoadLockfile parses bisaya.lock from disk.
func LoadLockfile(path string) (*Lockfile, error) {
	if path == "" {
		return nil, fmt.Errorf("lockfile: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("lockfile: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var raw lockfileDisk
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("lockfile: parse %s: %w", abs, err)
	}
	lock := raw.toLockfile()
	lock.Path = abs
	return lock, nil
}

// WriteLockfile serialises the lockfile to path, or to lock.Path when path
// is empty.
func WriteLockfile(lock *Lockfile, path string) error {
	if lock == nil {
		return fmt.Errorf("lockfile: nil lockfile")
	}
	if path == "" {
		if lock.Path == "" {
			return fmt.Errorf("lockfile: missing path")
		}
		path = lock.Path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("lockfile: resolve %s: %w", path, err)
	}
	if lock.Generated == "" {
		lock.Generated = time.Now().UTC().Format(time.RFC3339)
	}
	lock.Path = abs
	lock.normalize()

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(lock.toDisk()); err != nil {
		return fmt.Errorf("lockfile: marshal %s: %w", abs, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("lockfile: encoder close: %w", err)
	}
	if err := os.WriteFile(abs, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("lockfile: write %s: %w", abs, err)
	}
	return nil
}

// Find returns the entry for name, or nil.
func (l *Lockfile) Find(name string) *LockedSource {
	for _, src := range l.Sources {
		if src != nil && src.Name == name {
			return src
		}
	}
	return nil
}

// Upsert records src, replacing an entry with the same name. It reports
// whether the lockfile changed.
func (l *Lockfile) Upsert(src *LockedSource) bool {
	for i, existing := range l.Sources {
		if existing == nil || existing.Name != src.Name {
			continue
		}
		if *existing == *src {
			return false
		}
		l.Sources[i] = src
		return true
	}
	l.Sources = append(l.Sources, src)
	l.normalize()
	return true
}

func (l *Lockfile) normalize() {
	kept := l.Sources[:0]
	for _, src := range l.Sources {
		if src == nil {
			continue
		}
		src.Name = strings.TrimSpace(src.Name)
		src.Git = strings.TrimSpace(src.Git)
		src.Version = strings.TrimSpace(src.Version)
		src.Commit = strings.TrimSpace(src.Commit)
		src.Checksum = strings.TrimSpace(src.Checksum)
		kept = append(kept, src)
	}
	l.Sources = kept
	sort.SliceStable(l.Sources, func(i, j int) bool {
		return l.Sources[i].Name < l.Sources[j].Name
	})
}

type lockfileDisk struct {
	Generated string               `yaml:"generated"`
	Tool      string               `yaml:"tool"`
	Sources   []lockfileSourceDisk `yaml:"sources"`
}

type lockfileSourceDisk struct {
	Name     string `yaml:"name"`
	Git      string `yaml:"git"`
	Version  string `yaml:"version"`
	Commit   string `yaml:"commit"`
	Checksum string `yaml:"checksum"`
}

func (l *Lockfile) toDisk() lockfileDisk {
	out := lockfileDisk{Generated: l.Generated, Tool: l.Tool}
	for _, src := range l.Sources {
		out.Sources = append(out.Sources, lockfileSourceDisk{
			Name:     src.Name,
			Git:      src.Git,
			Version:  src.Version,
			Commit:   src.Commit,
			Checksum: src.Checksum,
		})
	}
	return out
}

func (d lockfileDisk) toLockfile() *Lockfile {
	lock := &Lockfile{
		Generated: strings.TrimSpace(d.Generated),
		Tool:      strings.TrimSpace(d.Tool),
	}
	for _, src := range d.Sources {
		lock.Sources = append(lock.Sources, &LockedSource{
			Name:     src.Name,
			Git:      src.Git,
			Version:  src.Version,
			Commit:   src.Commit,
			Checksum: src.Checksum,
		})
	}
	lock.normalize()
	return lock
}
