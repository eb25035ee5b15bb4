package driver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// CacheEnv overrides the checkout cache directory.
const CacheEnv = "BISAYA_CACHE"

// DefaultCacheDir returns $BISAYA_CACHE, or a bisaya directory under the
// user cache directory.
func DefaultCacheDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(CacheEnv)); dir != "" {
		return dir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("fetch: locate cache directory: %w", err)
	}
	return filepath.Join(base, "bisaya"), nil
}

// Fetcher checks out git exercise sets into a local cache.
type Fetcher struct {
	cacheDir string
	logger   *slog.Logger
}

func NewFetcher(cacheDir string, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = discardLogger()
	}
	return &Fetcher{cacheDir: cacheDir, logger: logger}
}

// Fetch resolves spec and returns the lock entry plus the checkout
// directory. Checkouts are keyed by pinned version, so a second fetch of
// the same commit reuses the cache.
func (f *Fetcher) Fetch(ctx context.Context, name string, spec *SourceSpec) (*LockedSource, string, error) {
	if f == nil || f.cacheDir == "" {
		return nil, "", errors.New("fetch: no cache directory configured")
	}
	if spec == nil || strings.TrimSpace(spec.Git) == "" {
		return nil, "", fmt.Errorf("source %q: git URL required", name)
	}
	url := strings.TrimSpace(spec.Git)
	baseDir := filepath.Join(f.cacheDir, "src", sanitizePathSegment(name))
	logger := f.logger.With("source", name, "git", url)

	version, commit, err := f.checkout(ctx, logger, baseDir, url, spec)
	if err != nil {
		return nil, "", err
	}
	dir := filepath.Join(baseDir, sanitizePathSegment(version))
	checksum, err := dirChecksum(dir)
	if err != nil {
		return nil, "", fmt.Errorf("fetch: checksum %s: %w", dir, err)
	}
	logger.Info("source ready", "version", version, "dir", dir)
	return &LockedSource{
		Name:     name,
		Git:      url,
		Version:  version,
		Commit:   commit,
		Checksum: checksum,
	}, dir, nil
}

func (f *Fetcher) checkout(ctx context.Context, logger *slog.Logger, baseDir, url string, spec *SourceSpec) (string, string, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", "", err
	}
	revision, descriptor := gitRevision(spec)

	if rev := strings.TrimSpace(spec.Rev); rev != "" {
		if version, commit, ok := cachedRevision(baseDir, rev); ok {
			logger.Debug("cache hit", "rev", rev, "commit", commit)
			return version, commit, nil
		}
	}

	tmpDir, err := os.MkdirTemp(baseDir, "git-fetch-*")
	if err != nil {
		return "", "", err
	}
	if err := os.RemoveAll(tmpDir); err != nil {
		return "", "", err
	}
	cleanup := func() { _ = os.RemoveAll(tmpDir) }

	logger.Debug("cloning", "revision", revision)
	repo, err := git.PlainCloneContext(ctx, tmpDir, false, &git.CloneOptions{URL: url})
	if err != nil {
		cleanup()
		return "", "", fmt.Errorf("git clone %s: %w", url, err)
	}
	hash, err := repo.ResolveRevision(revision)
	if err != nil {
		cleanup()
		return "", "", fmt.Errorf("resolve revision %s: %w", revision, err)
	}

	version := pinnedVersion(descriptor, hash.String())
	target := filepath.Join(baseDir, sanitizePathSegment(version))
	if _, err := os.Stat(target); err == nil {
		cleanup()
		return version, hash.String(), nil
	}

	worktree, err := repo.Worktree()
	if err != nil {
		cleanup()
		return "", "", err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		cleanup()
		return "", "", fmt.Errorf("git checkout %s: %w", revision, err)
	}
	if err := os.Rename(tmpDir, target); err != nil {
		cleanup()
		return "", "", err
	}
	return version, hash.String(), nil
}

// cachedRevision finds an earlier checkout of rev. A full hash is stored
// under its own name and an abbreviated one under rev@commit, so the
// candidate is opened and rev resolved against it to recover the commit.
func cachedRevision(baseDir, rev string) (string, string, bool) {
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		return "", "", false
	}
	prefix := sanitizePathSegment(rev)
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || (name != prefix && !strings.HasPrefix(name, prefix+"_")) {
			continue
		}
		repo, err := git.PlainOpen(filepath.Join(baseDir, name))
		if err != nil {
			continue
		}
		hash, err := repo.ResolveRevision(plumbing.Revision(rev))
		if err != nil {
			continue
		}
		version := pinnedVersion(rev, hash.String())
		if sanitizePathSegment(version) == name {
			return version, hash.String(), true
		}
	}
	return "", "", false
}

// gitRevision picks rev, then tag, then branch; with none set the remote
// HEAD is used.
func gitRevision(spec *SourceSpec) (plumbing.Revision, string) {
	if rev := strings.TrimSpace(spec.Rev); rev != "" {
		return plumbing.Revision(rev), rev
	}
	if tag := strings.TrimSpace(spec.Tag); tag != "" {
		return plumbing.Revision("refs/tags/" + tag), tag
	}
	if branch := strings.TrimSpace(spec.Branch); branch != "" {
		return plumbing.Revision("refs/remotes/origin/" + branch), branch
	}
	return plumbing.Revision("HEAD"), ""
}

func pinnedVersion(descriptor, commit string) string {
	if descriptor == "" || descriptor == commit {
		return commit
	}
	return descriptor + "@" + commit
}

// dirChecksum hashes every regular file outside .git in path order.
func dirChecksum(root string) (string, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	sort.Strings(files)
	h := sha256.New()
	for _, p := range files {
		data, err := os.ReadFile(p)
		if err != nil {
			return "", err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return "", err
		}
		h.Write([]byte(filepath.ToSlash(rel)))
		h.Write([]byte{0})
		h.Write(data)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func sanitizePathSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return "head"
	}
	var b strings.Builder
	for _, r := range segment {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
