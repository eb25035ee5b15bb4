package driver

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func commitAll(t *testing.T, repo *git.Repository, dir, message string) string {
	t.Helper()
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	if err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		_, err = worktree.Add(filepath.ToSlash(rel))
		return err
	}); err != nil {
		t.Fatalf("stage files: %v", err)
	}
	hash, err := worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Bisaya Fixtures",
			Email: "fixtures@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return hash.String()
}

// initExerciseRepo creates a repository with two commits on master and a
// "next" branch pointing at the second one.
func initExerciseRepo(t *testing.T, dir string) (first, second string) {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	writeFile(t, filepath.Join(dir, "exec", "sum", "main.bpp"), "SUGOD\nIPAKITA: 1 + 1\nKATAPUSAN\n")
	writeFile(t, filepath.Join(dir, "exec", "sum", FixtureManifestName), "expect:\n  output: \"2\"\n")
	first = commitAll(t, repo, dir, "first")

	writeFile(t, filepath.Join(dir, "exec", "sum", FixtureManifestName), "description: sum\nexpect:\n  output: \"2\"\n")
	second = commitAll(t, repo, dir, "second")

	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName("next"), plumbing.NewHash(second))
	if err := repo.Storer.SetReference(ref); err != nil {
		t.Fatalf("create branch: %v", err)
	}
	return first, second
}

func TestFetchPinnedRevision(t *testing.T) {
	root := t.TempDir()
	repoDir := filepath.Join(root, "repo")
	first, _ := initExerciseRepo(t, repoDir)

	fetcher := NewFetcher(filepath.Join(root, "cache"), nil)
	locked, dir, err := fetcher.Fetch(context.Background(), "basics", &SourceSpec{Git: repoDir, Rev: first})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if locked.Commit != first || locked.Version != first {
		t.Fatalf("unexpected lock entry %#v", locked)
	}
	if len(locked.Checksum) != 64 {
		t.Fatalf("expected sha256 checksum, got %q", locked.Checksum)
	}
	data, err := os.ReadFile(filepath.Join(dir, "exec", "sum", FixtureManifestName))
	if err != nil {
		t.Fatalf("read checkout: %v", err)
	}
	if strings.Contains(string(data), "description") {
		t.Fatalf("checkout is not at the pinned revision")
	}

	again, againDir, err := fetcher.Fetch(context.Background(), "basics", &SourceSpec{Git: repoDir, Rev: first})
	if err != nil {
		t.Fatalf("second Fetch: %v", err)
	}
	if againDir != dir || again.Checksum != locked.Checksum || again.Commit != first {
		t.Fatalf("expected cached checkout, got %s %#v", againDir, again)
	}
}

func TestFetchAbbreviatedRevisionUsesCache(t *testing.T) {
	root := t.TempDir()
	repoDir := filepath.Join(root, "repo")
	first, _ := initExerciseRepo(t, repoDir)
	short := first[:10]

	fetcher := NewFetcher(filepath.Join(root, "cache"), nil)
	locked, dir, err := fetcher.Fetch(context.Background(), "basics", &SourceSpec{Git: repoDir, Rev: short})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if locked.Commit != first || locked.Version != short+"@"+first {
		t.Fatalf("unexpected lock entry %#v", locked)
	}

	// without the remote only the cached checkout can satisfy the fetch
	if err := os.RemoveAll(repoDir); err != nil {
		t.Fatalf("remove repo: %v", err)
	}
	again, againDir, err := fetcher.Fetch(context.Background(), "basics", &SourceSpec{Git: repoDir, Rev: short})
	if err != nil {
		t.Fatalf("second Fetch: %v", err)
	}
	if againDir != dir || again.Commit != first || again.Version != locked.Version {
		t.Fatalf("expected cached checkout at %s, got %s %#v", dir, againDir, again)
	}
}

func TestFetchBranchAndHead(t *testing.T) {
	root := t.TempDir()
	repoDir := filepath.Join(root, "repo")
	_, second := initExerciseRepo(t, repoDir)
	fetcher := NewFetcher(filepath.Join(root, "cache"), nil)

	locked, dir, err := fetcher.Fetch(context.Background(), "branchy", &SourceSpec{Git: repoDir, Branch: "next"})
	if err != nil {
		t.Fatalf("Fetch branch: %v", err)
	}
	if locked.Commit != second || locked.Version != "next@"+second {
		t.Fatalf("unexpected branch lock entry %#v", locked)
	}
	if filepath.Base(dir) != sanitizePathSegment("next@"+second) {
		t.Fatalf("unexpected checkout dir %s", dir)
	}

	head, _, err := fetcher.Fetch(context.Background(), "latest", &SourceSpec{Git: repoDir})
	if err != nil {
		t.Fatalf("Fetch head: %v", err)
	}
	if head.Commit != second || head.Version != second {
		t.Fatalf("unexpected head lock entry %#v", head)
	}
}

func TestFetchedFixturesRun(t *testing.T) {
	root := t.TempDir()
	repoDir := filepath.Join(root, "repo")
	initExerciseRepo(t, repoDir)

	_, dir, err := NewFetcher(filepath.Join(root, "cache"), nil).Fetch(context.Background(), "basics", &SourceSpec{Git: repoDir})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	dirs, err := CollectFixtures(filepath.Join(dir, "exec"))
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	results, err := RunFixtures(context.Background(), dirs, 0)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(results) != 1 || !results[0].Passed() {
		t.Fatalf("unexpected results %#v", results)
	}
}

func TestFetchErrors(t *testing.T) {
	fetcher := NewFetcher(t.TempDir(), nil)
	if _, _, err := fetcher.Fetch(context.Background(), "x", &SourceSpec{}); err == nil {
		t.Fatalf("expected missing URL error")
	}
	missing := filepath.Join(t.TempDir(), "nope")
	if _, _, err := fetcher.Fetch(context.Background(), "x", &SourceSpec{Git: missing}); err == nil {
		t.Fatalf("expected clone error")
	}
	if _, _, err := NewFetcher("", nil).Fetch(context.Background(), "x", &SourceSpec{Git: missing}); err == nil {
		t.Fatalf("expected missing cache error")
	}
}

func TestDefaultCacheDirHonoursEnv(t *testing.T) {
	t.Setenv(CacheEnv, "/tmp/bisaya-cache")
	dir, err := DefaultCacheDir()
	if err != nil {
		t.Fatalf("DefaultCacheDir: %v", err)
	}
	if dir != "/tmp/bisaya-cache" {
		t.Fatalf("unexpected cache dir %q", dir)
	}
}

func TestDirChecksumIgnoresGitMetadata(t *testing.T) {
	a := t.TempDir()
	b := t.TempDir()
	writeFile(t, filepath.Join(a, "x.bpp"), "SUGOD\nKATAPUSAN\n")
	writeFile(t, filepath.Join(b, "x.bpp"), "SUGOD\nKATAPUSAN\n")
	writeFile(t, filepath.Join(b, ".git", "HEAD"), "ref: refs/heads/master\n")
	sumA, err := dirChecksum(a)
	if err != nil {
		t.Fatalf("checksum a: %v", err)
	}
	sumB, err := dirChecksum(b)
	if err != nil {
		t.Fatalf("checksum b: %v", err)
	}
	if sumA != sumB {
		t.Fatalf("expected equal checksums, got %s and %s", sumA, sumB)
	}
}
