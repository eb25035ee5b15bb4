package main

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

type cliResult struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(args, strings.NewReader(stdin), &stdout, &stderr)
	return cliResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// chdir changes the working directory for the duration of the test,
// like testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore cwd: %v", err)
		}
	})
}

func writeProgram(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.bpp")
	writeFile(t, path, "SUGOD\n"+body+"\nKATAPUSAN\n")
	return path
}

func TestVersion(t *testing.T) {
	res := runCLI(t, "", "version")
	if res.code != 0 || res.stdout != cliToolVersion+"\n" {
		t.Fatalf("unexpected version output %#v", res)
	}
}

func TestRunPrintsOutputAndStatus(t *testing.T) {
	path := writeProgram(t, "MUGNA NUMERO x, y, z=5\nMUGNA LETRA a_1='n'\nMUGNA TINUOD t=\"OO\"\nx=y=4\na_1='c'\nIPAKITA: x & t & z & $ & a_1 & [#] & \"last\"")
	res := runCLI(t, "", "run", path)
	if res.code != 0 {
		t.Fatalf("exit %d: %s", res.code, res.stderr)
	}
	if res.stdout != "4OO5\nc#last\n" {
		t.Fatalf("unexpected stdout %q", res.stdout)
	}
	if !strings.Contains(res.stderr, "Program finished") {
		t.Fatalf("expected finish status, got %q", res.stderr)
	}
}

func TestRunReadsInputFromStdin(t *testing.T) {
	path := writeProgram(t, "MUGNA NUMERO a, b\nDAWAT: a, b\nIPAKITA: a + b")
	res := runCLI(t, "3,4\n", "run", "--quiet", path)
	if res.code != 0 || res.stdout != "7\n" || res.stderr != "" {
		t.Fatalf("unexpected result %#v", res)
	}
}

func TestRunReadsInputFile(t *testing.T) {
	path := writeProgram(t, "MUGNA LETRA c\nDAWAT: c\nIPAKITA: c & c")
	input := filepath.Join(t.TempDir(), "input.txt")
	writeFile(t, input, "z\n")
	res := runCLI(t, "", "run", "-q", "--input", input, "--echo", path)
	if res.code != 0 || res.stdout != "z\nzz\n" {
		t.Fatalf("unexpected result %#v", res)
	}
}

func TestRunProgramFromStdin(t *testing.T) {
	res := runCLI(t, "SUGOD\nIPAKITA: 2 * 21\nKATAPUSAN\n", "run", "-q", "-")
	if res.code != 0 || res.stdout != "42\n" {
		t.Fatalf("unexpected result %#v", res)
	}
}

func TestRunReportsDiagnostics(t *testing.T) {
	cases := []struct {
		body string
		want string
	}{
		{"IPAKITA: 4 / 0", "runtime error: line 2: Division by zero.\n"},
		{"MUGNA NUMERO a\nDAWAT: a", "runtime error: line 3: no input available\n"},
		{"MUGNA NUMERO x = 3.0", "type error: line 2: Cannot assign value of type 'TIPIK' to the variable 'x' of type 'NUMERO'.\n"},
		{"MUGNA NUMERO x\nKUNG (x = 5)\nPUNDOK{\n}", "syntax error: line 3: Invalid condition: assignment found, did you mean '=='?\n"},
	}
	for _, tc := range cases {
		res := runCLI(t, "", "run", writeProgram(t, tc.body))
		if res.code != 1 {
			t.Fatalf("%q: expected exit 1, got %d", tc.body, res.code)
		}
		if res.stderr != tc.want {
			t.Fatalf("%q: expected %q, got %q", tc.body, tc.want, res.stderr)
		}
	}
}

func TestRunWithoutProgram(t *testing.T) {
	chdir(t, t.TempDir())
	res := runCLI(t, "", "run")
	if res.code != 1 || !strings.Contains(res.stderr, "no program given") {
		t.Fatalf("unexpected result %#v", res)
	}
}

func TestRunManifestEntry(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bisaya.yml"), "name: demo\nentry: src/main.bpp\nrun:\n  echo_input: true\n")
	writeFile(t, filepath.Join(dir, "src", "main.bpp"), "SUGOD\nMUGNA NUMERO n\nDAWAT: n\nIPAKITA: n * 2\nKATAPUSAN\n")
	chdir(t, dir)
	res := runCLI(t, "5\n", "run", "-q")
	if res.code != 0 || res.stdout != "5\n10\n" {
		t.Fatalf("unexpected result %#v", res)
	}
}

func TestCheck(t *testing.T) {
	good := writeProgram(t, "IPAKITA: 1")
	bad := writeProgram(t, "IPAKITA 1")
	res := runCLI(t, "", "check", good, bad)
	if res.code != 1 {
		t.Fatalf("expected exit 1, got %d", res.code)
	}
	if !strings.Contains(res.stdout, "ok "+good) {
		t.Fatalf("expected ok line for %s, got %q", good, res.stdout)
	}
	if !strings.Contains(res.stderr, "syntax error: line 2: Expected ':' after 'IPAKITA', found '1'.") {
		t.Fatalf("unexpected stderr %q", res.stderr)
	}
}

func TestTokens(t *testing.T) {
	path := writeProgram(t, "IPAKITA: 'a'")
	res := runCLI(t, "", "tokens", path)
	if res.code != 0 {
		t.Fatalf("exit %d: %s", res.code, res.stderr)
	}
	for _, want := range []string{"START", "SUGOD", "PRINT", "'a'", "EOF"} {
		if !strings.Contains(res.stdout, want) {
			t.Fatalf("token table missing %q:\n%s", want, res.stdout)
		}
	}

	res = runCLI(t, "", "tokens", "--reconstruct", path)
	if res.code != 0 || !strings.Contains(res.stdout, "IPAKITA") {
		t.Fatalf("unexpected reconstruct output %#v", res)
	}
}

func TestAST(t *testing.T) {
	res := runCLI(t, "", "ast", writeProgram(t, "IPAKITA: 1 + 2"))
	if res.code != 0 || res.stdout != "(print (+ 1 2))\n" {
		t.Fatalf("unexpected result %#v", res)
	}
}

func TestTestCommand(t *testing.T) {
	res := runCLI(t, "", "test", "-j", "2", filepath.Join("..", "..", "testdata", "exec"))
	if res.code != 0 {
		t.Fatalf("exit %d:\n%s%s", res.code, res.stdout, res.stderr)
	}
	if !strings.HasSuffix(res.stdout, " passed, 0 failed\n") {
		t.Fatalf("unexpected summary %q", res.stdout)
	}
}

func TestTestCommandReportsFailures(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "case", "main.bpp"), "SUGOD\nIPAKITA: 1\nKATAPUSAN\n")
	writeFile(t, filepath.Join(dir, "case", "manifest.yml"), "expect:\n  output: \"2\"\n")
	res := runCLI(t, "", "test", dir)
	if res.code != 1 || !strings.Contains(res.stdout, "FAIL") || !strings.Contains(res.stdout, "0 passed, 1 failed") {
		t.Fatalf("unexpected result %#v", res)
	}
}

func TestInvalidLogLevel(t *testing.T) {
	res := runCLI(t, "", "--log-level", "loud", "version")
	if res.code != 1 || !strings.Contains(res.stderr, "invalid --log-level") {
		t.Fatalf("unexpected result %#v", res)
	}
}

func initRepo(t *testing.T, dir string) string {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
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
	hash, err := worktree.Commit("init", &git.CommitOptions{
		Author: &object.Signature{Name: "Bisaya CLI", Email: "cli@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return hash.String()
}

func TestFetchWritesLockfileAndRunsFixtures(t *testing.T) {
	root := t.TempDir()
	repoDir := filepath.Join(root, "exercises")
	writeFile(t, filepath.Join(repoDir, "exec", "double", "main.bpp"), "SUGOD\nMUGNA NUMERO n\nDAWAT: n\nIPAKITA: n * 2\nKATAPUSAN\n")
	writeFile(t, filepath.Join(repoDir, "exec", "double", "manifest.yml"), "input: [\"21\"]\nexpect:\n  output: \"42\"\n")
	rev := initRepo(t, repoDir)

	project := filepath.Join(root, "project")
	writeFile(t, filepath.Join(project, "bisaya.yml"), "name: project\nsources:\n  basics:\n    git: "+repoDir+"\n    rev: "+rev+"\n    dir: exec\n")
	chdir(t, project)

	res := runCLI(t, "", "fetch", "--cache", filepath.Join(root, "cache"), "--test")
	if res.code != 0 {
		t.Fatalf("exit %d:\n%s%s", res.code, res.stdout, res.stderr)
	}
	if !strings.Contains(res.stdout, "basics") || !strings.Contains(res.stdout, "1 passed, 0 failed") {
		t.Fatalf("unexpected stdout %q", res.stdout)
	}
	lock, err := os.ReadFile(filepath.Join(project, "bisaya.lock"))
	if err != nil {
		t.Fatalf("read lockfile: %v", err)
	}
	if !strings.Contains(string(lock), rev) {
		t.Fatalf("lockfile does not pin %s:\n%s", rev, lock)
	}
}
