package main

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func TestVersion(t *testing.T) {
	code, stdout, _ := captureCLI(t, []string{"version"})
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if strings.TrimSpace(stdout) != cliToolVersion {
		t.Fatalf("stdout = %q", stdout)
	}
}

func TestNoArgumentsPrintsUsage(t *testing.T) {
	code, _, stderr := captureCLI(t, nil)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr, "Usage:") {
		t.Fatalf("stderr missing usage: %q", stderr)
	}
}

func TestRunFile(t *testing.T) {
	isolateHome(t)
	path := writeSource(t, t.TempDir(), "main.ws", "1#3 print(\"tick\");\n")

	code, stdout, stderr := captureCLI(t, []string{"run", path})
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}
	if stdout != "tick\ntick\ntick\n" {
		t.Fatalf("stdout = %q", stdout)
	}
}

func TestRunFileWithoutSubcommand(t *testing.T) {
	isolateHome(t)
	path := writeSource(t, t.TempDir(), "main.ws", "1 print(String(6 * 7));\n")

	code, stdout, stderr := captureCLI(t, []string{path})
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}
	if stdout != "42\n" {
		t.Fatalf("stdout = %q", stdout)
	}
}

func TestRunSeedIsReproducible(t *testing.T) {
	isolateHome(t)
	path := writeSource(t, t.TempDir(), "main.ws", "1#4 print(\"a\");\n2#4 print(String(random(100)));\n")

	_, first, _ := captureCLI(t, []string{"run", "-seed", "11", path})
	_, second, _ := captureCLI(t, []string{"run", "-seed", "11", path})
	if first != second {
		t.Fatalf("seeded runs differ:\n%s\n---\n%s", first, second)
	}
	if strings.Count(first, "\n") != 8 {
		t.Fatalf("expected 8 lines of output, got %q", first)
	}
}

func TestRunRejectsInvalidSeed(t *testing.T) {
	isolateHome(t)
	path := writeSource(t, t.TempDir(), "main.ws", "1 print(\"x\");\n")

	code, _, stderr := captureCLI(t, []string{"run", "-seed", "minus", path})
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr, "invalid seed") {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestRunReportsDiagnostics(t *testing.T) {
	isolateHome(t)
	path := writeSource(t, t.TempDir(), "bad.ws", "1 print(y);\n")

	code, stdout, stderr := captureCLI(t, []string{"run", path})
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if stdout != "" {
		t.Fatalf("program should not run, stdout = %q", stdout)
	}
	if !strings.Contains(stderr, "(1, 9): undefined name `y`") {
		t.Fatalf("stderr missing diagnostic: %q", stderr)
	}
}

func TestRunStepLimit(t *testing.T) {
	isolateHome(t)
	path := writeSource(t, t.TempDir(), "loop.ws", "1 1#1;\n")

	code, _, stderr := captureCLI(t, []string{"run", "-max-steps", "25", path})
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr, "step limit reached after 25 steps") {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestRunRuntimeError(t *testing.T) {
	isolateHome(t)
	path := writeSource(t, t.TempDir(), "div.ws", "1 print(String(1 / 0));\n")

	code, _, stderr := captureCLI(t, []string{"run", path})
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.HasPrefix(stderr, "runtime error: ") {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestRunUsesManifestEntry(t *testing.T) {
	isolateHome(t)
	root := t.TempDir()
	writeSource(t, filepath.Join(root, "src"), "main.ws", "1#2 print(\"from manifest\");\n")
	manifest := "name: demo\nentry: src/main.ws\nseed: 3\n"
	if err := os.WriteFile(filepath.Join(root, "wsharp.yml"), []byte(manifest), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	nested := filepath.Join(root, "src")
	t.Chdir(nested)

	code, stdout, stderr := captureCLI(t, []string{"run"})
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}
	if stdout != "from manifest\nfrom manifest\n" {
		t.Fatalf("stdout = %q", stdout)
	}
}

func TestRunWithoutManifestOrFile(t *testing.T) {
	isolateHome(t)
	t.Chdir(t.TempDir())

	code, _, stderr := captureCLI(t, []string{"run"})
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr, "wsharp.yml not found") {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestRunGitReference(t *testing.T) {
	home := isolateHome(t)
	repoDir := t.TempDir()
	writeSource(t, repoDir, "main.ws", "1 print(\"cloned\");\n")
	commit := initGitRepo(t, repoDir)

	code, stdout, stderr := captureCLI(t, []string{"run", "git+" + repoDir + "@" + commit + ":main.ws"})
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}
	if stdout != "cloned\n" {
		t.Fatalf("stdout = %q", stdout)
	}
	if _, err := os.Stat(filepath.Join(home, ".wsharp", "git")); err != nil {
		t.Fatalf("expected git cache under home: %v", err)
	}
}

func TestCheck(t *testing.T) {
	isolateHome(t)
	dir := t.TempDir()
	good := writeSource(t, dir, "good.ws", "1 x = 1;\n2#0 print(String(x));\n")
	bad := writeSource(t, dir, "bad.ws", "1 x = 1 + true;\n")

	code, stdout, stderr := captureCLI(t, []string{"check", good})
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}
	if !strings.Contains(stdout, "2 line(s), no diagnostics") {
		t.Fatalf("stdout = %q", stdout)
	}

	code, stdout, stderr = captureCLI(t, []string{"check", bad})
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if stdout != "" {
		t.Fatalf("check should not print to stdout on failure: %q", stdout)
	}
	if !strings.Contains(stderr, "binary operator `+` is not defined for types `Integer` and `Boolean`") {
		t.Fatalf("stderr = %q", stderr)
	}
}

// isolateHome points the home directory at a temp dir so git checkouts and
// history files stay out of the real one.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func writeSource(t *testing.T, dir, name, contents string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return path
}

func initGitRepo(t *testing.T, dir string) string {
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
			if path == filepath.Join(dir, ".git") {
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
		Author: &object.Signature{
			Name:  "W# Tests",
			Email: "tests@example.com",
			When:  time.Unix(1700000000, 0),
		},
	})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return hash.String()
}

func captureCLI(t *testing.T, args []string) (int, string, string) {
	t.Helper()

	stdout := os.Stdout
	stderr := os.Stderr

	rOut, wOut, err := os.Pipe()
	if err != nil {
		t.Fatalf("stdout pipe: %v", err)
	}
	rErr, wErr, err := os.Pipe()
	if err != nil {
		t.Fatalf("stderr pipe: %v", err)
	}

	os.Stdout = wOut
	os.Stderr = wErr

	code := run(args)

	if err := wOut.Close(); err != nil {
		t.Fatalf("stdout close: %v", err)
	}
	if err := wErr.Close(); err != nil {
		t.Fatalf("stderr close: %v", err)
	}

	os.Stdout = stdout
	os.Stderr = stderr

	outBytes, err := io.ReadAll(rOut)
	if err != nil {
		t.Fatalf("stdout read: %v", err)
	}
	errBytes, err := io.ReadAll(rErr)
	if err != nil {
		t.Fatalf("stderr read: %v", err)
	}
	_ = rOut.Close()
	_ = rErr.Close()

	return code, string(outBytes), string(errBytes)
}
