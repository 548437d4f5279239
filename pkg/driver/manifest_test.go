package driver

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadManifestFixture(t *testing.T) {
	manifest, err := LoadManifest(filepath.Join("testdata", "valid.yml"))
	if err != nil {
		t.Fatalf("LoadManifest returned error: %v", err)
	}
	if manifest.Name != "coin-flips" {
		t.Fatalf("Name = %q, want coin-flips", manifest.Name)
	}
	if manifest.Seed == nil || *manifest.Seed != 42 {
		t.Fatalf("Seed = %v, want 42", manifest.Seed)
	}
	if manifest.MaxSteps != 1000 {
		t.Fatalf("MaxSteps = %d, want 1000", manifest.MaxSteps)
	}
	if !manifest.Trace {
		t.Fatal("Trace should be set")
	}
	if !filepath.IsAbs(manifest.Path) {
		t.Fatalf("Path should be absolute, got %q", manifest.Path)
	}
	want := filepath.Join(filepath.Dir(manifest.Path), "src", "main.ws")
	if got := manifest.EntryReference(); got != want {
		t.Fatalf("EntryReference = %q, want %q", got, want)
	}
}

func TestLoadManifestRejectsUnknownFields(t *testing.T) {
	_, err := LoadManifest(filepath.Join("testdata", "unknown_field.yml"))
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
	if !strings.Contains(err.Error(), "targets") {
		t.Fatalf("error should name the unknown field: %v", err)
	}
}

func TestLoadManifestValidation(t *testing.T) {
	_, err := LoadManifest(filepath.Join("testdata", "invalid.yml"))
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	wantFragments := []string{
		"name must be provided",
		"entry must be provided",
		"seed must be non-negative (got -1)",
		"max_steps must be non-negative (got -5)",
	}
	msg := err.Error()
	if !strings.HasPrefix(msg, "manifest validation failed:\n- ") {
		t.Fatalf("unexpected message layout: %s", msg)
	}
	for _, fragment := range wantFragments {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("validation error missing fragment %q: %s", fragment, msg)
		}
	}
}

func TestLoadManifestEmpty(t *testing.T) {
	path := writeManifest(t, "")
	_, err := LoadManifest(path)
	if err == nil || !strings.Contains(err.Error(), "is empty") {
		t.Fatalf("expected empty manifest error, got %v", err)
	}
}

func TestLoadManifestAbsoluteEntry(t *testing.T) {
	entry := filepath.Join(t.TempDir(), "main.ws")
	path := writeManifest(t, "name: demo\nentry: "+entry)
	_, err := LoadManifest(path)
	if err == nil || !strings.Contains(err.Error(), "must be relative to the manifest") {
		t.Fatalf("expected relative entry error, got %v", err)
	}
}

func TestManifestGitEntryPassesThrough(t *testing.T) {
	path := writeManifest(t, `
name: remote
entry: git+https://example.com/ws.git@v1.0:prog/main.ws
`)
	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest returned error: %v", err)
	}
	if got := manifest.EntryReference(); got != "git+https://example.com/ws.git@v1.0:prog/main.ws" {
		t.Fatalf("EntryReference = %q", got)
	}
	if manifest.Seed != nil {
		t.Fatalf("Seed should be unset, got %d", *manifest.Seed)
	}
}

func TestFindManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	manifestPath := filepath.Join(root, ManifestFileName)
	if err := os.WriteFile(manifestPath, []byte("name: demo\nentry: main.ws\n"), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	found, err := FindManifest(nested)
	if err != nil {
		t.Fatalf("FindManifest: %v", err)
	}
	if found != manifestPath {
		t.Fatalf("FindManifest = %q, want %q", found, manifestPath)
	}
}

func TestFindManifestMissing(t *testing.T) {
	_, err := FindManifest(t.TempDir())
	if !errors.Is(err, ErrManifestNotFound) {
		t.Fatalf("expected ErrManifestNotFound, got %v", err)
	}
}

func writeManifest(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, ManifestFileName)
	if err := os.WriteFile(path, []byte(strings.TrimSpace(contents)+"\n"), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}
