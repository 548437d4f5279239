package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/safecast"
	"gopkg.in/yaml.v3"
)

// ManifestFileName is the project file FindManifest looks for.
const ManifestFileName = "wsharp.yml"

// ErrManifestNotFound is returned by FindManifest when no directory up to the
// filesystem root holds a manifest.
var ErrManifestNotFound = errors.New("manifest: wsharp.yml not found")

// Manifest represents the parsed contents of wsharp.yml.
type Manifest struct {
	Path     string
	Name     string
	Entry    string
	Seed     *uint64
	MaxSteps uint64
	Trace    bool
}

type manifestFile struct {
	Name     string `yaml:"name"`
	Entry    string `yaml:"entry"`
	Seed     *int64 `yaml:"seed"`
	MaxSteps *int64 `yaml:"max_steps"`
	Trace    bool   `yaml:"trace"`
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

// LoadManifest parses wsharp.yml from disk, returning a validated manifest.
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
	return raw.toManifest(absPath)
}

func (mf manifestFile) toManifest(path string) (*Manifest, error) {
	m := &Manifest{
		Path:  path,
		Name:  strings.TrimSpace(mf.Name),
		Entry: strings.TrimSpace(mf.Entry),
		Trace: mf.Trace,
	}

	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	if m.Entry == "" {
		errs.Issues = append(errs.Issues, "entry must be provided")
	} else if !IsGitReference(m.Entry) && filepath.IsAbs(m.Entry) {
		errs.Issues = append(errs.Issues, fmt.Sprintf("entry %q must be relative to the manifest", m.Entry))
	}
	if mf.Seed != nil {
		seed, err := safecast.Conv[uint64](*mf.Seed)
		if err != nil {
			errs.Issues = append(errs.Issues, fmt.Sprintf("seed must be non-negative (got %d)", *mf.Seed))
		} else {
			m.Seed = &seed
		}
	}
	if mf.MaxSteps != nil {
		steps, err := safecast.Conv[uint64](*mf.MaxSteps)
		if err != nil {
			errs.Issues = append(errs.Issues, fmt.Sprintf("max_steps must be non-negative (got %d)", *mf.MaxSteps))
		} else {
			m.MaxSteps = steps
		}
	}
	if len(errs.Issues) > 0 {
		return nil, &errs
	}
	return m, nil
}

// EntryReference returns the entry as a source reference: git references
// verbatim, paths resolved against the manifest's directory.
func (m *Manifest) EntryReference() string {
	if IsGitReference(m.Entry) {
		return m.Entry
	}
	return filepath.Join(filepath.Dir(m.Path), m.Entry)
}

// FindManifest walks from start towards the filesystem root and returns the
// path of the first wsharp.yml found.
func FindManifest(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("manifest: resolve %s: %w", start, err)
	}
	for {
		candidate := filepath.Join(dir, ManifestFileName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("manifest: stat %s: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrManifestNotFound
		}
		dir = parent
	}
}
