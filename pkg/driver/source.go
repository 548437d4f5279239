package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

const gitPrefix = "git+"

// Source is a loaded W# program text.
type Source struct {
	// Name identifies the source in messages: a file path or the git reference.
	Name string
	Text string
	// Commit is the resolved commit for git sources.
	Commit string
}

// GitReference names a file inside a git repository at a revision:
// git+<url>@<rev>:<path>.
type GitReference struct {
	URL      string
	Revision string
	Path     string
}

// IsGitReference reports whether ref uses the git+ form.
func IsGitReference(ref string) bool {
	return strings.HasPrefix(ref, gitPrefix)
}

// ParseGitReference splits a git+<url>@<rev>:<path> reference. The URL may
// itself contain '@' and ':', so the last '@' starts the revision.
func ParseGitReference(ref string) (GitReference, error) {
	if !IsGitReference(ref) {
		return GitReference{}, fmt.Errorf("source: %q is not a git reference", ref)
	}
	rest := strings.TrimPrefix(ref, gitPrefix)
	at := strings.LastIndex(rest, "@")
	if at <= 0 {
		return GitReference{}, fmt.Errorf("source: %q: missing @<revision>", ref)
	}
	url, revPath := rest[:at], rest[at+1:]
	colon := strings.Index(revPath, ":")
	if colon < 0 {
		return GitReference{}, fmt.Errorf("source: %q: missing :<path>", ref)
	}
	gr := GitReference{
		URL:      url,
		Revision: strings.TrimSpace(revPath[:colon]),
		Path:     strings.TrimSpace(revPath[colon+1:]),
	}
	switch {
	case gr.Revision == "":
		return GitReference{}, fmt.Errorf("source: %q: empty revision", ref)
	case gr.Path == "":
		return GitReference{}, fmt.Errorf("source: %q: empty path", ref)
	case filepath.IsAbs(gr.Path) || !filepath.IsLocal(gr.Path):
		return GitReference{}, fmt.Errorf("source: %q: path must stay inside the repository", ref)
	}
	return gr, nil
}

// LoadSource reads a program from a file path or a git reference. Git
// repositories are checked out under home/git.
func LoadSource(ref, home string) (*Source, error) {
	if !IsGitReference(ref) {
		data, err := os.ReadFile(ref)
		if err != nil {
			return nil, fmt.Errorf("source: read %s: %w", ref, err)
		}
		return &Source{Name: ref, Text: string(data)}, nil
	}

	gr, err := ParseGitReference(ref)
	if err != nil {
		return nil, err
	}
	if home == "" {
		return nil, errors.New("source: git references need a cache directory")
	}
	dir, commit, err := ensureGitCheckout(filepath.Join(home, "git", sanitizePathSegment(gr.URL)), gr)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, gr.Path))
	if err != nil {
		return nil, fmt.Errorf("source: read %s at %s: %w", gr.Path, commit, err)
	}
	return &Source{Name: ref, Text: string(data), Commit: commit}, nil
}

// ensureGitCheckout clones url into a temporary directory, checks out the
// requested revision and moves the tree to baseDir/<commit>. An existing
// checkout of the same commit is reused.
func ensureGitCheckout(baseDir string, gr GitReference) (string, string, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", "", err
	}
	if isCommitHash(gr.Revision) {
		existing := filepath.Join(baseDir, gr.Revision)
		if _, err := os.Stat(existing); err == nil {
			return existing, gr.Revision, nil
		}
	}

	tmpDir, err := os.MkdirTemp(baseDir, "git-fetch-*")
	if err != nil {
		return "", "", err
	}
	if err := os.RemoveAll(tmpDir); err != nil {
		return "", "", err
	}

	repo, err := git.PlainClone(tmpDir, false, &git.CloneOptions{URL: gr.URL})
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("source: git clone %s: %w", gr.URL, err)
	}

	hash, err := resolveRevision(repo, gr.Revision)
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", err
	}

	commit := hash.String()
	targetDir := filepath.Join(baseDir, commit)
	if _, err := os.Stat(targetDir); err == nil {
		_ = os.RemoveAll(tmpDir)
		return targetDir, commit, nil
	}

	worktree, err := repo.Worktree()
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("source: git checkout %s: %w", gr.Revision, err)
	}

	if err := os.Rename(tmpDir, targetDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", err
	}
	return targetDir, commit, nil
}

// resolveRevision accepts commits, tags and branch names. Branches are looked
// up among the remote-tracking refs a fresh clone has.
func resolveRevision(repo *git.Repository, rev string) (*plumbing.Hash, error) {
	candidates := []plumbing.Revision{
		plumbing.Revision(rev),
		plumbing.Revision("refs/tags/" + rev),
		plumbing.Revision("refs/remotes/origin/" + rev),
	}
	var firstErr error
	for _, candidate := range candidates {
		hash, err := repo.ResolveRevision(candidate)
		if err == nil {
			return hash, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, fmt.Errorf("source: resolve revision %s: %w", rev, firstErr)
}

func isCommitHash(rev string) bool {
	if len(rev) != 40 {
		return false
	}
	for _, r := range rev {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return false
		}
	}
	return true
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
