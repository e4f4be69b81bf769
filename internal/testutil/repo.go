// Package testutil builds throwaway git fixtures for tests that exercise the
// real git binary.
package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// RequireGit skips the test when no git binary is on PATH.
func RequireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
}

// NewWorkRepo initializes a working repository in a temp directory with a
// local identity and one committed content file, and returns its root.
func NewWorkRepo(t *testing.T) string {
	t.Helper()
	RequireGit(t)

	root := t.TempDir()
	Git(t, root, "init", "-b", "main")
	Git(t, root, "config", "user.name", "Fixture Author")
	Git(t, root, "config", "user.email", "fixture@example.com")

	WriteFile(t, root, "content/posts/first.md", "# first\n")
	Git(t, root, "add", ".")
	Git(t, root, "commit", "-m", "initial import")

	return root
}

// NewBareRemote creates a bare repository and registers it as the origin of
// the given working repository. Returns the bare repository's path.
func NewBareRemote(t *testing.T, work string) string {
	t.Helper()

	remote := t.TempDir()
	Git(t, remote, "init", "--bare", "-b", "main")
	Git(t, work, "remote", "add", "origin", remote)

	return remote
}

// WriteFile writes content at a repository-relative slash path, creating
// parent directories as needed.
func WriteFile(t *testing.T, root, rel, content string) {
	t.Helper()

	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(full), err)
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", full, err)
	}
}

// Git runs a git command in dir and fails the test if it errors.
func Git(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return strings.TrimSpace(string(out))
}
