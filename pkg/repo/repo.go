// Package repo is a persistence facade over a git working copy. It stages,
// commits, reverts and publishes content files, reads them back from HEAD,
// and manages the origin remote and the SSH key used to reach it.
//
// Write operations shell out to the git binary so that GIT_SSH_COMMAND and
// the committer environment apply; reads go through go-git and never spawn a
// process. A Repository is safe for concurrent reads, but concurrent writes
// against the same working copy race on the index and are not supported.
package repo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
)

const (
	sshDirName = ".ssh"
	sshKeyName = "id_rsa"

	// defaultRemoteHost resolves bare owner/name remote identifiers.
	defaultRemoteHost = "github.com"
)

// Config describes a working copy to bind a Repository to.
type Config struct {
	// Root is the absolute path of the working copy. Required.
	Root string

	// ContentDir is an optional subdirectory of Root that file paths in
	// requests are relative to. Empty means Root itself.
	ContentDir string

	// RemoteHost resolves bare owner/name remote identifiers. Defaults to
	// github.com.
	RemoteHost string

	// Sessions supplies git sessions. When nil a factory with default
	// settings is built, capturing the process environment.
	Sessions *SessionFactory

	// Logger receives repository diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

// Repository is the facade bound to one working copy. Construction only
// validates the configuration; the working copy is probed per operation, so
// a Repository can be created before its directory is a git repository.
type Repository struct {
	root       string
	contentDir string
	remoteHost string
	sessions   *SessionFactory
	logger     *slog.Logger
}

// New creates a Repository for the working copy described by cfg.
func New(cfg Config) (*Repository, error) {
	if cfg.Root == "" {
		return nil, errors.New("repository root is required")
	}
	if !filepath.IsAbs(cfg.Root) {
		return nil, fmt.Errorf("repository root must be absolute, got %q", cfg.Root)
	}

	contentDir := path.Clean(filepath.ToSlash(cfg.ContentDir))
	if contentDir == "." {
		contentDir = ""
	}
	if path.IsAbs(contentDir) || strings.HasPrefix(contentDir, "..") {
		return nil, fmt.Errorf("content dir must stay inside the repository, got %q", cfg.ContentDir)
	}

	remoteHost := cfg.RemoteHost
	if remoteHost == "" {
		remoteHost = defaultRemoteHost
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sessions := cfg.Sessions
	if sessions == nil {
		sessions = NewSessionFactory(SessionConfig{Logger: logger})
	}

	return &Repository{
		root:       filepath.Clean(cfg.Root),
		contentDir: contentDir,
		remoteHost: remoteHost,
		sessions:   sessions,
		logger:     logger,
	}, nil
}

// Root returns the working copy root.
func (r *Repository) Root() string {
	return r.root
}

// ContentRoot returns the directory content paths resolve against.
func (r *Repository) ContentRoot() string {
	return filepath.Join(r.root, filepath.FromSlash(r.contentDir))
}

// TempDir returns the scratch directory for in-flight uploads, kept under
// the content root so renames into place stay on one filesystem.
func (r *Repository) TempDir() string {
	return filepath.Join(r.ContentRoot(), "tmp")
}

// KeyPath returns where the repository's SSH key lives once installed.
func (r *Repository) KeyPath() string {
	return filepath.Join(r.root, sshDirName, sshKeyName)
}

// CurrentBranch returns the branch HEAD points at.
func (r *Repository) CurrentBranch(ctx context.Context) (string, error) {
	s := r.sessions.Open(r.root)
	branch, err := s.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to resolve current branch: %w", err)
	}
	return branch, nil
}

// repoPath maps a content-relative path to its repository-relative slash
// form, the shape git and go-git expect.
func (r *Repository) repoPath(rel string) string {
	return path.Join(r.contentDir, filepath.ToSlash(rel))
}
