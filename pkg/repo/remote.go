package repo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	git "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
)

const originRemote = "origin"

// Origin returns the URL of the origin remote. A repository without one is a
// valid state: a single warning is logged and the empty string returned with
// no error.
func (r *Repository) Origin() (string, error) {
	gr, err := git.PlainOpen(r.root)
	if err != nil {
		return "", fmt.Errorf("failed to open repository: %w", err)
	}

	remote, err := gr.Remote(originRemote)
	if err != nil {
		if errors.Is(err, git.ErrRemoteNotFound) {
			r.logger.Warn("Repository has no origin remote", "root", r.root)
			return "", nil
		}
		return "", fmt.Errorf("failed to look up origin: %w", err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		r.logger.Warn("Origin remote has no URL configured", "root", r.root)
		return "", nil
	}
	return urls[0], nil
}

// SetOrigin points the origin remote at the given repository identifier,
// normalized to SSH form, and returns the URL it stored. An existing origin
// is removed first with a warning; the remove and the add are separate
// config edits, so a failing add can leave the repository without an origin.
func (r *Repository) SetOrigin(identifier string) (string, error) {
	remoteURL := NormalizeRemote(identifier, r.remoteHost)

	gr, err := git.PlainOpen(r.root)
	if err != nil {
		return "", fmt.Errorf("failed to open repository: %w", err)
	}

	_, err = gr.Remote(originRemote)
	switch {
	case err == nil:
		r.logger.Warn("Replacing existing origin remote", "root", r.root, "url", remoteURL)
		if err := gr.DeleteRemote(originRemote); err != nil {
			return "", fmt.Errorf("failed to remove origin: %w", err)
		}
	case !errors.Is(err, git.ErrRemoteNotFound):
		return "", fmt.Errorf("failed to look up origin: %w", err)
	}

	if _, err := gr.CreateRemote(&gitconfig.RemoteConfig{
		Name: originRemote,
		URLs: []string{remoteURL},
	}); err != nil {
		return "", fmt.Errorf("failed to add origin: %w", err)
	}

	r.logger.Info("Origin remote configured", "url", remoteURL)
	return remoteURL, nil
}

// PingRemote checks that the origin remote answers, using the session's SSH
// command for transport.
func (r *Repository) PingRemote(ctx context.Context) error {
	s := r.sessions.Open(r.root)
	if _, err := s.run(ctx, "ls-remote", originRemote); err != nil {
		return fmt.Errorf("failed to reach origin: %w", err)
	}
	return nil
}

var scpLikeRemote = regexp.MustCompile(`^[^@/]+@[^:/]+:`)

// NormalizeRemote rewrites a repository identifier into the SSH form git
// understands. scp-like remotes and ssh:// URLs pass through, http(s) URLs
// are converted to scp form, and bare owner/name shorthand resolves against
// defaultHost. A .git suffix is appended when absent.
func NormalizeRemote(identifier, defaultHost string) string {
	id := strings.TrimSuffix(strings.TrimSpace(identifier), "/")

	switch {
	case scpLikeRemote.MatchString(id), strings.HasPrefix(id, "ssh://"):
		return ensureGitSuffix(id)
	case strings.HasPrefix(id, "http://"), strings.HasPrefix(id, "https://"):
		u, err := url.Parse(id)
		if err != nil || u.Host == "" {
			return ensureGitSuffix(id)
		}
		return "git@" + u.Hostname() + ":" + ensureGitSuffix(strings.TrimPrefix(u.Path, "/"))
	default:
		return "git@" + defaultHost + ":" + ensureGitSuffix(id)
	}
}

func ensureGitSuffix(s string) string {
	if strings.HasSuffix(s, ".git") {
		return s
	}
	return s + ".git"
}
