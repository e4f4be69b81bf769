package repo

import (
	"context"
	"fmt"
)

// Publish stages exactly the requested files, commits them, and optionally
// pushes the current branch to origin with upstream tracking. The commit
// carries the request's author when one is given; the committer identity is
// whatever the session environment resolved.
//
// Every step runs through one session, so the SSH command and committer
// fallback are decided once per publish. Any failing step aborts the rest
// and propagates.
func (r *Repository) Publish(ctx context.Context, req PublishRequest) (*PublishResult, error) {
	if len(req.Files) == 0 {
		return nil, ErrNoFiles
	}

	s := r.sessions.Open(r.root)

	branch, err := s.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return nil, fmt.Errorf("failed to resolve current branch: %w", err)
	}

	addArgs := []string{"add", "--"}
	for _, f := range req.Files {
		addArgs = append(addArgs, r.repoPath(f))
	}
	if _, err := s.run(ctx, addArgs...); err != nil {
		return nil, fmt.Errorf("failed to stage files: %w", err)
	}

	commitArgs := []string{"commit", "-m", req.Message}
	if req.AuthorEmail != "" {
		name := req.AuthorName
		if name == "" {
			name = req.AuthorEmail
		}
		commitArgs = append(commitArgs, "--author", fmt.Sprintf("%s <%s>", name, req.AuthorEmail))
	}
	if _, err := s.run(ctx, commitArgs...); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	commit, err := s.run(ctx, "rev-parse", "HEAD")
	if err != nil {
		return nil, fmt.Errorf("failed to resolve new commit: %w", err)
	}

	result := &PublishResult{Branch: branch, Commit: commit}

	if req.Push {
		if _, err := s.run(ctx, "push", "-u", "origin", branch); err != nil {
			return nil, fmt.Errorf("failed to push %s: %w", branch, err)
		}
		result.Pushed = true
	}

	r.logger.Info("Publish completed", "branch", branch, "commit", commit, "files", len(req.Files), "pushed", result.Pushed)
	return result, nil
}

// Push uploads the current branch to its configured upstream.
func (r *Repository) Push(ctx context.Context) error {
	s := r.sessions.Open(r.root)
	if _, err := s.run(ctx, "push"); err != nil {
		return fmt.Errorf("failed to push: %w", err)
	}
	r.logger.Info("Push completed", "root", r.root)
	return nil
}
