package repo

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"
)

// DefaultCommandTimeout bounds a single git invocation when the caller's
// context carries no deadline. Pushes over slow links can legitimately take
// minutes.
const DefaultCommandTimeout = 5 * time.Minute

// run executes git with the session's environment inside the working copy,
// returning trimmed stdout. Failures come back as a *GitError whose captured
// stderr has credential locations scrubbed.
func (s *Session) run(ctx context.Context, args ...string) (string, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = s.root
	cmd.Env = s.env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	s.logger.Debug("Running git command", "args", args, "dir", s.root)

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return "", &GitError{
			Args:   args,
			Stderr: s.scrub(stderr.String()),
			Err:    err,
		}
	}

	return strings.TrimSpace(stdout.String()), nil
}

// scrub strips the session's credential-bearing strings from git output so
// the key location never travels inside error text.
func (s *Session) scrub(out string) string {
	out = strings.TrimSpace(out)
	if s.keyPath != "" {
		out = strings.ReplaceAll(out, s.keyPath, "[ssh-key]")
	}
	return out
}
