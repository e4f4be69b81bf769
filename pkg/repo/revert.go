package repo

import (
	"context"
	"fmt"
)

// Revert discards local modifications to the first file in the list by
// checking it out from the index. Remaining entries are ignored; callers
// that pass a whole publish list get only its head restored. RevertAll is
// the variant without that restriction.
func (r *Repository) Revert(ctx context.Context, files []string) error {
	if len(files) == 0 {
		return ErrNoFiles
	}

	s := r.sessions.Open(r.root)
	target := r.repoPath(files[0])
	if _, err := s.run(ctx, "checkout", "--", target); err != nil {
		return fmt.Errorf("failed to revert %s: %w", files[0], err)
	}

	r.logger.Info("Reverted file", "path", target)
	return nil
}

// RevertAll discards local modifications to every listed file.
func (r *Repository) RevertAll(ctx context.Context, files []string) error {
	if len(files) == 0 {
		return ErrNoFiles
	}

	args := []string{"checkout", "--"}
	for _, f := range files {
		args = append(args, r.repoPath(f))
	}

	s := r.sessions.Open(r.root)
	if _, err := s.run(ctx, args...); err != nil {
		return fmt.Errorf("failed to revert %d files: %w", len(files), err)
	}

	r.logger.Info("Reverted files", "count", len(files))
	return nil
}
