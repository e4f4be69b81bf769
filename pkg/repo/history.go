package repo

import (
	"fmt"
	"os"
	"path/filepath"

	git "github.com/go-git/go-git/v5"
)

// FileAtHead returns the contents of a content-relative path as of the HEAD
// commit. When HEAD cannot provide the file (unborn branch, never-committed
// path, no repository yet) the working copy is read instead; only a failure
// of that fallback surfaces as an error.
func (r *Repository) FileAtHead(relPath string) ([]byte, error) {
	data, err := r.fileAtCommit(relPath)
	if err == nil {
		return data, nil
	}
	r.logger.Debug("HEAD read failed, falling back to working copy", "path", relPath, "reason", err)

	workingPath := filepath.Join(r.root, filepath.FromSlash(r.repoPath(relPath)))
	data, err = os.ReadFile(workingPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from working copy: %w", relPath, err)
	}
	return data, nil
}

func (r *Repository) fileAtCommit(relPath string) ([]byte, error) {
	gr, err := git.PlainOpen(r.root)
	if err != nil {
		return nil, err
	}

	head, err := gr.Head()
	if err != nil {
		return nil, err
	}

	commit, err := gr.CommitObject(head.Hash())
	if err != nil {
		return nil, err
	}

	file, err := commit.File(r.repoPath(relPath))
	if err != nil {
		return nil, err
	}

	contents, err := file.Contents()
	if err != nil {
		return nil, err
	}
	return []byte(contents), nil
}
