package repo

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoFiles is returned by operations that were handed an empty file list.
var ErrNoFiles = errors.New("no files listed")

// GitError is the failure of a single git invocation. Stderr is captured
// verbatim apart from credential scrubbing, so callers see what git said.
type GitError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *GitError) Error() string {
	msg := fmt.Sprintf("git %s failed", strings.Join(e.Args, " "))
	if e.Stderr != "" {
		return msg + ": " + e.Stderr
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *GitError) Unwrap() error {
	return e.Err
}
