package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"

	apperrors "gitclerk/internal/errors"
)

type diagnosis struct {
	out      io.Writer
	warnings int
	failures int
}

func (d *diagnosis) ok(msg string)   { fmt.Fprintf(d.out, "  ok    %s\n", msg) }
func (d *diagnosis) warn(msg string) { d.warnings++; fmt.Fprintf(d.out, "  warn  %s\n", msg) }
func (d *diagnosis) fail(msg string) { d.failures++; fmt.Fprintf(d.out, "  fail  %s\n", msg) }

// Doctor checks the environment, the working copy and the credentials and
// writes a report to out. Warnings alone do not fail the command.
func Doctor(ctx context.Context, cfgPath string, out io.Writer) error {
	cfg, r, err := setup(cfgPath)
	if err != nil {
		return err
	}

	d := &diagnosis{out: out}

	fmt.Fprintln(out, "Environment:")
	if _, err := exec.LookPath("git"); err != nil {
		d.fail("git is not installed or not in PATH")
	} else {
		d.ok("git is available")
	}

	fmt.Fprintln(out, "Repository:")
	if branch, err := r.CurrentBranch(ctx); err != nil {
		d.fail(fmt.Sprintf("%s is not a usable git repository", r.Root()))
	} else {
		d.ok("working copy is on branch " + branch)
	}

	if url, err := r.Origin(); err != nil {
		d.fail("origin remote cannot be read")
	} else if url == "" {
		d.warn("no origin remote configured; pushes will fail")
	} else {
		d.ok("origin points at " + url)
		if err := r.PingRemote(ctx); err != nil {
			d.warn("origin remote is not reachable")
		} else {
			d.ok("origin remote answers")
		}
	}

	fmt.Fprintln(out, "Credentials:")
	d.checkKey(r.KeyPath())
	if cfg.SCM != nil {
		if os.Getenv("GITLAB_PRIVATE_TOKEN") == "" {
			d.warn("scm is configured but GITLAB_PRIVATE_TOKEN is not set")
		} else {
			d.ok("hosting provider token is set")
		}
	}

	switch {
	case d.failures > 0:
		fmt.Fprintf(out, "%d check(s) failed, %d warning(s)\n", d.failures, d.warnings)
		return apperrors.NewRepoError(
			"Environment checks failed",
			fmt.Sprintf("%d check(s) failed", d.failures),
			"Fix the failed checks listed above",
			fmt.Errorf("doctor found %d problem(s)", d.failures))
	case d.warnings > 0:
		fmt.Fprintf(out, "All checks passed with %d warning(s)\n", d.warnings)
	default:
		fmt.Fprintln(out, "All checks passed")
	}
	return nil
}

// checkKey reports on the installed SSH key without printing its location.
func (d *diagnosis) checkKey(keyPath string) {
	info, err := os.Stat(keyPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		d.warn("no SSH key installed; git will use ambient credentials")
	case err != nil:
		d.fail("SSH key cannot be inspected")
	case info.Mode().Perm() != 0o600:
		d.warn(fmt.Sprintf("SSH key permissions are %04o, want 0600", info.Mode().Perm()))
	default:
		d.ok("SSH key installed with correct permissions")
	}
}
