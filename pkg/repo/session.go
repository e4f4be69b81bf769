package repo

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// DefaultCommitterName and DefaultCommitterEmail identify commits made
	// through a session whose environment carries no committer of its own.
	DefaultCommitterName  = "GitClerk"
	DefaultCommitterEmail = "gitclerk@localhost"
)

// SessionConfig controls how a SessionFactory builds git sessions.
type SessionConfig struct {
	// BaseEnv is the ambient environment handed to every git invocation.
	// When nil, the process environment is captured once at factory
	// construction. Pass an explicit slice to make session environments
	// reproducible in tests.
	BaseEnv []string

	// CommitterName and CommitterEmail are the fallback committer identity.
	// They sit below BaseEnv: ambient GIT_COMMITTER_NAME/GIT_COMMITTER_EMAIL
	// values win over them.
	CommitterName  string
	CommitterEmail string

	// CommandTimeout bounds each git invocation whose context carries no
	// deadline of its own. Zero selects DefaultCommandTimeout.
	CommandTimeout time.Duration

	// Logger receives session diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

// SessionFactory builds ready-to-run git sessions for a working copy. The
// factory captures its environment once, so sessions opened later do not
// drift with the process environment.
type SessionFactory struct {
	baseEnv        []string
	committerName  string
	committerEmail string
	timeout        time.Duration
	logger         *slog.Logger
}

// NewSessionFactory creates a factory from cfg, filling unset fields with
// defaults.
func NewSessionFactory(cfg SessionConfig) *SessionFactory {
	base := cfg.BaseEnv
	if base == nil {
		base = os.Environ()
	}

	name := cfg.CommitterName
	if name == "" {
		name = DefaultCommitterName
	}

	email := cfg.CommitterEmail
	if email == "" {
		email = DefaultCommitterEmail
	}

	timeout := cfg.CommandTimeout
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &SessionFactory{
		baseEnv:        append([]string(nil), base...),
		committerName:  name,
		committerEmail: email,
		timeout:        timeout,
		logger:         logger,
	}
}

// Session is a single-use view of a working copy with a fully layered git
// environment. Opening a session never fails; a missing SSH key only changes
// how the SSH command is built.
type Session struct {
	root       string
	keyPath    string
	sshCommand string
	env        []string
	timeout    time.Duration
	logger     *slog.Logger
}

// Open probes the working copy under root for an installed SSH key and
// returns a session whose environment reflects what it found. The absence of
// a key is a valid state: one warning is logged and ambient git credentials
// apply.
func (f *SessionFactory) Open(root string) *Session {
	keyPath := filepath.Join(root, sshDirName, sshKeyName)
	withIdentity := fileExists(keyPath)
	if !withIdentity {
		f.logger.Warn("No SSH key installed; relying on ambient git credentials", "root", root)
	}
	sshCommand := buildSSHCommand(keyPath, withIdentity)

	// os/exec resolves duplicate environment keys last-wins, so the append
	// order below is the precedence order: fallback committer identity, then
	// the ambient environment, then the computed SSH command on top.
	env := make([]string, 0, len(f.baseEnv)+3)
	env = append(env,
		"GIT_COMMITTER_NAME="+f.committerName,
		"GIT_COMMITTER_EMAIL="+f.committerEmail,
	)
	env = append(env, f.baseEnv...)
	env = append(env, "GIT_SSH_COMMAND="+sshCommand)

	return &Session{
		root:       root,
		keyPath:    keyPath,
		sshCommand: sshCommand,
		env:        env,
		timeout:    f.timeout,
		logger:     f.logger,
	}
}

// Env returns a copy of the session's git environment.
func (s *Session) Env() []string {
	return append([]string(nil), s.env...)
}

// SSHCommand returns the GIT_SSH_COMMAND value the session runs git with.
func (s *Session) SSHCommand() string {
	return s.sshCommand
}

// buildSSHCommand assembles the ssh invocation for git. Host key checking is
// disabled in both modes. With an installed key the command additionally pins
// identity resolution to that key alone and ignores the user's SSH config.
func buildSSHCommand(keyPath string, withIdentity bool) string {
	parts := []string{
		"ssh",
		"-o", "UserKnownHostsFile=/dev/null",
		"-o", "StrictHostKeyChecking=no",
	}
	if withIdentity {
		parts = append(parts,
			"-o", "IdentitiesOnly=yes",
			"-i", keyPath,
			"-F", "/dev/null",
		)
	}
	return strings.Join(parts, " ")
}

// fileExists reports whether a regular file exists at path. Probe errors are
// treated as absence: a missing key is a valid state, not a failure.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
