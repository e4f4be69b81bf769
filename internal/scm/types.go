package scm

import "gitclerk/internal/config"

// Provider defines the interface for hosting-side project management. It is
// provider-agnostic and can be implemented for GitLab, GitHub, Bitbucket and
// similar services. Implementations never touch the working copy; they only
// guarantee that a project exists to push to.
type Provider interface {
	// EnsureProject returns the SSH URL of the project described by the
	// configuration, creating the project when it does not exist yet.
	EnsureProject(project config.Project) (string, error)
}
