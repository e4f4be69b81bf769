// Package scm ensures hosting projects exist for the repositories gitclerk
// pushes to.
package scm

import (
	"fmt"
	"log/slog"
	"os"

	gitlab "github.com/xanzy/go-gitlab"

	"gitclerk/internal/config"
)

// GitLabProvider implements Provider against the GitLab API.
type GitLabProvider struct {
	client *gitlab.Client
}

// NewGitLabProvider creates a provider for the GitLab instance at baseURL,
// authenticated with the GITLAB_PRIVATE_TOKEN environment variable.
func NewGitLabProvider(baseURL string) (*GitLabProvider, error) {
	token := os.Getenv("GITLAB_PRIVATE_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("GITLAB_PRIVATE_TOKEN environment variable is required")
	}

	client, err := gitlab.NewClient(token, gitlab.WithBaseURL(baseURL+"/api/v4"))
	if err != nil {
		return nil, fmt.Errorf("failed to create GitLab client: %w", err)
	}

	return &GitLabProvider{client: client}, nil
}

// EnsureProject returns the SSH URL of the configured project, creating it
// when it does not exist yet. An existing project is reused as-is.
func (g *GitLabProvider) EnsureProject(project config.Project) (string, error) {
	projectPath := fmt.Sprintf("%s/%s", project.Namespace, project.Name)

	existing, _, err := g.client.Projects.GetProject(projectPath, nil)
	if err == nil && existing != nil {
		slog.Info("Hosting project already exists", "path", projectPath, "sshUrl", existing.SSHURLToRepo)
		return existing.SSHURLToRepo, nil
	}

	visibility := gitlab.PrivateVisibility
	switch project.Visibility {
	case "public":
		visibility = gitlab.PublicVisibility
	case "internal":
		visibility = gitlab.InternalVisibility
	}

	createOpts := &gitlab.CreateProjectOptions{
		Name:                 &project.Name,
		Path:                 &project.Name,
		Description:          &project.Description,
		Visibility:           &visibility,
		InitializeWithReadme: gitlab.Bool(false),
	}

	created, _, err := g.client.Projects.CreateProject(createOpts)
	if err != nil {
		return "", fmt.Errorf("failed to create GitLab project: %w", err)
	}

	slog.Info("Hosting project created", "id", created.ID, "path", projectPath, "sshUrl", created.SSHURLToRepo)
	return created.SSHURLToRepo, nil
}
