// Package app wires configuration, the repository facade, the journal and
// the hosting provider into the gitclerk commands.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"gitclerk/internal/config"
	apperrors "gitclerk/internal/errors"
	"gitclerk/internal/journal"
	"gitclerk/internal/scm"
	"gitclerk/internal/ui"
	"gitclerk/pkg/repo"
)

// PublishOptions carries the flags of the publish command.
type PublishOptions struct {
	Files       []string
	Message     string
	AuthorName  string
	AuthorEmail string
	Push        bool
}

// loadRepository builds the repository facade from the configuration. The
// session factory captures the process environment here, once per command.
func loadRepository(cfg *config.Config) (*repo.Repository, error) {
	factory := repo.NewSessionFactory(repo.SessionConfig{
		CommitterName:  cfg.Committer.Name,
		CommitterEmail: cfg.Committer.Email,
		CommandTimeout: cfg.Remote.PushTimeout,
	})

	return repo.New(repo.Config{
		Root:       cfg.Repo.Root,
		ContentDir: cfg.Repo.ContentDir,
		RemoteHost: cfg.Remote.Host,
		Sessions:   factory,
	})
}

func setup(cfgPath string) (*config.Config, *repo.Repository, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, apperrors.NewConfigError(
			"Failed to load configuration",
			err.Error(),
			fmt.Sprintf("Check %s against the documented format", cfgPath),
			err)
	}

	r, err := loadRepository(cfg)
	if err != nil {
		return nil, nil, apperrors.NewRepoError(
			"Failed to bind the working copy",
			err.Error(),
			"Check repo.root in the configuration",
			err)
	}

	return cfg, r, nil
}

// Publish commits the listed files, optionally pushes, and records the run
// in the journal. A journal failure is reported but does not undo or fail
// the publish.
func Publish(ctx context.Context, cfgPath string, opts PublishOptions) error {
	cfg, r, err := setup(cfgPath)
	if err != nil {
		return err
	}

	console := ui.NewConsole()
	console.PrintInfo(fmt.Sprintf("Publishing %d file(s) from %s", len(opts.Files), r.ContentRoot()))

	result, err := r.Publish(ctx, repo.PublishRequest{
		Files:       opts.Files,
		Message:     opts.Message,
		AuthorName:  opts.AuthorName,
		AuthorEmail: opts.AuthorEmail,
		Push:        opts.Push,
	})
	if err != nil {
		return apperrors.NewPublishError(
			"Failed to publish content",
			err.Error(),
			"Inspect the git output; the working copy may need manual attention",
			err)
	}

	if !cfg.Journal.Disabled {
		entry := journal.NewEntry(result.Branch, result.Commit, opts.Message, opts.Files, result.Pushed)
		if err := journal.Append(cfg.Repo.Root, entry); err != nil {
			slog.Warn("Failed to record publish in journal", "error", err)
		}
	}

	console.PrintSuccess(fmt.Sprintf("Published %s on %s", shortHash(result.Commit), result.Branch))
	if result.Pushed {
		console.PrintSuccess("Pushed to origin")
	}
	return nil
}

// Push uploads the current branch to its upstream.
func Push(ctx context.Context, cfgPath string) error {
	_, r, err := setup(cfgPath)
	if err != nil {
		return err
	}

	if err := r.Push(ctx); err != nil {
		return apperrors.NewRemoteError(
			"Failed to push to origin",
			err.Error(),
			"Verify the origin remote and the SSH key's access",
			err)
	}

	ui.NewConsole().PrintSuccess("Pushed to origin")
	return nil
}

// Revert discards local changes to the listed files. Without all, only the
// first listed file is restored.
func Revert(ctx context.Context, cfgPath string, files []string, all bool) error {
	_, r, err := setup(cfgPath)
	if err != nil {
		return err
	}

	if all {
		err = r.RevertAll(ctx, files)
	} else {
		err = r.Revert(ctx, files)
	}
	if err != nil {
		return apperrors.NewRepoError(
			"Failed to revert files",
			err.Error(),
			"Only committed paths can be reverted",
			err)
	}

	ui.NewConsole().PrintSuccess("Revert completed")
	return nil
}

// Show writes the contents of a content-relative path at HEAD to out,
// falling back to the working copy when HEAD cannot provide it.
func Show(cfgPath, relPath string, out io.Writer) error {
	_, r, err := setup(cfgPath)
	if err != nil {
		return err
	}

	data, err := r.FileAtHead(relPath)
	if err != nil {
		return apperrors.NewRepoError(
			fmt.Sprintf("Failed to read %s", relPath),
			err.Error(),
			"The file exists neither at HEAD nor in the working copy",
			err)
	}

	if _, err := out.Write(data); err != nil {
		return apperrors.NewRepoError(fmt.Sprintf("Failed to write %s", relPath), err.Error(), "", err)
	}
	return nil
}

// RemoteGet prints the origin URL. A missing origin prints nothing; the
// repository logs the warning.
func RemoteGet(cfgPath string, out io.Writer) error {
	_, r, err := setup(cfgPath)
	if err != nil {
		return err
	}

	url, err := r.Origin()
	if err != nil {
		return apperrors.NewRemoteError(
			"Failed to read the origin remote",
			err.Error(),
			"Check that repo.root points at a git repository",
			err)
	}

	if url != "" {
		fmt.Fprintln(out, url)
	}
	return nil
}

// RemoteSet points origin at the given identifier. With ensure, the hosting
// project is created first and its SSH URL used instead of the identifier.
func RemoteSet(cfgPath, identifier string, ensure bool) error {
	cfg, r, err := setup(cfgPath)
	if err != nil {
		return err
	}

	var provider scm.Provider
	if ensure {
		if cfg.SCM == nil {
			return apperrors.NewConfigError(
				"Cannot ensure the hosting project",
				"the configuration has no scm section",
				fmt.Sprintf("Add an scm block to %s or drop --ensure", cfgPath),
				errors.New("scm section missing"))
		}

		provider, err = NewProviderFactory().GetProvider(cfg.SCM)
		if err != nil {
			return apperrors.NewSCMError(
				"Failed to initialize the hosting provider",
				err.Error(),
				"Check scm.provider and the GITLAB_PRIVATE_TOKEN environment variable",
				err)
		}
	}

	url, err := setRemote(r, cfg, provider, identifier)
	if err != nil {
		return err
	}

	ui.NewConsole().PrintSuccess("Origin set to " + url)
	return nil
}

// setRemote resolves the remote target, asking the provider to ensure the
// hosting project when one is given, and rewrites origin to point at it.
func setRemote(r *repo.Repository, cfg *config.Config, provider scm.Provider, identifier string) (string, error) {
	target := identifier
	if provider != nil {
		sshURL, err := provider.EnsureProject(cfg.SCM.Project)
		if err != nil {
			return "", apperrors.NewSCMError(
				"Failed to ensure the hosting project",
				err.Error(),
				"Check the token's permissions and the project namespace",
				err)
		}
		target = sshURL
	}

	if target == "" {
		return "", apperrors.NewConfigError(
			"No remote identifier given",
			"remote set needs an identifier argument or --ensure",
			"Pass an owner/name identifier or a full remote URL",
			errors.New("remote identifier missing"))
	}

	url, err := r.SetOrigin(target)
	if err != nil {
		return "", apperrors.NewRemoteError(
			"Failed to configure the origin remote",
			err.Error(),
			"Check that repo.root points at a git repository",
			err)
	}
	return url, nil
}

// InstallKey decodes base64 key material and installs it for the working
// copy.
func InstallKey(cfgPath, encodedKey string) error {
	_, r, err := setup(cfgPath)
	if err != nil {
		return err
	}

	key, err := repo.ParsePrivateKey(encodedKey)
	if err != nil {
		return apperrors.NewKeyError(
			"Failed to decode the SSH key",
			err.Error(),
			"Pass the private key material base64-encoded",
			err)
	}

	if err := r.InstallKey(key); err != nil {
		return apperrors.NewKeyError(
			"Failed to install the SSH key",
			err.Error(),
			fmt.Sprintf("Check permissions under %s", r.Root()),
			err)
	}

	ui.NewConsole().PrintSuccess("SSH key installed for " + r.Root())
	return nil
}

func shortHash(commit string) string {
	if len(commit) > 8 {
		return commit[:8]
	}
	return commit
}
