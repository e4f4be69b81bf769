package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"gitclerk/internal/app"
	"gitclerk/internal/config"
	apperrors "gitclerk/internal/errors"
)

// version is set at build time via ldflags
var version = "dev"

var rootCmd = &cobra.Command{
	Use:     "gitclerk",
	Short:   "GitClerk - Git publishing facade for headless content repositories",
	Version: version,
	Long: `GitClerk manages the git working copy behind a headless CMS: it commits and
pushes content files, reverts local edits, reads published versions back from
HEAD, and keeps the origin remote and its SSH deploy key configured.`,
}

var publishCmd = &cobra.Command{
	Use:   "publish <file>...",
	Short: "Commit content files and optionally push them",
	Long: `Publish stages exactly the listed files (relative to the configured content
directory), commits them with the given message, and with --push uploads the
current branch to origin with upstream tracking.

The committer identity comes from the configuration unless the environment
carries its own; --author-name and --author-email override the commit author
without touching the committer.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Fprintln(os.Stderr, "Error: at least one file argument is required")
			os.Exit(1)
		}

		cfgFile, _ := cmd.Flags().GetString("config")
		message, _ := cmd.Flags().GetString("message")
		authorName, _ := cmd.Flags().GetString("author-name")
		authorEmail, _ := cmd.Flags().GetString("author-email")
		push, _ := cmd.Flags().GetBool("push")

		err := app.Publish(cmd.Context(), cfgFile, app.PublishOptions{
			Files:       args,
			Message:     message,
			AuthorName:  authorName,
			AuthorEmail: authorEmail,
			Push:        push,
		})
		if err != nil {
			apperrors.HandleError(err)
			os.Exit(1)
		}
	},
}

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Push the current branch to its upstream",
	Run: func(cmd *cobra.Command, args []string) {
		cfgFile, _ := cmd.Flags().GetString("config")

		if err := app.Push(cmd.Context(), cfgFile); err != nil {
			apperrors.HandleError(err)
			os.Exit(1)
		}
	},
}

var revertCmd = &cobra.Command{
	Use:   "revert <file>...",
	Short: "Discard local changes to content files",
	Long: `Revert restores listed files to their committed state. Without --all only the
first listed file is restored; pass --all to restore every listed file.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Fprintln(os.Stderr, "Error: at least one file argument is required")
			os.Exit(1)
		}

		cfgFile, _ := cmd.Flags().GetString("config")
		all, _ := cmd.Flags().GetBool("all")

		if err := app.Revert(cmd.Context(), cfgFile, args, all); err != nil {
			apperrors.HandleError(err)
			os.Exit(1)
		}
	},
}

var showCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Print the published version of a content file",
	Long: `Show prints a content file as committed at HEAD. When HEAD cannot provide the
file, the working copy version is printed instead.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfgFile, _ := cmd.Flags().GetString("config")

		if err := app.Show(cfgFile, args[0], os.Stdout); err != nil {
			apperrors.HandleError(err)
			os.Exit(1)
		}
	},
}

var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Inspect and configure the origin remote",
}

var remoteGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the origin remote URL",
	Run: func(cmd *cobra.Command, args []string) {
		cfgFile, _ := cmd.Flags().GetString("config")

		if err := app.RemoteGet(cfgFile, os.Stdout); err != nil {
			apperrors.HandleError(err)
			os.Exit(1)
		}
	},
}

var remoteSetCmd = &cobra.Command{
	Use:   "set [identifier]",
	Short: "Point origin at a repository identifier or URL",
	Long: `Set rewrites the origin remote. The identifier may be a full SSH or HTTP URL
or a bare owner/name pair resolved against the configured host; everything is
normalized to SSH form. With --ensure the hosting project is created first and
its SSH URL is used instead of the identifier.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfgFile, _ := cmd.Flags().GetString("config")
		ensure, _ := cmd.Flags().GetBool("ensure")

		identifier := ""
		if len(args) == 1 {
			identifier = args[0]
		}

		if err := app.RemoteSet(cfgFile, identifier, ensure); err != nil {
			apperrors.HandleError(err)
			os.Exit(1)
		}
	},
}

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the repository's SSH deploy key",
}

var keyInstallCmd = &cobra.Command{
	Use:   "install <base64-key>",
	Short: "Install a base64-encoded SSH private key",
	Long: `Install decodes the base64-encoded private key and writes it under the working
copy with owner-only permissions. Subsequent git network operations use this
key exclusively. An existing key is replaced.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfgFile, _ := cmd.Flags().GetString("config")

		if err := app.InstallKey(cfgFile, args[0]); err != nil {
			apperrors.HandleError(err)
			os.Exit(1)
		}
	},
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the environment, working copy and credentials",
	Run: func(cmd *cobra.Command, args []string) {
		cfgFile, _ := cmd.Flags().GetString("config")

		if err := app.Doctor(cmd.Context(), cfgFile, os.Stdout); err != nil {
			apperrors.HandleError(err)
			os.Exit(1)
		}
	},
}

func init() {
	publishCmd.Flags().StringP("config", "c", config.DefaultFileName, "Path to the gitclerk configuration file")
	publishCmd.Flags().StringP("message", "m", "", "Commit message (required)")
	publishCmd.Flags().String("author-name", "", "Author name recorded on the commit")
	publishCmd.Flags().String("author-email", "", "Author email recorded on the commit")
	publishCmd.Flags().Bool("push", false, "Push the branch to origin after committing")
	if err := publishCmd.MarkFlagRequired("message"); err != nil {
		slog.Error("Failed to mark message flag as required for publish command", "error", err)
	}
	rootCmd.AddCommand(publishCmd)

	pushCmd.Flags().StringP("config", "c", config.DefaultFileName, "Path to the gitclerk configuration file")
	rootCmd.AddCommand(pushCmd)

	revertCmd.Flags().StringP("config", "c", config.DefaultFileName, "Path to the gitclerk configuration file")
	revertCmd.Flags().Bool("all", false, "Restore every listed file, not just the first")
	rootCmd.AddCommand(revertCmd)

	showCmd.Flags().StringP("config", "c", config.DefaultFileName, "Path to the gitclerk configuration file")
	rootCmd.AddCommand(showCmd)

	remoteGetCmd.Flags().StringP("config", "c", config.DefaultFileName, "Path to the gitclerk configuration file")
	remoteCmd.AddCommand(remoteGetCmd)
	remoteSetCmd.Flags().StringP("config", "c", config.DefaultFileName, "Path to the gitclerk configuration file")
	remoteSetCmd.Flags().Bool("ensure", false, "Create the hosting project first and use its SSH URL")
	remoteCmd.AddCommand(remoteSetCmd)
	rootCmd.AddCommand(remoteCmd)

	keyInstallCmd.Flags().StringP("config", "c", config.DefaultFileName, "Path to the gitclerk configuration file")
	keyCmd.AddCommand(keyInstallCmd)
	rootCmd.AddCommand(keyCmd)

	doctorCmd.Flags().StringP("config", "c", config.DefaultFileName, "Path to the gitclerk configuration file")
	rootCmd.AddCommand(doctorCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
