package cli

import (
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kingrea/iconforge/internal/git"
	"github.com/kingrea/iconforge/internal/logbook"
	"github.com/kingrea/iconforge/internal/prompt"
	"github.com/kingrea/iconforge/internal/release"
	"github.com/kingrea/iconforge/internal/remote"
	"github.com/kingrea/iconforge/internal/shell"
)

// ExecuteRelease runs release with the process arguments.
func ExecuteRelease() int {
	ctx, stop := signalContext()
	defer stop()
	return execute(ctx, NewReleaseCommand(os.Stdin, os.Stdout, os.Stderr), os.Args[1:], os.Stderr)
}

// NewReleaseCommand returns the release command. Prompts read from stdin.
func NewReleaseCommand(stdin *os.File, stdout, stderr io.Writer) *cobra.Command {
	var (
		flags projectFlags
		dry   bool
	)
	cmd := &cobra.Command{
		Use:           "release [version]",
		Short:         "Bump, tag and publish the icon packages",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			log, err := openLog(cfg, "release", stderr)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			rel := cfg.Project.Release

			runner := shell.ExecRunner{}
			var mutate shell.Runner = runner
			var opener shell.Browser = shell.SystemBrowser{}
			if dry {
				dryRun := shell.DryRunner{Log: log}
				mutate, opener = dryRun, dryRun
				log.Info("dry run: git writes, publishing and the GitHub release are only logged")
			}
			gitClient := git.New(cfg.ProjectDir, runner, mutate)

			repository := resolveRepository(cmd, gitClient, rel.Repository, rel.Remote, log)
			var hosted release.Remote
			if repository != "" {
				client, err := remote.New(repository, cfg.Env.GitHubToken)
				if err != nil {
					return err
				}
				hosted = client
			}

			orchestrator, err := release.New(release.Settings{
				Root:           cfg.ProjectDir,
				Branch:         rel.Branch,
				Remote:         rel.Remote,
				Repository:     repository,
				ChangelogPath:  cfg.ChangelogPath(),
				PackageManager: rel.PackageManager,
				Token:          cfg.Env.GitHubToken,
				DryRun:         dry,
			}, release.Deps{
				Git:     gitClient,
				Remote:  hosted,
				Prompt:  prompt.NewTerminal(stdin, stdout),
				Run:     runner,
				Mutate:  mutate,
				Browser: opener,
				Log:     log,
			})
			if err != nil {
				return err
			}

			var requested string
			if len(args) == 1 {
				requested = args[0]
			}
			_, err = orchestrator.Release(ctx, requested)
			switch {
			case err == nil:
				return nil
			case errors.Is(err, release.ErrAborted), errors.Is(err, prompt.ErrCancelled):
				return nil
			default:
				return loggedError{err}
			}
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&dry, "dry", false, "log git, publish and GitHub side effects instead of running them")
	return cmd
}

// resolveRepository prefers the configured owner/name and falls back to the
// remote URL. An empty result disables the GitHub API.
func resolveRepository(cmd *cobra.Command, client *git.Client, configured, remoteName string, log *logbook.Logbook) string {
	if configured != "" {
		return configured
	}
	url, err := client.RemoteURL(cmd.Context(), remoteName)
	if err != nil {
		log.Warn("cannot read %s url: %v", remoteName, err)
		return ""
	}
	repository, err := remote.ParseRepository(url)
	if err != nil {
		log.Warn("%v", err)
		return ""
	}
	return repository
}
