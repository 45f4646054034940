// Package release drives the release workflow: version selection, manifest
// and changelog edits, git tagging, the GitHub release and npm publishing.
// Every step is a function from Plan to Plan; one handler at the top decides
// whether the edits are rolled back.
package release

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kingrea/iconforge/internal/git"
	"github.com/kingrea/iconforge/internal/logbook"
	"github.com/kingrea/iconforge/internal/prompt"
	"github.com/kingrea/iconforge/internal/remote"
	"github.com/kingrea/iconforge/internal/shell"
)

// ErrAborted is returned when the user declines a confirmation. Edits are
// rolled back but the release is not a failure.
var ErrAborted = errors.New("release: aborted")

// Remote is the hosted repository used for the sync check and the release
// entry.
type Remote interface {
	BranchHead(ctx context.Context, branch string) (string, error)
	CreateRelease(ctx context.Context, r remote.Release) (string, error)
}

// Settings are the release preferences resolved from config and flags.
type Settings struct {
	Root           string
	Branch         string
	Remote         string
	Repository     string
	ChangelogPath  string
	PackageManager string
	Token          string
	DryRun         bool
}

// Deps are the collaborators a release talks to.
type Deps struct {
	// Git must route its write commands through a dry runner in dry runs.
	Git    *git.Client
	Remote Remote
	Prompt prompt.Prompter
	// Run executes commands that only touch the working tree (install, build).
	Run shell.Runner
	// Mutate executes commands with outside effects (publish).
	Mutate shell.Runner
	// Browser opens the release form when no release could be created; nil
	// only prints the link.
	Browser shell.Browser
	Log     *logbook.Logbook
}

// Step is one stage of the workflow.
type Step struct {
	ID   string
	Name string
	Run  func(context.Context, Plan) (Plan, error)
}

// Orchestrator runs the release steps in order.
type Orchestrator struct {
	settings Settings
	deps     Deps
	now      func() time.Time
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithClock overrides the changelog date source (tests).
func WithClock(clock func() time.Time) Option {
	return func(o *Orchestrator) {
		if clock != nil {
			o.now = clock
		}
	}
}

// New validates the collaborators and returns an orchestrator.
func New(settings Settings, deps Deps, opts ...Option) (*Orchestrator, error) {
	switch {
	case deps.Git == nil:
		return nil, fmt.Errorf("release: git client is required")
	case deps.Prompt == nil:
		return nil, fmt.Errorf("release: prompter is required")
	case deps.Run == nil:
		return nil, fmt.Errorf("release: command runner is required")
	}
	if deps.Mutate == nil {
		deps.Mutate = deps.Run
	}
	if settings.PackageManager == "" {
		settings.PackageManager = "npm"
	}
	o := &Orchestrator{settings: settings, deps: deps, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o, nil
}

// Steps returns the workflow in execution order.
func (o *Orchestrator) Steps() []Step {
	return []Step{
		{ID: "verify-branch", Name: "Verify release branch", Run: o.verifyBranch},
		{ID: "verify-remote-sync", Name: "Verify remote is in sync", Run: o.verifyRemoteSync},
		{ID: "select-version", Name: "Select version", Run: o.selectVersion},
		{ID: "confirm-version", Name: "Confirm version", Run: o.confirmVersion},
		{ID: "rewrite-package-versions", Name: "Rewrite package versions", Run: o.rewriteVersions},
		{ID: "generate-changelog", Name: "Generate changelog", Run: o.generateChangelog},
		{ID: "confirm-changelog", Name: "Confirm changelog", Run: o.confirmChangelog},
		{ID: "update-lockfile", Name: "Update lockfile", Run: o.updateLockfile},
		{ID: "commit-if-dirty", Name: "Commit release", Run: o.commitIfDirty},
		{ID: "tag-and-push", Name: "Tag and push", Run: o.tagAndPush},
		{ID: "publish-remote-release", Name: "Publish GitHub release", Run: o.publishRemoteRelease},
		{ID: "build-all-packages", Name: "Build packages", Run: o.buildPackages},
		{ID: "publish-all-packages", Name: "Publish packages", Run: o.publishPackages},
	}
}

// Release runs every step. requested may be empty to prompt for a version.
// On failure or abort the manifest and changelog edits are reverted; the
// returned Plan reflects the state reached.
func (o *Orchestrator) Release(ctx context.Context, requested string) (Plan, error) {
	plan := Plan{
		Root:      o.settings.Root,
		Requested: requested,
		DryRun:    o.settings.DryRun,
	}
	for _, step := range o.Steps() {
		if err := ctx.Err(); err != nil {
			return plan, o.fail(plan, fmt.Errorf("release: %s: %w", step.ID, err))
		}
		o.deps.Log.Info("▸ %s", step.Name)
		next, err := step.Run(ctx, plan)
		plan = next
		if err != nil {
			return plan, o.fail(plan, err)
		}
	}
	if plan.DryRun {
		o.deps.Log.Info("dry run of %s complete; review the edits with git diff", plan.Tag())
	} else {
		o.deps.Log.Info("released %s", plan.Tag())
	}
	return plan, nil
}

func (o *Orchestrator) fail(plan Plan, cause error) error {
	if errors.Is(cause, ErrAborted) || errors.Is(cause, prompt.ErrCancelled) {
		o.deps.Log.Warn("release aborted")
	} else {
		o.deps.Log.Error("%v", cause)
	}
	if !plan.NeedsRollback() {
		return cause
	}
	if err := o.rollback(plan); err != nil {
		o.deps.Log.Error("rollback incomplete: %v", err)
		return errors.Join(cause, err)
	}
	return cause
}

// rollback restores every manifest to its own pre-release version and the
// changelog to its previous contents.
func (o *Orchestrator) rollback(plan Plan) error {
	var errs []error
	if plan.Bumped {
		for _, pkg := range plan.Versioned() {
			if err := WriteVersion(pkg, pkg.Version); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if plan.Changelog.Written {
		backup := plan.Changelog
		var err error
		if backup.Existed {
			err = os.WriteFile(backup.Path, backup.Previous, 0o644)
		} else {
			err = os.Remove(backup.Path)
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, fmt.Errorf("release: restore changelog: %w", err))
		}
	}
	if len(errs) == 0 {
		o.deps.Log.Warn("rolled back version %s → %s", plan.TargetVersion, plan.CurrentVersion)
	}
	return errors.Join(errs...)
}
