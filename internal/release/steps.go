package release

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/kingrea/iconforge/internal/changelog"
	"github.com/kingrea/iconforge/internal/remote"
)

// ErrAlreadyPublished marks a publish rejected because the version exists in
// the registry.
var ErrAlreadyPublished = errors.New("release: version already published")

var alreadyPublishedMarkers = []string{
	"previously published",
	"cannot publish over",
	"EPUBLISHCONFLICT",
}

func (o *Orchestrator) verifyBranch(ctx context.Context, plan Plan) (Plan, error) {
	branch, err := o.deps.Git.CurrentBranch(ctx)
	if err != nil {
		return plan, fmt.Errorf("release: verify-branch: %w", err)
	}
	if branch != o.settings.Branch {
		return plan, fmt.Errorf("release: verify-branch: on %q, releases run from %q", branch, o.settings.Branch)
	}
	return plan, nil
}

func (o *Orchestrator) verifyRemoteSync(ctx context.Context, plan Plan) (Plan, error) {
	local, err := o.deps.Git.Head(ctx)
	if err != nil {
		return plan, fmt.Errorf("release: verify-remote-sync: %w", err)
	}
	var upstream string
	if o.deps.Remote != nil {
		upstream, err = o.deps.Remote.BranchHead(ctx, o.settings.Branch)
	} else {
		upstream, err = o.deps.Git.RemoteHead(ctx, o.settings.Remote, o.settings.Branch)
	}
	if err != nil {
		return plan, fmt.Errorf("release: verify-remote-sync: %w", err)
	}
	if upstream == local {
		return plan, nil
	}
	o.deps.Log.Warn("local HEAD %s differs from %s/%s at %s", short(local), o.settings.Remote, o.settings.Branch, short(upstream))
	ok, err := o.deps.Prompt.Confirm(ctx, fmt.Sprintf("%s/%s is not in sync with HEAD. Continue anyway?", o.settings.Remote, o.settings.Branch))
	if err != nil {
		return plan, fmt.Errorf("release: verify-remote-sync: %w", err)
	}
	if !ok {
		return plan, ErrAborted
	}
	return plan, nil
}

func (o *Orchestrator) selectVersion(ctx context.Context, plan Plan) (Plan, error) {
	packages, err := DiscoverPackages(plan.Root)
	if err != nil {
		return plan, fmt.Errorf("release: select-version: %w", err)
	}
	current, err := Normalize(packages[0].Version)
	if err != nil {
		return plan, fmt.Errorf("release: select-version: root manifest: %w", err)
	}
	plan.Packages = packages
	plan.CurrentVersion = current

	if plan.Requested != "" {
		target, err := Normalize(plan.Requested)
		if err != nil {
			return plan, err
		}
		plan.TargetVersion = target
		return plan, nil
	}

	options, err := BumpOptions(current)
	if err != nil {
		return plan, err
	}
	choice, err := o.deps.Prompt.Select(ctx, fmt.Sprintf("Current version is %s. Select release type", current), options)
	if err != nil {
		return plan, fmt.Errorf("release: select-version: %w", err)
	}
	if choice == customChoice {
		choice, err = o.deps.Prompt.Input(ctx, "Enter the version", current, func(v string) error {
			_, err := Normalize(v)
			return err
		})
		if err != nil {
			return plan, fmt.Errorf("release: select-version: %w", err)
		}
	}
	target, err := Normalize(choice)
	if err != nil {
		return plan, err
	}
	plan.TargetVersion = target
	return plan, nil
}

func (o *Orchestrator) confirmVersion(ctx context.Context, plan Plan) (Plan, error) {
	ok, err := o.deps.Prompt.Confirm(ctx, fmt.Sprintf("Release %s (from %s)?", plan.Tag(), plan.CurrentVersion))
	if err != nil {
		return plan, fmt.Errorf("release: confirm-version: %w", err)
	}
	if !ok {
		return plan, ErrAborted
	}
	return plan, nil
}

func (o *Orchestrator) rewriteVersions(_ context.Context, plan Plan) (Plan, error) {
	plan.Bumped = true
	for _, pkg := range plan.Versioned() {
		if err := WriteVersion(pkg, plan.TargetVersion); err != nil {
			return plan, fmt.Errorf("release: rewrite-package-versions: %w", err)
		}
		name := pkg.Name
		if name == "" {
			name = pkg.Dir
		}
		o.deps.Log.Info("%s: %s → %s", name, pkg.Version, plan.TargetVersion)
	}
	return plan, nil
}

func (o *Orchestrator) generateChangelog(ctx context.Context, plan Plan) (Plan, error) {
	path := o.settings.ChangelogPath
	previous, err := os.ReadFile(path)
	existed := err == nil
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return plan, fmt.Errorf("release: generate-changelog: %w", err)
	}

	lastTag, err := o.deps.Git.LastTag(ctx)
	if err != nil {
		return plan, fmt.Errorf("release: generate-changelog: %w", err)
	}
	commits, err := o.deps.Git.Log(ctx, lastTag)
	if err != nil {
		return plan, fmt.Errorf("release: generate-changelog: %w", err)
	}
	section := changelog.Render(changelog.Release{
		Version:     plan.TargetVersion,
		PreviousTag: lastTag,
		Date:        o.now(),
		Repository:  o.settings.Repository,
		Patch:       IsPatch(plan.CurrentVersion, plan.TargetVersion),
		Commits:     commits,
	})

	plan.Changelog = ChangelogBackup{Path: path, Existed: existed, Previous: previous, Written: true}
	if err := os.WriteFile(path, []byte(changelog.Prepend(string(previous), section)), 0o644); err != nil {
		return plan, fmt.Errorf("release: generate-changelog: %w", err)
	}
	o.deps.Log.Info("wrote %d commits since %s to %s", len(commits), orNone(lastTag), path)
	return plan, nil
}

func (o *Orchestrator) confirmChangelog(ctx context.Context, plan Plan) (Plan, error) {
	ok, err := o.deps.Prompt.Confirm(ctx, fmt.Sprintf("Changelog written to %s. Does it look good?", plan.Changelog.Path))
	if err != nil {
		return plan, fmt.Errorf("release: confirm-changelog: %w", err)
	}
	if !ok {
		return plan, ErrAborted
	}
	return plan, nil
}

func (o *Orchestrator) updateLockfile(ctx context.Context, plan Plan) (Plan, error) {
	if _, err := o.deps.Run.Run(ctx, plan.Root, o.settings.PackageManager, "install"); err != nil {
		return plan, fmt.Errorf("release: update-lockfile: %w", err)
	}
	return plan, nil
}

func (o *Orchestrator) commitIfDirty(ctx context.Context, plan Plan) (Plan, error) {
	dirty, err := o.deps.Git.IsDirty(ctx)
	if err != nil {
		return plan, fmt.Errorf("release: commit-if-dirty: %w", err)
	}
	if !dirty {
		o.deps.Log.Info("nothing to commit")
		return plan, nil
	}
	if err := o.deps.Git.CommitAll(ctx, "chore(release): "+plan.Tag()); err != nil {
		return plan, fmt.Errorf("release: commit-if-dirty: %w", err)
	}
	return plan, nil
}

func (o *Orchestrator) tagAndPush(ctx context.Context, plan Plan) (Plan, error) {
	tag := plan.Tag()
	if err := o.deps.Git.Tag(ctx, tag, tag); err != nil {
		return plan, fmt.Errorf("release: tag-and-push: %w", err)
	}
	if err := o.deps.Git.Push(ctx, o.settings.Remote, "refs/tags/"+tag); err != nil {
		return plan, fmt.Errorf("release: tag-and-push: %w", err)
	}
	if err := o.deps.Git.Push(ctx, o.settings.Remote, o.settings.Branch); err != nil {
		return plan, fmt.Errorf("release: tag-and-push: %w", err)
	}
	return plan, nil
}

func (o *Orchestrator) publishRemoteRelease(ctx context.Context, plan Plan) (Plan, error) {
	doc, err := os.ReadFile(plan.Changelog.Path)
	if err != nil {
		return plan, fmt.Errorf("release: publish-remote-release: %w", err)
	}
	notes, err := changelog.Section(string(doc), plan.TargetVersion)
	if err != nil {
		return plan, fmt.Errorf("release: publish-remote-release: %w", err)
	}
	plan.Notes = notes
	entry := remote.Release{
		Tag:        plan.Tag(),
		Name:       plan.Tag(),
		Body:       notes,
		Prerelease: IsPrerelease(plan.TargetVersion),
	}

	if plan.DryRun {
		o.deps.Log.Info("[dry run] create GitHub release %s", entry.Tag)
		return plan, nil
	}
	if o.settings.Token != "" && o.deps.Remote != nil {
		link, err := o.deps.Remote.CreateRelease(ctx, entry)
		if err == nil {
			o.deps.Log.Info("created release %s", link)
			return plan, nil
		}
		o.deps.Log.Warn("GitHub release failed, falling back to the browser: %v", err)
	}
	if o.settings.Repository == "" {
		o.deps.Log.Warn("no GitHub repository configured; create the %s release by hand", entry.Tag)
		return plan, nil
	}
	link := remote.NewReleaseURL(o.settings.Repository, entry)
	if o.deps.Browser != nil {
		if err := o.deps.Browser.Open(ctx, link); err != nil {
			o.deps.Log.Warn("could not open a browser: %v", err)
		}
	}
	o.deps.Log.Info("finish the release at %s", link)
	return plan, nil
}

func (o *Orchestrator) buildPackages(ctx context.Context, plan Plan) (Plan, error) {
	if _, err := o.deps.Run.Run(ctx, plan.Root, o.settings.PackageManager, "run", "build"); err != nil {
		return plan, fmt.Errorf("release: build-all-packages: %w", err)
	}
	return plan, nil
}

func (o *Orchestrator) publishPackages(ctx context.Context, plan Plan) (Plan, error) {
	for _, pkg := range plan.Packages {
		if !pkg.Publishable() {
			continue
		}
		_, err := o.deps.Mutate.Run(ctx, pkg.Dir, o.settings.PackageManager, o.publishArgs()...)
		if err == nil {
			plan.Published = append(plan.Published, pkg.Name)
			continue
		}
		if err := classifyPublishError(pkg, err); errors.Is(err, ErrAlreadyPublished) {
			o.deps.Log.Warn("%s@%s is already published, skipping", pkg.Name, plan.TargetVersion)
			plan.Skipped = append(plan.Skipped, pkg.Name)
			continue
		}
		return plan, fmt.Errorf("release: publish-all-packages: %s: %w", pkg.Name, err)
	}
	return plan, nil
}

func (o *Orchestrator) publishArgs() []string {
	args := []string{"publish", "--access", "public"}
	if o.settings.PackageManager == "pnpm" {
		args = append(args, "--no-git-checks")
	}
	return args
}

func classifyPublishError(pkg Package, err error) error {
	msg := err.Error()
	for _, marker := range alreadyPublishedMarkers {
		if strings.Contains(msg, marker) {
			return fmt.Errorf("%w: %s", ErrAlreadyPublished, pkg.Name)
		}
	}
	return err
}

func short(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

func orNone(tag string) string {
	if tag == "" {
		return "the first commit"
	}
	return tag
}
