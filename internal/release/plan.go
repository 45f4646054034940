package release

// ChangelogBackup remembers the changelog as it was before the release so
// it can be restored.
type ChangelogBackup struct {
	Path     string
	Existed  bool
	Previous []byte
	Written  bool
}

// Plan is the state threaded through every release step. Steps receive a
// copy and return the updated value; nothing else carries release state.
type Plan struct {
	Root           string
	Requested      string
	DryRun         bool
	CurrentVersion string
	TargetVersion  string
	Packages       []Package
	// Bumped is set once any manifest may have been rewritten.
	Bumped    bool
	Changelog ChangelogBackup
	Notes     string
	Published []string
	Skipped   []string
}

// Tag is the git tag of the target version.
func (p Plan) Tag() string {
	return "v" + p.TargetVersion
}

// NeedsRollback reports whether the working tree holds edits made by this
// release.
func (p Plan) NeedsRollback() bool {
	return p.Bumped || p.Changelog.Written
}

// Versioned returns the packages whose manifests carry the release version:
// the root package and every non-private workspace package.
func (p Plan) Versioned() []Package {
	var out []Package
	for i, pkg := range p.Packages {
		if i == 0 || !pkg.Private {
			out = append(out, pkg)
		}
	}
	return out
}
