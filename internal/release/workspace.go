package release

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"gopkg.in/yaml.v3"
)

const (
	manifestName      = "package.json"
	pnpmWorkspaceFile = "pnpm-workspace.yaml"
)

// Package is one npm package touched by a release.
type Package struct {
	Name     string
	Dir      string
	Manifest string
	Private  bool
	// Version is the manifest version before the release started.
	Version string
}

// Publishable reports whether the package is sent to the registry.
func (p Package) Publishable() bool {
	return !p.Private
}

// ReadPackage loads the manifest in dir.
func ReadPackage(dir string) (Package, error) {
	path := filepath.Join(dir, manifestName)
	data, err := os.ReadFile(path)
	if err != nil {
		return Package{}, fmt.Errorf("release: read %s: %w", path, err)
	}
	if !gjson.ValidBytes(data) {
		return Package{}, fmt.Errorf("release: %s is not valid JSON", path)
	}
	doc := gjson.ParseBytes(data)
	return Package{
		Name:     doc.Get("name").String(),
		Dir:      dir,
		Manifest: path,
		Private:  doc.Get("private").Bool(),
		Version:  doc.Get("version").String(),
	}, nil
}

// DiscoverPackages returns the root package followed by every workspace
// package, sorted by directory. Workspaces come from the root manifest's
// "workspaces" field (array or {packages: [...]}) or from pnpm-workspace.yaml.
func DiscoverPackages(root string) ([]Package, error) {
	rootPkg, err := ReadPackage(root)
	if err != nil {
		return nil, err
	}
	patterns, err := workspacePatterns(root)
	if err != nil {
		return nil, err
	}
	dirs, err := expandPatterns(root, patterns)
	if err != nil {
		return nil, err
	}
	packages := []Package{rootPkg}
	for _, dir := range dirs {
		pkg, err := ReadPackage(dir)
		if err != nil {
			return nil, err
		}
		packages = append(packages, pkg)
	}
	return packages, nil
}

func workspacePatterns(root string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(root, manifestName))
	if err != nil {
		return nil, fmt.Errorf("release: read root manifest: %w", err)
	}
	field := gjson.GetBytes(data, "workspaces")
	if field.IsObject() {
		field = field.Get("packages")
	}
	var patterns []string
	for _, item := range field.Array() {
		patterns = append(patterns, item.String())
	}
	if len(patterns) > 0 {
		return patterns, nil
	}

	data, err = os.ReadFile(filepath.Join(root, pnpmWorkspaceFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("release: read %s: %w", pnpmWorkspaceFile, err)
	}
	var ws struct {
		Packages []string `yaml:"packages"`
	}
	if err := yaml.Unmarshal(data, &ws); err != nil {
		return nil, fmt.Errorf("release: parse %s: %w", pnpmWorkspaceFile, err)
	}
	return ws.Packages, nil
}

// expandPatterns resolves workspace globs, including "**", to package
// directories. Patterns prefixed with "!" exclude matches, and anything under
// node_modules is skipped.
func expandPatterns(root string, patterns []string) ([]string, error) {
	fsys := os.DirFS(root)
	include := map[string]bool{}
	var exclude []string
	for _, pattern := range patterns {
		pattern = cleanPattern(pattern)
		if negated, ok := strings.CutPrefix(pattern, "!"); ok {
			exclude = append(exclude, cleanPattern(negated))
			continue
		}
		if pattern == "" {
			continue
		}
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("release: workspace pattern %q: %w", pattern, err)
		}
		for _, match := range matches {
			if match == "." || inNodeModules(match) {
				continue
			}
			if info, err := fs.Stat(fsys, match+"/"+manifestName); err == nil && !info.IsDir() {
				include[match] = true
			}
		}
	}
	for _, pattern := range exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("release: workspace pattern %q: %w", "!"+pattern, doublestar.ErrBadPattern)
		}
		for match := range include {
			if ok, _ := doublestar.Match(pattern, match); ok {
				delete(include, match)
			}
		}
	}

	dirs := make([]string, 0, len(include))
	for match := range include {
		dirs = append(dirs, filepath.Join(root, filepath.FromSlash(match)))
	}
	sort.Strings(dirs)
	return dirs, nil
}

// cleanPattern trims a workspace pattern to the slash-separated, relative form
// io/fs globbing expects.
func cleanPattern(pattern string) string {
	pattern = strings.TrimSpace(pattern)
	negated := strings.HasPrefix(pattern, "!")
	pattern = strings.TrimPrefix(pattern, "!")
	pattern = strings.TrimSuffix(strings.TrimPrefix(pattern, "./"), "/")
	if negated {
		return "!" + pattern
	}
	return pattern
}

func inNodeModules(match string) bool {
	for _, segment := range strings.Split(match, "/") {
		if segment == "node_modules" {
			return true
		}
	}
	return false
}

// WriteVersion sets the manifest's version field, leaving every other byte of
// the file as it was. An empty version removes the field, which restores a
// manifest that had none.
func WriteVersion(pkg Package, version string) error {
	info, err := os.Stat(pkg.Manifest)
	if err != nil {
		return fmt.Errorf("release: stat %s: %w", pkg.Manifest, err)
	}
	data, err := os.ReadFile(pkg.Manifest)
	if err != nil {
		return fmt.Errorf("release: read %s: %w", pkg.Manifest, err)
	}
	var updated []byte
	if version == "" {
		if !gjson.GetBytes(data, "version").Exists() {
			return nil
		}
		updated, err = sjson.DeleteBytes(data, "version")
	} else {
		updated, err = sjson.SetBytes(data, "version", version)
	}
	if err != nil {
		return fmt.Errorf("release: set version in %s: %w", pkg.Manifest, err)
	}
	if err := os.WriteFile(pkg.Manifest, updated, info.Mode().Perm()); err != nil {
		return fmt.Errorf("release: write %s: %w", pkg.Manifest, err)
	}
	return nil
}
