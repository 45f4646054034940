// Package artifact writes generated source files beneath a package root.
package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// Artifact is one generated file. Path is relative to the store root.
type Artifact struct {
	Path   string
	Source string
}

// Store manages artifact IO rooted at one output directory.
type Store struct {
	root string
}

// NewStore builds a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{root: filepath.Clean(dir)}
}

// Root returns the directory artifacts are written under.
func (s *Store) Root() string {
	return s.root
}

// Path resolves an artifact to its on-disk location. Paths that would escape
// the root are rejected.
func (s *Store) Path(a Artifact) (string, error) {
	if a.Path == "" || !filepath.IsLocal(a.Path) {
		return "", fmt.Errorf("artifact: %q is not a path inside %s", a.Path, s.root)
	}
	return filepath.Join(s.root, a.Path), nil
}

// Reset removes the given subdirectories so a build starts from scratch.
func (s *Store) Reset(dirs ...string) error {
	for _, dir := range dirs {
		path, err := s.Path(Artifact{Path: dir})
		if err != nil {
			return err
		}
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("artifact: clear %s: %w", path, err)
		}
	}
	return nil
}

// Write persists a single artifact, creating parent directories as needed.
func (s *Store) Write(a Artifact) error {
	path, err := s.Path(a)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("artifact: ensure dir for %s: %w", a.Path, err)
	}
	if err := os.WriteFile(path, []byte(a.Source), 0o644); err != nil {
		return fmt.Errorf("artifact: write %s: %w", a.Path, err)
	}
	return nil
}

// WriteAll writes artifacts concurrently. Every artifact must target a
// distinct path; the first failure cancels the remaining writes.
func (s *Store) WriteAll(ctx context.Context, artifacts []Artifact) error {
	seen := make(map[string]struct{}, len(artifacts))
	for _, a := range artifacts {
		if _, dup := seen[a.Path]; dup {
			return fmt.Errorf("artifact: %s emitted twice", a.Path)
		}
		seen[a.Path] = struct{}{}
	}
	g, ctx := errgroup.WithContext(ctx)
	for _, a := range artifacts {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return s.Write(a)
		})
	}
	return g.Wait()
}
