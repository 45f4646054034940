// Package icon reads SVG sources into Asset records.
package icon

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Asset is one SVG source file and its derived component name.
type Asset struct {
	FileName      string
	ComponentName string
	Markup        string
}

// CollisionError reports two source files that normalize to one component name.
type CollisionError struct {
	Name   string
	First  string
	Second string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("icon: %s and %s both map to component %s", e.First, e.Second, e.Name)
}

// Load reads every .svg file directly inside dir. Hidden files, directories
// and other extensions are ignored. Reads run concurrently; the result keeps
// directory listing order.
func Load(ctx context.Context, dir string) ([]Asset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("icon: read %s: %w", dir, err)
	}
	var assets []Asset
	seen := map[string]string{}
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() || strings.HasPrefix(name, ".") {
			continue
		}
		if !strings.EqualFold(filepath.Ext(name), ".svg") {
			continue
		}
		component := ComponentName(name)
		if component == "" {
			return nil, fmt.Errorf("icon: cannot derive a component name from %s", name)
		}
		if prior, ok := seen[component]; ok {
			return nil, &CollisionError{Name: component, First: prior, Second: name}
		}
		seen[component] = name
		assets = append(assets, Asset{FileName: name, ComponentName: component})
	}

	g, ctx := errgroup.WithContext(ctx)
	for i := range assets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(dir, assets[i].FileName)
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("icon: read %s: %w", path, err)
			}
			assets[i].Markup = string(data)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return assets, nil
}

// Names returns the component names of assets in order.
func Names(assets []Asset) []string {
	names := make([]string, len(assets))
	for i, asset := range assets {
		names[i] = asset.ComponentName
	}
	return names
}
