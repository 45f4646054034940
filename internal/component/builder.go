package component

import (
	"context"
	"fmt"

	"github.com/kingrea/iconforge/internal/artifact"
	"github.com/kingrea/iconforge/internal/icon"
	"github.com/kingrea/iconforge/internal/logbook"
)

// Summary reports what a build produced.
type Summary struct {
	Framework  Framework
	Components int
	Files      int
}

// Builder emits every asset for both formats of a framework into one package
// directory.
type Builder struct {
	store *artifact.Store
	log   *logbook.Logbook
}

// NewBuilder wires a builder to its output store. log may be nil.
func NewBuilder(store *artifact.Store, log *logbook.Logbook) *Builder {
	return &Builder{store: store, log: log}
}

// Build compiles every asset once, prints it in each format, and writes all
// artifacts concurrently after clearing the previous output. Any compile
// failure aborts the whole batch before anything is written.
func (b *Builder) Build(ctx context.Context, assets []icon.Asset, fw Framework) (Summary, error) {
	if b.store == nil {
		return Summary{}, fmt.Errorf("component: builder has no output store")
	}
	modules := make([]Module, len(assets))
	for i, asset := range assets {
		mod, err := Compile(asset, fw)
		if err != nil {
			return Summary{}, err
		}
		modules[i] = mod
	}

	names := icon.Names(assets)
	var out []artifact.Artifact
	var dirs []string
	for _, target := range Targets(fw) {
		dirs = append(dirs, string(target.Format))
		for i, asset := range assets {
			out = append(out, componentArtifacts(asset.ComponentName, modules[i], target)...)
		}
		out = append(out, Index(names, target)...)
		if target.Format == CJS {
			out = append(out, commonJSManifest())
		}
	}

	if err := b.store.Reset(dirs...); err != nil {
		return Summary{}, err
	}
	if err := b.store.WriteAll(ctx, out); err != nil {
		return Summary{}, err
	}
	b.log.Info("%s: wrote %d components (%d files) to %s", fw, len(assets), len(out), b.store.Root())
	return Summary{Framework: fw, Components: len(assets), Files: len(out)}, nil
}
