// Package component generates React and Vue icon components from SVG assets
// in ESM and CommonJS module formats, with matching type declarations.
package component

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kingrea/iconforge/internal/artifact"
	"github.com/kingrea/iconforge/internal/icon"
	"github.com/kingrea/iconforge/internal/svg"
)

// Compile parses an asset and builds the format-independent module for a
// framework.
func Compile(asset icon.Asset, fw Framework) (Module, error) {
	root, err := svg.Parse(asset.Markup)
	if err != nil {
		return Module{}, fmt.Errorf("component: %s: %w", asset.FileName, err)
	}
	var mod Module
	switch fw {
	case React:
		mod, err = compileReact(asset.ComponentName, root, asset.FileName)
	case Vue:
		mod, err = compileVue(root, asset.FileName)
	default:
		return Module{}, fmt.Errorf("component: unknown framework %q", fw)
	}
	if err != nil {
		return Module{}, fmt.Errorf("component: %s: %w", asset.FileName, err)
	}
	return mod, nil
}

// Emit produces the component source and type declaration of one asset for
// one target.
func Emit(asset icon.Asset, target Target) ([]artifact.Artifact, error) {
	mod, err := Compile(asset, target.Framework)
	if err != nil {
		return nil, err
	}
	return componentArtifacts(asset.ComponentName, mod, target), nil
}

func componentArtifacts(name string, mod Module, target Target) []artifact.Artifact {
	dir := string(target.Format)
	return []artifact.Artifact{
		{Path: filepath.Join(dir, name+".js"), Source: mod.Print(target.Format)},
		{Path: filepath.Join(dir, name+".d.ts"), Source: SchemaFor(target.Framework).Declaration(name)},
	}
}

// Index produces the barrel source and declaration re-exporting every
// component of a target. Names are sorted for stable output.
func Index(names []string, target Target) []artifact.Artifact {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)

	var src, dts strings.Builder
	if target.Format == CJS {
		src.WriteString("\"use strict\";\nmodule.exports = {\n")
		for _, name := range sorted {
			fmt.Fprintf(&src, "  %s: require(%s),\n", name, jsString("./"+name+".js"))
		}
		src.WriteString("};\n")
	} else {
		for _, name := range sorted {
			fmt.Fprintf(&src, "export { default as %s } from %s;\n", name, jsString("./"+name+".js"))
		}
	}
	for _, name := range sorted {
		fmt.Fprintf(&dts, "export { default as %s } from %s;\n", name, jsString("./"+name))
	}

	dir := string(target.Format)
	return []artifact.Artifact{
		{Path: filepath.Join(dir, "index.js"), Source: src.String()},
		{Path: filepath.Join(dir, "index.d.ts"), Source: dts.String()},
	}
}

// commonJSManifest marks the cjs directory as CommonJS for Node, which would
// otherwise follow a "type": "module" package root.
func commonJSManifest() artifact.Artifact {
	return artifact.Artifact{
		Path:   filepath.Join(string(CJS), "package.json"),
		Source: "{\n  \"type\": \"commonjs\"\n}\n",
	}
}
