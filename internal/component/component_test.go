package component

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kingrea/iconforge/internal/artifact"
	"github.com/kingrea/iconforge/internal/icon"
	"github.com/kingrea/iconforge/internal/svg"
)

const arrowSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24" stroke-width="1.5" class="icon">
  <title>Arrow</title>
  <path stroke-linecap="round" d="M5 12h14"/>
</svg>`

const squareSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="24" height="24" viewBox="0 0 24 24" fill="none"><path d="M0 0h24v24H0z"/></svg>`

func arrowAsset() icon.Asset {
	return icon.Asset{FileName: "arrow-left.svg", ComponentName: "ArrowLeft", Markup: arrowSVG}
}

func squareAsset() icon.Asset {
	return icon.Asset{FileName: "square.svg", ComponentName: "Square", Markup: squareSVG}
}

func TestParseFramework(t *testing.T) {
	for _, in := range []string{"react", "Vue", " react "} {
		if _, err := ParseFramework(in); err != nil {
			t.Errorf("ParseFramework(%q): %v", in, err)
		}
	}
	if _, err := ParseFramework("svelte"); err == nil {
		t.Fatal("expected error for unknown framework")
	}
	if got := len(AllTargets()); got != 4 {
		t.Fatalf("AllTargets() = %d combinations, want 4", got)
	}
}

func TestReactComponentForwardsRefAndTitle(t *testing.T) {
	mod, err := Compile(arrowAsset(), React)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	out := mod.Print(ESM)
	for _, want := range []string{
		"import * as React from \"react\";\nimport { forwardRef } from \"react\";\n",
		SchemaFor(React).Destructure("props") + ", ref) =>",
		"forwardRef(SvgArrowLeft)",
		`React.createElement("title", { id: titleId }, title)`,
		`"aria-labelledby"`,
		"...props",
		`strokeWidth: "1.5"`,
		`className: "icon"`,
		`strokeLinecap: "round"`,
		"export default ForwardRef;\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("react output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, `"Arrow"`) {
		t.Fatalf("source <title> should be replaced by the title prop:\n%s", out)
	}
	if strings.Contains(out, "<svg") {
		t.Fatalf("JSX was not compiled:\n%s", out)
	}
}

func TestModuleFormatsExportSameValue(t *testing.T) {
	for _, fw := range Frameworks() {
		asset := arrowAsset()
		mod, err := Compile(asset, fw)
		if err != nil {
			t.Fatalf("Compile(%s): %v", fw, err)
		}
		esm := mod.Print(ESM)
		cjs := mod.Print(CJS)
		if !strings.HasSuffix(esm, "export default "+mod.Export+";\n") {
			t.Fatalf("%s esm does not default-export %s:\n%s", fw, mod.Export, esm)
		}
		if !strings.HasSuffix(cjs, "module.exports = "+mod.Export+";\n") {
			t.Fatalf("%s cjs does not export %s:\n%s", fw, mod.Export, cjs)
		}
		if !strings.Contains(esm, mod.Body) || !strings.Contains(cjs, mod.Body) {
			t.Fatalf("%s formats do not share the compiled body", fw)
		}
		if strings.Contains(cjs, "import ") || strings.Contains(cjs, "export ") {
			t.Fatalf("%s cjs contains module syntax:\n%s", fw, cjs)
		}
		if strings.Contains(esm, "require(") {
			t.Fatalf("%s esm contains require:\n%s", fw, esm)
		}
	}
}

func TestVueForcesEmDimensionsOnly(t *testing.T) {
	root, err := svg.Parse(squareSVG)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	sized := forceEmSize(root)
	want := []svg.Attr{
		{Name: "xmlns", Value: "http://www.w3.org/2000/svg"},
		{Name: "width", Value: "1em"},
		{Name: "height", Value: "1em"},
		{Name: "viewBox", Value: "0 0 24 24"},
		{Name: "fill", Value: "none"},
	}
	if len(sized.Attrs) != len(want) {
		t.Fatalf("attrs = %+v", sized.Attrs)
	}
	for i := range want {
		if sized.Attrs[i] != want[i] {
			t.Fatalf("attr %d = %+v, want %+v", i, sized.Attrs[i], want[i])
		}
	}
	if v, _ := root.Attr("width"); v != "24" {
		t.Fatalf("forceEmSize mutated the source tree")
	}
}

func TestVueForcesEmDimensionsWhenMissing(t *testing.T) {
	root, err := svg.Parse(`<svg viewBox="0 0 16 16"/>`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	sized := forceEmSize(root)
	if w, _ := sized.Attr("width"); w != "1em" {
		t.Fatalf("width = %q", w)
	}
	if h, _ := sized.Attr("height"); h != "1em" {
		t.Fatalf("height = %q", h)
	}
}

func TestVueRenderFunction(t *testing.T) {
	mod, err := Compile(squareAsset(), Vue)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	esm := mod.Print(ESM)
	for _, want := range []string{
		`import { createElementVNode as _createElementVNode, openBlock as _openBlock, createElementBlock as _createElementBlock } from "vue";`,
		"function render(_ctx, _cache)",
		`width: "1em"`,
		`height: "1em"`,
		`viewBox: "0 0 24 24"`,
		`fill: "none"`,
		`_createElementBlock("svg", _hoisted_1, _hoisted_2)`,
		`_createElementVNode("path", { d: "M0 0h24v24H0z" }, null, -1)`,
		"export default render;\n",
	} {
		if !strings.Contains(esm, want) {
			t.Fatalf("vue output missing %q:\n%s", want, esm)
		}
	}
	if strings.Contains(esm, `width: "24"`) || strings.Contains(esm, `height: "24"`) {
		t.Fatalf("original dimensions survived:\n%s", esm)
	}
	cjs := mod.Print(CJS)
	if !strings.Contains(cjs, `const { createElementVNode: _createElementVNode, openBlock: _openBlock, createElementBlock: _createElementBlock } = require("vue");`) {
		t.Fatalf("cjs import not destructured from require:\n%s", cjs)
	}
}

func TestVueTextChildren(t *testing.T) {
	asset := icon.Asset{
		FileName:      "label.svg",
		ComponentName: "Label",
		Markup:        `<svg viewBox="0 0 10 10"><text x="1">Hi</text><g>a<path d="M0"/></g></svg>`,
	}
	mod, err := Compile(asset, Vue)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !strings.Contains(mod.Body, `"Hi"`) {
		t.Fatalf("text content missing:\n%s", mod.Body)
	}
	if !strings.Contains(mod.Body, `_createTextVNode("a")`) {
		t.Fatalf("mixed text should use createTextVNode:\n%s", mod.Body)
	}
	if !strings.Contains(mod.Print(ESM), "createTextVNode as _createTextVNode") {
		t.Fatalf("createTextVNode not imported")
	}
}

func TestCompileDropsEditorMetadata(t *testing.T) {
	asset := icon.Asset{
		FileName:      "drawn.svg",
		ComponentName: "Drawn",
		Markup:        `<svg xmlns:sodipodi="http://sodipodi" viewBox="0 0 1 1"><sodipodi:namedview id="v"/><path sodipodi:nodetypes="cc" d="M0 0"/></svg>`,
	}
	for _, fw := range Frameworks() {
		mod, err := Compile(asset, fw)
		if err != nil {
			t.Fatalf("Compile(%s): %v", fw, err)
		}
		if strings.Contains(mod.Body, "sodipodi") {
			t.Fatalf("%s output kept editor metadata:\n%s", fw, mod.Body)
		}
	}
}

func TestCompileRejectsMalformedMarkup(t *testing.T) {
	asset := icon.Asset{FileName: "broken.svg", ComponentName: "Broken", Markup: `<svg><path></svg>`}
	for _, fw := range Frameworks() {
		_, err := Compile(asset, fw)
		if err == nil {
			t.Fatalf("expected %s compile error", fw)
		}
		if !strings.Contains(err.Error(), "broken.svg") {
			t.Fatalf("error should name the file: %v", err)
		}
	}
}

func TestDeclarationsFollowSchema(t *testing.T) {
	react := SchemaFor(React).Declaration("ArrowLeft")
	for _, want := range []string{
		"import * as React from \"react\";\n",
		"interface IconProps {\n  title?: string;\n  titleId?: string;\n}\n",
		"declare const ArrowLeft: React.ForwardRefExoticComponent<",
		"React.RefAttributes<SVGSVGElement>",
		"export default ArrowLeft;\n",
	} {
		if !strings.Contains(react, want) {
			t.Fatalf("react declaration missing %q:\n%s", want, react)
		}
	}
	vue := SchemaFor(Vue).Declaration("Square")
	if !strings.Contains(vue, "declare const Square: FunctionalComponent<HTMLAttributes & VNodeProps>;") {
		t.Fatalf("vue declaration:\n%s", vue)
	}
	if strings.Contains(vue, "interface") {
		t.Fatalf("vue declaration should not declare props:\n%s", vue)
	}
}

func TestEmitPaths(t *testing.T) {
	artifacts, err := Emit(arrowAsset(), Target{Framework: React, Format: CJS})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if len(artifacts) != 2 {
		t.Fatalf("len(artifacts) = %d", len(artifacts))
	}
	if artifacts[0].Path != filepath.Join("cjs", "ArrowLeft.js") || artifacts[1].Path != filepath.Join("cjs", "ArrowLeft.d.ts") {
		t.Fatalf("unexpected paths: %s, %s", artifacts[0].Path, artifacts[1].Path)
	}
}

func TestIndexListsEveryComponent(t *testing.T) {
	names := []string{"Bell", "ArrowLeft"}
	esm := Index(names, Target{Framework: Vue, Format: ESM})
	wantESM := "export { default as ArrowLeft } from \"./ArrowLeft.js\";\nexport { default as Bell } from \"./Bell.js\";\n"
	if esm[0].Source != wantESM {
		t.Fatalf("esm index = %q", esm[0].Source)
	}
	if esm[1].Path != filepath.Join("esm", "index.d.ts") || !strings.Contains(esm[1].Source, `export { default as Bell } from "./Bell";`) {
		t.Fatalf("esm index declaration = %+v", esm[1])
	}
	cjs := Index(names, Target{Framework: Vue, Format: CJS})
	for _, want := range []string{"module.exports = {", `  ArrowLeft: require("./ArrowLeft.js"),`, `  Bell: require("./Bell.js"),`} {
		if !strings.Contains(cjs[0].Source, want) {
			t.Fatalf("cjs index missing %q:\n%s", want, cjs[0].Source)
		}
	}
}

func TestReactAttrName(t *testing.T) {
	cases := map[string]string{
		"class":           "className",
		"stroke-width":    "strokeWidth",
		"clip-path":       "clipPath",
		"xlink:href":      "xlinkHref",
		"xmlns:xlink":     "xmlnsXlink",
		"xml:space":       "xmlSpace",
		"aria-hidden":     "aria-hidden",
		"data-slot":       "data-slot",
		"viewBox":         "viewBox",
		"fill-rule":       "fillRule",
		"stroke-linejoin": "strokeLinejoin",
	}
	for in, want := range cases {
		if got := reactAttrName(in); got != want {
			t.Errorf("reactAttrName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStyleObject(t *testing.T) {
	got := styleObject("fill: red; stroke-width:2; --accent: blue; -webkit-transform: none;;")
	want := `{ fill: "red", strokeWidth: "2", "--accent": "blue", WebkitTransform: "none" }`
	if got != want {
		t.Fatalf("styleObject = %s, want %s", got, want)
	}
}

func TestBuilderWritesBothFormats(t *testing.T) {
	root := t.TempDir()
	stale := filepath.Join(root, "esm", "Removed.js")
	if err := os.MkdirAll(filepath.Dir(stale), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(stale, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	builder := NewBuilder(artifact.NewStore(root), nil)
	summary, err := builder.Build(context.Background(), []icon.Asset{arrowAsset(), squareAsset()}, React)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if summary.Components != 2 || summary.Files != 13 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	for _, rel := range []string{
		"esm/ArrowLeft.js", "esm/ArrowLeft.d.ts", "esm/Square.js", "esm/index.js", "esm/index.d.ts",
		"cjs/ArrowLeft.js", "cjs/Square.d.ts", "cjs/index.js", "cjs/index.d.ts", "cjs/package.json",
	} {
		if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel))); err != nil {
			t.Fatalf("missing %s: %v", rel, err)
		}
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("stale output survived rebuild")
	}
}

func TestBuilderAbortsBatchOnMalformedIcon(t *testing.T) {
	root := t.TempDir()
	builder := NewBuilder(artifact.NewStore(root), nil)
	broken := icon.Asset{FileName: "broken.svg", ComponentName: "Broken", Markup: "<svg>"}
	if _, err := builder.Build(context.Background(), []icon.Asset{arrowAsset(), broken}, Vue); err == nil {
		t.Fatal("expected build error")
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("nothing should be written when a compile fails, found %d entries", len(entries))
	}
}
