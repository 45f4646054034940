package svg

import (
	"strings"
	"testing"
)

func TestParseBuildsTree(t *testing.T) {
	markup := `<?xml version="1.0" encoding="UTF-8"?>
<!-- generator -->
<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 24 24">
  <title>Arrow</title>
  <g stroke-width="2">
    <path d="M5 12h14"/>
    <use xlink:href="#a"/>
  </g>
  <text>A &amp; B</text>
</svg>`
	root, err := Parse(markup)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if root.Tag != "svg" {
		t.Fatalf("root tag = %s", root.Tag)
	}
	if v, ok := root.Attr("xmlns:xlink"); !ok || !strings.Contains(v, "xlink") {
		t.Fatalf("xmlns:xlink not kept: %v", root.Attrs)
	}
	if len(root.Children) != 3 {
		t.Fatalf("root children = %d, want 3", len(root.Children))
	}
	title := root.Children[0]
	if title.Tag != "title" || len(title.Children) != 1 || title.Children[0].Text != "Arrow" {
		t.Fatalf("unexpected title node: %+v", title)
	}
	use := root.Children[1].Children[1]
	if href, ok := use.Attr("xlink:href"); !ok || href != "#a" {
		t.Fatalf("xlink:href not kept as written: %+v", use.Attrs)
	}
	text := root.Children[2].Children[0]
	if !text.IsText() || text.Text != "A & B" {
		t.Fatalf("text node = %+v", text)
	}
}

func TestParseRejectsMalformedMarkup(t *testing.T) {
	cases := map[string]string{
		"unclosed":    `<svg><path d="M0 0"></svg>`,
		"not svg":     `<div></div>`,
		"empty":       ``,
		"truncated":   `<svg viewBox="0 0 24 24"`,
		"two roots":   `<svg></svg><svg></svg>`,
		"stray end":   `</svg>`,
		"open at end": `<svg><g>`,
	}
	for name, markup := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse(markup); err == nil {
				t.Fatalf("expected error for %q", markup)
			}
		})
	}
}

func TestSetAttrReplacesInPlace(t *testing.T) {
	root, err := Parse(`<svg width="24" viewBox="0 0 24 24" height="24"/>`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	root.SetAttr("width", "1em")
	root.SetAttr("fill", "none")
	want := []Attr{{"width", "1em"}, {"viewBox", "0 0 24 24"}, {"height", "24"}, {"fill", "none"}}
	if len(root.Attrs) != len(want) {
		t.Fatalf("attrs = %+v", root.Attrs)
	}
	for i := range want {
		if root.Attrs[i] != want[i] {
			t.Fatalf("attr %d = %+v, want %+v", i, root.Attrs[i], want[i])
		}
	}
}

func TestCloneIsDeep(t *testing.T) {
	root, err := Parse(`<svg><path d="a"/></svg>`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	copyRoot := root.Clone()
	copyRoot.Children[0].SetAttr("d", "b")
	if v, _ := root.Children[0].Attr("d"); v != "a" {
		t.Fatalf("clone shares children with original")
	}
}

func TestPortable(t *testing.T) {
	cases := map[string]bool{
		"d":                true,
		"xlink:href":       true,
		"xml:space":        true,
		"xmlns:xlink":      true,
		"xmlns:sodipodi":   false,
		"sodipodi:docname": false,
		"inkscape:label":   false,
	}
	for name, want := range cases {
		if got := Portable(name); got != want {
			t.Errorf("Portable(%q) = %v, want %v", name, got, want)
		}
	}
}
