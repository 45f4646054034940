package component

import (
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/kingrea/iconforge/internal/svg"
)

const (
	vueExport = "render"
	emSize    = "1em"
	// hoistedFlag marks a vnode as static for the Vue patcher.
	hoistedFlag = "-1"
)

// vueHelpers is the import order of runtime helpers.
var vueHelpers = []string{"createElementVNode", "createTextVNode", "openBlock", "createElementBlock"}

// forceEmSize sets the root width and height to 1em, leaving every other
// attribute untouched.
func forceEmSize(root *svg.Node) *svg.Node {
	sized := root.Clone()
	sized.SetAttr("width", emSize)
	sized.SetAttr("height", emSize)
	return sized
}

type vueRenderer struct {
	used    map[string]bool
	hoisted []string
}

// compileVue turns the SVG tree into a Vue render function with static nodes
// hoisted out of the render call.
func compileVue(root *svg.Node, sourcefile string) (Module, error) {
	r := &vueRenderer{used: map[string]bool{}}
	sized := forceEmSize(root)

	rootProps := r.hoist(vueProps(sized))
	call := fmt.Sprintf("%s(%s, %s", r.helper("createElementBlock"), jsString(sized.Tag), rootProps)
	if children := r.children(sized); children != "null" {
		if strings.HasPrefix(children, "[") {
			children = r.hoist(children)
		}
		call += ", " + children
	}
	call += ")"

	var source strings.Builder
	for i, expr := range r.hoisted {
		fmt.Fprintf(&source, "const _hoisted_%d = %s;\n", i+1, expr)
	}
	fmt.Fprintf(&source, "function %s(_ctx, _cache) {\n  return (%s(), %s);\n}\n", vueExport, r.helper("openBlock"), call)

	body, err := compile(source.String(), sourcefile, api.LoaderJS)
	if err != nil {
		return Module{}, err
	}
	var names []ImportName
	for _, helper := range vueHelpers {
		if r.used[helper] {
			names = append(names, ImportName{Name: helper, Alias: "_" + helper})
		}
	}
	return Module{
		Imports: []Import{{From: "vue", Names: names}},
		Body:    body,
		Export:  vueExport,
	}, nil
}

func (r *vueRenderer) helper(name string) string {
	r.used[name] = true
	return "_" + name
}

func (r *vueRenderer) hoist(expr string) string {
	r.hoisted = append(r.hoisted, expr)
	return fmt.Sprintf("_hoisted_%d", len(r.hoisted))
}

func (r *vueRenderer) vnode(n *svg.Node) string {
	props := vueProps(n)
	if props == "{}" {
		props = "null"
	}
	return fmt.Sprintf("/* @__PURE__ */ %s(%s, %s, %s, %s)",
		r.helper("createElementVNode"), jsString(n.Tag), props, r.children(n), hoistedFlag)
}

// children renders the children argument: null, a string for text-only
// content, or an array of vnodes.
func (r *vueRenderer) children(n *svg.Node) string {
	var kids []*svg.Node
	textOnly := true
	for _, child := range n.Children {
		if !child.IsText() && !svg.Portable(child.Tag) {
			continue
		}
		if !child.IsText() {
			textOnly = false
		}
		kids = append(kids, child)
	}
	if len(kids) == 0 {
		return "null"
	}
	if textOnly {
		texts := make([]string, len(kids))
		for i, kid := range kids {
			texts[i] = kid.Text
		}
		return jsString(strings.Join(texts, " "))
	}
	parts := make([]string, len(kids))
	for i, kid := range kids {
		if kid.IsText() {
			parts[i] = fmt.Sprintf("%s(%s)", r.helper("createTextVNode"), jsString(kid.Text))
			continue
		}
		parts[i] = r.vnode(kid)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func vueProps(n *svg.Node) string {
	var pairs [][2]string
	for _, attr := range n.Attrs {
		if !svg.Portable(attr.Name) {
			continue
		}
		pairs = append(pairs, [2]string{attr.Name, jsString(attr.Value)})
	}
	return objectLiteral(pairs)
}
