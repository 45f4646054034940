package component

import (
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/kingrea/iconforge/internal/svg"
)

const reactExport = "ForwardRef"

// compileReact turns the SVG tree into a forwardRef component accepting the
// schema props. The JSX body is lowered by esbuild.
func compileReact(name string, root *svg.Node, sourcefile string) (Module, error) {
	schema := SchemaFor(React)
	fn := "Svg" + name

	var jsx strings.Builder
	writeReactElement(&jsx, root, true)
	source := fmt.Sprintf("const %s = (%s, ref) => %s;\nconst %s = forwardRef(%s);\n",
		fn, schema.Destructure(propsRest), jsx.String(), reactExport, fn)

	body, err := compile(source, sourcefile, api.LoaderJSX)
	if err != nil {
		return Module{}, err
	}
	return Module{
		Imports: []Import{
			{From: "react", Namespace: "React"},
			{From: "react", Names: []ImportName{{Name: "forwardRef"}}},
		},
		Body:   body,
		Export: reactExport,
	}, nil
}

func writeReactElement(b *strings.Builder, n *svg.Node, root bool) {
	b.WriteString("<")
	b.WriteString(n.Tag)
	for _, attr := range n.Attrs {
		if !svg.Portable(attr.Name) {
			continue
		}
		b.WriteString(" ")
		b.WriteString(reactAttrName(attr.Name))
		b.WriteString("={")
		if attr.Name == "style" {
			b.WriteString(styleObject(attr.Value))
		} else {
			b.WriteString(jsString(attr.Value))
		}
		b.WriteString("}")
	}
	if root {
		fmt.Fprintf(b, " ref={ref} aria-labelledby={%s} {...%s}", propTitleID, propsRest)
	}

	var children []*svg.Node
	for _, child := range n.Children {
		if !child.IsText() && !svg.Portable(child.Tag) {
			continue
		}
		// The title comes from the title prop instead.
		if root && child.Tag == "title" {
			continue
		}
		children = append(children, child)
	}
	if !root && len(children) == 0 {
		b.WriteString(" />")
		return
	}
	b.WriteString(">")
	if root {
		fmt.Fprintf(b, "{%s ? <title id={%s}>{%s}</title> : null}", propTitle, propTitleID, propTitle)
	}
	for _, child := range children {
		if child.IsText() {
			b.WriteString("{")
			b.WriteString(jsString(child.Text))
			b.WriteString("}")
			continue
		}
		writeReactElement(b, child, false)
	}
	b.WriteString("</")
	b.WriteString(n.Tag)
	b.WriteString(">")
}

// reactAttrName maps an SVG attribute to its React prop name.
func reactAttrName(name string) string {
	switch name {
	case "class":
		return "className"
	case "for":
		return "htmlFor"
	}
	if strings.HasPrefix(name, "aria-") || strings.HasPrefix(name, "data-") {
		return name
	}
	if prefix := svg.Prefix(name); prefix != "" {
		return prefix + upperFirst(camelCase(name[len(prefix)+1:]))
	}
	return camelCase(name)
}

// styleObject converts an inline style declaration list to an object literal.
func styleObject(value string) string {
	var pairs [][2]string
	for _, decl := range strings.Split(value, ";") {
		prop, val, ok := strings.Cut(decl, ":")
		prop = strings.TrimSpace(prop)
		val = strings.TrimSpace(val)
		if !ok || prop == "" {
			continue
		}
		key := prop
		switch {
		case strings.HasPrefix(prop, "--"):
		case strings.HasPrefix(prop, "-"):
			key = upperFirst(camelCase(strings.ToLower(prop[1:])))
		default:
			key = camelCase(strings.ToLower(prop))
		}
		pairs = append(pairs, [2]string{key, jsString(val)})
	}
	return objectLiteral(pairs)
}
