package component

import (
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// ImportName is one named binding, optionally aliased.
type ImportName struct {
	Name  string
	Alias string
}

// Import is a dependency of a generated module.
type Import struct {
	From      string
	Namespace string
	Names     []ImportName
}

// Module is the format-independent form of a generated component: the
// compiled body plus what it imports and exports. ESM and CJS sources are
// both printed from it.
type Module struct {
	Imports []Import
	Body    string
	Export  string
}

// Print renders the module in the requested format.
func (m Module) Print(format Format) string {
	var b strings.Builder
	if format == CJS {
		b.WriteString("\"use strict\";\n")
	}
	for _, imp := range m.Imports {
		if format == CJS {
			b.WriteString(imp.require())
		} else {
			b.WriteString(imp.esm())
		}
	}
	b.WriteString(m.Body)
	if !strings.HasSuffix(m.Body, "\n") {
		b.WriteString("\n")
	}
	if format == CJS {
		fmt.Fprintf(&b, "module.exports = %s;\n", m.Export)
	} else {
		fmt.Fprintf(&b, "export default %s;\n", m.Export)
	}
	return b.String()
}

func (imp Import) esm() string {
	var b strings.Builder
	if imp.Namespace != "" {
		fmt.Fprintf(&b, "import * as %s from %s;\n", imp.Namespace, jsString(imp.From))
	}
	if len(imp.Names) > 0 {
		parts := make([]string, len(imp.Names))
		for i, n := range imp.Names {
			parts[i] = n.Name
			if n.Alias != "" && n.Alias != n.Name {
				parts[i] = n.Name + " as " + n.Alias
			}
		}
		fmt.Fprintf(&b, "import { %s } from %s;\n", strings.Join(parts, ", "), jsString(imp.From))
	}
	return b.String()
}

func (imp Import) require() string {
	var b strings.Builder
	if imp.Namespace != "" {
		fmt.Fprintf(&b, "const %s = require(%s);\n", imp.Namespace, jsString(imp.From))
	}
	if len(imp.Names) > 0 {
		parts := make([]string, len(imp.Names))
		for i, n := range imp.Names {
			parts[i] = n.Name
			if n.Alias != "" && n.Alias != n.Name {
				parts[i] = n.Name + ": " + n.Alias
			}
		}
		fmt.Fprintf(&b, "const { %s } = require(%s);\n", strings.Join(parts, ", "), jsString(imp.From))
	}
	return b.String()
}

// compile runs a generated body through esbuild targeting ES2022. JSX is
// lowered to React.createElement calls.
func compile(source, sourcefile string, loader api.Loader) (string, error) {
	result := api.Transform(source, api.TransformOptions{
		Loader:      loader,
		Target:      api.ES2022,
		JSX:         api.JSXTransform,
		JSXFactory:  "React.createElement",
		JSXFragment: "React.Fragment",
		Sourcefile:  sourcefile,
	})
	if len(result.Errors) > 0 {
		msg := result.Errors[0]
		if msg.Location != nil {
			return "", fmt.Errorf("compile %s:%d:%d: %s", sourcefile, msg.Location.Line, msg.Location.Column, msg.Text)
		}
		return "", fmt.Errorf("compile %s: %s", sourcefile, msg.Text)
	}
	return string(result.Code), nil
}
