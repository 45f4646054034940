package component

import (
	"fmt"
	"strings"
)

const (
	propTitle   = "title"
	propTitleID = "titleId"
	propsRest   = "props"
)

// Prop is one named prop a generated component accepts.
type Prop struct {
	Name     string
	Type     string
	Optional bool
}

// Schema describes a framework's component contract. The JavaScript
// generator destructures Props and the declaration generator types them, so
// both outputs come from the same description.
type Schema struct {
	Framework      Framework
	Props          []Prop
	PropsInterface string
	TypeImport     string
	ComponentType  string
}

// SchemaFor returns the component contract for a framework.
func SchemaFor(fw Framework) Schema {
	switch fw {
	case React:
		return Schema{
			Framework: React,
			Props: []Prop{
				{Name: propTitle, Type: "string", Optional: true},
				{Name: propTitleID, Type: "string", Optional: true},
			},
			PropsInterface: "IconProps",
			TypeImport:     `import * as React from "react";`,
			ComponentType:  `React.ForwardRefExoticComponent<Omit<React.SVGProps<SVGSVGElement>, "ref"> & IconProps & React.RefAttributes<SVGSVGElement>>`,
		}
	case Vue:
		return Schema{
			Framework:     Vue,
			TypeImport:    `import type { FunctionalComponent, HTMLAttributes, VNodeProps } from "vue";`,
			ComponentType: `FunctionalComponent<HTMLAttributes & VNodeProps>`,
		}
	default:
		return Schema{Framework: fw}
	}
}

// Destructure renders the parameter pattern for the schema props followed by
// a rest binding, e.g. "{ title, titleId, ...props }".
func (s Schema) Destructure(rest string) string {
	parts := make([]string, 0, len(s.Props)+1)
	for _, prop := range s.Props {
		parts = append(parts, prop.Name)
	}
	parts = append(parts, "..."+rest)
	return "{ " + strings.Join(parts, ", ") + " }"
}

// Declaration renders the .d.ts stub for a component.
func (s Schema) Declaration(name string) string {
	var b strings.Builder
	b.WriteString(s.TypeImport)
	b.WriteString("\n")
	if len(s.Props) > 0 && s.PropsInterface != "" {
		fmt.Fprintf(&b, "interface %s {\n", s.PropsInterface)
		for _, prop := range s.Props {
			optional := ""
			if prop.Optional {
				optional = "?"
			}
			fmt.Fprintf(&b, "  %s%s: %s;\n", prop.Name, optional, prop.Type)
		}
		b.WriteString("}\n")
	}
	fmt.Fprintf(&b, "declare const %s: %s;\n", name, s.ComponentType)
	fmt.Fprintf(&b, "export default %s;\n", name)
	return b.String()
}
