// Package svg parses SVG markup into a small element tree that code
// generators walk. Namespace prefixes are kept as written ("xlink:href").
package svg

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Attr is one attribute in source order.
type Attr struct {
	Name  string
	Value string
}

// Node is an element, or a text run when Tag is empty.
type Node struct {
	Tag      string
	Attrs    []Attr
	Children []*Node
	Text     string
}

// IsText reports whether the node is a text run.
func (n *Node) IsText() bool {
	return n.Tag == ""
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	for _, attr := range n.Attrs {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// SetAttr replaces the named attribute in place, or appends it.
func (n *Node) SetAttr(name, value string) {
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
}

// Clone returns a deep copy.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{Tag: n.Tag, Text: n.Text}
	out.Attrs = append([]Attr(nil), n.Attrs...)
	for _, child := range n.Children {
		out.Children = append(out.Children, child.Clone())
	}
	return out
}

// Parse reads markup and returns the root <svg> element. Comments,
// processing instructions and doctype directives are dropped; whitespace-only
// text is dropped.
func Parse(markup string) (*Node, error) {
	dec := xml.NewDecoder(strings.NewReader(markup))
	var stack []*Node
	var root *Node
	for {
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("svg: parse: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			node := &Node{Tag: qualified(t.Name)}
			for _, attr := range t.Attr {
				node.Attrs = append(node.Attrs, Attr{Name: qualified(attr.Name), Value: attr.Value})
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("svg: parse: multiple root elements")
				}
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			}
			stack = append(stack, node)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("svg: parse: unexpected </%s>", qualified(t.Name))
			}
			open := stack[len(stack)-1]
			if name := qualified(t.Name); name != open.Tag {
				return nil, fmt.Errorf("svg: parse: </%s> closes <%s>", name, open.Tag)
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			text := strings.TrimSpace(string(t))
			if text == "" {
				continue
			}
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, &Node{Text: text})
		}
	}
	if len(stack) != 0 {
		return nil, fmt.Errorf("svg: parse: <%s> is never closed", stack[len(stack)-1].Tag)
	}
	if root == nil {
		return nil, fmt.Errorf("svg: parse: no root element")
	}
	if root.Tag != "svg" {
		return nil, fmt.Errorf("svg: parse: root element is <%s>, want <svg>", root.Tag)
	}
	return root, nil
}

func qualified(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return name.Space + ":" + name.Local
}

// Prefix returns the namespace prefix of a qualified name, or "".
func Prefix(name string) string {
	if idx := strings.IndexByte(name, ':'); idx > 0 {
		return name[:idx]
	}
	return ""
}

// Portable reports whether a qualified name belongs to a namespace every
// renderer understands. Editor metadata namespaces (sodipodi, inkscape, ...)
// are not portable.
func Portable(name string) bool {
	switch Prefix(name) {
	case "", "xlink", "xml":
		return true
	case "xmlns":
		return name == "xmlns:xlink"
	default:
		return false
	}
}
