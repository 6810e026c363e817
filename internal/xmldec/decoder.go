// Package xmldec decodes gazette XML into a generic node tree.
//
// The source format has no canonical schema: an element like "absatz" may
// appear once or many times under the same parent, and its structural role is
// carried by a "typ" attribute rather than nesting. The decoder therefore
// produces a uniform tree where a configured set of element names always
// decodes as ordered sequences, so consumers never branch on one-vs-many.
package xmldec

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Options configures decoding.
type Options struct {
	// ListElements are element names that always decode as ordered sequences,
	// regardless of how many instances the source contains.
	ListElements map[string]bool
}

// DefaultOptions covers the element names of the gazette layout: headings,
// paragraphs, lists, list items and tables all repeat.
func DefaultOptions() Options {
	return Options{
		ListElements: map[string]bool{
			"ueberschrift": true,
			"absatz":       true,
			"liste":        true,
			"listelem":     true,
			"table":        true,
		},
	}
}

// ParseError reports malformed XML. Callers degrade the affected document
// instead of failing the pass.
type ParseError struct {
	Offset int64
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed xml at byte %d: %v", e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Node is one decoded element. Attributes, text content and child elements
// live in separate namespaces: Attr("typ") never collides with a child
// element named "typ".
type Node struct {
	Name     string
	attrs    map[string]string
	text     string
	children []*Node
	opts     *Options
}

// NewNode builds a synthetic node. The HTML and PDF body fallbacks use this
// to lift their output into the same tree shape the XML decoder produces.
func NewNode(name, typ, text string) *Node {
	n := &Node{Name: name, text: text}
	if typ != "" {
		n.attrs = map[string]string{"typ": typ}
	}
	return n
}

// Append adds a child element.
func (n *Node) Append(child *Node) {
	n.children = append(n.children, child)
}

// Attr returns the named attribute, or "".
func (n *Node) Attr(name string) string {
	return n.attrs[name]
}

// Type returns the "typ" attribute, the structural marker of the gazette format.
func (n *Node) Type() string {
	return n.attrs["typ"]
}

// Text returns the node's own character data, whitespace-trimmed.
func (n *Node) Text() string {
	return n.text
}

// Child returns the first child element with the given name, or nil.
func (n *Node) Child(name string) *Node {
	for _, c := range n.children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Children returns all direct children with the given name, in source order.
func (n *Node) Children(name string) []*Node {
	var out []*Node
	for _, c := range n.children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// All returns every direct child in source order.
func (n *Node) All() []*Node {
	return n.children
}

// Find returns every descendant with the given name, depth-first in document
// order. This is how consumers obtain the flat heading and paragraph streams.
func (n *Node) Find(name string) []*Node {
	var out []*Node
	var walk func(node *Node)
	walk = func(node *Node) {
		for _, c := range node.children {
			if c.Name == name {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// FindFunc returns every descendant for which match is true, depth-first in
// document order.
func (n *Node) FindFunc(match func(*Node) bool) []*Node {
	var out []*Node
	var walk func(node *Node)
	walk = func(node *Node) {
		for _, c := range node.children {
			if match(c) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// AsMap renders the node's children as element name → *Node or []*Node.
// Names in Options.ListElements always map to a slice, even for a single
// instance; other names map to a single *Node (first instance).
func (n *Node) AsMap() map[string]any {
	out := make(map[string]any)
	for _, c := range n.children {
		if n.opts != nil && n.opts.ListElements[c.Name] {
			list, _ := out[c.Name].([]*Node)
			out[c.Name] = append(list, c)
			continue
		}
		if _, seen := out[c.Name]; !seen {
			out[c.Name] = c
		}
	}
	return out
}

// FlatText concatenates all text in the subtree, newline-joined, without
// producing doubled blank lines.
func (n *Node) FlatText() string {
	var sb strings.Builder
	var walk func(node *Node)
	walk = func(node *Node) {
		if node.text != "" {
			if sb.Len() > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(node.text)
		}
		for _, c := range node.children {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// Decode parses raw XML into a node tree. Malformed input yields *ParseError.
func Decode(data []byte, opts Options) (*Node, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	root := &Node{Name: "", opts: &opts}
	stack := []*Node{root}
	var text []*strings.Builder
	text = append(text, &strings.Builder{})

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Offset: dec.InputOffset(), Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			node := &Node{Name: t.Name.Local, opts: &opts}
			if len(t.Attr) > 0 {
				node.attrs = make(map[string]string, len(t.Attr))
				for _, a := range t.Attr {
					node.attrs[a.Name.Local] = a.Value
				}
			}
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, node)
			stack = append(stack, node)
			text = append(text, &strings.Builder{})
		case xml.EndElement:
			node := stack[len(stack)-1]
			node.text = collapseSpace(text[len(text)-1].String())
			stack = stack[:len(stack)-1]
			text = text[:len(text)-1]
		case xml.CharData:
			text[len(text)-1].Write(t)
		}
	}

	if len(stack) != 1 {
		return nil, &ParseError{Offset: dec.InputOffset(), Err: fmt.Errorf("unclosed element <%s>", stack[len(stack)-1].Name)}
	}
	if len(root.children) == 0 {
		return nil, &ParseError{Offset: dec.InputOffset(), Err: fmt.Errorf("no root element")}
	}
	return root, nil
}

// collapseSpace trims and collapses internal whitespace runs to single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
