// Package dom provides small builders over golang.org/x/net/html node trees.
// Renderers construct detached subtrees with these helpers and hand them
// to a caller-owned container instead of mutating a looked-up global.
package dom

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Attr builds a single attribute.
func Attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

// Class is shorthand for Attr("class", names).
func Class(names string) html.Attribute {
	return Attr("class", names)
}

// El creates a detached element node.
func El(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attrs,
	}
}

// Text creates a text node. The value is escaped when rendered.
func Text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// Append adds children to parent and returns parent for chaining.
func Append(parent *html.Node, children ...*html.Node) *html.Node {
	for _, c := range children {
		if c == nil {
			continue
		}
		if c.Parent != nil {
			c.Parent.RemoveChild(c)
		}
		parent.AppendChild(c)
	}
	return parent
}

// ParseInline parses an HTML snippet as the content of a <div>.
func ParseInline(markup string) ([]*html.Node, error) {
	context := El("div")
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, fmt.Errorf("parsing fragment: %w", err)
	}
	return nodes, nil
}

// ReplaceChildren removes every child of container and appends nodes.
// Calling it repeatedly with fresh nodes always leaves exactly those nodes.
func ReplaceChildren(container *html.Node, nodes []*html.Node) {
	for c := container.FirstChild; c != nil; {
		next := c.NextSibling
		container.RemoveChild(c)
		c = next
	}
	Append(container, nodes...)
}

// Render serializes nodes to an HTML string.
func Render(nodes []*html.Node) (string, error) {
	var buf bytes.Buffer
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return "", fmt.Errorf("rendering %s: %w", n.Data, err)
		}
	}
	return buf.String(), nil
}

// TextContent returns the concatenated text of nodes, one line per block.
func TextContent(nodes []*html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
		case html.ElementNode:
			if n.DataAtom == atom.Br {
				b.WriteString("\n")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && isBlock(n.DataAtom) {
			b.WriteString("\n")
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	lines := strings.Split(b.String(), "\n")
	out := lines[:0]
	for _, l := range lines {
		if t := strings.TrimSpace(l); t != "" {
			out = append(out, t)
		}
	}
	return strings.Join(out, "\n")
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Li, atom.H1, atom.H2, atom.H3, atom.Article, atom.Section, atom.Ul, atom.Hr:
		return true
	}
	return false
}
