// This file implements the HTML and Markdown renderers.

package render

import (
	"fmt"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/cardpipe/core"
	"github.com/gaurav-prasanna/cardpipe/core/dom"
)

// HTMLRenderer serializes the node tree as an HTML fragment. It's the
// simplest renderer since nodes are already the canonical pipeline format.
type HTMLRenderer struct{}

// NewHTMLRenderer creates an HTMLRenderer.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{}
}

// Render returns the serialized fragment.
func (r *HTMLRenderer) Render(nodes []*html.Node, meta core.FragmentMetadata) ([]byte, error) {
	out, err := dom.Render(nodes)
	if err != nil {
		return nil, err
	}
	return []byte(out + "\n"), nil
}

// Extension returns the file extension for HTML output.
func (r *HTMLRenderer) Extension() string {
	return ".html"
}

// MarkdownRenderer converts the node tree to Markdown using html-to-markdown.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render converts the rendered fragment into Markdown.
func (r *MarkdownRenderer) Render(nodes []*html.Node, meta core.FragmentMetadata) ([]byte, error) {
	fragment, err := dom.Render(nodes)
	if err != nil {
		return nil, err
	}
	markdown, err := htmltomarkdown.ConvertString(fragment)
	if err != nil {
		return nil, fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return []byte(markdown + "\n"), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}
