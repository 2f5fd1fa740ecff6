// Wraps the rendered fragment with its metadata and a plain-text rendition.

package render

import (
	"encoding/json"
	"fmt"

	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/cardpipe/core"
	"github.com/gaurav-prasanna/cardpipe/core/dom"
)

// JSONRenderer produces structured JSON output from a fragment.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render builds the FragmentJSON document.
func (r *JSONRenderer) Render(nodes []*html.Node, meta core.FragmentMetadata) ([]byte, error) {
	fragment, err := dom.Render(nodes)
	if err != nil {
		return nil, err
	}

	out := core.FragmentJSON{
		Metadata: meta,
		HTML:     fragment,
		Text:     dom.TextContent(nodes),
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}
