package dom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/cardpipe/core/dom"
)

func TestBuildAndRender(t *testing.T) {
	card := dom.Append(dom.El("div", dom.Class("card")),
		dom.Append(dom.El("h3"), dom.Text("a < b")),
		nil,
		dom.El("hr"),
	)
	out, err := dom.Render([]*html.Node{card})
	require.NoError(t, err)
	assert.Equal(t, `<div class="card"><h3>a &lt; b</h3><hr/></div>`, out)
}

func TestAppendMovesNode(t *testing.T) {
	a, b := dom.El("div"), dom.El("div")
	child := dom.El("span")
	dom.Append(a, child)
	dom.Append(b, child)
	assert.Nil(t, a.FirstChild)
	assert.Equal(t, b, child.Parent)
}

func TestParseInline(t *testing.T) {
	nodes, err := dom.ParseInline(`x <strong>y</strong>`)
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, html.TextNode, nodes[0].Type)
	assert.Equal(t, "strong", nodes[1].Data)
}

func TestTextContent(t *testing.T) {
	root := dom.Append(dom.El("div"),
		dom.Append(dom.El("h1"), dom.Text("Title")),
		dom.Append(dom.El("p"), dom.Text("one "), dom.Append(dom.El("em"), dom.Text("two"))),
		dom.Append(dom.El("ul"),
			dom.Append(dom.El("li"), dom.Text("  a ")),
			dom.Append(dom.El("li"), dom.Text("b")),
		),
	)
	assert.Equal(t, "Title\none two\na\nb", dom.TextContent([]*html.Node{root}))
}
