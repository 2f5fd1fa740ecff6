// Package format escapes text and applies a fixed set of inline
// Markdown-like substitutions (links, code spans, bold, italic).
// It is not a Markdown parser: unmatched syntax is kept as literal text.
package format

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/cardpipe/core/dom"
)

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Escape replaces &, < and > with their entities in a single pass,
// so entities produced here are never escaped again.
func Escape(s string) string {
	return escaper.Replace(s)
}

var (
	// linkRegex matches [label](http(s)://url). Quotes are excluded from the
	// URL so it can be placed in an attribute verbatim.
	linkRegex   = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\s)"]+)\)`)
	codeRegex   = regexp.MustCompile("`([^`]+)`")
	boldRegex   = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicRegex = regexp.MustCompile(`\*([^*]+)\*`)

	tokenRegex = regexp.MustCompile(`\x{E000}([0-9]+)\x{E001}`)
)

const (
	tokenOpen  = "\uE000"
	tokenClose = "\uE001"
)

// Inline escapes s and applies, in order: links, code spans, bold, italic.
// Markup produced by an earlier substitution is not re-processed by a
// later one.
func Inline(s string) string {
	s = strings.NewReplacer(tokenOpen, "", tokenClose, "").Replace(s)
	out := Escape(s)

	var held []string
	hold := func(markup string) string {
		held = append(held, markup)
		return tokenOpen + strconv.Itoa(len(held)-1) + tokenClose
	}
	restore := func(s string) string {
		return tokenRegex.ReplaceAllStringFunc(s, func(m string) string {
			i, err := strconv.Atoi(tokenRegex.FindStringSubmatch(m)[1])
			if err != nil || i >= len(held) {
				return ""
			}
			return held[i]
		})
	}

	out = linkRegex.ReplaceAllStringFunc(out, func(m string) string {
		sub := linkRegex.FindStringSubmatch(m)
		return hold(fmt.Sprintf(`<a href="%s" target="_blank" rel="noopener noreferrer">%s</a>`, sub[2], sub[1]))
	})
	// A code span may wrap a held link; its content is restored before the
	// span itself is held, so held markup never contains tokens.
	out = codeRegex.ReplaceAllStringFunc(out, func(m string) string {
		sub := codeRegex.FindStringSubmatch(m)
		return hold("<code>" + restore(sub[1]) + "</code>")
	})
	out = boldRegex.ReplaceAllString(out, "<strong>$1</strong>")
	out = italicRegex.ReplaceAllString(out, "<em>$1</em>")

	return restore(out)
}

// Nodes formats s with Inline and parses the result into nodes ready to be
// appended to a paragraph or list item.
func Nodes(s string) []*html.Node {
	nodes, err := dom.ParseInline(Inline(s))
	if err != nil {
		return []*html.Node{dom.Text(s)}
	}
	return nodes
}
