package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/gaurav-prasanna/cardpipe/core"
	"github.com/gaurav-prasanna/cardpipe/core/announce"
	"github.com/gaurav-prasanna/cardpipe/core/dom"
)

// PolicyDateLayout is the display format of the effective date.
const PolicyDateLayout = "January 2, 2006"

// capitalize uppercases the first rune of s and keeps the rest as is.
func capitalize(s string) string {
	_, size := utf8.DecodeRuneInString(s)
	return cases.Upper(language.English).String(s[:size]) + s[size:]
}

// metaSeparator joins the effective date and version fragments.
const metaSeparator = "  •  "

// Policy renders a policy document inside a single container. name is the
// policy identifier ("privacy", "terms") used when the title is empty.
func Policy(doc core.PolicyDocument, name string) []*html.Node {
	container := dom.El("div", dom.Class("policy"))

	title := doc.Title
	if title == "" {
		title = capitalize(name)
	}
	dom.Append(container, dom.Append(dom.El("h1"), dom.Text(title)))

	var meta []string
	if doc.EffectiveDate != "" {
		meta = append(meta, "Effective Date: "+announce.FormatDate(doc.EffectiveDate, PolicyDateLayout))
	}
	if doc.Version != "" {
		meta = append(meta, "Version: "+doc.Version)
	}
	if len(meta) > 0 {
		dom.Append(container, dom.Append(dom.El("p", dom.Class("policy-meta")),
			dom.Text(strings.Join(meta, metaSeparator))))
	}

	dom.Append(container, divider())

	for _, para := range doc.Intro {
		dom.Append(container, dom.Append(dom.El("p"), dom.Text(para)))
	}

	for i, sec := range doc.Sections {
		dom.Append(container, policySection(sec, i))
	}

	if c := doc.Contact; c != nil && (c.Label != "" || c.Mailto != "") {
		label, href := contactLink(*c)
		dom.Append(container,
			divider(),
			dom.Append(dom.El("h2"), dom.Text("Contact Us")),
			dom.Append(dom.El("p"),
				dom.Text("For questions, email: "),
				dom.Append(dom.El("a", dom.Attr("href", href)), dom.Text(label)),
			),
		)
	}

	return []*html.Node{container}
}

func policySection(sec core.PolicySection, idx int) *html.Node {
	wrap := dom.El("section", dom.Class("policy-section"))

	heading := sec.Heading
	if heading == "" {
		heading = fmt.Sprintf("Section %d", idx+1)
	}
	dom.Append(wrap, dom.Append(dom.El("h2"), dom.Text(heading)))

	for _, para := range sec.Paragraphs {
		dom.Append(wrap, dom.Append(dom.El("p"), dom.Text(para)))
	}

	if len(sec.Bullets) > 0 {
		ul := dom.El("ul")
		for _, b := range sec.Bullets {
			dom.Append(ul, dom.Append(dom.El("li"), dom.Text(b)))
		}
		dom.Append(wrap, ul)
	}

	for _, note := range sec.Notes {
		dom.Append(wrap, dom.Append(dom.El("p", dom.Class("policy-note muted")), dom.Text(note)))
	}
	return wrap
}

// contactLink derives the visible label and the mailto: URI. The URI comes
// from Mailto when set, otherwise from Label.
func contactLink(c core.Contact) (label, href string) {
	address := c.Mailto
	if address == "" {
		address = c.Label
	}
	href = address
	if !hasMailtoScheme(href) {
		href = "mailto:" + href
	}

	label = c.Label
	if label == "" {
		label = c.Mailto
	}
	if hasMailtoScheme(label) {
		label = label[len("mailto:"):]
	}
	return label, href
}

func hasMailtoScheme(s string) bool {
	return strings.HasPrefix(strings.ToLower(s), "mailto:")
}

func divider() *html.Node {
	return dom.El("hr", dom.Attr("aria-hidden", "true"))
}
