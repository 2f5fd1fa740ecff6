// Package normalize converts loosely typed JSON values into the strict
// records the renderers consume.
//
// Normalization is total: missing fields are silently defaulted, and
// wrong-typed fields are defaulted too but recorded in a Report produced by
// a JSON Schema check, so callers can log them without failing the render.
package normalize

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/gaurav-prasanna/cardpipe/core"
)

const (
	defaultTitle     = "Untitled"
	defaultLinkLabel = "Learn more"
)

// Issue is a single wrong-typed value found during normalization.
type Issue struct {
	Path    string `json:"path"` // JSON pointer into the source document
	Message string `json:"message"`
}

// Report collects the issues of one normalization call.
type Report struct {
	Issues []Issue `json:"issues,omitempty"`
}

// OK reports whether the source matched the expected shape.
func (r Report) OK() bool {
	return len(r.Issues) == 0
}

func (r Report) String() string {
	parts := make([]string, 0, len(r.Issues))
	for _, is := range r.Issues {
		parts = append(parts, fmt.Sprintf("%s: %s", is.Path, is.Message))
	}
	return strings.Join(parts, "; ")
}

// Normalizer holds the compiled document schemas.
type Normalizer struct {
	announcements *jsonschema.Schema
	policy        *jsonschema.Schema
}

// New creates a Normalizer. The embedded schemas are constants, so a
// compile failure is a programming error.
func New() *Normalizer {
	return &Normalizer{
		announcements: mustCompile("announcements", announcementsSchema),
		policy:        mustCompile("policy", policySchema),
	}
}

func mustCompile(name, schema string) *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	schemaURL := fmt.Sprintf("https://cardpipe.schemas.local/%s.schema.json", name)
	if err := c.AddResource(schemaURL, strings.NewReader(schema)); err != nil {
		panic(fmt.Sprintf("schema %s load failed: %v", name, err))
	}
	compiled, err := c.Compile(schemaURL)
	if err != nil {
		panic(fmt.Sprintf("schema %s compile failed: %v", name, err))
	}
	return compiled
}

// Posts normalizes a decoded announcements array. A nil or non-array value
// yields no posts.
func (n *Normalizer) Posts(raw any) ([]core.AnnouncementPost, Report) {
	report := n.check(n.announcements, raw)

	items, _ := raw.([]any)
	posts := make([]core.AnnouncementPost, 0, len(items))
	for _, it := range items {
		posts = append(posts, Post(it))
	}
	return posts, report
}

// Policy normalizes a decoded policy document. A nil or non-object value
// yields an empty document.
func (n *Normalizer) Policy(raw any) (core.PolicyDocument, Report) {
	return PolicyDocument(raw), n.check(n.policy, raw)
}

func (n *Normalizer) check(schema *jsonschema.Schema, raw any) Report {
	if raw == nil {
		return Report{}
	}
	err := schema.Validate(raw)
	if err == nil {
		return Report{}
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return Report{Issues: []Issue{{Path: "", Message: err.Error()}}}
	}
	var report Report
	for _, e := range ve.BasicOutput().Errors {
		if e.Error == "" || strings.HasPrefix(e.Error, "doesn't validate with") {
			continue
		}
		report.Issues = append(report.Issues, Issue{Path: e.InstanceLocation, Message: e.Error})
	}
	if len(report.Issues) == 0 {
		report.Issues = append(report.Issues, Issue{Path: ve.InstanceLocation, Message: ve.Message})
	}
	return report
}

// Post normalizes a single announcement element.
func Post(v any) core.AnnouncementPost {
	m := object(v)
	return core.AnnouncementPost{
		ID:     text(m["id"]),
		Date:   text(m["date"]),
		Title:  textOr(m["title"], defaultTitle),
		Pinned: m["pinned"] == true,
		Tags:   texts(m["tags"]),
		Body:   texts(m["body"]),
		Links:  links(m["links"]),
	}
}

// PolicyDocument normalizes a policy document.
func PolicyDocument(v any) core.PolicyDocument {
	m := object(v)
	doc := core.PolicyDocument{
		Version:       text(m["version"]),
		EffectiveDate: text(m["effectiveDate"]),
		Title:         text(m["title"]),
		Intro:         texts(m["intro"]),
		Sections:      []core.PolicySection{},
		Contact:       contact(m["contact"]),
	}
	if secs, ok := m["sections"].([]any); ok {
		for _, s := range secs {
			sm := object(s)
			doc.Sections = append(doc.Sections, core.PolicySection{
				Heading:    text(sm["heading"]),
				Paragraphs: texts(sm["paragraphs"]),
				Bullets:    texts(sm["bullets"]),
				Notes:      texts(sm["notes"]),
			})
		}
	}
	return doc
}

func links(v any) []core.Link {
	items, _ := v.([]any)
	out := make([]core.Link, 0, len(items))
	for _, it := range items {
		m := object(it)
		out = append(out, core.Link{
			Label: textOr(m["label"], defaultLinkLabel),
			Href:  firstText(m["href"], m["url"]),
		})
	}
	return out
}

func contact(v any) *core.Contact {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	label := text(m["label"])
	mailto := text(m["mailto"])
	if mailto == "" && strings.HasPrefix(strings.ToLower(label), "mailto:") {
		mailto = label
	}
	return &core.Contact{Label: label, Mailto: mailto}
}

func object(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// text coerces a scalar to a string. Null, objects and arrays become "".
func text(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case fmt.Stringer: // json.Number
		return t.String()
	default:
		return ""
	}
}

func textOr(v any, fallback string) string {
	if s := text(v); s != "" {
		return s
	}
	return fallback
}

func firstText(vs ...any) string {
	for _, v := range vs {
		if s := text(v); s != "" {
			return s
		}
	}
	return ""
}

func texts(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, text(it))
	}
	return out
}
