// Package render builds HTML node trees from normalized records and converts
// them into the supported output formats (HTML, Markdown, JSON, PDF).
package render

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/cardpipe/core"
	"github.com/gaurav-prasanna/cardpipe/core/announce"
	"github.com/gaurav-prasanna/cardpipe/core/dom"
	"github.com/gaurav-prasanna/cardpipe/core/format"
)

// BulletMarker starts a body line that renders as a list item.
const BulletMarker = "•"

// AnnouncementDateLayout is the display format of card dates.
const AnnouncementDateLayout = "Jan 2, 2006"

// Announcements renders one card per post, in the given order.
// An empty slice renders the "no announcements" placeholder.
func Announcements(posts []core.AnnouncementPost) []*html.Node {
	if len(posts) == 0 {
		return []*html.Node{NoAnnouncements()}
	}
	cards := make([]*html.Node, 0, len(posts))
	for _, p := range posts {
		cards = append(cards, announcementCard(p))
	}
	return cards
}

func announcementCard(p core.AnnouncementPost) *html.Node {
	card := dom.El("article", dom.Class("card announce"))
	if p.ID != "" {
		card.Attr = append(card.Attr, dom.Attr("data-id", p.ID))
	}

	titleRow := dom.Append(dom.El("div", dom.Class("title-row")),
		dom.Append(dom.El("h3"), dom.Text(p.Title)),
	)
	if p.Pinned {
		dom.Append(titleRow, dom.Append(dom.El("div", dom.Class("pinned")),
			dom.El("i", dom.Class("fa-solid fa-thumbtack"), dom.Attr("aria-hidden", "true")),
			dom.Text(" Pinned"),
		))
	}

	meta := dom.Append(dom.El("div", dom.Class("meta")),
		dom.Append(dom.El("time", dom.Attr("datetime", p.Date)),
			dom.Text(announce.FormatDate(p.Date, AnnouncementDateLayout))),
	)
	for _, t := range p.Tags {
		dom.Append(meta, dom.Append(dom.El("span", dom.Class("badge")), dom.Text(t)))
	}

	dom.Append(card, titleRow, meta, Body(p.Body))

	if len(p.Links) > 0 {
		links := dom.El("div", dom.Class("links"))
		for _, l := range p.Links {
			href := l.Href
			if href == "" {
				href = "#"
			}
			dom.Append(links, dom.Append(
				dom.El("a", dom.Attr("href", href), dom.Class("btn btn-ghost btn-compact")),
				dom.El("i", dom.Class("fa-solid fa-link"), dom.Attr("aria-hidden", "true")),
				dom.Text(" "+l.Label),
			))
		}
		dom.Append(card, links)
	}
	return card
}

// Body renders body lines. Consecutive bullet lines are grouped into one
// <ul>; every other line becomes its own <p>. All text goes through the
// inline formatter.
func Body(lines []string) *html.Node {
	wrap := dom.El("div", dom.Class("body"))
	var list *html.Node
	for _, line := range lines {
		if item, ok := bulletItem(line); ok {
			if list == nil {
				list = dom.El("ul", dom.Class("bullets"))
				dom.Append(wrap, list)
			}
			dom.Append(list, dom.Append(dom.El("li"), format.Nodes(item)...))
			continue
		}
		list = nil
		dom.Append(wrap, dom.Append(dom.El("p"), format.Nodes(line)...))
	}
	return wrap
}

// bulletItem reports whether line starts with the bullet marker followed by
// whitespace, and returns the remainder.
func bulletItem(line string) (string, bool) {
	rest, ok := strings.CutPrefix(strings.TrimLeft(line, " \t"), BulletMarker)
	if !ok {
		return "", false
	}
	r, _ := utf8.DecodeRuneInString(rest)
	if !unicode.IsSpace(r) {
		return "", false
	}
	return strings.TrimLeftFunc(rest, unicode.IsSpace), true
}

// NoAnnouncements is the placeholder shown when there are no posts.
func NoAnnouncements() *html.Node {
	return placeholder("card announce", "h3", "No announcements yet", "Check back soon for updates.")
}

// AnnouncementsError is the placeholder shown when announcements fail to load.
func AnnouncementsError(err error) *html.Node {
	return placeholder("card announce error", "h3", "Unable to load announcements", err.Error())
}

// PolicyError is the placeholder shown when a policy fails to load.
func PolicyError(err error) *html.Node {
	return placeholder("card error", "h2", "Unable to load policy", err.Error())
}

func placeholder(class, headingTag, heading, message string) *html.Node {
	return dom.Append(dom.El("article", dom.Class(class)),
		dom.Append(dom.El(headingTag), dom.Text(heading)),
		dom.Append(dom.El("p", dom.Class("muted")), dom.Text(message)),
	)
}
