// Package assemble turns a site page into its final HTML: shared partials
// are inlined, the current nav link is marked, announcement and policy
// roots are filled, and the "new announcements" badge is applied.
package assemble

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gaurav-prasanna/cardpipe/core"
	"github.com/gaurav-prasanna/cardpipe/core/site"
)

// Element selectors used on site pages.
const (
	AnnouncementsRoot = "#announce-root"
	PolicyRoot        = "#policy-root"
	IncludeSelector   = "[data-include]"
	NavLinkSelector   = "nav.nav-links a[href]"
	AnnouncementsPage = "announcements.html"
)

// Request describes one page to assemble.
type Request struct {
	Page     string     // site-relative page path, e.g. "legal/terms.html"
	Query    url.Values // page query string (lang=)
	LastSeen string     // latest announcement date the visitor has seen
}

// Result is an assembled page.
type Result struct {
	HTML []byte
	// Latest is the newest announcement date; on the announcements page it
	// is what the visitor has now seen.
	Latest string
	// Badge reports whether the nav badge was shown.
	Badge bool
}

// Assembler assembles pages against one data source.
type Assembler struct {
	fetcher  core.Fetcher
	renderer *site.Renderer
	log      *slog.Logger

	AnnouncementsPath string
	PoliciesDir       string
}

// New creates an Assembler.
func New(fetcher core.Fetcher, renderer *site.Renderer, log *slog.Logger, announcementsPath, policiesDir string) *Assembler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Assembler{
		fetcher:           fetcher,
		renderer:          renderer,
		log:               log,
		AnnouncementsPath: announcementsPath,
		PoliciesDir:       policiesDir,
	}
}

// Assemble processes src, the raw HTML of req.Page.
func (a *Assembler) Assemble(ctx context.Context, req Request, src []byte) (*Result, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", req.Page, err)
	}

	a.Includes(ctx, doc, req.Page)
	page := PageName(req.Page)
	MarkActiveNav(doc, page)

	if root := doc.Find(AnnouncementsRoot).First(); root.Length() > 0 {
		site.Mount(root.Get(0), a.renderer.Announcements(ctx, a.AnnouncementsPath))
	}
	if root := doc.Find(PolicyRoot).First(); root.Length() > 0 {
		attr, _ := root.Attr("data-policy")
		preq := site.PolicyRequest{
			Dir:  a.PoliciesDir,
			Name: site.ResolvePolicyName(attr, req.Page),
			Lang: site.ResolveLang(req.Query.Get("lang"), a.renderer.FallbackLang),
		}
		site.Mount(root.Get(0), a.renderer.Policy(ctx, preq))
	}

	res := &Result{}
	if link := announcementsLink(doc); link.Length() > 0 {
		latest, err := a.renderer.LatestAnnouncement(ctx, a.AnnouncementsPath)
		if err != nil {
			a.log.Debug("badge skipped", slog.Any("err", err))
		} else if latest != "" {
			res.Latest = latest
			if page == AnnouncementsPage {
				RemoveBadge(link)
			} else if res.Badge = ShowBadge(latest, req.LastSeen); res.Badge {
				AddBadge(link)
			} else {
				RemoveBadge(link)
			}
		}
	}

	out, err := doc.Html()
	if err != nil {
		return nil, fmt.Errorf("serializing %s: %w", req.Page, err)
	}
	res.HTML = []byte(out)
	return res, nil
}

// Includes replaces every [data-include] element with the fetched fragment,
// in document order. Failed includes are logged and left in place.
func (a *Assembler) Includes(ctx context.Context, doc *goquery.Document, page string) {
	doc.Find(IncludeSelector).Each(func(_ int, s *goquery.Selection) {
		ref, _ := s.Attr("data-include")
		target := resolveRef(page, ref)
		res, err := a.fetcher.Fetch(ctx, target)
		if err != nil {
			a.log.Warn("include failed", slog.String("include", ref), slog.Any("err", err))
			return
		}
		s.ReplaceWithHtml(string(res.Body))
	})
}

// resolveRef resolves an include reference relative to the page directory.
func resolveRef(page, ref string) string {
	if strings.HasPrefix(ref, "/") || strings.Contains(ref, "://") {
		return ref
	}
	return path.Join(path.Dir("/"+page), ref)[1:]
}

// PageName returns the lowercased file name of a page path, defaulting to
// index.html for directory paths.
func PageName(pagePath string) string {
	name := strings.ToLower(path.Base("/" + pagePath))
	if name == "/" || name == "." || strings.HasSuffix(pagePath, "/") || pagePath == "" {
		return "index.html"
	}
	return name
}

// MarkActiveNav sets aria-current="page" on nav links pointing at page.
func MarkActiveNav(doc *goquery.Document, page string) {
	doc.Find(NavLinkSelector).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.ToLower(strings.SplitN(href, "#", 2)[0])
		if href == page || (page == "" && href == "index.html") {
			s.SetAttr("aria-current", "page")
		}
	})
}

// ShowBadge reports whether latest is newer than lastSeen. Both are ISO
// dates compared as strings.
func ShowBadge(latest, lastSeen string) bool {
	return latest != "" && latest > lastSeen
}

func announcementsLink(doc *goquery.Document) *goquery.Selection {
	return doc.Find(`nav.nav-links a[href$="` + AnnouncementsPage + `"]`).First()
}

var newSuffix = regexp.MustCompile(`(?i)\s*\(new\)$`)

// AddBadge marks link as having unseen announcements.
func AddBadge(link *goquery.Selection) {
	link.AddClass("has-badge")
	if link.Find(".nav-badge").Length() == 0 {
		link.AppendHtml(`<span class="nav-badge" aria-hidden="true"></span>`)
	}
	label, ok := link.Attr("aria-label")
	if !ok || label == "" {
		label = strings.TrimSpace(link.Text())
	}
	if !newSuffix.MatchString(label) {
		link.SetAttr("aria-label", label+" (new)")
	}
}

// RemoveBadge clears the badge and restores the plain label.
func RemoveBadge(link *goquery.Selection) {
	link.RemoveClass("has-badge")
	link.Find(".nav-badge").Remove()
	link.SetAttr("aria-label", strings.TrimSpace(link.Text()))
}
