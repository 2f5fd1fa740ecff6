// Package crawl discovers the pages of a local site directory for builds.
// It reads sitemap.xml when present and otherwise follows links from
// index.html, keeping discovery separate from the assembly pipeline.
package crawl

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io/fs"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// maxPages bounds link crawling to avoid runaway discovery.
const maxPages = 500

// sitemapURL holds a URL from a sitemap.xml.
type sitemapURL struct {
	Loc string `xml:"loc"`
}

// sitemapIndex is the root element of a sitemap.xml.
type sitemapIndex struct {
	URLs []sitemapURL `xml:"url"`
}

// DiscoverPages returns the site-relative paths of all pages to build.
// It first tries sitemap.xml, then falls back to link crawling from
// index.html.
func DiscoverPages(fsys fs.FS) ([]string, error) {
	pages, err := discoverFromSitemap(fsys)
	if err == nil && len(pages) > 0 {
		return pages, nil
	}
	if _, err := fs.Stat(fsys, "index.html"); err != nil {
		return nil, fmt.Errorf("no sitemap.xml and no index.html: %w", err)
	}
	return discoverFromLinks(fsys, "index.html")
}

// discoverFromSitemap reads sitemap.xml and keeps the paths of pages that
// exist in fsys.
func discoverFromSitemap(fsys fs.FS) ([]string, error) {
	body, err := fs.ReadFile(fsys, "sitemap.xml")
	if err != nil {
		return nil, err
	}

	var sitemap sitemapIndex
	if err := xml.Unmarshal(body, &sitemap); err != nil {
		return nil, fmt.Errorf("parsing sitemap.xml: %w", err)
	}

	queue := NewQueue()
	for _, u := range sitemap.URLs {
		parsed, err := url.Parse(strings.TrimSpace(u.Loc))
		if err != nil {
			continue
		}
		p := NormalizePath(parsed.Path, "")
		if p == "" || !IsPage(p) {
			continue
		}
		if _, err := fs.Stat(fsys, p); err == nil {
			queue.Add(p)
		}
	}
	return queue.All(), nil
}

// discoverFromLinks performs BFS over local links starting at start.
func discoverFromLinks(fsys fs.FS, start string) ([]string, error) {
	queue := NewQueue()
	queue.Add(start)

	for queue.HasNext() && queue.Visited() < maxPages {
		current := queue.Next()

		body, err := fs.ReadFile(fsys, current)
		if err != nil {
			continue // Dangling link, don't block discovery.
		}

		links, err := extractLinks(body)
		if err != nil {
			continue
		}

		for _, link := range links {
			if !IsLocal(link) {
				continue
			}
			p := NormalizePath(link, current)
			if p == "" || !IsPage(p) {
				continue
			}
			if _, err := fs.Stat(fsys, p); err == nil {
				queue.Add(p)
			}
		}
	}

	return queue.All(), nil
}

// extractLinks returns all href values from <a> tags.
func extractLinks(body []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var links []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok && href != "" {
			links = append(links, href)
		}
	})
	return links, nil
}
