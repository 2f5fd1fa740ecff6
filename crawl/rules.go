package crawl

import (
	"net/url"
	"path"
	"strings"
)

// pageExtensions are the file extensions treated as site pages.
var pageExtensions = map[string]bool{
	".html": true, ".htm": true,
}

// IsLocal reports whether href stays inside the site (no scheme or host).
func IsLocal(href string) bool {
	parsed, err := url.Parse(href)
	if err != nil {
		return false
	}
	return parsed.Scheme == "" && parsed.Host == ""
}

// IsPage reports whether a site path points at an HTML page.
func IsPage(sitePath string) bool {
	ext := strings.ToLower(path.Ext(sitePath))
	return pageExtensions[ext]
}

// NormalizePath resolves href against the directory of the page it was
// found on and strips query and fragment. It returns "" for hrefs that are
// not site paths (mailto:, javascript:, tel:, pure fragments).
func NormalizePath(href, fromPage string) string {
	if strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "tel:") || strings.HasPrefix(href, "#") {
		return ""
	}
	parsed, err := url.Parse(href)
	if err != nil || parsed.Path == "" {
		return ""
	}

	p := parsed.Path
	if !strings.HasPrefix(p, "/") {
		p = path.Join(path.Dir("/"+fromPage), p)
	}
	p = path.Clean(p)
	if strings.HasSuffix(parsed.Path, "/") || p == "/" {
		p = path.Join(p, "index.html")
	}
	return strings.TrimPrefix(p, "/")
}
