// Package announce orders announcement posts and handles their dates.
package announce

import (
	"sort"
	"strings"
	"time"

	"github.com/gaurav-prasanna/cardpipe/core"
)

// dateLayouts are tried in order when parsing post dates.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// oldest is the sentinel used for unparseable dates.
var oldest = time.Time{}

// ParseDate parses an ISO date or timestamp.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return oldest, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return oldest, false
}

// FormatDate formats an ISO date with layout, returning the raw string if it
// does not parse.
func FormatDate(s, layout string) string {
	t, ok := ParseDate(s)
	if !ok {
		return s
	}
	return t.Format(layout)
}

// Sort orders posts in place: pinned before unpinned, then newest first.
// Posts with unparseable dates sort as the oldest; ties keep source order.
func Sort(posts []core.AnnouncementPost) {
	keys := make([]time.Time, len(posts))
	for i, p := range posts {
		keys[i], _ = ParseDate(p.Date)
	}
	sort.Stable(byPinThenDate{posts: posts, keys: keys})
}

type byPinThenDate struct {
	posts []core.AnnouncementPost
	keys  []time.Time
}

func (s byPinThenDate) Len() int { return len(s.posts) }

func (s byPinThenDate) Swap(i, j int) {
	s.posts[i], s.posts[j] = s.posts[j], s.posts[i]
	s.keys[i], s.keys[j] = s.keys[j], s.keys[i]
}

func (s byPinThenDate) Less(i, j int) bool {
	if s.posts[i].Pinned != s.posts[j].Pinned {
		return s.posts[i].Pinned
	}
	return s.keys[i].After(s.keys[j])
}

// LatestDate returns the greatest "date" string among raw announcement items,
// compared as strings (ISO dates sort lexically). It returns "" when there is
// no usable date.
func LatestDate(raw any) string {
	items, _ := raw.([]any)
	latest := ""
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		d, _ := m["date"].(string)
		if d > latest {
			latest = d
		}
	}
	return latest
}
