package site_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/cardpipe/core"
	"github.com/gaurav-prasanna/cardpipe/core/dom"
	"github.com/gaurav-prasanna/cardpipe/core/fetch"
	"github.com/gaurav-prasanna/cardpipe/core/site"
)

// countingFetcher records every path fetched.
type countingFetcher struct {
	next  core.Fetcher
	paths []string
}

func (c *countingFetcher) Fetch(ctx context.Context, ref string) (*core.FetchResult, error) {
	c.paths = append(c.paths, ref)
	return c.next.Fetch(ctx, ref)
}

func mount(nodes []*html.Node) *goquery.Document {
	root := dom.El("div", dom.Attr("id", "root"))
	site.Mount(root, nodes)
	return goquery.NewDocumentFromNode(root)
}

const announcements = `[
  {"id": "old", "date": "2024-01-01", "title": "Old", "pinned": false},
  {"id": "pin", "date": "2023-06-01", "title": "Pinned", "pinned": true},
  {"id": "new", "date": "2024-06-01", "title": "New", "body": ["intro", "• a", "• b", "note"]}
]`

func TestAnnouncementsFlow(t *testing.T) {
	f := &countingFetcher{next: fetch.NewFileFetcher(fstest.MapFS{
		"data/announcements.json": {Data: []byte(announcements)},
	})}
	r := site.New(f, nil)

	doc := mount(r.Announcements(context.Background(), "data/announcements.json"))
	var order []string
	doc.Find("article").Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("data-id")
		order = append(order, id)
	})
	require.Equal(t, []string{"pin", "new", "old"}, order)
	require.Equal(t, []string{"data/announcements.json"}, f.paths)
}

func TestAnnouncementsEmpty(t *testing.T) {
	r := site.New(fetch.NewFileFetcher(fstest.MapFS{
		"a.json": {Data: []byte(`[]`)},
	}), nil)
	nodes := r.Announcements(context.Background(), "a.json")
	require.Len(t, nodes, 1)
	require.Equal(t, "No announcements yet", mount(nodes).Find("h3").Text())
}

func TestAnnouncementsFailures(t *testing.T) {
	fsys := fstest.MapFS{"bad.json": {Data: []byte(`[{`)}}
	r := site.New(fetch.NewFileFetcher(fsys), nil)

	for _, ref := range []string{"missing.json", "bad.json"} {
		nodes := r.Announcements(context.Background(), ref)
		require.Len(t, nodes, 1)
		doc := mount(nodes)
		require.Equal(t, "Unable to load announcements", doc.Find("h3").Text())
		require.NotEmpty(t, doc.Find("p").Text())
	}
	doc := mount(r.Announcements(context.Background(), "missing.json"))
	require.Equal(t, "fetch failed: missing.json (404)", doc.Find("p").Text())
}

func TestAnnouncementsDocumentShape(t *testing.T) {
	r := site.New(fetch.NewFileFetcher(fstest.MapFS{
		"obj.json":  {Data: []byte(`{}`)},
		"str.json":  {Data: []byte(`"news"`)},
		"null.json": {Data: []byte(`null`)},
	}), nil)

	for _, ref := range []string{"obj.json", "str.json"} {
		doc := mount(r.Announcements(context.Background(), ref))
		require.Equal(t, "Unable to load announcements", doc.Find("h3").Text(), ref)
		require.Equal(t, ref+": announcements document is not a list", doc.Find("p").Text())
	}

	doc := mount(r.Announcements(context.Background(), "null.json"))
	require.Equal(t, "No announcements yet", doc.Find("h3").Text())
}

func TestAnnouncementsOverHTTPFetchesOnce(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f, err := fetch.New(srv.URL, fetch.WithCacheBust("v"))
	require.NoError(t, err)
	nodes := site.New(f, nil).Announcements(context.Background(), "/data/announcements.json")
	require.Len(t, nodes, 1)
	require.EqualValues(t, 1, hits.Load())
}

func TestMountReplacesChildren(t *testing.T) {
	root := dom.El("div")
	dom.Append(root, dom.El("p"), dom.El("p"))
	site.Mount(root, []*html.Node{dom.El("span")})
	site.Mount(root, []*html.Node{dom.El("em")})
	require.Equal(t, "em", root.FirstChild.Data)
	require.Nil(t, root.FirstChild.NextSibling)
}

func TestLatestAnnouncement(t *testing.T) {
	r := site.New(fetch.NewFileFetcher(fstest.MapFS{
		"a.json": {Data: []byte(announcements)},
	}), nil)
	latest, err := r.LatestAnnouncement(context.Background(), "a.json")
	require.NoError(t, err)
	require.Equal(t, "2024-06-01", latest)
}
