package crawl_test

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/cardpipe/crawl"
)

func TestDiscoverFromLinks(t *testing.T) {
	fsys := fstest.MapFS{
		"index.html":         {Data: []byte(`<a href="about.html">About</a><a href="legal/">Legal</a><a href="https://other.test/x.html">x</a><a href="mailto:a@b.c">m</a>`)},
		"about.html":         {Data: []byte(`<a href="/index.html#top">home</a><a href="styles.css">css</a><a href="ghost.html">gone</a>`)},
		"legal/index.html":   {Data: []byte(`<a href="terms.html?lang=fr">terms</a><a href="../about.html">about</a>`)},
		"legal/terms.html":   {Data: []byte(`terms`)},
		"styles.css":         {Data: []byte(`body{}`)},
		"orphan.html":        {Data: []byte(`unlinked`)},
		"partials/head.html": {Data: []byte(`partial`)},
	}

	pages, err := crawl.DiscoverPages(fsys)
	require.NoError(t, err)
	require.Equal(t, []string{"index.html", "about.html", "legal/index.html", "legal/terms.html"}, pages)
}

func TestDiscoverFromSitemap(t *testing.T) {
	fsys := fstest.MapFS{
		"sitemap.xml": {Data: []byte(`<?xml version="1.0"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://example.test/</loc></url>
  <url><loc>https://example.test/privacy.html</loc></url>
  <url><loc>https://example.test/missing.html</loc></url>
  <url><loc>https://example.test/privacy.html</loc></url>
</urlset>`)},
		"index.html":   {Data: []byte(`<a href="other.html">o</a>`)},
		"privacy.html": {Data: []byte(`p`)},
		"other.html":   {Data: []byte(`o`)},
	}

	pages, err := crawl.DiscoverPages(fsys)
	require.NoError(t, err)
	require.Equal(t, []string{"index.html", "privacy.html"}, pages)
}

func TestDiscoverNoEntryPoint(t *testing.T) {
	_, err := crawl.DiscoverPages(fstest.MapFS{"a.html": {Data: []byte("a")}})
	require.Error(t, err)
}

func TestNormalizePath(t *testing.T) {
	require.Equal(t, "legal/terms.html", crawl.NormalizePath("terms.html#x", "legal/index.html"))
	require.Equal(t, "about.html", crawl.NormalizePath("../about.html", "legal/index.html"))
	require.Equal(t, "docs/index.html", crawl.NormalizePath("/docs/", "index.html"))
	require.Equal(t, "", crawl.NormalizePath("#top", "index.html"))
	require.Equal(t, "", crawl.NormalizePath("tel:123", "index.html"))
}

func TestQueueDeduplicates(t *testing.T) {
	q := crawl.NewQueue()
	require.True(t, q.Add("a"))
	require.False(t, q.Add("a"))
	require.True(t, q.Add("b"))
	require.Equal(t, 2, q.Visited())
	require.Equal(t, "a", q.Next())
	require.True(t, q.HasNext())
	require.Equal(t, "b", q.Next())
	require.False(t, q.HasNext())
}
