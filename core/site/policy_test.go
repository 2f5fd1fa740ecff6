package site_test

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/cardpipe/core/fetch"
	"github.com/gaurav-prasanna/cardpipe/core/site"
)

func TestResolvePolicyName(t *testing.T) {
	cases := []struct {
		attr, page, want string
	}{
		{"terms", "privacy.html", "terms"},
		{" Cookies ", "privacy.html", "cookies"},
		{"../../etc/passwd", "terms.html", "privacy"},
		{"terms.en", "terms.html", "privacy"},
		{"a/b", "", "privacy"},
		{"", "legal/Terms-of-Service.html", "terms"},
		{"", "/privacy.html", "privacy"},
		{"", "about.html", "privacy"},
		{"", "", "privacy"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, site.ResolvePolicyName(tc.attr, tc.page), tc)
	}
}

func TestResolveLang(t *testing.T) {
	require.Equal(t, "en", site.ResolveLang("", "en"))
	require.Equal(t, "fr", site.ResolveLang("FR", "en"))
	require.Equal(t, "pt-br", site.ResolveLang("pt-BR", "en"))
	require.Equal(t, "en", site.ResolveLang("../../etc/passwd", "en"))
}

func TestPolicyPath(t *testing.T) {
	require.Equal(t, "data/policies/terms.fr.json", site.PolicyPath("data/policies", "terms", "fr"))
}

func policyFS() fstest.MapFS {
	return fstest.MapFS{
		"data/policies/privacy.en.json": {Data: []byte(`{"title": "Privacy Policy", "version": "1"}`)},
		"data/policies/privacy.fr.json": {Data: []byte(`{"title": "Politique de confidentialité"}`)},
		"data/policies/terms.de.json":   {Data: []byte(`{not json`)},
	}
}

func TestPolicyLocalized(t *testing.T) {
	f := &countingFetcher{next: fetch.NewFileFetcher(policyFS())}
	r := site.New(f, nil)

	doc, served, err := r.LoadPolicy(context.Background(), site.PolicyRequest{Dir: "data/policies", Name: "privacy", Lang: "fr"})
	require.NoError(t, err)
	require.Equal(t, "fr", served)
	require.Equal(t, "Politique de confidentialité", doc.Title)
	require.Equal(t, []string{"data/policies/privacy.fr.json"}, f.paths)
}

func TestPolicyFallsBackToEnglish(t *testing.T) {
	f := &countingFetcher{next: fetch.NewFileFetcher(policyFS())}
	r := site.New(f, nil)

	nodes := r.Policy(context.Background(), site.PolicyRequest{Dir: "data/policies", Name: "privacy", Lang: "xx"})
	require.Equal(t, "Privacy Policy", mount(nodes).Find("h1").Text())
	require.Equal(t, []string{"data/policies/privacy.xx.json", "data/policies/privacy.en.json"}, f.paths)
}

func TestPolicyBothUnavailable(t *testing.T) {
	f := &countingFetcher{next: fetch.NewFileFetcher(policyFS())}
	r := site.New(f, nil)

	_, _, err := r.LoadPolicy(context.Background(), site.PolicyRequest{Dir: "data/policies", Name: "terms", Lang: "de"})
	var fe *site.FallbackError
	require.ErrorAs(t, err, &fe)
	require.ErrorContains(t, fe.Primary, "parsing JSON")
	require.Equal(t, "fetch failed: data/policies/terms.en.json (404)", err.Error())

	var se *fetch.StatusError
	require.True(t, errors.As(err, &se))

	nodes := r.Policy(context.Background(), site.PolicyRequest{Dir: "data/policies", Name: "terms", Lang: "de"})
	require.Len(t, nodes, 1)
	doc := mount(nodes)
	require.Equal(t, "Unable to load policy", doc.Find("h2").Text())
	require.Equal(t, "fetch failed: data/policies/terms.en.json (404)", doc.Find("p").Text())
	require.Len(t, f.paths, 4)
}

func TestPolicyDefaultLanguageRetriedOnce(t *testing.T) {
	f := &countingFetcher{next: fetch.NewFileFetcher(fstest.MapFS{})}
	r := site.New(f, nil)

	nodes := r.Policy(context.Background(), site.PolicyRequest{Dir: "p", Name: "terms", Lang: "en"})
	require.Len(t, nodes, 1)
	require.Equal(t, []string{"p/terms.en.json", "p/terms.en.json"}, f.paths)
	require.Equal(t, "fetch failed: p/terms.en.json (404)", mount(nodes).Find("p").Text())
}
