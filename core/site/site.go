// Package site wires fetch, normalize, sort and render into the two page
// flows (announcements, policies). The flows never return errors: failures
// are rendered as placeholder cards so other page regions keep working.
package site

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/cardpipe/core"
	"github.com/gaurav-prasanna/cardpipe/core/announce"
	"github.com/gaurav-prasanna/cardpipe/core/dom"
	"github.com/gaurav-prasanna/cardpipe/core/fetch"
	"github.com/gaurav-prasanna/cardpipe/core/normalize"
	"github.com/gaurav-prasanna/cardpipe/core/render"
)

// DefaultLang is the fallback language for policy documents.
const DefaultLang = "en"

// Renderer runs the page flows against a data source.
type Renderer struct {
	fetcher    core.Fetcher
	normalizer *normalize.Normalizer
	log        *slog.Logger

	// FallbackLang is used when no language is requested and when the
	// requested language document cannot be loaded.
	FallbackLang string
}

// New creates a Renderer. A nil logger discards output.
func New(fetcher core.Fetcher, log *slog.Logger) *Renderer {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Renderer{
		fetcher:      fetcher,
		normalizer:   normalize.New(),
		log:          log,
		FallbackLang: DefaultLang,
	}
}

// Posts fetches, normalizes and sorts the announcements at dataPath. A
// document that is neither a list nor null is an error.
func (r *Renderer) Posts(ctx context.Context, dataPath string) ([]core.AnnouncementPost, error) {
	raw, err := fetch.JSON(ctx, r.fetcher, dataPath)
	if err != nil {
		return nil, err
	}
	if _, ok := raw.([]any); !ok && raw != nil {
		return nil, fmt.Errorf("%s: announcements document is not a list", dataPath)
	}
	posts, report := r.normalizer.Posts(raw)
	if !report.OK() {
		r.log.Debug("announcements defaulted wrong-typed fields",
			slog.String("source", dataPath), slog.String("issues", report.String()))
	}
	announce.Sort(posts)
	return posts, nil
}

// Announcements renders the announcement cards for dataPath. A load failure
// renders a single error placeholder carrying the error message.
func (r *Renderer) Announcements(ctx context.Context, dataPath string) []*html.Node {
	posts, err := r.Posts(ctx, dataPath)
	if err != nil {
		r.log.Warn("announcements unavailable", slog.String("source", dataPath), slog.Any("err", err))
		return []*html.Node{render.AnnouncementsError(err)}
	}
	return render.Announcements(posts)
}

// LatestAnnouncement returns the greatest announcement date at dataPath, or
// "" when the list is empty.
func (r *Renderer) LatestAnnouncement(ctx context.Context, dataPath string) (string, error) {
	raw, err := fetch.JSON(ctx, r.fetcher, dataPath)
	if err != nil {
		return "", err
	}
	return announce.LatestDate(raw), nil
}

// Mount replaces the children of container with nodes.
func Mount(container *html.Node, nodes []*html.Node) {
	dom.ReplaceChildren(container, nodes)
}
