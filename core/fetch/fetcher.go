// Package fetch implements the Fetcher interface.
// HTTPFetcher performs uncached HTTP GET requests relative to a base URL;
// FileFetcher serves the same contract from a local site directory.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gaurav-prasanna/cardpipe/core"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "CardPipe/1.0 (https://github.com/gaurav-prasanna/cardpipe)"
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch failed: %s (%d)", e.URL, e.StatusCode)
}

// HTTPFetcher fetches documents via HTTP. Every request bypasses caches.
type HTTPFetcher struct {
	client    *http.Client
	base      *url.URL
	bustParam string
}

// Option configures an HTTPFetcher.
type Option func(*HTTPFetcher)

// WithClient replaces the default HTTP client.
func WithClient(c *http.Client) Option {
	return func(f *HTTPFetcher) { f.client = c }
}

// WithTimeout sets the client timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *HTTPFetcher) {
		if d > 0 {
			f.client.Timeout = d
		}
	}
}

// WithCacheBust appends param=<random id> to every request URL.
func WithCacheBust(param string) Option {
	return func(f *HTTPFetcher) { f.bustParam = param }
}

// New creates an HTTPFetcher resolving relative paths against baseURL.
func New(baseURL string, opts ...Option) (*HTTPFetcher, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	f := &HTTPFetcher{
		client: &http.Client{Timeout: defaultTimeout},
		base:   base,
	}
	for _, o := range opts {
		o(f)
	}
	return f, nil
}

// Resolve returns the absolute URL for ref, including the cache-busting
// parameter when configured.
func (f *HTTPFetcher) Resolve(ref string) (string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parsing %q: %w", ref, err)
	}
	resolved := f.base.ResolveReference(u)
	if f.bustParam != "" {
		q := resolved.Query()
		q.Set(f.bustParam, uuid.NewString())
		resolved.RawQuery = q.Encode()
	}
	return resolved.String(), nil
}

// Fetch performs exactly one GET for ref. There is no retry.
func (f *HTTPFetcher) Fetch(ctx context.Context, ref string) (*core.FetchResult, error) {
	target, err := f.Resolve(ref)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "application/json, text/html;q=0.9")
	req.Header.Set("Cache-Control", "no-cache, no-store")
	req.Header.Set("Pragma", "no-cache")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", ref, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{URL: ref, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return &core.FetchResult{
		URL:        target,
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}

// FileFetcher reads documents from a file system, typically os.DirFS of a
// site directory. Paths are resolved relative to the file system root.
type FileFetcher struct {
	fsys fs.FS
}

// NewFileFetcher creates a FileFetcher over fsys.
func NewFileFetcher(fsys fs.FS) *FileFetcher {
	return &FileFetcher{fsys: fsys}
}

// Fetch reads ref from the file system. A missing file maps to a 404
// StatusError so callers see the same failure shape as over HTTP.
func (f *FileFetcher) Fetch(ctx context.Context, ref string) (*core.FetchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name, err := filePath(ref)
	if err != nil {
		return nil, err
	}
	body, err := fs.ReadFile(f.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &StatusError{URL: ref, StatusCode: http.StatusNotFound}
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", ref, err)
	}
	return &core.FetchResult{URL: name, StatusCode: http.StatusOK, Body: body}, nil
}

// filePath strips any query or fragment and cleans ref into an fs.FS name.
func filePath(ref string) (string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parsing %q: %w", ref, err)
	}
	name := strings.TrimPrefix(path.Clean("/"+u.Path), "/")
	if name == "" || !fs.ValidPath(name) {
		return "", fmt.Errorf("invalid path %q", ref)
	}
	return name, nil
}

// DecodeJSON decodes a fetched body into a generic JSON value.
func DecodeJSON(res *core.FetchResult) (any, error) {
	var v any
	if err := json.Unmarshal(res.Body, &v); err != nil {
		return nil, fmt.Errorf("parsing JSON from %s: %w", res.URL, err)
	}
	return v, nil
}

// JSON fetches ref and decodes it.
func JSON(ctx context.Context, f core.Fetcher, ref string) (any, error) {
	res, err := f.Fetch(ctx, ref)
	if err != nil {
		return nil, err
	}
	return DecodeJSON(res)
}
