// Package core defines the records and pipeline interfaces for CardPipe.
// Each stage of the pipeline is a clean, testable interface.
package core

import (
	"context"

	"golang.org/x/net/html"
)

// FetchResult holds the raw body and response metadata from a fetch.
type FetchResult struct {
	URL        string
	StatusCode int
	Body       []byte
}

// Link is an actionable link attached to an announcement.
type Link struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

// AnnouncementPost is a normalized announcement. Every field is populated.
type AnnouncementPost struct {
	ID     string   `json:"id"`
	Date   string   `json:"date"` // ISO date
	Title  string   `json:"title"`
	Pinned bool     `json:"pinned"`
	Tags   []string `json:"tags"`
	Body   []string `json:"body"`
	Links  []Link   `json:"links"`
}

// PolicySection is one headed block of a policy document.
type PolicySection struct {
	Heading    string   `json:"heading"`
	Paragraphs []string `json:"paragraphs"`
	Bullets    []string `json:"bullets"`
	Notes      []string `json:"notes"`
}

// Contact is the optional contact block of a policy document.
type Contact struct {
	Label  string `json:"label"`
	Mailto string `json:"mailto"`
}

// PolicyDocument is a normalized legal policy (privacy, terms).
type PolicyDocument struct {
	Version       string          `json:"version"`
	EffectiveDate string          `json:"effectiveDate"`
	Title         string          `json:"title"`
	Intro         []string        `json:"intro"`
	Sections      []PolicySection `json:"sections"`
	Contact       *Contact        `json:"contact,omitempty"`
}

// FragmentMetadata describes a rendered fragment for output formats.
type FragmentMetadata struct {
	Kind       string `json:"kind"` // "announcements" or "policy"
	Source     string `json:"source"`
	Title      string `json:"title"`
	Language   string `json:"language"`
	RenderedAt string `json:"rendered_at"` // ISO8601
}

// FragmentJSON is the complete JSON output for a rendered fragment.
type FragmentJSON struct {
	Metadata FragmentMetadata `json:"metadata"`
	HTML     string           `json:"html"`
	Text     string           `json:"text"`
}

// Fetcher retrieves a raw document by path or URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// Renderer converts a rendered node tree (and metadata) into a final output format.
type Renderer interface {
	Render(nodes []*html.Node, meta FragmentMetadata) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".md", ".pdf").
	Extension() string
}
