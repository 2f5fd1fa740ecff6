package site

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/language"

	"github.com/gaurav-prasanna/cardpipe/core"
	"github.com/gaurav-prasanna/cardpipe/core/fetch"
	"github.com/gaurav-prasanna/cardpipe/core/render"
)

// Policy identifiers.
const (
	PolicyPrivacy = "privacy"
	PolicyTerms   = "terms"
)

// PolicyRequest identifies a policy document to render.
type PolicyRequest struct {
	Dir  string // directory holding {name}.{lang}.json
	Name string // resolved policy identifier
	Lang string // resolved language code
}

// FallbackError is returned when both the requested and the fallback
// document failed. Its message is the fallback failure.
type FallbackError struct {
	Primary  error
	Fallback error
}

func (e *FallbackError) Error() string {
	return e.Fallback.Error()
}

func (e *FallbackError) Unwrap() []error {
	return []error{e.Primary, e.Fallback}
}

// policyNameRegex limits explicit policy names to safe file name characters.
var policyNameRegex = regexp.MustCompile(`^[a-z0-9_-]+$`)

// ResolvePolicyName picks the policy from an explicit attribute, else from
// the page file name ("terms" or "privacy" in the name), else privacy.
func ResolvePolicyName(attr, pagePath string) string {
	if a := strings.ToLower(strings.TrimSpace(attr)); a != "" {
		if !policyNameRegex.MatchString(a) {
			return PolicyPrivacy
		}
		return a
	}
	file := strings.ToLower(path.Base("/" + pagePath))
	switch {
	case strings.Contains(file, PolicyTerms):
		return PolicyTerms
	case strings.Contains(file, PolicyPrivacy):
		return PolicyPrivacy
	default:
		return PolicyPrivacy
	}
}

// ResolveLang lowercases the requested language code. Empty or malformed
// codes resolve to fallback, so the code is always safe in a file name.
func ResolveLang(requested, fallback string) string {
	code := strings.ToLower(strings.TrimSpace(requested))
	if code == "" {
		return fallback
	}
	if _, err := language.Parse(code); err != nil {
		return fallback
	}
	return code
}

// PolicyPath returns the document path for name and lang under dir.
func PolicyPath(dir, name, lang string) string {
	return path.Join(dir, fmt.Sprintf("%s.%s.json", name, lang))
}

// LoadPolicy fetches and normalizes the requested policy. On any failure of
// the localized document it makes exactly one attempt at the fallback
// language, even when that is the language just tried. It returns the
// language actually served.
func (r *Renderer) LoadPolicy(ctx context.Context, req PolicyRequest) (core.PolicyDocument, string, error) {
	raw, err := fetch.JSON(ctx, r.fetcher, PolicyPath(req.Dir, req.Name, req.Lang))
	served := req.Lang
	if err != nil {
		r.log.Info("policy language unavailable, falling back",
			slog.String("policy", req.Name), slog.String("lang", req.Lang), slog.Any("err", err))
		primary := err
		served = r.FallbackLang
		raw, err = fetch.JSON(ctx, r.fetcher, PolicyPath(req.Dir, req.Name, r.FallbackLang))
		if err != nil {
			err = &FallbackError{Primary: primary, Fallback: err}
		}
	}
	if err != nil {
		return core.PolicyDocument{}, "", err
	}

	doc, report := r.normalizer.Policy(raw)
	if !report.OK() {
		r.log.Debug("policy defaulted wrong-typed fields",
			slog.String("policy", req.Name), slog.String("issues", report.String()))
	}
	return doc, served, nil
}

// Policy renders the requested policy, or a single error placeholder when
// neither the localized nor the fallback document could be loaded.
func (r *Renderer) Policy(ctx context.Context, req PolicyRequest) []*html.Node {
	doc, _, err := r.LoadPolicy(ctx, req)
	if err != nil {
		r.log.Warn("policy unavailable", slog.String("policy", req.Name), slog.Any("err", err))
		return []*html.Node{render.PolicyError(err)}
	}
	return render.Policy(doc, req.Name)
}
