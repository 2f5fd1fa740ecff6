// announcements and policy run one rendering flow and write the fragment in
// the chosen format: fetch → normalize → (sort) → render → write.

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/cardpipe/core"
	"github.com/gaurav-prasanna/cardpipe/core/output"
	"github.com/gaurav-prasanna/cardpipe/core/site"
)

var (
	flagFormat string
	flagStdout bool
	flagPolicy string
	flagPage   string
	flagLang   string
)

var announcementsCmd = &cobra.Command{
	Use:   "announcements",
	Short: "Render the announcement cards",
	Long: `Announcements fetches the announcements document, orders posts (pinned first,
then newest first) and renders one card per post.

Examples:
  cardpipe announcements --site ./public
  cardpipe announcements --base_url https://example.com --format markdown --stdout`,
	Args: cobra.NoArgs,
	RunE: runAnnouncements,
}

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Render a privacy or terms policy",
	Long: `Policy loads {policies.dir}/{policy}.{lang}.json, falling back to the default
language once if the localized document is unavailable, and renders it.

Examples:
  cardpipe policy --policy terms --lang fr --site ./public
  cardpipe policy --page privacy.html --format pdf`,
	Args: cobra.NoArgs,
	RunE: runPolicy,
}

func init() {
	for _, c := range []*cobra.Command{announcementsCmd, policyCmd} {
		rootCmd.AddCommand(c)
		c.Flags().StringVar(&flagFormat, "format", "html", "Output format: html, markdown, json or pdf")
		c.Flags().BoolVar(&flagStdout, "stdout", false, "Print to stdout instead of writing a file")
	}
	policyCmd.Flags().StringVar(&flagPolicy, "policy", "", "Policy identifier (privacy or terms)")
	policyCmd.Flags().StringVar(&flagPage, "page", "", "Page file name used to infer the policy when --policy is empty")
	policyCmd.Flags().StringVar(&flagLang, "lang", "", "Language code (default: policies.default_lang)")
}

func runAnnouncements(cmd *cobra.Command, args []string) error {
	fetcher, err := newFetcher()
	if err != nil {
		return err
	}
	r := site.New(fetcher, log)
	nodes := r.Announcements(cmd.Context(), cfg.AnnouncementsPath)

	meta := core.FragmentMetadata{
		Kind:   "announcements",
		Source: cfg.AnnouncementsPath,
		Title:  "Announcements",
	}
	return emit(nodes, meta, "announcements")
}

func runPolicy(cmd *cobra.Command, args []string) error {
	fetcher, err := newFetcher()
	if err != nil {
		return err
	}
	r := site.New(fetcher, log)
	r.FallbackLang = cfg.DefaultLang

	req := site.PolicyRequest{
		Dir:  cfg.PoliciesDir,
		Name: site.ResolvePolicyName(flagPolicy, flagPage),
		Lang: site.ResolveLang(flagLang, cfg.DefaultLang),
	}
	nodes := r.Policy(cmd.Context(), req)

	meta := core.FragmentMetadata{
		Kind:     "policy",
		Source:   site.PolicyPath(req.Dir, req.Name, req.Lang),
		Title:    req.Name,
		Language: req.Lang,
	}
	return emit(nodes, meta, req.Name, req.Lang)
}

// emit renders nodes in the selected format and writes them out.
func emit(nodes []*html.Node, meta core.FragmentMetadata, nameParts ...string) error {
	renderer, err := selectRenderer(flagFormat)
	if err != nil {
		return err
	}
	meta.RenderedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := renderer.Render(nodes, meta)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if flagStdout {
		_, err := os.Stdout.Write(data)
		return err
	}

	writer, err := output.New(cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}
	path, err := writer.WriteFragment(data, renderer.Extension(), nameParts...)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Written: %s\n", path)
	return nil
}
