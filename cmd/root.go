// Package cmd implements the CLI commands for CardPipe using Cobra.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gaurav-prasanna/cardpipe/config"
	"github.com/gaurav-prasanna/cardpipe/core"
	"github.com/gaurav-prasanna/cardpipe/core/fetch"
	"github.com/gaurav-prasanna/cardpipe/core/logger"
	"github.com/gaurav-prasanna/cardpipe/core/render"
)

var (
	flagConfig string

	v   = viper.New()
	cfg *config.Config
	log *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cardpipe",
	Short: "CardPipe renders announcement and policy JSON into site HTML",
	Long: `CardPipe fetches the JSON documents behind a marketing site (announcements,
privacy and terms policies), normalizes them and renders them as HTML cards.
Fragments can be exported as HTML, Markdown, JSON or PDF; whole sites can be
built with shared partials inlined, or previewed with a local server.

Usage:
  cardpipe announcements [flags]
  cardpipe policy [flags]
  cardpipe build [flags]
  cardpipe serve [flags]`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if flagConfig != "" {
			v.SetConfigFile(flagConfig)
		}
		c, err := config.Load(v)
		if err != nil {
			return err
		}
		cfg = c
		log = logger.New("cardpipe", cfg.LogLevel, os.Stderr)
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Config file (default: ./cardpipe.yaml or $XDG_CONFIG_HOME/cardpipe/cardpipe.yaml)")
	pf.String("site", ".", "Local site directory")
	pf.String("base_url", "", "Base URL of a live site to read data from instead of --site")
	pf.String("output_dir", "", "Output directory (default: current directory)")
	pf.String("log_level", "info", "Log level: debug, info, warn, error")

	_ = v.BindPFlag("site.dir", pf.Lookup("site"))
	_ = v.BindPFlag("site.base_url", pf.Lookup("base_url"))
	_ = v.BindPFlag("output_dir", pf.Lookup("output_dir"))
	_ = v.BindPFlag("log.level", pf.Lookup("log_level"))
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newFetcher returns the data source: the live site when a base URL is
// configured, otherwise the local site directory.
func newFetcher() (core.Fetcher, error) {
	if cfg.BaseURL == "" {
		return fetch.NewFileFetcher(os.DirFS(cfg.SiteDir)), nil
	}
	opts := []fetch.Option{fetch.WithTimeout(cfg.FetchTimeout)}
	if cfg.CacheBustParam != "" {
		opts = append(opts, fetch.WithCacheBust(cfg.CacheBustParam))
	}
	return fetch.New(cfg.BaseURL, opts...)
}

// selectRenderer creates the Renderer for an output format name.
func selectRenderer(format string) (core.Renderer, error) {
	switch format {
	case "html", "":
		return render.NewHTMLRenderer(), nil
	case "markdown", "md":
		return render.NewMarkdownRenderer(), nil
	case "json":
		return render.NewJSONRenderer(), nil
	case "pdf":
		return render.NewPDFRenderer(), nil
	default:
		return nil, fmt.Errorf("unknown format %q: want html, markdown, json or pdf", format)
	}
}
