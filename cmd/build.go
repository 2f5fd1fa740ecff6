// Discovers the pages of a site directory, assembles each one
// (partials, nav state, announcement and policy roots, badge) and writes the
// result alongside a copy of every other site file.

package cmd

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/cardpipe/core/assemble"
	"github.com/gaurav-prasanna/cardpipe/core/output"
	"github.com/gaurav-prasanna/cardpipe/core/site"
	"github.com/gaurav-prasanna/cardpipe/crawl"
)

var flagLastSeen string

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a static copy of the site with all fragments rendered",
	Long: `Build assembles every page of the site directory: [data-include] partials are
inlined, the current nav link is marked, #announce-root and #policy-root are
rendered, and the announcements nav badge is set against --last-seen.

Examples:
  cardpipe build --site ./public --output_dir ./dist
  cardpipe build --site ./public --output_dir ./dist --last-seen 2024-05-01`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringVar(&flagLastSeen, "last-seen", "", "Latest announcement date already seen (ISO date)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	if cfg.OutputDir == "" {
		return fmt.Errorf("--output_dir is required for build")
	}
	siteAbs, _ := filepath.Abs(cfg.SiteDir)
	outAbs, _ := filepath.Abs(cfg.OutputDir)
	if siteAbs == outAbs {
		return fmt.Errorf("--output_dir must differ from --site")
	}

	fsys := os.DirFS(cfg.SiteDir)
	fetcher, err := newFetcher()
	if err != nil {
		return err
	}
	r := site.New(fetcher, log)
	r.FallbackLang = cfg.DefaultLang
	asm := assemble.New(fetcher, r, log, cfg.AnnouncementsPath, cfg.PoliciesDir)

	writer, err := output.New(cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Discovering pages in %s...\n", cfg.SiteDir)
	pages, err := crawl.DiscoverPages(fsys)
	if err != nil {
		return fmt.Errorf("discovering pages: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Found %d pages to build\n", len(pages))

	built := make(map[string]bool, len(pages))
	var errCount int
	for i, page := range pages {
		fmt.Fprintf(os.Stdout, "[%d/%d] Building %s\n", i+1, len(pages), page)
		path, err := buildPage(cmd.Context(), asm, writer, fsys, page)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  ✗ Error: %v\n", err)
			errCount++
			continue
		}
		built[page] = true
		fmt.Fprintf(os.Stdout, "  ✓ Written: %s\n", path)
	}

	copied, err := copyAssets(fsys, writer, built, outAbs, siteAbs)
	if err != nil {
		return fmt.Errorf("copying assets: %w", err)
	}
	log.Info("build finished", slog.Int("pages", len(built)), slog.Int("assets", copied), slog.Int("failed", errCount))

	if errCount > 0 {
		fmt.Fprintf(os.Stderr, "\n%d/%d pages failed\n", errCount, len(pages))
	}
	return nil
}

func buildPage(ctx context.Context, asm *assemble.Assembler, writer *output.Writer, fsys fs.FS, page string) (string, error) {
	src, err := fs.ReadFile(fsys, page)
	if err != nil {
		return "", fmt.Errorf("reading: %w", err)
	}
	res, err := asm.Assemble(ctx, assemble.Request{Page: page, LastSeen: flagLastSeen}, src)
	if err != nil {
		return "", fmt.Errorf("assemble: %w", err)
	}
	return writer.WritePage(page, res.HTML)
}

// copyAssets copies every site file that was not built as a page. The
// output directory is skipped when it lives inside the site.
func copyAssets(fsys fs.FS, writer *output.Writer, built map[string]bool, outAbs, siteAbs string) (int, error) {
	outRel, err := filepath.Rel(siteAbs, outAbs)
	skipOut := err == nil && !strings.HasPrefix(outRel, "..")
	outRel = filepath.ToSlash(outRel)

	var n int
	err = fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipOut && p == outRel {
				return fs.SkipDir
			}
			return nil
		}
		if built[p] {
			return nil
		}
		if _, err := writer.CopyAsset(fsys, p); err != nil {
			return err
		}
		n++
		return nil
	})
	return n, err
}
