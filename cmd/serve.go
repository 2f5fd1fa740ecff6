// Runs the preview server until interrupted.

package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/cardpipe/core/assemble"
	"github.com/gaurav-prasanna/cardpipe/core/preview"
	"github.com/gaurav-prasanna/cardpipe/core/site"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the site with fragments rendered on every request",
	Long: `Serve assembles each requested page on the fly, so edits to the JSON data or
partials show up on reload. Other files are served as-is.

Examples:
  cardpipe serve --site ./public --addr :8080`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Listen address")
	_ = v.BindPFlag("serve.addr", serveCmd.Flags().Lookup("addr"))
}

func runServe(cmd *cobra.Command, args []string) error {
	fsys := os.DirFS(cfg.SiteDir)
	fetcher, err := newFetcher()
	if err != nil {
		return err
	}
	r := site.New(fetcher, log)
	r.FallbackLang = cfg.DefaultLang
	asm := assemble.New(fetcher, r, log, cfg.AnnouncementsPath, cfg.PoliciesDir)

	httpServer := &http.Server{
		Addr:              cfg.ServeAddr,
		Handler:           preview.New(fsys, asm, log).Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.FetchTimeout + 15*time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("preview server starting", slog.String("addr", cfg.ServeAddr), slog.String("site", cfg.SiteDir))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
