// Package preview serves a site directory with pages assembled on each
// request. The "last seen" announcement date that a browser would keep in
// localStorage is kept in a cookie instead.
package preview

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/gaurav-prasanna/cardpipe/core/assemble"
	"github.com/gaurav-prasanna/cardpipe/crawl"
)

// LastSeenCookie holds the newest announcement date the visitor has seen.
const LastSeenCookie = "announcements_last_seen"

// Server assembles pages from a site file system.
type Server struct {
	fsys  fs.FS
	asm   *assemble.Assembler
	log   *slog.Logger
	files http.Handler
}

// New creates a preview Server.
func New(fsys fs.FS, asm *assemble.Assembler, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Server{
		fsys:  fsys,
		asm:   asm,
		log:   log,
		files: http.FileServer(http.FS(fsys)),
	}
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/*", s.handlePage)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	page := strings.TrimPrefix(r.URL.Path, "/")
	if page == "" || strings.HasSuffix(page, "/") {
		page += "index.html"
	}
	if !crawl.IsPage(page) {
		s.files.ServeHTTP(w, r)
		return
	}

	src, err := fs.ReadFile(s.fsys, page)
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.log.Error("read page", slog.String("page", page), slog.Any("err", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	req := assemble.Request{Page: page, Query: r.URL.Query()}
	if c, err := r.Cookie(LastSeenCookie); err == nil {
		req.LastSeen = c.Value
	}

	res, err := s.asm.Assemble(r.Context(), req, src)
	if err != nil {
		s.log.Error("assemble page", slog.String("page", page),
			slog.String("request_id", middleware.GetReqID(r.Context())), slog.Any("err", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if assemble.PageName(page) == assemble.AnnouncementsPage && res.Latest != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     LastSeenCookie,
			Value:    res.Latest,
			Path:     "/",
			Expires:  time.Now().AddDate(1, 0, 0),
			SameSite: http.SameSiteLaxMode,
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(res.HTML)
}
