package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/five82/shopkeep/internal/catalog"
	"github.com/five82/shopkeep/internal/config"
	"github.com/five82/shopkeep/internal/export"
	"github.com/five82/shopkeep/internal/render"
	"github.com/five82/shopkeep/internal/state"
	"github.com/five82/shopkeep/internal/view"
)

// ServerConfig configures the HTML view.
type ServerConfig struct {
	Store   *state.Store
	PerPage int
	APIURL  string
	Logger  *zap.Logger
}

// Server renders the shared catalog for browsers. Every request builds its
// own view state; the store is only read.
type Server struct {
	cfg    ServerConfig
	logger *zap.Logger
	tmpl   *template.Template
}

// NewServer validates cfg and parses the page template.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Store == nil {
		return nil, errors.New("web: missing store")
	}
	if cfg.PerPage <= 0 {
		cfg.PerPage = view.DefaultPerPage
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	tmpl, err := template.New("index").Parse(indexHTML)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}

	return &Server{cfg: cfg, logger: logger, tmpl: tmpl}, nil
}

// Handler returns the routes wrapped with security headers and request
// logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", s.handleIndex)
	mux.HandleFunc("GET /export.csv", s.handleExport)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /static/app.css", s.handleCSS)
	return s.withRequestLog(withSecurityHeaders(mux))
}

type perPageOption struct {
	Value    int
	Selected bool
}

type indexModel struct {
	APIURL    string
	Query     Query
	Table     template.HTML
	Summary   string
	ExportURL string
	PerPage   []perPageOption
	Unsynced  int
	LastError string
}

// build applies q to a fresh view state over the current catalog.
func (s *Server) build(q Query) (render.Page, []catalog.Product, state.Snapshot) {
	snap := s.cfg.Store.Snapshot()
	vs := view.New(q.PerPage)
	vs.SetProducts(snap.Products)
	q.Apply(vs)
	return render.Build(vs.Snapshot(), snap.Unsynced), vs.PageItems(), snap
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	q := ParseQuery(r.URL.Query(), s.cfg.PerPage)
	page, _, snap := s.build(q)
	q.Page = page.Pager.Page

	var table bytes.Buffer
	err := render.WriteHTML(&table, page, render.Links{
		Page: func(n int) string { return q.WithPage(n).Href("/") },
		Sort: func(key view.SortKey) string { return q.WithSort(key).Href("/") },
	})
	if err != nil {
		s.logger.Error("render table failed", zap.Error(err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	model := indexModel{
		APIURL:    s.cfg.APIURL,
		Query:     q,
		Table:     template.HTML(table.String()), // escaped by render.WriteHTML
		Summary:   summary(page),
		ExportURL: q.Href("/export.csv"),
		PerPage:   perPageOptions(page.PerPage),
		Unsynced:  len(snap.Unsynced),
	}
	if snap.LastError != nil {
		model.LastError = snap.LastError.Error()
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := s.tmpl.Execute(w, model); err != nil {
		s.logger.Warn("write page failed", zap.Error(err))
	}
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	q := ParseQuery(r.URL.Query(), s.cfg.PerPage)
	_, items, _ := s.build(q)

	var body bytes.Buffer
	if err := export.WritePage(&body, items); err != nil {
		s.logger.Error("export failed", zap.Error(err))
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName))
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(body.Bytes())
	s.logger.Info("page exported", zap.Int("rows", len(items)), zap.String("remote", r.RemoteAddr))
}

type healthResponse struct {
	Status    string `json:"status"`
	Products  int    `json:"products"`
	Unsynced  int    `json:"unsynced"`
	LastError string `json:"lastError,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	snap := s.cfg.Store.Snapshot()
	resp := healthResponse{
		Status:   "ok",
		Products: len(snap.Products),
		Unsynced: len(snap.Unsynced),
	}
	if snap.LastError != nil {
		resp.Status = "degraded"
		resp.LastError = snap.LastError.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Warn("write health failed", zap.Error(err))
	}
}

func (s *Server) handleCSS(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(appCSS))
}

func summary(p render.Page) string {
	if p.Total == 0 {
		return "Showing 0 of 0"
	}
	text := fmt.Sprintf("Showing %d-%d of %d", p.From, p.To, p.Total)
	if p.Search != "" && p.Total != p.CatalogSize {
		text += fmt.Sprintf(" (filtered from %d)", p.CatalogSize)
	}
	return text
}

func perPageOptions(current int) []perPageOption {
	choices := config.PerPageChoices
	opts := make([]perPageOption, 0, len(choices)+1)
	found := false
	for _, c := range choices {
		opts = append(opts, perPageOption{Value: c, Selected: c == current})
		found = found || c == current
	}
	if !found {
		opts = append(opts, perPageOption{Value: current, Selected: true})
	}
	return opts
}

func withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; img-src 'self' https: data:; style-src 'self'; base-uri 'none'; frame-ancestors 'none'")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for the request log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}
