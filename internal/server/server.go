// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the data directory of the curator over HTTP so
// reviewers can open their pages, and lets an operator trigger a run and
// scrape its metrics.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spug/newsletter/internal/render"
	"github.com/spug/newsletter/internal/runner"
)

// RunFunc performs one curation run.
type RunFunc func(ctx context.Context) (runner.Summary, error)

// Server serves the files of one data directory.
type Server struct {
	DataDir string
	// Run is called by POST /runs. Nil disables the endpoint.
	Run      RunFunc
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger

	running sync.Mutex
}

// New returns a Server for dataDir.
func New(dataDir string, run RunFunc, gatherer prometheus.Gatherer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{DataDir: dataDir, Run: run, Gatherer: gatherer, Logger: logger}
}

// NewHTTPServer wraps the server's handler in an *http.Server bound to addr.
func NewHTTPServer(addr string, s *Server) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	if s.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/days", s.listDays)
	r.Get("/days/{day}", s.getDay)
	r.Get("/reviewers/{name}", s.getReviewer)
	r.Get("/runs/latest", s.latestRun)
	r.Post("/runs", s.startRun)
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.Logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

const (
	dayFilePrefix = "tweets for "
	dayFileSuffix = ".json"
)

func (s *Server) listDays(w http.ResponseWriter, _ *http.Request) {
	entries, err := os.ReadDir(s.DataDir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	days := []string{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, dayFilePrefix) || !strings.HasSuffix(name, dayFileSuffix) {
			continue
		}
		day := strings.TrimSuffix(strings.TrimPrefix(name, dayFilePrefix), dayFileSuffix)
		if _, err := time.Parse(time.DateOnly, day); err == nil {
			days = append(days, day)
		}
	}
	slices.Sort(days)
	writeJSON(w, http.StatusOK, map[string][]string{"days": days})
}

func (s *Server) getDay(w http.ResponseWriter, r *http.Request) {
	day := chi.URLParam(r, "day")
	if _, err := time.Parse(time.DateOnly, day); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("day must be YYYY-MM-DD"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	s.serveFile(w, r, dayFilePrefix+day+dayFileSuffix)
}

func (s *Server) getReviewer(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil || name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		writeError(w, http.StatusBadRequest, errors.New("invalid reviewer name"))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	s.serveFile(w, r, render.FileName(name))
}

func (s *Server) serveFile(w http.ResponseWriter, r *http.Request, name string) {
	path := filepath.Join(s.DataDir, name)
	if _, err := os.Stat(path); err != nil {
		w.Header().Del("Content-Type")
		if errors.Is(err, os.ErrNotExist) {
			writeError(w, http.StatusNotFound, errors.New("not found"))
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	http.ServeFile(w, r, path)
}

func (s *Server) latestRun(w http.ResponseWriter, _ *http.Request) {
	sum, err := runner.ReadManifest(filepath.Join(s.DataDir, runner.ManifestFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			writeError(w, http.StatusNotFound, errors.New("no run recorded"))
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) startRun(w http.ResponseWriter, r *http.Request) {
	if s.Run == nil {
		writeError(w, http.StatusNotImplemented, errors.New("runs are disabled"))
		return
	}
	if !s.running.TryLock() {
		writeError(w, http.StatusConflict, errors.New("a run is already in progress"))
		return
	}
	defer s.running.Unlock()

	sum, err := s.Run(r.Context())
	if err != nil {
		s.Logger.Error("run failed", "error", err)
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusCreated, sum)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
