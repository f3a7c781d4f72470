// Package server exposes the compile pipeline over HTTP for editor hosts
// that cannot link the library directly. Every request is one pure pipeline
// invocation; the server holds no document state.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/alvesvaren/trident/internal/arrow"
	"github.com/alvesvaren/trident/internal/driver"
	"github.com/alvesvaren/trident/internal/patch"
)

// Server wires the HTTP facade.
type Server struct {
	logger *log.Logger
	cache  *driver.DiskCache // nil disables caching
}

// New builds a server. A nil logger falls back to the default logger; the
// cache may be nil.
func New(logger *log.Logger, cache *driver.DiskCache) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{logger: logger, cache: cache}
}

// compileRequest is the body for /compile and /symbols.
type compileRequest struct {
	Source string `json:"source"`
}

// renameRequest is the body for /rename.
type renameRequest struct {
	Source string `json:"source"`
	Old    string `json:"old"`
	New    string `json:"new"`
}

// patchRequest is the body for /patch/{op}. Unused fields may be omitted.
type patchRequest struct {
	Source     string `json:"source"`
	ID         string `json:"id"`
	GroupIndex int    `json:"group_index"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
}

// sourceResponse carries a patched source back to the caller.
type sourceResponse struct {
	Source string `json:"source"`
}

// Router builds the chi handler tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealthz)
	r.Get("/arrows", s.handleArrows)
	r.Post("/compile", s.handleCompile)
	r.Post("/symbols", s.handleSymbols)
	r.Post("/rename", s.handleRename)
	r.Post("/patch/{op}", s.handlePatch)
	return r
}

// ListenAndServe starts the server on addr.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("listening", "addr", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start))
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleArrows(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, arrow.Registry())
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	var req compileRequest
	if !s.decode(w, r, &req) {
		return
	}
	var d *driver.Diagram
	if s.cache != nil {
		d = driver.CompileCached(s.cache, req.Source)
	} else {
		d = driver.Compile(req.Source)
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleSymbols(w http.ResponseWriter, r *http.Request) {
	var req compileRequest
	if !s.decode(w, r, &req) {
		return
	}
	syms := driver.Symbols(req.Source)
	if syms == nil {
		syms = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"symbols": syms})
}

func (s *Server) handleRename(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if !s.decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, sourceResponse{Source: patch.RenameSymbol(req.Source, req.Old, req.New)})
}

func (s *Server) handlePatch(w http.ResponseWriter, r *http.Request) {
	var req patchRequest
	if !s.decode(w, r, &req) {
		return
	}

	var out string
	switch op := chi.URLParam(r, "op"); op {
	case "class-pos":
		out = patch.UpdateClassPos(req.Source, req.ID, req.X, req.Y)
	case "group-pos":
		out = patch.UpdateGroupPos(req.Source, req.ID, req.GroupIndex, req.X, req.Y)
	case "geometry":
		w2, h2 := req.Width, req.Height
		if w2 == 0 {
			w2 = patch.Unset
		}
		if h2 == 0 {
			h2 = patch.Unset
		}
		out = patch.UpdateClassGeometry(req.Source, req.ID, req.X, req.Y, w2, h2)
	case "insert-node":
		out = patch.InsertImplicitNode(req.Source, req.ID, req.X, req.Y)
	case "remove-pos":
		out = patch.RemoveClassPos(req.Source, req.ID)
	case "remove-all-pos":
		out = patch.RemoveAllPos(req.Source)
	default:
		http.Error(w, "unknown patch operation: "+op, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, sourceResponse{Source: out})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		s.logger.Warn("bad request", "path", r.URL.Path, "err", err)
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
