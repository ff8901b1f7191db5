// Package api exposes the positioning solver over HTTP.
//
// Frontends that cannot run the solver locally (or that want to compare
// their placement against a reference) POST their measurements to
// /v1/solve and get the placement back. Every solve is recorded to the
// configured trace store so layout bugs can be replayed offline via the
// /v1/traces endpoints.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/fieldmark/popover/pkg/popover"
	"github.com/fieldmark/popover/pkg/trace"
)

// Error codes returned in the error envelope.
const (
	codeInvalidRequest = "INVALID_REQUEST"
	codeNotFound       = "NOT_FOUND"
	codeInternal       = "INTERNAL_ERROR"
)

// defaultListLimit bounds GET /v1/traces responses.
const defaultListLimit = 50

// Server handles solve and trace requests.
type Server struct {
	store  trace.Store
	logger *log.Logger
}

// NewServer creates a server recording to the given trace store. A nil
// store disables recording; solves still work.
func NewServer(store trace.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{store: store, logger: logger}
}

// Router builds the HTTP routing table.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/solve", s.handleSolve)
		r.Get("/traces", s.handleListTraces)
		r.Get("/traces/{id}", s.handleGetTrace)
	})
	return r
}

// solveResponse wraps the placement with the recorded trace ID, when
// recording is enabled.
type solveResponse struct {
	TraceID   string            `json:"trace_id,omitempty"`
	Placement popover.Placement `json:"placement"`
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req popover.SolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, codeInvalidRequest, "malformed request body")
		return
	}
	if req.Viewport.Width <= 0 || req.Viewport.Height <= 0 {
		s.writeError(w, http.StatusBadRequest, codeInvalidRequest, "viewport dimensions must be positive")
		return
	}

	resp := solveResponse{Placement: req.Solve()}

	if s.store != nil {
		tr := trace.New(req, resp.Placement)
		if err := s.store.Put(r.Context(), tr); err != nil {
			// Recording is best-effort; the solve result still stands.
			s.logger.Warn("record trace", "err", err)
		} else {
			resp.TraceID = tr.ID
		}
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetTrace(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, http.StatusNotFound, codeNotFound, "trace recording is disabled")
		return
	}

	id := chi.URLParam(r, "id")
	tr, err := s.store.Get(r.Context(), id)
	if errors.Is(err, trace.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, codeNotFound, "no such trace")
		return
	}
	if err != nil {
		s.logger.Error("get trace", "id", id, "err", err)
		s.writeError(w, http.StatusInternalServerError, codeInternal, "trace lookup failed")
		return
	}
	s.writeJSON(w, http.StatusOK, tr)
}

func (s *Server) handleListTraces(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeJSON(w, http.StatusOK, []*trace.Trace{})
		return
	}

	traces, err := s.store.List(r.Context(), defaultListLimit)
	if err != nil {
		s.logger.Error("list traces", "err", err)
		s.writeError(w, http.StatusInternalServerError, codeInternal, "trace listing failed")
		return
	}
	if traces == nil {
		traces = []*trace.Trace{}
	}
	s.writeJSON(w, http.StatusOK, traces)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// errorResponse is the error envelope: a machine-readable code plus a
// human-readable message.
type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, status int, code, message string) {
	var resp errorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	s.writeJSON(w, status, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

// logRequests logs each request with its duration.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"elapsed", time.Since(start).Round(time.Microsecond),
		)
	})
}
