// Package api exposes the cut-generation pipeline over HTTP.
//
// The server wraps a [pipeline.Runner] and serves JSON endpoints:
//
//	POST /v1/cuts   - run the pipeline, return generated cuts
//	POST /v1/graph  - render the problem's constraint graph
//	GET  /healthz   - liveness probe
//
// Requests carry the full problem text, so the server is stateless and
// horizontally scalable; only the cache is shared.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mircut/mircut/pkg/cache"
	apperrors "github.com/mircut/mircut/pkg/errors"
	"github.com/mircut/mircut/pkg/mps"
	"github.com/mircut/mircut/pkg/pipeline"
	"github.com/mircut/mircut/pkg/render"
)

// Server serves the pipeline over HTTP.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	addr   string
}

// NewServer builds a server around the runner. A nil logger falls back
// to the runner's logger.
func NewServer(runner *pipeline.Runner, cfg pipeline.ServerConfig, logger *log.Logger) *Server {
	if logger == nil {
		logger = runner.Logger
	}
	return &Server{
		runner: runner,
		logger: logger,
		addr:   cfg.ListenAddr(),
	}
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/cuts", s.handleCuts)
		r.Post("/graph", s.handleGraph)
	})
	return r
}

// ListenAndServe runs the server until the context is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errc:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCuts(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		writeError(w, http.StatusBadRequest, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "decode request"))
		return
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		var inErr *pipeline.InputError
		if errors.As(err, &inErr) {
			writeError(w, http.StatusUnprocessableEntity, apperrors.Wrap(apperrors.ErrCodeInvalidInput, inErr.Err, "run pipeline"))
			return
		}
		s.logger.Error("pipeline failed", "err", err)
		writeError(w, http.StatusInternalServerError, apperrors.Wrap(apperrors.ErrCodeInternal, err, "run pipeline"))
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GraphRequest asks for a constraint-graph rendering of a problem.
type GraphRequest struct {
	ProblemMPS string `json:"problem_mps"`

	// Format is "dot" (default) or "svg".
	Format string `json:"format,omitempty"`

	Detailed bool `json:"detailed,omitempty"`
	MaxRows  int  `json:"max_rows,omitempty"`
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	var req GraphRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	if req.ProblemMPS == "" {
		writeError(w, http.StatusUnprocessableEntity, apperrors.New(apperrors.ErrCodeInvalidInput, "problem_mps is required"))
		return
	}

	modelHash := cache.Hash([]byte(req.ProblemMPS))
	key := s.runner.Keyer.RenderKey(modelHash, cache.RenderKeyOpts{
		Format:  req.Format,
		MaxRows: req.MaxRows,
	})

	contentType := "text/vnd.graphviz"
	if req.Format == "svg" {
		contentType = "image/svg+xml"
	}

	if data, hit, err := s.runner.Cache.Get(r.Context(), key); err == nil && hit {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		w.Write(data)
		return
	}

	model, err := mps.Read(strings.NewReader(req.ProblemMPS))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "parse problem"))
		return
	}

	out, err := render.Render(model, req.Format, render.Options{
		Detailed: req.Detailed,
		MaxRows:  req.MaxRows,
	})
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, apperrors.Wrap(apperrors.ErrCodeUnsupported, err, "render graph"))
		return
	}

	_ = s.runner.Cache.Set(r.Context(), key, out, cache.TTLRender)

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}

// logRequests logs each request with its status and duration.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"id", middleware.GetReqID(r.Context()))
	})
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{
		Error: apperrors.UserMessage(err),
		Code:  string(apperrors.GetCode(err)),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
