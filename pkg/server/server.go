// Package server exposes the card pipeline over HTTP.
//
// Routes:
//
//	GET  /         plain-text banner
//	GET  /health   {"ok":true}
//	POST /render   JSON payload in, PNG out (?format=html|json for markup
//	               or the laid-out document)
//
// Failures are JSON {"ok":false,"code":...,"error":...}. Render failures map
// to 422 (overflow), 503 (backend unavailable), 504 (timeout) and 500.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/akellamp2020-create/lamp-card-render/pkg/config"
	apperrors "github.com/akellamp2020-create/lamp-card-render/pkg/errors"
	"github.com/akellamp2020-create/lamp-card-render/pkg/pipeline"
	"github.com/akellamp2020-create/lamp-card-render/pkg/render"
)

// Banner is the body of GET /.
const Banner = "LAMP renderer OK ✅\nUse POST /render or GET /health\n"

// emptyPayload stands in for a request without a body.
var emptyPayload = []byte("{}")

// Server serves the card pipeline.
type Server struct {
	runner   *pipeline.Runner
	cfg      config.ServerConfig
	viewport render.Viewport
	logger   *log.Logger
	router   chi.Router
}

// New builds a Server around runner. Render requests use the viewport from
// cfg.Render; limits and timeouts come from cfg.Server.
func New(runner *pipeline.Runner, cfg config.Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner:   runner,
		cfg:      cfg.Server,
		viewport: cfg.Render.Viewport,
		logger:   logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)
	r.Post("/render", s.handleRender)
	return r
}

// Handler returns the HTTP handler of the service.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on the configured address until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "timeout", s.cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, Banner)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	logger := loggerFrom(r.Context(), s.logger)

	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.DefaultFormat
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			err = apperrors.New(apperrors.ErrCodePayloadTooLarge, "payload exceeds %d bytes", tooLarge.Limit)
		} else {
			err = apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "read payload")
		}
		s.writeError(w, r, err)
		return
	}
	if len(bytes.TrimSpace(body)) == 0 {
		body = emptyPayload
	}
	if !json.Valid(body) {
		s.writeError(w, r, apperrors.New(apperrors.ErrCodeInvalidInput, "payload is not valid JSON"))
		return
	}

	ctx := r.Context()
	if s.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RequestTimeout)
		defer cancel()
	}

	res, err := s.runner.Execute(ctx, body, pipeline.Options{
		Format:   format,
		Viewport: s.viewport,
		Logger:   logger,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	logger.Debug("render result",
		"identity", res.Shapes.Identity,
		"rozmin", res.Shapes.Redistribution,
		"rozrahunok", res.Shapes.Settlement,
		"cards", res.Stats.Cards)

	w.Header().Set("Content-Type", res.ContentType)
	w.WriteHeader(http.StatusOK)
	w.Write(res.Artifact)
}

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	OK    bool   `json:"ok"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperrors.GetCode(err)
	if code == "" {
		code = apperrors.ErrCodeInternal
	}
	status := StatusFor(code)

	logger := loggerFrom(r.Context(), s.logger)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "code", code, "error", err)
	} else {
		logger.Warn("request rejected", "code", code, "error", err)
	}

	writeJSON(w, status, errorResponse{OK: false, Code: string(code), Error: apperrors.UserMessage(err)})
}

// StatusFor maps an error code to its HTTP status.
func StatusFor(code apperrors.Code) int {
	switch code {
	case apperrors.ErrCodeInvalidInput, apperrors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case apperrors.ErrCodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case apperrors.ErrCodeRenderOverflow:
		return http.StatusUnprocessableEntity
	case apperrors.ErrCodeRenderUnavailable:
		return http.StatusServiceUnavailable
	case apperrors.ErrCodeRenderTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
