// Package http serves the tool registry as a JSON HTTP API.
package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/scout/internal/logging"
	"github.com/aretw0/scout/pkg/domain"
	"github.com/aretw0/scout/pkg/tools"
)

// maxBodyBytes bounds a tool request body.
const maxBodyBytes = 1 << 20

// Dispatcher is the subset of tools.Dispatcher used by the server.
type Dispatcher interface {
	Call(ctx context.Context, req domain.ToolRequest) (*tools.Result, error)
	Registry() *tools.Registry
}

// Server routes HTTP requests to the dispatcher.
type Server struct {
	dispatcher Dispatcher
	gatherer   prometheus.Gatherer
	health     func(ctx context.Context) error
	version    string
	logger     *slog.Logger
}

// Option configures the handler.
type Option func(*Server)

// WithGatherer serves its metrics on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithHealthCheck makes /healthz report 503 when check fails.
func WithHealthCheck(check func(ctx context.Context) error) Option {
	return func(s *Server) {
		s.health = check
	}
}

// WithVersion sets the version reported by /healthz and the API document.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = strings.TrimSpace(v)
	}
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// NewHandler creates the HTTP handler.
func NewHandler(d Dispatcher, opts ...Option) http.Handler {
	s := &Server{dispatcher: d, version: "dev", logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/healthz", s.getHealth)
	r.Get("/tools", s.listTools)
	r.Post("/tools/{name}", s.callTool)
	r.Get("/openapi.json", s.getOpenAPI)
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerHTML))
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>scout API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.json',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

type toolInfo struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	ReadOnly    bool          `json:"readOnly"`
	Params      []tools.Param `json:"params"`
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health(r.Context()); err != nil {
			s.logger.Warn("health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": s.version})
}

func (s *Server) listTools(w http.ResponseWriter, r *http.Request) {
	list := s.dispatcher.Registry().List()
	out := make([]toolInfo, 0, len(list))
	for _, t := range list {
		params := t.Params
		if params == nil {
			params = []tools.Param{}
		}
		out = append(out, toolInfo{Name: t.Name, Description: t.Description, ReadOnly: t.ReadOnly, Params: params})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getOpenAPI(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, OpenAPI(s.dispatcher.Registry(), s.version))
}

func (s *Server) callTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	args := map[string]any{}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeToolError(w, tools.Errorf(tools.CodeInvalidParams, "reading request body: %v", err))
		return
	}
	if len(strings.TrimSpace(string(body))) > 0 {
		if err := json.Unmarshal(body, &args); err != nil {
			writeToolError(w, tools.Errorf(tools.CodeInvalidParams, "request body must be a JSON object: %v", err))
			return
		}
	}

	res, err := s.dispatcher.Call(r.Context(), domain.ToolRequest{Name: name, Arguments: args})
	if err != nil {
		writeToolError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, res.Text())
}

// StatusCode maps a tool error code onto an HTTP status.
func StatusCode(code tools.Code) int {
	switch code {
	case tools.CodeInvalidParams:
		return http.StatusBadRequest
	case tools.CodeMethodNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func writeToolError(w http.ResponseWriter, err error) {
	te := tools.Classify(err)
	writeJSON(w, StatusCode(te.Code), te)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
