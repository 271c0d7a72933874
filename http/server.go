package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/starchen4/pptstealer"
)

// DefaultMaxRequestSize caps the JSON request body.
const DefaultMaxRequestSize = 1 << 20

// Server exposes a pptstealer.Converter over HTTP.
//
//	POST /api/process         responds with the PDF, or a JSON error
//	POST /api/process/stream  responds with server-sent progress events
//	GET  /health              liveness check
type Server struct {
	router    chi.Router
	converter pptstealer.Converter
	rules     pptstealer.FilterRules
	logger    *slog.Logger
	staticDir string
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithDefaultRules sets the rules that request filters are merged onto.
// Defaults to pptstealer.DefaultFilterRules().
func WithDefaultRules(rules pptstealer.FilterRules) ServerOption {
	return func(s *Server) {
		s.rules = rules
	}
}

// WithLogger sets the logger for request and error logging.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithStaticDir serves the files in dir (a built web frontend) at the root.
func WithStaticDir(dir string) ServerOption {
	return func(s *Server) {
		s.staticDir = dir
	}
}

// NewServer creates a new Server backed by converter.
func NewServer(converter pptstealer.Converter, opts ...ServerOption) *Server {
	s := &Server{
		converter: converter,
		rules:     pptstealer.DefaultFilterRules(),
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(allowAllOrigins)

	r.Get("/health", s.handleHealth)
	r.Route("/api/process", func(r chi.Router) {
		r.Post("/", s.handleProcess)
		r.Post("/stream", s.handleProcessStream)
	})
	if s.staticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(s.staticDir)))
	}

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// processRequest is the JSON body accepted by both process endpoints.
type processRequest struct {
	URL     string          `json:"url"`
	Filters json.RawMessage `json:"filters"`
}

// errorResponse is the JSON body returned on failure.
type errorResponse struct {
	ErrorType string `json:"error_type"`
	Detail    string `json:"detail"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	sourceURL, rules, err := s.decodeRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.converter.Convert(r.Context(), sourceURL, rules, nil)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": result.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Document)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Document)
}

func (s *Server) handleProcessStream(w http.ResponseWriter, r *http.Request) {
	sourceURL, rules, err := s.decodeRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, r, errors.New("response writer does not support flushing"))
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// The run stops reporting once the client is gone, so the goroutine
	// below never blocks on a reader that has left.
	events := make(chan pptstealer.Event, 16)
	reporter := pptstealer.ReporterFunc(func(ev pptstealer.Event) {
		select {
		case events <- ev:
		case <-ctx.Done():
		}
	})
	go func() {
		defer close(events)
		_, _ = s.converter.Convert(ctx, sourceURL, rules, reporter)
	}()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for ev := range events {
		if ctx.Err() != nil {
			continue
		}
		data, err := json.Marshal(ev)
		if err != nil {
			s.logger.Error("encode event", "err", err)
			cancel()
			continue
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			cancel()
			continue
		}
		flusher.Flush()
	}
}

// decodeRequest parses the request body and merges its filters onto the
// server's default rules. Fields missing from the request keep their default.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (string, pptstealer.FilterRules, error) {
	r.Body = http.MaxBytesReader(w, r.Body, DefaultMaxRequestSize)

	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", pptstealer.FilterRules{}, pptstealer.Errorf(pptstealer.EINVALID, "invalid request body: %v", err)
	}
	if req.URL == "" {
		return "", pptstealer.FilterRules{}, pptstealer.Errorf(pptstealer.EINVALID, "url required")
	}

	rules := s.rules
	rules.AllowedDomains = slices.Clone(s.rules.AllowedDomains)
	if len(req.Filters) > 0 && string(req.Filters) != "null" {
		if err := json.Unmarshal(req.Filters, &rules); err != nil {
			return "", pptstealer.FilterRules{}, pptstealer.Errorf(pptstealer.EINVALID, "invalid filters: %v", err)
		}
	}
	if err := rules.Validate(); err != nil {
		return "", pptstealer.FilterRules{}, err
	}

	return req.URL, rules, nil
}

// writeError writes err as a JSON error response with a status derived from its code.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, message := pptstealer.ErrorCode(err), pptstealer.ErrorMessage(err)

	if code == pptstealer.EINTERNAL {
		s.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"err", err,
		)
	}

	writeJSON(w, errorStatusCode(code), errorResponse{ErrorType: code, Detail: message})
}

// errorStatusCode maps an application error code to an HTTP status code.
func errorStatusCode(code string) int {
	switch code {
	case pptstealer.EINVALID:
		return http.StatusBadRequest
	case pptstealer.EFETCH:
		return http.StatusBadGateway
	case pptstealer.ENOIMAGES, pptstealer.EFILTEREDOUT, pptstealer.ENOVALIDIMAGES:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// logRequests logs one line per request once the response is written.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func(begin time.Time) {
			s.logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(begin),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}(time.Now())
		next.ServeHTTP(ww, r)
	})
}

// allowAllOrigins lets any origin call the API, answering preflight requests directly.
func allowAllOrigins(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		h.Set("Access-Control-Expose-Headers", "Content-Disposition")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
