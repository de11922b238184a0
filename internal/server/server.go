// Package server exposes the generated output directory over HTTP with a
// 404 fallback, panic recovery and bind-conflict port retry.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
)

const notFoundBody = `<!DOCTYPE html>
<html><head><title>404 Not Found</title></head>
<body><h1>404 Not Found</h1><p>No page exists at this path.</p></body></html>
`

// Server serves files under a site output root.
type Server struct {
	root       string
	port       int
	maxRetries int

	ln      net.Listener
	httpSrv *http.Server
}

// New creates a Server for the given output root. port is the first port
// tried; on a bind conflict the next higher ports are tried up to maxRetries
// attempts in total.
func New(root string, port, maxRetries int) *Server {
	if maxRetries <= 0 {
		maxRetries = 1
	}
	return &Server{root: root, port: port, maxRetries: maxRetries}
}

// Port returns the port actually bound. Valid after Start succeeds.
func (s *Server) Port() int { return s.port }

// Start binds a listener (retrying on the next higher port when one is
// already in use) and begins serving in the background.
func (s *Server) Start(ctx context.Context) error {
	ln, port, err := s.bindWithRetry()
	if err != nil {
		return err
	}
	s.ln = ln
	s.port = port

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/", s.handleFile)

	s.httpSrv = &http.Server{
		Handler:           loggingMiddleware(recoveryMiddleware(mux)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server terminated", logfields.Error(err))
		}
	}()

	slog.Info("Serving site", logfields.Port(port), slog.String("url", fmt.Sprintf("http://localhost:%d", port)))
	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) bindWithRetry() (net.Listener, int, error) {
	var lastErr error
	for i := 0; i < s.maxRetries; i++ {
		port := s.port + i
		ln, err := net.Listen("tcp", ":"+strconv.Itoa(port))
		if err == nil {
			return ln, port, nil
		}
		lastErr = err
		slog.Warn("Port unavailable; trying next", logfields.Port(port), logfields.Error(err))
	}
	return nil, 0, fmt.Errorf("no free port in range %d-%d: %w", s.port, s.port+s.maxRetries-1, lastErr)
}

// handleFile looks up <root><request-path>; an existing regular file is
// served as text/html, anything else gets the 404 page.
func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	reqPath := filepath.Clean("/" + strings.TrimPrefix(r.URL.Path, "/"))
	target := filepath.Join(s.root, reqPath)

	st, err := os.Stat(target)
	if err != nil || st.IsDir() {
		s.writeNotFound(w)
		return
	}

	data, err := os.ReadFile(target)
	if err != nil {
		s.writeNotFound(w)
		return
	}

	metrics.RequestsTotal.WithLabelValues("200").Inc()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(data)
}

func (s *Server) writeNotFound(w http.ResponseWriter) {
	metrics.RequestsTotal.WithLabelValues("404").Inc()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = fmt.Fprint(w, notFoundBody)
}

// statusRecorder captures the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware logs method, path, status and duration for every request.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		slog.Debug("HTTP request",
			logfields.Method(r.Method),
			logfields.Path(r.URL.Path),
			logfields.Status(wrapped.status),
			logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	})
}

// recoveryMiddleware converts a per-request panic into a 500 response so no
// request can crash the serving process.
func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("HTTP handler panic",
					logfields.Method(r.Method),
					logfields.Path(r.URL.Path),
					slog.Any("panic", rec))
				metrics.RequestsTotal.WithLabelValues("500").Inc()
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = fmt.Fprintf(w, "<html><body><h1>500 Internal Server Error</h1><p>%v</p></body></html>", rec)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
