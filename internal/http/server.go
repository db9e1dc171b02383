// Package http wires the web UI: route registration, template rendering,
// request logging and the middleware every page shares.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"paisa/internal/chart"
	"paisa/internal/entry"
	appweb "paisa/web"
)

// months backs the report filter dropdowns, full English names as the
// filter parser expects them.
var months = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

type Server struct {
	http.Server
	templates *template.Template
	expenses  *entry.Expenses
	savings   *entry.Savings
	charts    *chart.Store

	// ready reports whether the backing store answers; nil means always ready.
	ready func(ctx context.Context) error

	now func() time.Time
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, expenses *entry.Expenses, savings *entry.Savings, charts *chart.Store, ready func(ctx context.Context) error) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		expenses: expenses,
		savings:  savings,
		charts:   charts,
		ready:    ready,
		now:      time.Now,
	}

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /{$}", s.withMiddleware(s.handleIndex))

	mux.HandleFunc("GET /add_expense", s.withMiddleware(s.handleAddExpenseForm))
	mux.HandleFunc("POST /add_expense", s.withMiddleware(s.handleAddExpense))
	mux.HandleFunc("GET /edit_expense/{id}", s.withMiddleware(s.handleEditExpenseForm))
	mux.HandleFunc("POST /edit_expense/{id}", s.withMiddleware(s.handleEditExpense))
	mux.HandleFunc("POST /delete_expense/{id}", s.withMiddleware(s.handleDeleteExpense))
	mux.HandleFunc("GET /expense_report", s.withMiddleware(s.handleExpenseReport))

	mux.HandleFunc("GET /add_saving", s.withMiddleware(s.handleAddSavingForm))
	mux.HandleFunc("POST /add_saving", s.withMiddleware(s.handleAddSaving))
	mux.HandleFunc("GET /edit_saving/{id}", s.withMiddleware(s.handleEditSavingForm))
	mux.HandleFunc("POST /edit_saving/{id}", s.withMiddleware(s.handleEditSaving))
	mux.HandleFunc("POST /delete_saving/{id}", s.withMiddleware(s.handleDeleteSaving))
	mux.HandleFunc("GET /saving_report", s.withMiddleware(s.handleSavingReport))

	mux.HandleFunc("GET /charts/{name}", s.withMiddleware(s.handleChart))
	mux.HandleFunc("GET /export/{kind}", s.withMiddleware(s.handleExport))

	return s
}

// withMiddleware adds security headers and request logging to responses.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP,
			"user_agent", r.Header.Get("User-Agent"))

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self'; img-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"client_ip", clientIP)
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			slog.ErrorContext(r.Context(), "Readiness check failed", "error", err)
			http.Error(w, "store unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "index.html", nil)
}

// handleChart serves the most recent chart PNG rendered by a report page.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	img, ok := s.charts.Get(name)
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(img)
}

// render executes the named template, answering 500 when templates failed to
// parse at startup or the execution itself errors.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution failed", "error", err, "template", name)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
