// Package http serves the app's screens: login and signup, the home
// dashboard, the services catalog and the vehicle entry log.
package http

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"washlog/internal/cache"
	"washlog/internal/core"
	applog "washlog/internal/log"
	"washlog/internal/services"
	appweb "washlog/web"
)

// entriesView is one rendered slice of the entry log: the filtered entries
// plus their summary.
type entriesView struct {
	Entries []core.VehicleEntry
	Summary core.Summary
}

type Server struct {
	http.Server
	templates *template.Template
	auth      *services.Auth
	entries   *services.EntryLog

	rateLimiter *rateLimiter

	// Cached per-day, per-query views of the entry log. Purged wholesale
	// on every write, since any cached slice may include the new record.
	viewCache *cache.LRU[entriesView]
	janitor   *cache.Janitor

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run
// http.Server.
func NewServer(addr string, logger *applog.Logger, auth *services.Auth, entries *services.EntryLog, cacheSize int, cacheTTL time.Duration) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: applog.Middleware(logger.WithComponent(applog.ComponentHTTP))(mux),
		},
		auth:        auth,
		entries:     entries,
		rateLimiter: newRateLimiter(),
		viewCache:   cache.NewLRU[entriesView](cacheSize, cacheTTL),
		janitor:     cache.NewJanitor(),
	}
	s.janitor.Register(s.viewCache)
	s.janitor.Start(10 * time.Minute)

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	mux.HandleFunc("/", s.withSecurityHeaders(s.handleIndex))
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)
	mux.HandleFunc("/login", s.withSecurityHeaders(s.handleLogin))
	mux.HandleFunc("/signup", s.withSecurityHeaders(s.handleSignup))
	mux.HandleFunc("/logout", s.withSecurityHeaders(s.handleLogout))
	mux.HandleFunc("/services", s.withSecurityHeaders(s.handleServices))
	mux.HandleFunc("/entries", s.withSecurityHeaders(s.handleEntries))
	mux.HandleFunc("/entries/add", s.withSecurityHeaders(s.handleAddEntry))
	mux.HandleFunc("/entries/delete", s.withSecurityHeaders(s.handleDeleteEntry))

	return s
}

// Shutdown stops the sweep goroutines along with the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.janitor.Stop()
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting and request
// logging.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
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
		ctx := applog.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)
		lg := applog.FromContext(ctx)

		lg.InfoContext(ctx, "Request started",
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP) {
			lg.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		lg.InfoContext(ctx, "Request completed",
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
