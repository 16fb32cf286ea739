// Package http serves the dashboard and the HTMX partials it refreshes.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"outlay/internal/cache"
	applog "outlay/internal/log"
	"outlay/internal/services"
	"outlay/internal/summary"
	appweb "outlay/web"
)

type Server struct {
	http.Server
	templates   *template.Template
	svc         *services.ExpenseService
	rateLimiter *rateLimiter
	secMetrics  *securityMetrics

	// Derived views are memoized per store version: any mutation bumps the
	// version and naturally misses the cache.
	summaryCache  *cache.LRUCache[summary.ExpenseSummary]
	calendarCache *cache.LRUCache[calendarData]
	cacheManager  *cache.Manager

	startedAt    time.Time
	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, svc *services.ExpenseService) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		svc:           svc,
		rateLimiter:   newRateLimiter(),
		secMetrics:    &securityMetrics{},
		summaryCache:  cache.NewLRUCache[summary.ExpenseSummary](50, 5*time.Minute),
		calendarCache: cache.NewLRUCache[calendarData](200, 5*time.Minute),
		cacheManager:  cache.NewManager(),
		startedAt:     time.Now(),
	}

	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.Register(s.calendarCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	// Requests carry a component-scoped logger so handlers can enrich it.
	s.Server.Handler = applog.Middleware(applog.New(applog.Config{Component: applog.ComponentHTTP}))(mux)

	mux.HandleFunc("/", s.withSecurityHeaders(s.handleIndex))
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/expenses", s.withSecurityHeaders(s.handleCreateExpense))
	mux.HandleFunc("/expenses/quick", s.withSecurityHeaders(s.handleQuickAdd))
	mux.HandleFunc("/expenses/delete", s.withSecurityHeaders(s.handleDeleteExpense))
	mux.HandleFunc("/export.csv", s.withSecurityHeaders(s.handleExportCSV))
	// UI partials
	mux.HandleFunc("/ui/summary", s.withSecurityHeaders(s.handleSummary))
	mux.HandleFunc("/ui/calendar", s.withSecurityHeaders(s.handleCalendar))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting, and request logging.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP,
			"user_agent", r.Header.Get("User-Agent"))

		if detectSuspiciousRequest(r, s.secMetrics) {
			slog.WarnContext(ctx, "Suspicious request detected",
				"client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
		}

		// Rate limit mutations only; partial refreshes stay cheap.
		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP, s.secMetrics) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' https://unpkg.com 'unsafe-eval'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'")
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

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Server) versionKey(ctx context.Context, suffix string) (string, bool) {
	v, err := s.svc.Version(ctx)
	if err != nil {
		return "", false
	}
	return "v" + strconv.FormatInt(v, 10) + ":" + suffix, true
}

