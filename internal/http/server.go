// Package http serves the dashboard pages, the JSON API and the
// operational endpoints.
package http

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"slices"
	"sync"
	"time"

	"horas/internal/auth"
	"horas/internal/log"
	"horas/internal/metrics"
	"horas/internal/middleware/ratelimit"
	"horas/internal/middleware/security"
	"horas/internal/middleware/trace"
	"horas/internal/services"
	"horas/internal/session"
	appweb "horas/web"
)

// Deps are the collaborators of the server.
type Deps struct {
	Service  *services.DashboardService
	Auth     auth.Authenticator
	Sessions *session.Codec
	Metrics  *metrics.Metrics
	Logger   *log.Logger

	// LoginRateLimit caps POST requests per client IP per minute.
	LoginRateLimit int
}

type Server struct {
	http.Server
	templates *template.Template

	svc      *services.DashboardService
	auth     auth.Authenticator
	sessions *session.Codec
	metrics  *metrics.Metrics
	logger   *log.Logger

	limiter  *ratelimit.Limiter
	detector *security.Detector
	started  time.Time

	shutdownOnce sync.Once
}

var templateFuncs = template.FuncMap{
	"contains": func(list []string, v string) bool { return slices.Contains(list, v) },
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, deps Deps) (*Server, error) {
	if deps.Service == nil || deps.Auth == nil || deps.Sessions == nil {
		return nil, errors.New("http server: service, authenticator and session codec are required")
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}
	if deps.Logger == nil {
		deps.Logger = log.New(log.DefaultConfig())
	}

	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	static, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return nil, err
	}

	s := &Server{
		templates: t,
		svc:       deps.Service,
		auth:      deps.Auth,
		sessions:  deps.Sessions,
		metrics:   deps.Metrics,
		logger:    deps.Logger.WithComponent(log.ComponentHTTP),
		limiter:   ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: deps.LoginRateLimit}),
		detector:  security.NewDetector(),
		started:   time.Now(),
	}

	mux := http.NewServeMux()
	mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(http.StripPrefix("/static/", http.FileServer(http.FS(static)))))
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", s.metrics.Handler())

	mux.Handle("GET /{$}", security.NoStore(s.requirePage(s.handleDashboard)))
	mux.Handle("/login", security.NoStore(http.HandlerFunc(s.handleLogin)))
	mux.HandleFunc("/logout", s.handleLogout)
	mux.Handle("GET /filters", s.requirePage(s.handleFilters))
	mux.Handle("/filters/reset", s.requirePage(s.handleResetFilters))
	mux.Handle("/reload", s.requirePage(s.handleReload))
	mux.Handle("GET /api/dashboard", security.NoStore(s.requireAPI(s.handleAPIDashboard)))
	mux.Handle("GET /api/performers", security.NoStore(s.requireAPI(s.handleAPIPerformers)))

	tracer := trace.NewMiddleware(deps.Logger, s.detector.ExtractClientIP)
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limit := s.limiter.Middleware(s.detector.ExtractClientIP, s.handleRateLimited, http.MethodPost)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           tracer.Middleware(headers.Middleware(s.flagSuspicious(limit(mux)))),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// flagSuspicious logs requests that look like scans. They are still served.
func (s *Server) flagSuspicious(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.DetectSuspiciousRequest(r) {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Suspicious request",
				log.FieldComponent, log.ComponentSecurity,
				log.FieldPath, r.URL.Path,
				log.FieldClientIP, s.detector.ExtractClientIP(r),
				log.FieldUserAgent, r.Header.Get("User-Agent"))
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldComponent, log.ComponentRateLimit,
		log.FieldClientIP, s.detector.ExtractClientIP(r),
		log.FieldPath, r.URL.Path)
	http.Error(w, "Muitas tentativas. Tente novamente em instantes.", http.StatusTooManyRequests)
}

type sessionHandler func(http.ResponseWriter, *http.Request, session.State)

// readSession returns the request's session, Default when absent or invalid.
func (s *Server) readSession(r *http.Request) session.State {
	st, err := s.sessions.Read(r)
	if err != nil && !errors.Is(err, session.ErrNoSession) {
		log.FromContext(r.Context()).DebugContext(r.Context(), "Session rejected",
			log.FieldComponent, log.ComponentSession, log.FieldError, err.Error())
	}
	return st
}

// requirePage redirects anonymous visitors to the login page.
func (s *Server) requirePage(next sessionHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st := s.readSession(r)
		if !st.Authenticated {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r, st)
	})
}

// requireAPI answers anonymous API calls with 401.
func (s *Server) requireAPI(next sessionHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st := s.readSession(r)
		if !st.Authenticated {
			UnauthorizedError().Write(w)
			return
		}
		next(w, r, st)
	})
}

// saveSession writes st to the response cookie. Failures are logged; the
// previous cookie stays in place.
func (s *Server) saveSession(w http.ResponseWriter, r *http.Request, st session.State) bool {
	if err := s.sessions.Write(w, st); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Session write failed",
			log.FieldComponent, log.ComponentSession, log.FieldError, err.Error())
		return false
	}
	return true
}

// render executes the named page template into a buffer first, so that a
// template failure still produces a clean 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data pageData) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution failed",
			log.FieldComponent, log.ComponentTemplate,
			"template", name,
			log.FieldError, err.Error())
		http.Error(w, "erro ao montar a página", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
