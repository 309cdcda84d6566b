package http

import (
	"errors"
	"net/http"
	"time"

	"horas/internal/auth"
	"horas/internal/log"
	"horas/internal/metrics"
	"horas/internal/session"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	}).Write(w)
}

// handleReady reports whether the server can render pages. The data source
// is not contacted.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"templates": "ok", "rate_limiter": "ok"}
	status, code := "ready", http.StatusOK
	for _, name := range []string{"login.html", "dashboard.html"} {
		if s.templates.Lookup(name) == nil {
			checks["templates"] = "missing " + name
			status, code = "not_ready", http.StatusServiceUnavailable
		}
	}
	NewResponse().Status(code).JSON(map[string]any{
		"status":         status,
		"timestamp":      time.Now().Format(time.RFC3339),
		"checks":         checks,
		"active_clients": s.limiter.ActiveClients(),
	}).Write(w)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet, http.MethodPost); resp != nil {
		resp.Write(w)
		return
	}

	st := s.readSession(r)
	if r.Method == http.MethodGet {
		if st.Authenticated {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		s.render(w, r, http.StatusOK, "login.html", pageData{Title: "Entrar"})
		return
	}

	ctx := r.Context()
	logger := log.FromContext(ctx)
	if err := r.ParseForm(); err != nil {
		s.render(w, r, http.StatusBadRequest, "login.html", pageData{Title: "Entrar", Error: "Formulário inválido."})
		return
	}
	username := sanitizeInput(r.PostForm.Get("username"))
	password := r.PostForm.Get("password")

	err := s.auth.Authenticate(ctx, username, password)
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrInvalidCredentials):
		s.metrics.ObserveLogin(metrics.OutcomeInvalid)
		logger.WarnContext(ctx, "Login rejected",
			log.FieldComponent, log.ComponentAuth,
			log.FieldOperation, log.OpLogin,
			log.FieldUsername, username)
		s.render(w, r, http.StatusUnauthorized, "login.html", pageData{
			Title:     "Entrar",
			Error:     "Usuário ou senha incorretos.",
			LoginUser: username,
		})
		return
	default:
		s.metrics.ObserveLogin(metrics.OutcomeAuthError)
		logger.ErrorContext(ctx, "Login failed",
			log.FieldComponent, log.ComponentAuth,
			log.FieldOperation, log.OpLogin,
			log.FieldErrorType, log.ErrorTypeAuth,
			log.FieldError, err.Error())
		s.render(w, r, http.StatusInternalServerError, "login.html", pageData{Title: "Entrar", Error: "Não foi possível verificar as credenciais."})
		return
	}

	if !s.saveSession(w, r, st.Login(username)) {
		s.metrics.ObserveLogin(metrics.OutcomeAuthError)
		s.render(w, r, http.StatusInternalServerError, "login.html", pageData{Title: "Entrar", Error: "Não foi possível iniciar a sessão."})
		return
	}
	s.metrics.ObserveLogin(metrics.OutcomeLoginSuccess)
	logger.InfoContext(ctx, "Login succeeded",
		log.FieldComponent, log.ComponentAuth,
		log.FieldOperation, log.OpLogin,
		log.FieldUsername, username)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodPost); resp != nil {
		resp.Write(w)
		return
	}
	st := s.readSession(r)
	s.sessions.Clear(w)
	if st.Authenticated {
		log.FromContext(r.Context()).InfoContext(r.Context(), "Logout",
			log.FieldComponent, log.ComponentAuth,
			log.FieldOperation, log.OpLogout,
			log.FieldUsername, st.Username)
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// pageFor starts the data of an authenticated page.
func pageFor(title string, st session.State) pageData {
	return pageData{Title: title, Username: st.Username}
}
