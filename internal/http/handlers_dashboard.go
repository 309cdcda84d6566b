package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"horas/internal/log"
	"horas/internal/services"
	"horas/internal/session"
)

// renderTimeout bounds one render: both downloads plus the aggregation.
const renderTimeout = 60 * time.Second

// handleDashboard renders the main dashboard page with the session filters.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request, st session.State) {
	s.renderDashboard(w, r, st, http.StatusOK, "")
}

// renderDashboard loads the data and renders the page. A non-empty notice is
// shown above the data with status. Pipeline failures replace the data with
// an error banner.
func (s *Server) renderDashboard(w http.ResponseWriter, r *http.Request, st session.State, status int, notice string) {
	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	data := pageFor("Painel", st)
	data.Notice = notice

	d, err := s.svc.Render(ctx, st.Filters)
	if err != nil {
		code, msg := renderFailure(err)
		data.Error = msg
		data.Filters = newFilterForm(st.Filters, nil)
		s.render(w, r, code, "dashboard.html", data)
		return
	}

	data.Filters = newFilterForm(st.Filters, d)
	data.Dash = newDashboardView(d)
	s.render(w, r, status, "dashboard.html", data)
}

// renderFailure maps a pipeline error to a status and a banner message.
func renderFailure(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrSourceUnavailable):
		return http.StatusBadGateway, "Não foi possível obter as planilhas: " + err.Error()
	case errors.Is(err, services.ErrInvalidData):
		return http.StatusUnprocessableEntity, "As planilhas contêm dados inválidos: " + err.Error()
	default:
		return http.StatusInternalServerError, "Erro inesperado: " + err.Error()
	}
}

// handleFilters stores the selections of the query string in the session
// and redirects to the dashboard.
func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request, st session.State) {
	spec, err := ParseFilterSpec(r.URL.Query(), st.Filters)
	if err != nil {
		s.renderDashboard(w, r, st, http.StatusBadRequest, "Filtro inválido: "+err.Error())
		return
	}

	log.FromContext(r.Context()).DebugContext(r.Context(), "Filters applied",
		log.FieldOperation, log.OpFilter,
		log.FieldFilters, spec)

	if !s.saveSession(w, r, st.WithFilters(spec)) {
		s.renderDashboard(w, r, st, http.StatusInternalServerError, "Não foi possível salvar os filtros.")
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleResetFilters puts every filter back to its default.
func (s *Server) handleResetFilters(w http.ResponseWriter, r *http.Request, st session.State) {
	if resp := RequireMethod(r, http.MethodPost); resp != nil {
		resp.Write(w)
		return
	}
	log.FromContext(r.Context()).DebugContext(r.Context(), "Filters reset", log.FieldOperation, log.OpReset)
	s.saveSession(w, r, st.Reset())
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleReload drops cached datasets and redirects to the dashboard.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request, _ session.State) {
	if resp := RequireMethod(r, http.MethodPost); resp != nil {
		resp.Write(w)
		return
	}
	s.svc.Reload(r.Context())
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleAPIDashboard returns the dashboard as JSON. Query parameters refine
// the session filters for this call only.
func (s *Server) handleAPIDashboard(w http.ResponseWriter, r *http.Request, st session.State) {
	spec, err := ParseFilterSpec(r.URL.Query(), st.Filters)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	d, err := s.svc.Render(ctx, spec)
	if err != nil {
		code, msg := renderFailure(err)
		ErrorResponse(code, msg).Write(w)
		return
	}
	NewResponse().JSON(d).Write(w)
}

type performersResponse struct {
	Area       string   `json:"area"`
	Performers []string `json:"performers"`
}

// handleAPIPerformers lists the performer choices for an area.
func (s *Server) handleAPIPerformers(w http.ResponseWriter, r *http.Request, _ session.State) {
	area := selection(r.URL.Query().Get(paramArea))

	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	performers, err := s.svc.Performers(ctx, area)
	if err != nil {
		code, msg := renderFailure(err)
		ErrorResponse(code, msg).Write(w)
		return
	}
	NewResponse().JSON(performersResponse{Area: area, Performers: performers}).Write(w)
}
