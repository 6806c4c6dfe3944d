package httpserver

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sufield/nok/internal/domain"
)

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "login.html", map[string]any{
		"Namespace": s.cfg.Namespace,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	// Stripping whitespace only; anything else might turn a broken paste
	// into a valid token.
	cred := domain.Credential(strings.TrimSpace(r.FormValue(credentialCookie)))
	if cred.Empty() {
		s.renderError(w, r, fmt.Errorf("%w: the %s form field is empty", domain.ErrForbidden, credentialCookie))
		return
	}
	if err := s.auth.Authorize(r.Context(), cred); err != nil {
		s.renderError(w, r, err)
		return
	}
	setSessionCookie(w, cred)
	http.Redirect(w, r, "/notebooks", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	cred, ok := s.credential(w, r)
	if !ok {
		return
	}
	id, ok := s.identity(w, r, cred)
	if !ok {
		return
	}
	notebooks, err := s.notebooks.List(r.Context(), cred, id)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.render(w, r, "notebooks.html", map[string]any{
		"Username":  string(id),
		"Namespace": s.cfg.Namespace,
		"Notebooks": notebooks,
	})
}

func (s *Server) handleNewForm(w http.ResponseWriter, r *http.Request) {
	cred, ok := s.credential(w, r)
	if !ok {
		return
	}
	id, ok := s.identity(w, r, cred)
	if !ok {
		return
	}
	s.render(w, r, "new_notebook.html", map[string]any{
		"Username":  string(id),
		"Namespace": s.cfg.Namespace,
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	cred, ok := s.credential(w, r)
	if !ok {
		return
	}
	id, ok := s.identity(w, r, cred)
	if !ok {
		return
	}
	if _, err := s.notebooks.Create(r.Context(), cred, id,
		r.FormValue("notebook_name"), r.FormValue("values")); err != nil {
		s.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, "/notebooks", http.StatusSeeOther)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	cred, name, ok := s.notebookRequest(w, r)
	if !ok {
		return
	}
	if err := s.notebooks.Delete(r.Context(), cred, name); err != nil {
		s.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, "/notebooks", http.StatusSeeOther)
}

func (s *Server) handleScale(w http.ResponseWriter, r *http.Request) {
	cred, name, ok := s.notebookRequest(w, r)
	if !ok {
		return
	}
	replicas, err := strconv.Atoi(r.FormValue("replicas"))
	if err != nil {
		s.renderError(w, r, fmt.Errorf("%w: replicas must be 0 or 1: %v", domain.ErrBadRequest, err))
		return
	}
	if err := s.notebooks.Scale(r.Context(), cred, name, replicas); err != nil {
		s.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, "/notebooks", http.StatusSeeOther)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	cred, name, ok := s.notebookRequest(w, r)
	if !ok {
		return
	}
	report, err := s.notebooks.Events(r.Context(), cred, name)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(report))
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	cred, name, ok := s.notebookRequest(w, r)
	if !ok {
		return
	}
	if s.cfg.ClusterName == "" {
		s.renderError(w, r, fmt.Errorf("%w: no cluster name configured, connecting is disabled", domain.ErrNotFound))
		return
	}
	if err := s.notebooks.RequireExists(r.Context(), cred, name); err != nil {
		s.renderError(w, r, err)
		return
	}
	url := fmt.Sprintf("https://%s/notebooks/%s/%s/", s.cfg.ClusterName, s.cfg.Namespace, name)
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// notebookRequest bundles the checks shared by the per-notebook routes:
// session credential plus a grammar-validated name from the URL.
func (s *Server) notebookRequest(w http.ResponseWriter, r *http.Request) (domain.Credential, domain.ResourceName, bool) {
	cred, ok := s.credential(w, r)
	if !ok {
		return "", "", false
	}
	name, err := domain.ParseResourceName(chi.URLParam(r, "name"))
	if err != nil {
		s.renderError(w, r, err)
		return "", "", false
	}
	return cred, name, true
}
