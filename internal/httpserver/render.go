package httpserver

import (
	"errors"
	"net/http"

	"github.com/sufield/nok/internal/domain"
	"github.com/sufield/nok/internal/ports"
)

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.log.Error("template rendering failed", "template", name, "error", err)
	}
}

// renderError maps the error taxonomy to HTTP statuses, preserving the
// diagnostic text for operator visibility.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "path", r.URL.Path, "status", status, "error", err)
	} else {
		s.log.Info("request rejected", "path", r.URL.Path, "status", status, "error", err)
	}
	http.Error(w, err.Error(), status)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrBadIdentity),
		errors.Is(err, domain.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ports.ErrCommandFailed),
		errors.Is(err, ports.ErrCommandTimeout),
		errors.Is(err, ports.ErrToolUnavailable):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
