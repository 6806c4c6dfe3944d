package httpserver

import (
	"fmt"
	"net/http"

	"github.com/sufield/nok/internal/domain"
)

// credentialCookie names the session cookie. Its value is the opaque cluster
// credential itself; there is no server-side session store.
const credentialCookie = "kube_token"

// credential extracts the session credential and re-authorizes it against
// the cluster. A missing cookie is Forbidden, a rejected credential is
// Unauthorized; in both cases the response has been written and the second
// return is false.
func (s *Server) credential(w http.ResponseWriter, r *http.Request) (domain.Credential, bool) {
	cookie, err := r.Cookie(credentialCookie)
	if err != nil || cookie.Value == "" {
		s.renderError(w, r, fmt.Errorf("%w: where is my %s cookie?", domain.ErrForbidden, credentialCookie))
		return "", false
	}
	cred := domain.Credential(cookie.Value)
	if err := s.auth.Authorize(r.Context(), cred); err != nil {
		s.renderError(w, r, err)
		return "", false
	}
	return cred, true
}

// identity derives the session user's identity from an already-authorized
// credential. On failure the response has been written.
func (s *Server) identity(w http.ResponseWriter, r *http.Request, cred domain.Credential) (domain.Identity, bool) {
	id, err := s.ids.Resolve(cred)
	if err != nil {
		s.renderError(w, r, err)
		return "", false
	}
	return id, true
}

func setSessionCookie(w http.ResponseWriter, cred domain.Credential) {
	http.SetCookie(w, &http.Cookie{
		Name:     credentialCookie,
		Value:    string(cred),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     credentialCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
