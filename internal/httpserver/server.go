// Package httpserver is the web collaborator around the lifecycle core:
// cookie session, routes, HTML rendering, metrics. It holds no state of its
// own; every request re-authorizes the credential against the cluster.
package httpserver

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sufield/nok/internal/app"
	"github.com/sufield/nok/internal/config"
	"github.com/sufield/nok/internal/ports"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// Server serves the notebook web UI.
type Server struct {
	router    chi.Router
	notebooks *app.NotebookService
	auth      ports.Authorizer
	ids       ports.IdentityResolver
	templates *template.Template
	cfg       config.Config
	log       *slog.Logger
}

// New builds the server and its route table.
func New(cfg config.Config, notebooks *app.NotebookService, auth ports.Authorizer, ids ports.IdentityResolver, log *slog.Logger) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		notebooks: notebooks,
		auth:      auth,
		ids:       ids,
		templates: template.Must(template.ParseFS(templatesFS, "templates/*.html")),
		cfg:       cfg,
		log:       log,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(s.requestID)
	s.router.Use(s.logRequests)
	s.router.Use(s.measure)

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	s.router.Method(http.MethodGet, "/metrics", promhttp.Handler())
	s.router.Handle("/static/*", http.FileServer(http.FS(staticFS)))

	s.router.Get("/", s.handleLoginPage)
	s.router.Post("/login", s.handleLogin)
	s.router.Get("/logout", s.handleLogout)

	s.router.Get("/notebooks", s.handleList)
	s.router.Get("/notebooks/new", s.handleNewForm)
	s.router.Post("/notebooks", s.handleCreate)
	s.router.Post("/notebooks/{name}/delete", s.handleDelete)
	s.router.Post("/notebooks/{name}/scale", s.handleScale)
	s.router.Get("/notebooks/{name}/events", s.handleEvents)
	s.router.Get("/notebooks/{name}/connect", s.handleConnect)
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}
