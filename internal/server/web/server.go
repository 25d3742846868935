// Package web serves the HTML pages and form endpoints of the want-to-go
// site.
package web

import (
	"context"
	"html/template"
	"net/http"

	"github.com/NYTimes/gziphandler"
	"github.com/dmitrijs2005/wanttogo/internal/logging"
	"github.com/dmitrijs2005/wanttogo/internal/server/catalog"
	"github.com/dmitrijs2005/wanttogo/internal/server/sessions"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Registrar creates accounts.
type Registrar interface {
	Register(ctx context.Context, username, password string) error
}

// ItineraryManager reads and extends want-to-go lists.
type ItineraryManager interface {
	AddDestination(ctx context.Context, s *sessions.Session, destination string) error
	ListFor(ctx context.Context, s *sessions.Session) ([]string, error)
}

// Config is the configuration of a Server.
type Config struct {
	Accounts     Registrar
	Sessions     *sessions.Manager
	Itinerary    ItineraryManager
	Catalog      *catalog.Catalog
	Logger       logging.Logger
	CookieSecure bool
}

// Server holds the HTTP handlers.
type Server struct {
	accounts     Registrar
	sessions     *sessions.Manager
	itinerary    ItineraryManager
	catalog      *catalog.Catalog
	logger       logging.Logger
	templates    map[string]*template.Template
	cookieSecure bool
}

// New returns a Server ready to serve. It fails only on broken templates.
func New(conf *Config) (*Server, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	return &Server{
		accounts:     conf.Accounts,
		sessions:     conf.Sessions,
		itinerary:    conf.Itinerary,
		catalog:      conf.Catalog,
		logger:       conf.Logger.With("module", "web"),
		templates:    tmpl,
		cookieSecure: conf.CookieSecure,
	}, nil
}

// Handler returns the root handler with all routes registered.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, s.logRequests, middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(s.loadSession)

		r.Get("/", s.handleLoginPage)
		r.Get("/registration", s.handleRegistrationPage)
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Get("/home", s.handleHome)
			r.Get("/wanttogo", s.handleWantToGo)
			r.Post("/add-to-wanttogo", s.handleAddToWantToGo)
			r.Post("/search", s.handleSearch)
			r.Get("/{page}", s.handlePage)
		})
	})

	return gziphandler.GzipHandler(r)
}
