package web

import (
	"net/http"
	"net/url"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/dmitrijs2005/wanttogo/internal/common"
	"github.com/dmitrijs2005/wanttogo/internal/logging"
	"github.com/dmitrijs2005/wanttogo/internal/server/catalog"
	"github.com/go-chi/chi/v5"
)

// User-facing messages.
const (
	msgEmptyCredentials   = "Username and password fields cannot be empty."
	msgUsernameTaken      = "Username already exists."
	msgInvalidCredentials = "Invalid username or password."
	msgEmptyDestination   = "Destination cannot be empty."
	msgAlreadyListed      = "This destination is already in your Want-to-Go list!"
	msgAddedSuffix        = " has been added to your Want-to-Go list!"
	msgNotFound           = "Destination not Found"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, pageLogin, &pageData{Title: "Login"})
}

func (s *Server) handleRegistrationPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, pageRegistration, &pageData{Title: "Registration"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	err := s.accounts.Register(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	switch {
	case err == nil:
		http.Redirect(w, r, common.LoginPath, http.StatusSeeOther)
	case errors.Is(err, common.ErrValidation):
		s.render(w, r, http.StatusBadRequest, pageRegistration, &pageData{
			Title: "Registration",
			Error: msgEmptyCredentials,
		})
	case errors.Is(err, common.ErrAlreadyExists):
		s.render(w, r, http.StatusConflict, pageRegistration, &pageData{
			Title: "Registration",
			Error: msgUsernameTaken,
		})
	default:
		s.serverError(w, r, err)
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	err := s.sessions.Authenticate(r.Context(), sess, r.PostFormValue("username"), r.PostFormValue("password"))
	switch {
	case err == nil:
		http.Redirect(w, r, "/home", http.StatusSeeOther)
	case errors.Is(err, common.ErrValidation):
		s.render(w, r, http.StatusBadRequest, pageLogin, &pageData{Title: "Login", Error: msgEmptyCredentials})
	case errors.Is(err, common.ErrInvalidCredentials):
		s.render(w, r, http.StatusUnauthorized, pageLogin, &pageData{Title: "Login", Error: msgInvalidCredentials})
	default:
		s.serverError(w, r, err)
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Clear(r.Context(), sessionFrom(r.Context())); err != nil {
		s.logger.Warn(r.Context(), "clearing session", logging.KeyError, err)
	}

	s.expireSessionCookie(w)
	http.Redirect(w, r, common.LoginPath, http.StatusSeeOther)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	data := s.authedData(r, "Home")
	data.Destinations = s.catalog.All()
	s.render(w, r, http.StatusOK, pageHome, data)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "page")

	if s.catalog.IsCategory(name) {
		data := s.authedData(r, name)
		data.Destinations = s.catalog.ByCategory(catalog.Category(name))
		s.render(w, r, http.StatusOK, pageCategory, data)

		return
	}

	d, ok := s.catalog.Lookup(name)
	if !ok {
		http.NotFound(w, r)

		return
	}

	data := s.authedData(r, d.Name)
	data.Destination = d
	s.render(w, r, http.StatusOK, pageDestination, data)
}

func (s *Server) handleWantToGo(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	list, err := s.itinerary.ListFor(r.Context(), sess)
	if err != nil {
		s.itineraryError(w, r, err)

		return
	}

	data := s.authedData(r, "Want-to-Go list")
	data.List = list
	data.Error = r.URL.Query().Get("error")
	data.Success = r.URL.Query().Get("success")
	s.render(w, r, http.StatusOK, pageWantToGo, data)
}

func (s *Server) handleAddToWantToGo(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	dest := r.PostFormValue("destination")

	err := s.itinerary.AddDestination(r.Context(), sess, dest)
	switch {
	case err == nil:
		redirectWithMessage(w, r, "success", dest+msgAddedSuffix)
	case errors.Is(err, common.ErrValidation):
		redirectWithMessage(w, r, "error", msgEmptyDestination)
	case errors.Is(err, common.ErrAlreadyPresent):
		redirectWithMessage(w, r, "error", msgAlreadyListed)
	default:
		s.itineraryError(w, r, err)
	}
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	data := s.authedData(r, "Search")
	data.Destinations = s.catalog.Search(r.PostFormValue("Search"))
	if len(data.Destinations) == 0 {
		data.Message = msgNotFound
	}

	s.render(w, r, http.StatusOK, pageSearch, data)
}

// authedData fills the fields every page behind the login shows.
func (s *Server) authedData(r *http.Request, title string) *pageData {
	data := &pageData{Title: title, Categories: s.catalog.Categories()}
	if sess := sessionFrom(r.Context()); s.sessions.IsAuthenticated(sess) {
		data.Username = sess.User.Username
	}

	return data
}

// itineraryError handles the failures of list operations: a lost user ends
// the session, anything else is a server error.
func (s *Server) itineraryError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, common.ErrUnauthorized) {
		s.expireSessionCookie(w)
		http.Redirect(w, r, common.LoginPath, http.StatusSeeOther)

		return
	}

	s.serverError(w, r, err)
}

// serverError logs err and replies with a bare 500.
func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error(r.Context(), "handling request", "path", r.URL.Path, logging.KeyError, err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func redirectWithMessage(w http.ResponseWriter, r *http.Request, key, msg string) {
	http.Redirect(w, r, "/wanttogo?"+url.Values{key: {msg}}.Encode(), http.StatusSeeOther)
}
