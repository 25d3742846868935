package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/dmitrijs2005/wanttogo/internal/server/catalog"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names.
const (
	pageLogin        = "login"
	pageRegistration = "registration"
	pageHome         = "home"
	pageCategory     = "category"
	pageDestination  = "destination"
	pageWantToGo     = "wanttogo"
	pageSearch       = "search"
)

// pageData is the model shared by all pages.
type pageData struct {
	Title        string
	Username     string
	Error        string
	Success      string
	Message      string
	Destination  catalog.Destination
	Destinations []catalog.Destination
	Categories   []catalog.Category
	List         []string
}

// parseTemplates returns one template set per page, each combining the page
// with the shared layout.
func parseTemplates() (map[string]*template.Template, error) {
	pages := []string{
		pageLogin,
		pageRegistration,
		pageHome,
		pageCategory,
		pageDestination,
		pageWantToGo,
		pageSearch,
	}

	res := make(map[string]*template.Template, len(pages))
	for _, p := range pages {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+p+".html")
		if err != nil {
			return nil, fmt.Errorf("parsing page %q: %w", p, err)
		}

		res[p] = t
	}

	return res, nil
}

// render writes page with the given status. The page is rendered into a
// buffer first, so a template failure still yields a clean 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, data *pageData) {
	var buf bytes.Buffer
	if err := s.templates[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		s.serverError(w, r, fmt.Errorf("rendering %q: %w", page, err))

		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
