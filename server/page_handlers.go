package server

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/consulago/dashboard-gateway/routes"
)

const contentTypeHTML = "text/html; charset=utf-8"

// Minimal server-rendered shells. The dashboard widgets themselves fetch
// their data through the /api proxy.
const pageTemplateText = `<!DOCTYPE html>
<html lang="{{.Locale}}">
<head><meta charset="utf-8"><title>{{.Title}} - {{.AppName}}</title></head>
<body>
<h1>{{.Title}}</h1>
{{if .UserName}}<p>{{.UserName}} ({{.Role}})</p>
<form method="post" action="/api/auth/logout"><button type="submit">Logout</button></form>{{end}}
<main id="app" data-page="{{.Page}}"></main>
</body>
</html>`

// PageData feeds the page shell template.
type PageData struct {
	AppName  string
	Locale   string
	Title    string
	Page     string
	UserName string
	Role     string
}

// PageHandler dispatches locale-prefixed page URLs after the gate has run.
// It works on the locale-stripped path, so /fr/dashboard and /en/dashboard
// reach the same branch.
func (s *Server) PageHandler() http.HandlerFunc {
	tmpl, err := template.New("page").Parse(pageTemplateText)
	if err != nil {
		panic("failed to parse page template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		stripped := routes.StripLocalePrefix(r.URL.Path, s.config.GetLocales())

		switch {
		case stripped == RouteLogin:
			switch r.Method {
			case http.MethodGet:
				s.loginPage(w, r)
			case http.MethodPost:
				s.loginSubmit(w, r)
			default:
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			}
		case r.Method != http.MethodGet:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		case stripped == "/":
			s.renderPage(w, r, tmpl, "Accueil", "home")
		case stripped == RouteAbout:
			s.renderPage(w, r, tmpl, "About", "about")
		case stripped == RouteContact:
			s.renderPage(w, r, tmpl, "Contact", "contact")
		case stripped == RouteActualites || strings.HasPrefix(stripped, RouteActualites+"/"):
			s.renderPage(w, r, tmpl, "Actualites", "actualites")
		case stripped == RouteDashboard || strings.HasPrefix(stripped, RouteDashboard+"/"):
			s.renderPage(w, r, tmpl, "Dashboard", dashboardPageName(stripped))
		default:
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
		}
	}
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, tmpl *template.Template, title, page string) {
	loc, _ := LocaleFromContext(r.Context())
	data := PageData{
		AppName: s.config.GetAppName(),
		Locale:  loc,
		Title:   title,
		Page:    page,
	}
	if sess, ok := SessionFromContext(r.Context()); ok {
		data.UserName = sess.Name
		data.Role = string(sess.Role)
	}

	w.Header().Set("Content-Type", contentTypeHTML)
	if err := tmpl.Execute(w, data); err != nil {
		log.Err(err).Str("page", page).Msg("failed to render page template")
	}
}

// dashboardPageName maps /dashboard/demandeurs to "dashboard/demandeurs" so
// the client shell knows which module to mount.
func dashboardPageName(stripped string) string {
	return strings.TrimPrefix(stripped, "/")
}

// HealthHandler is the deployment probe endpoint.
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
