package server

import (
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/consulago/dashboard-gateway/auth"
	"github.com/consulago/dashboard-gateway/routes"
)

const loginTemplateText = `<!DOCTYPE html>
<html lang="{{.Locale}}">
<head><meta charset="utf-8"><title>Login - {{.AppName}}</title></head>
<body>
<h1>{{.AppName}}</h1>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<form method="post" action="/{{.Locale}}/auth/login">
<input type="hidden" name="callbackUrl" value="{{.CallbackURL}}">
<label>Email <input type="email" name="email" value="{{.Email}}" required></label>
<label>Password <input type="password" name="password" required></label>
<button type="submit">Sign in</button>
</form>
</body>
</html>`

// LoginPageData contains data for rendering the login page
type LoginPageData struct {
	AppName     string
	Locale      string
	Error       string
	Email       string // Preserve email on error
	CallbackURL string
}

var loginTmpl = template.Must(template.New("login").Parse(loginTemplateText))

func (s *Server) loginPage(w http.ResponseWriter, r *http.Request) {
	loc, _ := LocaleFromContext(r.Context())
	data := LoginPageData{
		AppName:     s.config.GetAppName(),
		Locale:      loc,
		Error:       r.URL.Query().Get("error"),
		Email:       r.URL.Query().Get("email"),
		CallbackURL: r.URL.Query().Get("callbackUrl"),
	}

	w.Header().Set("Content-Type", contentTypeHTML)
	if err := loginTmpl.Execute(w, data); err != nil {
		log.Err(err).Msg("failed to render login template")
		http.Error(w, "failed to render login page", http.StatusInternalServerError)
	}
}

func (s *Server) loginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")
	callback := r.FormValue("callbackUrl")
	localePrefix := routes.LocalePrefix(r.URL.Path, s.config.GetLocales())

	_, sessionID, err := s.verifier.Login(r.Context(), email, password)
	if err != nil {
		s.redirectLoginError(w, r, localePrefix, loginErrorMessage(err), email, callback)
		return
	}

	s.SetSessionCookie(w, r, sessionID)
	http.Redirect(w, r, s.postLoginTarget(localePrefix, callback), http.StatusSeeOther)
}

// postLoginTarget consumes the callbackUrl set by the redirect policy. Only
// local paths are honoured so the parameter cannot become an open redirect.
func (s *Server) postLoginTarget(localePrefix, callback string) string {
	if strings.HasPrefix(callback, "/") && !strings.HasPrefix(callback, "//") {
		return callback
	}
	return localePrefix + s.config.GetLandingPath()
}

func (s *Server) redirectLoginError(w http.ResponseWriter, r *http.Request, localePrefix, errorMsg, email, callback string) {
	target := localePrefix + s.config.GetLoginPath() +
		"?error=" + url.QueryEscape(errorMsg) +
		"&email=" + url.QueryEscape(email)
	if callback != "" {
		target += "&callbackUrl=" + url.QueryEscape(callback)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// loginErrorMessage maps the auth error taxonomy onto user-facing messages.
// Unknown failures stay generic; the detail is already logged server-side.
func loginErrorMessage(err error) string {
	switch {
	case errors.Is(err, auth.ValidationErr):
		return "Please enter a valid email address and password"
	case errors.Is(err, auth.InvalidCredentialsErr):
		return "Invalid email or password"
	case errors.Is(err, auth.ServiceUnavailableErr):
		return "The service is temporarily unavailable, please try again"
	default:
		return "Something went wrong, please try again"
	}
}
