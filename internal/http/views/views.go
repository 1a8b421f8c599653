// Package views renders the HTML pages and HTMX fragments.
package views

import (
	"embed"
	"html/template"

	"github.com/a-h/templ"
	"github.com/userdeck/userdeck/internal/http/viewmodels"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.New("pages").ParseFS(templateFS, "templates/*.html"))

func page(name string, data any) templ.Component {
	return templ.FromGoHTML(pages.Lookup(name), data)
}

func SignInPage(data viewmodels.SignInViewData) templ.Component {
	return page("signin", data)
}

func SignUpPage(data viewmodels.SignUpViewData) templ.Component {
	return page("signup", data)
}

func WelcomePage(data viewmodels.WelcomeViewData) templ.Component {
	return page("welcome", data)
}

func DashboardPage(data viewmodels.DashboardViewData) templ.Component {
	return page("dashboard", data)
}

// DashboardResults is the fragment swapped by pagination requests.
func DashboardResults(data viewmodels.DashboardResultsData) templ.Component {
	return page("dashboard_results", data)
}
