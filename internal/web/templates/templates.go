// Package templates renders the server-side HTML pages.
package templates

import (
	"embed"
	"html/template"
	"strings"

	"github.com/a-h/templ"

	"github.com/emiliopalmerini/abadmin/internal/util"
)

//go:embed html/*.html
var htmlFS embed.FS

var funcs = template.FuncMap{
	"formatCount": util.FormatCount,
	"statusClass": statusClass,
}

var pages = parsePages("landing", "auth", "personal", "experiments", "experiment", "funnel", "error")

// parsePages clones the layout once per page so each page can define its own content block.
func parsePages(names ...string) map[string]*template.Template {
	layout := template.Must(template.New("layout.html").Funcs(funcs).ParseFS(htmlFS, "html/layout.html"))

	out := make(map[string]*template.Template, len(names))
	for _, name := range names {
		t := template.Must(layout.Clone())
		out[name] = template.Must(t.ParseFS(htmlFS, "html/"+name+".html"))
	}
	return out
}

func statusClass(status string) string {
	return "badge badge-" + strings.ToLower(status)
}

func Landing(v LandingView) templ.Component {
	return templ.FromGoHTML(pages["landing"], v)
}

func AuthForm(v AuthFormView) templ.Component {
	return templ.FromGoHTML(pages["auth"], v)
}

func Personal(v PersonalView) templ.Component {
	return templ.FromGoHTML(pages["personal"], v)
}

func ExperimentList(v ExperimentListView) templ.Component {
	return templ.FromGoHTML(pages["experiments"], v)
}

func Experiment(v ExperimentView) templ.Component {
	return templ.FromGoHTML(pages["experiment"], v)
}

// ExperimentPanel is the status and allocation section alone, swapped in by htmx.
func ExperimentPanel(v ExperimentView) templ.Component {
	return templ.FromGoHTML(pages["experiment"].Lookup("experiment-panel"), v)
}

func Funnel(v FunnelView) templ.Component {
	return templ.FromGoHTML(pages["funnel"], v)
}

func Error(v ErrorView) templ.Component {
	return templ.FromGoHTML(pages["error"], v)
}
