package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

const (
	pageTitle  = "Tour Agency Analytics"
	datastarJS = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.5/bundles/datastar.js"
)

type panel struct {
	ID       string
	Title    string
	Endpoint string
}

var panels = []panel{
	{ID: "clients-content", Title: "Clients", Endpoint: "/sse/clients"},
	{ID: "tours-content", Title: "Tours", Endpoint: "/sse/tours"},
	{ID: "applications-content", Title: "Applications", Endpoint: "/sse/applications"},
	{ID: "mixed-content", Title: "Mixed analytics", Endpoint: "/sse/mixed"},
}

const styles = `
body { font-family: system-ui, sans-serif; margin: 0; background: #f5f6fa; color: #222; }
header { background: #1f3a5f; color: #fff; padding: 1rem 2rem; display: flex; justify-content: space-between; align-items: center; }
main { display: grid; grid-template-columns: repeat(auto-fit, minmax(420px, 1fr)); gap: 1.5rem; padding: 2rem; }
section { background: #fff; border-radius: 8px; padding: 1rem 1.5rem; box-shadow: 0 1px 3px rgba(0,0,0,.1); }
.modern-table { width: 100%; border-collapse: collapse; margin-bottom: 1rem; }
.modern-table th, .modern-table td { padding: .4rem .6rem; border-bottom: 1px solid #e5e7eb; text-align: left; }
.trend-up { color: #15803d; }
.trend-down { color: #b91c1c; }
.trend-stable { color: #92400e; }
.trend-insufficient { color: #6b7280; }
.analytics-error { background: #fee2e2; color: #991b1b; padding: .75rem 2rem; }
.loading { color: #6b7280; }
`

// Dashboard renders the single-page dashboard. Each panel is filled by the
// SSE endpoints on load and again when its refresh button is pressed.
func Dashboard() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
<style>%s</style>
<script type="module" src="%s"></script>
</head>
<body data-signals="{generatedAt: '', clientsData: {}, toursData: {}, applicationsData: {}, mixedData: {}}" data-on-load="@get('/sse/refresh-all')">
<header>
<h1>%s</h1>
<div>
<span data-text="$generatedAt ? 'Updated ' + $generatedAt : ''"></span>
<button data-on-click="@get('/sse/refresh-all')">Refresh all</button>
</div>
</header>
<div id="analytics-error"></div>
<main>
`, templ.EscapeString(pageTitle), styles, datastarJS, templ.EscapeString(pageTitle)); err != nil {
			return err
		}

		for _, p := range panels {
			if err := renderPanel(w, p); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, "</main>\n</body>\n</html>\n")
		return err
	})
}

func renderPanel(w io.Writer, p panel) error {
	_, err := fmt.Fprintf(w, `<section>
<h2>%s <button data-on-click="@get('%s')">Refresh</button></h2>
<div id="%s" class="loading">Loading...</div>
</section>
`, templ.EscapeString(p.Title), templ.EscapeString(p.Endpoint), templ.EscapeString(p.ID))
	return err
}
