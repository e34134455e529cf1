package handlers

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"tour-analytics/internal/models"
	"tour-analytics/internal/observability"
	"tour-analytics/internal/services"
)

var trendClasses = map[models.Trend]string{
	models.TrendIncreasing:       "trend-up",
	models.TrendDecreasing:       "trend-down",
	models.TrendStable:           "trend-stable",
	models.TrendInsufficientData: "trend-insufficient",
}

var fragments = template.Must(template.New("fragments").Funcs(template.FuncMap{
	"trendClass": func(t models.Trend) string { return trendClasses[t] },
	"trendLabel": func(t models.Trend) string { return t.Label() },
	"table": func(title string, rows any) map[string]any {
		return map[string]any{"Title": title, "Rows": rows}
	},
}).Parse(`
{{define "counts"}}<table class="modern-table">
<thead><tr><th>{{.Title}}</th><th>Count</th></tr></thead>
<tbody>
{{range .Rows}}<tr><td>{{.Label}}</td><td>{{.Count}}</td></tr>
{{end}}</tbody>
</table>{{end}}

{{define "trends"}}<table class="modern-table">
<thead><tr><th>{{.Title}}</th><th>Tours</th><th>Trend</th><th>Change</th><th>Recent average</th></tr></thead>
<tbody>
{{range .Rows}}<tr>
<td>{{.Label}}</td>
<td>{{.Count}}</td>
<td><span class="trend-indicator {{trendClass .Estimate.Trend}}">{{trendLabel .Estimate.Trend}}</span></td>
<td>{{printf "%.1f" .Estimate.Percentage}}%</td>
<td>{{printf "%.2f" .Estimate.Average}}</td>
</tr>
{{end}}</tbody>
</table>{{end}}

{{define "cross"}}<h4>{{.Title}}</h4>
<table class="modern-table">
<thead><tr><th>{{.Corner}}</th>{{range .Columns}}<th>{{.}}</th>{{end}}<th>Total</th></tr></thead>
<tbody>
{{range .Rows}}<tr><td>{{.Label}}</td>{{range .Cells}}<td>{{.Count}} ({{printf "%.1f" .Percent}}%)</td>{{end}}<td><strong>{{.Total}}</strong></td></tr>
{{end}}</tbody>
</table>{{end}}

{{define "clients"}}<div id="clients-content">
<div class="analytics-summary">
<p><strong>Clients:</strong> {{.Clients}}</p>
<p><strong>Other contacts:</strong> {{.Contacts}}</p>
<p><strong>Regular clients (3+ applications):</strong> {{.RegularCount}} ({{printf "%.1f" .RegularPercentage}}%)</p>
</div>
{{template "counts" (table "Gender" .Genders)}}
{{template "counts" (table "Age group" .Ages)}}
{{template "counts" (table "Preferred tour type" .PreferredTypes)}}
</div>{{end}}

{{define "tours"}}<div id="tours-content">
{{template "trends" (table "Season" .Seasons)}}
{{template "trends" (table "Tour type" .Types)}}
</div>{{end}}

{{define "applications"}}<div id="applications-content">
<div class="analytics-summary"><p><strong>Total applications:</strong> {{.Total}}</p></div>
{{template "counts" (table "Status" .Statuses)}}
{{template "counts" (table "Season" .Seasons)}}
{{template "counts" (table "Tour type" .Types)}}
</div>{{end}}

{{define "mixed"}}<div id="mixed-content">
{{template "cross" .SeasonGender}}
{{template "cross" .TypeAge}}
<ul class="insights">
{{range .Insights}}<li>{{.}}</li>
{{end}}</ul>
</div>{{end}}

{{define "unavailable"}}<div id="analytics-error" class="analytics-error">Analytics data is temporarily unavailable. Please try again later.</div>{{end}}
{{define "available"}}<div id="analytics-error"></div>{{end}}
`))

type SSEHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewSSEHandlers(analytics *services.Analytics, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

func renderFragment(name string, data any) (string, error) {
	var buf strings.Builder
	err := fragments.ExecuteTemplate(&buf, name, data)
	return buf.String(), err
}

// section is one dashboard tab: the signal it feeds and the fragment it
// renders.
type section struct {
	signal   string
	fragment string
	data     func(*models.Snapshot) any
	view     func(*models.Snapshot) any
}

var (
	clientsSection = section{
		signal:   "clientsData",
		fragment: "clients",
		data:     func(s *models.Snapshot) any { return s.Clients },
		view:     func(s *models.Snapshot) any { return newClientsView(s.Clients) },
	}
	toursSection = section{
		signal:   "toursData",
		fragment: "tours",
		data:     func(s *models.Snapshot) any { return s.Tours },
		view:     func(s *models.Snapshot) any { return newToursView(s.Tours) },
	}
	applicationsSection = section{
		signal:   "applicationsData",
		fragment: "applications",
		data:     func(s *models.Snapshot) any { return s.Applications },
		view:     func(s *models.Snapshot) any { return newApplicationsView(s.Applications) },
	}
	mixedSection = section{
		signal:   "mixedData",
		fragment: "mixed",
		data:     func(s *models.Snapshot) any { return s.Insights },
		view:     func(s *models.Snapshot) any { return newMixedView(s.Applications, s.Insights) },
	}
)

func (h *SSEHandlers) HandleClients(w http.ResponseWriter, r *http.Request) {
	h.stream(w, r, clientsSection)
}

func (h *SSEHandlers) HandleTours(w http.ResponseWriter, r *http.Request) {
	h.stream(w, r, toursSection)
}

func (h *SSEHandlers) HandleApplications(w http.ResponseWriter, r *http.Request) {
	h.stream(w, r, applicationsSection)
}

func (h *SSEHandlers) HandleMixed(w http.ResponseWriter, r *http.Request) {
	h.stream(w, r, mixedSection)
}

func (h *SSEHandlers) HandleRefreshAll(w http.ResponseWriter, r *http.Request) {
	h.stream(w, r, clientsSection, toursSection, applicationsSection, mixedSection)
}

// stream computes one snapshot and patches every requested section from
// it, so all sections on the page describe the same data.
func (h *SSEHandlers) stream(w http.ResponseWriter, r *http.Request, sections ...section) {
	requestID := observability.GetRequestID(r.Context())
	sse := datastar.NewSSE(w, r)

	snapshot, err := h.analytics.Snapshot(r.Context())
	if err != nil && r.Context().Err() != nil {
		h.logger.Debug("sse client gone before snapshot", "error", err, "request_id", requestID)
		return
	}
	if err != nil {
		h.logger.Error("analytics snapshot for sse", "error", err, "request_id", requestID)
		h.patchFragment(sse, "unavailable", nil, requestID)
		return
	}

	signals := make(map[string]any, len(sections)+1)
	signals["generatedAt"] = snapshot.GeneratedAt
	for _, s := range sections {
		signals[s.signal] = s.data(snapshot)
	}
	jsonData, err := json.Marshal(signals)
	if err != nil {
		h.logger.Error("marshal signals", "error", err, "request_id", requestID)
		return
	}
	if err := sse.PatchSignals(jsonData); err != nil {
		h.logger.Warn("patch signals", "error", err, "request_id", requestID)
		return
	}

	for _, s := range sections {
		if !h.patchFragment(sse, s.fragment, s.view(snapshot), requestID) {
			return
		}
	}
	h.patchFragment(sse, "available", nil, requestID)
}

func (h *SSEHandlers) patchFragment(sse *datastar.ServerSentEventGenerator, name string, data any, requestID string) bool {
	html, err := renderFragment(name, data)
	if err != nil {
		h.logger.Error("render fragment", "fragment", name, "error", err, "request_id", requestID)
		return false
	}
	if err := sse.PatchElements(html); err != nil {
		h.logger.Warn("patch elements", "fragment", name, "error", err, "request_id", requestID)
		return false
	}
	return true
}
