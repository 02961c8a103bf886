package server

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/hasanabusheikh26/superprompt/internal/utils"
	"github.com/hasanabusheikh26/superprompt/pkg/store"
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html" // Using . import for convenience with html tags
)

// renderedHistoryCap bounds how many rows the history page shows,
// independent of the storage cap.
const renderedHistoryCap = 50

// statsCard renders a summary stat card for the dashboard home page.
func statsCard(label, value string) g.Node {
	return Div(Class("card"),
		Div(Class("card-value"), g.Text(value)),
		Div(Class("card-label"), g.Text(label)),
	)
}

func page(title string, content ...g.Node) g.Node {
	return HTML(Lang("en"),
		Head(
			Meta(Charset("utf-8")),
			TitleEl(g.Text(title+" — SuperPrompt")),
			StyleEl(g.Raw(`body{font-family:sans-serif;max-width:960px;margin:2rem auto;padding:0 1rem;color:#222}
nav a{margin-right:1rem}table{border-collapse:collapse;width:100%}td,th{border-bottom:1px solid #ddd;padding:.4rem;text-align:left}
.card{display:inline-block;border:1px solid #ddd;border-radius:8px;padding:1rem;margin:0 .5rem .5rem 0;text-align:center;min-width:10rem}
.card-value{font-size:1.6rem;font-weight:bold}.card-label{font-size:.8rem;text-transform:uppercase;color:#777}`)),
		),
		Body(
			Nav(
				A(Href("/dashboard"), g.Text("Home")),
				A(Href("/dashboard/history"), g.Text("History")),
				A(Href("/dashboard/settings"), g.Text("Settings")),
			),
			H1(g.Text(title)),
			g.Group(content),
		),
	)
}

func renderPage(w http.ResponseWriter, node g.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := node.Render(w); err != nil {
		utils.Log.Debugf("rendering dashboard page failed: %v", err)
	}
}

// handleDashboardHome shows the aggregate counters. They are recomputed
// from the store on every request, never cached across sessions.
func (s *Server) handleDashboardHome(w http.ResponseWriter, r *http.Request) {
	stats, err := s.DB.Stats(r.Context())
	if err != nil {
		// Storage failures never block rendering; show zeros.
		utils.Log.Warnf("loading stats failed: %v", err)
		stats = store.UsageStats{}
	}
	renderPage(w, page("Overview",
		Div(
			statsCard("Total Enhancements", fmt.Sprintf("%d", stats.TotalEnhancements)),
			statsCard("Sites Used", fmt.Sprintf("%d", stats.SitesUsed)),
			statsCard("Success Rate", fmt.Sprintf("%.0f%%", stats.SuccessRate*100)),
		),
	))
}

func (s *Server) handleDashboardHistory(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("q")
	entries, err := s.DB.ListHistory(r.Context(), store.ListOptions{Search: search, Limit: renderedHistoryCap})
	if err != nil {
		utils.Log.Warnf("loading history failed: %v", err)
	}

	rows := make([]g.Node, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, Tr(
			Td(g.Text(e.SiteIcon+" "+e.Site)),
			Td(g.Text(utils.Truncate(e.OriginalText, 60))),
			Td(g.Text(utils.Truncate(e.EnhancedText, 60))),
			Td(g.Text(e.DisplayDate)),
		))
	}

	renderPage(w, page("History",
		Form(Action("/dashboard/history"), Method("get"),
			Input(Type("search"), Name("q"), Value(search), Placeholder("Search history...")),
			Button(Type("submit"), g.Text("Search")),
		),
		Table(
			THead(Tr(Th(g.Text("Site")), Th(g.Text("Original")), Th(g.Text("Enhanced")), Th(g.Text("When")))),
			TBody(rows...),
		),
	))
}

func (s *Server) handleDashboardSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.DB.Settings(r.Context())
	if err != nil {
		// Defaults already fill the map; just log.
		utils.Log.Warnf("loading settings failed: %v", err)
	}

	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]g.Node, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, Tr(Td(g.Text(k)), Td(g.Text(settings[k]))))
	}

	renderPage(w, page("Settings",
		P(g.Text("Change settings with: superprompt settings set KEY VALUE")),
		Table(
			THead(Tr(Th(g.Text("Setting")), Th(g.Text("Value")))),
			TBody(rows...),
		),
	))
}
