package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"log"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"bike-dashboard/models"
	"bike-dashboard/observability"
	services "bike-dashboard/service"
	"bike-dashboard/util"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

const (
	START_QUERY_ARG = "start"
	END_QUERY_ARG   = "end"
	CHART_PATH_VAR  = "chart"
)

const (
	DAILY_CHART   = "daily"
	WEEKDAY_CHART = "weekday"
	SEASON_CHART  = "season"
	WEATHER_CHART = "weather"
)

// ChartNames lists the charts in page order.
var ChartNames = []string{DAILY_CHART, WEEKDAY_CHART, SEASON_CHART, WEATHER_CHART}

var ErrUnknownChart = errors.New("unknown chart")

var chartRenderers = map[string]func(io.Writer, *models.DashboardView) error{
	DAILY_CHART:   func(w io.Writer, v *models.DashboardView) error { return util.PlotDailyRentals(w, v.Daily) },
	WEEKDAY_CHART: func(w io.Writer, v *models.DashboardView) error { return util.PlotWeekdayRentals(w, v.Weekday) },
	SEASON_CHART:  func(w io.Writer, v *models.DashboardView) error { return util.PlotSeasonRentals(w, v.Season) },
	WEATHER_CHART: func(w io.Writer, v *models.DashboardView) error { return util.PlotWeatherRentals(w, v.Weather) },
}

// RenderChart writes the named chart of view into w.
func RenderChart(w io.Writer, name string, view *models.DashboardView) error {
	render, ok := chartRenderers[name]
	if !ok {
		return ErrUnknownChart
	}
	return render(w, view)
}

type DashboardHandler struct {
	dashboardService *services.DashboardService
	metrics          *observability.Metrics
	validate         *validator.Validate
	page             *template.Template
	logoURL          string
}

func NewDashboardHandler(dashboardService *services.DashboardService, metrics *observability.Metrics, logoURL string) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		metrics:          metrics,
		validate:         validator.New(),
		page:             template.Must(template.New("dashboard").Funcs(pageFuncs).Parse(dashboardPage)),
		logoURL:          logoURL,
	}
}

type chartFrame struct {
	Name string
	URL  string
}

type pageData struct {
	LogoURL string
	View    *models.DashboardView
	Charts  []chartFrame
}

// GetDashboard handles GET /?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.parseRange(r.URL.Query(), w, "page")
	if !ok {
		return // error already written
	}

	view, err := h.dashboardService.BuildView(rng)
	if err != nil {
		h.fail(w, "page", "Error building dashboard view:", err)
		return
	}

	query := rangeQuery(rng).Encode()
	charts := make([]chartFrame, 0, len(ChartNames))
	for _, name := range ChartNames {
		charts = append(charts, chartFrame{Name: name, URL: "/charts/" + name + "?" + query})
	}

	var buf bytes.Buffer
	if err := h.page.Execute(&buf, pageData{LogoURL: h.logoURL, View: view, Charts: charts}); err != nil {
		h.fail(w, "page", "Error rendering dashboard page:", err)
		return
	}
	h.writeHTML(w, "page", buf.Bytes())
}

// GetChart handles GET /charts/{chart}?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *DashboardHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)[CHART_PATH_VAR]
	if _, ok := chartRenderers[name]; !ok {
		h.metrics.Renders.WithLabelValues("unknown", "not_found").Inc()
		http.Error(w, ErrUnknownChart.Error()+" "+name, http.StatusNotFound)
		return
	}

	rng, ok := h.parseRange(r.URL.Query(), w, name)
	if !ok {
		return
	}

	view, err := h.dashboardService.BuildView(rng)
	if err != nil {
		h.fail(w, name, "Error building dashboard view:", err)
		return
	}

	var buf bytes.Buffer
	if err := RenderChart(&buf, name, view); err != nil {
		h.fail(w, name, "Error rendering chart "+name+":", err)
		return
	}
	h.writeHTML(w, name, buf.Bytes())
}

// Ping handles GET /ping
func (h *DashboardHandler) Ping(w http.ResponseWriter, r *http.Request) {
	log.Println("Pinging server")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "pong"})
}

// parseRange reads start/end, defaulting to and clamping within the dataset bounds.
func (h *DashboardHandler) parseRange(vals url.Values, w http.ResponseWriter, view string) (rng models.DateRange, ok bool) {
	bounds := h.dashboardService.Bounds()
	rng = bounds

	var err error
	if rng.Start, err = parseArgDate(vals, START_QUERY_ARG, bounds.Start); err != nil {
		h.badRequest(w, view, START_QUERY_ARG)
		return
	}
	if rng.End, err = parseArgDate(vals, END_QUERY_ARG, bounds.End); err != nil {
		h.badRequest(w, view, END_QUERY_ARG)
		return
	}

	rng = rng.Clamp(bounds)
	if err := h.validate.Struct(rng); err != nil {
		h.badRequest(w, view, END_QUERY_ARG)
		return
	}
	ok = true
	return
}

func (h *DashboardHandler) badRequest(w http.ResponseWriter, view, arg string) {
	h.metrics.Renders.WithLabelValues(view, "bad_request").Inc()
	http.Error(w, "Invalid argument "+arg, http.StatusBadRequest)
}

func (h *DashboardHandler) fail(w http.ResponseWriter, view, msg string, err error) {
	log.Println(msg, err)
	h.metrics.Renders.WithLabelValues(view, "error").Inc()
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

func (h *DashboardHandler) writeHTML(w http.ResponseWriter, view string, body []byte) {
	h.metrics.Renders.WithLabelValues(view, "ok").Inc()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Println("Error writing response:", err)
	}
}

func parseArgDate(vals url.Values, name string, def time.Time) (time.Time, error) {
	s := vals.Get(name)
	if s == "" {
		return def, nil
	}
	d, err := time.Parse(models.DATE_LAYOUT, s)
	if err != nil {
		return time.Time{}, err
	}
	return models.TruncateToDay(d), nil
}

func rangeQuery(rng models.DateRange) url.Values {
	return url.Values{
		START_QUERY_ARG: {rng.StartString()},
		END_QUERY_ARG:   {rng.EndString()},
	}
}

// FormatCount rounds a metric half to even, NaN reads as n/a.
func FormatCount(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return strconv.FormatFloat(math.RoundToEven(v), 'f', 0, 64)
}

var pageFuncs = template.FuncMap{
	"count": FormatCount,
	"int":   func(v int) string { return strconv.Itoa(v) },
}

const dashboardPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Bike Sharing Dashboard</title>
<style>
body { font-family: sans-serif; margin: 0; display: flex; }
aside { width: 260px; padding: 24px; background: #f0f2f6; min-height: 100vh; }
main { flex: 1; padding: 24px; }
.metrics { display: flex; gap: 48px; margin-bottom: 24px; }
.metric span { display: block; color: #555; font-size: 14px; }
.metric strong { font-size: 32px; }
iframe { width: 100%; height: 500px; border: 0; }
.row { display: flex; gap: 16px; }
</style>
</head>
<body>
<aside>
<img src="{{.LogoURL}}" alt="logo" width="200">
<form method="get" action="/">
<label>Start <input type="date" name="start" value="{{.View.Range.StartString}}" min="{{.View.Bounds.StartString}}" max="{{.View.Bounds.EndString}}"></label><br>
<label>End <input type="date" name="end" value="{{.View.Range.EndString}}" min="{{.View.Bounds.StartString}}" max="{{.View.Bounds.EndString}}"></label><br>
<button type="submit">Apply</button>
</form>
</aside>
<main>
<h1>Bike Sharing Dashboard</h1>
<div class="metrics">
<div class="metric" id="total-days"><span>Total Days</span><strong>{{int .View.TotalDays}}</strong></div>
<div class="metric" id="total-rentals"><span>Total Rentals</span><strong>{{int .View.TotalRentals}}</strong></div>
<div class="metric" id="average-rentals"><span>Average Rentals per Day</span><strong>{{count .View.AverageRentalsPerDay}}</strong></div>
</div>
{{range .Charts}}<iframe id="chart-{{.Name}}" src="{{.URL}}"></iframe>
{{end}}
</main>
</body>
</html>
`
