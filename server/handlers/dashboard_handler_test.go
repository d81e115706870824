package handlers

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bike-dashboard/observability"
	services "bike-dashboard/service"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlerDatasetCSV = `dteday,season,weathersit,hr,weekday,cnt
2011-01-01,Spring,Clear,0,Saturday,5
2011-01-02,Spring,Mist,0,Sunday,7
2011-01-03,Winter,Clear,0,Monday,10
`

func newTestHandler(t *testing.T) (*DashboardHandler, *observability.Metrics) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hour.csv")
	if err := os.WriteFile(path, []byte(handlerDatasetCSV), 0o644); err != nil {
		t.Fatalf("Failed to write dataset: %v", err)
	}
	metrics := observability.NewMetricsForTesting()
	service := services.NewDashboardService(services.NewFileRentalsSource(path, ""), metrics)
	require.NoError(t, service.LoadDataset())
	return NewDashboardHandler(service, metrics, "/static/sharing.svg"), metrics
}

func metricValue(body, id string) string {
	i := strings.Index(body, `id="`+id+`"`)
	if i < 0 {
		return ""
	}
	rest := body[i:]
	start := strings.Index(rest, "<strong>") + len("<strong>")
	end := strings.Index(rest, "</strong>")
	return rest[start:end]
}

func TestDashboardHandler_GetDashboard_FullRangeByDefault(t *testing.T) {
	handler, metrics := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	handler.GetDashboard(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Equal(t, "3", metricValue(body, "total-days"))
	assert.Equal(t, "22", metricValue(body, "total-rentals"))
	assert.Equal(t, "7", metricValue(body, "average-rentals"))
	assert.Contains(t, body, `min="2011-01-01"`)
	assert.Contains(t, body, `max="2011-01-03"`)
	assert.Contains(t, body, "/static/sharing.svg")
	for _, name := range ChartNames {
		assert.Contains(t, body, "/charts/"+name+"?end=2011-01-03&amp;start=2011-01-01")
	}
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Renders.WithLabelValues("page", "ok")))
}

func TestDashboardHandler_GetDashboard_SelectedRange(t *testing.T) {
	handler, _ := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/?start=2011-01-01&end=2011-01-02", nil)
	rr := httptest.NewRecorder()

	handler.GetDashboard(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Equal(t, "2", metricValue(body, "total-days"))
	assert.Equal(t, "12", metricValue(body, "total-rentals"))
	assert.Equal(t, "6", metricValue(body, "average-rentals"))
}

func TestDashboardHandler_GetDashboard_ClampsToBounds(t *testing.T) {
	handler, _ := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/?start=2010-06-01&end=2030-01-01", nil)
	rr := httptest.NewRecorder()

	handler.GetDashboard(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `value="2011-01-01"`)
	assert.Contains(t, body, `value="2011-01-03"`)
	assert.Equal(t, "3", metricValue(body, "total-days"))
}

func TestDashboardHandler_GetDashboard_BadRequests(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		response string
	}{
		{"start after end", "?start=2011-01-03&end=2011-01-01", "Invalid argument end"},
		{"malformed start", "?start=01-01-2011", "Invalid argument start"},
		{"malformed end", "?end=tomorrow", "Invalid argument end"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			handler, metrics := newTestHandler(t)
			req := httptest.NewRequest(http.MethodGet, "/"+test.query, nil)
			rr := httptest.NewRecorder()

			handler.GetDashboard(rr, req)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, test.response, strings.TrimSpace(rr.Body.String()))
			assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Renders.WithLabelValues("page", "bad_request")))
		})
	}
}

func TestDashboardHandler_GetChart(t *testing.T) {
	tests := []struct {
		chart    string
		expected []string
	}{
		{DAILY_CHART, []string{"Daily Rentals", "2011-01-02"}},
		{WEEKDAY_CHART, []string{"Average Rents by Day", "Monday", "Sunday"}},
		{SEASON_CHART, []string{"Rents by Season", "Winter", "Spring"}},
		{WEATHER_CHART, []string{"Rents by Weather", "Clear", "Mist"}},
	}

	for _, test := range tests {
		t.Run(test.chart, func(t *testing.T) {
			handler, metrics := newTestHandler(t)
			req := httptest.NewRequest(http.MethodGet, "/charts/"+test.chart, nil)
			req = mux.SetURLVars(req, map[string]string{CHART_PATH_VAR: test.chart})
			rr := httptest.NewRecorder()

			handler.GetChart(rr, req)

			require.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
			for _, s := range test.expected {
				assert.Contains(t, rr.Body.String(), s)
			}
			assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Renders.WithLabelValues(test.chart, "ok")))
		})
	}
}

func TestDashboardHandler_GetChart_SeasonSortedDescending(t *testing.T) {
	handler, _ := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/charts/season", nil)
	req = mux.SetURLVars(req, map[string]string{CHART_PATH_VAR: SEASON_CHART})
	rr := httptest.NewRecorder()

	handler.GetChart(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	// Winter mean 10 before Spring mean 6
	assert.Less(t, strings.Index(body, "Winter"), strings.Index(body, "Spring"))
}

func TestDashboardHandler_GetChart_UnknownChart(t *testing.T) {
	handler, metrics := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/charts/hourly", nil)
	req = mux.SetURLVars(req, map[string]string{CHART_PATH_VAR: "hourly"})
	rr := httptest.NewRecorder()

	handler.GetChart(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Renders.WithLabelValues("unknown", "not_found")))
}

func TestRenderChart_UnknownChart(t *testing.T) {
	err := RenderChart(&strings.Builder{}, "pie", nil)
	assert.ErrorIs(t, err, ErrUnknownChart)
}

func TestDashboardHandler_Ping(t *testing.T) {
	handler, _ := newTestHandler(t)
	rr := httptest.NewRecorder()

	handler.Ping(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "pong", body["status"])
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "6", FormatCount(6))
	assert.Equal(t, "2", FormatCount(2.5))
	assert.Equal(t, "4", FormatCount(3.5))
	assert.Equal(t, "n/a", FormatCount(math.NaN()))
}
