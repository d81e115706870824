package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DashboardHandler serves the dashboard routes.
type DashboardHandler interface {
	GetDashboard(w http.ResponseWriter, r *http.Request)
	GetChart(w http.ResponseWriter, r *http.Request)
	Ping(w http.ResponseWriter, r *http.Request)
}

type Router struct {
	dashboardHandler DashboardHandler
	router           *mux.Router
	logoPath         string
	metricsHandler   http.Handler
}

// NewRouter creates a router with the app’s routes.
func NewRouter(
	dashboardHandler DashboardHandler,
	router *mux.Router,
	logoPath string) *Router {
	return &Router{
		dashboardHandler: dashboardHandler,
		router:           router,
		logoPath:         logoPath,
		metricsHandler:   promhttp.Handler(),
	}
}

// LogoURL is where the page links the logo.
const LogoURL = "/static/sharing.svg"

func (r *Router) RegisterRoutes() {
	// expects ?start={YYYY-MM-DD}&end={YYYY-MM-DD}, both optional
	r.router.HandleFunc("/", r.dashboardHandler.GetDashboard).Methods("GET")
	r.router.HandleFunc("/charts/{chart}", r.dashboardHandler.GetChart).Methods("GET")

	r.router.HandleFunc(LogoURL, func(w http.ResponseWriter, req *http.Request) {
		http.ServeFile(w, req, r.logoPath)
	}).Methods("GET")

	r.router.HandleFunc("/ping", r.dashboardHandler.Ping).Methods("GET")
	r.router.Handle("/metrics", r.metricsHandler).Methods("GET")
}
