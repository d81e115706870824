package services

import (
	"fmt"
	"log"
	"sync"

	"bike-dashboard/analytics"
	"bike-dashboard/models"
	"bike-dashboard/observability"

	"github.com/go-gota/gota/dataframe"
	"github.com/prometheus/client_golang/prometheus"
)

// DashboardService owns the loaded rentals table and builds dashboard views from it.
// A loaded table is never mutated; LoadDataset swaps in a new one.
type DashboardService struct {
	source  RentalsSource
	metrics *observability.Metrics

	mu     sync.RWMutex
	table  dataframe.DataFrame
	bounds models.DateRange
	loaded bool
}

// NewDashboardService constructs a DashboardService reading from source.
func NewDashboardService(source RentalsSource, metrics *observability.Metrics) *DashboardService {
	return &DashboardService{
		source:  source,
		metrics: metrics,
	}
}

// LoadDataset (re)reads the table from the source. On failure the previous table stays in place.
func (ds *DashboardService) LoadDataset() error {
	table, err := ds.source.Load()
	if err != nil {
		ds.metrics.DatasetReloads.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to load dataset from %s: %w", ds.source.Name(), err)
	}
	bounds, err := analytics.DateBounds(table)
	if err != nil {
		ds.metrics.DatasetReloads.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to load dataset from %s: %w", ds.source.Name(), err)
	}

	ds.mu.Lock()
	ds.table = table
	ds.bounds = bounds
	ds.loaded = true
	ds.mu.Unlock()

	ds.metrics.DatasetReloads.WithLabelValues("success").Inc()
	ds.metrics.DatasetRows.Set(float64(table.Nrow()))
	log.Printf("[DashboardService] Loaded %d rows from %s (%s to %s)",
		table.Nrow(), ds.source.Name(), bounds.StartString(), bounds.EndString())
	return nil
}

// Bounds returns the first and last date of the loaded table.
func (ds *DashboardService) Bounds() models.DateRange {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.bounds
}

// RowCount returns the number of rows in the loaded table.
func (ds *DashboardService) RowCount() int {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.table.Nrow()
}

// BuildView runs the aggregation pipeline over the selected range.
func (ds *DashboardService) BuildView(rng models.DateRange) (*models.DashboardView, error) {
	ds.mu.RLock()
	table, bounds, loaded := ds.table, ds.bounds, ds.loaded
	ds.mu.RUnlock()

	if !loaded {
		return nil, fmt.Errorf("dataset not loaded")
	}

	timer := prometheus.NewTimer(ds.metrics.AggregationDuration)
	defer timer.ObserveDuration()

	return analytics.BuildDashboardView(table, rng, bounds)
}
