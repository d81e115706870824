package services

import (
	"os"
	"testing"
	"time"

	"bike-dashboard/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatasetRefresherService_RefreshDataset(t *testing.T) {
	path := newDatasetFile(t)
	service := NewDashboardService(NewFileRentalsSource(path, ""), observability.NewMetricsForTesting())
	require.NoError(t, service.LoadDataset())
	refresher := NewDatasetRefresherService(service)

	writeDataset(t, path, updatedDatasetCSV)

	require.NoError(t, refresher.RefreshDataset())
	assert.Equal(t, 3, service.RowCount())
}

func TestDatasetRefresherService_RefreshDatasetFailure(t *testing.T) {
	path := newDatasetFile(t)
	service := NewDashboardService(NewFileRentalsSource(path, ""), observability.NewMetricsForTesting())
	require.NoError(t, service.LoadDataset())
	refresher := NewDatasetRefresherService(service)

	require.NoError(t, os.Remove(path))

	assert.Error(t, refresher.RefreshDataset())
	assert.Equal(t, 2, service.RowCount())
}

func TestDatasetRefresherService_StartWatching(t *testing.T) {
	path := newDatasetFile(t)
	service := NewDashboardService(NewFileRentalsSource(path, ""), observability.NewMetricsForTesting())
	require.NoError(t, service.LoadDataset())
	refresher := NewDatasetRefresherService(service)
	require.NoError(t, refresher.StartWatching(path))
	defer refresher.Stop()

	// coarse filesystem clocks can otherwise keep the old modification time
	time.Sleep(50 * time.Millisecond)
	writeDataset(t, path, updatedDatasetCSV)

	assert.Eventually(t, func() bool {
		return service.RowCount() == 3
	}, 5*time.Second, 20*time.Millisecond)
}

func TestDatasetRefresherService_StartWatchingMissingDir(t *testing.T) {
	refresher := NewDatasetRefresherService(nil)

	assert.Error(t, refresher.StartWatching("/does/not/exist/hour.csv"))
}

func TestDatasetRefresherService_StartPeriodicJob(t *testing.T) {
	path := newDatasetFile(t)
	service := NewDashboardService(NewFileRentalsSource(path, ""), observability.NewMetricsForTesting())
	require.NoError(t, service.LoadDataset())
	refresher := NewDatasetRefresherService(service)

	require.NoError(t, refresher.StartPeriodicJob(time.Second))
	defer refresher.Stop()
	writeDataset(t, path, updatedDatasetCSV)

	assert.Eventually(t, func() bool {
		return service.RowCount() == 3
	}, 5*time.Second, 50*time.Millisecond)
}

func TestDatasetRefresherService_StopWithoutStart(t *testing.T) {
	refresher := NewDatasetRefresherService(nil)

	assert.NotPanics(t, refresher.Stop)
}
