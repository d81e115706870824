package services

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"bike-dashboard/config"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
)

// DatasetRefresherService reloads the dashboard dataset when its source changes.
type DatasetRefresherService struct {
	dashboardService *DashboardService

	mu      sync.Mutex
	cron    *cron.Cron
	watcher *fsnotify.Watcher
	lastMod time.Time
}

// NewDatasetRefresherService constructs a new refresher for the dashboard service.
func NewDatasetRefresherService(dashboardService *DashboardService) *DatasetRefresherService {
	return &DatasetRefresherService{dashboardService: dashboardService}
}

// RefreshDataset reloads the table once, keeping the previous one on failure.
func (dr *DatasetRefresherService) RefreshDataset() error {
	log.Println("[DatasetRefresherService] Reloading dataset.")
	if err := dr.dashboardService.LoadDataset(); err != nil {
		log.Printf("[DatasetRefresherService] Reload failed, keeping previous dataset: %v", err)
		return err
	}
	log.Println("[DatasetRefresherService] Reload completed successfully.")
	return nil
}

// StartPeriodicJob schedules a reload at the given interval.
func (dr *DatasetRefresherService) StartPeriodicJob(interval time.Duration) error {
	if interval <= 0 {
		interval = config.DATASET_REFRESH_INTERVAL_MINUTES * time.Minute
	}

	c := cron.New()
	schedule := fmt.Sprintf("@every %s", interval)
	if _, err := c.AddFunc(schedule, func() { _ = dr.RefreshDataset() }); err != nil {
		return fmt.Errorf("failed to schedule dataset refresh %q: %w", schedule, err)
	}

	dr.mu.Lock()
	dr.cron = c
	dr.mu.Unlock()

	c.Start()
	log.Printf("[DatasetRefresherService] Periodic reload scheduled (%s)", schedule)
	return nil
}

// StartWatching reloads the dataset whenever the file at path is written or replaced.
func (dr *DatasetRefresherService) StartWatching(path string) error {
	path = filepath.Clean(path)
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	// watch the directory so a replaced file is still seen
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	dr.mu.Lock()
	dr.watcher = watcher
	if info, err := os.Stat(path); err == nil {
		dr.lastMod = info.ModTime()
	}
	dr.mu.Unlock()

	go dr.watch(watcher, path)
	log.Printf("[DatasetRefresherService] Watching %s for changes", path)
	return nil
}

func (dr *DatasetRefresherService) watch(watcher *fsnotify.Watcher, path string) {
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != path || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			modTime, changed := dr.changedSinceLastLoad(path)
			if !changed {
				continue
			}
			if err := dr.RefreshDataset(); err == nil {
				dr.mu.Lock()
				dr.lastMod = modTime
				dr.mu.Unlock()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[DatasetRefresherService] Watcher error: %v", err)
		}
	}
}

// changedSinceLastLoad reports whether the file differs from the last successfully loaded one.
func (dr *DatasetRefresherService) changedSinceLastLoad(path string) (time.Time, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, false
	}
	dr.mu.Lock()
	defer dr.mu.Unlock()
	return info.ModTime(), !info.ModTime().Equal(dr.lastMod)
}

// Stop cancels the periodic job and the file watcher.
func (dr *DatasetRefresherService) Stop() {
	dr.mu.Lock()
	defer dr.mu.Unlock()
	if dr.cron != nil {
		<-dr.cron.Stop().Done()
		dr.cron = nil
	}
	if dr.watcher != nil {
		dr.watcher.Close()
		dr.watcher = nil
	}
}
