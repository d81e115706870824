package main

import (
	"log"

	"bike-dashboard/config"
	"bike-dashboard/di"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[MAIN] Invalid configuration: %v", err)
	}

	container, err := di.NewContainer(cfg)
	if err != nil {
		log.Fatalf("[MAIN] Failed to initialize container: %v", err)
	}
	defer container.Close()

	log.Println("[MAIN] Loading dataset")
	if err := container.DashboardService.LoadDataset(); err != nil {
		log.Fatalf("[MAIN] Failed to load dataset: %v", err)
	}

	if cfg.DatasetWatch && cfg.DatasetSource == config.DATASET_SOURCE_FILE {
		if err := container.DatasetRefresherService.StartWatching(cfg.DatasetPath); err != nil {
			log.Fatalf("[MAIN] Failed to watch dataset: %v", err)
		}
	}
	if cfg.DatasetSource == config.DATASET_SOURCE_REDIS {
		if err := container.DatasetRefresherService.StartPeriodicJob(cfg.DatasetRefreshInterval); err != nil {
			log.Fatalf("[MAIN] Failed to schedule dataset refresh: %v", err)
		}
	}

	log.Println("[MAIN] Starting server")
	if err := container.DashboardHttpServer.Start(); err != nil {
		log.Printf("[MAIN] Server stopped with error: %v", err)
	}
}
