package di

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"bike-dashboard/config"
	"bike-dashboard/dao/redis"
	"bike-dashboard/db"
	"bike-dashboard/observability"
	"bike-dashboard/server"
	"bike-dashboard/server/handlers"
	services "bike-dashboard/service"

	goredis "github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
)

// Container holds all application dependencies.
type Container struct {
	Config                  *config.AppConfig
	Metrics                 *observability.Metrics
	RedisClient             db.RedisClient
	RedisRentalsDao         *redis.RedisRentalsDAO
	FileSource              *services.FileRentalsSource
	RentalsSource           services.RentalsSource
	DashboardService        *services.DashboardService
	DatasetRefresherService *services.DatasetRefresherService
	DashboardHandler        *handlers.DashboardHandler
	MuxRouter               *mux.Router
	Router                  *server.Router
	DashboardHttpServer     *server.DashboardHttpServer
}

// NewContainer initializes and wires up all dependencies.
func NewContainer(cfg *config.AppConfig) (*Container, error) {
	log.Printf("initializing container - env: %s, dataset source: %s", cfg.Env, cfg.DatasetSource)

	c := &Container{Config: cfg}
	c.Metrics = observability.NewMetrics()
	c.FileSource = services.NewFileRentalsSource(cfg.DatasetPath, cfg.DatasetSheet)
	c.RentalsSource = c.FileSource

	if cfg.DatasetSource == config.DATASET_SOURCE_REDIS {
		redisClient, err := newRedisClient(cfg)
		if err != nil {
			return nil, err
		}
		c.RedisClient = redisClient
		c.RedisRentalsDao = redis.NewRedisRentalsDAO(redisClient)

		if err := services.SeedRentalsStore(c.RedisRentalsDao, c.FileSource); err != nil {
			return nil, fmt.Errorf("failed to seed rentals store: %w", err)
		}
		c.RentalsSource = services.NewRedisRentalsSource(c.RedisRentalsDao)
	}

	// Initialize service layer
	c.DashboardService = services.NewDashboardService(c.RentalsSource, c.Metrics)
	c.DatasetRefresherService = services.NewDatasetRefresherService(c.DashboardService)

	// Initialize dashboard handler
	c.DashboardHandler = handlers.NewDashboardHandler(c.DashboardService, c.Metrics, server.LogoURL)

	// Initialize routers
	c.MuxRouter = mux.NewRouter()
	c.Router = server.NewRouter(c.DashboardHandler, c.MuxRouter, filepath.Join(cfg.ResourcesDir, config.LOGO_RESOURCE))

	// Initialize dashboard server
	c.DashboardHttpServer = server.NewDashboardHttpServer(c.Router, c.MuxRouter, cfg.HTTPAddr, cfg.ShutdownTimeout)

	return c, nil
}

// newRedisClient connects to Redis in prod and uses the in-memory client elsewhere.
func newRedisClient(cfg *config.AppConfig) (db.RedisClient, error) {
	ctx := context.Background()
	if cfg.Env != "prod" {
		log.Printf("Using mock redis client")
		return db.NewMockRedisClient(ctx), nil
	}

	log.Printf("Using redis at %s", cfg.RedisAddress)
	redisInternalClient := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	redisClient := db.NewGoRedisClient(ctx, redisInternalClient)
	if err := redisClient.Ping(); err != nil {
		redisInternalClient.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return redisClient, nil
}

// Close releases the refresher and the Redis connection.
func (c *Container) Close() {
	c.DatasetRefresherService.Stop()
	if closer, ok := c.RedisClient.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			log.Printf("Error closing redis client: %v", err)
		}
	}
}
