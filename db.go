package main

import (
	"context"
	"time"

	"github.com/karanm/aerocast/internal/database"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

// ConnectDB establishes a connection to the PostgreSQL database using the
// connection string in the apiConfig struct. It initializes the dbQueries
// field with a sqlc-generated Queries struct, which provides type-safe
// methods for all database operations. This method should be called during
// application startup to ensure that the database is reachable before
// handling any requests.
func (cfg *apiConfig) ConnectDB() error {
	db, err := cfg.newDBClientFunc("postgres", cfg.dbURL)
	if err != nil {
		cfg.logger.Error("couldn't prepare connection to database", "error", err)
		return err
	}
	if err := db.Ping(); err != nil {
		cfg.logger.Error("couldn't connect to database", "error", err)
		return err
	}
	cfg.dbQueries = database.New(db)
	cfg.logger.Info("connected to database")
	return nil
}

// ConnectCache establishes a connection to Redis and initializes the cache
// field with the production Cache implementation.
func (cfg *apiConfig) ConnectCache() error {
	opt, err := redis.ParseURL(cfg.redisURL)
	if err != nil {
		cfg.logger.Error("couldn't parse cache URL", "error", err)
		return err
	}
	client := cfg.newCacheClientFunc(opt)
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		cfg.logger.Error("couldn't connect to cache", "error", err)
		return err
	}
	cfg.cache = NewRedisCache(client)
	cfg.logger.Info("connected to cache")
	return nil
}

// dbQuerier is an interface that abstracts all database operations.
// It is implemented by the sqlc-generated Queries struct, allowing for dependency
// injection and easy mocking in tests. This decouples business logic from the data layer.
type dbQuerier interface {
	CountForecastArchives(ctx context.Context) (int64, error)
	CreateForecastArchive(ctx context.Context, arg database.CreateForecastArchiveParams) (database.ForecastArchive, error)
	DeleteAllForecastArchives(ctx context.Context) error
	DeleteAllSettings(ctx context.Context) error
	DeleteForecastArchivesBefore(ctx context.Context, createdAt time.Time) error
	GetLatestForecastArchiveBySite(ctx context.Context, arg database.GetLatestForecastArchiveBySiteParams) (database.ForecastArchive, error)
	GetMonitoredSiteBySlug(ctx context.Context, slug string) (database.MonitoredSite, error)
	GetUsageCount(ctx context.Context) (int64, error)
	IncrementUsageCount(ctx context.Context) (int64, error)
	ListMonitoredSites(ctx context.Context) ([]database.MonitoredSite, error)
	ListSettings(ctx context.Context) ([]database.Setting, error)
	ResetUsageCount(ctx context.Context) error
	UpsertSetting(ctx context.Context, arg database.UpsertSettingParams) (database.Setting, error)
}
