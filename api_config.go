package main

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

// apiConfig is the dependency container for the whole service. It is built
// once at startup from the environment and passed (as methods on itself) to
// every handler and scheduler job.
type apiConfig struct {
	dbQueries                  dbQuerier
	dbURL                      string
	newDBClientFunc            func(driverName, dataSourceName string) (*sql.DB, error)
	cache                      Cache
	redisURL                   string
	newCacheClientFunc         func(opt *redis.Options) *redis.Client
	prediction                 PredictionService
	predictAPIURL              string
	settings                   *SettingsStore
	usage                      *UsageCounter
	statusMonitor              *StatusMonitor
	inflight                   *inflightRegistry
	httpClient                 *http.Client
	schedulerStatusInterval    time.Duration
	schedulerRefreshInterval   time.Duration
	schedulerRetentionInterval time.Duration
	statusHold                 time.Duration
	fallbackModelName          string
	fallbackModelAccuracy      string
	port                       string
	devMode                    bool
	logger                     *slog.Logger
}

// getRequiredEnv retrieves an environment variable by key and returns an
// error if it is missing or empty.
func getRequiredEnv(key string, logger *slog.Logger) (string, error) {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		logger.Error("environment variable must be set", "key", key)
		return "", fmt.Errorf("environment variable %s must be set", key)
	}
	return val, nil
}

// getEnv retrieves an environment variable by key, with a fallback value.
func getEnv(key, fallback string, logger *slog.Logger) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	logger.Info("environment variable not set, using fallback", "key", key, "fallback", fallback)
	return fallback
}

// getEnvAsInt retrieves an environment variable as an integer, with a fallback value.
func getEnvAsInt(key string, fallback int, logger *slog.Logger) int {
	valStr, ok := os.LookupEnv(key)
	if !ok {
		logger.Info("environment variable not set, using fallback", "key", key, "fallback", fallback)
		return fallback
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		logger.Warn("invalid integer value for environment variable, using fallback", "key", key, "value", valStr, "error", err)
		return fallback
	}
	return val
}

// NewAPIConfig reads the environment and assembles the dependency container.
// It only parses configuration and wires pure dependencies; ConnectDB and
// ConnectCache establish the actual connections so tests can construct a
// config without any infrastructure.
func NewAPIConfig(logWriter io.Writer) (*apiConfig, error) {
	devModeStr := os.Getenv("DEV_MODE")
	devMode, err := strconv.ParseBool(devModeStr)
	if err != nil {
		devMode = false
	}

	var logger *slog.Logger
	if devMode {
		logger = slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	} else {
		logger = slog.New(slog.NewJSONHandler(logWriter, nil))
	}

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, relying on environment variables")
	}

	dbURL, err := getRequiredEnv("DB_URL", logger)
	if err != nil {
		return nil, err
	}
	redisURL, err := getRequiredEnv("REDIS_URL", logger)
	if err != nil {
		return nil, err
	}
	predictAPIURL, err := getRequiredEnv("PREDICT_API_URL", logger)
	if err != nil {
		return nil, err
	}

	statusIntervalMin := getEnvAsInt("STATUS_INTERVAL_MIN", 5, logger)
	refreshIntervalMin := getEnvAsInt("REFRESH_INTERVAL_MIN", 60, logger)
	retentionIntervalMin := getEnvAsInt("RETENTION_INTERVAL_MIN", 720, logger)
	statusHoldSec := getEnvAsInt("STATUS_HOLD_SECONDS", 0, logger)
	predictTimeoutSec := getEnvAsInt("PREDICT_TIMEOUT_SECONDS", 10, logger)
	predictRPS := getEnvAsInt("PREDICT_RPS", 5, logger)

	cfg := apiConfig{
		dbURL:              dbURL,
		newDBClientFunc:    sql.Open,
		redisURL:           redisURL,
		newCacheClientFunc: redis.NewClient,
		predictAPIURL:      predictAPIURL,
		httpClient: &http.Client{
			Timeout:   time.Duration(predictTimeoutSec) * time.Second,
			Transport: &metricsTransport{wrapped: http.DefaultTransport},
		},
		schedulerStatusInterval:    time.Duration(statusIntervalMin) * time.Minute,
		schedulerRefreshInterval:   time.Duration(refreshIntervalMin) * time.Minute,
		schedulerRetentionInterval: time.Duration(retentionIntervalMin) * time.Minute,
		statusHold:                 time.Duration(statusHoldSec) * time.Second,
		fallbackModelName:          getEnv("FALLBACK_MODEL_NAME", "Atmospheric Science Patterns", logger),
		fallbackModelAccuracy:      getEnv("FALLBACK_MODEL_ACCURACY", "60-65%", logger),
		port:                       getEnv("PORT", "8080", logger),
		devMode:                    devMode,
		logger:                     logger,
	}

	cfg.prediction = NewModelAPIPredictionService(predictAPIURL, cfg.httpClient, predictRPS, logger)
	cfg.settings = NewSettingsStore(&cfg)
	cfg.usage = NewUsageCounter(&cfg)
	cfg.statusMonitor = NewStatusMonitor(&cfg)
	cfg.inflight = newInflightRegistry()

	return &cfg, nil
}
