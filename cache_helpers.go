package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/karanm/aerocast/internal/database"
	"github.com/redis/go-redis/v9"
)

// This file contains helper functions for the layered forecast read path.
// Reads go to Redis first, then to the forecast archive in PostgreSQL, and
// fall through to a live prediction only when both layers miss.

// The archive is considered fresh slightly longer than the Redis entry it was
// written with, so a row whose Redis twin just expired can still re-prime the
// cache instead of triggering a live prediction.
const archiveForecastTTL = 35 * time.Minute

// getLatestForecast implements the multi-layered read strategy for forecasts:
// 1. It first checks the Redis cache for a fresh result.
// 2. If Redis is a miss or the entry is invalid, it checks the forecast archive.
// 3. If the archive is also stale or missing, it requests a live prediction.
// A fresh archive row re-primes the Redis cache on its way out.
func (cfg *apiConfig) getLatestForecast(ctx context.Context, site Site, horizonHours int) (ForecastResult, error) {
	cacheKey := forecastCacheKey(site.Slug, horizonHours)
	cachedData, err := cfg.cache.Get(ctx, cacheKey)
	if err == nil {
		var cached ForecastResult
		jsonErr := json.Unmarshal([]byte(cachedData), &cached)
		if jsonErr == nil && isValidForecast(cached, horizonHours) {
			cfg.logger.Debug("cache hit", "key", cacheKey)
			return cached, nil
		}
		if jsonErr != nil {
			cfg.logger.Warn("invalid cache entry: unmarshal error", "key", cacheKey, "error", jsonErr)
		} else {
			cfg.logger.Warn("invalid cache entry: validation failed", "key", cacheKey, "actual_count", len(cached.Predictions))
		}
	} else if err != redis.Nil {
		cfg.logger.Warn("error getting from redis", "key", cacheKey, "error", err)
	}

	row, err := cfg.dbQueries.GetLatestForecastArchiveBySite(ctx, database.GetLatestForecastArchiveBySiteParams{
		SiteSlug:     site.Slug,
		HorizonHours: int32(horizonHours),
	})
	if err != nil && err != sql.ErrNoRows { // sql.ErrNoRows is handled gracefully
		return ForecastResult{}, fmt.Errorf("database error when fetching forecast archive: %w", err)
	}

	if err == nil && row.CreatedAt.After(time.Now().UTC().Add(-archiveForecastTTL)) {
		archived, convErr := databaseForecastArchiveToForecastResult(row, site)
		if convErr == nil && isValidForecast(archived, horizonHours) {
			cfg.logger.Debug("db cache hit", "key", cacheKey)
			if cacheErr := cfg.cache.Set(ctx, cacheKey, archived, forecastCacheTTL); cacheErr != nil {
				cfg.logger.Warn("error setting to redis", "key", cacheKey, "error", cacheErr)
			}
			return archived, nil
		}
		if convErr != nil {
			cfg.logger.Warn("invalid archive row: unmarshal error", "key", cacheKey, "error", convErr)
		}
	}

	result, fetchErr := cfg.getForecast(ctx, site, horizonHours, false)
	if fetchErr != nil {
		// The result still carries a synthetic forecast. Hand both back and
		// let the caller decide how loudly to surface the degradation.
		return result, fetchErr
	}
	cfg.logger.Debug("api fetch successful", "key", cacheKey)
	return result, nil
}

// isValidForecast reports whether a stored forecast is complete for the
// requested horizon and recent enough to serve.
func isValidForecast(result ForecastResult, horizonHours int) bool {
	return len(result.Predictions) == horizonHours &&
		time.Since(result.Metadata.GeneratedAt) < forecastCacheTTL
}
