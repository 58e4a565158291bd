package main

import (
	"context"
)

// This file contains helper functions for persisting forecasts. Archiving is
// best effort: a forecast that already reached its caller is never failed
// retroactively because a write behind it did not stick.

// persistForecast writes a completed forecast to the archive and primes both
// Redis entries derived from it: the forecast itself and the current-AQI
// snapshot taken from its first point.
func (cfg *apiConfig) persistForecast(ctx context.Context, result ForecastResult) {
	params, err := forecastResultToCreateForecastArchiveParams(result)
	if err != nil {
		cfg.logger.Error("couldn't encode forecast for archive", "site", result.Site.Slug, "error", err)
		persistenceErrors.Inc()
	} else if _, dbErr := cfg.dbQueries.CreateForecastArchive(ctx, params); dbErr != nil {
		cfg.logger.Error("couldn't archive forecast", "site", result.Site.Slug, "error", dbErr)
		persistenceErrors.Inc()
	} else {
		cfg.logger.Debug("archived forecast", "site", result.Site.Slug, "hours", result.Metadata.HorizonHours)
	}

	cacheKey := forecastCacheKey(result.Site.Slug, result.Metadata.HorizonHours)
	if cacheErr := cfg.cache.Set(ctx, cacheKey, result, forecastCacheTTL); cacheErr != nil {
		cfg.logger.Warn("error setting to redis after api fetch", "key", cacheKey, "error", cacheErr)
	} else {
		cfg.logger.Debug("set to cache", "key", cacheKey)
	}

	if len(result.Predictions) == 0 {
		return
	}
	current := currentFromForecast(result)
	currentKey := currentAQICacheKey(result.Site.Slug)
	if cacheErr := cfg.cache.Set(ctx, currentKey, current, currentAQICacheTTL); cacheErr != nil {
		cfg.logger.Warn("error setting to redis", "key", currentKey, "error", cacheErr)
	}
}
