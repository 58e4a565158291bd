package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// This file contains the forecast service: the live prediction path with its
// single-attempt fallback, the supersede bookkeeping for overlapping
// requests, and the current-conditions snapshot derived from the newest
// forecast.

// defaultHorizonHours is the horizon used by the scheduler refresh and by
// snapshot lookups that don't specify one.
const defaultHorizonHours = 24

// inflightRegistry tracks the newest in-flight forecast call per
// (site, horizon) key. When calls overlap on the same key, only the newest
// one writes shared state; older calls still serve their own caller.
type inflightRegistry struct {
	mu     sync.Mutex
	tokens map[string]uuid.UUID
}

func newInflightRegistry() *inflightRegistry {
	return &inflightRegistry{tokens: make(map[string]uuid.UUID)}
}

// begin registers a new call for the key and returns its token, superseding
// any call already in flight for the same key.
func (r *inflightRegistry) begin(key string) uuid.UUID {
	token := uuid.New()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[key] = token
	return token
}

// finish reports whether the token still owns the key and releases the key
// when it does. A superseded call gets false and must not touch shared state.
func (r *inflightRegistry) finish(key string, token uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.tokens[key]
	if !ok || current != token {
		return false
	}
	delete(r.tokens, key)
	return true
}

// getForecast serves one forecast request end to end. The result is always
// usable: on any upstream failure it substitutes a synthetic forecast and
// returns it together with the original error, so callers can surface a
// degraded-mode notice while still rendering data. The usage counter
// advances exactly once per call, winner or superseded.
func (cfg *apiConfig) getForecast(ctx context.Context, site Site, horizonHours int, includeUncertainty bool) (ForecastResult, error) {
	key := forecastCacheKey(site.Slug, horizonHours)
	token := cfg.inflight.begin(key)

	result := ForecastResult{
		Site: site,
		Metadata: ForecastMetadata{
			Coordinates:  Coordinates{Latitude: site.Latitude, Longitude: site.Longitude},
			HorizonHours: horizonHours,
			Source:       "model",
			GeneratedAt:  time.Now().UTC(),
		},
	}

	remote, fetchErr := cfg.prediction.Predict(ctx, ForecastRequest{
		Coordinates:        Coordinates{Latitude: site.Latitude, Longitude: site.Longitude},
		HorizonHours:       horizonHours,
		IncludeUncertainty: includeUncertainty,
	})
	if fetchErr == nil {
		result.Predictions = remote.Points
		result.Metadata.ModelUsed = remote.ModelUsed
		result.Metadata.Accuracy = remote.Accuracy
		predictionsTotal.WithLabelValues("model").Inc()
	} else {
		cfg.logger.Warn("prediction API failed, synthesizing forecast", "site", site.Slug, "error", fetchErr)
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		result.Predictions = synthesizeForecast(rng, site.Latitude, site.Longitude, horizonHours, includeUncertainty, time.Now().UTC())
		result.Metadata.ModelUsed = cfg.fallbackModelName
		result.Metadata.Accuracy = cfg.fallbackModelAccuracy
		result.Metadata.Source = "fallback"
		predictionsTotal.WithLabelValues("fallback").Inc()
	}

	if cfg.inflight.finish(key, token) {
		cfg.persistForecast(ctx, result)
	} else {
		cfg.logger.Debug("forecast superseded, skipping persistence", "site", site.Slug, "hours", horizonHours)
	}

	cfg.usage.Increment(ctx)

	return result, fetchErr
}

// getCurrentConditions returns the current-AQI snapshot for a site. It
// prefers the cached snapshot written by the last persisted forecast and
// otherwise derives a fresh one from the latest forecast's first point.
func (cfg *apiConfig) getCurrentConditions(ctx context.Context, site Site) (CurrentConditions, error) {
	cacheKey := currentAQICacheKey(site.Slug)
	cachedData, err := cfg.cache.Get(ctx, cacheKey)
	if err == nil {
		var current CurrentConditions
		if jsonErr := json.Unmarshal([]byte(cachedData), &current); jsonErr == nil {
			cfg.logger.Debug("cache hit", "key", cacheKey)
			return current, nil
		} else {
			cfg.logger.Warn("invalid cache entry: unmarshal error", "key", cacheKey, "error", jsonErr)
		}
	} else if err != redis.Nil {
		cfg.logger.Warn("error getting from redis", "key", cacheKey, "error", err)
	}

	result, fetchErr := cfg.getLatestForecast(ctx, site, defaultHorizonHours)
	if len(result.Predictions) == 0 {
		if fetchErr == nil {
			fetchErr = fmt.Errorf("empty forecast")
		}
		return CurrentConditions{}, fmt.Errorf("no forecast available for site %s: %w", site.Slug, fetchErr)
	}

	current := currentFromForecast(result)
	if cacheErr := cfg.cache.Set(ctx, cacheKey, current, currentAQICacheTTL); cacheErr != nil {
		cfg.logger.Warn("error setting to redis", "key", cacheKey, "error", cacheErr)
	}
	return current, nil
}

// currentFromForecast projects a forecast's first point into the snapshot
// shape the dashboard's AQI card renders.
func currentFromForecast(result ForecastResult) CurrentConditions {
	first := result.Predictions[0]
	return CurrentConditions{
		Site:      result.Site,
		AQI:       first.AQI,
		Category:  aqiCategory(first.AQI),
		NO2:       first.NO2,
		O3:        first.O3,
		Timestamp: first.Timestamp,
		Source:    result.Metadata.Source,
	}
}
