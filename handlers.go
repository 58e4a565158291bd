package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// This file contains the main HTTP handlers for the application. Each handler is responsible
// for processing incoming API requests, calling the appropriate helper functions to fetch
// and process data, and writing the final JSON response.

// maxHorizonHours bounds requested forecast horizons at the HTTP boundary.
const maxHorizonHours = 168

// coverageArea names the region the monitored sites span.
const coverageArea = "Delhi NCR"

// forecastResultToResponse formats a forecast for the wire. A non-nil fetch
// error marks the metadata with a warning; the payload itself still carries
// the substituted predictions, so degraded responses stay a 200.
func forecastResultToResponse(result ForecastResult, fetchErr error) ForecastResponse {
	points := make([]PredictionPointJSON, len(result.Predictions))
	for i, p := range result.Predictions {
		points[i] = PredictionPointJSON{
			Timestamp:      p.Timestamp.UTC().Format(time.RFC3339),
			NO2:            p.NO2,
			O3:             p.O3,
			AQI:            p.AQI,
			NO2Uncertainty: p.NO2Band,
			O3Uncertainty:  p.O3Band,
		}
	}

	response := ForecastResponse{
		Predictions: points,
		Metadata: ForecastMetadataJSON{
			Location: PointCoordinatesJSON{
				Lat: result.Metadata.Coordinates.Latitude,
				Lng: result.Metadata.Coordinates.Longitude,
			},
			Hours:       result.Metadata.HorizonHours,
			ModelUsed:   result.Metadata.ModelUsed,
			Accuracy:    result.Metadata.Accuracy,
			Source:      result.Metadata.Source,
			GeneratedAt: result.Metadata.GeneratedAt.UTC().Format(time.RFC3339),
		},
	}
	if fetchErr != nil {
		response.Metadata.Warning = fetchErr.Error()
	}
	return response
}

// @Summary      Request a forecast
// @Description  Runs a pollutant forecast for the given coordinates. When the remote model
// @Description  is unreachable the response carries synthesized predictions with
// @Description  metadata.source set to "fallback" and a warning describing the failure.
// @Tags         forecast
// @Accept       json
// @Produce      json
// @Param        request body PredictRequest true "Coordinates, horizon in hours and uncertainty flag"
// @Success      200  {object}  ForecastResponse
// @Failure      400  {object}  ErrorResponse "Bad Request - Invalid body or horizon"
// @Router       /api/v1/predict [post]
func (cfg *apiConfig) handlerPredict(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != http.MethodPost {
		cfg.respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}

	var req PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		cfg.respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	hours := req.Hours
	if hours == 0 {
		hours = defaultHorizonHours
	}
	if hours < 1 || hours > maxHorizonHours {
		cfg.respondWithError(w, http.StatusBadRequest, "Invalid hours parameter", nil)
		return
	}

	var site Site
	var err error
	if req.Latitude == 0 && req.Longitude == 0 {
		site, err = cfg.getSiteBySlug(ctx, cfg.settings.DefaultSite())
	} else {
		site, err = cfg.nearestSite(ctx, req.Latitude, req.Longitude)
	}
	if err != nil {
		cfg.respondWithError(w, http.StatusBadRequest, "Error resolving site for request", err)
		return
	}
	cfg.logger.Debug("forecast request", "site", site.Slug, "hours", hours)

	result, fetchErr := cfg.getForecast(ctx, site, hours, req.IncludeUncertainty)
	cfg.respondWithJSON(w, http.StatusOK, forecastResultToResponse(result, fetchErr))
}

// @Summary      Get the latest forecast
// @Description  Retrieves the most recent forecast for a monitored site, served from Redis,
// @Description  the archive, or a live prediction, in that order.
// @Tags         forecast
// @Produce      json
// @Param        site  query  string  false  "Site slug (e.g., 'connaught-place')"
// @Param        lat   query  number  false  "Latitude resolved to the nearest monitored site"
// @Param        lon   query  number  false  "Longitude resolved to the nearest monitored site"
// @Param        hours query  integer false  "Forecast horizon in hours (default 24)"
// @Success      200  {object}  ForecastResponse
// @Failure      400  {object}  ErrorResponse "Bad Request - Invalid site or horizon"
// @Failure      500  {object}  ErrorResponse "Internal Server Error - Failed to retrieve forecast data"
// @Router       /api/v1/forecast/latest [get]
func (cfg *apiConfig) handlerLatestForecast(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != http.MethodGet {
		cfg.respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}

	site, err := cfg.getSiteFromRequest(r)
	if err != nil {
		cfg.respondWithError(w, http.StatusBadRequest, "Error getting site data", err)
		return
	}

	hours := defaultHorizonHours
	if hoursStr := r.URL.Query().Get("hours"); hoursStr != "" {
		parsed, parseErr := strconv.Atoi(hoursStr)
		if parseErr != nil || parsed < 1 || parsed > maxHorizonHours {
			cfg.respondWithError(w, http.StatusBadRequest, "Invalid hours parameter", parseErr)
			return
		}
		hours = parsed
	}
	cfg.logger.Debug("latest forecast request", "site", site.Slug, "hours", hours)

	result, fetchErr := cfg.getLatestForecast(ctx, site, hours)
	if len(result.Predictions) == 0 {
		cfg.respondWithError(w, http.StatusInternalServerError, "Error getting forecast data", fetchErr)
		return
	}

	cfg.respondWithJSON(w, http.StatusOK, forecastResultToResponse(result, fetchErr))
}

// @Summary      Get current conditions
// @Description  Retrieves the current AQI snapshot for a monitored site, derived from the
// @Description  first point of the latest forecast.
// @Tags         forecast
// @Produce      json
// @Param        site query string false "Site slug (e.g., 'connaught-place')"
// @Param        lat  query number false "Latitude resolved to the nearest monitored site"
// @Param        lon  query number false "Longitude resolved to the nearest monitored site"
// @Success      200  {object}  CurrentConditionsResponse
// @Failure      400  {object}  ErrorResponse "Bad Request - Invalid site parameters"
// @Failure      500  {object}  ErrorResponse "Internal Server Error - Failed to retrieve current conditions"
// @Router       /api/v1/current [get]
func (cfg *apiConfig) handlerCurrentConditions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != http.MethodGet {
		cfg.respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}

	site, err := cfg.getSiteFromRequest(r)
	if err != nil {
		cfg.respondWithError(w, http.StatusBadRequest, "Error getting site data", err)
		return
	}
	cfg.logger.Debug("current conditions request", "site", site.Slug)

	current, err := cfg.getCurrentConditions(ctx, site)
	if err != nil {
		cfg.respondWithError(w, http.StatusInternalServerError, "Error getting current conditions", err)
		return
	}

	response := CurrentConditionsResponse{
		Site:      current.Site.Slug,
		AQI:       current.AQI,
		Category:  current.Category,
		NO2:       current.NO2,
		O3:        current.O3,
		Timestamp: current.Timestamp.UTC().Format(time.RFC3339),
		Source:    current.Source,
	}

	cfg.respondWithJSON(w, http.StatusOK, response)
}

// @Summary      Get model status
// @Description  Reports the health of the remote prediction model as last observed by the
// @Description  status monitor: active, fallback, or error.
// @Tags         model
// @Produce      json
// @Success      200  {object}  ModelStatusResponse
// @Router       /api/v1/model-status [get]
func (cfg *apiConfig) handlerModelStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		cfg.respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}

	status := cfg.statusMonitor.Status()
	response := ModelStatusResponse{
		Status:      string(status.State),
		ModelName:   status.ModelName,
		Accuracy:    status.Accuracy,
		Description: status.Description,
	}
	if !status.CheckedAt.IsZero() {
		response.CheckedAt = status.CheckedAt.UTC().Format(time.RFC3339)
	}

	cfg.respondWithJSON(w, http.StatusOK, response)
}

// @Summary      Get model metadata
// @Description  Proxies the remote model's metadata document. When the remote endpoint is
// @Description  unreachable a static equivalent document is served instead.
// @Tags         model
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /api/v1/model-info [get]
func (cfg *apiConfig) handlerModelInfo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != http.MethodGet {
		cfg.respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}

	info, err := cfg.prediction.ModelInfo(ctx)
	if err != nil {
		cfg.logger.Warn("model info fetch failed, serving static document", "error", err)
		info = staticModelInfo()
	}

	cfg.respondWithJSON(w, http.StatusOK, info)
}

// @Summary      List monitored sites
// @Description  Returns every monitored site together with the covered region.
// @Tags         sites
// @Produce      json
// @Success      200  {object}  LocationsResponse
// @Failure      500  {object}  ErrorResponse "Internal Server Error - Failed to list sites"
// @Router       /api/v1/locations [get]
func (cfg *apiConfig) handlerLocations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != http.MethodGet {
		cfg.respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}

	sites, err := cfg.dbQueries.ListMonitoredSites(ctx)
	if err != nil {
		cfg.respondWithError(w, http.StatusInternalServerError, "Error getting monitored sites", err)
		return
	}

	sitesJSON := make([]SiteJSON, len(sites))
	for i, s := range sites {
		sitesJSON[i] = SiteJSON{
			Slug:      s.Slug,
			Name:      s.Name,
			Latitude:  s.Latitude,
			Longitude: s.Longitude,
			Kind:      s.Kind,
		}
	}

	response := LocationsResponse{
		Locations:    sitesJSON,
		TotalCount:   len(sitesJSON),
		CoverageArea: coverageArea,
	}

	cfg.respondWithJSON(w, http.StatusOK, response)
}

// @Summary      Get historical pollutant data
// @Description  Returns one day-resolution point per day plus aggregate stats. Passing both
// @Description  year and month selects calendar-month mode; otherwise a rolling window
// @Description  ending today is used.
// @Tags         analytics
// @Produce      json
// @Param        year   query integer false "Calendar year (month mode)"
// @Param        month  query integer false "Calendar month 1-12 (month mode)"
// @Param        days   query integer false "Cap on days returned in month mode"
// @Param        window query integer false "Rolling window length in days (default 30)"
// @Success      200  {object}  HistoricalResponse
// @Failure      400  {object}  ErrorResponse "Bad Request - Invalid parameters"
// @Router       /api/v1/historical [get]
func (cfg *apiConfig) handlerHistorical(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		cfg.respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}

	query := r.URL.Query()
	yearStr := query.Get("year")
	monthStr := query.Get("month")

	var year, month, maxDays, window int
	if yearStr != "" && monthStr != "" {
		var err error
		year, err = strconv.Atoi(yearStr)
		if err != nil || year < 1 {
			cfg.respondWithError(w, http.StatusBadRequest, "Invalid year parameter", err)
			return
		}
		month, err = strconv.Atoi(monthStr)
		if err != nil || month < 1 || month > 12 {
			cfg.respondWithError(w, http.StatusBadRequest, "Invalid month parameter", err)
			return
		}
		if daysStr := query.Get("days"); daysStr != "" {
			maxDays, err = strconv.Atoi(daysStr)
			if err != nil || maxDays < 1 {
				cfg.respondWithError(w, http.StatusBadRequest, "Invalid days parameter", err)
				return
			}
		}
	} else if windowStr := query.Get("window"); windowStr != "" {
		parsed, err := strconv.Atoi(windowStr)
		if err != nil || parsed < 1 {
			cfg.respondWithError(w, http.StatusBadRequest, "Invalid window parameter", err)
			return
		}
		window = parsed
	}
	cfg.logger.Debug("historical request", "year", year, "month", month, "window", window)

	points, stats := loadHistorical(year, time.Month(month), window, maxDays)

	pointsJSON := make([]HistoricalPointJSON, len(points))
	for i, p := range points {
		pointsJSON[i] = HistoricalPointJSON{
			Date: p.Date.Format("2006-01-02"),
			NO2:  p.NO2,
			O3:   p.O3,
			AQI:  p.AQI,
		}
	}

	response := HistoricalResponse{
		Points: pointsJSON,
		Stats: HistoricalStatsJSON{
			AvgNO2: stats.AvgNO2,
			AvgO3:  stats.AvgO3,
			MaxAQI: stats.MaxAQI,
			Count:  stats.Count,
		},
	}

	cfg.respondWithJSON(w, http.StatusOK, response)
}

// @Summary      Get model analytics
// @Description  Returns the full analytics bundle for the dashboard's performance page:
// @Description  radar scores, accuracy trend, per-site performance, diurnal pattern,
// @Description  AQI-bucket errors and weekly usage.
// @Tags         analytics
// @Produce      json
// @Success      200  {object}  AnalyticsResponse
// @Failure      500  {object}  ErrorResponse "Internal Server Error - Failed to build analytics"
// @Router       /api/v1/analytics [get]
func (cfg *apiConfig) handlerAnalytics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != http.MethodGet {
		cfg.respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}

	bundle, err := cfg.loadAnalytics(ctx)
	if err != nil {
		cfg.respondWithError(w, http.StatusInternalServerError, "Error building analytics", err)
		return
	}

	response := AnalyticsResponse{
		Radar:         make([]RadarMetricJSON, len(bundle.Radar)),
		AccuracyTrend: make([]TrendPointJSON, len(bundle.AccuracyTrend)),
		Sites:         make([]SitePerformanceJSON, len(bundle.Sites)),
		HourlyPattern: make([]HourlyPointJSON, len(bundle.HourlyPattern)),
		ErrorBuckets:  make([]ErrorBucketJSON, len(bundle.ErrorBuckets)),
		WeeklyUsage:   make([]UsagePointJSON, len(bundle.WeeklyUsage)),
		GeneratedAt:   bundle.GeneratedAt.UTC().Format(time.RFC3339),
	}
	for i, m := range bundle.Radar {
		response.Radar[i] = RadarMetricJSON{Metric: m.Metric, Score: m.Score, FullMark: m.FullMark}
	}
	for i, p := range bundle.AccuracyTrend {
		response.AccuracyTrend[i] = TrendPointJSON{Date: p.Date.Format("2006-01-02"), Accuracy: p.Accuracy}
	}
	for i, s := range bundle.Sites {
		response.Sites[i] = SitePerformanceJSON{Site: s.Site, Accuracy: s.Accuracy, Predictions: s.Predictions}
	}
	for i, p := range bundle.HourlyPattern {
		response.HourlyPattern[i] = HourlyPointJSON{Hour: p.Hour, NO2: p.NO2, O3: p.O3, AQI: p.AQI}
	}
	for i, b := range bundle.ErrorBuckets {
		response.ErrorBuckets[i] = ErrorBucketJSON{Bucket: b.Bucket, MeanError: b.MeanError, Samples: b.Samples}
	}
	for i, u := range bundle.WeeklyUsage {
		response.WeeklyUsage[i] = UsagePointJSON{Date: u.Date.Format("2006-01-02"), Count: u.Count}
	}

	cfg.respondWithJSON(w, http.StatusOK, response)
}

// @Summary      Get usage count
// @Description  Returns the total number of forecasts served since the counter was last reset.
// @Tags         analytics
// @Produce      json
// @Success      200  {object}  UsageResponse
// @Router       /api/v1/usage [get]
func (cfg *apiConfig) handlerUsage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		cfg.respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}

	cfg.respondWithJSON(w, http.StatusOK, UsageResponse{TotalPredictions: cfg.usage.Total()})
}

// handlerSettings dispatches the settings collection route by method: GET
// reads, PUT updates a single key, DELETE clears all persisted data.
func (cfg *apiConfig) handlerSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cfg.handleGetSettings(w, r)
	case http.MethodPut:
		cfg.handleUpdateSetting(w, r)
	case http.MethodDelete:
		cfg.handleClearAllData(w, r)
	default:
		cfg.respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
	}
}

// @Summary      Get settings
// @Description  Returns the full nested settings document, or a single value when the key
// @Description  query parameter names one.
// @Tags         settings
// @Produce      json
// @Param        key query string false "Dotted setting key (e.g., 'display.theme')"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  ErrorResponse "Bad Request - Unknown setting key"
// @Router       /api/v1/settings [get]
func (cfg *apiConfig) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	if key := r.URL.Query().Get("key"); key != "" {
		value, err := cfg.settings.Get(SettingKey(key))
		if err != nil {
			cfg.respondWithError(w, http.StatusBadRequest, "Unknown setting key", err)
			return
		}
		cfg.respondWithJSON(w, http.StatusOK, SettingResponse{Key: key, Value: value})
		return
	}

	cfg.respondWithJSON(w, http.StatusOK, cfg.settings.Snapshot())
}

// @Summary      Update a setting
// @Description  Validates and persists a single setting value. The write is synchronous;
// @Description  a subsequent read always reflects it.
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        request body SettingUpdateRequest true "Dotted key and new value"
// @Success      200  {object}  SettingResponse
// @Failure      400  {object}  ErrorResponse "Bad Request - Unknown key or invalid value"
// @Failure      500  {object}  ErrorResponse "Internal Server Error - Failed to persist setting"
// @Router       /api/v1/settings [put]
func (cfg *apiConfig) handleUpdateSetting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SettingUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		cfg.respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var value any
	if err := json.Unmarshal(req.Value, &value); err != nil {
		cfg.respondWithError(w, http.StatusBadRequest, "Invalid setting value", err)
		return
	}

	if err := cfg.settings.Set(ctx, SettingKey(req.Key), value); err != nil {
		if errors.Is(err, ErrUnknownSettingKey) || errors.Is(err, ErrInvalidSettingValue) {
			cfg.respondWithError(w, http.StatusBadRequest, "Invalid setting key or value", err)
			return
		}
		cfg.respondWithError(w, http.StatusInternalServerError, "Failed to update setting", err)
		return
	}
	cfg.logger.Debug("setting updated", "key", req.Key)

	stored, _ := cfg.settings.Get(SettingKey(req.Key))
	cfg.respondWithJSON(w, http.StatusOK, SettingResponse{Key: req.Key, Value: stored})
}

// @Summary      Clear all stored data
// @Description  Restores default settings, zeroes the usage counter and flushes the Redis
// @Description  cache in one operation.
// @Tags         settings
// @Produce      json
// @Success      200  {object}  map[string]string "Confirmation. Example: `{\"status\":\"settings, usage and cache cleared\"}`"
// @Failure      500  {object}  ErrorResponse "Internal Server Error - Failed to clear data"
// @Router       /api/v1/settings [delete]
func (cfg *apiConfig) handleClearAllData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cfg.logger.Debug("clear all data request received")

	if err := cfg.clearAllData(ctx); err != nil {
		cfg.respondWithError(w, http.StatusInternalServerError, "Failed to clear data", err)
		return
	}

	cfg.respondWithJSON(w, http.StatusOK, map[string]string{"status": "settings, usage and cache cleared"})
}

// @Summary      Reset settings
// @Description  Restores every setting to its default without touching the usage counter
// @Description  or the cache.
// @Tags         settings
// @Produce      json
// @Success      200  {object}  map[string]string "Confirmation. Example: `{\"status\":\"settings reset\"}`"
// @Failure      500  {object}  ErrorResponse "Internal Server Error - Failed to reset settings"
// @Router       /api/v1/settings/reset [post]
func (cfg *apiConfig) handlerResetSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != http.MethodPost {
		cfg.respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}

	if err := cfg.settings.Reset(ctx); err != nil {
		cfg.respondWithError(w, http.StatusInternalServerError, "Failed to reset settings", err)
		return
	}

	cfg.respondWithJSON(w, http.StatusOK, map[string]string{"status": "settings reset"})
}

// handlerConfig provides client-side applications with necessary configuration,
// such as whether the application is running in development mode.

// @Summary      Get application configuration
// @Description  Provides client-side applications with necessary configuration details,
// @Description  such as whether the application is running in development mode, the
// @Description  scheduler intervals and the fallback model identity.
// @Tags         configuration
// @Produce      json
// @Success      200  {object}  ConfigResponse
// @Router       /api/v1/config [get]
func (cfg *apiConfig) handlerConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		cfg.respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}

	response := ConfigResponse{
		DevMode:               cfg.devMode,
		StatusInterval:        cfg.schedulerStatusInterval.String(),
		RefreshInterval:       cfg.schedulerRefreshInterval.String(),
		RetentionInterval:     cfg.schedulerRetentionInterval.String(),
		FallbackModelName:     cfg.fallbackModelName,
		FallbackModelAccuracy: cfg.fallbackModelAccuracy,
	}

	cfg.respondWithJSON(w, http.StatusOK, response)
}

// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string "Example: `{\"status\":\"ok\"}`"
// @Router       /healthz [get]
func (cfg *apiConfig) handlerHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		cfg.respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}

	cfg.respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handlerDevReset is a development-only endpoint that wipes the forecast
// archive along with settings, the usage counter and the Redis cache.

// @Summary      Reset stored data (development only)
// @Description  Wipes the forecast archive, restores default settings, zeroes the usage
// @Description  counter and flushes the Redis cache. This endpoint is intended for
// @Description  development and testing purposes only. It should not be enabled in
// @Description  production environments.
// @Tags         development
// @Produce      json
// @Success      200  {object}  map[string]string "Confirmation. Example: `{\"status\":\"archive, settings and cache reset\"}`"
// @Failure      500  {object}  ErrorResponse "Internal Server Error - Failed to reset stored data"
// @Router       /dev/reset [post]
func (cfg *apiConfig) handlerDevReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		cfg.respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}
	cfg.logger.Debug("dev reset request received")

	ctx := r.Context()

	if err := cfg.dbQueries.DeleteAllForecastArchives(ctx); err != nil {
		cfg.respondWithError(w, http.StatusInternalServerError, "Failed to reset forecast archive", err)
		return
	}

	if err := cfg.clearAllData(ctx); err != nil {
		cfg.respondWithError(w, http.StatusInternalServerError, "Failed to clear data", err)
		return
	}

	cfg.respondWithJSON(w, http.StatusOK, map[string]string{"status": "archive, settings and cache reset"})
}

// handlerRunSchedulerJobs is a development-only endpoint that manually triggers
// a run of all scheduled jobs.

// @Summary      Manually trigger scheduler jobs (development only)
// @Description  Manually triggers a run of all scheduled jobs, including the model status
// @Description  poll, the forecast refresh and the archive retention sweep. This endpoint
// @Description  is intended for development and testing purposes only. It should not be
// @Description  enabled in production environments.
// @Tags         development
// @Produce      json
// @Success      202  {object}  map[string]string "Confirmation of triggering. Example:`{\"status\": \"scheduler jobs triggered\"}`"
// @Router       /dev/run-jobs [post]
func (s *Scheduler) handlerRunSchedulerJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.cfg.respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}
	s.cfg.logger.Info("manual scheduler run triggered")

	// Reset tickers
	s.tickers[0].Reset(s.cfg.schedulerStatusInterval)
	s.tickers[1].Reset(s.cfg.schedulerRefreshInterval)
	s.tickers[2].Reset(s.cfg.schedulerRetentionInterval)

	go func() {
		s.cfg.logger.Info("starting manual scheduler jobs")
		var wg sync.WaitGroup
		wg.Add(3)

		go func() {
			defer wg.Done()
			s.statusJobs()
		}()
		go func() {
			defer wg.Done()
			s.refreshJobs()
		}()
		go func() {
			defer wg.Done()
			s.retentionJobs()
		}()

		wg.Wait()
		s.cfg.logger.Info("manual scheduler run finished")
	}()

	s.cfg.respondWithJSON(w, http.StatusAccepted, map[string]string{"status": "scheduler jobs triggered"})
}
