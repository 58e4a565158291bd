package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// This file provides the client for the remote prediction API, which serves
// the trained air-quality model. It abstracts the backend behind a
// `PredictionService` interface so the forecast service, the status monitor
// and the tests are independent of the concrete HTTP contract.

// ErrUpstreamUnavailable marks transport-level failures: timeouts, refused
// connections, DNS errors. ErrUpstreamProtocol marks a reachable backend
// whose answer could not be used: non-2xx status or a malformed body.
// Callers match with errors.Is and fall back to synthetic data either way.
var (
	ErrUpstreamUnavailable = errors.New("prediction API unavailable")
	ErrUpstreamProtocol    = errors.New("prediction API protocol error")
)

// RemotePrediction is the parsed result of a predict call.
type RemotePrediction struct {
	Points    []PredictionPoint
	ModelUsed string
	Accuracy  string
}

// RemoteModelStatus is the parsed result of a model-status call.
type RemoteModelStatus struct {
	Status      string
	ModelName   string
	Accuracy    string
	Description string
}

// PredictionService defines a generic interface for the remote model backend.
// Using an interface decouples the application's core logic from the concrete
// HTTP client, which simplifies testing and allows for different backends.
type PredictionService interface {
	Predict(ctx context.Context, req ForecastRequest) (RemotePrediction, error)
	ModelStatus(ctx context.Context) (RemoteModelStatus, error)
	ModelInfo(ctx context.Context) (json.RawMessage, error)
}

// ModelAPIPredictionService is the production PredictionService talking to
// the AeroCast model API. A client-side token bucket caps the request rate so
// a busy dashboard cannot overwhelm the single-instance model backend.
type ModelAPIPredictionService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewModelAPIPredictionService creates a new ModelAPIPredictionService.
// A non-positive rps disables client-side rate limiting.
func NewModelAPIPredictionService(baseURL string, httpClient *http.Client, rps int, logger *slog.Logger) *ModelAPIPredictionService {
	limit := rate.Inf
	burst := 0
	if rps > 0 {
		limit = rate.Limit(rps)
		burst = rps
	}
	return &ModelAPIPredictionService{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, burst),
		logger:     logger,
	}
}

// Predict requests a forecast from the model backend. It makes exactly one
// attempt; retrying is the caller's decision, and in practice the caller
// substitutes synthetic data instead.
func (s *ModelAPIPredictionService) Predict(ctx context.Context, req ForecastRequest) (RemotePrediction, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return RemotePrediction{}, fmt.Errorf("%w: rate limit wait: %v", ErrUpstreamUnavailable, err)
	}

	body, err := json.Marshal(PredictRequest{
		Latitude:           req.Latitude,
		Longitude:          req.Longitude,
		Hours:              req.HorizonHours,
		IncludeUncertainty: req.IncludeUncertainty,
	})
	if err != nil {
		return RemotePrediction{}, fmt.Errorf("failed to encode predict request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/v1/predict", bytes.NewReader(body))
	if err != nil {
		return RemotePrediction{}, fmt.Errorf("failed to build predict request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	s.logger.Debug("prediction request", "lat", req.Latitude, "lon", req.Longitude, "hours", req.HorizonHours)
	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return RemotePrediction{}, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return RemotePrediction{}, fmt.Errorf("%w: predict returned status %s", ErrUpstreamProtocol, resp.Status)
	}

	var parsed PredictResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return RemotePrediction{}, fmt.Errorf("%w: failed to decode predict response: %v", ErrUpstreamProtocol, err)
	}

	points := make([]PredictionPoint, 0, len(parsed.Predictions))
	for _, p := range parsed.Predictions {
		ts, err := parseUpstreamTime(p.Timestamp)
		if err != nil {
			return RemotePrediction{}, fmt.Errorf("%w: bad prediction timestamp %q: %v", ErrUpstreamProtocol, p.Timestamp, err)
		}
		points = append(points, PredictionPoint{
			Timestamp: ts,
			NO2:       p.NO2,
			O3:        p.O3,
			AQI:       p.AQI,
			NO2Band:   p.NO2Uncertainty,
			O3Band:    p.O3Uncertainty,
		})
	}

	result := RemotePrediction{
		Points:    points,
		ModelUsed: parsed.Metadata.ModelUsed,
		Accuracy:  parsed.Metadata.Accuracy,
	}
	// The backend omits these fields when serving from its own basic engine.
	if result.ModelUsed == "" {
		result.ModelUsed = "fast_prediction_engine"
	}
	if result.Accuracy == "" {
		result.Accuracy = "70%"
	}
	return result, nil
}

// ModelStatus fetches the backend's model loading status.
func (s *ModelAPIPredictionService) ModelStatus(ctx context.Context) (RemoteModelStatus, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/v1/model-status", nil)
	if err != nil {
		return RemoteModelStatus{}, fmt.Errorf("failed to build model-status request: %w", err)
	}

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return RemoteModelStatus{}, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return RemoteModelStatus{}, fmt.Errorf("%w: model-status returned status %s", ErrUpstreamProtocol, resp.Status)
	}

	var parsed RemoteModelStatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return RemoteModelStatus{}, fmt.Errorf("%w: failed to decode model-status response: %v", ErrUpstreamProtocol, err)
	}

	return RemoteModelStatus{
		Status:      parsed.Status,
		ModelName:   parsed.ModelName,
		Accuracy:    parsed.Accuracy,
		Description: parsed.Description,
	}, nil
}

// ModelInfo fetches the backend's model metadata document and passes it
// through untouched.
func (s *ModelAPIPredictionService) ModelInfo(ctx context.Context) (json.RawMessage, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/v1/model-info", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build model-info request: %w", err)
	}

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: model-info returned status %s", ErrUpstreamProtocol, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read model-info response: %v", ErrUpstreamUnavailable, err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: model-info response is not valid JSON", ErrUpstreamProtocol)
	}
	return json.RawMessage(body), nil
}

// staticModelInfo mirrors the backend's model metadata document so the
// dashboard still renders the model card while the backend is down.
func staticModelInfo() json.RawMessage {
	doc := map[string]any{
		"model_version":          "v2.0",
		"target_variables":       []string{"O3_forecast", "NO2_forecast"},
		"forecast_horizon_hours": 48,
		"spatial_resolution_km":  1.0,
		"update_frequency":       "hourly",
		"coverage_area": map[string]any{
			"region": "Delhi NCR",
			"bounds": map[string]float64{
				"min_lat": 28.4,
				"max_lat": 28.9,
				"min_lon": 76.8,
				"max_lon": 77.5,
			},
		},
		"data_sources": []string{
			"TROPOMI satellite observations",
			"ERA5 meteorological reanalysis",
			"Ground-based monitoring stations",
		},
	}
	raw, _ := json.Marshal(doc)
	return raw
}

// parseUpstreamTime accepts both RFC 3339 timestamps and the zone-less ISO
// 8601 form the prediction backend emits, which is interpreted as UTC.
func parseUpstreamTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts, nil
	}
	return time.ParseInLocation("2006-01-02T15:04:05.999999999", s, time.UTC)
}

// The following structs represent the structure of the prediction API JSON
// contract. They are used by the json encoder and decoder on both directions.
type PredictRequest struct {
	Latitude           float64 `json:"latitude"`
	Longitude          float64 `json:"longitude"`
	Hours              int     `json:"hours"`
	IncludeUncertainty bool    `json:"include_uncertainty"`
}

type PredictResponse struct {
	Predictions []PredictionPointJSON `json:"predictions"`
	Metadata    PredictMetadata       `json:"metadata"`
}

type PredictMetadata struct {
	Location  PointCoordinatesJSON `json:"location"`
	Hours     int                  `json:"hours"`
	ModelUsed string               `json:"model_used"`
	Accuracy  string               `json:"accuracy"`
}

type RemoteModelStatusJSON struct {
	Status      string `json:"status"`
	ModelName   string `json:"model_name"`
	Accuracy    string `json:"accuracy"`
	Description string `json:"description"`
}
