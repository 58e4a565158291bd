package main

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Site struct {
	SiteID    uuid.UUID `json:"site_id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Kind      string    `json:"kind"`
}

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type ForecastRequest struct {
	Coordinates
	HorizonHours       int
	IncludeUncertainty bool
}

type PredictionPoint struct {
	Timestamp time.Time
	NO2       float64
	O3        float64
	AQI       int
	NO2Band   float64
	O3Band    float64
}

type ForecastMetadata struct {
	Coordinates  Coordinates
	HorizonHours int
	ModelUsed    string
	Accuracy     string
	Source       string
	GeneratedAt  time.Time
}

type ForecastResult struct {
	Site        Site
	Predictions []PredictionPoint
	Metadata    ForecastMetadata
}

type CurrentConditions struct {
	Site      Site
	AQI       int
	Category  string
	NO2       float64
	O3        float64
	Timestamp time.Time
	Source    string
}

type ModelState string

const (
	ModelStateActive   ModelState = "active"
	ModelStateFallback ModelState = "fallback"
	ModelStateError    ModelState = "error"
)

type ModelStatus struct {
	State       ModelState
	ModelName   string
	Accuracy    string
	Description string
	CheckedAt   time.Time
}

type HistoricalPoint struct {
	Date time.Time
	NO2  float64
	O3   float64
	AQI  int
}

type HistoricalStats struct {
	AvgNO2 float64
	AvgO3  float64
	MaxAQI int
	Count  int
}

type RadarMetric struct {
	Metric   string
	Score    float64
	FullMark int
}

type TrendPoint struct {
	Date     time.Time
	Accuracy float64
}

type SitePerformance struct {
	Site        string
	Accuracy    float64
	Predictions int
}

type HourlyPoint struct {
	Hour int
	NO2  float64
	O3   float64
	AQI  int
}

type ErrorBucket struct {
	Bucket    string
	MeanError float64
	Samples   int
}

type UsagePoint struct {
	Date  time.Time
	Count int
}

type AnalyticsBundle struct {
	Radar         []RadarMetric
	AccuracyTrend []TrendPoint
	Sites         []SitePerformance
	HourlyPattern []HourlyPoint
	ErrorBuckets  []ErrorBucket
	WeeklyUsage   []UsagePoint
	GeneratedAt   time.Time
}

type PredictionPointJSON struct {
	Timestamp      string  `json:"timestamp"`
	NO2            float64 `json:"no2"`
	O3             float64 `json:"o3"`
	AQI            int     `json:"aqi"`
	NO2Uncertainty float64 `json:"no2_uncertainty,omitempty"`
	O3Uncertainty  float64 `json:"o3_uncertainty,omitempty"`
}

type PointCoordinatesJSON struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type ForecastMetadataJSON struct {
	Location    PointCoordinatesJSON `json:"location"`
	Hours       int                  `json:"hours"`
	ModelUsed   string               `json:"model_used"`
	Accuracy    string               `json:"accuracy"`
	Source      string               `json:"source"`
	GeneratedAt string               `json:"generated_at"`
	Warning     string               `json:"warning,omitempty"`
}

type ForecastResponse struct {
	Predictions []PredictionPointJSON `json:"predictions"`
	Metadata    ForecastMetadataJSON  `json:"metadata"`
}

type ModelStatusResponse struct {
	Status      string `json:"status"`
	ModelName   string `json:"model_name"`
	Accuracy    string `json:"accuracy"`
	Description string `json:"description"`
	CheckedAt   string `json:"checked_at,omitempty"`
}

type CurrentConditionsResponse struct {
	Site      string  `json:"site"`
	AQI       int     `json:"aqi"`
	Category  string  `json:"category"`
	NO2       float64 `json:"no2"`
	O3        float64 `json:"o3"`
	Timestamp string  `json:"timestamp"`
	Source    string  `json:"source"`
}

type SiteJSON struct {
	Slug      string  `json:"slug"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Kind      string  `json:"type"`
}

type LocationsResponse struct {
	Locations    []SiteJSON `json:"locations"`
	TotalCount   int        `json:"total_count"`
	CoverageArea string     `json:"coverage_area"`
}

type HistoricalPointJSON struct {
	Date string  `json:"date"`
	NO2  float64 `json:"no2"`
	O3   float64 `json:"o3"`
	AQI  int     `json:"aqi"`
}

type HistoricalStatsJSON struct {
	AvgNO2 float64 `json:"avg_no2"`
	AvgO3  float64 `json:"avg_o3"`
	MaxAQI int     `json:"max_aqi"`
	Count  int     `json:"count"`
}

type HistoricalResponse struct {
	Points []HistoricalPointJSON `json:"points"`
	Stats  HistoricalStatsJSON   `json:"stats"`
}

type RadarMetricJSON struct {
	Metric   string  `json:"metric"`
	Score    float64 `json:"score"`
	FullMark int     `json:"full_mark"`
}

type TrendPointJSON struct {
	Date     string  `json:"date"`
	Accuracy float64 `json:"accuracy"`
}

type SitePerformanceJSON struct {
	Site        string  `json:"site"`
	Accuracy    float64 `json:"accuracy"`
	Predictions int     `json:"predictions"`
}

type HourlyPointJSON struct {
	Hour int     `json:"hour"`
	NO2  float64 `json:"no2"`
	O3   float64 `json:"o3"`
	AQI  int     `json:"aqi"`
}

type ErrorBucketJSON struct {
	Bucket    string  `json:"bucket"`
	MeanError float64 `json:"mean_error"`
	Samples   int     `json:"samples"`
}

type UsagePointJSON struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type AnalyticsResponse struct {
	Radar         []RadarMetricJSON     `json:"radar"`
	AccuracyTrend []TrendPointJSON      `json:"accuracy_trend"`
	Sites         []SitePerformanceJSON `json:"sites"`
	HourlyPattern []HourlyPointJSON     `json:"hourly_pattern"`
	ErrorBuckets  []ErrorBucketJSON     `json:"error_buckets"`
	WeeklyUsage   []UsagePointJSON      `json:"weekly_usage"`
	GeneratedAt   string                `json:"generated_at"`
}

type UsageResponse struct {
	TotalPredictions int64 `json:"total_predictions"`
}

type SettingUpdateRequest struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

type SettingResponse struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

type ConfigResponse struct {
	DevMode               bool   `json:"dev_mode"`
	StatusInterval        string `json:"status_interval"`
	RefreshInterval       string `json:"refresh_interval"`
	RetentionInterval     string `json:"retention_interval"`
	FallbackModelName     string `json:"fallback_model_name"`
	FallbackModelAccuracy string `json:"fallback_model_accuracy"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
