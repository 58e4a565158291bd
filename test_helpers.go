package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/karanm/aerocast/internal/database"
	"github.com/redis/go-redis/v9"
)

// --- Mocks ---

// mockPredictionService is a mock for the PredictionService interface.
type mockPredictionService struct {
	PredictFunc     func(ctx context.Context, req ForecastRequest) (RemotePrediction, error)
	ModelStatusFunc func(ctx context.Context) (RemoteModelStatus, error)
	ModelInfoFunc   func(ctx context.Context) (json.RawMessage, error)
}

func (m *mockPredictionService) Predict(ctx context.Context, req ForecastRequest) (RemotePrediction, error) {
	if m.PredictFunc != nil {
		return m.PredictFunc(ctx, req)
	}
	return RemotePrediction{}, errors.New("PredictFunc not implemented in mock")
}

func (m *mockPredictionService) ModelStatus(ctx context.Context) (RemoteModelStatus, error) {
	if m.ModelStatusFunc != nil {
		return m.ModelStatusFunc(ctx)
	}
	return RemoteModelStatus{}, errors.New("ModelStatusFunc not implemented in mock")
}

func (m *mockPredictionService) ModelInfo(ctx context.Context) (json.RawMessage, error) {
	if m.ModelInfoFunc != nil {
		return m.ModelInfoFunc(ctx)
	}
	return nil, errors.New("ModelInfoFunc not implemented in mock")
}

// mockCache is a mock for the Cache interface.
type mockCache struct {
	getFunc   func(ctx context.Context, key string) (string, error)
	setFunc   func(ctx context.Context, key string, value any, expiration time.Duration) error
	flushFunc func(ctx context.Context) error
}

func (m *mockCache) Get(ctx context.Context, key string) (string, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, key)
	}
	return "", redis.Nil
}

func (m *mockCache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	if m.setFunc != nil {
		return m.setFunc(ctx, key, value, expiration)
	}
	return nil
}

func (m *mockCache) Flush(ctx context.Context) error {
	if m.flushFunc != nil {
		return m.flushFunc(ctx)
	}
	return nil
}

// mockQuerier is a comprehensive, safe mock for the dbQuerier interface.
// It fails the test if any unexpected method is called. IncrementUsageCount
// is the one exception: every successful forecast advances the usage counter,
// so the mock counts the calls and succeeds unless a test overrides it.
// Scheduler jobs call the querier from several goroutines, so the call
// counters are guarded by a mutex; tests read them after the jobs finish.
type mockQuerier struct {
	t  *testing.T
	mu sync.Mutex

	CountForecastArchivesFunc          func(ctx context.Context) (int64, error)
	CreateForecastArchiveFunc          func(ctx context.Context, arg database.CreateForecastArchiveParams) (database.ForecastArchive, error)
	DeleteAllForecastArchivesFunc      func(ctx context.Context) error
	DeleteAllSettingsFunc              func(ctx context.Context) error
	DeleteForecastArchivesBeforeFunc   func(ctx context.Context, createdAt time.Time) error
	GetLatestForecastArchiveBySiteFunc func(ctx context.Context, arg database.GetLatestForecastArchiveBySiteParams) (database.ForecastArchive, error)
	GetMonitoredSiteBySlugFunc         func(ctx context.Context, slug string) (database.MonitoredSite, error)
	GetUsageCountFunc                  func(ctx context.Context) (int64, error)
	IncrementUsageCountFunc            func(ctx context.Context) (int64, error)
	ListMonitoredSitesFunc             func(ctx context.Context) ([]database.MonitoredSite, error)
	ListSettingsFunc                   func(ctx context.Context) ([]database.Setting, error)
	ResetUsageCountFunc                func(ctx context.Context) error
	UpsertSettingFunc                  func(ctx context.Context, arg database.UpsertSettingParams) (database.Setting, error)

	createForecastArchiveCalls int
	incrementUsageCountCalls   int
}

// --- mockQuerier method implementations ---

func (m *mockQuerier) fail(method string) {
	m.t.Fatalf("unexpected call to mockQuerier method: %s", method)
}

func (m *mockQuerier) createArchiveCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createForecastArchiveCalls
}

func (m *mockQuerier) usageIncrementCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.incrementUsageCountCalls
}

func (m *mockQuerier) CountForecastArchives(ctx context.Context) (int64, error) {
	if m.CountForecastArchivesFunc != nil {
		return m.CountForecastArchivesFunc(ctx)
	}
	m.fail("CountForecastArchives")
	return 0, nil
}
func (m *mockQuerier) CreateForecastArchive(ctx context.Context, arg database.CreateForecastArchiveParams) (database.ForecastArchive, error) {
	m.mu.Lock()
	m.createForecastArchiveCalls++
	m.mu.Unlock()
	if m.CreateForecastArchiveFunc != nil {
		return m.CreateForecastArchiveFunc(ctx, arg)
	}
	m.fail("CreateForecastArchive")
	return database.ForecastArchive{}, nil
}
func (m *mockQuerier) DeleteAllForecastArchives(ctx context.Context) error {
	if m.DeleteAllForecastArchivesFunc != nil {
		return m.DeleteAllForecastArchivesFunc(ctx)
	}
	m.fail("DeleteAllForecastArchives")
	return nil
}
func (m *mockQuerier) DeleteAllSettings(ctx context.Context) error {
	if m.DeleteAllSettingsFunc != nil {
		return m.DeleteAllSettingsFunc(ctx)
	}
	m.fail("DeleteAllSettings")
	return nil
}
func (m *mockQuerier) DeleteForecastArchivesBefore(ctx context.Context, createdAt time.Time) error {
	if m.DeleteForecastArchivesBeforeFunc != nil {
		return m.DeleteForecastArchivesBeforeFunc(ctx, createdAt)
	}
	m.fail("DeleteForecastArchivesBefore")
	return nil
}
func (m *mockQuerier) GetLatestForecastArchiveBySite(ctx context.Context, arg database.GetLatestForecastArchiveBySiteParams) (database.ForecastArchive, error) {
	if m.GetLatestForecastArchiveBySiteFunc != nil {
		return m.GetLatestForecastArchiveBySiteFunc(ctx, arg)
	}
	m.fail("GetLatestForecastArchiveBySite")
	return database.ForecastArchive{}, nil
}
func (m *mockQuerier) GetMonitoredSiteBySlug(ctx context.Context, slug string) (database.MonitoredSite, error) {
	if m.GetMonitoredSiteBySlugFunc != nil {
		return m.GetMonitoredSiteBySlugFunc(ctx, slug)
	}
	m.fail("GetMonitoredSiteBySlug")
	return database.MonitoredSite{}, nil
}
func (m *mockQuerier) GetUsageCount(ctx context.Context) (int64, error) {
	if m.GetUsageCountFunc != nil {
		return m.GetUsageCountFunc(ctx)
	}
	m.fail("GetUsageCount")
	return 0, nil
}
func (m *mockQuerier) IncrementUsageCount(ctx context.Context) (int64, error) {
	m.mu.Lock()
	m.incrementUsageCountCalls++
	calls := m.incrementUsageCountCalls
	m.mu.Unlock()
	if m.IncrementUsageCountFunc != nil {
		return m.IncrementUsageCountFunc(ctx)
	}
	return int64(calls), nil
}
func (m *mockQuerier) ListMonitoredSites(ctx context.Context) ([]database.MonitoredSite, error) {
	if m.ListMonitoredSitesFunc != nil {
		return m.ListMonitoredSitesFunc(ctx)
	}
	m.fail("ListMonitoredSites")
	return nil, nil
}
func (m *mockQuerier) ListSettings(ctx context.Context) ([]database.Setting, error) {
	if m.ListSettingsFunc != nil {
		return m.ListSettingsFunc(ctx)
	}
	m.fail("ListSettings")
	return nil, nil
}
func (m *mockQuerier) ResetUsageCount(ctx context.Context) error {
	if m.ResetUsageCountFunc != nil {
		return m.ResetUsageCountFunc(ctx)
	}
	m.fail("ResetUsageCount")
	return nil
}
func (m *mockQuerier) UpsertSetting(ctx context.Context, arg database.UpsertSettingParams) (database.Setting, error) {
	if m.UpsertSettingFunc != nil {
		return m.UpsertSettingFunc(ctx, arg)
	}
	m.fail("UpsertSetting")
	return database.Setting{}, nil
}

// --- Test Configuration ---

// testAPIConfig bundles an apiConfig wired entirely to mocks, together with
// the mocks themselves so tests can program expectations on them.
type testAPIConfig struct {
	apiConfig      *apiConfig
	mockDB         *mockQuerier
	mockCache      *mockCache
	mockPrediction *mockPredictionService
}

// newTestAPIConfig builds an apiConfig whose database, cache and prediction
// backend are all mocks and whose logs are discarded. Tests override the
// mock funcs they care about and leave the rest to fail on unexpected calls.
func newTestAPIConfig(t *testing.T) *testAPIConfig {
	dbMock := &mockQuerier{t: t}
	cacheMock := &mockCache{}
	predictionMock := &mockPredictionService{}

	cfg := &apiConfig{
		dbQueries:                  dbMock,
		cache:                      cacheMock,
		prediction:                 predictionMock,
		httpClient:                 http.DefaultClient,
		schedulerStatusInterval:    5 * time.Minute,
		schedulerRefreshInterval:   60 * time.Minute,
		schedulerRetentionInterval: 720 * time.Minute,
		fallbackModelName:          "Atmospheric Science Patterns",
		fallbackModelAccuracy:      "60-65%",
		port:                       "8080",
		logger:                     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	cfg.settings = NewSettingsStore(cfg)
	cfg.usage = NewUsageCounter(cfg)
	cfg.statusMonitor = NewStatusMonitor(cfg)
	cfg.inflight = newInflightRegistry()

	return &testAPIConfig{
		apiConfig:      cfg,
		mockDB:         dbMock,
		mockCache:      cacheMock,
		mockPrediction: predictionMock,
	}
}

// --- Mock Data ---

var MockDBSite = database.MonitoredSite{
	ID:        uuid.MustParse("0d4f9a52-7c1e-4f7b-9b3a-59c8f2ab6d01"),
	Slug:      "connaught-place",
	Name:      "Connaught Place",
	Latitude:  28.6315,
	Longitude: 77.2167,
	Kind:      "commercial",
}

var MockSite = databaseMonitoredSiteToSite(MockDBSite)

var MockDBSite2 = database.MonitoredSite{
	ID:        uuid.MustParse("6b82e1c7-3d45-4a09-8e2f-1fb0c4d97a22"),
	Slug:      "noida",
	Name:      "Noida",
	Latitude:  28.5355,
	Longitude: 77.3910,
	Kind:      "residential",
}

var MockSite2 = databaseMonitoredSiteToSite(MockDBSite2)

// mockPredictionPoints returns one deterministic point per hour starting at
// start, with values inside the synthesizer's plausible Delhi NCR ranges.
func mockPredictionPoints(horizonHours int, start time.Time) []PredictionPoint {
	points := make([]PredictionPoint, 0, horizonHours)
	for i := 0; i < horizonHours; i++ {
		no2 := 60.0 + float64(i%8)
		o3 := 40.0 + float64(i%6)
		points = append(points, PredictionPoint{
			Timestamp: start.Add(time.Duration(i) * time.Hour),
			NO2:       no2,
			O3:        o3,
			AQI:       deriveAQI(no2, o3),
		})
	}
	return points
}

// mockForecastResult builds a complete forecast for site as the forecast
// service would produce it, with GeneratedAt set to start.
func mockForecastResult(site Site, horizonHours int, source string, start time.Time) ForecastResult {
	modelUsed := "lstm_v2"
	accuracy := "89%"
	if source == "fallback" {
		modelUsed = "Atmospheric Science Patterns"
		accuracy = "60-65%"
	}
	return ForecastResult{
		Site:        site,
		Predictions: mockPredictionPoints(horizonHours, start),
		Metadata: ForecastMetadata{
			Coordinates:  Coordinates{Latitude: site.Latitude, Longitude: site.Longitude},
			HorizonHours: horizonHours,
			ModelUsed:    modelUsed,
			Accuracy:     accuracy,
			Source:       source,
			GeneratedAt:  start,
		},
	}
}
