package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/karanm/aerocast/internal/database"
	"github.com/redis/go-redis/v9"
)

func TestHandlerPredict(t *testing.T) {
	predictedAt := time.Now().UTC()

	testCases := []struct {
		name       string
		reqMethod  string
		reqBody    string
		setupMocks func(cfg *testAPIConfig)
		wantStatus int
		wantBody   string
		checkBody  func(t *testing.T, body []byte)
	}{
		{
			name:      "Success: Forecast From Model",
			reqMethod: http.MethodPost,
			reqBody:   `{"latitude":28.63,"longitude":77.21,"hours":3}`,
			setupMocks: func(cfg *testAPIConfig) {
				cfg.mockDB.ListMonitoredSitesFunc = func(ctx context.Context) ([]database.MonitoredSite, error) {
					return []database.MonitoredSite{MockDBSite, MockDBSite2}, nil
				}
				cfg.mockPrediction.PredictFunc = func(ctx context.Context, req ForecastRequest) (RemotePrediction, error) {
					return RemotePrediction{
						Points:    mockPredictionPoints(3, predictedAt),
						ModelUsed: "lstm_v2",
						Accuracy:  "89%",
					}, nil
				}
				cfg.mockDB.CreateForecastArchiveFunc = func(ctx context.Context, arg database.CreateForecastArchiveParams) (database.ForecastArchive, error) {
					return database.ForecastArchive{}, nil
				}
			},
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, body []byte) {
				var resp ForecastResponse
				if err := json.Unmarshal(body, &resp); err != nil {
					t.Fatalf("could not decode response: %v", err)
				}
				if len(resp.Predictions) != 3 {
					t.Errorf("expected 3 predictions, got %d", len(resp.Predictions))
				}
				if resp.Metadata.Source != "model" {
					t.Errorf("expected source 'model', got '%s'", resp.Metadata.Source)
				}
				if resp.Metadata.ModelUsed != "lstm_v2" {
					t.Errorf("expected model 'lstm_v2', got '%s'", resp.Metadata.ModelUsed)
				}
				if resp.Metadata.Hours != 3 {
					t.Errorf("expected hours 3, got %d", resp.Metadata.Hours)
				}
				if resp.Metadata.Location.Lat != MockSite.Latitude {
					t.Errorf("expected latitude %v, got %v", MockSite.Latitude, resp.Metadata.Location.Lat)
				}
				if resp.Metadata.Warning != "" {
					t.Errorf("expected no warning, got '%s'", resp.Metadata.Warning)
				}
			},
		},
		{
			name:      "Success: Degraded Forecast When Model Unreachable",
			reqMethod: http.MethodPost,
			reqBody:   `{"latitude":28.63,"longitude":77.21}`,
			setupMocks: func(cfg *testAPIConfig) {
				cfg.mockDB.ListMonitoredSitesFunc = func(ctx context.Context) ([]database.MonitoredSite, error) {
					return []database.MonitoredSite{MockDBSite, MockDBSite2}, nil
				}
				cfg.mockPrediction.PredictFunc = func(ctx context.Context, req ForecastRequest) (RemotePrediction, error) {
					return RemotePrediction{}, ErrUpstreamUnavailable
				}
				cfg.mockDB.CreateForecastArchiveFunc = func(ctx context.Context, arg database.CreateForecastArchiveParams) (database.ForecastArchive, error) {
					return database.ForecastArchive{}, nil
				}
			},
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, body []byte) {
				var resp ForecastResponse
				if err := json.Unmarshal(body, &resp); err != nil {
					t.Fatalf("could not decode response: %v", err)
				}
				if len(resp.Predictions) != defaultHorizonHours {
					t.Errorf("expected %d predictions, got %d", defaultHorizonHours, len(resp.Predictions))
				}
				if resp.Metadata.Source != "fallback" {
					t.Errorf("expected source 'fallback', got '%s'", resp.Metadata.Source)
				}
				if resp.Metadata.ModelUsed != "Atmospheric Science Patterns" {
					t.Errorf("expected the fallback model name, got '%s'", resp.Metadata.ModelUsed)
				}
				if resp.Metadata.Warning == "" {
					t.Error("expected a degradation warning in the metadata")
				}
			},
		},
		{
			name:      "Success: Zero Coordinates Use Default Site",
			reqMethod: http.MethodPost,
			reqBody:   `{"hours":3}`,
			setupMocks: func(cfg *testAPIConfig) {
				cfg.mockDB.GetMonitoredSiteBySlugFunc = func(ctx context.Context, slug string) (database.MonitoredSite, error) {
					if slug != "connaught-place" {
						return database.MonitoredSite{}, sql.ErrNoRows
					}
					return MockDBSite, nil
				}
				cfg.mockPrediction.PredictFunc = func(ctx context.Context, req ForecastRequest) (RemotePrediction, error) {
					return RemotePrediction{
						Points:    mockPredictionPoints(3, predictedAt),
						ModelUsed: "lstm_v2",
						Accuracy:  "89%",
					}, nil
				}
				cfg.mockDB.CreateForecastArchiveFunc = func(ctx context.Context, arg database.CreateForecastArchiveParams) (database.ForecastArchive, error) {
					return database.ForecastArchive{}, nil
				}
			},
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, body []byte) {
				var resp ForecastResponse
				if err := json.Unmarshal(body, &resp); err != nil {
					t.Fatalf("could not decode response: %v", err)
				}
				if resp.Metadata.Location.Lat != MockSite.Latitude || resp.Metadata.Location.Lng != MockSite.Longitude {
					t.Errorf("expected the default site's coordinates, got %+v", resp.Metadata.Location)
				}
			},
		},
		{
			name:       "Failure: Invalid Request Body",
			reqMethod:  http.MethodPost,
			reqBody:    `{invalid`,
			setupMocks: func(cfg *testAPIConfig) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Invalid request body"}`,
		},
		{
			name:       "Failure: Hours Beyond Limit",
			reqMethod:  http.MethodPost,
			reqBody:    `{"latitude":28.63,"longitude":77.21,"hours":200}`,
			setupMocks: func(cfg *testAPIConfig) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Invalid hours parameter"}`,
		},
		{
			name:      "Failure: Unknown Default Site",
			reqMethod: http.MethodPost,
			reqBody:   `{}`,
			setupMocks: func(cfg *testAPIConfig) {
				cfg.mockDB.GetMonitoredSiteBySlugFunc = func(ctx context.Context, slug string) (database.MonitoredSite, error) {
					return database.MonitoredSite{}, sql.ErrNoRows
				}
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Error resolving site for request"}`,
		},
		{
			name:       "Failure: Method Not Allowed",
			reqMethod:  http.MethodGet,
			reqBody:    "",
			setupMocks: func(cfg *testAPIConfig) {},
			wantStatus: http.StatusMethodNotAllowed,
			wantBody:   `{"error":"Method Not Allowed"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			testCfg := newTestAPIConfig(t)
			tc.setupMocks(testCfg)

			req := httptest.NewRequest(tc.reqMethod, "/api/v1/predict", strings.NewReader(tc.reqBody))
			rr := httptest.NewRecorder()

			testCfg.apiConfig.handlerPredict(rr, req)

			if status := rr.Code; status != tc.wantStatus {
				t.Errorf("handler returned wrong status code: got %v want %v",
					status, tc.wantStatus)
			}
			if tc.wantBody != "" && rr.Body.String() != tc.wantBody {
				t.Errorf("handler returned unexpected body: got %v want %v",
					rr.Body.String(), tc.wantBody)
			}
			if tc.checkBody != nil {
				tc.checkBody(t, rr.Body.Bytes())
			}
		})
	}
}

func TestHandlerLatestForecast(t *testing.T) {
	cachedAt := time.Now().UTC()

	testCases := []struct {
		name       string
		reqMethod  string
		reqTarget  string
		setupMocks func(cfg *testAPIConfig)
		wantStatus int
		wantBody   string
		checkBody  func(t *testing.T, body []byte)
	}{
		{
			name:      "Success: Served From Cache",
			reqMethod: http.MethodGet,
			reqTarget: "/api/v1/forecast/latest?site=connaught-place&hours=3",
			setupMocks: func(cfg *testAPIConfig) {
				cfg.mockDB.GetMonitoredSiteBySlugFunc = func(ctx context.Context, slug string) (database.MonitoredSite, error) {
					return MockDBSite, nil
				}
				cached, err := json.Marshal(mockForecastResult(MockSite, 3, "model", cachedAt))
				if err != nil {
					panic(err)
				}
				cfg.mockCache.getFunc = func(ctx context.Context, key string) (string, error) {
					return string(cached), nil
				}
			},
			wantStatus: http.StatusOK,
			wantBody: `{"predictions":[` +
				`{"timestamp":"` + cachedAt.Format(time.RFC3339) + `","no2":60,"o3":40,"aqi":120},` +
				`{"timestamp":"` + cachedAt.Add(time.Hour).Format(time.RFC3339) + `","no2":61,"o3":41,"aqi":122},` +
				`{"timestamp":"` + cachedAt.Add(2*time.Hour).Format(time.RFC3339) + `","no2":62,"o3":42,"aqi":124}],` +
				`"metadata":{"location":{"lat":28.6315,"lng":77.2167},"hours":3,"model_used":"lstm_v2","accuracy":"89%","source":"model","generated_at":"` + cachedAt.Format(time.RFC3339) + `"}}`,
		},
		{
			name:      "Success: Degraded Forecast Carries Warning",
			reqMethod: http.MethodGet,
			reqTarget: "/api/v1/forecast/latest?site=connaught-place",
			setupMocks: func(cfg *testAPIConfig) {
				cfg.mockDB.GetMonitoredSiteBySlugFunc = func(ctx context.Context, slug string) (database.MonitoredSite, error) {
					return MockDBSite, nil
				}
				cfg.mockDB.GetLatestForecastArchiveBySiteFunc = func(ctx context.Context, arg database.GetLatestForecastArchiveBySiteParams) (database.ForecastArchive, error) {
					return database.ForecastArchive{}, sql.ErrNoRows
				}
				cfg.mockPrediction.PredictFunc = func(ctx context.Context, req ForecastRequest) (RemotePrediction, error) {
					return RemotePrediction{}, ErrUpstreamUnavailable
				}
				cfg.mockDB.CreateForecastArchiveFunc = func(ctx context.Context, arg database.CreateForecastArchiveParams) (database.ForecastArchive, error) {
					return database.ForecastArchive{}, nil
				}
			},
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, body []byte) {
				var resp ForecastResponse
				if err := json.Unmarshal(body, &resp); err != nil {
					t.Fatalf("could not decode response: %v", err)
				}
				if len(resp.Predictions) != defaultHorizonHours {
					t.Errorf("expected %d predictions, got %d", defaultHorizonHours, len(resp.Predictions))
				}
				if resp.Metadata.Source != "fallback" {
					t.Errorf("expected source 'fallback', got '%s'", resp.Metadata.Source)
				}
				if resp.Metadata.Warning == "" {
					t.Error("expected a degradation warning in the metadata")
				}
			},
		},
		{
			name:      "Failure: Database Error",
			reqMethod: http.MethodGet,
			reqTarget: "/api/v1/forecast/latest?site=connaught-place",
			setupMocks: func(cfg *testAPIConfig) {
				cfg.mockDB.GetMonitoredSiteBySlugFunc = func(ctx context.Context, slug string) (database.MonitoredSite, error) {
					return MockDBSite, nil
				}
				cfg.mockDB.GetLatestForecastArchiveBySiteFunc = func(ctx context.Context, arg database.GetLatestForecastArchiveBySiteParams) (database.ForecastArchive, error) {
					return database.ForecastArchive{}, errors.New("db down")
				}
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Error getting forecast data"}`,
		},
		{
			name:      "Failure: Invalid Hours Parameter",
			reqMethod: http.MethodGet,
			reqTarget: "/api/v1/forecast/latest?site=connaught-place&hours=abc",
			setupMocks: func(cfg *testAPIConfig) {
				cfg.mockDB.GetMonitoredSiteBySlugFunc = func(ctx context.Context, slug string) (database.MonitoredSite, error) {
					return MockDBSite, nil
				}
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Invalid hours parameter"}`,
		},
		{
			name:       "Failure: Missing Site Parameters",
			reqMethod:  http.MethodGet,
			reqTarget:  "/api/v1/forecast/latest",
			setupMocks: func(cfg *testAPIConfig) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Error getting site data"}`,
		},
		{
			name:       "Failure: Method Not Allowed",
			reqMethod:  http.MethodPost,
			reqTarget:  "/api/v1/forecast/latest?site=connaught-place",
			setupMocks: func(cfg *testAPIConfig) {},
			wantStatus: http.StatusMethodNotAllowed,
			wantBody:   `{"error":"Method Not Allowed"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			testCfg := newTestAPIConfig(t)
			tc.setupMocks(testCfg)

			req := httptest.NewRequest(tc.reqMethod, tc.reqTarget, nil)
			rr := httptest.NewRecorder()

			testCfg.apiConfig.handlerLatestForecast(rr, req)

			if status := rr.Code; status != tc.wantStatus {
				t.Errorf("handler returned wrong status code: got %v want %v",
					status, tc.wantStatus)
			}
			if tc.wantBody != "" && rr.Body.String() != tc.wantBody {
				t.Errorf("handler returned unexpected body: got %v want %v",
					rr.Body.String(), tc.wantBody)
			}
			if tc.checkBody != nil {
				tc.checkBody(t, rr.Body.Bytes())
			}
		})
	}
}

func TestHandlerCurrentConditions(t *testing.T) {
	cachedAt := time.Now().UTC()

	testCases := []struct {
		name       string
		reqMethod  string
		reqTarget  string
		setupMocks func(cfg *testAPIConfig)
		wantStatus int
		wantBody   string
	}{
		{
			name:      "Success: Cached Snapshot",
			reqMethod: http.MethodGet,
			reqTarget: "/api/v1/current?site=connaught-place",
			setupMocks: func(cfg *testAPIConfig) {
				cfg.mockDB.GetMonitoredSiteBySlugFunc = func(ctx context.Context, slug string) (database.MonitoredSite, error) {
					return MockDBSite, nil
				}
				snapshot, err := json.Marshal(CurrentConditions{
					Site:      MockSite,
					AQI:       132,
					Category:  "Unhealthy",
					NO2:       66,
					O3:        48.5,
					Timestamp: time.Date(2025, 6, 10, 6, 0, 0, 0, time.UTC),
					Source:    "model",
				})
				if err != nil {
					panic(err)
				}
				cfg.mockCache.getFunc = func(ctx context.Context, key string) (string, error) {
					return string(snapshot), nil
				}
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"site":"connaught-place","aqi":132,"category":"Unhealthy","no2":66,"o3":48.5,"timestamp":"2025-06-10T06:00:00Z","source":"model"}`,
		},
		{
			name:      "Success: Derived From Latest Forecast",
			reqMethod: http.MethodGet,
			reqTarget: "/api/v1/current?site=connaught-place",
			setupMocks: func(cfg *testAPIConfig) {
				cfg.mockDB.GetMonitoredSiteBySlugFunc = func(ctx context.Context, slug string) (database.MonitoredSite, error) {
					return MockDBSite, nil
				}
				cached, err := json.Marshal(mockForecastResult(MockSite, defaultHorizonHours, "model", cachedAt))
				if err != nil {
					panic(err)
				}
				cfg.mockCache.getFunc = func(ctx context.Context, key string) (string, error) {
					if key == currentAQICacheKey(MockSite.Slug) {
						return "", redis.Nil
					}
					return string(cached), nil
				}
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"site":"connaught-place","aqi":120,"category":"Unhealthy","no2":60,"o3":40,"timestamp":"` + cachedAt.Format(time.RFC3339) + `","source":"model"}`,
		},
		{
			name:      "Failure: No Forecast Available",
			reqMethod: http.MethodGet,
			reqTarget: "/api/v1/current?site=connaught-place",
			setupMocks: func(cfg *testAPIConfig) {
				cfg.mockDB.GetMonitoredSiteBySlugFunc = func(ctx context.Context, slug string) (database.MonitoredSite, error) {
					return MockDBSite, nil
				}
				cfg.mockDB.GetLatestForecastArchiveBySiteFunc = func(ctx context.Context, arg database.GetLatestForecastArchiveBySiteParams) (database.ForecastArchive, error) {
					return database.ForecastArchive{}, sql.ErrNoRows
				}
				cfg.mockPrediction.PredictFunc = func(ctx context.Context, req ForecastRequest) (RemotePrediction, error) {
					return RemotePrediction{}, nil
				}
				cfg.mockDB.CreateForecastArchiveFunc = func(ctx context.Context, arg database.CreateForecastArchiveParams) (database.ForecastArchive, error) {
					return database.ForecastArchive{}, nil
				}
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Error getting current conditions"}`,
		},
		{
			name:       "Failure: Missing Site Parameters",
			reqMethod:  http.MethodGet,
			reqTarget:  "/api/v1/current",
			setupMocks: func(cfg *testAPIConfig) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Error getting site data"}`,
		},
		{
			name:       "Failure: Method Not Allowed",
			reqMethod:  http.MethodPost,
			reqTarget:  "/api/v1/current?site=connaught-place",
			setupMocks: func(cfg *testAPIConfig) {},
			wantStatus: http.StatusMethodNotAllowed,
			wantBody:   `{"error":"Method Not Allowed"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			testCfg := newTestAPIConfig(t)
			tc.setupMocks(testCfg)

			req := httptest.NewRequest(tc.reqMethod, tc.reqTarget, nil)
			rr := httptest.NewRecorder()

			testCfg.apiConfig.handlerCurrentConditions(rr, req)

			if status := rr.Code; status != tc.wantStatus {
				t.Errorf("handler returned wrong status code: got %v want %v",
					status, tc.wantStatus)
			}
			if rr.Body.String() != tc.wantBody {
				t.Errorf("handler returned unexpected body: got %v want %v",
					rr.Body.String(), tc.wantBody)
			}
		})
	}
}

func TestHandlerModelStatus(t *testing.T) {
	checkedAt := time.Date(2025, 6, 10, 5, 0, 0, 0, time.UTC)

	testCases := []struct {
		name       string
		reqMethod  string
		setupMocks func(cfg *testAPIConfig)
		wantStatus int
		wantBody   string
	}{
		{
			name:       "Initial State Before First Check",
			reqMethod:  http.MethodGet,
			setupMocks: func(cfg *testAPIConfig) {},
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"error","model_name":"Atmospheric Science Patterns","accuracy":"60-65%","description":"model status not checked yet"}`,
		},
		{
			name:      "Active Model",
			reqMethod: http.MethodGet,
			setupMocks: func(cfg *testAPIConfig) {
				cfg.apiConfig.statusMonitor.current = ModelStatus{
					State:       ModelStateActive,
					ModelName:   "lstm_v2",
					Accuracy:    "89%",
					Description: "LSTM model serving live predictions",
					CheckedAt:   checkedAt,
				}
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"active","model_name":"lstm_v2","accuracy":"89%","description":"LSTM model serving live predictions","checked_at":"2025-06-10T05:00:00Z"}`,
		},
		{
			name:       "Method Not Allowed",
			reqMethod:  http.MethodPost,
			setupMocks: func(cfg *testAPIConfig) {},
			wantStatus: http.StatusMethodNotAllowed,
			wantBody:   `{"error":"Method Not Allowed"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			testCfg := newTestAPIConfig(t)
			tc.setupMocks(testCfg)

			req := httptest.NewRequest(tc.reqMethod, "/api/v1/model-status", nil)
			rr := httptest.NewRecorder()

			testCfg.apiConfig.handlerModelStatus(rr, req)

			if status := rr.Code; status != tc.wantStatus {
				t.Errorf("handler returned wrong status code: got %v want %v",
					status, tc.wantStatus)
			}
			if rr.Body.String() != tc.wantBody {
				t.Errorf("handler returned unexpected body: got %v want %v",
					rr.Body.String(), tc.wantBody)
			}
		})
	}
}

func TestHandlerModelInfo(t *testing.T) {
	testCases := []struct {
		name       string
		reqMethod  string
		setupMocks func(cfg *testAPIConfig)
		wantStatus int
		wantBody   string
	}{
		{
			name:      "Success: Remote Document Passed Through",
			reqMethod: http.MethodGet,
			setupMocks: func(cfg *testAPIConfig) {
				cfg.mockPrediction.ModelInfoFunc = func(ctx context.Context) (json.RawMessage, error) {
					return json.RawMessage(`{"model_version":"v2.1"}`), nil
				}
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"model_version":"v2.1"}`,
		},
		{
			name:      "Fallback: Static Document When Remote Unreachable",
			reqMethod: http.MethodGet,
			setupMocks: func(cfg *testAPIConfig) {
				cfg.mockPrediction.ModelInfoFunc = func(ctx context.Context) (json.RawMessage, error) {
					return nil, ErrUpstreamUnavailable
				}
			},
			wantStatus: http.StatusOK,
			wantBody:   string(staticModelInfo()),
		},
		{
			name:       "Method Not Allowed",
			reqMethod:  http.MethodDelete,
			setupMocks: func(cfg *testAPIConfig) {},
			wantStatus: http.StatusMethodNotAllowed,
			wantBody:   `{"error":"Method Not Allowed"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			testCfg := newTestAPIConfig(t)
			tc.setupMocks(testCfg)

			req := httptest.NewRequest(tc.reqMethod, "/api/v1/model-info", nil)
			rr := httptest.NewRecorder()

			testCfg.apiConfig.handlerModelInfo(rr, req)

			if status := rr.Code; status != tc.wantStatus {
				t.Errorf("handler returned wrong status code: got %v want %v",
					status, tc.wantStatus)
			}
			if rr.Body.String() != tc.wantBody {
				t.Errorf("handler returned unexpected body: got %v want %v",
					rr.Body.String(), tc.wantBody)
			}
		})
	}
}

func TestHandlerLocations(t *testing.T) {
	testCases := []struct {
		name       string
		reqMethod  string
		setupMocks func(cfg *testAPIConfig)
		wantStatus int
		wantBody   string
	}{
		{
			name:      "Success",
			reqMethod: http.MethodGet,
			setupMocks: func(cfg *testAPIConfig) {
				cfg.mockDB.ListMonitoredSitesFunc = func(ctx context.Context) ([]database.MonitoredSite, error) {
					return []database.MonitoredSite{MockDBSite, MockDBSite2}, nil
				}
			},
			wantStatus: http.StatusOK,
			wantBody: `{"locations":[` +
				`{"slug":"connaught-place","name":"Connaught Place","latitude":28.6315,"longitude":77.2167,"type":"commercial"},` +
				`{"slug":"noida","name":"Noida","latitude":28.5355,"longitude":77.391,"type":"residential"}],` +
				`"total_count":2,"coverage_area":"Delhi NCR"}`,
		},
		{
			name:      "Failure: Database Error",
			reqMethod: http.MethodGet,
			setupMocks: func(cfg *testAPIConfig) {
				cfg.mockDB.ListMonitoredSitesFunc = func(ctx context.Context) ([]database.MonitoredSite, error) {
					return nil, errors.New("db down")
				}
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Error getting monitored sites"}`,
		},
		{
			name:       "Method Not Allowed",
			reqMethod:  http.MethodPost,
			setupMocks: func(cfg *testAPIConfig) {},
			wantStatus: http.StatusMethodNotAllowed,
			wantBody:   `{"error":"Method Not Allowed"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			testCfg := newTestAPIConfig(t)
			tc.setupMocks(testCfg)

			req := httptest.NewRequest(tc.reqMethod, "/api/v1/locations", nil)
			rr := httptest.NewRecorder()

			testCfg.apiConfig.handlerLocations(rr, req)

			if status := rr.Code; status != tc.wantStatus {
				t.Errorf("handler returned wrong status code: got %v want %v",
					status, tc.wantStatus)
			}
			if rr.Body.String() != tc.wantBody {
				t.Errorf("handler returned unexpected body: got %v want %v",
					rr.Body.String(), tc.wantBody)
			}
		})
	}
}

func TestHandlerHistorical(t *testing.T) {
	testCases := []struct {
		name       string
		reqMethod  string
		reqTarget  string
		wantStatus int
		wantBody   string
		checkBody  func(t *testing.T, body []byte)
	}{
		{
			name:       "Success: Calendar Month",
			reqMethod:  http.MethodGet,
			reqTarget:  "/api/v1/historical?year=2025&month=6",
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, body []byte) {
				var resp HistoricalResponse
				if err := json.Unmarshal(body, &resp); err != nil {
					t.Fatalf("could not decode response: %v", err)
				}
				if len(resp.Points) != 30 {
					t.Errorf("expected 30 points for June, got %d", len(resp.Points))
				}
				if resp.Points[0].Date != "2025-06-01" {
					t.Errorf("expected the series to start on 2025-06-01, got %s", resp.Points[0].Date)
				}
				if resp.Stats.Count != 30 {
					t.Errorf("expected stats over 30 points, got %d", resp.Stats.Count)
				}
			},
		},
		{
			name:       "Success: Month Capped By Days",
			reqMethod:  http.MethodGet,
			reqTarget:  "/api/v1/historical?year=2025&month=6&days=7",
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, body []byte) {
				var resp HistoricalResponse
				if err := json.Unmarshal(body, &resp); err != nil {
					t.Fatalf("could not decode response: %v", err)
				}
				if len(resp.Points) != 7 {
					t.Errorf("expected 7 points, got %d", len(resp.Points))
				}
			},
		},
		{
			name:       "Success: Rolling Window",
			reqMethod:  http.MethodGet,
			reqTarget:  "/api/v1/historical?window=14",
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, body []byte) {
				var resp HistoricalResponse
				if err := json.Unmarshal(body, &resp); err != nil {
					t.Fatalf("could not decode response: %v", err)
				}
				if len(resp.Points) != 14 {
					t.Errorf("expected 14 points, got %d", len(resp.Points))
				}
			},
		},
		{
			name:       "Success: Default Window",
			reqMethod:  http.MethodGet,
			reqTarget:  "/api/v1/historical",
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, body []byte) {
				var resp HistoricalResponse
				if err := json.Unmarshal(body, &resp); err != nil {
					t.Fatalf("could not decode response: %v", err)
				}
				if len(resp.Points) != defaultHistoryWindowDays {
					t.Errorf("expected %d points, got %d", defaultHistoryWindowDays, len(resp.Points))
				}
			},
		},
		{
			name:       "Failure: Invalid Year",
			reqMethod:  http.MethodGet,
			reqTarget:  "/api/v1/historical?year=abc&month=6",
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Invalid year parameter"}`,
		},
		{
			name:       "Failure: Invalid Month",
			reqMethod:  http.MethodGet,
			reqTarget:  "/api/v1/historical?year=2025&month=13",
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Invalid month parameter"}`,
		},
		{
			name:       "Failure: Invalid Days",
			reqMethod:  http.MethodGet,
			reqTarget:  "/api/v1/historical?year=2025&month=6&days=0",
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Invalid days parameter"}`,
		},
		{
			name:       "Failure: Invalid Window",
			reqMethod:  http.MethodGet,
			reqTarget:  "/api/v1/historical?window=-5",
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Invalid window parameter"}`,
		},
		{
			name:       "Failure: Method Not Allowed",
			reqMethod:  http.MethodPost,
			reqTarget:  "/api/v1/historical",
			wantStatus: http.StatusMethodNotAllowed,
			wantBody:   `{"error":"Method Not Allowed"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			testCfg := newTestAPIConfig(t)

			req := httptest.NewRequest(tc.reqMethod, tc.reqTarget, nil)
			rr := httptest.NewRecorder()

			testCfg.apiConfig.handlerHistorical(rr, req)

			if status := rr.Code; status != tc.wantStatus {
				t.Errorf("handler returned wrong status code: got %v want %v",
					status, tc.wantStatus)
			}
			if tc.wantBody != "" && rr.Body.String() != tc.wantBody {
				t.Errorf("handler returned unexpected body: got %v want %v",
					rr.Body.String(), tc.wantBody)
			}
			if tc.checkBody != nil {
				tc.checkBody(t, rr.Body.Bytes())
			}
		})
	}
}

func TestHandlerAnalytics(t *testing.T) {
	testCases := []struct {
		name       string
		reqMethod  string
		setupMocks func(cfg *testAPIConfig)
		wantStatus int
		wantBody   string
		checkBody  func(t *testing.T, body []byte)
	}{
		{
			name:      "Success",
			reqMethod: http.MethodGet,
			setupMocks: func(cfg *testAPIConfig) {
				cfg.mockDB.ListMonitoredSitesFunc = func(ctx context.Context) ([]database.MonitoredSite, error) {
					return []database.MonitoredSite{MockDBSite, MockDBSite2}, nil
				}
			},
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, body []byte) {
				var resp AnalyticsResponse
				if err := json.Unmarshal(body, &resp); err != nil {
					t.Fatalf("could not decode response: %v", err)
				}
				if len(resp.Radar) != 5 {
					t.Errorf("expected 5 radar metrics, got %d", len(resp.Radar))
				}
				if len(resp.AccuracyTrend) != 30 {
					t.Errorf("expected 30 trend points, got %d", len(resp.AccuracyTrend))
				}
				if len(resp.Sites) != 2 || resp.Sites[0].Site != "Connaught Place" {
					t.Errorf("expected 2 site rows led by Connaught Place, got %+v", resp.Sites)
				}
				if len(resp.HourlyPattern) != 24 {
					t.Errorf("expected 24 hourly points, got %d", len(resp.HourlyPattern))
				}
				if len(resp.ErrorBuckets) != 4 {
					t.Errorf("expected 4 error buckets, got %d", len(resp.ErrorBuckets))
				}
				if len(resp.WeeklyUsage) != 7 {
					t.Errorf("expected 7 usage points, got %d", len(resp.WeeklyUsage))
				}
				if _, err := time.Parse(time.RFC3339, resp.GeneratedAt); err != nil {
					t.Errorf("expected an RFC3339 generated_at, got %q", resp.GeneratedAt)
				}
			},
		},
		{
			name:      "Failure: Database Error",
			reqMethod: http.MethodGet,
			setupMocks: func(cfg *testAPIConfig) {
				cfg.mockDB.ListMonitoredSitesFunc = func(ctx context.Context) ([]database.MonitoredSite, error) {
					return nil, errors.New("db down")
				}
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Error building analytics"}`,
		},
		{
			name:       "Method Not Allowed",
			reqMethod:  http.MethodPut,
			setupMocks: func(cfg *testAPIConfig) {},
			wantStatus: http.StatusMethodNotAllowed,
			wantBody:   `{"error":"Method Not Allowed"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			testCfg := newTestAPIConfig(t)
			tc.setupMocks(testCfg)

			req := httptest.NewRequest(tc.reqMethod, "/api/v1/analytics", nil)
			rr := httptest.NewRecorder()

			testCfg.apiConfig.handlerAnalytics(rr, req)

			if status := rr.Code; status != tc.wantStatus {
				t.Errorf("handler returned wrong status code: got %v want %v",
					status, tc.wantStatus)
			}
			if tc.wantBody != "" && rr.Body.String() != tc.wantBody {
				t.Errorf("handler returned unexpected body: got %v want %v",
					rr.Body.String(), tc.wantBody)
			}
			if tc.checkBody != nil {
				tc.checkBody(t, rr.Body.Bytes())
			}
		})
	}
}

func TestHandlerUsage(t *testing.T) {
	testCases := []struct {
		name       string
		reqMethod  string
		setupMocks func(cfg *testAPIConfig)
		wantStatus int
		wantBody   string
	}{
		{
			name:       "Fresh Counter",
			reqMethod:  http.MethodGet,
			setupMocks: func(cfg *testAPIConfig) {},
			wantStatus: http.StatusOK,
			wantBody:   `{"total_predictions":0}`,
		},
		{
			name:      "Loaded Counter",
			reqMethod: http.MethodGet,
			setupMocks: func(cfg *testAPIConfig) {
				cfg.mockDB.GetUsageCountFunc = func(ctx context.Context) (int64, error) {
					return 1523, nil
				}
				if err := cfg.apiConfig.usage.Load(context.Background()); err != nil {
					panic(err)
				}
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"total_predictions":1523}`,
		},
		{
			name:       "Method Not Allowed",
			reqMethod:  http.MethodPost,
			setupMocks: func(cfg *testAPIConfig) {},
			wantStatus: http.StatusMethodNotAllowed,
			wantBody:   `{"error":"Method Not Allowed"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			testCfg := newTestAPIConfig(t)
			tc.setupMocks(testCfg)

			req := httptest.NewRequest(tc.reqMethod, "/api/v1/usage", nil)
			rr := httptest.NewRecorder()

			testCfg.apiConfig.handlerUsage(rr, req)

			if status := rr.Code; status != tc.wantStatus {
				t.Errorf("handler returned wrong status code: got %v want %v",
					status, tc.wantStatus)
			}
			if rr.Body.String() != tc.wantBody {
				t.Errorf("handler returned unexpected body: got %v want %v",
					rr.Body.String(), tc.wantBody)
			}
		})
	}
}

func TestHandlerSettings(t *testing.T) {
	testCases := []struct {
		name       string
		reqMethod  string
		reqTarget  string
		reqBody    string
		setupMocks func(cfg *testAPIConfig)
		wantStatus int
		wantBody   string
	}{
		{
			name:       "Get: Full Document",
			reqMethod:  http.MethodGet,
			reqTarget:  "/api/v1/settings",
			setupMocks: func(cfg *testAPIConfig) {},
			wantStatus: http.StatusOK,
			wantBody:   `{"api":{"timeoutSeconds":10},"data":{"retentionDays":30},"display":{"theme":"dark","units":"ugm3"},"location":{"defaultSite":"connaught-place"},"notifications":{"aqiThreshold":200,"enabled":true}}`,
		},
		{
			name:       "Get: Single Key",
			reqMethod:  http.MethodGet,
			reqTarget:  "/api/v1/settings?key=display.theme",
			setupMocks: func(cfg *testAPIConfig) {},
			wantStatus: http.StatusOK,
			wantBody:   `{"key":"display.theme","value":"dark"}`,
		},
		{
			name:       "Get: Unknown Key",
			reqMethod:  http.MethodGet,
			reqTarget:  "/api/v1/settings?key=display.nope",
			setupMocks: func(cfg *testAPIConfig) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Unknown setting key"}`,
		},
		{
			name:      "Put: Update Threshold",
			reqMethod: http.MethodPut,
			reqTarget: "/api/v1/settings",
			reqBody:   `{"key":"notifications.aqiThreshold","value":150}`,
			setupMocks: func(cfg *testAPIConfig) {
				cfg.mockDB.UpsertSettingFunc = func(ctx context.Context, arg database.UpsertSettingParams) (database.Setting, error) {
					return database.Setting{Key: arg.Key, Value: arg.Value}, nil
				}
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"key":"notifications.aqiThreshold","value":150}`,
		},
		{
			name:      "Put: Default Site Normalized Before Storage",
			reqMethod: http.MethodPut,
			reqTarget: "/api/v1/settings",
			reqBody:   `{"key":"location.defaultSite","value":"Noida"}`,
			setupMocks: func(cfg *testAPIConfig) {
				cfg.mockDB.UpsertSettingFunc = func(ctx context.Context, arg database.UpsertSettingParams) (database.Setting, error) {
					return database.Setting{Key: arg.Key, Value: arg.Value}, nil
				}
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"key":"location.defaultSite","value":"noida"}`,
		},
		{
			name:       "Put: Value Out Of Range",
			reqMethod:  http.MethodPut,
			reqTarget:  "/api/v1/settings",
			reqBody:    `{"key":"notifications.aqiThreshold","value":1000}`,
			setupMocks: func(cfg *testAPIConfig) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Invalid setting key or value"}`,
		},
		{
			name:       "Put: Invalid Body",
			reqMethod:  http.MethodPut,
			reqTarget:  "/api/v1/settings",
			reqBody:    `{invalid`,
			setupMocks: func(cfg *testAPIConfig) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Invalid request body"}`,
		},
		{
			name:      "Put: Database Failure",
			reqMethod: http.MethodPut,
			reqTarget: "/api/v1/settings",
			reqBody:   `{"key":"display.theme","value":"light"}`,
			setupMocks: func(cfg *testAPIConfig) {
				cfg.mockDB.UpsertSettingFunc = func(ctx context.Context, arg database.UpsertSettingParams) (database.Setting, error) {
					return database.Setting{}, errors.New("db down")
				}
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Failed to update setting"}`,
		},
		{
			name:      "Delete: Clear All Data",
			reqMethod: http.MethodDelete,
			reqTarget: "/api/v1/settings",
			setupMocks: func(cfg *testAPIConfig) {
				cfg.mockDB.DeleteAllSettingsFunc = func(ctx context.Context) error {
					return nil
				}
				cfg.mockDB.ResetUsageCountFunc = func(ctx context.Context) error {
					return nil
				}
				cfg.mockCache.flushFunc = func(ctx context.Context) error {
					return nil
				}
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"settings, usage and cache cleared"}`,
		},
		{
			name:      "Delete: Cache Flush Fails",
			reqMethod: http.MethodDelete,
			reqTarget: "/api/v1/settings",
			setupMocks: func(cfg *testAPIConfig) {
				cfg.mockDB.DeleteAllSettingsFunc = func(ctx context.Context) error {
					return nil
				}
				cfg.mockDB.ResetUsageCountFunc = func(ctx context.Context) error {
					return nil
				}
				cfg.mockCache.flushFunc = func(ctx context.Context) error {
					return errors.New("cache error")
				}
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Failed to clear data"}`,
		},
		{
			name:       "Method Not Allowed",
			reqMethod:  http.MethodPatch,
			reqTarget:  "/api/v1/settings",
			setupMocks: func(cfg *testAPIConfig) {},
			wantStatus: http.StatusMethodNotAllowed,
			wantBody:   `{"error":"Method Not Allowed"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			testCfg := newTestAPIConfig(t)
			tc.setupMocks(testCfg)

			req := httptest.NewRequest(tc.reqMethod, tc.reqTarget, strings.NewReader(tc.reqBody))
			rr := httptest.NewRecorder()

			testCfg.apiConfig.handlerSettings(rr, req)

			if status := rr.Code; status != tc.wantStatus {
				t.Errorf("handler returned wrong status code: got %v want %v",
					status, tc.wantStatus)
			}
			if rr.Body.String() != tc.wantBody {
				t.Errorf("handler returned unexpected body: got %v want %v",
					rr.Body.String(), tc.wantBody)
			}
		})
	}
}

func TestHandlerResetSettings(t *testing.T) {
	testCases := []struct {
		name       string
		reqMethod  string
		setupMocks func(cfg *testAPIConfig)
		wantStatus int
		wantBody   string
	}{
		{
			name:      "Success",
			reqMethod: http.MethodPost,
			setupMocks: func(cfg *testAPIConfig) {
				cfg.mockDB.DeleteAllSettingsFunc = func(ctx context.Context) error {
					return nil
				}
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"settings reset"}`,
		},
		{
			name:      "Failure: Database Error",
			reqMethod: http.MethodPost,
			setupMocks: func(cfg *testAPIConfig) {
				cfg.mockDB.DeleteAllSettingsFunc = func(ctx context.Context) error {
					return errors.New("db down")
				}
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Failed to reset settings"}`,
		},
		{
			name:       "Method Not Allowed",
			reqMethod:  http.MethodGet,
			setupMocks: func(cfg *testAPIConfig) {},
			wantStatus: http.StatusMethodNotAllowed,
			wantBody:   `{"error":"Method Not Allowed"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			testCfg := newTestAPIConfig(t)
			tc.setupMocks(testCfg)

			req := httptest.NewRequest(tc.reqMethod, "/api/v1/settings/reset", nil)
			rr := httptest.NewRecorder()

			testCfg.apiConfig.handlerResetSettings(rr, req)

			if status := rr.Code; status != tc.wantStatus {
				t.Errorf("handler returned wrong status code: got %v want %v",
					status, tc.wantStatus)
			}
			if rr.Body.String() != tc.wantBody {
				t.Errorf("handler returned unexpected body: got %v want %v",
					rr.Body.String(), tc.wantBody)
			}
		})
	}
}

func TestHandlerConfig(t *testing.T) {
	testCases := []struct {
		name       string
		method     string
		devMode    bool
		wantStatus int
		wantBody   string
	}{
		{
			name:       "Dev Mode True",
			method:     http.MethodGet,
			devMode:    true,
			wantStatus: http.StatusOK,
			wantBody:   `{"dev_mode":true,"status_interval":"5m0s","refresh_interval":"1h0m0s","retention_interval":"12h0m0s","fallback_model_name":"Atmospheric Science Patterns","fallback_model_accuracy":"60-65%"}`,
		},
		{
			name:       "Dev Mode False",
			method:     http.MethodGet,
			devMode:    false,
			wantStatus: http.StatusOK,
			wantBody:   `{"dev_mode":false,"status_interval":"5m0s","refresh_interval":"1h0m0s","retention_interval":"12h0m0s","fallback_model_name":"Atmospheric Science Patterns","fallback_model_accuracy":"60-65%"}`,
		},
		{
			name:       "Wrong Method",
			method:     http.MethodPost,
			devMode:    true,
			wantStatus: http.StatusMethodNotAllowed,
			wantBody:   `{"error":"Method Not Allowed"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			apiCfg := &apiConfig{
				devMode:                    tc.devMode,
				schedulerStatusInterval:    5 * time.Minute,
				schedulerRefreshInterval:   60 * time.Minute,
				schedulerRetentionInterval: 720 * time.Minute,
				fallbackModelName:          "Atmospheric Science Patterns",
				fallbackModelAccuracy:      "60-65%",
			}

			req := httptest.NewRequest(tc.method, "/api/v1/config", nil)
			rr := httptest.NewRecorder()

			apiCfg.handlerConfig(rr, req)

			if status := rr.Code; status != tc.wantStatus {
				t.Errorf("handler returned wrong status code: got %v want %v",
					status, tc.wantStatus)
			}

			if rr.Body.String() != tc.wantBody {
				t.Errorf("handler returned unexpected body: got %v want %v",
					rr.Body.String(), tc.wantBody)
			}
		})
	}
}

func TestHandlerHealthz(t *testing.T) {
	testCases := []struct {
		name       string
		reqMethod  string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "Success",
			reqMethod:  http.MethodGet,
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"ok"}`,
		},
		{
			name:       "Method Not Allowed",
			reqMethod:  http.MethodPost,
			wantStatus: http.StatusMethodNotAllowed,
			wantBody:   `{"error":"Method Not Allowed"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			apiCfg := &apiConfig{}

			req := httptest.NewRequest(tc.reqMethod, "/healthz", nil)
			rr := httptest.NewRecorder()

			apiCfg.handlerHealthz(rr, req)

			if status := rr.Code; status != tc.wantStatus {
				t.Errorf("handler returned wrong status code: got %v want %v",
					status, tc.wantStatus)
			}
			if rr.Body.String() != tc.wantBody {
				t.Errorf("handler returned unexpected body: got %v want %v",
					rr.Body.String(), tc.wantBody)
			}
		})
	}
}

func TestHandlerDevReset(t *testing.T) {
	testCases := []struct {
		name       string
		reqMethod  string
		setupMocks func(cfg *testAPIConfig)
		wantStatus int
		wantBody   string
	}{
		{
			name:      "Success",
			reqMethod: http.MethodPost,
			setupMocks: func(cfg *testAPIConfig) {
				cfg.mockDB.DeleteAllForecastArchivesFunc = func(ctx context.Context) error {
					return nil
				}
				cfg.mockDB.DeleteAllSettingsFunc = func(ctx context.Context) error {
					return nil
				}
				cfg.mockDB.ResetUsageCountFunc = func(ctx context.Context) error {
					return nil
				}
				cfg.mockCache.flushFunc = func(ctx context.Context) error {
					return nil
				}
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"archive, settings and cache reset"}`,
		},
		{
			name:      "Archive Wipe Fails",
			reqMethod: http.MethodPost,
			setupMocks: func(cfg *testAPIConfig) {
				cfg.mockDB.DeleteAllForecastArchivesFunc = func(ctx context.Context) error {
					return errors.New("db error")
				}
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Failed to reset forecast archive"}`,
		},
		{
			name:      "Cache Fails",
			reqMethod: http.MethodPost,
			setupMocks: func(cfg *testAPIConfig) {
				cfg.mockDB.DeleteAllForecastArchivesFunc = func(ctx context.Context) error {
					return nil
				}
				cfg.mockDB.DeleteAllSettingsFunc = func(ctx context.Context) error {
					return nil
				}
				cfg.mockDB.ResetUsageCountFunc = func(ctx context.Context) error {
					return nil
				}
				cfg.mockCache.flushFunc = func(ctx context.Context) error {
					return errors.New("cache error")
				}
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Failed to clear data"}`,
		},
		{
			name:       "Wrong Method",
			reqMethod:  http.MethodGet,
			setupMocks: func(cfg *testAPIConfig) {},
			wantStatus: http.StatusMethodNotAllowed,
			wantBody:   `{"error":"Method Not Allowed"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			testCfg := newTestAPIConfig(t)
			tc.setupMocks(testCfg)

			req := httptest.NewRequest(tc.reqMethod, "/dev/reset", nil)
			rr := httptest.NewRecorder()

			testCfg.apiConfig.handlerDevReset(rr, req)

			if status := rr.Code; status != tc.wantStatus {
				t.Errorf("handler returned wrong status code: got %v want %v",
					status, tc.wantStatus)
			}
			if rr.Body.String() != tc.wantBody {
				t.Errorf("handler returned unexpected body: got %v want %v",
					rr.Body.String(), tc.wantBody)
			}
		})
	}
}

func TestHandlerRunSchedulerJobs(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		testCfg := newTestAPIConfig(t)

		// Each job signals through its first mock call so the test can wait
		// for the asynchronous run instead of racing it.
		var jobs sync.WaitGroup
		jobs.Add(3)
		testCfg.mockPrediction.ModelStatusFunc = func(ctx context.Context) (RemoteModelStatus, error) {
			jobs.Done()
			return RemoteModelStatus{Status: "trained_model_active", ModelName: "lstm_v2", Accuracy: "89%"}, nil
		}
		testCfg.mockDB.ListMonitoredSitesFunc = func(ctx context.Context) ([]database.MonitoredSite, error) {
			jobs.Done()
			return nil, nil
		}
		testCfg.mockDB.DeleteForecastArchivesBeforeFunc = func(ctx context.Context, createdAt time.Time) error {
			jobs.Done()
			return nil
		}

		s := NewScheduler(testCfg.apiConfig, time.Hour, time.Hour, time.Hour)
		defer func() {
			for _, ticker := range s.tickers {
				ticker.Stop()
			}
		}()

		req := httptest.NewRequest(http.MethodPost, "/dev/run-jobs", nil)
		rr := httptest.NewRecorder()

		s.handlerRunSchedulerJobs(rr, req)

		if status := rr.Code; status != http.StatusAccepted {
			t.Errorf("handler returned wrong status code: got %v want %v",
				status, http.StatusAccepted)
		}
		wantBody := `{"status":"scheduler jobs triggered"}`
		if rr.Body.String() != wantBody {
			t.Errorf("handler returned unexpected body: got %v want %v",
				rr.Body.String(), wantBody)
		}

		jobs.Wait()
	})

	t.Run("Wrong Method", func(t *testing.T) {
		testCfg := newTestAPIConfig(t)
		s := NewScheduler(testCfg.apiConfig, time.Hour, time.Hour, time.Hour)
		defer func() {
			for _, ticker := range s.tickers {
				ticker.Stop()
			}
		}()

		req := httptest.NewRequest(http.MethodGet, "/dev/run-jobs", nil)
		rr := httptest.NewRecorder()

		s.handlerRunSchedulerJobs(rr, req)

		if status := rr.Code; status != http.StatusMethodNotAllowed {
			t.Errorf("handler returned wrong status code: got %v want %v",
				status, http.StatusMethodNotAllowed)
		}
		wantBody := `{"error":"Method Not Allowed"}`
		if rr.Body.String() != wantBody {
			t.Errorf("handler returned unexpected body: got %v want %v",
				rr.Body.String(), wantBody)
		}
	})
}
