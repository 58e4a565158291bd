package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := NewAPIConfig(os.Stdout)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	if err := cfg.ConnectDB(); err != nil {
		os.Exit(1)
	}
	if err := cfg.ConnectCache(); err != nil {
		os.Exit(1)
	}

	ctx := context.Background()
	if err := cfg.settings.Load(ctx); err != nil {
		cfg.logger.Warn("couldn't load settings, using defaults", "error", err)
	}
	if err := cfg.usage.Load(ctx); err != nil {
		cfg.logger.Warn("couldn't load usage counter, starting at zero", "error", err)
	}
	cfg.logger.Info("configuration loaded")

	scheduler := NewScheduler(cfg,
		cfg.schedulerStatusInterval,
		cfg.schedulerRefreshInterval,
		cfg.schedulerRetentionInterval,
	)
	cfg.logger.Info(
		"starting scheduler",
		"status", cfg.schedulerStatusInterval.String(),
		"refresh", cfg.schedulerRefreshInterval.String(),
		"retention", cfg.schedulerRetentionInterval.String(),
	)
	scheduler.Start()

	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/predict", cfg.handlerPredict)
	mux.HandleFunc("/api/v1/forecast/latest", cfg.handlerLatestForecast)
	mux.HandleFunc("/api/v1/current", cfg.handlerCurrentConditions)
	mux.HandleFunc("/api/v1/model-status", cfg.handlerModelStatus)
	mux.HandleFunc("/api/v1/model-info", cfg.handlerModelInfo)
	mux.HandleFunc("/api/v1/locations", cfg.handlerLocations)
	mux.HandleFunc("/api/v1/historical", cfg.handlerHistorical)
	mux.HandleFunc("/api/v1/analytics", cfg.handlerAnalytics)
	mux.HandleFunc("/api/v1/usage", cfg.handlerUsage)
	mux.HandleFunc("/api/v1/settings", cfg.handlerSettings)
	mux.HandleFunc("/api/v1/settings/reset", cfg.handlerResetSettings)
	mux.HandleFunc("/api/v1/config", cfg.handlerConfig)
	mux.HandleFunc("/healthz", cfg.handlerHealthz)
	mux.Handle("/metrics", promhttp.Handler())

	if cfg.devMode {
		cfg.logger.Debug("development mode enabled. Registering /dev endpoints.")
		mux.HandleFunc("/dev/reset", cfg.handlerDevReset)
		mux.HandleFunc("/dev/run-jobs", scheduler.handlerRunSchedulerJobs)
	}

	server := &http.Server{
		Addr:    ":" + cfg.port,
		Handler: corsMiddleware(metricsMiddleware(mux)),
	}

	cfg.logger.Info("starting server", "port", cfg.port)
	err = server.ListenAndServe()
	if err != nil {
		cfg.logger.Error("server startup failed", "error", err)
		os.Exit(1)
	}
}
