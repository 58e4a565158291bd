package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// This file contains the analytics aggregator feeding the dashboard's model
// performance page. Every series is synthesized per request; only the site
// list comes from the database.

// loadAnalytics assembles the full analytics bundle. The sub-series share a
// calendar basis (days ending today) but carry no other cross-series
// relationship.
func (cfg *apiConfig) loadAnalytics(ctx context.Context) (AnalyticsBundle, error) {
	sites, err := cfg.dbQueries.ListMonitoredSites(ctx)
	if err != nil {
		return AnalyticsBundle{}, fmt.Errorf("could not list monitored sites for analytics: %w", err)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	now := time.Now().UTC()

	bundle := AnalyticsBundle{
		Radar:         synthesizeRadar(rng),
		AccuracyTrend: synthesizeAccuracyTrend(rng, now),
		HourlyPattern: synthesizeHourlyPattern(rng),
		ErrorBuckets:  synthesizeErrorBuckets(rng),
		WeeklyUsage:   synthesizeWeeklyUsage(rng, now),
		GeneratedAt:   now,
	}

	bundle.Sites = make([]SitePerformance, 0, len(sites))
	for _, dbSite := range sites {
		bundle.Sites = append(bundle.Sites, SitePerformance{
			Site:        dbSite.Name,
			Accuracy:    round1(82 + rng.Float64()*11),
			Predictions: 400 + rng.Intn(800),
		})
	}

	return bundle, nil
}

// synthesizeRadar scores the model on a fixed metric set, each normalized to
// a 0-100 scale with a shared full mark.
func synthesizeRadar(rng *rand.Rand) []RadarMetric {
	specs := []struct {
		metric string
		lo, hi float64
	}{
		{"Accuracy", 78, 92},
		{"RMSE", 70, 85},
		{"Latency", 85, 98},
		{"Uptime", 95, 100},
		{"Coverage", 80, 95},
	}

	radar := make([]RadarMetric, 0, len(specs))
	for _, spec := range specs {
		radar = append(radar, RadarMetric{
			Metric:   spec.metric,
			Score:    round1(spec.lo + rng.Float64()*(spec.hi-spec.lo)),
			FullMark: 100,
		})
	}
	return radar
}

// synthesizeAccuracyTrend walks daily accuracy over the last 30 days, kept
// inside the 78-92% band.
func synthesizeAccuracyTrend(rng *rand.Rand, end time.Time) []TrendPoint {
	const days = 30
	trend := make([]TrendPoint, 0, days)

	accuracy := 85.0
	for i := days - 1; i >= 0; i-- {
		accuracy = clampFloat(accuracy+(rng.Float64()-0.5)*3, 78, 92)
		trend = append(trend, TrendPoint{
			Date:     end.AddDate(0, 0, -i).Truncate(24 * time.Hour),
			Accuracy: round1(accuracy),
		})
	}
	return trend
}

// synthesizeErrorBuckets reports mean absolute prediction error per AQI
// category. Mean error grows with the category.
func synthesizeErrorBuckets(rng *rand.Rand) []ErrorBucket {
	buckets := make([]ErrorBucket, 0, len(aqiCategories))
	for i, category := range aqiCategories {
		buckets = append(buckets, ErrorBucket{
			Bucket:    category,
			MeanError: round1((5 + float64(i)*6) * uniformJitter(rng, 0.15)),
			Samples:   100 + rng.Intn(400),
		})
	}
	return buckets
}

// synthesizeWeeklyUsage reports served-forecast counts for the last 7 days.
func synthesizeWeeklyUsage(rng *rand.Rand, end time.Time) []UsagePoint {
	const days = 7
	usage := make([]UsagePoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		usage = append(usage, UsagePoint{
			Date:  end.AddDate(0, 0, -i).Truncate(24 * time.Hour),
			Count: 150 + rng.Intn(250),
		})
	}
	return usage
}
