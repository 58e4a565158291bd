package main

import (
	"math/rand"
	"time"
)

// This file contains the historical aggregator. Generation is local, so the
// aggregator itself cannot fail. Parameter validation happens at the HTTP
// boundary; by the time a request reaches this code its mode is decided.

const defaultHistoryWindowDays = 30

// loadHistorical returns one historical point per day plus stats recomputed
// from those points. A year and month together select month mode; anything
// else falls back to a rolling window ending now. maxDays caps the number of
// days in month mode, windowDays sizes the rolling window.
func loadHistorical(year int, month time.Month, windowDays, maxDays int) ([]HistoricalPoint, HistoricalStats) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var points []HistoricalPoint
	if year > 0 && month >= time.January && month <= time.December {
		points = synthesizeMonthHistory(rng, year, month, maxDays)
	} else {
		days := windowDays
		if days <= 0 {
			days = defaultHistoryWindowDays
		}
		points = synthesizeWindowHistory(rng, days, time.Now().UTC())
	}

	return points, computeHistoricalStats(points)
}

// computeHistoricalStats derives the aggregate block from the points it is
// given, never from the generator's internals, so the stats always match the
// series the client sees.
func computeHistoricalStats(points []HistoricalPoint) HistoricalStats {
	stats := HistoricalStats{Count: len(points)}
	if len(points) == 0 {
		return stats
	}

	var sumNO2, sumO3 float64
	for _, point := range points {
		sumNO2 += point.NO2
		sumO3 += point.O3
		if point.AQI > stats.MaxAQI {
			stats.MaxAQI = point.AQI
		}
	}
	stats.AvgNO2 = round1(sumNO2 / float64(len(points)))
	stats.AvgO3 = round1(sumO3 / float64(len(points)))
	return stats
}
