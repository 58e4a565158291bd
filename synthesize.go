package main

import (
	"math"
	"math/rand"
	"time"
)

// This file contains the synthetic data generators used whenever the remote
// prediction model is unavailable and for all locally derived series
// (historical aggregates, hourly patterns). Every generator is a pure
// function over an explicit *rand.Rand, so production callers seed from the
// clock while tests seed with constants and assert exact output.

// Seasonal pollution profile for Delhi NCR: winter inversion traps pollutants
// (Nov-Feb peaks), the monsoon washes them out (Jun-Sep trough).
var monthlyPollutionMultiplier = [12]float64{1.8, 1.6, 1.4, 1.2, 1.0, 0.9, 0.7, 0.8, 1.0, 1.3, 1.7, 1.9}

const (
	baseNO2         = 50.0
	baseO3          = 40.0
	historyBaseNO2  = 55.0
	historyBaseO3   = 42.0
	minNO2, maxNO2  = 15.0, 120.0
	minO3, maxO3    = 10.0, 90.0
	no2Uncertainty  = 0.12
	o3Uncertainty   = 0.10
	weekdayActivity = 1.2
	weekendActivity = 0.8
)

// deriveAQI converts pollutant concentrations to a simplified AQI. All
// generated points derive their AQI here; it is never supplied independently.
func deriveAQI(no2, o3 float64) int {
	aqi := int(math.Round(math.Max(no2*2.0, o3*1.5)))
	if aqi < 0 {
		return 0
	}
	if aqi > 500 {
		return 500
	}
	return aqi
}

// aqiCategory buckets an AQI value. The buckets are exhaustive and mutually
// exclusive; boundary values belong to the lower bucket.
func aqiCategory(aqi int) string {
	switch {
	case aqi <= 50:
		return "Good"
	case aqi <= 100:
		return "Moderate"
	case aqi <= 200:
		return "Unhealthy"
	default:
		return "Very Unhealthy"
	}
}

// aqiCategories lists the bucket names in ascending severity order.
var aqiCategories = []string{"Good", "Moderate", "Unhealthy", "Very Unhealthy"}

// no2TimeFactor models traffic-driven NO2: elevated during the morning and
// evening rush, moderately elevated through the working day, low overnight.
// Rush hours take precedence over the daytime band.
func no2TimeFactor(hour int) float64 {
	switch {
	case (hour >= 7 && hour <= 9) || (hour >= 17 && hour <= 19):
		return 1.4
	case hour >= 10 && hour <= 17:
		return 1.1
	default:
		return 0.7
	}
}

// o3DiurnalFactor models photochemical ozone formation: strongest in the
// early afternoon sun, building through the morning, minimal at night.
func o3DiurnalFactor(hour int, photochem float64) float64 {
	switch {
	case hour >= 12 && hour <= 16:
		return 1.5 * photochem
	case hour >= 6 && hour <= 11:
		return 1.2
	default:
		return 0.6
	}
}

// synthesizeForecast generates horizonHours hourly prediction points starting
// at start, shaped by the district factors for the given coordinates. The
// per-point drift terms nudge later points upward so the horizon does not
// look like a repeated daily cycle.
func synthesizeForecast(rng *rand.Rand, lat, lon float64, horizonHours int, includeUncertainty bool, start time.Time) []PredictionPoint {
	factors := factorsForCoordinates(lat, lon)
	points := make([]PredictionPoint, 0, horizonHours)

	for i := 0; i < horizonHours; i++ {
		ts := start.Add(time.Duration(i) * time.Hour)
		hour := ts.Hour()

		no2Base := (baseNO2 + float64(hour-12)*2.0) * factors.pollution
		no2 := no2Base*factors.traffic*no2TimeFactor(hour) + float64(i)*0.3 + factors.no2Offset + rng.NormFloat64()*3.0
		no2 = clampFloat(no2, minNO2, maxNO2)

		o3Base := (baseO3 + float64(14-hour)*1.5) * factors.o3
		o3 := o3Base*o3DiurnalFactor(hour, factors.photochem) + float64(i)*0.2 + factors.o3Offset + rng.NormFloat64()*2.0
		o3 = clampFloat(o3, minO3, maxO3)

		point := PredictionPoint{
			Timestamp: ts,
			NO2:       round1(no2),
			O3:        round1(o3),
		}
		point.AQI = deriveAQI(point.NO2, point.O3)
		if includeUncertainty {
			point.NO2Band = round1(point.NO2 * no2Uncertainty)
			point.O3Band = round1(point.O3 * o3Uncertainty)
		}
		points = append(points, point)
	}

	return points
}

// synthesizeMonthHistory generates one point per day of the given month,
// capped at maxDays when positive. Weekday activity raises NO2; ozone moves
// inversely with the seasonal pollution multiplier since clear summer skies
// favor photochemistry.
func synthesizeMonthHistory(rng *rand.Rand, year int, month time.Month, maxDays int) []HistoricalPoint {
	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if maxDays > 0 && maxDays < daysInMonth {
		daysInMonth = maxDays
	}

	monthMult := monthlyPollutionMultiplier[month-1]
	o3Mult := clampFloat(2.0-monthMult, 0.6, 1.3)

	points := make([]HistoricalPoint, 0, daysInMonth)
	for day := 1; day <= daysInMonth; day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		points = append(points, historicalPointFor(rng, date, monthMult, o3Mult))
	}

	return points
}

// synthesizeWindowHistory generates one point per day for the window of days
// ending at end, crossing month boundaries with a smooth seasonal sine
// instead of the per-month table.
func synthesizeWindowHistory(rng *rand.Rand, days int, end time.Time) []HistoricalPoint {
	points := make([]HistoricalPoint, 0, days)
	for d := days - 1; d >= 0; d-- {
		date := end.AddDate(0, 0, -d)
		seasonal := 1.0 + 0.3*math.Sin(2.0*math.Pi*float64(date.YearDay())/365.0)
		points = append(points, historicalPointFor(rng, date, seasonal, 2.0-seasonal))
	}
	return points
}

// historicalPointFor builds one daily point from the season multipliers,
// applying the weekday/weekend activity split and uniform jitter.
func historicalPointFor(rng *rand.Rand, date time.Time, no2Mult, o3Mult float64) HistoricalPoint {
	dayMult := weekdayActivity
	if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
		dayMult = weekendActivity
	}

	no2 := historyBaseNO2 * no2Mult * dayMult * uniformJitter(rng, 0.1)
	o3 := historyBaseO3 * o3Mult * dayMult * uniformJitter(rng, 0.1)

	point := HistoricalPoint{
		Date: date,
		NO2:  round1(no2),
		O3:   round1(o3),
	}
	point.AQI = deriveAQI(point.NO2, point.O3)
	return point
}

// synthesizeHourlyPattern generates the canonical 24-hour NO2/O3 profile
// (hours 00-23) with 5% jitter, using the same diurnal factors as the
// forecast generator and neutral district factors.
func synthesizeHourlyPattern(rng *rand.Rand) []HourlyPoint {
	points := make([]HourlyPoint, 0, 24)
	for hour := 0; hour < 24; hour++ {
		no2 := (baseNO2 + float64(hour-12)*2.0) * no2TimeFactor(hour) * uniformJitter(rng, 0.05)
		no2 = clampFloat(no2, minNO2, maxNO2)

		o3 := (baseO3 + float64(14-hour)*1.5) * o3DiurnalFactor(hour, 1.0) * uniformJitter(rng, 0.05)
		o3 = clampFloat(o3, minO3, maxO3)

		point := HourlyPoint{
			Hour: hour,
			NO2:  round1(no2),
			O3:   round1(o3),
		}
		point.AQI = deriveAQI(point.NO2, point.O3)
		points = append(points, point)
	}
	return points
}

// uniformJitter draws a multiplier uniformly from [1-spread, 1+spread].
func uniformJitter(rng *rand.Rand, spread float64) float64 {
	return 1.0 - spread + rng.Float64()*2.0*spread
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10.0) / 10.0
}
