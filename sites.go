package main

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
)

// This file contains helpers for monitored-site management. It resolves the
// site referenced by an HTTP request (by slug or by coordinates) and holds
// the per-district emission factors used by the synthetic generators.

// districtFactors captures how a district scales the baseline pollutant model:
// multiplicative factors for overall pollution, traffic density, ozone
// formation and photochemical activity, plus flat offsets in ug/m3.
type districtFactors struct {
	pollution float64
	traffic   float64
	o3        float64
	photochem float64
	no2Offset float64
	o3Offset  float64
}

// districtBounds pairs a coordinate bounding box with its factors. Boxes may
// overlap; lookup takes the first match, so narrower districts come first.
type districtBounds struct {
	name           string
	minLat, maxLat float64
	minLon, maxLon float64
	factors        districtFactors
}

var defaultDistrictFactors = districtFactors{pollution: 1.0, traffic: 1.0, o3: 1.0, photochem: 1.0}

var districtTable = []districtBounds{
	{"connaught-place", 28.62, 28.64, 77.20, 77.22, districtFactors{1.5, 1.6, 0.8, 0.7, 15, -8}},
	{"central-delhi", 28.60, 28.70, 77.15, 77.25, districtFactors{1.3, 1.4, 0.9, 0.8, 10, -5}},
	{"gurgaon", 28.40, 28.50, 77.00, 77.10, districtFactors{1.2, 1.3, 1.1, 1.0, 8, 2}},
	{"noida", 28.50, 28.60, 77.30, 77.40, districtFactors{1.1, 1.2, 1.2, 1.1, 5, 5}},
	{"dwarka", 28.55, 28.65, 77.00, 77.10, districtFactors{0.9, 1.0, 1.3, 1.2, 0, 8}},
}

// factorsForCoordinates resolves the district factors for a point. The first
// matching box wins; coordinates outside every district get neutral factors.
func factorsForCoordinates(lat, lon float64) districtFactors {
	for _, d := range districtTable {
		if lat >= d.minLat && lat <= d.maxLat && lon >= d.minLon && lon <= d.maxLon {
			return d.factors
		}
	}
	return defaultDistrictFactors
}

// getSiteBySlug looks up a monitored site by its canonical slug. The input is
// normalized first so "Connaught Place" and "connaught-place" resolve alike.
func (cfg *apiConfig) getSiteBySlug(ctx context.Context, slug string) (Site, error) {
	normalized, err := normalizeSiteSlug(slug)
	if err != nil {
		return Site{}, fmt.Errorf("could not normalize site slug: %w", err)
	}

	dbSite, err := cfg.dbQueries.GetMonitoredSiteBySlug(ctx, normalized)
	if err != nil {
		return Site{}, fmt.Errorf("unknown monitored site %q: %w", normalized, err)
	}
	cfg.logger.Debug("site resolved by slug", "slug", normalized, "name", dbSite.Name)
	return databaseMonitoredSiteToSite(dbSite), nil
}

// nearestSite resolves coordinates to the closest monitored site by
// flat-plane squared distance, which is accurate enough at city scale.
func (cfg *apiConfig) nearestSite(ctx context.Context, lat, lon float64) (Site, error) {
	dbSites, err := cfg.dbQueries.ListMonitoredSites(ctx)
	if err != nil {
		return Site{}, fmt.Errorf("could not list monitored sites: %w", err)
	}
	if len(dbSites) == 0 {
		return Site{}, fmt.Errorf("no monitored sites configured")
	}

	best := dbSites[0]
	bestDist := math.MaxFloat64
	for _, s := range dbSites {
		dLat := s.Latitude - lat
		dLon := s.Longitude - lon
		if dist := dLat*dLat + dLon*dLon; dist < bestDist {
			best = s
			bestDist = dist
		}
	}
	cfg.logger.Debug("site resolved by coordinates", "lat", lat, "lon", lon, "slug", best.Slug)
	return databaseMonitoredSiteToSite(best), nil
}

// getSiteFromRequest extracts the monitored site referenced by an HTTP request,
// supporting both a site slug and latitude/longitude query parameters.
func (cfg *apiConfig) getSiteFromRequest(r *http.Request) (Site, error) {
	ctx := r.Context()
	slug := r.URL.Query().Get("site")
	latStr := r.URL.Query().Get("lat")
	lonStr := r.URL.Query().Get("lon")

	if slug != "" {
		return cfg.getSiteBySlug(ctx, slug)
	}

	if latStr != "" && lonStr != "" {
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			return Site{}, fmt.Errorf("invalid latitude: %v", err)
		}

		lon, err := strconv.ParseFloat(lonStr, 64)
		if err != nil {
			return Site{}, fmt.Errorf("invalid longitude: %v", err)
		}

		return cfg.nearestSite(ctx, lat, lon)
	}

	return Site{}, fmt.Errorf("either site or lat/lon query parameters are required")
}
