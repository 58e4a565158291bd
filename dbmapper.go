package main

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/karanm/aerocast/internal/database"
)

// databaseMonitoredSiteToSite converts a database.MonitoredSite to a Site.
func databaseMonitoredSiteToSite(dbSite database.MonitoredSite) Site {
	return Site{
		SiteID:    dbSite.ID,
		Slug:      dbSite.Slug,
		Name:      dbSite.Name,
		Latitude:  dbSite.Latitude,
		Longitude: dbSite.Longitude,
		Kind:      dbSite.Kind,
	}
}

// databaseForecastArchiveToForecastResult converts a database.ForecastArchive
// row back into a ForecastResult. The stored points are JSONB, so this is the
// one row converter that can fail.
func databaseForecastArchiveToForecastResult(row database.ForecastArchive, site Site) (ForecastResult, error) {
	var points []PredictionPoint
	if err := json.Unmarshal(row.Points, &points); err != nil {
		return ForecastResult{}, err
	}
	return ForecastResult{
		Site:        site,
		Predictions: points,
		Metadata: ForecastMetadata{
			Coordinates:  Coordinates{Latitude: row.Latitude, Longitude: row.Longitude},
			HorizonHours: int(row.HorizonHours),
			ModelUsed:    row.ModelUsed,
			Accuracy:     row.Accuracy,
			Source:       row.Source,
			GeneratedAt:  row.CreatedAt,
		},
	}, nil
}

// forecastResultToCreateForecastArchiveParams converts a ForecastResult to database.CreateForecastArchiveParams.
func forecastResultToCreateForecastArchiveParams(result ForecastResult) (database.CreateForecastArchiveParams, error) {
	points, err := json.Marshal(result.Predictions)
	if err != nil {
		return database.CreateForecastArchiveParams{}, err
	}
	return database.CreateForecastArchiveParams{
		ID:           uuid.New(),
		SiteSlug:     result.Site.Slug,
		Latitude:     result.Metadata.Coordinates.Latitude,
		Longitude:    result.Metadata.Coordinates.Longitude,
		HorizonHours: int32(result.Metadata.HorizonHours),
		ModelUsed:    result.Metadata.ModelUsed,
		Accuracy:     result.Metadata.Accuracy,
		Source:       result.Metadata.Source,
		Points:       points,
	}, nil
}
