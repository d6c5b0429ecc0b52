// Package port defines the interfaces for the external prediction
// services the engine consumes. Following the hexagonal layout, the
// engine depends on these and never on the concrete HTTP clients.
package port

import (
	"context"

	"github.com/rentpulse/rentpulse-assistant-go/internal/domain"
)

// Locality list sort modes accepted by the gap collaborator.
const (
	SortByDemand  = "demand"
	SortByGapHigh = "gap_high"
	SortByGapLow  = "gap_low"
	SortByGapAbs  = "gap_abs"
)

// Cache abstracts a TTL key-value cache.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}

// DemandForecaster calls the demand prediction service.
type DemandForecaster interface {
	// Predict returns the plain demand forecast for a city and month.
	Predict(ctx context.Context, city string, year, month int, factors map[string]float64) (domain.Result, error)

	// PredictEnhanced returns the tenant-quality-augmented forecast.
	PredictEnhanced(ctx context.Context, city string, year, month int, factors map[string]float64) (domain.Result, error)
}

// GapAnalyzer calls the supply/demand gap service.
type GapAnalyzer interface {
	// ListLocalities returns per-locality demand and gap figures for a
	// city, sorted server-side by sortBy.
	ListLocalities(ctx context.Context, city string, topN int, sortBy string) (domain.Result, error)

	// PredictGap scores one locality given property features.
	PredictGap(ctx context.Context, city, locality, bhk string, rent int, indicators map[string]float64) (domain.Result, error)
}

// HistoryProvider serves the monthly historical demand series.
type HistoryProvider interface {
	HistoricalSeries(ctx context.Context, city string, months int) (domain.Result, error)
}

// CityLister returns the canonical supported-city list.
type CityLister interface {
	ListCities(ctx context.Context) ([]string, error)
}

// CityRanker ranks cities by averaged historical demand.
type CityRanker interface {
	Rankings(ctx context.Context, top bool, count int) (domain.Result, error)
}
