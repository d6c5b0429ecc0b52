package handler

import (
	"net/http"

	"github.com/rentpulse/rentpulse-assistant-go/internal/dialogue"
	"github.com/rentpulse/rentpulse-assistant-go/internal/engine"
	"github.com/rentpulse/rentpulse-assistant-go/internal/infra/observability"
)

// ============================================================
// Introspection — GET /v1/intent, GET /v1/entities, GET /examples
// ============================================================

// intentHandler classifies a query without running a turn. Stateless:
// follow-up resolution needs a session, so it always sees fresh state.
func intentHandler(eng *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		if q == "" {
			writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
			return
		}
		writeJSON(w, http.StatusOK, eng.DetectIntent(q, dialogue.New()))
	}
}

// entitiesHandler runs the extractors over a query.
func entitiesHandler(eng *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		if q == "" {
			writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
			return
		}
		writeJSON(w, http.StatusOK, eng.ExtractEntities(q))
	}
}

// citiesHandler lists the supported cities.
func citiesHandler(eng *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"cities": eng.Cities()})
	}
}

// engineMetricsHandler serves the engine metrics snapshot.
func engineMetricsHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.GetEngineSnapshot())
	}
}

// exampleQueries mirrors the phrasings the assistant understands,
// grouped by capability for frontend discovery.
var exampleQueries = map[string][]string{
	"demand_forecast_simple": {
		"What's the demand in Mumbai?",
		"Predict rental demand in Delhi",
		"How many rentals in Bangalore?",
		"Show me demand forecast for Chennai",
	},
	"demand_forecast_with_date": {
		"What's demand in Mumbai for February 2023?",
		"Show Delhi demand in August 2024",
		"Bangalore demand for March 2025",
		"Chennai in September 2024",
	},
	"demand_forecast_with_economics": {
		"Mumbai demand with 8% inflation",
		"Delhi with 7.5% interest rate",
		"Bangalore with 90% employment",
		"Chennai assuming 6% inflation and 7% interest",
	},
	"gap_analysis": {
		"Show me investment opportunities in Mumbai",
		"Which areas in Delhi have high demand?",
		"Gap analysis for Bangalore",
		"Best localities to invest in Pune",
		"Where should I buy property in Chennai?",
	},
	"historical": {
		"Show historical demand in Chennai",
		"Past trends in Pune",
		"Historical data for Hyderabad",
		"What was the demand in Mumbai last year?",
	},
	"rankings": {
		"Which cities have the highest demand?",
		"Show me the top 5 cities",
		"Which city has the lowest demand?",
	},
}

func examplesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, exampleQueries)
	}
}

// ============================================================
// Operational — GET /healthz, GET /readyz
// ============================================================

func healthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": "rentpulse-assistant",
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
