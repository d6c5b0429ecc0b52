package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rentpulse/rentpulse-assistant-go/internal/domain"
	"github.com/rentpulse/rentpulse-assistant-go/internal/engine"
	"github.com/rentpulse/rentpulse-assistant-go/internal/handler"
	"github.com/rentpulse/rentpulse-assistant-go/internal/infra/client"
	"github.com/rentpulse/rentpulse-assistant-go/internal/infra/observability"
	"github.com/rentpulse/rentpulse-assistant-go/internal/infra/ratelimit"
	"github.com/rentpulse/rentpulse-assistant-go/internal/infra/resilience"
	"github.com/rentpulse/rentpulse-assistant-go/internal/service"

	"go.uber.org/zap"
)

// newDemandServer fakes the demand forecasting collaborator.
func newDemandServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/cities", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"cities": []string{"Mumbai", "Delhi", "Bangalore"},
		})
	})

	mux.HandleFunc("/predict", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if date, _ := req["date"].(string); !strings.HasSuffix(date, "-15") {
			t.Errorf("prediction date %v not mid-month", req["date"])
		}
		json.NewEncoder(w).Encode(map[string]any{
			"city":             req["city"],
			"predicted_demand": 2500,
			"confidence":       "high",
		})
	})

	mux.HandleFunc("/historical/", func(w http.ResponseWriter, r *http.Request) {
		city := strings.TrimPrefix(r.URL.Path, "/historical/")
		json.NewEncoder(w).Encode(map[string]any{
			"city": city,
			"historical_data": []map[string]any{
				{"month": "May", "year": 2022, "demand": 60000},
				{"month": "June", "year": 2022, "demand": 72000},
				{"month": "July", "year": 2022, "demand": 78000},
			},
		})
	})

	return httptest.NewServer(mux)
}

// newGapServer fakes the gap analysis collaborator.
func newGapServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/historical/", func(w http.ResponseWriter, r *http.Request) {
		city := strings.TrimPrefix(r.URL.Path, "/historical/")
		if got := r.URL.Query().Get("top_n"); got != "50" {
			t.Errorf("top_n = %q, want 50", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"city": city,
			"locality_data": []map[string]any{
				{"locality": "Koramangala", "demand": 1200, "gap": 0.45},
				{"locality": "Indiranagar", "demand": 900, "gap": 0.30},
			},
		})
	})

	mux.HandleFunc("/predict", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"city":                 req["city"],
			"area_locality":        req["area_locality"],
			"predicted_gap_ratio":  0.35,
			"gap_severity":         "high",
			"demand_supply_status": "demand_exceeds_supply",
		})
	})

	return httptest.NewServer(mux)
}

func buildRouter(t *testing.T, demandURL, gapURL string) http.Handler {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	cb := resilience.NewCircuitBreaker("test")
	cfg := resilience.Config{MaxRetries: 1, InitialBackoff: 10 * time.Millisecond, MaxConcurrency: 10}
	httpClient := &http.Client{Timeout: 5 * time.Second}

	demandClient := client.NewDemandClient(httpClient, demandURL, cb, cfg)
	gapClient := client.NewGapClient(httpClient, gapURL, cb, cfg)

	cities := service.BootstrapCities(context.Background(), demandClient, logger)
	rankings := service.NewRankings(demandClient, cities, time.Minute, logger)
	sessions := service.NewSessionManager(time.Minute, metrics, logger)

	eng := engine.New(demandClient, gapClient, demandClient, rankings, cities, metrics, logger)
	return handler.NewRouter(eng, sessions, ratelimit.NewPerClient(1000), "", 500, metrics, logger)
}

func chat(t *testing.T, router http.Handler, message, sessionID string) domain.ChatResponse {
	t.Helper()
	body, _ := json.Marshal(domain.ChatRequest{Message: message, SessionID: sessionID})
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /chat = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp domain.ChatResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp
}

// TestIntegration_Conversation drives a multi-turn conversation through
// the full stack against fake collaborator services.
func TestIntegration_Conversation(t *testing.T) {
	demandServer := newDemandServer(t)
	defer demandServer.Close()
	gapServer := newGapServer(t)
	defer gapServer.Close()

	router := buildRouter(t, demandServer.URL, gapServer.URL)

	// Turn 1: demand forecast mints a session.
	resp := chat(t, router, "What's the demand in Mumbai?", "")
	if resp.SessionID == "" {
		t.Fatal("no session id")
	}
	if resp.Intent != string(domain.IntentDemandForecast) {
		t.Fatalf("intent = %s", resp.Intent)
	}
	if !strings.Contains(resp.Response, "2,500") || !strings.Contains(resp.Response, "75,000") {
		t.Fatalf("forecast figures missing:\n%s", resp.Response)
	}
	sessionID := resp.SessionID

	// Turn 2: city-less follow-up reuses Mumbai.
	resp = chat(t, router, "and the gap?", sessionID)
	if resp.Intent != string(domain.IntentGapAnalysis) {
		t.Fatalf("follow-up intent = %s", resp.Intent)
	}
	if !strings.Contains(resp.Response, "Koramangala") {
		t.Fatalf("locality data missing:\n%s", resp.Response)
	}
	if !strings.Contains(resp.Response, "last mentioned city: **Mumbai**") {
		t.Fatalf("context note missing:\n%s", resp.Response)
	}

	// Turn 3: property features route to the single-locality predictor.
	resp = chat(t, router, "2 BHK with rent 35000 in Koramangala area in Bangalore", sessionID)
	if resp.Intent != string(domain.IntentGapAnalysis) {
		t.Fatalf("intent = %s", resp.Intent)
	}
	if !strings.Contains(resp.Response, "Koramangala in Bangalore") {
		t.Fatalf("single-locality rendering missing:\n%s", resp.Response)
	}
	if !strings.Contains(resp.Response, "0.350 (high severity)") {
		t.Fatalf("gap ratio missing:\n%s", resp.Response)
	}

	// Turn 4: rankings fan out over the bootstrapped city list.
	resp = chat(t, router, "Top 5 cities by demand", sessionID)
	if resp.Intent != string(domain.IntentTopCities) {
		t.Fatalf("intent = %s", resp.Intent)
	}
	// Every fake city serves the same series, so all three appear.
	for _, city := range []string{"Mumbai", "Delhi", "Bangalore"} {
		if !strings.Contains(resp.Response, city) {
			t.Fatalf("ranking missing %s:\n%s", city, resp.Response)
		}
	}
}

// TestIntegration_CollaboratorDown verifies a dead collaborator turns
// into an apologetic answer, not an HTTP error.
func TestIntegration_CollaboratorDown(t *testing.T) {
	demandServer := newDemandServer(t)
	gapServer := newGapServer(t)
	gapServer.Close()
	defer demandServer.Close()

	router := buildRouter(t, demandServer.URL, gapServer.URL)

	resp := chat(t, router, "Where should I invest in Mumbai?", "")
	if resp.Intent != string(domain.IntentGapAnalysis) {
		t.Fatalf("intent = %s", resp.Intent)
	}
	if !strings.Contains(resp.Response, "unable to access the gap analysis service") {
		t.Fatalf("expected degraded answer:\n%s", resp.Response)
	}
	if strings.Contains(resp.Response, "connection refused") {
		t.Fatalf("raw error leaked:\n%s", resp.Response)
	}
}
