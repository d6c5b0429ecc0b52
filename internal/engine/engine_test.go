package engine_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rentpulse/rentpulse-assistant-go/internal/catalog"
	"github.com/rentpulse/rentpulse-assistant-go/internal/dialogue"
	"github.com/rentpulse/rentpulse-assistant-go/internal/domain"
	"github.com/rentpulse/rentpulse-assistant-go/internal/engine"
	"github.com/rentpulse/rentpulse-assistant-go/internal/infra/observability"

	"go.uber.org/zap"
)

type mockDemand struct {
	predictRes  domain.Result
	predictErr  error
	enhancedRes domain.Result
	enhancedErr error

	predictCalls  int
	enhancedCalls int
	lastCity      string
	lastFactors   map[string]float64
}

func (m *mockDemand) Predict(_ context.Context, city string, _, _ int, factors map[string]float64) (domain.Result, error) {
	m.predictCalls++
	m.lastCity = city
	m.lastFactors = factors
	return m.predictRes, m.predictErr
}

func (m *mockDemand) PredictEnhanced(_ context.Context, city string, _, _ int, factors map[string]float64) (domain.Result, error) {
	m.enhancedCalls++
	m.lastCity = city
	m.lastFactors = factors
	return m.enhancedRes, m.enhancedErr
}

type mockGap struct {
	listRes domain.Result
	listErr error
	gapRes  domain.Result
	gapErr  error

	listCalls    int
	lastSortBy   string
	lastTopN     int
	gapCalls     int
	lastLocality string
	lastBHK      string
	lastRent     int
}

func (m *mockGap) ListLocalities(_ context.Context, _ string, topN int, sortBy string) (domain.Result, error) {
	m.listCalls++
	m.lastTopN = topN
	m.lastSortBy = sortBy
	return m.listRes, m.listErr
}

func (m *mockGap) PredictGap(_ context.Context, _, locality, bhk string, rent int, _ map[string]float64) (domain.Result, error) {
	m.gapCalls++
	m.lastLocality = locality
	m.lastBHK = bhk
	m.lastRent = rent
	return m.gapRes, m.gapErr
}

type mockHistory struct {
	res domain.Result
	err error
}

func (m *mockHistory) HistoricalSeries(_ context.Context, _ string, _ int) (domain.Result, error) {
	return m.res, m.err
}

type mockRanker struct {
	res domain.Result
	err error

	lastTop   bool
	lastCount int
}

func (m *mockRanker) Rankings(_ context.Context, top bool, count int) (domain.Result, error) {
	m.lastTop = top
	m.lastCount = count
	return m.res, m.err
}

type fixture struct {
	eng     *engine.Engine
	demand  *mockDemand
	gap     *mockGap
	history *mockHistory
	ranker  *mockRanker
}

func newFixture() *fixture {
	f := &fixture{
		demand:  &mockDemand{},
		gap:     &mockGap{},
		history: &mockHistory{},
		ranker:  &mockRanker{},
	}
	f.eng = engine.New(f.demand, f.gap, f.history, f.ranker,
		catalog.FallbackCities, observability.NewMetrics(), zap.NewNop())
	return f
}

func TestChat_DemandForecast(t *testing.T) {
	f := newFixture()
	f.demand.predictRes = domain.Result{
		"city": "Mumbai", "predicted_demand": 2500.0, "confidence": "high",
	}

	st := dialogue.New()
	resp := f.eng.Chat(context.Background(), st, "What's the demand in Mumbai?")

	if resp.Intent != string(domain.IntentDemandForecast) {
		t.Fatalf("intent = %s", resp.Intent)
	}
	if !strings.Contains(resp.Response, "2,500") || !strings.Contains(resp.Response, "75,000") {
		t.Fatalf("response missing forecast figures:\n%s", resp.Response)
	}
	if f.demand.predictCalls != 1 || f.demand.enhancedCalls != 0 {
		t.Fatalf("predict calls = %d, enhanced = %d", f.demand.predictCalls, f.demand.enhancedCalls)
	}
	if f.demand.lastFactors[domain.FactorInflation] != domain.DefaultInflation {
		t.Fatalf("defaults not merged: %v", f.demand.lastFactors)
	}
	if st.LastCity != "Mumbai" || st.LastIntent != domain.IntentDemandForecast {
		t.Fatalf("state not remembered: %+v", st)
	}
	if len(st.History) != 1 {
		t.Fatalf("history = %v", st.History)
	}
}

func TestChat_EnhancedUpgrade(t *testing.T) {
	f := newFixture()
	f.demand.enhancedRes = domain.Result{
		"city":                    "Mumbai",
		"quality_adjusted_demand": 1800.0,
		"base_demand":             map[string]any{"predicted_demand": 2500.0},
		"tenant_quality_analysis": map[string]any{
			"high_quality_pct": 0.6, "medium_quality_pct": 0.3,
			"high_risk_pct": 0.1, "average_default_risk": 0.07,
		},
		"investment_recommendation": map[string]any{
			"rating": "BUY", "confidence": 0.8, "reasoning": "Solid tenant base.",
		},
	}

	resp := f.eng.Chat(context.Background(), dialogue.New(),
		"What's the demand in Mumbai with 9% inflation?")

	if f.demand.enhancedCalls != 1 {
		t.Fatalf("enhanced calls = %d", f.demand.enhancedCalls)
	}
	if f.demand.predictCalls != 0 {
		t.Fatalf("plain predict should be skipped, calls = %d", f.demand.predictCalls)
	}
	if !strings.Contains(resp.Response, "Tenant Quality & Investment Risk") {
		t.Fatalf("expected tenant-quality rendering:\n%s", resp.Response)
	}
	if !strings.Contains(resp.Response, "Inflation: 9%") {
		t.Fatalf("extracted factor missing from scenario line:\n%s", resp.Response)
	}
	if f.demand.lastFactors[domain.FactorInflation] != 9 {
		t.Fatalf("extracted inflation not forwarded: %v", f.demand.lastFactors)
	}
	if f.demand.lastFactors[domain.FactorEmployment] != domain.DefaultEmployment {
		t.Fatalf("unmentioned factors should default: %v", f.demand.lastFactors)
	}
}

func TestChat_EnhancedFallsBackToPlainForecast(t *testing.T) {
	f := newFixture()
	// Collaborator without the enhancement returns a plain payload.
	f.demand.enhancedRes = domain.Result{"city": "Mumbai", "predicted_demand": 2500.0}
	f.demand.predictRes = domain.Result{"city": "Mumbai", "predicted_demand": 2500.0, "confidence": "high"}

	resp := f.eng.Chat(context.Background(), dialogue.New(),
		"What's the demand in Mumbai with 9% inflation?")

	if f.demand.enhancedCalls != 1 || f.demand.predictCalls != 1 {
		t.Fatalf("calls enhanced=%d predict=%d, want 1 and 1", f.demand.enhancedCalls, f.demand.predictCalls)
	}
	if !strings.Contains(resp.Response, "**9% inflation**") {
		t.Fatalf("extracted factor missing from forecast preface:\n%s", resp.Response)
	}
}

func TestChat_GapAnalysisListForm(t *testing.T) {
	f := newFixture()
	f.gap.listRes = domain.Result{
		"city": "Bangalore",
		"locality_data": []domain.Result{
			{"locality": "Koramangala", "demand": 1200.0, "gap": 0.4},
		},
	}

	resp := f.eng.Chat(context.Background(), dialogue.New(), "Where should I invest in Bangalore?")

	if f.gap.listCalls != 1 {
		t.Fatalf("list calls = %d", f.gap.listCalls)
	}
	if f.gap.lastTopN != 50 || f.gap.lastSortBy != "gap_high" {
		t.Fatalf("list args topN=%d sortBy=%s", f.gap.lastTopN, f.gap.lastSortBy)
	}
	if !strings.Contains(resp.Response, "Koramangala") {
		t.Fatalf("response missing locality:\n%s", resp.Response)
	}
}

func TestChat_GapAnalysisSingleLocalityDefaults(t *testing.T) {
	f := newFixture()
	f.gap.gapRes = domain.Result{
		"city": "Bangalore", "area_locality": "Koramangala",
		"predicted_gap_ratio": 0.3, "gap_severity": "medium",
		"demand_supply_status": "demand_exceeds_supply",
	}

	resp := f.eng.Chat(context.Background(), dialogue.New(),
		"Gap analysis for Koramangala area in Bangalore")

	if f.gap.gapCalls != 1 {
		t.Fatalf("gap calls = %d (list calls = %d)", f.gap.gapCalls, f.gap.listCalls)
	}
	if f.gap.lastLocality != "Koramangala" {
		t.Fatalf("locality = %q", f.gap.lastLocality)
	}
	if f.gap.lastBHK != "2" || f.gap.lastRent != 30000 {
		t.Fatalf("defaults bhk=%q rent=%d, want 2 and 30000", f.gap.lastBHK, f.gap.lastRent)
	}
	if !strings.Contains(resp.Response, "Koramangala in Bangalore") {
		t.Fatalf("response:\n%s", resp.Response)
	}
}

func TestChat_LowGapUsesAscendingSort(t *testing.T) {
	f := newFixture()
	f.gap.listRes = domain.Result{"city": "Mumbai", "locality_data": []domain.Result{}}

	f.eng.Chat(context.Background(), dialogue.New(), "Which areas are oversupplied in Mumbai?")

	if f.gap.lastSortBy != "gap_low" {
		t.Fatalf("sortBy = %s, want gap_low", f.gap.lastSortBy)
	}
}

func TestChat_ClarifyingPromptDoesNotMutateState(t *testing.T) {
	f := newFixture()

	st := dialogue.New()
	resp := f.eng.Chat(context.Background(), st, "What is the demand forecast?")

	if !strings.Contains(resp.Response, "which city") {
		t.Fatalf("expected clarifying prompt:\n%s", resp.Response)
	}
	if st.LastCity != "" || st.LastIntent != "" {
		t.Fatalf("clarifying prompt must not remember context: %+v", st)
	}
	if f.demand.predictCalls != 0 {
		t.Fatalf("no collaborator call expected, got %d", f.demand.predictCalls)
	}
}

func TestChat_FollowUpBackfillsCity(t *testing.T) {
	f := newFixture()
	f.demand.predictRes = domain.Result{"city": "Mumbai", "predicted_demand": 2000.0}

	st := dialogue.New()
	st.Remember("Mumbai", domain.IntentDemandForecast)

	resp := f.eng.Chat(context.Background(), st, "And what about the demand next month?")

	if f.demand.lastCity != "Mumbai" {
		t.Fatalf("city not back-filled, got %q", f.demand.lastCity)
	}
	if !strings.Contains(resp.Response, "last mentioned city: **Mumbai**") {
		t.Fatalf("context note missing:\n%s", resp.Response)
	}
}

func TestChat_CollaboratorErrorDegrades(t *testing.T) {
	f := newFixture()
	f.demand.predictErr = errors.New("dial tcp 127.0.0.1:5001: connection refused")

	resp := f.eng.Chat(context.Background(), dialogue.New(), "What's the demand in Mumbai?")

	if strings.Contains(resp.Response, "connection refused") {
		t.Fatalf("raw error leaked:\n%s", resp.Response)
	}
	if !strings.Contains(resp.Response, "unable to connect to the demand forecasting service") {
		t.Fatalf("expected apologetic fallback:\n%s", resp.Response)
	}
	if !resp.Degraded {
		t.Fatal("turn should be marked degraded")
	}
}

func TestChat_SuccessfulTurnNotDegraded(t *testing.T) {
	f := newFixture()
	f.demand.predictRes = domain.Result{"city": "Mumbai", "predicted_demand": 2500.0}

	resp := f.eng.Chat(context.Background(), dialogue.New(), "What's the demand in Mumbai?")
	if resp.Degraded {
		t.Fatal("successful turn marked degraded")
	}
}

func TestChat_RankingsOmitContextNote(t *testing.T) {
	f := newFixture()
	f.ranker.res = domain.Result{
		"period": "Apr-Jul 2022",
		"cities": []domain.Result{
			{"city": "Delhi", "demand": 2100.0, "monthly_demand": 63000.0},
		},
	}

	st := dialogue.New()
	st.Remember("Mumbai", domain.IntentDemandForecast)

	resp := f.eng.Chat(context.Background(), st, "Show me the top 5 cities")

	if resp.Intent != string(domain.IntentTopCities) {
		t.Fatalf("intent = %s", resp.Intent)
	}
	if strings.Contains(resp.Response, "last mentioned city") {
		t.Fatalf("ranking answer references the remembered city:\n%s", resp.Response)
	}
	// The remembered city survives for later follow-ups.
	if st.LastCity != "Mumbai" {
		t.Fatalf("remembered city lost: %q", st.LastCity)
	}
}

func TestChat_TenantQualityScenarioComesFromCollaborator(t *testing.T) {
	f := newFixture()
	// No economic_factors_used in the payload: the stress-scenario line
	// must not be synthesized from the query's own factors.
	f.demand.enhancedRes = domain.Result{
		"city":                    "Mumbai",
		"quality_adjusted_demand": 1800.0,
		"base_demand":             map[string]any{"predicted_demand": 2500.0},
		"tenant_quality_analysis": map[string]any{
			"high_quality_pct": 0.6, "medium_quality_pct": 0.3,
			"high_risk_pct": 0.1, "average_default_risk": 0.07,
		},
		"investment_recommendation": map[string]any{
			"rating": "BUY", "confidence": 0.8, "reasoning": "Solid tenant base.",
		},
	}

	resp := f.eng.Chat(context.Background(), dialogue.New(),
		"Is it safe to invest in Mumbai with 9% inflation?")

	if resp.Intent != string(domain.IntentTenantQuality) {
		t.Fatalf("intent = %s", resp.Intent)
	}
	if strings.Contains(resp.Response, "Scenario: High Economic Stress") {
		t.Fatalf("scenario line synthesized from query factors:\n%s", resp.Response)
	}
	// The factors still reach the collaborator, merged with defaults.
	if f.demand.lastFactors[domain.FactorInflation] != 9 {
		t.Fatalf("extracted inflation not forwarded: %v", f.demand.lastFactors)
	}
}

func TestChat_HistoricalStoresTrend(t *testing.T) {
	f := newFixture()
	f.history.res = domain.Result{
		"city": "Mumbai",
		"historical_data": []domain.Result{
			{"month": "May", "year": 2022.0, "demand": 40000.0},
			{"month": "June", "year": 2022.0, "demand": 50000.0},
			{"month": "July", "year": 2022.0, "demand": 60000.0},
		},
	}

	st := dialogue.New()
	f.eng.Chat(context.Background(), st, "Historical trend for Mumbai")

	if st.LastTrend == nil {
		t.Fatal("trend not stored")
	}
	if *st.LastTrend != 50 {
		t.Fatalf("trend = %v, want 50", *st.LastTrend)
	}
}

func TestChat_Rankings(t *testing.T) {
	f := newFixture()
	f.ranker.res = domain.Result{
		"period": "Apr-Jul 2022",
		"cities": []domain.Result{
			{"city": "Mumbai", "demand": 2500.0, "monthly_demand": 75000.0},
		},
	}

	resp := f.eng.Chat(context.Background(), dialogue.New(), "Top 5 cities by demand")
	if !f.ranker.lastTop || f.ranker.lastCount != 5 {
		t.Fatalf("rankings args top=%v count=%d", f.ranker.lastTop, f.ranker.lastCount)
	}
	if !strings.Contains(resp.Response, "Mumbai") {
		t.Fatalf("response:\n%s", resp.Response)
	}

	resp = f.eng.Chat(context.Background(), dialogue.New(), "Which city has the lowest demand?")
	if f.ranker.lastTop || f.ranker.lastCount != 1 {
		t.Fatalf("rankings args top=%v count=%d, want bottom 1", f.ranker.lastTop, f.ranker.lastCount)
	}
}

func TestChat_GreetingLearnsName(t *testing.T) {
	f := newFixture()

	st := dialogue.New()
	resp := f.eng.Chat(context.Background(), st, "Hi, I'm Priya")

	if st.UserName != "Priya" {
		t.Fatalf("name = %q", st.UserName)
	}
	if !strings.Contains(resp.Response, "Hello Priya") {
		t.Fatalf("greeting not personalized:\n%s", resp.Response)
	}

	// The name sticks for later anonymous greetings.
	resp = f.eng.Chat(context.Background(), st, "hello again")
	if !strings.Contains(resp.Response, "Hello Priya") {
		t.Fatalf("name not retained:\n%s", resp.Response)
	}
}

func TestChat_ThankYouRotates(t *testing.T) {
	f := newFixture()

	st := dialogue.New()
	first := f.eng.Chat(context.Background(), st, "thanks!").Response
	second := f.eng.Chat(context.Background(), st, "thanks!").Response

	if first == second {
		t.Fatal("consecutive thank-you responses should differ")
	}
}

func TestChat_UnknownSuggests(t *testing.T) {
	f := newFixture()

	resp := f.eng.Chat(context.Background(), dialogue.New(), "xyzzy plugh")
	if resp.Intent != string(domain.IntentUnknown) {
		t.Fatalf("intent = %s", resp.Intent)
	}
	if !strings.Contains(resp.Response, "not quite sure") {
		t.Fatalf("expected suggestion fallback:\n%s", resp.Response)
	}
}
