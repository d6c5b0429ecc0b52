// Package engine is the conversational orchestrator: it turns one raw
// user query into one rendered answer, threading per-session dialogue
// state through classification, entity extraction, collaborator
// dispatch, and response rendering. Every turn produces a string;
// collaborator failures degrade to apologetic renderings, never to a
// propagated error.
package engine

import (
	"context"

	"github.com/rentpulse/rentpulse-assistant-go/internal/classify"
	"github.com/rentpulse/rentpulse-assistant-go/internal/dialogue"
	"github.com/rentpulse/rentpulse-assistant-go/internal/domain"
	"github.com/rentpulse/rentpulse-assistant-go/internal/extract"
	"github.com/rentpulse/rentpulse-assistant-go/internal/infra/observability"
	"github.com/rentpulse/rentpulse-assistant-go/internal/port"
	"github.com/rentpulse/rentpulse-assistant-go/internal/respond"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var chatTracer = otel.Tracer("engine/chat")

const (
	defaultBHK      = "2"
	defaultRent     = 30000
	localityListTop = 50
	rankingCount    = 5
)

// Engine orchestrates one conversational turn.
type Engine struct {
	demand   port.DemandForecaster
	gap      port.GapAnalyzer
	history  port.HistoryProvider
	ranker   port.CityRanker
	detector classify.Detector
	renderer *respond.Renderer
	cities   []string
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// New wires the engine over its collaborator ports. The city list is
// resolved at startup (bootstrap with fallback) and treated as
// read-only afterwards.
func New(
	demand port.DemandForecaster,
	gap port.GapAnalyzer,
	history port.HistoryProvider,
	ranker port.CityRanker,
	cities []string,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		demand:   demand,
		gap:      gap,
		history:  history,
		ranker:   ranker,
		detector: classify.NewRuleDetector(cities),
		renderer: respond.NewRenderer(cities),
		cities:   cities,
		metrics:  metrics,
		logger:   logger,
	}
}

// Cities returns the supported-city list.
func (e *Engine) Cities() []string { return e.cities }

// DetectIntent exposes classification for the introspection endpoint
// and tests. Stateless callers pass a fresh state.
func (e *Engine) DetectIntent(query string, st *dialogue.State) domain.Intent {
	return e.detector.Detect(query, st)
}

// ExtractEntities exposes the entity extractors for the introspection
// endpoint and tests.
func (e *Engine) ExtractEntities(query string) domain.Entities {
	return extract.All(query, e.cities)
}

// Chat runs one turn. The caller owns the state and must serialize
// turns per session; the engine is re-entrant across distinct states.
func (e *Engine) Chat(ctx context.Context, st *dialogue.State, query string) domain.ChatResponse {
	ctx, span := chatTracer.Start(ctx, "Engine.Chat")
	defer span.End()

	st.History = append(st.History, query)

	intent := e.detector.Detect(query, st)
	span.SetAttributes(
		attribute.String("chat.intent", string(intent.Kind)),
		attribute.Float64("chat.confidence", intent.Confidence),
	)
	e.metrics.RecordIntent(string(intent.Kind))

	if intent.Smalltalk() {
		return domain.ChatResponse{
			Response:   e.smalltalk(intent.Kind, query, st),
			Intent:     string(intent.Kind),
			Confidence: intent.Confidence,
		}
	}

	entities := extract.All(query, e.cities)

	city := entities.City
	contextNote := ""
	if city == "" && st.LastCity != "" {
		city = st.LastCity
		// Ranking answers span all cities; announcing the remembered
		// one would be misleading.
		if !intent.Kind.Ranking() {
			contextNote = respond.ContextNote(city)
		}
	}

	if city == "" && !intent.CityAgnostic() {
		// Clarifying prompt: no state mutation so the user can correct
		// course without losing prior context.
		return domain.ChatResponse{
			Response:   e.renderer.ClarifyCity(),
			Intent:     string(intent.Kind),
			Confidence: intent.Confidence,
			Entities:   entities,
		}
	}

	st.Remember(city, intent.Kind)

	var degraded bool
	response := e.dispatch(ctx, intent.Kind, city, query, entities, st, &degraded) + contextNote

	return domain.ChatResponse{
		Response:   response,
		Intent:     string(intent.Kind),
		Confidence: intent.Confidence,
		Entities:   entities,
		Degraded:   degraded,
	}
}

func (e *Engine) smalltalk(kind domain.IntentKind, query string, st *dialogue.State) string {
	switch kind {
	case domain.IntentGreeting:
		if name := extract.Name(query); name != "" {
			st.UserName = name
		}
		return e.renderer.Greeting(st.UserName)
	case domain.IntentThankYou:
		return e.renderer.ThankYou(st.Turns())
	case domain.IntentGoodbye:
		return e.renderer.Goodbye()
	default:
		return e.renderer.Help()
	}
}

func (e *Engine) dispatch(ctx context.Context, kind domain.IntentKind, city, query string, entities domain.Entities, st *dialogue.State, degraded *bool) string {
	switch kind {
	case domain.IntentDemandForecast:
		return e.demandForecast(ctx, city, query, entities, st, degraded)

	case domain.IntentTenantQuality:
		// The scenario line is driven by the factors the collaborator
		// echoes back, not by what the query mentioned.
		res := e.call(ctx, "demand", degraded, func(ctx context.Context) (domain.Result, error) {
			return e.demand.PredictEnhanced(ctx, city, entities.Year, entities.Month, domain.MergeFactorDefaults(entities.EconomicFactors))
		})
		return e.renderer.Render(kind, res, query, st)

	case domain.IntentGapAnalysis:
		if entities.Locality != "" {
			bhk := entities.BHK
			if bhk == "" {
				bhk = defaultBHK
			}
			rent := entities.Rent
			if rent == 0 {
				rent = defaultRent
			}
			res := e.call(ctx, "gap", degraded, func(ctx context.Context) (domain.Result, error) {
				// The gap client fills its own indicator defaults; only
				// user-extracted factors are forwarded.
				return e.gap.PredictGap(ctx, city, entities.Locality, bhk, rent, entities.EconomicFactors)
			})
			return e.renderer.Render(kind, res, query, st)
		}
		res := e.call(ctx, "gap", degraded, func(ctx context.Context) (domain.Result, error) {
			return e.gap.ListLocalities(ctx, city, localityListTop, port.SortByGapHigh)
		})
		return e.renderer.Render(kind, res, query, st)

	case domain.IntentLowDemand:
		res := e.call(ctx, "gap", degraded, func(ctx context.Context) (domain.Result, error) {
			return e.gap.ListLocalities(ctx, city, localityListTop, port.SortByGapHigh)
		})
		return e.renderer.Render(kind, res, query, st)

	case domain.IntentLowGap:
		res := e.call(ctx, "gap", degraded, func(ctx context.Context) (domain.Result, error) {
			return e.gap.ListLocalities(ctx, city, localityListTop, port.SortByGapLow)
		})
		return e.renderer.Render(kind, res, query, st)

	case domain.IntentHistorical:
		res := e.call(ctx, "demand", degraded, func(ctx context.Context) (domain.Result, error) {
			return e.history.HistoricalSeries(ctx, city, 12)
		})
		out := e.renderer.Render(kind, res, query, st)
		if pct, ok := respond.Trend(res); ok {
			st.SetTrend(pct)
		}
		return out

	case domain.IntentTopCities:
		return e.rankings(ctx, query, kind, true, rankingCount, st, degraded)
	case domain.IntentBottomCities:
		return e.rankings(ctx, query, kind, false, rankingCount, st, degraded)
	case domain.IntentTopCity:
		return e.rankings(ctx, query, kind, true, 1, st, degraded)
	case domain.IntentBottomCity:
		return e.rankings(ctx, query, kind, false, 1, st, degraded)

	default:
		return e.renderer.Default()
	}
}

// demandForecast handles the enhanced upgrade path: a demand question
// qualified with explicit economic factors gets the tenant-quality
// collaborator so the user sees the risk-aware answer.
func (e *Engine) demandForecast(ctx context.Context, city, query string, entities domain.Entities, st *dialogue.State, degraded *bool) string {
	extracted := entities.EconomicFactors

	if len(extracted) > 0 {
		// A failed enhanced attempt is absorbed by the plain-forecast
		// fallback below, so it gets its own flag.
		var attemptDegraded bool
		res := e.call(ctx, "demand", &attemptDegraded, func(ctx context.Context) (domain.Result, error) {
			return e.demand.PredictEnhanced(ctx, city, entities.Year, entities.Month, domain.MergeFactorDefaults(extracted))
		})
		if _, ok := res["tenant_quality_analysis"]; ok {
			res["_extracted_economic_factors"] = extracted
			return e.renderer.Render(domain.IntentTenantQuality, res, query, st)
		}
	}

	res := e.call(ctx, "demand", degraded, func(ctx context.Context) (domain.Result, error) {
		return e.demand.Predict(ctx, city, entities.Year, entities.Month, domain.MergeFactorDefaults(extracted))
	})
	if !res.Failed() && len(extracted) > 0 {
		res["_extracted_economic_factors"] = extracted
	}
	return e.renderer.Render(domain.IntentDemandForecast, res, query, st)
}

func (e *Engine) rankings(ctx context.Context, query string, kind domain.IntentKind, top bool, count int, st *dialogue.State, degraded *bool) string {
	res := e.call(ctx, "rankings", degraded, func(ctx context.Context) (domain.Result, error) {
		return e.ranker.Rankings(ctx, top, count)
	})
	return e.renderer.Render(kind, res, query, st)
}

// call runs one collaborator request and converts transport errors into
// the error-keyed result the renderers expect. Raw errors are logged,
// never rendered; degraded is set so the turn is counted as an error.
func (e *Engine) call(ctx context.Context, service string, degraded *bool, fn func(context.Context) (domain.Result, error)) domain.Result {
	res, err := fn(ctx)
	if err != nil {
		e.logger.Warn("collaborator call failed",
			zap.String("service", service),
			zap.Error(err),
		)
		e.metrics.RecordCollaboratorError(service)
		*degraded = true
		return domain.ErrResult(err)
	}
	if res == nil {
		res = domain.Result{}
	}
	if res.Failed() {
		e.logger.Warn("collaborator returned error payload",
			zap.String("service", service),
			zap.String("detail", res.Str("error", "")),
		)
		e.metrics.RecordCollaboratorError(service)
		*degraded = true
	}
	return res
}
