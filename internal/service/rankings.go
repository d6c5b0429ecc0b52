package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rentpulse/rentpulse-assistant-go/internal/domain"
	"github.com/rentpulse/rentpulse-assistant-go/internal/infra/cache"
	"github.com/rentpulse/rentpulse-assistant-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var rankTracer = otel.Tracer("service/rankings")

// rankingsPeriod names the historical window the ranking figures come
// from; it is surfaced verbatim in rendered answers for provenance.
const rankingsPeriod = "Apr-Jul 2022"

// rankingsMonths is the lookback passed to the historical collaborator.
const rankingsMonths = 4

// rankingsFanout bounds concurrent per-city historical fetches.
const rankingsFanout = 8

// Rankings ranks cities by their averaged historical daily demand. It
// composes the historical series collaborator over the full city list,
// so results reflect recorded transactions rather than live forecasts.
type Rankings struct {
	history port.HistoryProvider
	cities  []string
	cached  *cache.InMemory[[]domain.Result]
	logger  *zap.Logger
}

// NewRankings creates the ranking service. The aggregate is cached for
// ttl since it fans out one historical call per supported city.
func NewRankings(history port.HistoryProvider, cities []string, ttl time.Duration, logger *zap.Logger) *Rankings {
	return &Rankings{
		history: history,
		cities:  cities,
		cached:  cache.New[[]domain.Result](ttl),
		logger:  logger,
	}
}

// Rankings returns the top (or bottom) count cities by average daily
// demand over the fixed historical window.
func (r *Rankings) Rankings(ctx context.Context, top bool, count int) (domain.Result, error) {
	ctx, span := rankTracer.Start(ctx, "Rankings.Rankings")
	defer span.End()
	span.SetAttributes(
		attribute.Bool("rankings.top", top),
		attribute.Int("rankings.count", count),
	)

	demands, err := r.cityDemands(ctx)
	if err != nil {
		return nil, err
	}
	if len(demands) == 0 {
		return domain.Result{"cities": []domain.Result{}, "is_top": top, "period": rankingsPeriod}, nil
	}

	ranked := make([]domain.Result, len(demands))
	copy(ranked, demands)
	sort.SliceStable(ranked, func(i, j int) bool {
		if top {
			return ranked[i].Num("demand") > ranked[j].Num("demand")
		}
		return ranked[i].Num("demand") < ranked[j].Num("demand")
	})
	if count < len(ranked) {
		ranked = ranked[:count]
	}

	return domain.Result{
		"cities":      ranked,
		"is_top":      top,
		"data_source": "historical",
		"period":      rankingsPeriod,
	}, nil
}

// cityDemands fetches every city's historical series concurrently and
// averages it into a daily demand figure. Cities whose fetch fails are
// skipped rather than failing the whole ranking.
func (r *Rankings) cityDemands(ctx context.Context) ([]domain.Result, error) {
	if cached, ok := r.cached.Get("all"); ok {
		return cached, nil
	}

	var mu sync.Mutex
	demands := make([]domain.Result, 0, len(r.cities))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(rankingsFanout)

	for _, city := range r.cities {
		city := city
		g.Go(func() error {
			res, err := r.history.HistoricalSeries(gCtx, city, rankingsMonths)
			if err != nil || res.Failed() {
				r.logger.Warn("skipping city in rankings",
					zap.String("city", city),
					zap.Error(err),
				)
				return nil
			}

			series := res.List("historical_data")
			if len(series) == 0 {
				return nil
			}

			var total float64
			for _, m := range series {
				total += m.Num("demand")
			}
			avgMonthly := total / float64(len(series))
			avgDaily := avgMonthly / 30

			mu.Lock()
			demands = append(demands, domain.Result{
				"city":           city,
				"demand":         int(avgDaily),
				"monthly_demand": int(avgMonthly),
				"total_demand":   total,
				"data_source":    "historical",
			})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Deterministic base order before ranking.
	sort.SliceStable(demands, func(i, j int) bool {
		return demands[i].Str("city", "") < demands[j].Str("city", "")
	})
	r.cached.Set("all", demands)
	return demands, nil
}
