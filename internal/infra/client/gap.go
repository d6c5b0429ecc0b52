package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rentpulse/rentpulse-assistant-go/internal/domain"
	"github.com/rentpulse/rentpulse-assistant-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
)

// GapClient calls the supply/demand gap analysis service.
type GapClient struct {
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
	bh         *resilience.Bulkhead
	cfg        resilience.Config
}

// NewGapClient creates a new GapClient.
func NewGapClient(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *GapClient {
	return &GapClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		cb:         cb,
		bh:         resilience.NewBulkhead(cfg.MaxConcurrency),
		cfg:        cfg,
	}
}

// ListLocalities fetches per-locality demand and gap figures for a
// city, sorted server-side.
func (c *GapClient) ListLocalities(ctx context.Context, city string, topN int, sortBy string) (domain.Result, error) {
	ctx, span := tracer.Start(ctx, "GapClient.ListLocalities")
	defer span.End()
	span.SetAttributes(
		attribute.String("gap.city", city),
		attribute.String("gap.sort_by", sortBy),
	)

	u := fmt.Sprintf("%s/historical/%s?top_n=%d&sort_by=%s", c.baseURL, url.PathEscape(city), topN, url.QueryEscape(sortBy))
	return doJSON(ctx, c.httpClient, c.cb, c.bh, c.cfg, "gap", http.MethodGet, u, nil)
}

// PredictGap scores one locality. The service expects a full economic
// indicator set; caller-supplied factors override the baseline.
func (c *GapClient) PredictGap(ctx context.Context, city, locality, bhk string, rent int, indicators map[string]float64) (domain.Result, error) {
	ctx, span := tracer.Start(ctx, "GapClient.PredictGap")
	defer span.End()
	span.SetAttributes(
		attribute.String("gap.city", city),
		attribute.String("gap.locality", locality),
	)

	merged := map[string]float64{
		"inflation_rate":        6.0,
		"interest_rate":         7.0,
		"employment_rate":       85.0,
		"covid_impact_score":    0.1,
		"economic_health_score": 0.85,
	}
	for k, v := range indicators {
		merged[k] = v
	}

	payload := map[string]any{
		"city":                city,
		"area_locality":       locality,
		"bhk":                 bhk,
		"avg_rent":            rent,
		"economic_indicators": merged,
	}
	return doJSON(ctx, c.httpClient, c.cb, c.bh, c.cfg, "gap", http.MethodPost, c.baseURL+"/predict", payload)
}
