// Package client implements the HTTP clients for the forecast
// collaborator services (demand prediction, gap analysis). All calls
// go through the shared circuit breaker and retry policy; payloads are
// decoded into domain.Result so the engine stays agnostic of each
// service's exact schema.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rentpulse/rentpulse-assistant-go/internal/domain"
	"github.com/rentpulse/rentpulse-assistant-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("client")

// DemandClient calls the demand forecasting service (Python/ML).
type DemandClient struct {
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
	bh         *resilience.Bulkhead
	cfg        resilience.Config
}

// NewDemandClient creates a new DemandClient.
func NewDemandClient(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *DemandClient {
	return &DemandClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		cb:         cb,
		bh:         resilience.NewBulkhead(cfg.MaxConcurrency),
		cfg:        cfg,
	}
}

// predictionDate renders the mid-month date the service expects.
func predictionDate(year, month int) string {
	return fmt.Sprintf("%d-%02d-15", year, month)
}

// Predict fetches the plain demand forecast for a city and month.
func (c *DemandClient) Predict(ctx context.Context, city string, year, month int, factors map[string]float64) (domain.Result, error) {
	ctx, span := tracer.Start(ctx, "DemandClient.Predict")
	defer span.End()
	span.SetAttributes(attribute.String("forecast.city", city))

	payload := map[string]any{
		"city":             city,
		"date":             predictionDate(year, month),
		"economic_factors": factors,
	}
	return c.post(ctx, "demand", c.baseURL+"/predict", payload)
}

// PredictEnhanced fetches the tenant-quality-augmented forecast.
func (c *DemandClient) PredictEnhanced(ctx context.Context, city string, year, month int, factors map[string]float64) (domain.Result, error) {
	ctx, span := tracer.Start(ctx, "DemandClient.PredictEnhanced")
	defer span.End()
	span.SetAttributes(attribute.String("forecast.city", city))

	payload := map[string]any{
		"city":                   city,
		"date":                   predictionDate(year, month),
		"economic_factors":       factors,
		"include_tenant_quality": true,
	}
	return c.post(ctx, "demand", c.baseURL+"/predict/enhanced", payload)
}

// HistoricalSeries fetches the monthly demand series for a city.
func (c *DemandClient) HistoricalSeries(ctx context.Context, city string, months int) (domain.Result, error) {
	ctx, span := tracer.Start(ctx, "DemandClient.HistoricalSeries")
	defer span.End()
	span.SetAttributes(attribute.String("forecast.city", city))

	u := fmt.Sprintf("%s/historical/%s?months=%d", c.baseURL, url.PathEscape(city), months)
	return c.get(ctx, "demand", u)
}

// ListCities fetches the canonical supported-city list.
func (c *DemandClient) ListCities(ctx context.Context) ([]string, error) {
	ctx, span := tracer.Start(ctx, "DemandClient.ListCities")
	defer span.End()

	res, err := c.get(ctx, "demand", c.baseURL+"/cities")
	if err != nil {
		return nil, err
	}

	raw, ok := res["cities"].([]any)
	if !ok {
		return nil, fmt.Errorf("cities payload missing 'cities' list")
	}
	cities := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			cities = append(cities, s)
		}
	}
	return cities, nil
}

// post issues a JSON POST through the breaker and retry policy.
func (c *DemandClient) post(ctx context.Context, service, u string, payload any) (domain.Result, error) {
	return doJSON(ctx, c.httpClient, c.cb, c.bh, c.cfg, service, http.MethodPost, u, payload)
}

// get issues a GET through the breaker and retry policy.
func (c *DemandClient) get(ctx context.Context, service, u string) (domain.Result, error) {
	return doJSON(ctx, c.httpClient, c.cb, c.bh, c.cfg, service, http.MethodGet, u, nil)
}

// doJSON is the shared request path: bulkhead, then circuit breaker
// wrapping a retried HTTP round-trip, decoding the body into a
// domain.Result.
func doJSON(ctx context.Context, httpClient *http.Client, cb *gobreaker.CircuitBreaker, bh *resilience.Bulkhead, cfg resilience.Config, service, method, u string, payload any) (domain.Result, error) {
	var out domain.Result

	if err := bh.Acquire(ctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &domain.ErrTimeout{Operation: service + " " + method}
		}
		return nil, &domain.ErrExternalService{Service: service, Err: err}
	}
	defer bh.Release()

	_, err := cb.Execute(func() (any, error) {
		innerErr := resilience.RetryWithBackoff(ctx, cfg, func() error {
			var body *bytes.Reader
			if payload != nil {
				raw, err := json.Marshal(payload)
				if err != nil {
					return err
				}
				body = bytes.NewReader(raw)
			} else {
				body = bytes.NewReader(nil)
			}

			httpReq, err := http.NewRequestWithContext(ctx, method, u, body)
			if err != nil {
				return err
			}
			if payload != nil {
				httpReq.Header.Set("Content-Type", "application/json")
			}

			resp, err := httpClient.Do(httpReq)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("%s API returned status %d", service, resp.StatusCode)
			}

			out = domain.Result{}
			return json.NewDecoder(resp.Body).Decode(&out)
		})
		if innerErr != nil {
			return nil, innerErr
		}
		return out, nil
	})

	switch {
	case err == nil:
		return out, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return nil, &domain.ErrCircuitOpen{Service: service}
	case errors.Is(err, context.DeadlineExceeded):
		return nil, &domain.ErrTimeout{Operation: service + " " + method}
	default:
		return nil, &domain.ErrExternalService{Service: service, Err: err}
	}
}
