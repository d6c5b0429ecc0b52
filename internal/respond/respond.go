// Package respond renders structured collaborator results into
// natural-language answers, one branch per intent. Every branch checks
// the result's "error" key first and falls back to an apologetic,
// non-technical sentence that still offers an alternative capability —
// raw collaborator errors are logged upstream, never shown.
package respond

import (
	"fmt"
	"strings"

	"github.com/rentpulse/rentpulse-assistant-go/internal/dialogue"
	"github.com/rentpulse/rentpulse-assistant-go/internal/domain"
)

// Renderer turns (intent, result, query, state) into the final answer
// string. It reads dialogue state for cross-turn context but never
// mutates it; the orchestrator owns all state writes.
type Renderer struct {
	cities []string
}

// NewRenderer creates a renderer over the supported-city list (used in
// clarifying prompts and help text).
func NewRenderer(cities []string) *Renderer {
	return &Renderer{cities: cities}
}

// Render dispatches to the intent's branch. Unknown intents get the
// suggestion response, never a blank string.
func (r *Renderer) Render(kind domain.IntentKind, res domain.Result, query string, st *dialogue.State) string {
	switch kind {
	case domain.IntentDemandForecast:
		return r.demandForecast(res, st)
	case domain.IntentTenantQuality:
		return r.tenantQuality(res)
	case domain.IntentGapAnalysis:
		return r.gapAnalysis(res)
	case domain.IntentLowDemand:
		return r.lowDemand(res)
	case domain.IntentLowGap:
		return r.lowGap(res)
	case domain.IntentHistorical:
		return r.historical(res)
	case domain.IntentTopCities:
		return r.topCities(res)
	case domain.IntentBottomCities:
		return r.bottomCities(res)
	case domain.IntentTopCity:
		return r.topCity(res)
	case domain.IntentBottomCity:
		return r.bottomCity(res)
	case domain.IntentHelp:
		return r.Help()
	default:
		return r.Default()
	}
}

// comma formats an integer with thousands separators ("75,000").
func comma(n int) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	s := fmt.Sprintf("%d", n)
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	return sign + strings.Join(parts, ",")
}

// joinAnd renders "a, b, and c" (or "a" / "a, and b").
func joinAnd(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
}

func (r *Renderer) citySample(n int) string {
	if len(r.cities) < n {
		n = len(r.cities)
	}
	return strings.Join(r.cities[:n], ", ")
}
