// Package classify resolves a raw query to exactly one intent per
// turn. The cascade runs in three stages: ordered priority guards,
// follow-up patterns (only with dialogue context), then the general
// first-match-wins pattern table. Classification is a pure function of
// (text, dialogue state).
package classify

import (
	"regexp"
	"strings"

	"github.com/rentpulse/rentpulse-assistant-go/internal/catalog"
	"github.com/rentpulse/rentpulse-assistant-go/internal/dialogue"
	"github.com/rentpulse/rentpulse-assistant-go/internal/domain"
)

// Detector is the classification seam. The rule cascade is the only
// implementation today; a scored or model-backed classifier can be
// swapped in without touching extractors or rendering.
type Detector interface {
	Detect(query string, st *dialogue.State) domain.Intent
}

// Confidence levels. The general stage uses fixed constants rather
// than a computed score.
const (
	confGuard    = 0.95
	confOverride = 0.98
	confFollowUp = 0.9
	confWeak     = 0.9
	confGeneral  = 0.8
	confHelp     = 0.6
)

var (
	bhkMentionRe  = regexp.MustCompile(`\d+\s*bhk`)
	rentBeforeRe  = regexp.MustCompile(`(?:rent|rental)[:\s]{0,5}(\d{4,}|\d+k)`)
	rentAfterRe   = regexp.MustCompile(`(\d{4,}|\d+k)[:\s]{0,5}(?:rent|rental)`)
	avgRentRe     = regexp.MustCompile(`average[:\s]+(?:rent|rental)`)
	safetyFirstRe = regexp.MustCompile(`(?:safe|risk|grade|rating).*invest`)
	investFirstRe = regexp.MustCompile(`invest.*(?:safe|risk|grade|rating)`)

	topOneRe     = regexp.MustCompile(`(?:top|best|highest).*(?:1|one|single).*cit`)
	bottomOneRe  = regexp.MustCompile(`(?:worst|lowest|bottom).*(?:1|one|single).*cit`)
	whichLowRe   = regexp.MustCompile(`(?:the|which|what).*cit.*(?:lowest|worst|least).*demand`)
	showLowRe    = regexp.MustCompile(`(?:show|tell|give).*cit.*(?:lowest|worst).*demand`)
	whichHighRe  = regexp.MustCompile(`(?:the|which|what).*cit.*(?:highest|best|most).*demand`)
	showHighRe   = regexp.MustCompile(`(?:show|tell|give).*cit.*(?:highest|best|most).*demand`)
	anyRankRe    = regexp.MustCompile(`(?:top|best|highest|worst|lowest|bottom).*cit`)
	bottomWordRe = regexp.MustCompile(`(?:worst|lowest|bottom)`)
)

// guard is one priority check. Guards run before everything else, in
// declaration order, short-circuiting on the first hit.
type guard func(lower string) (domain.Intent, bool)

// RuleDetector is the regex rule cascade.
type RuleDetector struct {
	guards     []guard
	citySafeRe *regexp.Regexp
}

// NewRuleDetector builds the cascade. The city list feeds the
// "is <city> safe" safety guard.
func NewRuleDetector(cities []string) *RuleDetector {
	d := &RuleDetector{citySafeRe: buildCitySafeRe(cities)}
	d.guards = []guard{
		d.propertyFeatureGuard,
		qualityAdjustedGuard,
		d.investmentSafetyGuard,
		singleCityRankGuard,
		multiCityRankGuard,
		explicitGapGuard,
		lowDemandGuard,
		lowGapGuard,
		undersuppliedGuard,
	}
	return d
}

// Detect resolves a query to one intent. Given the same text and
// state it always returns the same result.
func (d *RuleDetector) Detect(query string, st *dialogue.State) domain.Intent {
	lower := strings.TrimSpace(strings.ToLower(query))

	for _, g := range d.guards {
		if intent, ok := g(lower); ok {
			return intent
		}
	}

	// Follow-up stage: only with a previous city and intent in state.
	// The city is back-filled later by the orchestrator.
	if st.HasContext() {
		for _, ip := range catalog.FollowUp {
			for _, re := range ip.Patterns {
				if re.MatchString(lower) {
					return domain.Intent{Kind: ip.Kind, Confidence: confFollowUp}
				}
			}
		}
	}

	// General stage: first pattern of the first intent wins, in the
	// catalog's declared order. No score accumulation across intents.
	for _, ip := range catalog.General {
		for _, re := range ip.Patterns {
			if re.MatchString(lower) {
				conf := confGeneral
				if ip.Kind == domain.IntentHelp {
					conf = confHelp
				}
				return domain.Intent{Kind: ip.Kind, Confidence: conf}
			}
		}
	}

	return domain.Intent{Kind: domain.IntentUnknown, Confidence: 0}
}

// propertyFeatureGuard forces gap_analysis for any BHK or
// rent-anchored numeric mention: property-feature queries are
// structurally gap analysis even when they say "demand".
func (d *RuleDetector) propertyFeatureGuard(lower string) (domain.Intent, bool) {
	if bhkMentionRe.MatchString(lower) ||
		rentBeforeRe.MatchString(lower) ||
		rentAfterRe.MatchString(lower) ||
		avgRentRe.MatchString(lower) {
		return domain.Intent{Kind: domain.IntentGapAnalysis, Confidence: confGuard}, true
	}
	return domain.Intent{}, false
}

func qualityAdjustedGuard(lower string) (domain.Intent, bool) {
	if strings.Contains(lower, "quality") && strings.Contains(lower, "adjusted") {
		return domain.Intent{Kind: domain.IntentTenantQuality, Confidence: confOverride}, true
	}
	return domain.Intent{}, false
}

// investmentSafetyGuard routes safety/risk/grade investment questions
// to tenant_quality, overriding the generic invest -> gap_analysis
// association.
func (d *RuleDetector) investmentSafetyGuard(lower string) (domain.Intent, bool) {
	if safetyFirstRe.MatchString(lower) || investFirstRe.MatchString(lower) ||
		(d.citySafeRe != nil && d.citySafeRe.MatchString(lower)) {
		return domain.Intent{Kind: domain.IntentTenantQuality, Confidence: confOverride}, true
	}
	return domain.Intent{}, false
}

func singleCityRankGuard(lower string) (domain.Intent, bool) {
	switch {
	case topOneRe.MatchString(lower):
		return domain.Intent{Kind: domain.IntentTopCity, Confidence: confGuard}, true
	case bottomOneRe.MatchString(lower):
		return domain.Intent{Kind: domain.IntentBottomCity, Confidence: confGuard}, true
	case whichLowRe.MatchString(lower), showLowRe.MatchString(lower):
		return domain.Intent{Kind: domain.IntentBottomCity, Confidence: confGuard}, true
	case whichHighRe.MatchString(lower), showHighRe.MatchString(lower):
		return domain.Intent{Kind: domain.IntentTopCity, Confidence: confGuard}, true
	}
	return domain.Intent{}, false
}

func multiCityRankGuard(lower string) (domain.Intent, bool) {
	if !anyRankRe.MatchString(lower) {
		return domain.Intent{}, false
	}
	if bottomWordRe.MatchString(lower) {
		return domain.Intent{Kind: domain.IntentBottomCities, Confidence: confGuard}, true
	}
	return domain.Intent{Kind: domain.IntentTopCities, Confidence: confGuard}, true
}

func explicitGapGuard(lower string) (domain.Intent, bool) {
	if strings.Contains(lower, "gap") && strings.Contains(lower, "analys") {
		return domain.Intent{Kind: domain.IntentGapAnalysis, Confidence: confGuard}, true
	}
	return domain.Intent{}, false
}

func lowDemandGuard(lower string) (domain.Intent, bool) {
	if strings.Contains(lower, "low") && strings.Contains(lower, "demand") &&
		matchesAny(catalog.PatternsFor(domain.IntentLowDemand), lower) {
		return domain.Intent{Kind: domain.IntentLowDemand, Confidence: confGuard}, true
	}
	return domain.Intent{}, false
}

func lowGapGuard(lower string) (domain.Intent, bool) {
	trigger := strings.Contains(lower, "oversuppl") ||
		(strings.Contains(lower, "low") && strings.Contains(lower, "gap"))
	if trigger && matchesAny(catalog.PatternsFor(domain.IntentLowGap), lower) {
		return domain.Intent{Kind: domain.IntentLowGap, Confidence: confGuard}, true
	}
	return domain.Intent{}, false
}

func undersuppliedGuard(lower string) (domain.Intent, bool) {
	if strings.Contains(lower, "undersuppl") &&
		matchesAny(catalog.PatternsFor(domain.IntentGapAnalysis), lower) {
		return domain.Intent{Kind: domain.IntentGapAnalysis, Confidence: confWeak}, true
	}
	return domain.Intent{}, false
}

func matchesAny(patterns []*regexp.Regexp, lower string) bool {
	for _, re := range patterns {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

func buildCitySafeRe(cities []string) *regexp.Regexp {
	if len(cities) == 0 {
		return nil
	}
	quoted := make([]string, 0, len(cities))
	for _, c := range cities {
		quoted = append(quoted, regexp.QuoteMeta(strings.ToLower(c)))
	}
	return regexp.MustCompile(`is.*(?:` + strings.Join(quoted, "|") + `).*safe`)
}
