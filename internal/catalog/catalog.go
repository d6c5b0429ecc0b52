// Package catalog holds the read-only static data the query
// understanding engine matches against: per-intent pattern tables,
// follow-up continuation patterns, economic factor patterns, the city
// alias table and the month table. No behavior lives here.
package catalog

import (
	"regexp"

	"github.com/rentpulse/rentpulse-assistant-go/internal/domain"
)

// IntentPatterns pairs an intent with its pattern list. All patterns
// are matched against the lower-cased query.
type IntentPatterns struct {
	Kind     domain.IntentKind
	Patterns []*regexp.Regexp
}

// General is the full pattern table for the first-match-wins cascade.
// The slice order is the documented resolution order: a query matching
// patterns from two intents resolves to whichever comes first here,
// not to a "better" match. This is a known precision trade-off kept
// from the original behavior; tune by reordering, not by scoring.
var General = []IntentPatterns{
	{domain.IntentGreeting, compile(
		`^(hi|hello|hey|greetings|hola|namaste)\b`,
		`good\s+(morning|afternoon|evening|day)`,
		`^(yo|sup|wassup)\b`,
	)},
	{domain.IntentThankYou, compile(
		`(thank|thanks|thx|appreciate)`,
		`grateful`,
		`you.*(?:helped|great|awesome|amazing)`,
	)},
	{domain.IntentGoodbye, compile(
		`(bye|goodbye|see you|farewell|later)`,
		`have.*(?:good|nice).*day`,
		`take care`,
	)},
	{domain.IntentDemandForecast, compile(
		`demand.*(?:in|for|at)\s+(\w+)`,
		`forecast.*(?:in|for|at)\s+(\w+)`,
		`rental.*demand.*(\w+)`,
		`how.*many.*(?:in|at)\s+(\w+)`,
		`predict.*demand.*(\w+)`,
		`what.*demand.*(\w+)`,
		`(\w+).*demand`,
		`demand.*(\w+)`,
		`how'?s?\s+(?:is|are)?\s*(\w+)\s+(?:doing|performing)`,
		`how.*(?:is|are).*(\w+).*(?:doing|market|performing)`,
		`(\w+).*rental.*market`,
		`tell.*(?:me|us).*(?:about|demand).*(\w+)`,
		`know.*demand.*(\w+)`,
		`what.*about.*(\w+)`,
		`(?:and|how).*about.*(\w+)`,
	)},
	{domain.IntentGapAnalysis, compile(
		`gap.*(?:in|for|at)\s+(\w+)`,
		`supply.*demand.*(\w+)`,
		`opportunity.*(?:in|at)\s+(\w+)`,
		`invest.*(?:in|at)\s+(\w+)`,
		`which.*(?:area|locality).*(\w+)`,
		`best.*(?:area|locality).*(\w+)`,
		`should.*invest.*(\w+)`,
		`(?:is|are).*(\w+).*good.*invest`,
		`(?:where|which).*(?:should|can).*invest.*(\w+)`,
		`(\w+).*(?:investment|invest).*(?:opportunit|area)`,
		`(?:show|find|get).*(?:opportunit|invest).*(\w+)`,
		`(?:best|top|good).*(?:area|localit|place).*(?:invest|buy).*(\w+)`,
		`(\w+).*(?:gap|supply|demand).*analys`,
		`(?:what|tell|show).*(?:about|me).*gap.*analys`,
		`gap.*analys.*(\w+)`,
		`(?:demand|supply).*gap.*(\w+)`,
		`analyz.*gap.*(\w+)`,
		`where.*(?:invest|buy).*(\w+)`,
		`(\w+).*opportunities`,
		`(\w+).*investment`,
		`undersuppl.*(?:area|localit).*(\w+)`,
		`(?:are|any).*undersuppl.*(\w+)`,
		`show.*undersuppl.*(\w+)`,
		`which.*undersuppl.*(\w+)`,
		`high.*demand.*(?:area|localit).*(\w+)`,
		`\d+\s*bhk.*(?:in|at|for)\s+(\w+)`,
		`(?:with|having)\s*\d+\s*bhk`,
		`bhk.*\d+.*(\w+)`,
		`(?:rent|rental).*\d+.*(\w+)`,
		`average.*rent.*\d+`,
		`\d+k?\s*(?:rent|rental)`,
		`(?:area|locality).*\d+`,
	)},
	{domain.IntentLowGap, compile(
		`low.*gap.*(\w+)`,
		`oversuppl.*(\w+)`,
		`(?:which|what).*(?:area|localit).*oversuppl.*(\w+)`,
		`(?:which|what).*(?:area|localit).*low.*gap.*(\w+)`,
		`renter.*market.*(\w+)`,
		`buyer.*market.*(\w+)`,
		`(?:show|find).*oversuppl.*(\w+)`,
		`(?:any|are there).*oversuppl.*(\w+)`,
	)},
	{domain.IntentTopCities, compile(
		`(?:top|best|highest).*(?:5|five|10|ten)?.*cit`,
		`(?:which|what).*(?:best|top).*cit.*(?:invest|demand)`,
		`(?:rank|list).*cit.*(?:demand|invest)`,
		`(?:show|give).*(?:top|best).*cit`,
		`cit.*(?:highest|most).*demand`,
	)},
	{domain.IntentBottomCities, compile(
		`(?:worst|lowest|bottom).*(?:5|five|10|ten)?.*cit`,
		`(?:which|what).*(?:worst|lowest|bad).*cit`,
		`cit.*(?:lowest|least).*demand`,
		`(?:avoid|bad).*cit.*invest`,
	)},
	{domain.IntentTopCity, compile(
		`(?:top|best|highest|number.*1|#1).*(?:1|one|single).*cit`,
		`(?:which|what).*(?:is|the).*(?:best|top).*(?:single|one|1).*cit`,
		`(?:best|top).*cit.*(?:overall|absolute)`,
		`(?:single|one).*(?:best|top).*cit`,
	)},
	{domain.IntentBottomCity, compile(
		`(?:worst|lowest|bottom|last).*(?:1|one|single).*cit`,
		`(?:which|what).*(?:is|the).*(?:worst|lowest).*(?:single|one|1).*cit`,
		`(?:worst|lowest).*cit.*(?:overall|absolute)`,
		`(?:single|one).*(?:worst|lowest).*cit`,
		`(?:show|give|tell).*(?:the|me)?.*cit.*(?:with|has).*(?:lowest|worst).*demand`,
		`(?:which|what).*cit.*(?:has|with).*(?:lowest|worst|least).*demand`,
	)},
	{domain.IntentLowDemand, compile(
		`low.*demand.*(\w+)`,
		`least.*demand.*(\w+)`,
		`(?:which|what).*(?:area|localit).*low.*demand.*(\w+)`,
		`(?:cheap|affordable|budget).*(?:area|localit).*(\w+)`,
		`where.*(?:cheap|affordable|budget).*(\w+)`,
		`(\w+).*low.*demand`,
	)},
	{domain.IntentHistorical, compile(
		`historical.*(?:in|for)\s+(\w+)`,
		`past.*data.*(\w+)`,
		`trend.*(?:in|for)\s+(\w+)`,
		`show.*history.*(\w+)`,
	)},
	{domain.IntentHelp, compile(
		`help`,
		`what.*can.*do`,
		`how.*work`,
		`guide`,
		`assist`,
	)},
	{domain.IntentTenantQuality, compile(
		`tenant.*quality.*(\w+)`,
		`risk.*score.*(\w+)`,
		`invest.*grade.*(\w+)`,
		`quality.*tenant.*(\w+)`,
		`churn.*risk.*(\w+)`,
		`financial.*health.*(\w+)`,
		`safe.*invest.*(\w+)`,
		`how.*safe.*(\w+)`,
		`tenant.*profile.*(\w+)`,
		`quality.*adjusted.*(\w+)`,
	)},
}

// FollowUp holds the short continuation phrases consulted only when the
// dialogue state carries a previous city and intent. A match resolves
// to the intent without requiring a city mention.
var FollowUp = []IntentPatterns{
	{domain.IntentDemandForecast, compile(
		`^(?:and|what about|how about).*(?:demand|forecast)`,
		`^(?:show|tell).*(?:demand|forecast)`,
		`^demand`,
		`^(?:and\s+)?(?:what|how)\s+about`,
	)},
	{domain.IntentGapAnalysis, compile(
		`^(?:and|what about|how about).*(?:gap|invest|opportunit)`,
		`^(?:show|tell).*(?:gap|invest|opportunit)`,
		`^(?:where|which).*(?:invest|area|localit)`,
		`^gap`,
		`^(?:and|what).*(?:the)?\s*gap`,
	)},
	{domain.IntentHistorical, compile(
		`^(?:and|what about|how about).*(?:historical|trend|past)`,
		`^(?:show|tell).*(?:historical|trend|past|history)`,
		`^(?:historical|trend)`,
	)},
}

// FactorSpec describes one economic factor: its keyword-anchored
// patterns (first match wins) and its plausibility range.
type FactorSpec struct {
	Key      string
	Patterns []*regexp.Regexp
	Min, Max float64
}

// Factors lists the extractable economic factors. Values outside the
// range are discarded, not clamped.
var Factors = []FactorSpec{
	{
		Key: domain.FactorInflation,
		Patterns: compile(
			`(\d+\.?\d*)%?\s*inflation\b`,
			`\binflation\b.*?(\d+\.?\d*)%?`,
		),
		Min: 0, Max: 20,
	},
	{
		Key: domain.FactorInterest,
		Patterns: compile(
			`(\d+\.?\d*)%?\s*interest\s+rate\b`,
			`\binterest\s+rate\b.*?(\d+\.?\d*)%?`,
			`(\d+\.?\d*)%?\s*interest\b`,
			`\binterest\b.*?(\d+\.?\d*)%?`,
		),
		Min: 0, Max: 20,
	},
	{
		Key: domain.FactorEmployment,
		Patterns: compile(
			`(\d+\.?\d*)%?\s*employment\b`,
			`\bemployment\b.*?(\d+\.?\d*)%?`,
		),
		Min: 50, Max: 100,
	},
}

// PatternsFor returns the general pattern list of one intent.
func PatternsFor(kind domain.IntentKind) []*regexp.Regexp {
	for _, ip := range General {
		if ip.Kind == kind {
			return ip.Patterns
		}
	}
	return nil
}

func compile(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, regexp.MustCompile(e))
	}
	return out
}
