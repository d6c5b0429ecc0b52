package domain

// IntentKind enumerates the user goals the engine can resolve a query to.
type IntentKind string

const (
	IntentGreeting       IntentKind = "greeting"
	IntentThankYou       IntentKind = "thank_you"
	IntentGoodbye        IntentKind = "goodbye"
	IntentDemandForecast IntentKind = "demand_forecast"
	IntentGapAnalysis    IntentKind = "gap_analysis"
	IntentLowDemand      IntentKind = "low_demand"
	IntentLowGap         IntentKind = "low_gap"
	IntentTopCities      IntentKind = "top_cities"
	IntentBottomCities   IntentKind = "bottom_cities"
	IntentTopCity        IntentKind = "top_city"
	IntentBottomCity     IntentKind = "bottom_city"
	IntentHistorical     IntentKind = "historical"
	IntentTenantQuality  IntentKind = "tenant_quality"
	IntentHelp           IntentKind = "help"
	IntentUnknown        IntentKind = "unknown"
)

// AllIntentKinds lists every classifiable intent, in catalog order.
var AllIntentKinds = []IntentKind{
	IntentGreeting, IntentThankYou, IntentGoodbye,
	IntentDemandForecast, IntentGapAnalysis, IntentLowGap,
	IntentTopCities, IntentBottomCities, IntentTopCity, IntentBottomCity,
	IntentLowDemand, IntentHistorical, IntentHelp, IntentTenantQuality,
	IntentUnknown,
}

// Intent is the result of classifying one query turn.
type Intent struct {
	Kind       IntentKind `json:"intent"`
	Confidence float64    `json:"confidence"`
}

// Smalltalk reports whether the intent is handled with a canned response,
// skipping entity resolution and collaborator calls.
func (i Intent) Smalltalk() bool {
	switch i.Kind {
	case IntentGreeting, IntentThankYou, IntentGoodbye, IntentHelp:
		return true
	}
	return false
}

// Ranking reports whether the intent compares cities against each
// other. Ranking answers never reference a remembered city.
func (k IntentKind) Ranking() bool {
	switch k {
	case IntentTopCities, IntentBottomCities, IntentTopCity, IntentBottomCity:
		return true
	}
	return false
}

// CityAgnostic reports whether the intent dispatches without a city
// entity: the ranking intents compare all cities, and unknown falls
// through to the suggestion response.
func (i Intent) CityAgnostic() bool {
	switch i.Kind {
	case IntentTopCities, IntentBottomCities, IntentTopCity, IntentBottomCity, IntentUnknown:
		return true
	}
	return false
}
