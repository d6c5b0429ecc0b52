package catalog

// FallbackCities is the static city list used when the demand
// collaborator's /cities endpoint is unreachable at bootstrap.
var FallbackCities = []string{
	"Mumbai", "Delhi", "Bangalore", "Hyderabad", "Chennai",
	"Kolkata", "Pune", "Ahmedabad", "Jaipur", "Surat",
}

// CityAliases maps historical and variant spellings to canonical city
// names. Matching is done on the lower-cased query.
var CityAliases = map[string]string{
	"bombay":    "Mumbai",
	"calcutta":  "Kolkata",
	"madras":    "Chennai",
	"bangalore": "Bangalore",
	"bengaluru": "Bangalore",
}

// CityFallbackDeny lists capitalized tokens the prepositional fallback
// ("in <Word>") must not mistake for a city.
var CityFallbackDeny = map[string]bool{
	"August":    true,
	"September": true,
	"October":   true,
	"Mumbai":    true,
	"Delhi":     true,
	"Year":      true,
	"Month":     true,
	"Demand":    true,
	"Quality":   true,
}

// QuestionWords lists capitalized tokens excluded from locality
// candidacy.
var QuestionWords = map[string]bool{
	"Which": true,
	"What":  true,
	"Where": true,
	"How":   true,
	"Show":  true,
	"Tell":  true,
	"Find":  true,
}
