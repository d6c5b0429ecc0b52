package domain

// Entities is the bundle of values pulled out of one raw query.
// Every field is independently optional; a missing entity is the zero
// value, never an error.
type Entities struct {
	City     string `json:"city,omitempty"`
	Locality string `json:"locality,omitempty"`
	Year     int    `json:"year,omitempty"`
	Month    int    `json:"month,omitempty"`
	BHK      string `json:"bhk,omitempty"`
	Rent     int    `json:"rent,omitempty"`
	Name     string `json:"name,omitempty"`

	// EconomicFactors is sparse: only the factors actually present in
	// the text appear. Callers merge with defaults at the dispatch
	// boundary; they must never assume all three keys exist.
	EconomicFactors map[string]float64 `json:"economic_factors,omitempty"`
}

// Economic factor keys and their documented dispatch-boundary defaults.
const (
	FactorInflation  = "inflation_rate"
	FactorInterest   = "interest_rate"
	FactorEmployment = "employment_rate"

	DefaultInflation  = 6.5
	DefaultInterest   = 7.0
	DefaultEmployment = 85.0
)

// MergeFactorDefaults fills the three economic factor keys, keeping any
// extracted values. Used only where a collaborator call is built.
func MergeFactorDefaults(extracted map[string]float64) map[string]float64 {
	merged := map[string]float64{
		FactorInflation:  DefaultInflation,
		FactorInterest:   DefaultInterest,
		FactorEmployment: DefaultEmployment,
	}
	for k, v := range extracted {
		merged[k] = v
	}
	return merged
}
