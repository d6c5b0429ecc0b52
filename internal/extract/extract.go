// Package extract provides the entity extractors of the query
// understanding engine. Every extractor is a pure function over the
// raw query text: a miss returns the zero value, never an error.
package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rentpulse/rentpulse-assistant-go/internal/catalog"
	"github.com/rentpulse/rentpulse-assistant-go/internal/domain"
)

var (
	// Prepositional fallback so unseen cities ("in Palakkad") still
	// resolve. Trades precision for extensibility; false positives are
	// an accepted limitation of this pattern.
	cityFallbackRe = regexp.MustCompile(`(?:in|for|at|to)\s+([A-Z][a-z]+(?:-[A-Z][a-z]+)?)`)

	yearRe = regexp.MustCompile(`\b20\d{2}\b`)
	bhkRe  = regexp.MustCompile(`(\d)\s*bhk`)

	areaNumberRe   = regexp.MustCompile(`(Area\s+\d+)`)
	localityPrepRe = regexp.MustCompile(`(?:in|at)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`)
	localityTailRe = regexp.MustCompile(`([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)\s+(?:area|locality)`)

	nameRe = regexp.MustCompile(`(?i)(?:my name is|i am|i'm|this is|call me)\s+([A-Za-z]+(?:\s+[A-Za-z]+){0,2})`)
)

// rentPatterns are tried in order. kSuffix marks amounts given in
// thousands ("35k"); bare marks anchor-less patterns that must reject
// numbers immediately followed by "bhk" (a BHK count, not a rent).
var rentPatterns = []struct {
	re      *regexp.Regexp
	kSuffix bool
	bare    bool
}{
	{regexp.MustCompile(`(?:rent|rental)[:\s]+([\d,]+)k`), true, false},
	{regexp.MustCompile(`(?:rent|rental)[:\s]+([\d,]{4,})`), false, false},
	{regexp.MustCompile(`average.*?(?:rent|rental).*?([\d,]+)k`), true, false},
	{regexp.MustCompile(`average.*?(?:rent|rental).*?([\d,]{4,})`), false, false},
	{regexp.MustCompile(`([\d,]+)k\s*(?:rent|rental)`), true, false},
	{regexp.MustCompile(`([\d,]{4,})\s*(?:rent|rental)`), false, false},
	{regexp.MustCompile(`([\d,]+)k`), true, true},
	{regexp.MustCompile(`([\d,]{4,})`), false, true},
}

var bhkSuffixRe = regexp.MustCompile(`^\s*bhk`)

// City resolves a city mention: canonical list first, then the alias
// table, then the capitalized-word-after-preposition fallback.
func City(query string, cities []string) string {
	lower := strings.ToLower(query)

	for _, city := range cities {
		if strings.Contains(lower, strings.ToLower(city)) {
			return city
		}
	}

	for alias, city := range catalog.CityAliases {
		if strings.Contains(lower, alias) {
			return city
		}
	}

	if m := cityFallbackRe.FindStringSubmatch(query); m != nil {
		if !catalog.CityFallbackDeny[m[1]] {
			return m[1]
		}
	}
	return ""
}

// Locality pulls an area name out of the query. The structured
// "Area <n>" form wins over prepositional and trailing-keyword forms;
// interrogative words and known cities are never localities.
func Locality(query string, cities []string) string {
	candidates := [][]string{
		areaNumberRe.FindStringSubmatch(query),
		localityPrepRe.FindStringSubmatch(query),
		localityTailRe.FindStringSubmatch(query),
	}
	for _, m := range candidates {
		if m == nil {
			continue
		}
		loc := m[1]
		if catalog.QuestionWords[loc] || containsString(cities, loc) {
			continue
		}
		return loc
	}
	return ""
}

// Date extracts (year, month), defaulting each to the current date.
// It never fails.
func Date(query string) (year, month int) {
	now := time.Now()
	year, month = now.Year(), int(now.Month())

	if m := yearRe.FindString(query); m != "" {
		if y, err := strconv.Atoi(m); err == nil {
			year = y
		}
	}

	lower := strings.ToLower(query)
	for _, tok := range catalog.MonthTokens {
		if strings.Contains(lower, tok.Name) {
			month = tok.Num
			break
		}
	}
	return year, month
}

// BHK returns the single digit immediately preceding "bhk", or "".
func BHK(query string) string {
	if m := bhkRe.FindStringSubmatch(strings.ToLower(query)); m != nil {
		return m[1]
	}
	return ""
}

// Rent extracts a rent amount. Amounts outside the plausible
// 5,000–500,000 range are rejected so BHK counts and years are never
// mistaken for rents.
func Rent(query string) (int, bool) {
	lower := strings.ToLower(query)
	for _, p := range rentPatterns {
		loc := p.re.FindStringSubmatchIndex(lower)
		if loc == nil {
			continue
		}
		if p.bare && bhkSuffixRe.MatchString(lower[loc[1]:]) {
			continue
		}
		raw := strings.ReplaceAll(lower[loc[2]:loc[3]], ",", "")
		value, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		if p.kSuffix {
			value *= 1000
		}
		if value >= 5000 && value <= 500000 {
			return value, true
		}
	}
	return 0, false
}

// EconomicFactors extracts the sparse factor map: only keys actually
// present in the text, each range-validated per the catalog. Returns
// nil when nothing was found.
func EconomicFactors(query string) map[string]float64 {
	lower := strings.ToLower(query)
	var factors map[string]float64

	for _, spec := range catalog.Factors {
		for _, re := range spec.Patterns {
			m := re.FindStringSubmatch(lower)
			if m == nil {
				continue
			}
			value, err := strconv.ParseFloat(m[1], 64)
			if err != nil || value < spec.Min || value > spec.Max {
				continue
			}
			if factors == nil {
				factors = make(map[string]float64)
			}
			factors[spec.Key] = value
			break
		}
	}
	return factors
}

// Name extracts a self-introduced user name ("my name is X", "call me
// X"), title-cased.
func Name(query string) string {
	m := nameRe.FindStringSubmatch(query)
	if m == nil {
		return ""
	}
	words := strings.Fields(m[1])
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// All bundles every extractor for the introspection endpoint.
func All(query string, cities []string) domain.Entities {
	year, month := Date(query)
	rent, _ := Rent(query)
	return domain.Entities{
		City:            City(query, cities),
		Locality:        Locality(query, cities),
		Year:            year,
		Month:           month,
		BHK:             BHK(query),
		Rent:            rent,
		Name:            Name(query),
		EconomicFactors: EconomicFactors(query),
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
