package respond

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rentpulse/rentpulse-assistant-go/internal/domain"
)

func localityLine(loc domain.Result) string {
	return fmt.Sprintf("%s (%s listings, gap: %+.2f)",
		loc.Str("locality", "Unknown"), comma(int(loc.Num("demand"))), loc.Num("gap"))
}

func (r *Renderer) gapAnalysis(res domain.Result) string {
	if res.Failed() {
		return "I apologize, but I'm currently unable to access the gap analysis service. In the meantime, I'd be happy to help you with demand forecasting or historical trend analysis."
	}

	if _, ok := res["locality_data"]; !ok {
		// Single-locality prediction.
		city := res.Str("city", "the city")
		locality := res.Str("area_locality", "the area")
		gapRatio := res.Num("predicted_gap_ratio")
		severity := res.Str("gap_severity", "unknown")
		status := res.Str("demand_supply_status", "unknown")

		out := fmt.Sprintf("Analysis for %s in %s: Gap ratio of %.3f (%s severity). ", locality, city, gapRatio, severity)
		if status == "demand_exceeds_supply" {
			out += "Market status: Demand exceeds supply (undersupplied). Properties typically rent quickly with lower vacancy rates."
		} else {
			out += "Market status: Supply exceeds demand (oversupplied). Higher competition among landlords with increased vacancy risk."
		}
		return out
	}

	city := res.Str("city", "the city")
	localities := res.List("locality_data")

	avgGap := 0.0
	if len(localities) > 0 {
		for _, loc := range localities {
			avgGap += loc.Num("gap")
		}
		avgGap /= float64(len(localities))
	}

	severity := "low"
	switch {
	case avgGap > 0.3 || avgGap < -0.3:
		severity = "high"
	case avgGap > 0.1 || avgGap < -0.1:
		severity = "medium"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Based on gap analysis for **%s**, here are the **top undersupplied areas** (best for investment):\n\n", city)
	for i, loc := range localities {
		if i == 5 {
			break
		}
		fmt.Fprintf(&b, "%d. **%s**: %s listings, Gap: %+.2f\n",
			i+1, loc.Str("locality", "Unknown"), comma(int(loc.Num("demand"))), loc.Num("gap"))
	}
	fmt.Fprintf(&b, "\n**Market Summary**: Average gap ratio of %+.3f (%s severity)", avgGap, severity)

	switch {
	case avgGap > 0.1:
		b.WriteString("\n\nThese areas show strong demand exceeding supply. Properties typically rent quickly with lower vacancy rates. Excellent investment opportunities.")
	case avgGap < -0.1:
		b.WriteString("\n\nThese areas show supply exceeding demand. Higher vacancy rates and competitive pricing are typical. Favorable for renters.")
	default:
		b.WriteString("\n\nThe market shows balanced supply-demand conditions with moderate competition.")
	}
	return b.String()
}

func (r *Renderer) lowDemand(res domain.Result) string {
	if res.Failed() {
		return "Hmm, I'm having trouble accessing the demand data right now. 🤔\n\nBut I can help you find low-demand areas once the service is back up!\n"
	}
	if _, ok := res["locality_data"]; !ok {
		return "I need more data to show you low-demand areas. Try asking about a specific city!"
	}

	city := res.Str("city", "the city")
	localities := res.List("locality_data")

	sorted := make([]domain.Result, len(localities))
	copy(sorted, localities)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Num("demand") < sorted[j].Num("demand")
	})
	if len(sorted) > 5 {
		sorted = sorted[:5]
	}

	hasLowDemand := false
	descriptions := make([]string, 0, len(sorted))
	for _, loc := range sorted {
		if loc.Num("gap") < 0 {
			hasLowDemand = true
		}
		descriptions = append(descriptions, localityLine(loc))
	}

	if hasLowDemand {
		return fmt.Sprintf("Lowest demand areas in %s: %s. Negative gap values indicate supply exceeds demand. Investors should be aware that these areas may experience lower rental yields and higher vacancy risk.", city, joinAnd(descriptions))
	}
	return fmt.Sprintf("All areas in %s show high demand. Areas with relatively lower competition include %s. The market remains competitive overall.", city, joinAnd(descriptions))
}

func (r *Renderer) lowGap(res domain.Result) string {
	if res.Failed() {
		return "Hmm, I'm having trouble accessing the gap analysis data right now. 🤔\n\nBut I can help you find oversupplied areas once the service is back up!\n"
	}
	if _, ok := res["locality_data"]; !ok {
		return "I need more data to show you oversupplied areas. Try asking about a specific city!"
	}

	city := res.Str("city", "the city")
	// Collaborator already sorted ascending by gap; the most oversupplied
	// localities come first.
	localities := res.List("locality_data")
	if len(localities) > 5 {
		localities = localities[:5]
	}

	hasOversupply := false
	descriptions := make([]string, 0, len(localities))
	for _, loc := range localities {
		if loc.Num("gap") < 0 {
			hasOversupply = true
		}
		descriptions = append(descriptions, localityLine(loc))
	}

	if hasOversupply {
		return fmt.Sprintf("Highest oversupply areas in %s: %s. Negative gap values indicate supply exceeds demand. While this benefits renters, investors should be cautious of higher vacancy risks and potentially lower returns in these locations.", city, joinAnd(descriptions))
	}
	switch len(descriptions) {
	case 0:
		return fmt.Sprintf("No oversupplied areas found in %s. The market appears to be undersupplied overall.", city)
	case 1:
		return fmt.Sprintf("No oversupplied areas found in %s. Least undersupplied area: %s. Market remains undersupplied overall.", city, descriptions[0])
	default:
		return fmt.Sprintf("No oversupplied areas found in %s. Least undersupplied areas: %s. Market remains undersupplied overall.", city, joinAnd(descriptions))
	}
}

func (r *Renderer) historical(res domain.Result) string {
	if res.Failed() {
		return "I apologize, but I couldn't retrieve historical data right now. Please try again in a moment, or ask me for a demand forecast instead."
	}

	city := res.Str("city", "the city")
	series := res.List("historical_data")
	if len(series) == 0 {
		return fmt.Sprintf("No historical data available for %s.", city)
	}

	if len(series) > 6 {
		series = series[len(series)-6:]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Historical rental demand in %s:\n\n", city)
	for _, item := range series {
		fmt.Fprintf(&b, "- **%s %d**: %s listings\n",
			item.Str("month", ""), item.Int("year"), comma(int(item.Num("demand"))))
	}
	return b.String()
}

// Trend computes the percent change over the displayed window of a
// historical series. A final point that collapses below half of its
// predecessor is treated as a partial month and the predecessor is used
// instead. Returns false when fewer than two points exist or the first
// point is zero.
func Trend(res domain.Result) (float64, bool) {
	series := res.List("historical_data")
	if len(series) > 6 {
		series = series[len(series)-6:]
	}
	if len(series) < 2 {
		return 0, false
	}

	first := series[0].Num("demand")
	last := series[len(series)-1].Num("demand")
	if len(series) >= 3 {
		secondLast := series[len(series)-2].Num("demand")
		if last < secondLast*0.5 {
			last = secondLast
		}
	}
	if first == 0 {
		return 0, false
	}
	return (last - first) / first * 100, true
}
